package model

import (
	"time"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/signature"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/ranker"
)

// Signature filters documents by superimposed-coding signatures. Matches
// may include false positives.
type Signature struct {
	base
	cfg   signature.Config
	mode  signature.MatchMode
	store *signature.Store
}

func (m *Signature) DocumentRepresentation(doc document.Document, opts tokenizer.Options) Representation {
	r := m.base.DocumentRepresentation(doc, opts)
	r.Signature = signature.New(m.cfg, r.Terms)
	return r
}

func (m *Signature) QueryRepresentation(query string, opts tokenizer.Options) Representation {
	r := m.base.QueryRepresentation(query, opts)
	r.Signature = signature.New(m.cfg, r.Terms)
	return r
}

// Match panics: signature retrieval has no per-document score.
func (m *Signature) Match(doc, query Representation) float64 {
	unsupported(m.kind, "match")
	return 0
}

// Search scores every matching document 1.0, in id order. A query with no
// terms after normalisation matches nothing.
func (m *Signature) Search(query string, opts tokenizer.Options, limit int) []ranker.ScoredDoc {
	store := m.ensure(opts)
	q := m.QueryRepresentation(query, opts)
	ids := store.Match(q.Signature, m.mode)
	results := make([]ranker.ScoredDoc, 0, len(ids))
	for _, id := range ids {
		results = append(results, ranker.ScoredDoc{DocID: id, Score: 1})
	}
	return truncate(results, limit)
}

func (m *Signature) Reset() { m.store = nil }

// MatchMode returns the configured comparison.
func (m *Signature) MatchMode() signature.MatchMode { return m.mode }

func (m *Signature) ensure(opts tokenizer.Options) *signature.Store {
	if m.store != nil && m.store.Options() == opts {
		return m.store
	}
	start := time.Now()
	s := signature.Build(m.cfg, m.docs, m.normalizer, opts)
	m.store = s
	m.built(start, s.Len(), opts)
	return s
}
