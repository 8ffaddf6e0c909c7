package model

import (
	"time"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/ranker"
)

// InvertedList answers boolean queries (see package parser) from an
// inverted index of document-id bitmaps.
type InvertedList struct {
	base
	index *index.InvertedIndex
}

// QueryRepresentation returns the normalised non-negated operands of the
// boolean query.
func (m *InvertedList) QueryRepresentation(query string, opts tokenizer.Options) Representation {
	plan := parser.Parse(query)
	terms := make([]string, 0, len(plan.Clauses))
	for _, t := range plan.Terms() {
		terms = append(terms, m.normalizer.NormalizeTerm(t, opts))
	}
	return Representation{Terms: terms, Options: opts}
}

// Match panics: boolean retrieval has no per-document score.
func (m *InvertedList) Match(doc, query Representation) float64 {
	unsupported(m.kind, "match")
	return 0
}

func (m *InvertedList) Search(query string, opts tokenizer.Options, limit int) []ranker.ScoredDoc {
	ix := m.ensure(opts)
	return executor.New(ix, m.normalizer).Execute(parser.Parse(query), limit)
}

func (m *InvertedList) Reset() { m.index = nil }

// Index returns the index for opts, building it if needed.
func (m *InvertedList) Index(opts tokenizer.Options) *index.InvertedIndex { return m.ensure(opts) }

func (m *InvertedList) ensure(opts tokenizer.Options) *index.InvertedIndex {
	if m.index != nil && m.index.Options() == opts {
		return m.index
	}
	start := time.Now()
	ix := index.BuildInverted(m.docs, m.normalizer, opts)
	m.index = ix
	m.built(start, ix.TermCount(), opts)
	return ix
}
