package model

import (
	"time"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/ranker"
)

// Vector ranks documents by TF-IDF similarity normalised by document
// length.
type Vector struct {
	base
	index *index.VectorIndex
}

// Match returns sum(q_w * d_w) / |d| using the collection statistics for
// the query's options, the same score Search assigns.
func (m *Vector) Match(doc, query Representation) float64 {
	return ranker.Score(query.Terms, doc.Terms, m.ensure(query.Options))
}

func (m *Vector) Search(query string, opts tokenizer.Options, limit int) []ranker.ScoredDoc {
	ix := m.ensure(opts)
	return ranker.Rank(m.QueryRepresentation(query, opts).Terms, ix, limit)
}

func (m *Vector) Reset() { m.index = nil }

func (m *Vector) ensure(opts tokenizer.Options) *index.VectorIndex {
	if m.index != nil && m.index.Options() == opts {
		return m.index
	}
	start := time.Now()
	ix := index.BuildVector(m.docs, m.normalizer, opts)
	m.index = ix
	m.built(start, ix.TermCount(), opts)
	return ix
}
