package model

import (
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/ranker"
)

// Linear scans every document on each query. It keeps no index.
type Linear struct {
	base
}

// Match is 1 when any query term occurs in the document, otherwise 0.
func (m *Linear) Match(doc, query Representation) float64 {
	present := make(map[string]struct{}, len(doc.Terms))
	for _, t := range doc.Terms {
		present[t] = struct{}{}
	}
	for _, t := range query.Terms {
		if _, ok := present[t]; ok {
			return 1
		}
	}
	return 0
}

func (m *Linear) Search(query string, opts tokenizer.Options, limit int) []ranker.ScoredDoc {
	q := m.QueryRepresentation(query, opts)
	results := make([]ranker.ScoredDoc, 0)
	for _, doc := range m.docs {
		if score := m.Match(m.DocumentRepresentation(doc, opts), q); score > 0 {
			results = append(results, ranker.ScoredDoc{DocID: doc.ID, Score: score})
		}
	}
	ranker.Sort(results)
	return truncate(results, limit)
}

func (m *Linear) Reset() {}
