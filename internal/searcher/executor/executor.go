// Package executor evaluates boolean query plans against an inverted index.
package executor

import (
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/ranker"
)

// MatchScore is the score of every document a boolean query retrieves.
const MatchScore = 1.0

type Executor struct {
	index      *index.InvertedIndex
	normalizer *tokenizer.Normalizer
	logger     *slog.Logger
}

// New returns an Executor over ix. Query terms are normalised with the
// options ix was built with.
func New(ix *index.InvertedIndex, n *tokenizer.Normalizer) *Executor {
	return &Executor{
		index:      ix,
		normalizer: n,
		logger:     slog.Default().With("component", "boolean-executor"),
	}
}

// Evaluate folds the plan left to right: the first clause seeds the result
// (the universe minus its postings when negated), then each clause
// subtracts when negated, unions after '|' and intersects after '&'. An
// empty plan yields an empty set.
func (e *Executor) Evaluate(plan *parser.QueryPlan) *roaring.Bitmap {
	if len(plan.Clauses) == 0 {
		return roaring.New()
	}
	opts := e.index.Options()
	postings := func(c parser.Clause) *roaring.Bitmap {
		return e.index.Postings(e.normalizer.NormalizeTerm(c.Term, opts))
	}

	first := plan.Clauses[0]
	var result *roaring.Bitmap
	if first.Negated {
		result = roaring.AndNot(e.index.Universe(), postings(first))
	} else {
		result = postings(first).Clone()
	}
	for _, c := range plan.Clauses[1:] {
		switch {
		case c.Negated:
			result.AndNot(postings(c))
		case c.Op == parser.OpOr:
			result.Or(postings(c))
		default:
			result.And(postings(c))
		}
	}
	return result
}

// Execute evaluates plan and scores every match MatchScore, ordered by
// document id. A limit of zero or less keeps every match.
func (e *Executor) Execute(plan *parser.QueryPlan, limit int) []ranker.ScoredDoc {
	matches := e.Evaluate(plan)
	results := make([]ranker.ScoredDoc, 0, matches.GetCardinality())
	it := matches.Iterator()
	for it.HasNext() {
		if limit > 0 && len(results) >= limit {
			break
		}
		results = append(results, ranker.ScoredDoc{DocID: int(it.Next()), Score: MatchScore})
	}
	e.logger.Debug("boolean query executed",
		"query", plan.RawQuery,
		"plan", plan.String(),
		"matches", matches.GetCardinality(),
		"results", len(results),
	)
	return results
}
