package executor

import (
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/parser"
)

func newExecutor(opts tokenizer.Options) *Executor {
	docs := document.Collection{
		{ID: 1, Terms: []string{"a", "b"}},
		{ID: 2, Terms: []string{"a"}},
		{ID: 3, Terms: []string{"b", "wolves"}},
	}
	n := tokenizer.NewNormalizer(tokenizer.NewStopwordSet([]string{"b"}), nil)
	return New(index.BuildInverted(docs, n, opts), n)
}

func TestEvaluate(t *testing.T) {
	e := newExecutor(tokenizer.Options{Stemming: true})
	tests := []struct {
		query string
		want  []int
	}{
		{"a & b", []int{1}},
		{"a b", []int{1}},
		{"a | b", []int{1, 2, 3}},
		{"-a", []int{3}},
		{"a & -b", []int{2}},
		{"a | -b", []int{2}},
		{"b | a & -b", []int{2}},
		{"-a | a", []int{1, 2, 3}},
		{"A", []int{1, 2}},
		{"unicorn", []int{}},
		{"unicorn | a", []int{1, 2}},
		{"a & unicorn", []int{}},
		{"-unicorn", []int{1, 2, 3}},
		{"wolf", []int{}},
		{"wolves", []int{3}},
		{"& | a", []int{1, 2}},
		{"", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := index.DocIDs(e.Evaluate(parser.Parse(tt.query)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestEvaluateDoesNotMutateIndex(t *testing.T) {
	e := newExecutor(tokenizer.Options{})
	before := e.index.Postings("a").GetCardinality()
	e.Evaluate(parser.Parse("a & b"))
	e.Evaluate(parser.Parse("-a"))
	if after := e.index.Postings("a").GetCardinality(); after != before {
		t.Errorf("postings of a changed from %d to %d", before, after)
	}
	if e.index.Universe().GetCardinality() != 3 {
		t.Error("universe changed")
	}
}

func TestStopwordsNotAppliedToQueryTerms(t *testing.T) {
	e := newExecutor(tokenizer.Options{StopwordFiltering: true})
	if got := index.DocIDs(e.Evaluate(parser.Parse("b"))); len(got) != 0 {
		t.Errorf("filtered index should not contain b, got %v", got)
	}
	if got := index.DocIDs(e.Evaluate(parser.Parse("a | b"))); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Evaluate(a | b) = %v", got)
	}
}

func TestExecute(t *testing.T) {
	e := newExecutor(tokenizer.Options{})
	got := e.Execute(parser.Parse("a | b"), 2)
	if len(got) != 2 || got[0].DocID != 1 || got[1].DocID != 2 {
		t.Fatalf("Execute = %v", got)
	}
	for _, sd := range got {
		if sd.Score != MatchScore {
			t.Errorf("score = %v, want %v", sd.Score, MatchScore)
		}
	}
	if all := e.Execute(parser.Parse("a | b"), 0); len(all) != 3 {
		t.Errorf("unlimited Execute returned %d results", len(all))
	}
}
