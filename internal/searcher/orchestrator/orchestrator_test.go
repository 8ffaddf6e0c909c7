package orchestrator

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/model"
	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/metrics"
)

func collection(n int) document.Collection {
	docs := make(document.Collection, n)
	for i := range docs {
		docs[i] = document.Document{ID: i, Title: "fable", Terms: []string{"the", "wolf", "and", "lamb"}}
	}
	return docs
}

func TestSearchWithoutModel(t *testing.T) {
	o := New(collection(3))
	if _, err := o.Search("wolf", false, false); !errors.Is(err, apperrors.ErrNoActiveModel) {
		t.Errorf("Search error = %v, want ErrNoActiveModel", err)
	}
	if _, ok := o.ModelKind(); ok {
		t.Error("no model should be active")
	}
}

func TestInvertedSearchNeverAliasesLargeIDs(t *testing.T) {
	docs := document.Collection{
		{ID: 0, Title: "zero", Terms: []string{"lamb"}},
		{ID: document.MaxID + 1, Title: "big", Terms: []string{"wolf"}},
	}
	if err := docs.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("Validate error = %v, want ErrInvalidInput", err)
	}
	o := New(docs)
	if err := o.SetModel(model.KindInverted); err != nil {
		t.Fatal(err)
	}
	results, err := o.Search("wolf", false, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Document.ID == 0 {
			t.Errorf("wolf matched document 0 %q", r.Document.Title)
		}
	}
	if err := o.SetCollection(docs); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("SetCollection error = %v, want ErrInvalidInput", err)
	}
}

func TestSearchTruncatesToOutputK(t *testing.T) {
	o := New(collection(8))
	if err := o.SetModel(model.KindLinear); err != nil {
		t.Fatal(err)
	}
	results, err := o.Search("wolf", false, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != DefaultOutputK {
		t.Fatalf("len(results) = %d, want %d", len(results), DefaultOutputK)
	}
	for i, r := range results {
		if r.Document.ID != i || r.Score != 1 {
			t.Errorf("results[%d] = %+v", i, r)
		}
	}
	if err := o.SetOutputK(2); err != nil {
		t.Fatal(err)
	}
	if results, _ := o.Search("wolf", false, false); len(results) != 2 {
		t.Errorf("after SetOutputK(2) got %d results", len(results))
	}
	if results, _ := o.SearchWithLimit("wolf", tokenizer.Options{}, 7); len(results) != 7 {
		t.Errorf("explicit limit gave %d results", len(results))
	}
	if err := o.SetOutputK(0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("SetOutputK(0) = %v", err)
	}
}

func TestSetModelByName(t *testing.T) {
	o := New(collection(2))
	if err := o.SetModelByName("bm25"); !errors.Is(err, apperrors.ErrUnknownModel) {
		t.Errorf("SetModelByName(bm25) = %v", err)
	}
	for _, name := range []string{"linear", "inverted", "signature", "vector"} {
		if err := o.SetModelByName(name); err != nil {
			t.Fatalf("SetModelByName(%s): %v", name, err)
		}
		kind, ok := o.ModelKind()
		if !ok || string(kind) != name {
			t.Errorf("ModelKind = %v, %v", kind, ok)
		}
		if _, err := o.Search("wolf", true, true); err != nil {
			t.Errorf("%s search: %v", name, err)
		}
	}
}

func TestSetStopwordsDiscardsIndexes(t *testing.T) {
	o := New(document.Collection{
		{ID: 0, Terms: []string{"the", "wolf"}},
		{ID: 1, Terms: []string{"the", "lamb"}},
	})
	if err := o.SetModel(model.KindInverted); err != nil {
		t.Fatal(err)
	}
	if results, _ := o.Search("the", false, true); len(results) != 2 {
		t.Fatalf("before SetStopwords: %d results", len(results))
	}
	if err := o.SetStopwords([]string{"The"}); err != nil {
		t.Fatal(err)
	}
	if results, _ := o.Search("the", false, true); len(results) != 0 {
		t.Errorf("after SetStopwords: %v", results)
	}
	if got := o.Stopwords(); len(got) != 1 || got[0] != "the" {
		t.Errorf("Stopwords = %v", got)
	}
}

func TestSetCollection(t *testing.T) {
	o := New(collection(2))
	if err := o.SetModel(model.KindVector); err != nil {
		t.Fatal(err)
	}
	next := document.Collection{
		{ID: 10, Terms: []string{"fox", "grapes"}},
		{ID: 11, Terms: []string{"crow", "cheese"}},
	}
	if err := o.SetCollection(next); err != nil {
		t.Fatal(err)
	}
	results, err := o.Search("fox", false, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Document.ID != 10 {
		t.Errorf("Search(fox) = %+v", results)
	}
	if err := o.SetCollection(document.Collection{{ID: 1}, {ID: 1}}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("duplicate ids accepted: %v", err)
	}
	if len(o.Documents()) != 2 {
		t.Error("invalid collection replaced the documents")
	}
}

func TestDocument(t *testing.T) {
	o := New(collection(3))
	doc, err := o.Document(2)
	if err != nil || doc.ID != 2 {
		t.Errorf("Document(2) = %v, %v", doc, err)
	}
	if _, err := o.Document(42); !errors.Is(err, apperrors.ErrDocumentNotFound) {
		t.Errorf("Document(42) error = %v", err)
	}
	docs := o.Documents()
	docs[0].Title = "changed"
	if d, _ := o.Document(0); d.Title == "changed" {
		t.Error("Documents returned shared storage")
	}
}

func TestMetricsRecorded(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	o := New(collection(4), WithMetrics(m), WithOutputK(3))
	if err := o.SetModel(model.KindVector); err != nil {
		t.Fatal(err)
	}
	if _, err := o.Search("wolf", false, false); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(m.IndexBuildsTotal.WithLabelValues("vector")); got != 1 {
		t.Errorf("index builds = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DocumentsLoaded); got != 4 {
		t.Errorf("documents loaded = %v", got)
	}
	if got := testutil.ToFloat64(m.ActiveModel.WithLabelValues("vector")); got != 1 {
		t.Errorf("active model gauge = %v", got)
	}
	if o.OutputK() != 3 {
		t.Errorf("OutputK = %d", o.OutputK())
	}
}

func TestConcurrentSearch(t *testing.T) {
	o := New(collection(20))
	if err := o.SetModel(model.KindInverted); err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := o.Search("wolf & lamb", i%2 == 0, i%3 == 0); err != nil {
				t.Error(err)
			}
			if i == 4 {
				_ = o.SetStopwords([]string{"and"})
			}
		}(i)
	}
	wg.Wait()
}

func BenchmarkSearch(b *testing.B) {
	docs := make(document.Collection, 1000)
	vocab := []string{"wolf", "lamb", "fox", "grapes", "crow", "cheese", "lion", "mouse", "the", "and"}
	for i := range docs {
		terms := make([]string, 0, 40)
		for j := 0; j < 40; j++ {
			terms = append(terms, vocab[(i*7+j*3)%len(vocab)])
		}
		docs[i] = document.Document{ID: i, Title: fmt.Sprintf("fable %d", i), Terms: terms}
	}
	for _, kind := range model.Kinds() {
		b.Run(string(kind), func(b *testing.B) {
			o := New(docs)
			if err := o.SetModel(kind); err != nil {
				b.Fatal(err)
			}
			o.Search("wolf & lamb", true, false)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := o.Search("wolf & lamb", true, false); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
