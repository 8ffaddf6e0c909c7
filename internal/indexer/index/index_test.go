package index

import (
	"math"
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
)

func testCollection() document.Collection {
	return document.Collection{
		{ID: 1, Terms: []string{"The", "Cat", "sat"}},
		{ID: 2, Terms: []string{"the", "dog", "dog"}},
		{ID: 3, Terms: []string{"cats", "and", "dogs"}},
	}
}

func TestBuildInvertedMembership(t *testing.T) {
	docs := testCollection()
	n := tokenizer.NewNormalizer(tokenizer.NewStopwordSet([]string{"the", "and"}), nil)
	opts := tokenizer.Options{StopwordFiltering: true, Stemming: true}
	ix := BuildInverted(docs, n, opts)

	for _, doc := range docs {
		present := make(map[string]bool)
		for _, term := range n.Normalize(doc.Terms, opts) {
			present[term] = true
		}
		for _, term := range ix.Terms() {
			if got := ix.Postings(term).Contains(uint32(doc.ID)); got != present[term] {
				t.Errorf("term %q doc %d: in index = %v, in doc = %v", term, doc.ID, got, present[term])
			}
		}
	}
	if got := DocIDs(ix.Postings("cat")); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("Postings(cat) = %v, want [1 3]", got)
	}
	if ix.Postings("the").GetCardinality() != 0 {
		t.Error("stop-word should not be indexed when filtering")
	}
	if ix.DocCount() != 3 || !reflect.DeepEqual(DocIDs(ix.Universe()), []int{1, 2, 3}) {
		t.Errorf("universe = %v", DocIDs(ix.Universe()))
	}
}

func TestInvertedPostingsMissingTerm(t *testing.T) {
	ix := BuildInverted(testCollection(), tokenizer.NewNormalizer(nil, nil), tokenizer.Options{})
	bm := ix.Postings("unicorn")
	if bm == nil || !bm.IsEmpty() {
		t.Fatalf("Postings(unicorn) = %v, want empty bitmap", bm)
	}
}

func TestBuildInvertedDeterministic(t *testing.T) {
	n := tokenizer.NewNormalizer(nil, nil)
	a := BuildInverted(testCollection(), n, tokenizer.Options{Stemming: true})
	b := BuildInverted(testCollection(), n, tokenizer.Options{Stemming: true})
	if !reflect.DeepEqual(a.Terms(), b.Terms()) {
		t.Fatalf("vocabularies differ: %v vs %v", a.Terms(), b.Terms())
	}
	for _, term := range a.Terms() {
		if !a.Postings(term).Equals(b.Postings(term)) {
			t.Errorf("postings for %q differ", term)
		}
	}
}

func TestBuildInvertedSkipsOutOfRangeIDs(t *testing.T) {
	docs := document.Collection{
		{ID: 0, Terms: []string{"lamb"}},
		{ID: document.MaxID + 1, Terms: []string{"wolf"}},
		{ID: -3, Terms: []string{"wolf"}},
	}
	ix := BuildInverted(docs, tokenizer.NewNormalizer(nil, nil), tokenizer.Options{})
	if got := DocIDs(ix.Universe()); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("universe = %v, want [0]", got)
	}
	if !ix.Postings("wolf").IsEmpty() {
		t.Errorf("Postings(wolf) = %v, want empty", DocIDs(ix.Postings("wolf")))
	}
	if got := DocIDs(ix.Postings("lamb")); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Postings(lamb) = %v, want [0]", got)
	}
}

func TestBuildVector(t *testing.T) {
	docs := document.Collection{
		{ID: 7, Terms: []string{"cat", "cat", "dog"}},
		{ID: 2, Terms: []string{"dog", "dog", "dog"}},
		{ID: 5, Terms: nil},
	}
	ix := BuildVector(docs, tokenizer.NewNormalizer(nil, nil), tokenizer.Options{})

	if ix.TotalDocs() != 3 {
		t.Errorf("TotalDocs = %d, want 3", ix.TotalDocs())
	}
	want := PostingList{{DocID: 2, Frequency: 3}, {DocID: 7, Frequency: 1}}
	if got := ix.Postings("dog"); !reflect.DeepEqual(got, want) {
		t.Errorf("Postings(dog) = %v, want %v", got, want)
	}
	if ix.DocFreq("cat") != 1 || ix.DocFreq("bird") != 0 {
		t.Errorf("DocFreq mismatch")
	}
	if got := ix.Length(7); math.Abs(got-math.Sqrt(5)) > 1e-12 {
		t.Errorf("Length(7) = %v, want sqrt(5)", got)
	}
	if ix.Length(5) != 0 || ix.Length(99) != 0 {
		t.Error("empty and unknown documents should have zero length")
	}
	snap := ix.Snapshot()
	if len(snap) != 2 || snap[0].Term != "cat" || snap[1].Term != "dog" {
		t.Errorf("Snapshot = %v", snap)
	}
}

func TestTermFrequencies(t *testing.T) {
	got := TermFrequencies([]string{"a", "b", "a"})
	if !reflect.DeepEqual(got, map[string]int{"a": 2, "b": 1}) {
		t.Errorf("TermFrequencies = %v", got)
	}
}

func BenchmarkBuildInverted(b *testing.B) {
	docs := make(document.Collection, 200)
	words := []string{"wolf", "lamb", "fox", "grapes", "crow", "cheese", "lion", "mouse"}
	for i := range docs {
		terms := make([]string, 50)
		for j := range terms {
			terms[j] = words[(i+j)%len(words)]
		}
		docs[i] = document.Document{ID: i, Terms: terms}
	}
	n := tokenizer.NewNormalizer(nil, nil)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		BuildInverted(docs, n, tokenizer.Options{Stemming: true})
	}
}
