package cleanup

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/stemmer"
)

func TestLoadStopwords(t *testing.T) {
	words, err := LoadStopwords(strings.NewReader("The\n\n  and \nA\nthe\n"))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"the", "and", "a"}; !reflect.DeepEqual(words, want) {
		t.Errorf("LoadStopwords = %v, want %v", words, want)
	}
}

func TestLoadStopwordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "englishST.txt")
	if err := os.WriteFile(path, []byte("a\nabout\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	words, err := LoadStopwordFile(path)
	if err != nil || len(words) != 2 {
		t.Fatalf("LoadStopwordFile = %v, %v", words, err)
	}
	if _, err := LoadStopwordFile(filepath.Join(t.TempDir(), "none.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestByFrequency(t *testing.T) {
	coll := document.Collection{
		{ID: 0, Terms: []string{"The", "wolf", "the", "lamb"}},
		{ID: 1, Terms: []string{"the", "fox", "and", "AND", "and"}},
	}
	if got := ByFrequency(coll, 2); !reflect.DeepEqual(got, []string{"and", "the"}) {
		t.Errorf("ByFrequency = %v", got)
	}
	if got := ByFrequency(coll, 10); len(got) != 0 {
		t.Errorf("high threshold gave %v", got)
	}
}

func TestFilterCollection(t *testing.T) {
	coll := document.Collection{{ID: 0, Terms: []string{"The", "Wolf's", "and", "--", "Lamb"}}}
	FilterCollection(coll, []string{"the", "and"})
	if want := []string{"Wolf", "Lamb"}; !reflect.DeepEqual(coll[0].FilteredTerms, want) {
		t.Errorf("FilteredTerms = %v, want %v", coll[0].FilteredTerms, want)
	}
	if coll[0].Terms[0] != "The" {
		t.Error("Terms was modified")
	}
}

func TestStemCollection(t *testing.T) {
	coll := document.Collection{{ID: 0, Terms: []string{"Running", "foxes"}}}
	StemCollection(coll, stemmer.Porter{})
	if want := []string{"run", "fox"}; !reflect.DeepEqual(coll[0].StemmedTerms, want) {
		t.Errorf("StemmedTerms = %v, want %v", coll[0].StemmedTerms, want)
	}
	if got := StemQuery("running foxes", stemmer.Porter{}); got != "run fox" {
		t.Errorf("StemQuery = %q", got)
	}
}
