// Package cleanup builds stop-word lists and derives the filtered and
// stemmed term lists stored with each document.
package cleanup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/stemmer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
)

// DefaultCrouchThreshold is the collection frequency above which a term is
// considered a stop-word by ByFrequency.
const DefaultCrouchThreshold = 50

// LoadStopwords reads one stop-word per line, lower-cased. Blank lines are
// skipped and duplicates removed; order of first appearance is kept.
func LoadStopwords(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stopwords: %w", err)
	}
	return words, nil
}

// LoadStopwordFile reads a stop-word list such as englishST.txt.
func LoadStopwordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stopword list %s: %w", path, err)
	}
	defer f.Close()
	return LoadStopwords(f)
}

// ByFrequency derives a stop-word list from the collection after Crouch:
// every lower-cased term whose total frequency exceeds threshold, sorted.
func ByFrequency(coll document.Collection, threshold int) []string {
	freq := make(map[string]int)
	for _, doc := range coll {
		for _, t := range doc.Terms {
			freq[strings.ToLower(t)]++
		}
	}
	var words []string
	for t, f := range freq {
		if f > threshold {
			words = append(words, t)
		}
	}
	sort.Strings(words)
	return words
}

// FilterCollection sets FilteredTerms of every document to its cleaned
// terms without stop-words. Original case is kept.
func FilterCollection(coll document.Collection, stopwords []string) {
	set := tokenizer.NewStopwordSet(stopwords)
	for i := range coll {
		filtered := make([]string, 0, len(coll[i].Terms))
		for _, t := range coll[i].Terms {
			t = tokenizer.Clean(t)
			if t == "" || set.Contains(strings.ToLower(t)) {
				continue
			}
			filtered = append(filtered, t)
		}
		coll[i].FilteredTerms = filtered
	}
}

// StemCollection sets StemmedTerms of every document to its lower-cased,
// stemmed terms.
func StemCollection(coll document.Collection, s stemmer.Stemmer) {
	for i := range coll {
		stemmed := make([]string, len(coll[i].Terms))
		for j, t := range coll[i].Terms {
			stemmed[j] = s.Stem(strings.ToLower(t))
		}
		coll[i].StemmedTerms = stemmed
	}
}

// StemQuery stems every whitespace-separated word of query.
func StemQuery(query string, s stemmer.Stemmer) string {
	return stemmer.StemQuery(s, query)
}
