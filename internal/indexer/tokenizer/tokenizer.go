// Package tokenizer turns raw text and term lists into the normalised terms
// the retrieval models index. It lower-cases input, optionally removes
// stop-words, and optionally applies a stemmer.
package tokenizer

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/stemmer"
)

// Options selects the optional normalisation passes. The zero value only
// lower-cases.
type Options struct {
	StopwordFiltering bool `json:"stopword_filtering"`
	Stemming          bool `json:"stemming"`
}

// StopwordSet is a set of lower-cased stop-words.
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set from words, lower-casing each one and
// skipping blanks.
func NewStopwordSet(words []string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether term is a stop-word. term must already be
// lower-cased.
func (s StopwordSet) Contains(term string) bool {
	_, ok := s[term]
	return ok
}

// Words returns the stop-words in sorted order.
func (s StopwordSet) Words() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Normalizer applies Options to term lists. It is immutable once built and
// safe for concurrent use.
type Normalizer struct {
	stopwords StopwordSet
	stemmer   stemmer.Stemmer
}

// NewNormalizer returns a Normalizer. A nil stemmer selects Porter and a nil
// stopword set disables filtering regardless of Options.
func NewNormalizer(stopwords StopwordSet, s stemmer.Stemmer) *Normalizer {
	if s == nil {
		s = stemmer.Porter{}
	}
	return &Normalizer{stopwords: stopwords, stemmer: s}
}

// Stopwords returns the stop-word set in use.
func (n *Normalizer) Stopwords() StopwordSet { return n.stopwords }

// Stemmer returns the stemmer in use.
func (n *Normalizer) Stemmer() stemmer.Stemmer { return n.stemmer }

// Normalize lower-cases terms, drops stop-words when filtering is on, then
// stems when stemming is on. The input slice is not modified.
func (n *Normalizer) Normalize(terms []string, opts Options) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(t)
		if opts.StopwordFiltering && n.stopwords.Contains(t) {
			continue
		}
		if opts.Stemming {
			t = n.stemmer.Stem(t)
		}
		out = append(out, t)
	}
	return out
}

// NormalizeTerm lower-cases and optionally stems a single term. Stop-word
// filtering does not apply; boolean query operands are never dropped.
func (n *Normalizer) NormalizeTerm(term string, opts Options) string {
	term = strings.ToLower(term)
	if opts.Stemming {
		term = n.stemmer.Stem(term)
	}
	return term
}

// NormalizeQuery splits a plain query on whitespace, cleans each word and
// normalises the result.
func (n *Normalizer) NormalizeQuery(query string, opts Options) []string {
	return n.Normalize(Fields(query), opts)
}

// Clean folds word to NFKC, drops a trailing possessive 's and keeps only
// letters and digits. The result may be empty.
func Clean(word string) string {
	word = norm.NFKC.String(word)
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'', r == '’':
			b.WriteByte('\'')
		}
	}
	cleaned := strings.TrimSuffix(b.String(), "'s")
	return strings.ReplaceAll(cleaned, "'", "")
}

// Fields splits text on whitespace and cleans each word, dropping words
// that clean to nothing. Case is preserved.
func Fields(text string) []string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if c := Clean(w); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// UniqueTerms returns the distinct terms in first-occurrence order.
func UniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
