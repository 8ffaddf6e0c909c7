// Package stemmer reduces English terms to their stems before indexing.
// Porter implements the measure-based suffix stripping algorithm of M. F.
// Porter (1980); Snowball wraps the Snowball English stemmer.
package stemmer

import "strings"

// Stemmer maps a surface term to its stem. Implementations are pure and
// deterministic.
type Stemmer interface {
	Stem(term string) string
}

// Porter is the default Stemmer.
type Porter struct{}

// Stem implements Stemmer.
func (Porter) Stem(term string) string { return Stem(term) }

func (Porter) String() string { return "porter" }

// suffixRule rewrites suffix to replacement when the measure of the
// remaining stem exceeds the step's threshold and, if set, cond holds.
type suffixRule struct {
	suffix      string
	replacement string
	cond        func(stem []byte) bool
}

var step2Rules = []suffixRule{
	{suffix: "ational", replacement: "ate"},
	{suffix: "tional", replacement: "tion"},
	{suffix: "enci", replacement: "ence"},
	{suffix: "anci", replacement: "ance"},
	{suffix: "izer", replacement: "ize"},
	{suffix: "abli", replacement: "able"},
	{suffix: "alli", replacement: "al"},
	{suffix: "entli", replacement: "ent"},
	{suffix: "eli", replacement: "e"},
	{suffix: "ousli", replacement: "ous"},
	{suffix: "ization", replacement: "ize"},
	{suffix: "ation", replacement: "ate"},
	{suffix: "ator", replacement: "ate"},
	{suffix: "alism", replacement: "al"},
	{suffix: "iveness", replacement: "ive"},
	{suffix: "fulness", replacement: "ful"},
	{suffix: "ousness", replacement: "ous"},
	{suffix: "aliti", replacement: "al"},
	{suffix: "iviti", replacement: "ive"},
	{suffix: "biliti", replacement: "ble"},
}

var step3Rules = []suffixRule{
	{suffix: "icate", replacement: "ic"},
	{suffix: "ative", replacement: ""},
	{suffix: "alize", replacement: "al"},
	{suffix: "iciti", replacement: "ic"},
	{suffix: "ical", replacement: "ic"},
	{suffix: "ful", replacement: ""},
	{suffix: "ness", replacement: ""},
}

var step4Rules = []suffixRule{
	{suffix: "al"},
	{suffix: "ance"},
	{suffix: "ence"},
	{suffix: "er"},
	{suffix: "ic"},
	{suffix: "able"},
	{suffix: "ible"},
	{suffix: "ant"},
	{suffix: "ement"},
	{suffix: "ment"},
	{suffix: "ent"},
	{suffix: "ion", cond: endsWithSOrT},
	{suffix: "ou"},
	{suffix: "ism"},
	{suffix: "ate"},
	{suffix: "iti"},
	{suffix: "ous"},
	{suffix: "ive"},
	{suffix: "ize"},
}

// Stem returns the Porter stem of term. Terms of two bytes or fewer are
// returned unchanged. Bytes outside a-z count as consonants, so the
// function is total over arbitrary strings.
func Stem(term string) string {
	if len(term) <= 2 {
		return term
	}
	b := []byte(term)
	b = step1a(b)
	b, eed := step1b(b)
	b = step1c(b)
	b = applyRules(b, step2Rules, 0)
	b = applyRules(b, step3Rules, 0)
	b = applyRules(b, step4Rules, 1)
	b = step5a(b, eed)
	b = step5b(b)
	return string(b)
}

// isConsonant reports whether b[i] is a consonant. A 'y' is a consonant at
// the start of a word or after a vowel, and a vowel after a consonant.
func isConsonant(b []byte, i int) bool {
	switch b[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !isConsonant(b, i-1)
	}
	return true
}

// measure counts the VC sequences of stem, written [C](VC)^m[V].
func measure(stem []byte) int {
	n := len(stem)
	i := 0
	for i < n && isConsonant(stem, i) {
		i++
	}
	m := 0
	for i < n {
		for i < n && !isConsonant(stem, i) {
			i++
		}
		if i >= n {
			break
		}
		for i < n && isConsonant(stem, i) {
			i++
		}
		m++
	}
	return m
}

// hasVowel is condition *v*.
func hasVowel(stem []byte) bool {
	for i := range stem {
		if !isConsonant(stem, i) {
			return true
		}
	}
	return false
}

// endsDoubleConsonant is condition *d.
func endsDoubleConsonant(stem []byte) bool {
	n := len(stem)
	return n >= 2 && stem[n-1] == stem[n-2] && isConsonant(stem, n-1)
}

// endsCVC is condition *o: consonant-vowel-consonant where the final
// consonant is not w, x or y.
func endsCVC(stem []byte) bool {
	n := len(stem)
	if n < 3 {
		return false
	}
	if !isConsonant(stem, n-3) || isConsonant(stem, n-2) || !isConsonant(stem, n-1) {
		return false
	}
	switch stem[n-1] {
	case 'w', 'x', 'y':
		return false
	}
	return true
}

func endsWithSOrT(stem []byte) bool {
	n := len(stem)
	return n > 0 && (stem[n-1] == 's' || stem[n-1] == 't')
}

func hasSuffix(b []byte, suffix string) bool {
	return len(b) >= len(suffix) && string(b[len(b)-len(suffix):]) == suffix
}

func step1a(b []byte) []byte {
	switch {
	case hasSuffix(b, "sses"), hasSuffix(b, "ies"):
		return b[:len(b)-2]
	case hasSuffix(b, "ss"):
		return b
	case hasSuffix(b, "s"):
		return b[:len(b)-1]
	}
	return b
}

// step1b also reports whether it rewrote eed to ee.
func step1b(b []byte) ([]byte, bool) {
	if hasSuffix(b, "eed") {
		if measure(b[:len(b)-3]) > 0 {
			return b[:len(b)-1], true
		}
		return b, false
	}
	var stem []byte
	switch {
	case hasSuffix(b, "ed"):
		stem = b[:len(b)-2]
	case hasSuffix(b, "ing"):
		stem = b[:len(b)-3]
	default:
		return b, false
	}
	if !hasVowel(stem) {
		return b, false
	}
	switch {
	case hasSuffix(stem, "at"), hasSuffix(stem, "bl"), hasSuffix(stem, "iz"):
		return append(stem, 'e'), false
	case endsDoubleConsonant(stem):
		switch stem[len(stem)-1] {
		case 'l', 's', 'z':
			return stem, false
		}
		return stem[:len(stem)-1], false
	case measure(stem) == 1 && endsCVC(stem):
		return append(stem, 'e'), false
	}
	return stem, false
}

func step1c(b []byte) []byte {
	if hasSuffix(b, "y") && hasVowel(b[:len(b)-1]) {
		b[len(b)-1] = 'i'
	}
	return b
}

// applyRules fires the first rule whose suffix matches b. If that rule's
// conditions fail the step leaves b unchanged.
func applyRules(b []byte, rules []suffixRule, minMeasure int) []byte {
	for _, r := range rules {
		if !hasSuffix(b, r.suffix) {
			continue
		}
		stem := b[:len(b)-len(r.suffix)]
		if measure(stem) <= minMeasure {
			return b
		}
		if r.cond != nil && !r.cond(stem) {
			return b
		}
		return append(stem, r.replacement...)
	}
	return b
}

// step5a drops a final e. When step 1b rewrote eed to ee the ee is kept,
// so "agreed" stems to "agree" where canonical Porter gives "agre". Other
// words ending in ee ("degree", "committee") follow the canonical rule.
func step5a(b []byte, eed bool) []byte {
	if !hasSuffix(b, "e") || (eed && hasSuffix(b, "ee")) {
		return b
	}
	stem := b[:len(b)-1]
	m := measure(stem)
	if m > 1 || (m == 1 && !endsCVC(stem)) {
		return stem
	}
	return b
}

func step5b(b []byte) []byte {
	if hasSuffix(b, "ll") && measure(b) > 1 {
		return b[:len(b)-1]
	}
	return b
}

// StemAll stems every term of terms into a new slice.
func StemAll(s Stemmer, terms []string) []string {
	out := make([]string, len(terms))
	for i, term := range terms {
		out[i] = s.Stem(term)
	}
	return out
}

// StemQuery stems each whitespace-separated word of a query and joins them
// back with single spaces.
func StemQuery(s Stemmer, query string) string {
	return strings.Join(StemAll(s, strings.Fields(query)), " ")
}
