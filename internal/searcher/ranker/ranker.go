// Package ranker scores documents against a query in the vector space
// model: TF-IDF weights, cosine-style normalisation by document length
// and term-at-a-time accumulation over posting lists.
package ranker

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/index"
)

type ScoredDoc struct {
	DocID int     `json:"doc_id"`
	Score float64 `json:"score"`
}

// IDF returns log(N/df), or 0 when the term occurs nowhere.
func IDF(totalDocs, docFreq int) float64 {
	if docFreq <= 0 || totalDocs <= 0 {
		return 0
	}
	return math.Log(float64(totalDocs) / float64(docFreq))
}

// queryWeights returns the tf*idf weight of every distinct query term with
// a nonzero weight, ordered by term so that accumulation is reproducible.
func queryWeights(queryTerms []string, ix *index.VectorIndex) ([]string, map[string]float64) {
	tf := index.TermFrequencies(queryTerms)
	terms := make([]string, 0, len(tf))
	weights := make(map[string]float64, len(tf))
	for term, freq := range tf {
		w := float64(freq) * IDF(ix.TotalDocs(), ix.DocFreq(term))
		if w == 0 {
			continue
		}
		terms = append(terms, term)
		weights[term] = w
	}
	sort.Strings(terms)
	return terms, weights
}

// Rank accumulates sum(q_w * d_w) per document over the posting lists of
// the weighted query terms, divides by the document length and returns the
// top limit documents ordered by score descending, then id ascending. A
// limit of zero or less returns every scored document.
func Rank(queryTerms []string, ix *index.VectorIndex, limit int) []ScoredDoc {
	terms, weights := queryWeights(queryTerms, ix)
	acc := make(map[int]float64)
	for _, term := range terms {
		qw := weights[term]
		idf := IDF(ix.TotalDocs(), ix.DocFreq(term))
		for _, p := range ix.Postings(term) {
			acc[p.DocID] += qw * float64(p.Frequency) * idf
		}
	}
	result := make([]ScoredDoc, 0, len(acc))
	for docID, dot := range acc {
		var score float64
		if length := ix.Length(docID); length > 0 {
			score = dot / length
		}
		result = append(result, ScoredDoc{DocID: docID, Score: score})
	}
	Sort(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// Score computes the same value Rank assigns to a document with the given
// normalised terms, using the collection statistics of ix.
func Score(queryTerms, docTerms []string, ix *index.VectorIndex) float64 {
	terms, weights := queryWeights(queryTerms, ix)
	docTF := index.TermFrequencies(docTerms)
	var dot, sumSquares float64
	for _, term := range terms {
		if freq, ok := docTF[term]; ok {
			dot += weights[term] * float64(freq) * IDF(ix.TotalDocs(), ix.DocFreq(term))
		}
	}
	for _, freq := range docTF {
		sumSquares += float64(freq * freq)
	}
	if sumSquares == 0 {
		return 0
	}
	return dot / math.Sqrt(sumSquares)
}

// Sort orders docs by score descending, then document id ascending.
func Sort(docs []ScoredDoc) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Score != docs[j].Score {
			return docs[i].Score > docs[j].Score
		}
		return docs[i].DocID < docs[j].DocID
	})
}
