// Package index builds the in-memory structures the retrieval models query:
// an inverted index of document-id bitmaps for boolean retrieval and
// frequency posting lists with document lengths for vector-space ranking.
package index

// Posting records how often a term occurs in one document.
type Posting struct {
	DocID     int
	Frequency int
}

// PostingList is ordered by ascending DocID.
type PostingList []Posting

// TermEntry pairs a term with its posting list.
type TermEntry struct {
	Term     string
	Postings PostingList
}

// TermFrequencies counts each term of terms.
func TermFrequencies(terms []string) map[string]int {
	tf := make(map[string]int, len(terms))
	for _, t := range terms {
		tf[t]++
	}
	return tf
}
