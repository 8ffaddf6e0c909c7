package index

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
)

// VectorIndex holds per-term frequency postings and per-document Euclidean
// lengths for TF-IDF scoring. Weights are derived at query time. It is
// immutable after BuildVector returns.
type VectorIndex struct {
	postings  map[string]PostingList
	lengths   map[int]float64
	totalDocs int
	opts      tokenizer.Options
}

// BuildVector indexes docs under opts. A document's length is
// sqrt(sum of tf^2) over its normalised terms.
func BuildVector(docs document.Collection, n *tokenizer.Normalizer, opts tokenizer.Options) *VectorIndex {
	ix := &VectorIndex{
		postings:  make(map[string]PostingList),
		lengths:   make(map[int]float64, len(docs)),
		totalDocs: len(docs),
		opts:      opts,
	}
	for _, doc := range docs {
		tf := TermFrequencies(n.Normalize(doc.Terms, opts))
		var sumSquares float64
		for term, freq := range tf {
			ix.postings[term] = append(ix.postings[term], Posting{DocID: doc.ID, Frequency: freq})
			sumSquares += float64(freq * freq)
		}
		ix.lengths[doc.ID] = math.Sqrt(sumSquares)
	}
	for _, pl := range ix.postings {
		sort.Slice(pl, func(i, j int) bool {
			return pl[i].DocID < pl[j].DocID
		})
	}
	return ix
}

// Postings returns the posting list of term, ordered by document id. It is
// nil for unknown terms.
func (ix *VectorIndex) Postings(term string) PostingList { return ix.postings[term] }

// DocFreq returns the number of documents containing term.
func (ix *VectorIndex) DocFreq(term string) int { return len(ix.postings[term]) }

// Length returns the Euclidean length of a document's term-frequency
// vector, or zero for an unknown document.
func (ix *VectorIndex) Length(docID int) float64 { return ix.lengths[docID] }

// TotalDocs returns N, the collection size at build time.
func (ix *VectorIndex) TotalDocs() int { return ix.totalDocs }

// Options returns the normalisation the index was built with.
func (ix *VectorIndex) Options() tokenizer.Options { return ix.opts }

// TermCount returns the size of the vocabulary.
func (ix *VectorIndex) TermCount() int { return len(ix.postings) }

// Snapshot returns every term with its postings, sorted by term.
func (ix *VectorIndex) Snapshot() []TermEntry {
	entries := make([]TermEntry, 0, len(ix.postings))
	for term, pl := range ix.postings {
		entries = append(entries, TermEntry{Term: term, Postings: pl})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Term < entries[j].Term
	})
	return entries
}
