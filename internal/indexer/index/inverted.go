package index

import (
	"log/slog"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
)

// InvertedIndex maps each normalised term to the set of documents whose
// normalised term set contains it. It is immutable after BuildInverted
// returns; bitmaps handed out must not be modified.
type InvertedIndex struct {
	postings map[string]*roaring.Bitmap
	universe *roaring.Bitmap
	opts     tokenizer.Options
}

// BuildInverted indexes docs under opts. Documents whose id falls outside
// [0, document.MaxID] cannot be held in a bitmap and are left out.
func BuildInverted(docs document.Collection, n *tokenizer.Normalizer, opts tokenizer.Options) *InvertedIndex {
	ix := &InvertedIndex{
		postings: make(map[string]*roaring.Bitmap),
		universe: roaring.New(),
		opts:     opts,
	}
	for _, doc := range docs {
		if doc.ID < 0 || int64(doc.ID) > document.MaxID {
			slog.Default().With("component", "inverted-index").Warn("document id out of range, skipped", "id", doc.ID)
			continue
		}
		id := uint32(doc.ID)
		ix.universe.Add(id)
		for _, term := range n.Normalize(doc.Terms, opts) {
			bm, ok := ix.postings[term]
			if !ok {
				bm = roaring.New()
				ix.postings[term] = bm
			}
			bm.Add(id)
		}
	}
	for _, bm := range ix.postings {
		bm.RunOptimize()
	}
	return ix
}

// Postings returns the documents containing term. A term absent from the
// index yields an empty bitmap, never nil.
func (ix *InvertedIndex) Postings(term string) *roaring.Bitmap {
	if bm, ok := ix.postings[term]; ok {
		return bm
	}
	return roaring.New()
}

// Universe returns every indexed document id.
func (ix *InvertedIndex) Universe() *roaring.Bitmap { return ix.universe }

// Options returns the normalisation the index was built with.
func (ix *InvertedIndex) Options() tokenizer.Options { return ix.opts }

// DocCount returns the number of indexed documents.
func (ix *InvertedIndex) DocCount() int { return int(ix.universe.GetCardinality()) }

// TermCount returns the size of the vocabulary.
func (ix *InvertedIndex) TermCount() int { return len(ix.postings) }

// Terms returns the vocabulary in sorted order.
func (ix *InvertedIndex) Terms() []string {
	terms := make([]string, 0, len(ix.postings))
	for t := range ix.postings {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// DocIDs converts a bitmap to ascending document ids.
func DocIDs(bm *roaring.Bitmap) []int {
	ids := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, int(it.Next()))
	}
	return ids
}
