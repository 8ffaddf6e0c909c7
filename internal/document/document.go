// Package document defines the records every retrieval model works on: a
// Document extracted from the raw corpus and the ordered Collection of them.
package document

import (
	"fmt"
	"math"

	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
)

// Document is one fable of the corpus. Terms keeps the original word order
// and is never modified once extracted; FilteredTerms and StemmedTerms are
// derived by the corpus collaborators and may be nil.
type Document struct {
	ID            int      `json:"document_id"`
	Title         string   `json:"title"`
	RawText       string   `json:"raw_text"`
	Terms         []string `json:"terms"`
	FilteredTerms []string `json:"filtered_terms"`
	StemmedTerms  []string `json:"stemmed_terms"`
}

func (d Document) String() string {
	return fmt.Sprintf("[%d] %s", d.ID, d.Title)
}

// MaxID is the largest document id. Boolean postings hold ids as uint32.
const MaxID = math.MaxUint32

// Collection is the ordered list of documents in extraction order.
type Collection []Document

// ByID returns the document with the given identifier.
func (c Collection) ByID(id int) (Document, bool) {
	for _, doc := range c {
		if doc.ID == id {
			return doc, true
		}
	}
	return Document{}, false
}

// Index maps document identifiers to their position in the collection.
func (c Collection) Index() map[int]int {
	positions := make(map[int]int, len(c))
	for i, doc := range c {
		positions[doc.ID] = i
	}
	return positions
}

// Validate checks that identifiers are unique and within [0, MaxID].
func (c Collection) Validate() error {
	seen := make(map[int]struct{}, len(c))
	for i, doc := range c {
		if doc.ID < 0 {
			return fmt.Errorf("document at position %d has negative id %d: %w", i, doc.ID, apperrors.ErrInvalidInput)
		}
		if int64(doc.ID) > MaxID {
			return fmt.Errorf("document at position %d has id %d above %d: %w", i, doc.ID, int64(MaxID), apperrors.ErrInvalidInput)
		}
		if _, dup := seen[doc.ID]; dup {
			return fmt.Errorf("duplicate document id %d: %w", doc.ID, apperrors.ErrInvalidInput)
		}
		seen[doc.ID] = struct{}{}
	}
	return nil
}
