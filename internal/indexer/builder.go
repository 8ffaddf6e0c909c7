// Package indexer turns the raw corpus into a collection ready to be
// stored and indexed: extraction, then optional stop-word filtering and
// stemming of every document's terms.
package indexer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/corpus/cleanup"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/corpus/extraction"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/stemmer"
)

// BuildOptions selects the passes run after extraction. A nil Stemmer
// selects Porter.
type BuildOptions struct {
	SkipLines       int
	FilterStopwords bool
	Stopwords       []string
	Stem            bool
	Stemmer         stemmer.Stemmer
}

// Build extracts the documents of r and fills FilteredTerms and
// StemmedTerms as requested.
func Build(r io.Reader, opts BuildOptions) (document.Collection, error) {
	start := time.Now()
	coll, err := extraction.Extract(r, opts.SkipLines)
	if err != nil {
		return nil, fmt.Errorf("building collection: %w", err)
	}
	if opts.FilterStopwords {
		cleanup.FilterCollection(coll, opts.Stopwords)
	}
	if opts.Stem {
		s := opts.Stemmer
		if s == nil {
			s = stemmer.Porter{}
		}
		cleanup.StemCollection(coll, s)
	}
	terms := 0
	for _, doc := range coll {
		terms += len(doc.Terms)
	}
	slog.Default().With("component", "indexer").Info("collection built",
		"docs", len(coll),
		"terms", terms,
		"filtered", opts.FilterStopwords,
		"stemmed", opts.Stem,
		"duration", time.Since(start),
	)
	return coll, nil
}

// BuildFile runs Build over the corpus at path.
func BuildFile(path string, opts BuildOptions) (document.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer f.Close()
	return Build(f, opts)
}
