// Package extraction reads fables out of the raw Aesop corpus text file.
//
// After a preamble of skipLines lines, each document is a title line
// followed by text lines; a run of two or more blank lines ends it. A
// single blank line inside a fable is ignored.
package extraction

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
)

// DefaultSkipLines is the length of the Project Gutenberg preamble of
// aesopa10.txt.
const DefaultSkipLines = 307

// Extract reads documents from r. Identifiers are assigned 0, 1, 2, ...
// in order of appearance. RawText holds the title and text lines joined by
// single spaces and Terms its cleaned words.
func Extract(r io.Reader, skipLines int) (document.Collection, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for i := 0; i < skipLines && scanner.Scan(); i++ {
	}

	var (
		coll    document.Collection
		title   string
		text    []string
		reading bool
		blanks  int
	)
	emit := func() {
		raw := strings.Join(text, " ")
		coll = append(coll, document.Document{
			ID:      len(coll),
			Title:   title,
			RawText: raw,
			Terms:   tokenizer.Fields(raw),
		})
		title, text, reading = "", nil, false
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			blanks++
			if reading && blanks >= 2 {
				emit()
			}
			continue
		}
		blanks = 0
		if !reading {
			title = line
			reading = true
		}
		text = append(text, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	if reading {
		emit()
	}
	return coll, nil
}

// ExtractFile opens path and extracts its documents.
func ExtractFile(path string, skipLines int) (document.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer f.Close()

	coll, err := Extract(f, skipLines)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	slog.Default().With("component", "extraction").Info("collection extracted",
		"path", path,
		"docs", len(coll),
	)
	return coll, nil
}
