// Package evaluation measures retrieval quality against a ground-truth file
// that lists, for each term, the documents relevant to it:
//
//	# comment
//	wolf - 1, 7, 12
package evaluation

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
)

// GroundTruth maps a lower-cased term to its relevant document ids.
type GroundTruth struct {
	relevant map[string]map[int]struct{}
}

// Parse reads a ground-truth file. Blank lines and lines starting with '#'
// are skipped; malformed lines are logged and skipped.
func Parse(r io.Reader) (*GroundTruth, error) {
	logger := slog.Default().With("component", "evaluation")
	gt := &GroundTruth{relevant: make(map[string]map[int]struct{})}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		term, ids, ok := parseLine(line)
		if !ok {
			logger.Warn("skipping malformed ground truth line", "line", lineNo, "text", line)
			continue
		}
		set, exists := gt.relevant[term]
		if !exists {
			set = make(map[int]struct{}, len(ids))
			gt.relevant[term] = set
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ground truth: %w", err)
	}
	return gt, nil
}

// ParseFile opens and parses path.
func ParseFile(path string) (*GroundTruth, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ground truth %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(line string) (string, []int, bool) {
	term, list, found := strings.Cut(line, " - ")
	term = strings.ToLower(strings.TrimSpace(term))
	if !found || term == "" {
		return "", nil, false
	}
	var ids []int
	for _, field := range strings.Split(list, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return "", nil, false
		}
		ids = append(ids, id)
	}
	return term, ids, true
}

// Terms returns the number of terms with relevance judgements.
func (g *GroundTruth) Terms() int { return len(g.relevant) }

// Relevant returns the union of the relevant documents of every query word.
// Boolean operators and negation prefixes are ignored.
func (g *GroundTruth) Relevant(query string) map[int]struct{} {
	out := make(map[int]struct{})
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return r == '&' || r == '|' || r == ' ' || r == '\t'
	})
	for _, f := range fields {
		term := strings.ToLower(tokenizer.Clean(strings.TrimLeft(f, "-")))
		for id := range g.relevant[term] {
			out[id] = struct{}{}
		}
	}
	return out
}

// Precision returns |relevant ∩ retrieved| / |retrieved|. ok is false when
// nothing was retrieved.
func (g *GroundTruth) Precision(query string, retrieved []int) (float64, bool) {
	ret := toSet(retrieved)
	if len(ret) == 0 {
		return 0, false
	}
	return float64(intersect(g.Relevant(query), ret)) / float64(len(ret)), true
}

// Recall returns |relevant ∩ retrieved| / |relevant|. ok is false when the
// query has no relevant documents.
func (g *GroundTruth) Recall(query string, retrieved []int) (float64, bool) {
	rel := g.Relevant(query)
	if len(rel) == 0 {
		return 0, false
	}
	return float64(intersect(rel, toSet(retrieved))) / float64(len(rel)), true
}

func toSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func intersect(a, b map[int]struct{}) int {
	n := 0
	for id := range a {
		if _, ok := b[id]; ok {
			n++
		}
	}
	return n
}
