package evaluation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const truth = `# relevance judgements
wolf - 1, 2, 3

Lamb - 3, 4
fox - x, 1
just a line
`

func TestParse(t *testing.T) {
	gt, err := Parse(strings.NewReader(truth))
	if err != nil {
		t.Fatal(err)
	}
	if gt.Terms() != 2 {
		t.Errorf("Terms = %d, want 2 (malformed lines skipped)", gt.Terms())
	}
	rel := gt.Relevant("wolf & -lamb")
	if len(rel) != 4 {
		t.Errorf("Relevant = %v, want union of 4 ids", rel)
	}
}

func TestPrecisionRecall(t *testing.T) {
	gt, _ := Parse(strings.NewReader(truth))
	tests := []struct {
		name        string
		query       string
		retrieved   []int
		precision   float64
		precisionOK bool
		recall      float64
		recallOK    bool
	}{
		{"half right", "wolf", []int{1, 9}, 0.5, true, 1.0 / 3, true},
		{"all", "wolf lamb", []int{1, 2, 3, 4}, 1, true, 1, true},
		{"nothing retrieved", "wolf", nil, 0, false, 0, true},
		{"no judgements", "crow", []int{1}, 0, true, 0, false},
		{"duplicates counted once", "Wolf", []int{1, 1}, 1, true, 1.0 / 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := gt.Precision(tt.query, tt.retrieved)
			if ok != tt.precisionOK || p != tt.precision {
				t.Errorf("Precision = %v, %v; want %v, %v", p, ok, tt.precision, tt.precisionOK)
			}
			r, ok := gt.Recall(tt.query, tt.retrieved)
			if ok != tt.recallOK || r != tt.recall {
				t.Errorf("Recall = %v, %v; want %v, %v", r, ok, tt.recall, tt.recallOK)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ground_truth.txt")
	if err := os.WriteFile(path, []byte(truth), 0o644); err != nil {
		t.Fatal(err)
	}
	if gt, err := ParseFile(path); err != nil || gt.Terms() != 2 {
		t.Fatalf("ParseFile = %v, %v", gt, err)
	}
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
