package signature

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
)

func TestHashIsXXH64(t *testing.T) {
	// Published XXH64 value for the empty input with seed 0.
	if got := Hash(""); got != 0xef46db3751d8e999 {
		t.Errorf("Hash(\"\") = %#x", got)
	}
	if Hash("wolf") != Hash("wolf") {
		t.Error("Hash is not deterministic")
	}
}

func TestPositions(t *testing.T) {
	cfg := DefaultConfig()
	for _, term := range []string{"wolf", "lamb", "fox"} {
		pos := cfg.Positions(term)
		if len(pos) != cfg.BitsPerTerm {
			t.Fatalf("Positions(%q) has %d entries", term, len(pos))
		}
		start := int(Hash(term) % uint64(cfg.Width))
		for i, p := range pos {
			if want := (start + i) % cfg.Width; p != want {
				t.Errorf("Positions(%q)[%d] = %d, want %d", term, i, p, want)
			}
		}
	}
}

func TestNewSetsTermBits(t *testing.T) {
	cfg := DefaultConfig()
	sig := New(cfg, []string{"wolf"})
	if sig.OnesCount() != cfg.BitsPerTerm {
		t.Errorf("OnesCount = %d, want %d", sig.OnesCount(), cfg.BitsPerTerm)
	}
	for _, p := range cfg.Positions("wolf") {
		if !sig.Test(p) {
			t.Errorf("bit %d not set", p)
		}
	}
	if s := sig.String(); len(s) != cfg.Width || strings.Count(s, "1") != cfg.BitsPerTerm {
		t.Errorf("String() = %q", s)
	}
	if !New(cfg, nil).IsZero() {
		t.Error("empty term list should give a zero signature")
	}
}

func TestWideSignature(t *testing.T) {
	cfg := Config{Width: 130, BitsPerTerm: 5}
	sig := New(cfg, []string{"lion", "mouse"})
	for _, term := range []string{"lion", "mouse"} {
		for _, p := range cfg.Positions(term) {
			if !sig.Test(p) {
				t.Errorf("bit %d of %q not set", p, term)
			}
		}
	}
	if sig.Test(130) || sig.Test(-1) {
		t.Error("out of range bits must read as unset")
	}
}

func TestNoFalseNegatives(t *testing.T) {
	cfg := DefaultConfig()
	docTerms := []string{"wolf", "lamb", "stream", "drink", "water", "excuse"}
	doc := New(cfg, docTerms)
	for i := range docTerms {
		for j := i; j < len(docTerms); j++ {
			q := New(cfg, docTerms[i:j+1])
			if !MatchAll.Matches(doc, q) {
				t.Errorf("AND query %v missed its document", docTerms[i:j+1])
			}
			if !MatchAny.Matches(doc, q) {
				t.Errorf("OR query %v missed its document", docTerms[i:j+1])
			}
		}
	}
}

func TestCollisionIsAFalsePositive(t *testing.T) {
	cfg := Config{Width: 8, BitsPerTerm: 1}
	seen := make(map[int]string)
	var a, b string
	for i := 0; a == ""; i++ {
		term := fmt.Sprintf("term%d", i)
		p := cfg.Positions(term)[0]
		if other, ok := seen[p]; ok {
			a, b = other, term
		}
		seen[p] = term
	}
	doc := New(cfg, []string{a})
	if !MatchAll.Matches(doc, New(cfg, []string{b})) {
		t.Errorf("colliding terms %q and %q should match", a, b)
	}
}

func TestEmptyQueryMatchesNothing(t *testing.T) {
	cfg := DefaultConfig()
	doc := New(cfg, []string{"wolf"})
	empty := New(cfg, nil)
	if MatchAll.Matches(doc, empty) || MatchAny.Matches(doc, empty) {
		t.Error("empty query signature must not match")
	}
}

func TestStoreMatch(t *testing.T) {
	docs := document.Collection{
		{ID: 2, Terms: []string{"wolf", "lamb"}},
		{ID: 0, Terms: []string{"Wolf", "crane"}},
		{ID: 1, Terms: []string{"fox", "grapes"}},
	}
	n := tokenizer.NewNormalizer(nil, nil)
	s := Build(DefaultConfig(), docs, n, tokenizer.Options{})
	if s.Len() != 3 {
		t.Fatalf("Len = %d", s.Len())
	}
	got := s.Match(New(s.Config(), []string{"wolf"}), MatchAll)
	for _, want := range []int{0, 2} {
		found := false
		for _, id := range got {
			found = found || id == want
		}
		if !found {
			t.Errorf("Match(wolf) = %v, missing %d", got, want)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("Match result %v not ascending", got)
		}
	}
	if _, ok := s.Signature(1); !ok {
		t.Error("Signature(1) missing")
	}
	if _, ok := s.Signature(9); ok {
		t.Error("Signature(9) should miss")
	}
}

func TestParseMatchMode(t *testing.T) {
	for in, want := range map[string]MatchMode{"": MatchAll, "and": MatchAll, "or": MatchAny} {
		got, err := ParseMatchMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMatchMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMatchMode("xor"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("ParseMatchMode(xor) error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{DefaultConfig(), false},
		{Config{Width: 0, BitsPerTerm: 1}, true},
		{Config{Width: 8, BitsPerTerm: 0}, true},
		{Config{Width: 4, BitsPerTerm: 5}, true},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) = %v", tt.cfg, err)
		}
	}
	if !reflect.DeepEqual(DefaultConfig(), Config{Width: 64, BitsPerTerm: 4}) {
		t.Error("unexpected default config")
	}
}
