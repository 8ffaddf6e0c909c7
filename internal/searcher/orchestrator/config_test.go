package orchestrator

import (
	"errors"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/model"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
)

func retrievalConfig() config.RetrievalConfig {
	return config.RetrievalConfig{
		Model:   "vector_space",
		OutputK: 3,
		Stemmer: "porter",
		Signature: config.SignatureConfig{
			Width:       64,
			BitsPerTerm: 4,
			Match:       "and",
		},
	}
}

func TestFromConfig(t *testing.T) {
	o, err := FromConfig(retrievalConfig(), collection(6), []string{"the", "and"})
	if err != nil {
		t.Fatal(err)
	}
	if kind, ok := o.ModelKind(); !ok || kind != model.KindVector {
		t.Errorf("ModelKind = %q, %v", kind, ok)
	}
	if o.OutputK() != 3 {
		t.Errorf("OutputK = %d, want 3", o.OutputK())
	}
	if got := o.Stopwords(); len(got) != 2 {
		t.Errorf("Stopwords = %v", got)
	}
}

func TestFromConfigWithoutModel(t *testing.T) {
	cfg := retrievalConfig()
	cfg.Model = ""
	o, err := FromConfig(cfg, collection(2), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := o.ModelKind(); ok {
		t.Error("no model should be active")
	}
}

func TestFromConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.RetrievalConfig)
		want   error
	}{
		{"unknown stemmer", func(c *config.RetrievalConfig) { c.Stemmer = "lovins" }, apperrors.ErrInvalidInput},
		{"unknown model", func(c *config.RetrievalConfig) { c.Model = "fuzzy" }, apperrors.ErrUnknownModel},
		{"bad signature", func(c *config.RetrievalConfig) { c.Model = "signature"; c.Signature.BitsPerTerm = 65 }, apperrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := retrievalConfig()
			tt.mutate(&cfg)
			if _, err := FromConfig(cfg, collection(2), nil); !errors.Is(err, tt.want) {
				t.Errorf("FromConfig error = %v, want %v", err, tt.want)
			}
		})
	}
}
