package orchestrator

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/signature"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/stemmer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/model"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/config"
)

// FromConfig builds an Orchestrator from the retrieval section of the
// configuration and activates cfg.Model when it is set. opts are applied
// after the configured ones.
func FromConfig(cfg config.RetrievalConfig, docs document.Collection, stopwords []string, opts ...Option) (*Orchestrator, error) {
	s, err := stemmer.New(cfg.Stemmer)
	if err != nil {
		return nil, fmt.Errorf("configuring orchestrator: %w", err)
	}
	mode, err := signature.ParseMatchMode(cfg.Signature.Match)
	if err != nil {
		return nil, fmt.Errorf("configuring orchestrator: %w", err)
	}
	modelCfg := model.Config{
		Signature: signature.Config{Width: cfg.Signature.Width, BitsPerTerm: cfg.Signature.BitsPerTerm},
		MatchMode: mode,
	}
	if err := docs.Validate(); err != nil {
		return nil, fmt.Errorf("configuring orchestrator: %w", err)
	}
	base := []Option{
		WithStemmer(s),
		WithStopwords(stopwords),
		WithModelConfig(modelCfg),
		WithOutputK(cfg.OutputK),
	}
	o := New(docs, append(base, opts...)...)
	if cfg.Model != "" {
		if err := o.SetModelByName(cfg.Model); err != nil {
			return nil, err
		}
	}
	return o, nil
}
