// Package model implements the closed set of retrieval models the
// orchestrator can activate: linear scan, inverted list (boolean),
// signature file and vector space. Each model builds its index structures
// lazily on first use and rebuilds them whenever the normalisation options
// change. Models are not safe for concurrent use; the orchestrator
// serialises access.
package model

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/signature"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
)

type Kind string

const (
	KindLinear    Kind = "linear"
	KindInverted  Kind = "inverted"
	KindSignature Kind = "signature"
	KindVector    Kind = "vector"
)

// Kinds lists every model in menu order.
func Kinds() []Kind {
	return []Kind{KindLinear, KindInverted, KindSignature, KindVector}
}

// ParseKind resolves a model name, case-insensitively. Common long forms
// such as "inverted_list" and "vector_space" are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "linear_scan":
		return KindLinear, nil
	case "inverted", "inverted_list", "boolean":
		return KindInverted, nil
	case "signature", "signature_file":
		return KindSignature, nil
	case "vector", "vector_space", "tfidf":
		return KindVector, nil
	}
	return "", fmt.Errorf("model %q: %w", s, apperrors.ErrUnknownModel)
}

// Representation is the model-specific form of a document or query. Terms
// always holds the normalised terms; Signature is only set by the
// signature model.
type Representation struct {
	Terms     []string
	Signature signature.Signature
	Options   tokenizer.Options
}

type Model interface {
	Kind() Kind
	String() string
	DocumentRepresentation(doc document.Document, opts tokenizer.Options) Representation
	QueryRepresentation(query string, opts tokenizer.Options) Representation
	// Match scores a document representation against a query
	// representation. Models that only support set retrieval panic with
	// ErrUnsupportedOperation.
	Match(doc, query Representation) float64
	// Search returns at most limit documents ordered by score descending,
	// then id ascending. A limit of zero or less returns every match.
	Search(query string, opts tokenizer.Options, limit int) []ranker.ScoredDoc
	// Reset discards any built index structures.
	Reset()
}

// BuildObserver is told about every index build.
type BuildObserver func(kind Kind, docs int, elapsed time.Duration)

type Config struct {
	Signature signature.Config
	MatchMode signature.MatchMode
	OnBuild   BuildObserver
}

// DefaultConfig uses 64-bit signatures with 4 bits per term and AND
// matching.
func DefaultConfig() Config {
	return Config{Signature: signature.DefaultConfig(), MatchMode: signature.MatchAll}
}

// New constructs the model of the given kind over docs.
func New(kind Kind, docs document.Collection, n *tokenizer.Normalizer, cfg Config) (Model, error) {
	b := base{
		kind:       kind,
		docs:       docs,
		normalizer: n,
		onBuild:    cfg.OnBuild,
		logger:     slog.Default().With("component", "model", "model", string(kind)),
	}
	switch kind {
	case KindLinear:
		return &Linear{base: b}, nil
	case KindInverted:
		return &InvertedList{base: b}, nil
	case KindSignature:
		if err := cfg.Signature.Validate(); err != nil {
			return nil, fmt.Errorf("configuring signature model: %w", err)
		}
		mode := cfg.MatchMode
		if mode == "" {
			mode = signature.MatchAll
		}
		return &Signature{base: b, cfg: cfg.Signature, mode: mode}, nil
	case KindVector:
		return &Vector{base: b}, nil
	}
	return nil, fmt.Errorf("model %q: %w", kind, apperrors.ErrUnknownModel)
}

// base carries what every model shares.
type base struct {
	kind       Kind
	docs       document.Collection
	normalizer *tokenizer.Normalizer
	onBuild    BuildObserver
	logger     *slog.Logger
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) String() string { return string(b.kind) }

func (b *base) DocumentRepresentation(doc document.Document, opts tokenizer.Options) Representation {
	return Representation{Terms: b.normalizer.Normalize(doc.Terms, opts), Options: opts}
}

func (b *base) QueryRepresentation(query string, opts tokenizer.Options) Representation {
	return Representation{Terms: b.normalizer.NormalizeQuery(query, opts), Options: opts}
}

// built logs and reports a finished index build.
func (b *base) built(start time.Time, terms int, opts tokenizer.Options) {
	elapsed := time.Since(start)
	b.logger.Info("index built",
		"docs", len(b.docs),
		"terms", terms,
		"stemming", opts.Stemming,
		"stopword_filtering", opts.StopwordFiltering,
		"duration", elapsed,
	)
	if b.onBuild != nil {
		b.onBuild(b.kind, len(b.docs), elapsed)
	}
}

func unsupported(kind Kind, op string) {
	panic(fmt.Errorf("%s model %s: %w", kind, op, apperrors.ErrUnsupportedOperation))
}

func truncate(docs []ranker.ScoredDoc, limit int) []ranker.ScoredDoc {
	if limit > 0 && len(docs) > limit {
		return docs[:limit]
	}
	return docs
}
