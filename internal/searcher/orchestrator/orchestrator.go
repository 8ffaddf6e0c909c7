// Package orchestrator owns the document collection, the stop-word list
// and the single active retrieval model, and dispatches queries to it.
package orchestrator

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/stemmer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/model"
	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/metrics"
)

// DefaultOutputK is the number of results returned when none is set.
const DefaultOutputK = 5

// Result is one retrieved document with its score.
type Result struct {
	Score    float64           `json:"score"`
	Document document.Document `json:"document"`
}

// Orchestrator is safe for concurrent use. One mutex serialises model
// changes, index builds and queries.
type Orchestrator struct {
	mu         sync.Mutex
	docs       document.Collection
	positions  map[int]int
	stopwords  tokenizer.StopwordSet
	stemmer    stemmer.Stemmer
	normalizer *tokenizer.Normalizer
	modelCfg   model.Config
	active     model.Model
	outputK    int
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

type Option func(*Orchestrator)

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithStemmer(s stemmer.Stemmer) Option {
	return func(o *Orchestrator) { o.stemmer = s }
}

func WithStopwords(words []string) Option {
	return func(o *Orchestrator) { o.stopwords = tokenizer.NewStopwordSet(words) }
}

func WithModelConfig(cfg model.Config) Option {
	return func(o *Orchestrator) { o.modelCfg = cfg }
}

// WithOutputK sets the result limit; non-positive values are ignored.
func WithOutputK(k int) Option {
	return func(o *Orchestrator) {
		if k > 0 {
			o.outputK = k
		}
	}
}

// New returns an Orchestrator over docs with no active model.
func New(docs document.Collection, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		docs:      docs,
		positions: docs.Index(),
		stemmer:   stemmer.Porter{},
		modelCfg:  model.DefaultConfig(),
		outputK:   DefaultOutputK,
		logger:    slog.Default().With("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.normalizer = tokenizer.NewNormalizer(o.stopwords, o.stemmer)
	if o.metrics != nil {
		o.metrics.DocumentsLoaded.Set(float64(len(docs)))
	}
	return o
}

// SetModel activates kind, discarding the previous model and its indexes.
func (o *Orchestrator) SetModel(kind model.Kind) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	m, err := model.New(kind, o.docs, o.normalizer, o.buildConfig())
	if err != nil {
		return fmt.Errorf("activating model: %w", err)
	}
	if o.active != nil {
		o.active.Reset()
	}
	o.active = m
	o.logger.Info("model activated", "model", string(kind), "docs", len(o.docs))
	if o.metrics != nil {
		all := make([]string, 0, 4)
		for _, k := range model.Kinds() {
			all = append(all, string(k))
		}
		o.metrics.SetActiveModel(string(kind), all)
	}
	return nil
}

// SetModelByName parses name and activates that model.
func (o *Orchestrator) SetModelByName(name string) error {
	kind, err := model.ParseKind(name)
	if err != nil {
		return err
	}
	return o.SetModel(kind)
}

// ModelKind returns the active model, if any.
func (o *Orchestrator) ModelKind() (model.Kind, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return "", false
	}
	return o.active.Kind(), true
}

// Search runs query against the active model and returns at most output_k
// results ordered by score descending.
func (o *Orchestrator) Search(query string, stemming, stopwordFiltering bool) ([]Result, error) {
	return o.SearchWithLimit(query, tokenizer.Options{Stemming: stemming, StopwordFiltering: stopwordFiltering}, 0)
}

// SearchWithLimit is Search with an explicit result limit. A limit of zero
// or less uses output_k.
func (o *Orchestrator) SearchWithLimit(query string, opts tokenizer.Options, limit int) ([]Result, error) {
	_, results, err := o.SearchActive(query, opts, limit)
	return results, err
}

// SearchActive is SearchWithLimit that also reports the model kind that
// produced the results. Both are read under the same lock, so a concurrent
// SetModel cannot separate them.
func (o *Orchestrator) SearchActive(query string, opts tokenizer.Options, limit int) (model.Kind, []Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return "", nil, apperrors.ErrNoActiveModel
	}
	if limit <= 0 {
		limit = o.outputK
	}
	start := time.Now()
	scored := o.active.Search(query, opts, limit)
	results := make([]Result, 0, len(scored))
	for _, sd := range scored {
		pos, ok := o.positions[sd.DocID]
		if !ok {
			continue
		}
		results = append(results, Result{Score: sd.Score, Document: o.docs[pos]})
	}
	elapsed := time.Since(start)
	o.logger.Debug("query executed",
		"model", o.active.String(),
		"query", query,
		"stemming", opts.Stemming,
		"stopword_filtering", opts.StopwordFiltering,
		"results", len(results),
		"duration", elapsed,
	)
	if o.metrics != nil {
		o.metrics.ObserveSearch(o.active.String(), len(results), elapsed, nil)
	}
	return o.active.Kind(), results, nil
}

// SetOutputK changes the default number of results.
func (o *Orchestrator) SetOutputK(k int) error {
	if k <= 0 {
		return fmt.Errorf("output k %d must be positive: %w", k, apperrors.ErrInvalidInput)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outputK = k
	return nil
}

// OutputK returns the default number of results.
func (o *Orchestrator) OutputK() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outputK
}

// SetCollection replaces the documents. The active model is kept but its
// indexes are discarded and rebuilt on the next query.
func (o *Orchestrator) SetCollection(docs document.Collection) error {
	if err := docs.Validate(); err != nil {
		return fmt.Errorf("setting collection: %w", err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.docs = docs
	o.positions = docs.Index()
	if o.metrics != nil {
		o.metrics.DocumentsLoaded.Set(float64(len(docs)))
	}
	o.logger.Info("collection replaced", "docs", len(docs))
	return o.rebuildActive()
}

// SetStopwords replaces the stop-word list and discards built indexes.
func (o *Orchestrator) SetStopwords(words []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopwords = tokenizer.NewStopwordSet(words)
	o.normalizer = tokenizer.NewNormalizer(o.stopwords, o.stemmer)
	o.logger.Info("stopwords replaced", "count", len(o.stopwords))
	return o.rebuildActive()
}

// Stopwords returns the current stop-words, sorted.
func (o *Orchestrator) Stopwords() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopwords.Words()
}

// Document returns the document with the given id.
func (o *Orchestrator) Document(id int) (document.Document, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	pos, ok := o.positions[id]
	if !ok {
		return document.Document{}, fmt.Errorf("document %d: %w", id, apperrors.ErrDocumentNotFound)
	}
	return o.docs[pos], nil
}

// Documents returns a copy of the collection.
func (o *Orchestrator) Documents() document.Collection {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(document.Collection, len(o.docs))
	copy(out, o.docs)
	return out
}

// rebuildActive replaces the active model with a fresh one over the
// current collection and normaliser. Callers hold o.mu.
func (o *Orchestrator) rebuildActive() error {
	if o.active == nil {
		return nil
	}
	m, err := model.New(o.active.Kind(), o.docs, o.normalizer, o.buildConfig())
	if err != nil {
		return fmt.Errorf("rebuilding %s model: %w", o.active.Kind(), err)
	}
	o.active.Reset()
	o.active = m
	return nil
}

func (o *Orchestrator) buildConfig() model.Config {
	cfg := o.modelCfg
	if o.metrics != nil {
		m := o.metrics
		cfg.OnBuild = func(kind model.Kind, _ int, elapsed time.Duration) {
			m.ObserveBuild(string(kind), elapsed)
		}
	}
	return cfg
}
