// Package handler exposes the retrieval engine over HTTP: searching,
// switching the active model, browsing documents and managing the query
// cache.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/evaluation"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/model"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/orchestrator"
	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/logger"
)

// Searcher is the part of the orchestrator the API uses.
type Searcher interface {
	SearchActive(query string, opts tokenizer.Options, limit int) (model.Kind, []orchestrator.Result, error)
	ModelKind() (model.Kind, bool)
	SetModelByName(name string) error
	OutputK() int
	Document(id int) (document.Document, error)
	Documents() document.Collection
}

type Handler struct {
	searcher   Searcher
	cache      *cache.QueryCache
	collector  *analytics.Collector
	truth      *evaluation.GroundTruth
	maxResults int
	logger     *slog.Logger
}

// New returns a Handler. queryCache, collector and truth may be nil.
func New(s Searcher, queryCache *cache.QueryCache, collector *analytics.Collector, truth *evaluation.GroundTruth, maxResults int) *Handler {
	return &Handler{
		searcher:   s,
		cache:      queryCache,
		collector:  collector,
		truth:      truth,
		maxResults: maxResults,
		logger:     slog.Default().With("component", "search-handler"),
	}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/model", h.GetModel)
	mux.HandleFunc("PUT /api/v1/model", h.SetModel)
	mux.HandleFunc("GET /api/v1/documents", h.ListDocuments)
	mux.HandleFunc("GET /api/v1/documents/{id}", h.GetDocument)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

// Hit is one search result on the wire.
type Hit struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

type SearchResponse struct {
	Query             string   `json:"query"`
	Model             string   `json:"model"`
	Stemming          bool     `json:"stemming"`
	StopwordFiltering bool     `json:"stopword_filtering"`
	Results           []Hit    `json:"results"`
	Returned          int      `json:"returned"`
	CacheHit          bool     `json:"cache_hit"`
	LatencyMs         float64  `json:"latency_ms"`
	Precision         *float64 `json:"precision,omitempty"`
	Recall            *float64 `json:"recall,omitempty"`
}

// Search answers GET /api/v1/search. An empty or absent q is a valid query
// that matches nothing.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	q := r.URL.Query()
	query := q.Get("q")
	opts, limit, err := h.parseSearchParams(q.Get("stemming"), q.Get("stopwords"), q.Get("k"))
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	kind, ok := h.searcher.ModelKind()
	if !ok {
		h.writeAppError(w, apperrors.ErrNoActiveModel)
		return
	}

	compute := func() (*cache.Entry, error) {
		used, results, err := h.searcher.SearchActive(query, opts, limit)
		if err != nil {
			return nil, err
		}
		return &cache.Entry{Model: string(used), Results: results}, nil
	}
	var entry *cache.Entry
	cacheHit := false
	if h.cache != nil {
		key := cache.Key{Model: string(kind), Query: query, Options: opts, Limit: limit}
		entry, cacheHit, err = h.cache.GetOrCompute(ctx, key, compute)
	} else {
		entry, err = compute()
	}
	if err != nil {
		log.Error("search failed", "query", query, "error", err)
		h.writeAppError(w, err)
		return
	}

	resp := SearchResponse{
		Query:             query,
		Model:             entry.Model,
		Stemming:          opts.Stemming,
		StopwordFiltering: opts.StopwordFiltering,
		Results:           make([]Hit, 0, len(entry.Results)),
		CacheHit:          cacheHit,
	}
	ids := make([]int, 0, len(entry.Results))
	for _, res := range entry.Results {
		resp.Results = append(resp.Results, Hit{ID: res.Document.ID, Title: res.Document.Title, Score: res.Score})
		ids = append(ids, res.Document.ID)
	}
	resp.Returned = len(resp.Results)
	if h.truth != nil {
		if p, ok := h.truth.Precision(query, ids); ok {
			resp.Precision = &p
		}
		if rc, ok := h.truth.Recall(query, ids); ok {
			resp.Recall = &rc
		}
	}
	elapsed := time.Since(start)
	resp.LatencyMs = float64(elapsed.Microseconds()) / 1000

	log.Info("search completed",
		"query", query,
		"model", resp.Model,
		"returned", resp.Returned,
		"cache_hit", cacheHit,
		"latency_ms", resp.LatencyMs,
	)
	if h.collector != nil {
		h.collector.Track(analytics.NewSearchEvent(resp.Model, query, opts.Stemming, opts.StopwordFiltering,
			resp.Returned, elapsed, cacheHit, logger.RequestID(ctx)))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// parseSearchParams reads the boolean flags and k. An absent k uses the
// orchestrator's output_k; k is capped at maxResults.
func (h *Handler) parseSearchParams(stemming, stopwords, k string) (tokenizer.Options, int, error) {
	var opts tokenizer.Options
	var err error
	if stemming != "" {
		if opts.Stemming, err = strconv.ParseBool(stemming); err != nil {
			return opts, 0, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "stemming must be a boolean")
		}
	}
	if stopwords != "" {
		if opts.StopwordFiltering, err = strconv.ParseBool(stopwords); err != nil {
			return opts, 0, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "stopwords must be a boolean")
		}
	}
	limit := h.searcher.OutputK()
	if k != "" {
		parsed, err := strconv.Atoi(k)
		if err != nil || parsed < 1 {
			return opts, 0, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "k must be a positive integer")
		}
		limit = parsed
	}
	if h.maxResults > 0 && limit > h.maxResults {
		limit = h.maxResults
	}
	return opts, limit, nil
}

type modelRequest struct {
	Model string `json:"model"`
}

func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.searcher.ModelKind()
	if !ok {
		h.writeJSON(w, http.StatusOK, map[string]any{"model": nil})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"model": string(kind)})
}

func (h *Handler) SetModel(w http.ResponseWriter, r *http.Request) {
	var req modelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Model == "" {
		h.writeError(w, http.StatusBadRequest, "body must be {\"model\": \"<name>\"}")
		return
	}
	if err := h.searcher.SetModelByName(req.Model); err != nil {
		h.writeAppError(w, err)
		return
	}
	kind, _ := h.searcher.ModelKind()
	logger.FromContext(r.Context()).Info("model changed", "model", string(kind))
	h.writeJSON(w, http.StatusOK, map[string]any{"model": string(kind)})
}

type documentSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := h.searcher.Documents()
	out := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentSummary{ID: d.ID, Title: d.Title})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"total": len(out), "documents": out})
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "document id must be an integer")
		return
	}
	doc, err := h.searcher.Document(id)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": strconv.FormatFloat(hitRate, 'f', 1, 64) + "%",
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeAppError maps err to its HTTP status. Messages of AppErrors are
// shown; other errors show their sentinel text.
func (h *Handler) writeAppError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusCode(err)
	var appErr *apperrors.AppError
	msg := err.Error()
	switch {
	case errors.As(err, &appErr):
		msg = appErr.Message
	case status == http.StatusInternalServerError:
		msg = "internal error"
	}
	h.writeError(w, status, msg)
}
