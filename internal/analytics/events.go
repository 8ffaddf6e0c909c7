// Package analytics records search events. A Collector feeds each event to
// an in-process Aggregator and publishes it to Kafka in batches.
package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventZeroResult EventType = "zero_result"
)

// SearchEvent describes one executed query.
type SearchEvent struct {
	Type              EventType `json:"type"`
	Model             string    `json:"model"`
	Query             string    `json:"query"`
	Stemming          bool      `json:"stemming"`
	StopwordFiltering bool      `json:"stopword_filtering"`
	Returned          int       `json:"returned"`
	LatencyMs         int64     `json:"latency_ms"`
	CacheHit          bool      `json:"cache_hit"`
	Timestamp         time.Time `json:"timestamp"`
	RequestID         string    `json:"request_id,omitempty"`
}

// NewSearchEvent fills Type from the result count and stamps the time.
func NewSearchEvent(model, query string, stemming, filtering bool, returned int, latency time.Duration, cacheHit bool, requestID string) SearchEvent {
	typ := EventSearch
	if returned == 0 {
		typ = EventZeroResult
	}
	return SearchEvent{
		Type:              typ,
		Model:             model,
		Query:             query,
		Stemming:          stemming,
		StopwordFiltering: filtering,
		Returned:          returned,
		LatencyMs:         latency.Milliseconds(),
		CacheHit:          cacheHit,
		Timestamp:         time.Now().UTC(),
		RequestID:         requestID,
	}
}
