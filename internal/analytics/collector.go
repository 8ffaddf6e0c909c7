package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/metrics"
)

const (
	DefaultBufferSize = 10000
	maxBatch          = 100
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
}

// Collector buffers events for a background publisher goroutine. Track
// never blocks: events that do not fit the buffer are dropped and counted.
type Collector struct {
	publisher  Publisher
	aggregator *Aggregator
	metrics    *metrics.Metrics
	eventCh    chan SearchEvent
	done       chan struct{}
	mu         sync.RWMutex
	closed     bool
	logger     *slog.Logger
}

type CollectorOption func(*Collector)

// WithAggregator records every tracked event in agg, including events that
// are later dropped from the publish buffer.
func WithAggregator(agg *Aggregator) CollectorOption {
	return func(c *Collector) { c.aggregator = agg }
}

func WithMetrics(m *metrics.Metrics) CollectorOption {
	return func(c *Collector) { c.metrics = m }
}

// NewCollector returns a Collector publishing through p. A nil p disables
// publishing; events are then only aggregated.
func NewCollector(p Publisher, bufferSize int, opts ...CollectorOption) *Collector {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	c := &Collector{
		publisher: p,
		eventCh:   make(chan SearchEvent, bufferSize),
		done:      make(chan struct{}),
		logger:    slog.Default().With("component", "analytics-collector"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the publisher goroutine. It stops when ctx is cancelled or
// Close is called, publishing whatever is still buffered.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				c.publish(ctx, c.batch(event))
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh), "publishing", c.publisher != nil)
}

// Track records event. It is safe to call after Close; the event is then
// only aggregated.
func (c *Collector) Track(event SearchEvent) {
	if c.aggregator != nil {
		c.aggregator.Record(event)
	}
	if c.publisher == nil {
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.dropped()
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.dropped()
	}
}

// Close stops accepting events and waits for the buffer to be published.
// Start must have been called.
func (c *Collector) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.eventCh)
	}
	c.mu.Unlock()
	<-c.done
}

func (c *Collector) dropped() {
	if c.metrics != nil {
		c.metrics.AnalyticsDropped.Inc()
	}
	c.logger.Warn("analytics event dropped")
}

// batch collects first plus whatever else is already buffered, up to
// maxBatch events.
func (c *Collector) batch(first SearchEvent) []kafka.Event {
	events := []kafka.Event{toKafka(first)}
	for len(events) < maxBatch {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return events
			}
			events = append(events, toKafka(event))
		default:
			return events
		}
	}
	return events
}

func (c *Collector) publish(ctx context.Context, events []kafka.Event) {
	if c.publisher == nil || len(events) == 0 {
		return
	}
	if err := c.publisher.PublishBatch(ctx, events); err != nil {
		c.logger.Error("failed to publish analytics events", "count", len(events), "error", err)
	}
}

func (c *Collector) drainRemaining() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			c.publish(ctx, c.batch(event))
		default:
			return
		}
	}
}

func toKafka(event SearchEvent) kafka.Event {
	return kafka.Event{Key: event.Model, Value: event}
}
