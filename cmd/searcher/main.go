package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/corpus/store"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/evaluation"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/orchestrator"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port, "model", cfg.Retrieval.Model, "store", cfg.Store.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	docs, err := st.LoadCollection(ctx)
	if err != nil {
		slog.Error("failed to load collection", "error", err)
		os.Exit(1)
	}
	stopwords, err := st.LoadStopwords(ctx)
	if err != nil {
		slog.Error("failed to load stopwords", "error", err)
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port, prometheus.DefaultGatherer)
		defer shutdownMetrics(context.Background())
	}

	orch, err := orchestrator.FromConfig(cfg.Retrieval, docs, stopwords, orchestrator.WithMetrics(m))
	if err != nil {
		slog.Error("failed to create orchestrator", "error", err)
		os.Exit(1)
	}
	slog.Info("collection loaded", "docs", len(docs), "stopwords", len(stopwords))

	var truth *evaluation.GroundTruth
	if cfg.Corpus.GroundTruthPath != "" {
		if truth, err = evaluation.ParseFile(cfg.Corpus.GroundTruthPath); err != nil {
			slog.Warn("ground truth unavailable, evaluation disabled", "error", err)
			truth = nil
		}
	}

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis.CacheTTL, m)
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var publisher analytics.Publisher
	if cfg.Analytics.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
		defer producer.Close()
		publisher = producer
	}
	aggregator := analytics.NewAggregator()
	collector := analytics.NewCollector(publisher, cfg.Analytics.BufferSize,
		analytics.WithAggregator(aggregator),
		analytics.WithMetrics(m),
	)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.SearchEvents, "publishing", cfg.Analytics.Enabled)

	checker := health.NewChecker()
	checker.Register("orchestrator", func(ctx context.Context) health.ComponentHealth {
		kind, ok := orch.ModelKind()
		if !ok {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "no active model"}
		}
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%s model over %d documents", kind, len(orch.Documents()))}
	})
	if redisClient != nil {
		checker.Register("redis", health.PingCheck(redisClient, false))
	} else {
		checker.Register("redis", health.PingCheck(nil, false))
	}
	if p, ok := st.(health.Pinger); ok {
		checker.Register("store", health.PingCheck(p, true))
	}

	mux := http.NewServeMux()
	handler.New(orch, queryCache, collector, truth, cfg.Server.MaxResults).Register(mux)
	mux.HandleFunc("GET /api/v1/analytics", analytics.NewHandler(aggregator).Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var limiter *middleware.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = middleware.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go limiter.RunSweeper(ctx, time.Minute)
	}

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RateLimit(limiter)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}
