package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/cli"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/corpus/store"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/evaluation"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/stemmer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/orchestrator"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
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
		shutdown := metrics.StartServer(cfg.Metrics.Port, prometheus.DefaultGatherer)
		defer shutdown(context.Background())
	}

	// The menu starts without an active model, like a fresh session.
	retrieval := cfg.Retrieval
	retrieval.Model = ""
	orch, err := orchestrator.FromConfig(retrieval, docs, stopwords, orchestrator.WithMetrics(m))
	if err != nil {
		slog.Error("failed to create orchestrator", "error", err)
		os.Exit(1)
	}

	s, _ := stemmer.New(cfg.Retrieval.Stemmer)
	opts := []cli.Option{cli.WithStemmer(s)}
	if cfg.Corpus.GroundTruthPath != "" {
		gt, err := evaluation.ParseFile(cfg.Corpus.GroundTruthPath)
		if err != nil {
			slog.Warn("ground truth unavailable, evaluation disabled", "path", cfg.Corpus.GroundTruthPath, "error", err)
		} else {
			opts = append(opts, cli.WithGroundTruth(gt))
		}
	}

	slog.Info("collection loaded", "docs", len(docs), "stopwords", len(stopwords))
	app := cli.New(orch, st, cfg.Corpus, os.Stdin, os.Stdout, opts...)
	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("menu error", "error", err)
		os.Exit(1)
	}
}
