package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/corpus/cleanup"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/corpus/store"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/stemmer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	filter := flag.Bool("filter", true, "fill filtered_terms using the stopword list file")
	stem := flag.Bool("stem", true, "fill stemmed_terms")
	stopwordSource := flag.String("stopwords", "file", "stopword list to store: file, crouch or none")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("building collection", "corpus", cfg.Corpus.RawDataPath, "store", cfg.Store.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := stemmer.New(cfg.Retrieval.Stemmer)
	if err != nil {
		slog.Error("invalid stemmer", "error", err)
		os.Exit(1)
	}
	var listed []string
	if *filter || *stopwordSource == "file" {
		if listed, err = cleanup.LoadStopwordFile(cfg.Corpus.StopwordListPath); err != nil {
			slog.Error("failed to load stopword list", "error", err)
			os.Exit(1)
		}
	}

	coll, err := indexer.BuildFile(cfg.Corpus.RawDataPath, indexer.BuildOptions{
		SkipLines:       cfg.Corpus.SkipLines,
		FilterStopwords: *filter,
		Stopwords:       listed,
		Stem:            *stem,
		Stemmer:         s,
	})
	if err != nil {
		slog.Error("failed to build collection", "error", err)
		os.Exit(1)
	}

	var stopwords []string
	switch *stopwordSource {
	case "file":
		stopwords = listed
	case "crouch":
		stopwords = cleanup.ByFrequency(coll, cfg.Corpus.CrouchThreshold)
	case "none":
	default:
		slog.Error("unknown stopword source", "source", *stopwordSource)
		os.Exit(1)
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	if err := st.SaveCollection(ctx, coll); err != nil {
		slog.Error("failed to save collection", "error", err)
		os.Exit(1)
	}
	if *stopwordSource != "none" {
		if err := st.SaveStopwords(ctx, stopwords); err != nil {
			slog.Error("failed to save stopwords", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("collection stored", "docs", len(coll), "stopwords", len(stopwords), "stopword_source", *stopwordSource)
}
