// Package cli implements the interactive text menu of the retrieval
// system: listing and showing documents, building the collection and
// stop-word list, switching models and running timed, evaluated searches.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/corpus/cleanup"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/corpus/store"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/evaluation"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/stemmer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/model"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/orchestrator"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/config"
)

const (
	choiceList         = 1
	choiceSearch       = 2
	choiceExtract      = 3
	choiceStopwords    = 4
	choiceSetModel     = 5
	choiceShowDocument = 6
	choiceExit         = 9
)

const (
	searchNormal = iota + 1
	searchStopwords
	searchStemming
	searchBoth
)

const (
	stopwordsFromFile = iota + 1
	stopwordsCrouch
)

// App is one interactive session.
type App struct {
	orch    *orchestrator.Orchestrator
	store   store.Store
	corpus  config.CorpusConfig
	truth   *evaluation.GroundTruth
	stemmer stemmer.Stemmer
	in      *bufio.Scanner
	out     io.Writer
	closed  bool
	logger  *slog.Logger
}

type Option func(*App)

// WithGroundTruth enables precision and recall output after each search.
func WithGroundTruth(gt *evaluation.GroundTruth) Option {
	return func(a *App) { a.truth = gt }
}

// WithStemmer sets the stemmer used when building the collection.
func WithStemmer(s stemmer.Stemmer) Option {
	return func(a *App) { a.stemmer = s }
}

func New(orch *orchestrator.Orchestrator, st store.Store, corpus config.CorpusConfig, in io.Reader, out io.Writer, opts ...Option) *App {
	a := &App{
		orch:    orch,
		store:   st,
		corpus:  corpus,
		stemmer: stemmer.Porter{},
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  slog.Default().With("component", "cli"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run shows the main menu until the user exits, the input ends or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		a.printMenu()
		choice, ok := a.readInt("Enter choice: ")
		if !ok {
			if a.closed {
				return nil
			}
			a.println("Invalid choice.")
			continue
		}
		switch choice {
		case choiceList:
			a.listDocuments()
		case choiceSearch:
			a.search()
		case choiceExtract:
			a.extract(ctx)
		case choiceStopwords:
			a.rebuildStopwords(ctx)
		case choiceSetModel:
			a.setModel()
		case choiceShowDocument:
			a.showDocument()
		case choiceExit:
			return nil
		default:
			a.println("Invalid choice.")
		}
		a.println()
		if _, ok := a.readLine("Press ENTER to continue..."); !ok {
			return nil
		}
		a.println()
	}
	return ctx.Err()
}

func (a *App) printMenu() {
	current := "None"
	if kind, ok := a.orch.ModelKind(); ok {
		current = string(kind)
	}
	a.printf("Current retrieval model: %s\n", current)
	a.printf("Current collection: %d documents\n\n", len(a.orch.Documents()))
	a.println("Please choose an option:")
	a.printf("%d - List documents\n", choiceList)
	a.printf("%d - Search for term\n", choiceSearch)
	a.printf("%d - Build collection\n", choiceExtract)
	a.printf("%d - Rebuild stopword list\n", choiceStopwords)
	a.printf("%d - Set model\n", choiceSetModel)
	a.printf("%d - Show a specific document\n", choiceShowDocument)
	a.printf("%d - Exit\n", choiceExit)
}

func (a *App) listDocuments() {
	docs := a.orch.Documents()
	if len(docs) == 0 {
		a.println("No documents.")
		return
	}
	for _, doc := range docs {
		a.println(doc.String())
	}
}

func (a *App) search() {
	a.println("Search options:")
	a.printf("%d - Standard search (default)\n", searchNormal)
	a.printf("%d - Search documents with removed stopwords\n", searchStopwords)
	a.printf("%d - Search documents with stemmed terms\n", searchStemming)
	a.printf("%d - Search documents with removed stopwords AND stemmed terms\n", searchBoth)
	mode, ok := a.readInt("Enter choice: ")
	if !ok {
		mode = searchNormal
	}
	filtering := mode == searchStopwords || mode == searchBoth
	stemming := mode == searchStemming || mode == searchBoth

	query, ok := a.readLine("Query: ")
	if !ok {
		return
	}
	start := time.Now()
	results, err := a.orch.Search(query, stemming, filtering)
	elapsed := time.Since(start)
	if err != nil {
		a.printf("Search failed: %v\n", err)
		return
	}
	ids := make([]int, 0, len(results))
	for _, r := range results {
		a.printf("%g: %s\n", r.Score, r.Document)
		ids = append(ids, r.Document.ID)
	}
	a.println()
	if a.truth != nil {
		a.printf("precision: %s\n", formatMeasure(a.truth.Precision(query, ids)))
		a.printf("recall: %s\n", formatMeasure(a.truth.Recall(query, ids)))
	}
	a.printf("Query processing time: %.2f ms\n", float64(elapsed.Microseconds())/1000)
}

func formatMeasure(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func (a *App) extract(ctx context.Context) {
	opts := indexer.BuildOptions{SkipLines: a.corpus.SkipLines, Stemmer: a.stemmer}
	if a.confirm("Should stopwords be filtered? [y/N]: ") {
		words, err := cleanup.LoadStopwordFile(a.corpus.StopwordListPath)
		if err != nil {
			a.printf("Loading stopwords failed: %v\n", err)
			return
		}
		opts.FilterStopwords = true
		opts.Stopwords = words
	}
	opts.Stem = a.confirm("Should stemming be performed? [y/N]: ")
	coll, err := indexer.BuildFile(a.corpus.RawDataPath, opts)
	if err != nil {
		a.printf("Extraction failed: %v\n", err)
		return
	}
	if err := a.store.SaveCollection(ctx, coll); err != nil {
		a.printf("Saving collection failed: %v\n", err)
		return
	}
	if err := a.orch.SetCollection(coll); err != nil {
		a.printf("Activating collection failed: %v\n", err)
		return
	}
	a.println("Done.")
}

func (a *App) rebuildStopwords(ctx context.Context) {
	a.println("Available options:")
	a.printf("%d - Load stopword list from file\n", stopwordsFromFile)
	a.printf("%d - Generate stopword list using Crouch's method\n", stopwordsCrouch)
	method, _ := a.readInt("Enter choice: ")

	var words []string
	switch method {
	case stopwordsFromFile:
		var err error
		if words, err = cleanup.LoadStopwordFile(a.corpus.StopwordListPath); err != nil {
			a.printf("Loading stopwords failed: %v\n", err)
			return
		}
	case stopwordsCrouch:
		words = cleanup.ByFrequency(a.orch.Documents(), a.corpus.CrouchThreshold)
	default:
		a.println("Invalid choice.")
		return
	}
	if err := a.store.SaveStopwords(ctx, words); err != nil {
		a.printf("Saving stopwords failed: %v\n", err)
		return
	}
	if err := a.orch.SetStopwords(words); err != nil {
		a.printf("Activating stopwords failed: %v\n", err)
		return
	}
	a.printf("Done. %d stopwords.\n", len(words))
}

func (a *App) setModel() {
	kinds := model.Kinds()
	a.println()
	a.println("Available models:")
	labels := map[model.Kind]string{
		model.KindLinear:    "Boolean model with linear search",
		model.KindInverted:  "Boolean model with inverted lists",
		model.KindSignature: "Boolean model with signature-based search",
		model.KindVector:    "Vector space model",
	}
	for i, k := range kinds {
		a.printf("%d - %s\n", i+1, labels[k])
	}
	choice, ok := a.readInt("Enter choice: ")
	if !ok || choice < 1 || choice > len(kinds) {
		a.println("Invalid choice.")
		return
	}
	if err := a.orch.SetModel(kinds[choice-1]); err != nil {
		a.printf("Setting model failed: %v\n", err)
	}
}

func (a *App) showDocument() {
	id, ok := a.readInt("ID of the desired document: ")
	if !ok {
		a.println("Invalid id.")
		return
	}
	doc, err := a.orch.Document(id)
	if err != nil {
		a.printf("Document #%d not found!\n", id)
		return
	}
	a.println(doc.Title)
	a.println(strings.Repeat("-", len(doc.Title)))
	a.println(doc.RawText)
}

func (a *App) readLine(prompt string) (string, bool) {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			a.logger.Error("reading input", "error", err)
		}
		a.closed = true
		return "", false
	}
	return a.in.Text(), true
}

func (a *App) readInt(prompt string) (int, bool) {
	line, ok := a.readLine(prompt)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	return n, err == nil
}

func (a *App) confirm(prompt string) bool {
	line, _ := a.readLine(prompt)
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func (a *App) printf(format string, args ...any) { fmt.Fprintf(a.out, format, args...) }

func (a *App) println(args ...any) { fmt.Fprintln(a.out, args...) }
