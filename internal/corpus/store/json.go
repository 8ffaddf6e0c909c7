package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
)

// JSONStore writes the collection and stop-words as indented JSON files.
// Writes go to a temporary file that is renamed into place.
type JSONStore struct {
	collectionPath string
	stopwordPath   string
	logger         *slog.Logger
}

func NewJSONStore(collectionPath, stopwordPath string) *JSONStore {
	return &JSONStore{
		collectionPath: collectionPath,
		stopwordPath:   stopwordPath,
		logger:         slog.Default().With("component", "json-store"),
	}
}

func (s *JSONStore) LoadCollection(ctx context.Context) (document.Collection, error) {
	var coll document.Collection
	found, err := readJSON(s.collectionPath, &coll)
	if err != nil {
		return nil, fmt.Errorf("loading collection: %w", err)
	}
	if !found {
		s.logger.Info("no collection found, starting empty", "path", s.collectionPath)
		return document.Collection{}, nil
	}
	if err := coll.Validate(); err != nil {
		return nil, fmt.Errorf("loading collection %s: %w", s.collectionPath, err)
	}
	return coll, nil
}

func (s *JSONStore) SaveCollection(ctx context.Context, coll document.Collection) error {
	if coll == nil {
		coll = document.Collection{}
	}
	if err := writeJSON(s.collectionPath, coll); err != nil {
		return fmt.Errorf("saving collection: %w", err)
	}
	s.logger.Info("collection saved", "path", s.collectionPath, "docs", len(coll))
	return nil
}

func (s *JSONStore) LoadStopwords(ctx context.Context) ([]string, error) {
	var words []string
	found, err := readJSON(s.stopwordPath, &words)
	if err != nil {
		return nil, fmt.Errorf("loading stopwords: %w", err)
	}
	if !found {
		s.logger.Info("no stopword list found", "path", s.stopwordPath)
		return []string{}, nil
	}
	return words, nil
}

func (s *JSONStore) SaveStopwords(ctx context.Context, words []string) error {
	if words == nil {
		words = []string{}
	}
	if err := writeJSON(s.stopwordPath, words); err != nil {
		return fmt.Errorf("saving stopwords: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }

// readJSON decodes path into v. found is false when the file does not
// exist.
func readJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", path, err)
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s: %w", tmpPath, err)
	}
	return nil
}
