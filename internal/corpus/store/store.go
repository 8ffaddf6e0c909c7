// Package store persists the document collection and the stop-word list.
// JSONStore keeps the two JSON files of the original layout; SQLStore keeps
// them in Postgres or an embedded SQLite database.
package store

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/postgres"
)

// Store loads and saves the collection and stop-words. Loading from an
// empty store yields an empty collection or list, not an error.
type Store interface {
	LoadCollection(ctx context.Context) (document.Collection, error)
	SaveCollection(ctx context.Context, coll document.Collection) error
	LoadStopwords(ctx context.Context) ([]string, error)
	SaveStopwords(ctx context.Context, words []string) error
	Close() error
}

// Open returns the backend named by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case "", "json":
		return NewJSONStore(cfg.Store.CollectionPath, cfg.Store.StopwordPath), nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.Store.SQLitePath)
	case "postgres":
		client, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return NewSQLStore(ctx, client.DB, DialectPostgres)
	}
	return nil, fmt.Errorf("store backend %q: %w", cfg.Store.Backend, apperrors.ErrInvalidInput)
}
