package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/glebarez/go-sqlite"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/postgres"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// placeholder returns the n-th (1-based) bind parameter.
func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id             INTEGER PRIMARY KEY,
		title          TEXT NOT NULL,
		raw_text       TEXT NOT NULL,
		terms          TEXT,
		filtered_terms TEXT,
		stemmed_terms  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS stopwords (
		position INTEGER PRIMARY KEY,
		word     TEXT NOT NULL
	)`,
}

// SQLStore keeps documents and stop-words in two tables. Term lists are
// stored as JSON text; a NULL column round-trips to a nil slice.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// NewSQLStore creates the schema on db if needed.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return &SQLStore{
		db:      db,
		dialect: dialect,
		logger:  slog.Default().With("component", "sql-store", "dialect", string(dialect)),
	}, nil
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s, err := NewSQLStore(ctx, db, DialectSQLite)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) LoadCollection(ctx context.Context) (document.Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, raw_text, terms, filtered_terms, stemmed_terms FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	coll := document.Collection{}
	for rows.Next() {
		var (
			doc                      document.Document
			terms, filtered, stemmed sql.NullString
		)
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.RawText, &terms, &filtered, &stemmed); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		for _, col := range []struct {
			src sql.NullString
			dst *[]string
		}{{terms, &doc.Terms}, {filtered, &doc.FilteredTerms}, {stemmed, &doc.StemmedTerms}} {
			if err := decodeTerms(col.src, col.dst); err != nil {
				return nil, fmt.Errorf("decoding terms of document %d: %w", doc.ID, err)
			}
		}
		coll = append(coll, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return coll, nil
}

// SaveCollection replaces the stored documents in one transaction.
func (s *SQLStore) SaveCollection(ctx context.Context, coll document.Collection) error {
	if err := coll.Validate(); err != nil {
		return fmt.Errorf("saving collection: %w", err)
	}
	insert := fmt.Sprintf(
		`INSERT INTO documents (id, title, raw_text, terms, filtered_terms, stemmed_terms) VALUES (%s, %s, %s, %s, %s, %s)`,
		s.dialect.placeholder(1), s.dialect.placeholder(2), s.dialect.placeholder(3),
		s.dialect.placeholder(4), s.dialect.placeholder(5), s.dialect.placeholder(6),
	)
	err := postgres.InTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
			return fmt.Errorf("clearing documents: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, insert)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()
		for _, doc := range coll {
			if _, err := stmt.ExecContext(ctx, doc.ID, doc.Title, doc.RawText,
				encodeTerms(doc.Terms), encodeTerms(doc.FilteredTerms), encodeTerms(doc.StemmedTerms)); err != nil {
				return fmt.Errorf("inserting document %d: %w", doc.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving collection: %w", err)
	}
	s.logger.Info("collection saved", "docs", len(coll))
	return nil
}

func (s *SQLStore) LoadStopwords(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word FROM stopwords ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying stopwords: %w", err)
	}
	defer rows.Close()
	words := []string{}
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scanning stopword: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stopwords: %w", err)
	}
	return words, nil
}

// SaveStopwords replaces the stored list in one transaction.
func (s *SQLStore) SaveStopwords(ctx context.Context, words []string) error {
	insert := fmt.Sprintf(`INSERT INTO stopwords (position, word) VALUES (%s, %s)`,
		s.dialect.placeholder(1), s.dialect.placeholder(2))
	err := postgres.InTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM stopwords`); err != nil {
			return fmt.Errorf("clearing stopwords: %w", err)
		}
		for i, w := range words {
			if _, err := tx.ExecContext(ctx, insert, i, w); err != nil {
				return fmt.Errorf("inserting stopword %q: %w", w, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving stopwords: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func encodeTerms(terms []string) sql.NullString {
	if terms == nil {
		return sql.NullString{}
	}
	data, _ := json.Marshal(terms)
	return sql.NullString{String: string(data), Valid: true}
}

func decodeTerms(src sql.NullString, dst *[]string) error {
	if !src.Valid {
		*dst = nil
		return nil
	}
	return json.Unmarshal([]byte(src.String), dst)
}
