package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"taletrail/book/internal/repository/sqldb"
	"taletrail/pkg/logging"
)

//go:embed schema.sql
var schema string

// Dialect holds the SQLite specific statements. Transactions are opened
// with BEGIN IMMEDIATE, which takes the write lock up front, so the book
// lock is a plain read.
var Dialect = sqldb.Dialect{
	Name:     "sqlite",
	LockBook: "SELECT id FROM books WHERE id = ?",
	UpsertRating: `INSERT INTO ratings (user_id, book_id, rating, review_text, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, book_id) DO UPDATE SET
		rating = excluded.rating, review_text = excluded.review_text, created_at = excluded.created_at`,
	UpsertFavorite: `INSERT INTO user_favorites (user_id, book_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id, book_id) DO UPDATE SET created_at = excluded.created_at`,
	InsertGenreRelation: `INSERT INTO book_genre_relations (book_id, genre_id) VALUES (?, ?)
		ON CONFLICT (book_id, genre_id) DO NOTHING`,
}

// Repository defines a SQLite-based book repository.
type Repository struct {
	*sqldb.Store
}

// New opens (or creates) the SQLite database at path and applies the schema.
// Use ":memory:" for a private in-memory database.
func New(ctx context.Context, path string, logger *zap.Logger) (*Repository, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "sqlite"),
	)
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_txlock", "immediate")
	q.Set("_time_format", "sqlite")
	dsn := "file:" + path + "?" + q.Encode()
	logger.Info("Opening sqlite database", zap.String("path", path))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection serialises writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	r := &Repository{Store: sqldb.New(db, Dialect, logger)}
	if err := r.Migrate(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return r, nil
}
