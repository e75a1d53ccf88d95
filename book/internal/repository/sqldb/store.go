// Package sqldb implements the book repository on top of database/sql.
// Statements that differ between MySQL and SQLite are supplied by a Dialect.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"taletrail/book/pkg/model"
)

const tracerID = "book-repository-sql"

// Dialect holds the statements that cannot be written portably.
type Dialect struct {
	Name string
	// LockBook selects a book row and locks it for the rest of the transaction.
	LockBook string
	// UpsertRating takes user_id, book_id, rating, review_text, created_at.
	UpsertRating string
	// UpsertFavorite takes user_id, book_id, created_at.
	UpsertFavorite string
	// InsertGenreRelation takes book_id, genre_id and ignores duplicates.
	InsertGenreRelation string
}

// Store defines a SQL book repository.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// New creates a store over an open database handle.
func New(db *sql.DB, dialect Dialect, logger *zap.Logger) *Store {
	return &Store{db: db, dialect: dialect, logger: logger}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate executes a schema script statement by statement.
func (s *Store) Migrate(ctx context.Context, schema string) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dialect.Name, err)
		}
	}
	return nil
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerID).Start(ctx, "Repository/"+name)
}

const bookColumns = `b.id, b.title, b.author, COALESCE(b.description, ''), COALESCE(b.publication_year, 0),
	COALESCE(b.isbn, ''), COALESCE(b.cover_image_url, ''), b.average_rating, b.rating_count,
	b.country_id, COALESCE(c.code, ''), COALESCE(c.name, '')`

const bookFrom = ` FROM books b LEFT JOIN countries c ON c.id = b.country_id`

// canonicalBooks keeps the lowest id of every (title, author) pair.
const canonicalBooks = `b.id IN (SELECT MIN(id) FROM books GROUP BY title, author)`

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner, extra ...any) (model.Book, error) {
	var b model.Book
	var countryID sql.NullInt64
	dest := []any{
		&b.ID, &b.Title, &b.Author, &b.Description, &b.PublicationYear,
		&b.ISBN, &b.CoverImageURL, &b.AverageRating, &b.RatingCount,
		&countryID, &b.CountryCode, &b.CountryName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Book{}, err
	}
	if countryID.Valid {
		id := countryID.Int64
		b.CountryID = &id
	}
	return b, nil
}

func (s *Store) queryBooks(ctx context.Context, query string, args ...any) ([]model.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching s literally anywhere,
// to be used with ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

func nullInt64Ptr(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloatPtr(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
