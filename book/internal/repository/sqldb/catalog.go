package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taletrail/book/internal/repository"
	"taletrail/book/pkg/model"
)

// CreateCountry inserts a country and sets its id.
func (s *Store) CreateCountry(ctx context.Context, c *model.Country) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO countries (code, name, latitude, longitude) VALUES (?, ?, ?, ?)",
		c.Code, c.Name, nullFloatPtr(c.Latitude), nullFloatPtr(c.Longitude))
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

// GetCountry retrieves a country by its code.
func (s *Store) GetCountry(ctx context.Context, code string) (*model.Country, error) {
	var c model.Country
	var lat, lng sql.NullFloat64
	row := s.db.QueryRowContext(ctx, "SELECT id, code, name, latitude, longitude FROM countries WHERE code = ?", code)
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &lat, &lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	c.Latitude, c.Longitude = floatPtr(lat), floatPtr(lng)
	return &c, nil
}

// ListCountries returns the countries having at least one book, most books first.
func (s *Store) ListCountries(ctx context.Context) ([]model.CountrySummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT c.id, c.code, c.name, c.latitude, c.longitude,
		COUNT(b.id) AS book_count, COALESCE(AVG(b.average_rating), 0) AS avg_rating
		FROM countries c JOIN books b ON b.country_id = c.id
		GROUP BY c.id, c.code, c.name, c.latitude, c.longitude
		ORDER BY book_count DESC, avg_rating DESC, c.code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []model.CountrySummary{}
	for rows.Next() {
		var cs model.CountrySummary
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&cs.ID, &cs.Code, &cs.Name, &lat, &lng, &cs.BookCount, &cs.AverageRating); err != nil {
			return nil, err
		}
		cs.Latitude, cs.Longitude = floatPtr(lat), floatPtr(lng)
		res = append(res, cs)
	}
	return res, rows.Err()
}

// CreateGenre inserts a genre and sets its id.
func (s *Store) CreateGenre(ctx context.Context, g *model.Genre) error {
	res, err := s.db.ExecContext(ctx, "INSERT INTO book_genres (name) VALUES (?)", g.Name)
	if err != nil {
		return err
	}
	g.ID, err = res.LastInsertId()
	return err
}

// ListGenres returns all genres ordered by name.
func (s *Store) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.queryGenres(ctx, "SELECT id, name FROM book_genres ORDER BY name, id")
}

// BookGenres returns the genres attached to a book.
func (s *Store) BookGenres(ctx context.Context, bookID int64) ([]model.Genre, error) {
	return s.queryGenres(ctx, `SELECT g.id, g.name FROM book_genres g
		JOIN book_genre_relations r ON r.genre_id = g.id
		WHERE r.book_id = ? ORDER BY g.name, g.id`, bookID)
}

func (s *Store) queryGenres(ctx context.Context, query string, args ...any) ([]model.Genre, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

// AssignGenres attaches genres to a book. Already attached genres are left
// untouched. Returns ErrNotFound if the book or any genre does not exist.
func (s *Store) AssignGenres(ctx context.Context, bookID int64, genreIDs []int64) error {
	ctx, span := s.startSpan(ctx, "AssignGenres")
	defer span.End()

	ids := uniqueIDs(genreIDs)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx, s.logger)

	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM books WHERE id = ?", bookID).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	if len(ids) > 0 {
		q := fmt.Sprintf("SELECT COUNT(*) FROM book_genres WHERE id IN (%s)", placeholders(len(ids)))
		if err := tx.QueryRowContext(ctx, q, int64Args(ids)...).Scan(&n); err != nil {
			return err
		}
		if n != len(ids) {
			return fmt.Errorf("genre: %w", repository.ErrNotFound)
		}
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, s.dialect.InsertGenreRelation, bookID, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CreateBook inserts a book and sets its id. Rating aggregates start at zero.
func (s *Store) CreateBook(ctx context.Context, b *model.Book) error {
	res, err := s.db.ExecContext(ctx, `INSERT INTO books
		(title, author, description, publication_year, isbn, cover_image_url, average_rating, rating_count, country_id)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?)`,
		b.Title, b.Author, nullString(b.Description), nullInt(b.PublicationYear), nullString(b.ISBN),
		nullString(b.CoverImageURL), nullInt64Ptr(b.CountryID))
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	b.AverageRating, b.RatingCount = 0, 0
	return err
}

// GetBook retrieves a book by id.
func (s *Store) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	b, err := scanBook(s.db.QueryRowContext(ctx, "SELECT "+bookColumns+bookFrom+" WHERE b.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// BooksByIDs retrieves the books with the given ids in no particular order.
// Unknown ids are skipped.
func (s *Store) BooksByIDs(ctx context.Context, ids []int64) ([]model.Book, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []model.Book{}, nil
	}
	q := "SELECT " + bookColumns + bookFrom + fmt.Sprintf(" WHERE b.id IN (%s)", placeholders(len(ids)))
	return s.queryBooks(ctx, q, int64Args(ids)...)
}

var bookSorts = map[model.BookSort]string{
	model.BookSortRating: "b.average_rating %[1]s, b.rating_count %[1]s",
	model.BookSortTitle:  "b.title %[1]s",
	model.BookSortAuthor: "b.author %[1]s",
	model.BookSortYear:   "b.publication_year %[1]s",
}

// ListBooks returns one page of canonical books matching the filter and
// the total number of matches. Sort and order must be valid, limit positive.
func (s *Store) ListBooks(ctx context.Context, f model.BookFilter) ([]model.Book, int, error) {
	ctx, span := s.startSpan(ctx, "ListBooks")
	defer span.End()

	where := []string{canonicalBooks}
	var args []any
	if f.Country != "" {
		where = append(where, "c.code = ?")
		args = append(args, f.Country)
	}
	if f.Author != "" {
		where = append(where, "b.author LIKE ? ESCAPE '!'")
		args = append(args, containsPattern(f.Author))
	}
	if f.Search != "" {
		where = append(where, "(b.title LIKE ? ESCAPE '!' OR b.author LIKE ? ESCAPE '!' OR b.description LIKE ? ESCAPE '!')")
		p := containsPattern(f.Search)
		args = append(args, p, p, p)
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*)"+bookFrom+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortExpr, ok := bookSorts[f.Sort]
	if !ok {
		sortExpr = bookSorts[model.BookSortRating]
	}
	dir := "DESC"
	if f.Order == model.SortAsc {
		dir = "ASC"
	}
	q := "SELECT " + bookColumns + bookFrom + cond +
		" ORDER BY " + fmt.Sprintf(sortExpr, dir) + ", b.id ASC LIMIT ? OFFSET ?"
	books, err := s.queryBooks(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// BooksByCountry returns the top rated canonical books of a country.
func (s *Store) BooksByCountry(ctx context.Context, code string, limit int) ([]model.Book, error) {
	return s.queryBooks(ctx, "SELECT "+bookColumns+bookFrom+" WHERE c.code = ? AND "+canonicalBooks+
		" ORDER BY b.average_rating DESC, b.rating_count DESC, b.id ASC LIMIT ?", code, limit)
}

// BookReviews returns the latest ratings of a book that carry a review text.
func (s *Store) BookReviews(ctx context.Context, bookID int64, limit int) ([]model.Review, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT r.id, r.user_id, u.username, r.rating, r.review_text, r.created_at
		FROM ratings r JOIN users u ON u.id = r.user_id
		WHERE r.book_id = ? AND r.review_text IS NOT NULL AND r.review_text <> ''
		ORDER BY r.created_at DESC, r.id DESC LIMIT ?`, bookID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []model.Review{}
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.Username, &r.Rating, &r.ReviewText, &r.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	res := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

func rollback(tx *sql.Tx, logger *zap.Logger) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Warn("Failed to rollback transaction", zap.Error(err))
	}
}
