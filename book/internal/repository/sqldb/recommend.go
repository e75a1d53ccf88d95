package sqldb

import (
	"context"

	"taletrail/book/pkg/model"
)

const (
	userFavorites = `SELECT book_id FROM user_favorites WHERE user_id = ?`
	byRating      = ` ORDER BY b.average_rating DESC, b.rating_count DESC, b.id ASC LIMIT ?`
)

// GenreOverlapBooks returns books sharing at least one genre with the
// user's favorites, excluding the favorites, most shared genres first.
func (s *Store) GenreOverlapBooks(ctx context.Context, userID int64, limit int) ([]model.Book, error) {
	ctx, span := s.startSpan(ctx, "GenreOverlapBooks")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, "SELECT "+bookColumns+", m.matches"+bookFrom+`
		JOIN (SELECT r.book_id, COUNT(*) AS matches FROM book_genre_relations r
			WHERE r.genre_id IN (SELECT fr.genre_id FROM book_genre_relations fr
				JOIN user_favorites f ON f.book_id = fr.book_id WHERE f.user_id = ?)
			AND r.book_id NOT IN (`+userFavorites+`)
			GROUP BY r.book_id) m ON m.book_id = b.id
		ORDER BY m.matches DESC, b.average_rating DESC, b.rating_count DESC, b.id ASC LIMIT ?`,
		userID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []model.Book{}
	for rows.Next() {
		var matches int
		b, err := scanBook(rows, &matches)
		if err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// FavoriteOverlapBooks returns books sharing a country or an author with
// any of the user's favorites, excluding the favorites.
func (s *Store) FavoriteOverlapBooks(ctx context.Context, userID int64, limit int) ([]model.Book, error) {
	ctx, span := s.startSpan(ctx, "FavoriteOverlapBooks")
	defer span.End()

	return s.queryBooks(ctx, "SELECT "+bookColumns+bookFrom+`
		WHERE b.id NOT IN (`+userFavorites+`) AND (
			b.country_id IN (SELECT fb.country_id FROM books fb JOIN user_favorites f ON f.book_id = fb.id
				WHERE f.user_id = ? AND fb.country_id IS NOT NULL) OR
			b.author IN (SELECT fb.author FROM books fb JOIN user_favorites f ON f.book_id = fb.id
				WHERE f.user_id = ?))`+byRating,
		userID, userID, userID, limit)
}

// PopularBooks returns the best rated books the user has not favorited.
func (s *Store) PopularBooks(ctx context.Context, userID int64, limit int) ([]model.Book, error) {
	ctx, span := s.startSpan(ctx, "PopularBooks")
	defer span.End()

	return s.queryBooks(ctx, "SELECT "+bookColumns+bookFrom+
		" WHERE b.id NOT IN ("+userFavorites+")"+byRating, userID, limit)
}

// SimilarBooks returns books sharing the country or the author of the
// given book, excluding the book itself.
func (s *Store) SimilarBooks(ctx context.Context, book *model.Book, limit int) ([]model.Book, error) {
	ctx, span := s.startSpan(ctx, "SimilarBooks")
	defer span.End()

	return s.queryBooks(ctx, "SELECT "+bookColumns+bookFrom+
		" WHERE b.id <> ? AND (b.author = ? OR b.country_id = ?)"+byRating,
		book.ID, book.Author, nullInt64Ptr(book.CountryID), limit)
}

// TrendingBooks ranks rated canonical books by average rating weighted by
// the number of ratings.
func (s *Store) TrendingBooks(ctx context.Context, limit int) ([]model.Book, error) {
	ctx, span := s.startSpan(ctx, "TrendingBooks")
	defer span.End()

	return s.queryBooks(ctx, "SELECT "+bookColumns+bookFrom+
		" WHERE b.rating_count > 0 AND "+canonicalBooks+
		" ORDER BY b.average_rating * b.rating_count DESC, b.rating_count DESC, b.id ASC LIMIT ?", limit)
}
