package sqldb

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"taletrail/book/internal/repository"
	"taletrail/book/pkg/model"
)

const recomputeAggregates = `UPDATE books SET
	average_rating = (SELECT COALESCE(AVG(rating), 0) FROM ratings WHERE book_id = ?),
	rating_count = (SELECT COUNT(*) FROM ratings WHERE book_id = ?)
	WHERE id = ?`

// UpsertRating stores a user's rating of a book, replacing a previous one,
// and recomputes the book aggregates in the same transaction. The book row
// is locked first so concurrent ratings of one book serialise.
func (s *Store) UpsertRating(ctx context.Context, r *model.Rating) (*model.RatingSummary, error) {
	ctx, span := s.startSpan(ctx, "UpsertRating")
	defer span.End()

	return s.writeRating(ctx, r.BookID, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.dialect.UpsertRating,
			r.UserID, r.BookID, r.Value, nullString(r.ReviewText), r.CreatedAt.UTC())
		return err
	})
}

// DeleteRating removes a user's rating of a book and recomputes the book
// aggregates. Returns ErrNotFound if there was no such rating.
func (s *Store) DeleteRating(ctx context.Context, userID int64, bookID int64) (*model.RatingSummary, error) {
	ctx, span := s.startSpan(ctx, "DeleteRating")
	defer span.End()

	return s.writeRating(ctx, bookID, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM ratings WHERE user_id = ? AND book_id = ?", userID, bookID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (s *Store) writeRating(ctx context.Context, bookID int64, write func(tx *sql.Tx) error) (*model.RatingSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer rollback(tx, s.logger)

	var id int64
	if err := tx.QueryRowContext(ctx, s.dialect.LockBook, bookID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := write(tx); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, recomputeAggregates, bookID, bookID, bookID); err != nil {
		return nil, err
	}
	summary := &model.RatingSummary{BookID: bookID}
	if err := tx.QueryRowContext(ctx, "SELECT average_rating, rating_count FROM books WHERE id = ?", bookID).
		Scan(&summary.AverageRating, &summary.RatingCount); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.logger.Debug("Recomputed book rating",
		zap.Int64("book_id", bookID),
		zap.Float64("average", summary.AverageRating),
		zap.Int("count", summary.RatingCount),
	)
	return summary, nil
}

// UserRatings returns one page of a user's ratings, newest first, and the
// total number of ratings.
func (s *Store) UserRatings(ctx context.Context, userID int64, limit int, offset int) ([]model.UserRating, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ratings WHERE user_id = ?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT r.id, r.book_id, r.rating, COALESCE(r.review_text, ''), r.created_at,
		b.title, b.author, COALESCE(b.cover_image_url, ''), COALESCE(c.name, '')
		FROM ratings r JOIN books b ON b.id = r.book_id LEFT JOIN countries c ON c.id = b.country_id
		WHERE r.user_id = ? ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	res := []model.UserRating{}
	for rows.Next() {
		var r model.UserRating
		if err := rows.Scan(&r.ID, &r.BookID, &r.Rating, &r.ReviewText, &r.CreatedAt,
			&r.Title, &r.Author, &r.CoverImageURL, &r.CountryName); err != nil {
			return nil, 0, err
		}
		res = append(res, r)
	}
	return res, total, rows.Err()
}

// UserStats summarises a user's ratings and favorites.
func (s *Store) UserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	stats := &model.UserStats{UserID: userID}
	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*), AVG(rating) FROM ratings WHERE user_id = ?", userID).
		Scan(&stats.BooksRated, &avg); err != nil {
		return nil, err
	}
	stats.AverageRatingGiven = avg.Float64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT b.country_id) FROM books b
		WHERE b.country_id IS NOT NULL AND (
			b.id IN (SELECT book_id FROM ratings WHERE user_id = ?) OR
			b.id IN (SELECT book_id FROM user_favorites WHERE user_id = ?))`, userID, userID).
		Scan(&stats.CountriesExplored); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_favorites WHERE user_id = ?", userID).
		Scan(&stats.Favorites); err != nil {
		return nil, err
	}
	return stats, nil
}
