package sqldb

import (
	"context"
	"time"

	"taletrail/book/internal/repository"
	"taletrail/book/pkg/model"
)

// FavoriteBookIDs returns the ids of the books favorited by a user.
func (s *Store) FavoriteBookIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT book_id FROM user_favorites WHERE user_id = ? ORDER BY book_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, rows.Err()
}

// ListFavorites returns the books favorited by a user, most recent first.
func (s *Store) ListFavorites(ctx context.Context, userID int64) ([]model.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+bookColumns+", f.created_at"+bookFrom+
		" JOIN user_favorites f ON f.book_id = b.id WHERE f.user_id = ? ORDER BY f.created_at DESC, b.id ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []model.Favorite{}
	for rows.Next() {
		var at time.Time
		b, err := scanBook(rows, &at)
		if err != nil {
			return nil, err
		}
		res = append(res, model.Favorite{Book: b, FavoritedAt: at})
	}
	return res, rows.Err()
}

// AddFavorite saves a book as a user's favorite. Saving it again only
// refreshes the timestamp.
func (s *Store) AddFavorite(ctx context.Context, userID int64, bookID int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx, s.dialect.UpsertFavorite, userID, bookID, at.UTC())
	return err
}

// RemoveFavorite deletes a favorite. Returns ErrNotFound if it did not exist.
func (s *Store) RemoveFavorite(ctx context.Context, userID int64, bookID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM user_favorites WHERE user_id = ? AND book_id = ?", userID, bookID)
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
}
