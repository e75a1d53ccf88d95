package sqldb

import (
	"context"
	"time"

	"taletrail/book/pkg/model"
)

// UserExists reports whether a user with the given id exists.
func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", userID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateUser inserts a user and sets its id.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}
