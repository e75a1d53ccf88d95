package favorite

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"taletrail/book/internal/repository"
	"taletrail/book/pkg/model"
	"taletrail/pkg/logging"
)

var (
	// ErrInvalidUser is returned when the user does not exist.
	ErrInvalidUser = errors.New("invalid user")
	// ErrBookNotFound is returned when the book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrNotFound is returned when removing a favorite that does not exist.
	ErrNotFound = errors.New("favorite not found")
)

type favoriteRepository interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	ListFavorites(ctx context.Context, userID int64) ([]model.Favorite, error)
	AddFavorite(ctx context.Context, userID int64, bookID int64, at time.Time) error
	RemoveFavorite(ctx context.Context, userID int64, bookID int64) error
}

// Controller defines a favorites service controller.
type Controller struct {
	repo   favoriteRepository
	now    func() time.Time
	logger *zap.Logger
}

// New creates a favorites service controller.
func New(repo favoriteRepository, logger *zap.Logger) *Controller {
	logger = logger.With(
		zap.String(logging.FieldComponent, "controller"),
		zap.String(logging.FieldType, "favorite"),
	)
	return &Controller{repo: repo, now: time.Now, logger: logger}
}

// List returns the favorites of a user, most recent first.
func (c *Controller) List(ctx context.Context, userID int64) ([]model.Favorite, error) {
	if err := c.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	return c.repo.ListFavorites(ctx, userID)
}

// Add marks a book as a favorite of a user. Adding an existing favorite
// only refreshes its timestamp.
func (c *Controller) Add(ctx context.Context, userID int64, bookID int64) error {
	if err := c.checkUser(ctx, userID); err != nil {
		return err
	}
	if _, err := c.repo.GetBook(ctx, bookID); errors.Is(err, repository.ErrNotFound) {
		return ErrBookNotFound
	} else if err != nil {
		return err
	}
	if err := c.repo.AddFavorite(ctx, userID, bookID, c.now().UTC()); err != nil {
		return err
	}
	c.logger.Debug("Added favorite", zap.Int64(logging.FieldUserID, userID), zap.Int64(logging.FieldBookID, bookID))
	return nil
}

// Remove deletes a favorite.
func (c *Controller) Remove(ctx context.Context, userID int64, bookID int64) error {
	if err := c.checkUser(ctx, userID); err != nil {
		return err
	}
	err := c.repo.RemoveFavorite(ctx, userID, bookID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (c *Controller) checkUser(ctx context.Context, userID int64) error {
	ok, err := c.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidUser
	}
	return nil
}
