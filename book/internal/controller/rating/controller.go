package rating

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"taletrail/book/internal/repository"
	"taletrail/book/pkg/model"
	"taletrail/pkg/logging"
)

var (
	// ErrInvalidUser is returned when the rating user does not exist.
	ErrInvalidUser = errors.New("invalid user")
	// ErrBookNotFound is returned when the rated book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrNotFound is returned when a rating to delete does not exist.
	ErrNotFound = errors.New("rating not found")
	// ErrNoIngester is returned by StartIngestion when no event source is configured.
	ErrNoIngester = errors.New("no rating ingester configured")
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ratingRepository interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
	UpsertRating(ctx context.Context, r *model.Rating) (*model.RatingSummary, error)
	DeleteRating(ctx context.Context, userID int64, bookID int64) (*model.RatingSummary, error)
	UserRatings(ctx context.Context, userID int64, limit int, offset int) ([]model.UserRating, int, error)
	UserStats(ctx context.Context, userID int64) (*model.UserStats, error)
}

type bookCache interface {
	Delete(ctx context.Context, id int64) error
}

type ratingIngester interface {
	Ingest(ctx context.Context) (chan model.RatingEvent, error)
}

// Controller defines a rating service controller.
type Controller struct {
	repo     ratingRepository
	cache    bookCache
	ingester ratingIngester
	now      func() time.Time
	logger   *zap.Logger
}

// New creates a rating service controller. ingester may be nil when
// ratings only arrive through the API.
func New(repo ratingRepository, cache bookCache, ingester ratingIngester, logger *zap.Logger) *Controller {
	logger = logger.With(
		zap.String(logging.FieldComponent, "controller"),
		zap.String(logging.FieldType, "rating"),
	)
	return &Controller{repo: repo, cache: cache, ingester: ingester, now: time.Now, logger: logger}
}

// Rate stores a user's rating of a book, replacing any previous one, and
// returns the book's new aggregate.
func (c *Controller) Rate(ctx context.Context, userID int64, bookID int64, value int, review string) (*model.RatingSummary, error) {
	r := &model.Rating{
		UserID:     userID,
		BookID:     bookID,
		Value:      value,
		ReviewText: strings.TrimSpace(review),
		CreatedAt:  c.now().UTC(),
	}
	if err := model.Validate(r); err != nil {
		return nil, err
	}
	if err := c.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	summary, err := c.repo.UpsertRating(ctx, r)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBookNotFound
	} else if err != nil {
		return nil, fmt.Errorf("upsert rating: %w", err)
	}
	c.evict(ctx, bookID)
	return summary, nil
}

// Delete removes a user's rating of a book and returns the book's new aggregate.
func (c *Controller) Delete(ctx context.Context, userID int64, bookID int64) (*model.RatingSummary, error) {
	summary, err := c.repo.DeleteRating(ctx, userID, bookID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("delete rating: %w", err)
	}
	c.evict(ctx, bookID)
	return summary, nil
}

// UserRatings returns one page of a user's ratings, newest first.
func (c *Controller) UserRatings(ctx context.Context, userID int64, limit int, offset int) (*model.UserRatingPage, error) {
	if err := c.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageLimit
	} else if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset = max(offset, 0)
	ratings, total, err := c.repo.UserRatings(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &model.UserRatingPage{Ratings: ratings, Total: total, Limit: limit, Offset: offset}, nil
}

// UserStats summarises a user's ratings and favorites.
func (c *Controller) UserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	if err := c.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	return c.repo.UserStats(ctx, userID)
}

// StartIngestion applies rating events until the ingester channel is
// closed. Events that cannot be applied are logged and skipped.
func (c *Controller) StartIngestion(ctx context.Context) error {
	if c.ingester == nil {
		return ErrNoIngester
	}
	ch, err := c.ingester.Ingest(ctx)
	if err != nil {
		return err
	}
	for e := range ch {
		if err := c.apply(ctx, e); err != nil {
			c.logger.Warn("Skipping rating event",
				zap.Stringer("event", &e),
				zap.Error(err),
			)
			continue
		}
		c.logger.Debug("Applied rating event", zap.Stringer("event", &e))
	}
	return nil
}

func (c *Controller) apply(ctx context.Context, e model.RatingEvent) error {
	switch e.EventType {
	case model.RatingEventTypePut, "":
		_, err := c.Rate(ctx, e.UserID, e.BookID, e.Value, e.ReviewText)
		return err
	case model.RatingEventTypeDelete:
		_, err := c.Delete(ctx, e.UserID, e.BookID)
		return err
	default:
		return fmt.Errorf("unknown event type %q", e.EventType)
	}
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

func (c *Controller) evict(ctx context.Context, bookID int64) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, bookID); err != nil {
		c.logger.Warn("Failed to evict book from cache", zap.Int64(logging.FieldBookID, bookID), zap.Error(err))
	}
}
