package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uber-go/tally/v6"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"taletrail/book/internal/repository"
	"taletrail/book/pkg/model"
	"taletrail/pkg/logging"
)

const tracerID = "recommendation-controller"

var (
	// ErrInvalidUser is returned when the requested user does not exist.
	ErrInvalidUser = errors.New("invalid user")
	// ErrBookNotFound is returned when the target book of a similarity lookup does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrUnavailable is returned when every stage that could produce a result
	// failed at the persistence layer. It differs from an empty result.
	ErrUnavailable = errors.New("recommendations unavailable")
	// ErrMLDisabled is returned by Train when no ML service is configured.
	ErrMLDisabled = errors.New("ml service not configured")
)

// Default limits.
const (
	DefaultLimit        = 10
	DefaultSimilarLimit = 5
	MaxLimit            = 100
	DefaultWindowDays   = 7
	MaxWindowDays       = 365
	DefaultMLTimeout    = 5 * time.Second
)

type bookRepository interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	BooksByIDs(ctx context.Context, ids []int64) ([]model.Book, error)
	FavoriteBookIDs(ctx context.Context, userID int64) ([]int64, error)
	GenreOverlapBooks(ctx context.Context, userID int64, limit int) ([]model.Book, error)
	FavoriteOverlapBooks(ctx context.Context, userID int64, limit int) ([]model.Book, error)
	PopularBooks(ctx context.Context, userID int64, limit int) ([]model.Book, error)
	SimilarBooks(ctx context.Context, book *model.Book, limit int) ([]model.Book, error)
	TrendingBooks(ctx context.Context, limit int) ([]model.Book, error)
}

type mlGateway interface {
	UserRecommendations(ctx context.Context, userID int64, limit int) ([]model.ScoredBook, error)
	SimilarBooks(ctx context.Context, bookID int64, limit int) ([]model.ScoredBook, error)
	TrendingBooks(ctx context.Context, limit int, days int) ([]model.ScoredBook, error)
	Train(ctx context.Context) (*model.TrainResult, error)
}

// Config defines the controller limits.
type Config struct {
	DefaultLimit int
	MaxLimit     int
	MLTimeout    time.Duration
}

// Controller defines the recommendation policy engine.
type Controller struct {
	repo   bookRepository
	ml     mlGateway
	cfg    Config
	scope  tally.Scope
	logger *zap.Logger
}

// New creates a recommendation controller. ml may be nil, in which case
// the ML stage is skipped.
func New(repo bookRepository, ml mlGateway, cfg Config, scope tally.Scope, logger *zap.Logger) *Controller {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = MaxLimit
	}
	if cfg.MLTimeout <= 0 {
		cfg.MLTimeout = DefaultMLTimeout
	}
	logger = logger.With(
		zap.String(logging.FieldComponent, "controller"),
		zap.String(logging.FieldType, "recommendation"),
	)
	return &Controller{repo: repo, ml: ml, cfg: cfg, scope: scope, logger: logger}
}

// Recommend returns up to limit books for a user from the first stage of
// the cascade that produces any: ML, shared genres, shared country or
// author, popularity. Stage failures are logged and skipped.
func (c *Controller) Recommend(ctx context.Context, userID int64, limit int) (*model.Recommendations, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Recommendation/Recommend")
	defer span.End()

	limit = clamp(limit, c.cfg.DefaultLimit, c.cfg.MaxLimit)
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	ok, err := c.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: check user: %w", ErrUnavailable, err)
	}
	if !ok {
		return nil, ErrInvalidUser
	}

	req := &request{userID: userID, limit: limit, repo: c.repo}
	strategy, books, err := c.cascade(ctx, req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("strategy", string(strategy)), attribute.Int("results", len(books)))
	c.scope.Tagged(map[string]string{"strategy": string(strategy)}).Counter("recommendations").Inc(1)
	return &model.Recommendations{UserID: userID, Strategy: strategy, Books: books}, nil
}

// Similar returns books similar to bookID, from the ML service when it
// answers and from books sharing the country or the author otherwise.
func (c *Controller) Similar(ctx context.Context, bookID int64, limit int) (*model.SimilarBooks, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Recommendation/Similar")
	defer span.End()

	limit = clamp(limit, DefaultSimilarLimit, c.cfg.MaxLimit)
	book, err := c.repo.GetBook(ctx, bookID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBookNotFound
	} else if err != nil {
		return nil, fmt.Errorf("%w: get book: %w", ErrUnavailable, err)
	}

	if c.ml != nil {
		books, err := c.fromML(ctx, bookID, limit, func(ctx context.Context) ([]model.ScoredBook, error) {
			return c.ml.SimilarBooks(ctx, bookID, limit+1)
		})
		if err == nil && len(books) > 0 {
			return &model.SimilarBooks{BookID: bookID, Books: books}, nil
		}
		c.logFailure(ctx, "similar_ml", err, zap.Int64(logging.FieldBookID, bookID))
	}

	books, err := c.repo.SimilarBooks(ctx, book, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: similar books: %w", ErrUnavailable, err)
	}
	return &model.SimilarBooks{BookID: bookID, Books: books, Fallback: true}, nil
}

// Trending returns the trending books over the last windowDays days, from
// the ML service when it answers and from the rating ranking otherwise.
func (c *Controller) Trending(ctx context.Context, limit int, windowDays int) (*model.TrendingBooks, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Recommendation/Trending")
	defer span.End()

	limit = clamp(limit, c.cfg.DefaultLimit, c.cfg.MaxLimit)
	days := clamp(windowDays, DefaultWindowDays, MaxWindowDays)

	if c.ml != nil {
		books, err := c.fromML(ctx, 0, limit, func(ctx context.Context) ([]model.ScoredBook, error) {
			return c.ml.TrendingBooks(ctx, limit, days)
		})
		if err == nil && len(books) > 0 {
			return &model.TrendingBooks{Strategy: model.StrategyTrending, PeriodDays: days, Books: books}, nil
		}
		c.logFailure(ctx, string(model.StrategyTrending), err)
	}

	books, err := c.repo.TrendingBooks(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: trending books: %w", ErrUnavailable, err)
	}
	return &model.TrendingBooks{Strategy: model.StrategyFallbackTrending, PeriodDays: days, Books: books}, nil
}

// Train asks the ML service to retrain its models.
func (c *Controller) Train(ctx context.Context) (*model.TrainResult, error) {
	if c.ml == nil {
		return nil, ErrMLDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.MLTimeout)
	defer cancel()
	res, err := c.ml.Train(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: train: %w", ErrUnavailable, err)
	}
	return res, nil
}

// fromML runs an ML call under the ML timeout and hydrates the ranked ids
// into books, keeping the ML order. exclude is dropped from the result.
func (c *Controller) fromML(ctx context.Context, exclude int64, limit int, call func(ctx context.Context) ([]model.ScoredBook, error)) ([]model.Book, error) {
	mlCtx, cancel := context.WithTimeout(ctx, c.cfg.MLTimeout)
	defer cancel()
	scored, err := call(mlCtx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(scored))
	for _, s := range scored {
		if s.BookID != exclude {
			ids = append(ids, s.BookID)
		}
	}
	found, err := c.repo.BooksByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate ml results: %w", err)
	}
	byID := make(map[int64]model.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}
	res := make([]model.Book, 0, min(limit, len(ids)))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)
		res = append(res, b)
		if len(res) == limit {
			break
		}
	}
	return res, nil
}

func (c *Controller) logFailure(ctx context.Context, stage string, err error, fields ...zap.Field) {
	if err == nil {
		err = errors.New("empty result")
	}
	if ctx.Err() != nil {
		return
	}
	c.logger.Warn("Recommendation stage failed",
		append(fields, zap.String(logging.FieldStrategy, stage), zap.Error(err))...,
	)
}

// clamp returns def for 0 and bounds anything else to [1, max].
func clamp(v int, def int, hi int) int {
	switch {
	case v == 0:
		return def
	case v < 1:
		return 1
	case v > hi:
		return hi
	default:
		return v
	}
}
