package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"taletrail/book/internal/repository"
	"taletrail/book/pkg/model"
	"taletrail/pkg/logging"
)

const tracerID = "book-controller-catalog"

// ErrNotFound is returned when a requested book or country does not exist.
var ErrNotFound = errors.New("not found")

// Paging limits.
const (
	DefaultPageLimit   = 20
	MaxPageLimit       = 100
	DefaultTrendLimit  = 10
	ReviewsPerBookPage = 10
)

type catalogRepository interface {
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	ListBooks(ctx context.Context, f model.BookFilter) ([]model.Book, int, error)
	BooksByCountry(ctx context.Context, code string, limit int) ([]model.Book, error)
	BookGenres(ctx context.Context, bookID int64) ([]model.Genre, error)
	BookReviews(ctx context.Context, bookID int64, limit int) ([]model.Review, error)
	ListCountries(ctx context.Context) ([]model.CountrySummary, error)
	GetCountry(ctx context.Context, code string) (*model.Country, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)
	AssignGenres(ctx context.Context, bookID int64, genreIDs []int64) error
	TrendingBooks(ctx context.Context, limit int) ([]model.Book, error)
}

type bookCache interface {
	Get(ctx context.Context, id int64) (*model.Book, uint64, error)
	Put(ctx context.Context, b *model.Book, version uint64) error
}

// Controller defines the catalog service controller.
type Controller struct {
	repo   catalogRepository
	cache  bookCache
	logger *zap.Logger
}

// New creates a catalog service controller.
func New(repo catalogRepository, cache bookCache, logger *zap.Logger) *Controller {
	logger = logger.With(
		zap.String(logging.FieldComponent, "controller"),
		zap.String(logging.FieldType, "catalog"),
	)
	return &Controller{repo: repo, cache: cache, logger: logger}
}

// ListBooks returns one page of the catalog. Zero values of the filter
// select the defaults: 20 books sorted by rating, descending.
func (c *Controller) ListBooks(ctx context.Context, f model.BookFilter) (*model.BookPage, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Catalog/ListBooks")
	defer span.End()

	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	books, total, err := c.repo.ListBooks(ctx, f)
	if err != nil {
		return nil, err
	}
	return &model.BookPage{
		Books:   books,
		Total:   total,
		Limit:   f.Limit,
		Offset:  f.Offset,
		HasMore: f.Offset+len(books) < total,
	}, nil
}

func normalizeFilter(f model.BookFilter) (model.BookFilter, error) {
	verr := &model.ValidationError{Fields: map[string]string{}}
	switch f.Sort {
	case "":
		f.Sort = model.BookSortRating
	case model.BookSortRating, model.BookSortTitle, model.BookSortAuthor, model.BookSortYear:
	default:
		verr.Fields["sort"] = "must be one of rating, title, author, year"
	}
	switch f.Order {
	case "":
		f.Order = model.SortDesc
	case model.SortAsc, model.SortDesc:
	default:
		verr.Fields["order"] = "must be one of asc, desc"
	}
	if len(verr.Fields) > 0 {
		return f, verr
	}
	f.Limit = clamp(f.Limit, DefaultPageLimit, MaxPageLimit)
	f.Offset = max(f.Offset, 0)
	f.Country = strings.ToUpper(strings.TrimSpace(f.Country))
	f.Author = strings.TrimSpace(f.Author)
	f.Search = strings.TrimSpace(f.Search)
	return f, nil
}

// GetBook returns a book with its genres and latest reviews.
func (c *Controller) GetBook(ctx context.Context, id int64) (*model.BookDetails, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Catalog/GetBook")
	defer span.End()

	book, err := c.book(ctx, id)
	if err != nil {
		return nil, err
	}
	genres, err := c.repo.BookGenres(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := c.repo.BookReviews(ctx, id, ReviewsPerBookPage)
	if err != nil {
		return nil, err
	}
	return &model.BookDetails{Book: *book, Genres: genres, Reviews: reviews}, nil
}

func (c *Controller) book(ctx context.Context, id int64) (*model.Book, error) {
	res, version, err := c.cache.Get(ctx, id)
	if err == nil {
		return res, nil
	}
	res, err = c.repo.GetBook(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, res, version); err != nil {
		c.logger.Warn("Failed to cache book", zap.Int64(logging.FieldBookID, id), zap.Error(err))
	}
	return res, nil
}

// BooksByCountry returns the top rated books of a country. An unknown
// country yields an empty list.
func (c *Controller) BooksByCountry(ctx context.Context, code string, limit int) ([]model.Book, error) {
	return c.repo.BooksByCountry(ctx, strings.ToUpper(code), clamp(limit, DefaultPageLimit, MaxPageLimit))
}

// ListCountries returns the countries having books.
func (c *Controller) ListCountries(ctx context.Context) ([]model.CountrySummary, error) {
	return c.repo.ListCountries(ctx)
}

// GetCountry returns a country with its top rated books.
func (c *Controller) GetCountry(ctx context.Context, code string, limit int) (*model.CountryBooks, error) {
	code = strings.ToUpper(code)
	country, err := c.repo.GetCountry(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	books, err := c.repo.BooksByCountry(ctx, code, clamp(limit, DefaultPageLimit, MaxPageLimit))
	if err != nil {
		return nil, err
	}
	return &model.CountryBooks{Country: country, Books: books}, nil
}

// ListGenres returns all genres by name.
func (c *Controller) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return c.repo.ListGenres(ctx)
}

// AssignGenres links genres to a book. Links that already exist are kept.
func (c *Controller) AssignGenres(ctx context.Context, bookID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return model.NewValidationError("genreIds", "must not be empty")
	}
	for _, id := range genreIDs {
		if id <= 0 {
			return model.NewValidationError("genreIds", "must contain positive ids")
		}
	}
	err := c.repo.AssignGenres(ctx, bookID, genreIDs)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// Trending returns the persistence ranking of trending books.
func (c *Controller) Trending(ctx context.Context, limit int) ([]model.Book, error) {
	return c.repo.TrendingBooks(ctx, clamp(limit, DefaultTrendLimit, MaxPageLimit))
}

func clamp(v, def, hi int) int {
	switch {
	case v == 0:
		return def
	case v < 1:
		return 1
	case v > hi:
		return hi
	}
	return v
}
