package grpc

import (
	"context"
	"errors"

	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taletrail/api"
	"taletrail/book/internal/controller/rating"
	"taletrail/book/internal/controller/recommendation"
	"taletrail/book/pkg/model"
	"taletrail/pkg/logging"
	"taletrail/pkg/metrics"
)

const component = "grpc"

// Handler defines a book service gRPC handler.
type Handler struct {
	api.UnimplementedBookServiceServer
	recommendations           *recommendation.Controller
	ratings                   *rating.Controller
	logger                    *zap.Logger
	getRecommendationsMetrics *metrics.EndpointMetrics
	getSimilarBooksMetrics    *metrics.EndpointMetrics
	getTrendingBooksMetrics   *metrics.EndpointMetrics
	rateBookMetrics           *metrics.EndpointMetrics
}

// New creates a new book service gRPC handler.
func New(recommendations *recommendation.Controller, ratings *rating.Controller, scope tally.Scope, logger *zap.Logger) *Handler {
	logger = logger.With(
		zap.String(logging.FieldComponent, "handler"),
		zap.String(logging.FieldType, "grpc"),
	)
	return &Handler{
		recommendations:           recommendations,
		ratings:                   ratings,
		logger:                    logger,
		getRecommendationsMetrics: metrics.NewEndpointMetrics(scope, component, "GetRecommendations"),
		getSimilarBooksMetrics:    metrics.NewEndpointMetrics(scope, component, "GetSimilarBooks"),
		getTrendingBooksMetrics:   metrics.NewEndpointMetrics(scope, component, "GetTrendingBooks"),
		rateBookMetrics:           metrics.NewEndpointMetrics(scope, component, "RateBook"),
	}
}

// GetRecommendations returns personalised recommendations for a user.
func (h *Handler) GetRecommendations(ctx context.Context, req *api.GetRecommendationsRequest) (*api.GetRecommendationsResponse, error) {
	m := h.getRecommendationsMetrics
	m.Calls.Inc(1)
	if req == nil || req.UserID <= 0 {
		m.InvalidArgumentErrors.Inc(1)
		return nil, status.Error(codes.InvalidArgument, "nil req or invalid user id")
	}
	res, err := h.recommendations.Recommend(ctx, req.UserID, int(req.Limit))
	if err != nil {
		return nil, h.statusError(m, err)
	}
	m.Successes.Inc(1)
	return &api.GetRecommendationsResponse{
		UserID:   res.UserID,
		Strategy: string(res.Strategy),
		Books:    apiBooks(res.Books),
	}, nil
}

// GetSimilarBooks returns books similar to a book.
func (h *Handler) GetSimilarBooks(ctx context.Context, req *api.GetSimilarBooksRequest) (*api.GetSimilarBooksResponse, error) {
	m := h.getSimilarBooksMetrics
	m.Calls.Inc(1)
	if req == nil || req.BookID <= 0 {
		m.InvalidArgumentErrors.Inc(1)
		return nil, status.Error(codes.InvalidArgument, "nil req or invalid book id")
	}
	res, err := h.recommendations.Similar(ctx, req.BookID, int(req.Limit))
	if err != nil {
		return nil, h.statusError(m, err)
	}
	m.Successes.Inc(1)
	return &api.GetSimilarBooksResponse{BookID: res.BookID, Books: apiBooks(res.Books), Fallback: res.Fallback}, nil
}

// GetTrendingBooks returns the trending books.
func (h *Handler) GetTrendingBooks(ctx context.Context, req *api.GetTrendingBooksRequest) (*api.GetTrendingBooksResponse, error) {
	m := h.getTrendingBooksMetrics
	m.Calls.Inc(1)
	if req == nil {
		m.InvalidArgumentErrors.Inc(1)
		return nil, status.Error(codes.InvalidArgument, "nil req")
	}
	res, err := h.recommendations.Trending(ctx, int(req.Limit), int(req.Days))
	if err != nil {
		return nil, h.statusError(m, err)
	}
	m.Successes.Inc(1)
	return &api.GetTrendingBooksResponse{
		Strategy:   string(res.Strategy),
		PeriodDays: int32(res.PeriodDays),
		Books:      apiBooks(res.Books),
	}, nil
}

// RateBook stores a rating and returns the new aggregate of the book.
func (h *Handler) RateBook(ctx context.Context, req *api.RateBookRequest) (*api.RateBookResponse, error) {
	m := h.rateBookMetrics
	m.Calls.Inc(1)
	if req == nil {
		m.InvalidArgumentErrors.Inc(1)
		return nil, status.Error(codes.InvalidArgument, "nil req")
	}
	res, err := h.ratings.Rate(ctx, req.UserID, req.BookID, int(req.Rating), req.ReviewText)
	if err != nil {
		return nil, h.statusError(m, err)
	}
	m.Successes.Inc(1)
	return &api.RateBookResponse{BookID: res.BookID, AverageRating: res.AverageRating, RatingCount: int32(res.RatingCount)}, nil
}

func (h *Handler) statusError(m *metrics.EndpointMetrics, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, recommendation.ErrInvalidUser),
		errors.Is(err, rating.ErrInvalidUser):
		m.InvalidArgumentErrors.Inc(1)
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, recommendation.ErrBookNotFound), errors.Is(err, rating.ErrBookNotFound):
		m.NotFoundErrors.Inc(1)
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, recommendation.ErrUnavailable):
		m.UnavailableErrors.Inc(1)
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	m.InternalErrors.Inc(1)
	h.logger.Error("Request failed", zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}

func apiBooks(books []model.Book) []api.Book {
	res := make([]api.Book, 0, len(books))
	for _, b := range books {
		res = append(res, api.Book{
			BookID:          b.ID,
			Title:           b.Title,
			Author:          b.Author,
			PublicationYear: b.PublicationYear,
			CoverImageURL:   b.CoverImageURL,
			Country:         b.CountryName,
			CountryCode:     b.CountryCode,
			AverageRating:   b.AverageRating,
			RatingCount:     b.RatingCount,
		})
	}
	return res
}
