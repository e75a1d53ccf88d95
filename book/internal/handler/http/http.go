package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"

	"taletrail/book/internal/controller/catalog"
	"taletrail/book/internal/controller/favorite"
	"taletrail/book/internal/controller/rating"
	"taletrail/book/internal/controller/recommendation"
	"taletrail/book/pkg/model"
	"taletrail/pkg/logging"
	"taletrail/pkg/metrics"
)

const component = "http"

type pinger interface {
	Ping(ctx context.Context) error
}

// Controllers groups the controllers served over HTTP.
type Controllers struct {
	Catalog         *catalog.Controller
	Favorites       *favorite.Controller
	Ratings         *rating.Controller
	Recommendations *recommendation.Controller
}

// Handler defines the book service HTTP handler.
type Handler struct {
	ctrls  Controllers
	db     pinger
	scope  tally.Scope
	logger *zap.Logger
}

// New creates a new book service HTTP handler.
func New(ctrls Controllers, db pinger, scope tally.Scope, logger *zap.Logger) *Handler {
	logger = logger.With(
		zap.String(logging.FieldComponent, "handler"),
		zap.String(logging.FieldType, "http"),
	)
	return &Handler{ctrls: ctrls, db: db, scope: scope, logger: logger}
}

// Routes returns the router serving the /api endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.endpoint("Health", h.health))

		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.endpoint("ListBooks", h.listBooks))
			r.Get("/trending", h.endpoint("TrendingBooks", h.trendingBooks))
			r.Get("/country/{code}", h.endpoint("BooksByCountry", h.booksByCountry))
			r.Get("/{id}", h.endpoint("GetBook", h.getBook))
			r.Put("/{id}/genres", h.endpoint("AssignGenres", h.assignGenres))
		})
		r.Get("/genres", h.endpoint("ListGenres", h.listGenres))
		r.Get("/countries", h.endpoint("ListCountries", h.listCountries))
		r.Get("/countries/{code}", h.endpoint("GetCountry", h.getCountry))

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/favorites", h.endpoint("ListFavorites", h.listFavorites))
			r.Post("/favorites/{bookId}", h.endpoint("AddFavorite", h.addFavorite))
			r.Delete("/favorites/{bookId}", h.endpoint("RemoveFavorite", h.removeFavorite))
			r.Post("/ratings", h.endpoint("RateBook", h.rateBook))
			r.Get("/ratings", h.endpoint("UserRatings", h.userRatings))
			r.Get("/stats", h.endpoint("UserStats", h.userStats))
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/user/{userId}", h.endpoint("GetRecommendations", withList("recommendations", h.recommend)))
			r.Get("/similar/{bookId}", h.endpoint("GetSimilarBooks", withList("similarBooks", h.similar)))
			r.Get("/trending", h.endpoint("GetTrendingBooks", withList("trendingBooks", h.trending)))
			r.Post("/train", h.endpoint("Train", h.train))
		})
	})
	return r
}

// handlerFunc serves a request and returns an error before anything is
// written to w.
type handlerFunc func(w http.ResponseWriter, req *http.Request) error

func (h *Handler) endpoint(name string, fn handlerFunc) http.HandlerFunc {
	m := metrics.NewEndpointMetrics(h.scope, component, name)
	return func(w http.ResponseWriter, req *http.Request) {
		m.Calls.Inc(1)
		sw := m.Latency.Start()
		defer sw.Stop()
		if err := fn(w, req); err != nil {
			h.writeError(w, req, m, err)
			return
		}
		m.Successes.Inc(1)
	}
}

// listError carries the key under which a failed list endpoint still
// returns an empty list.
type listError struct {
	key string
	err error
}

func (e *listError) Error() string { return e.err.Error() }

func (e *listError) Unwrap() error { return e.err }

// withList keeps the response shape of a list endpoint on errors.
func withList(key string, fn handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		if err := fn(w, req); err != nil {
			return &listError{key: key, err: err}
		}
		return nil
	}
}

// badRequestError reports a malformed path, query or body.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }

func (e *badRequestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &badRequestError{err: fmt.Errorf(format, args...)}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, req *http.Request, m *metrics.EndpointMetrics, err error) {
	status, resp := h.errorStatus(req, m, err)
	var lerr *listError
	if !errors.As(err, &lerr) {
		h.writeJSON(w, status, resp)
		return
	}
	body := map[string]any{
		lerr.key: []recommendationItem{},
		"total":  0,
		"error":  resp.Error,
	}
	if resp.Fields != nil {
		body["fields"] = resp.Fields
	}
	h.writeJSON(w, status, body)
}

func (h *Handler) errorStatus(req *http.Request, m *metrics.EndpointMetrics, err error) (int, errorResponse) {
	var (
		verr *model.ValidationError
		berr *badRequestError
	)
	switch {
	case errors.As(err, &verr):
		m.InvalidArgumentErrors.Inc(1)
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields}
	case errors.As(err, &berr),
		errors.Is(err, recommendation.ErrInvalidUser),
		errors.Is(err, rating.ErrInvalidUser),
		errors.Is(err, favorite.ErrInvalidUser):
		m.InvalidArgumentErrors.Inc(1)
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, recommendation.ErrBookNotFound),
		errors.Is(err, rating.ErrBookNotFound),
		errors.Is(err, rating.ErrNotFound),
		errors.Is(err, favorite.ErrBookNotFound),
		errors.Is(err, favorite.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		m.NotFoundErrors.Inc(1)
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, recommendation.ErrUnavailable):
		m.UnavailableErrors.Inc(1)
		h.logger.Warn("Recommendations unavailable", zap.String(logging.FieldEndpoint, req.URL.Path), zap.Error(err))
		return http.StatusServiceUnavailable, errorResponse{Error: "recommendations are temporarily unavailable"}
	case errors.Is(err, recommendation.ErrMLDisabled):
		m.UnavailableErrors.Inc(1)
		return http.StatusServiceUnavailable, errorResponse{Error: err.Error()}
	default:
		m.InternalErrors.Inc(1)
		h.logger.Error("Request failed", zap.String(logging.FieldEndpoint, req.URL.Path), zap.Error(err))
		return http.StatusInternalServerError, errorResponse{Error: "internal error"}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Response encode error", zap.Error(err))
	}
}

func (h *Handler) health(w http.ResponseWriter, req *http.Request) error {
	if err := h.db.Ping(req.Context()); err != nil {
		h.logger.Warn("Database ping failed", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return nil
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func idParam(req *http.Request, name string) (int64, error) {
	raw := chi.URLParam(req, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

// intQuery returns 0 when the parameter is absent.
func intQuery(req *http.Request, name string) (int, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return v, nil
}

func decodeBody(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return badRequest("malformed request body: %w", err)
	}
	return nil
}
