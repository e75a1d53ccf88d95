package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"github.com/uber-go/tally/v6"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"taletrail/book/internal/gateway"
	"taletrail/book/pkg/model"
	"taletrail/pkg/discovery"
	"taletrail/pkg/logging"
)

const tracerID = "ml-gateway"

type limiter interface {
	Limit() bool
}

// Config defines the ML gateway settings. Either URL or ServiceName must be set.
type Config struct {
	URL         string
	ServiceName string
	Timeout     time.Duration
}

// Gateway defines an ML recommendation service HTTP gateway.
type Gateway struct {
	cfg      Config
	registry discovery.Registry
	client   *http.Client
	limiter  limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
	scope    tally.Scope
	logger   *zap.Logger
}

// New creates a new HTTP gateway for the ML service. The registry is only
// used when no static URL is configured. A nil limiter never throttles.
func New(cfg Config, registry discovery.Registry, l limiter, scope tally.Scope, logger *zap.Logger) *Gateway {
	logger = logger.With(
		zap.String(logging.FieldComponent, "ml-gateway"),
		zap.String(logging.FieldType, "http"),
	)
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	g := &Gateway{
		cfg:      cfg,
		registry: registry,
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  l,
		scope:    scope.SubScope("ml_gateway"),
		logger:   logger,
	}
	g.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "ml",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, gateway.ErrNotFound)
		},
		// Cancelled calls are not counted.
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
	return g
}

type recommendationItem struct {
	BookID          int64   `json:"book_id"`
	ID              int64   `json:"id"`
	Score           float64 `json:"score"`
	SimilarityScore float64 `json:"similarity_score"`
}

func (i recommendationItem) scored() model.ScoredBook {
	id := i.BookID
	if id == 0 {
		id = i.ID
	}
	score := i.Score
	if score == 0 {
		score = i.SimilarityScore
	}
	return model.ScoredBook{BookID: id, Score: score}
}

type userRecommendationsResponse struct {
	Recommendations []recommendationItem `json:"recommendations"`
}

type similarBooksResponse struct {
	SimilarBooks []recommendationItem `json:"similar_books"`
}

type trendingBooksResponse struct {
	TrendingBooks []recommendationItem `json:"trending_books"`
}

// UserRecommendations returns personalised book ids for a user in rank order.
func (g *Gateway) UserRecommendations(ctx context.Context, userID int64, limit int) ([]model.ScoredBook, error) {
	var resp userRecommendationsResponse
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := g.call(ctx, "UserRecommendations", http.MethodGet, "/recommendations/user/"+strconv.FormatInt(userID, 10), q, &resp); err != nil {
		return nil, err
	}
	return scoredBooks(resp.Recommendations)
}

// SimilarBooks returns ids of books similar to the given one in rank order.
func (g *Gateway) SimilarBooks(ctx context.Context, bookID int64, limit int) ([]model.ScoredBook, error) {
	var resp similarBooksResponse
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := g.call(ctx, "SimilarBooks", http.MethodGet, "/recommendations/similar/"+strconv.FormatInt(bookID, 10), q, &resp); err != nil {
		return nil, err
	}
	return scoredBooks(resp.SimilarBooks)
}

// TrendingBooks returns ids of books trending over the last days in rank order.
func (g *Gateway) TrendingBooks(ctx context.Context, limit int, days int) ([]model.ScoredBook, error) {
	var resp trendingBooksResponse
	q := url.Values{"limit": {strconv.Itoa(limit)}, "days": {strconv.Itoa(days)}}
	if err := g.call(ctx, "TrendingBooks", http.MethodGet, "/recommendations/trending", q, &resp); err != nil {
		return nil, err
	}
	return scoredBooks(resp.TrendingBooks)
}

// Train asks the ML service to retrain its models.
func (g *Gateway) Train(ctx context.Context) (*model.TrainResult, error) {
	var resp model.TrainResult
	if err := g.call(ctx, "Train", http.MethodPost, "/train", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func scoredBooks(items []recommendationItem) ([]model.ScoredBook, error) {
	res := make([]model.ScoredBook, 0, len(items))
	for _, it := range items {
		s := it.scored()
		if s.BookID <= 0 {
			continue
		}
		res = append(res, s)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: empty result", gateway.ErrUnavailable)
	}
	return res, nil
}

func (g *Gateway) call(ctx context.Context, op string, method string, path string, query url.Values, out any) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "MLGateway/"+op)
	defer span.End()

	if g.limiter != nil && g.limiter.Limit() {
		g.outcome(op, "throttled")
		return fmt.Errorf("%w: rate limit exceeded", gateway.ErrUnavailable)
	}
	body, err := g.breaker.Execute(func() ([]byte, error) {
		return g.do(ctx, method, path, query)
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			g.outcome(op, "rejected")
		} else {
			g.outcome(op, "error")
		}
		if errors.Is(err, gateway.ErrUnavailable) || errors.Is(err, gateway.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", gateway.ErrUnavailable, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		g.outcome(op, "malformed")
		return fmt.Errorf("%w: decode response: %w", gateway.ErrUnavailable, err)
	}
	span.SetAttributes(attribute.Int("response.bytes", len(body)))
	g.outcome(op, "success")
	return nil
}

func (g *Gateway) do(ctx context.Context, method string, path string, query url.Values) ([]byte, error) {
	base, err := g.baseURL(ctx)
	if err != nil {
		return nil, err
	}
	u := base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	g.logger.Debug("Calling ML service", zap.String("url", u), zap.String("method", method))

	var reqBody io.Reader
	if method == http.MethodPost {
		reqBody = bytes.NewReader([]byte("{}"))
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, gateway.ErrNotFound
	} else if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: non-2xx status code: %d", gateway.ErrUnavailable, resp.StatusCode)
	}
	return body, nil
}

func (g *Gateway) baseURL(ctx context.Context) (string, error) {
	if g.cfg.URL != "" {
		return strings.TrimSuffix(g.cfg.URL, "/"), nil
	}
	if g.registry == nil {
		return "", fmt.Errorf("%w: no ML service address configured", gateway.ErrUnavailable)
	}
	addrs, err := g.registry.ServiceAddresses(ctx, g.cfg.ServiceName)
	if err != nil {
		return "", err
	}
	return "http://" + addrs[rand.Intn(len(addrs))], nil
}

func (g *Gateway) outcome(op string, outcome string) {
	g.scope.Tagged(map[string]string{"operation": op, "outcome": outcome}).Counter("calls").Inc(1)
}
