// Package testserver wires the book service handlers for end-to-end tests.
package testserver

import (
	"context"
	"net/http"
	"time"

	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taletrail/api"
	"taletrail/book/internal/controller/catalog"
	"taletrail/book/internal/controller/favorite"
	"taletrail/book/internal/controller/rating"
	"taletrail/book/internal/controller/recommendation"
	mlgateway "taletrail/book/internal/gateway/ml/http"
	grpchandler "taletrail/book/internal/handler/grpc"
	httphandler "taletrail/book/internal/handler/http"
	"taletrail/book/internal/repository/memory"
	"taletrail/book/internal/repository/sqlite"
	"taletrail/book/internal/seed"
	"taletrail/book/pkg/testutil"
	"taletrail/pkg/discovery"
	"taletrail/pkg/logging"
)

// BookServices bundles the book service handlers over an in-memory store
// seeded with testutil.ScenarioCatalog.
type BookServices struct {
	GRPC   api.BookServiceServer
	HTTP   http.Handler
	Seeded *seed.Result
	store  *sqlite.Repository
}

// Close releases the store.
func (s *BookServices) Close() error {
	return s.store.Close()
}

// NewTestBookServices builds the book service handlers. The ML stage
// resolves mlServiceName through registry and is off when mlServiceName
// is empty.
func NewTestBookServices(ctx context.Context, registry discovery.Registry, mlServiceName string, logger *zap.Logger) (*BookServices, error) {
	logger = logger.With(zap.String(logging.FieldService, "book"))
	store, err := sqlite.New(ctx, ":memory:", logger)
	if err != nil {
		return nil, err
	}
	res, err := seed.New(store, bcrypt.MinCost, logger).Apply(ctx, testutil.ScenarioCatalog())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	cache := memory.New(time.Minute, logger)
	var recs *recommendation.Controller
	if mlServiceName != "" {
		ml := mlgateway.New(mlgateway.Config{ServiceName: mlServiceName, Timeout: time.Second}, registry, nil, tally.NoopScope, logger)
		recs = recommendation.New(store, ml, recommendation.Config{}, tally.NoopScope, logger)
	} else {
		recs = recommendation.New(store, nil, recommendation.Config{}, tally.NoopScope, logger)
	}
	ratings := rating.New(store, cache, nil, logger)

	return &BookServices{
		GRPC: grpchandler.New(recs, ratings, tally.NoopScope, logger),
		HTTP: httphandler.New(httphandler.Controllers{
			Catalog:         catalog.New(store, cache, logger),
			Favorites:       favorite.New(store, logger),
			Ratings:         ratings,
			Recommendations: recs,
		}, store, tally.NoopScope, logger).Routes(),
		Seeded: res,
		store:  store,
	}, nil
}
