package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uber-go/tally/v6"
	"github.com/uber-go/tally/v6/prometheus"
	"go.uber.org/zap"
)

// NewMetricsReporter creates a root metrics scope reporting to Prometheus
// and serves the /metrics endpoint on the given port. A non-positive port
// disables the endpoint and returns a no-op scope.
func NewMetricsReporter(logger *zap.Logger, serviceName string, metricsPort int) (tally.Scope, io.Closer) {
	if metricsPort <= 0 {
		return tally.NoopScope, closerFunc(func() error { return nil })
	}
	reporter := prometheus.NewReporter(prometheus.Options{})
	scope, scopeCloser := tally.NewRootScope(tally.ScopeOptions{
		Tags:            map[string]string{"service": serviceName},
		CachedReporter:  reporter,
		SanitizeOptions: &prometheus.DefaultSanitizerOpts,
	}, 10*time.Second)

	mux := http.NewServeMux()
	mux.Handle("/metrics", reporter.HTTPHandler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", metricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start metrics handler", zap.Error(err))
		}
	}()

	scope.Counter("service_started").Inc(1)
	return scope, closerFunc(func() error {
		return errors.Join(srv.Close(), scopeCloser.Close())
	})
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// EndpointMetrics defines an endpoint metrics.
type EndpointMetrics struct {
	Calls                 tally.Counter
	InvalidArgumentErrors tally.Counter
	NotFoundErrors        tally.Counter
	UnavailableErrors     tally.Counter
	InternalErrors        tally.Counter
	Successes             tally.Counter
	Latency               tally.Timer
}

// NewEndpointMetrics creates a new endpoint metrics.
func NewEndpointMetrics(scope tally.Scope, component string, endpoint string) *EndpointMetrics {
	scope = scope.Tagged(map[string]string{
		"component": component,
		"endpoint":  endpoint,
	})
	return &EndpointMetrics{
		Calls: scope.Counter("calls"),
		InvalidArgumentErrors: scope.Tagged(map[string]string{
			"error": "invalid_argument",
		}).Counter("error"),
		NotFoundErrors: scope.Tagged(map[string]string{
			"error": "not_found",
		}).Counter("error"),
		UnavailableErrors: scope.Tagged(map[string]string{
			"error": "unavailable",
		}).Counter("error"),
		InternalErrors: scope.Tagged(map[string]string{
			"error": "internal",
		}).Counter("error"),
		Successes: scope.Counter("success"),
		Latency:   scope.Timer("latency"),
	}
}
