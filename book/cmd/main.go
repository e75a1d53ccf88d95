package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/ratelimit"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"taletrail/api"
	"taletrail/book/configs"
	"taletrail/book/internal/controller/catalog"
	"taletrail/book/internal/controller/favorite"
	"taletrail/book/internal/controller/rating"
	"taletrail/book/internal/controller/recommendation"
	mlgateway "taletrail/book/internal/gateway/ml/http"
	grpchandler "taletrail/book/internal/handler/grpc"
	httphandler "taletrail/book/internal/handler/http"
	"taletrail/book/internal/ingester/kafka"
	"taletrail/book/internal/repository/memory"
	"taletrail/book/internal/repository/mysql"
	"taletrail/book/internal/repository/sqldb"
	"taletrail/book/internal/repository/sqlite"
	"taletrail/pkg/discovery"
	"taletrail/pkg/discovery/consul"
	"taletrail/pkg/dns"
	"taletrail/pkg/limiter"
	"taletrail/pkg/logging"
	"taletrail/pkg/metrics"
	"taletrail/pkg/tracing"
)

const serviceName = "book"

func main() {
	configPath := flag.String("config", "defaults.yaml", "path to the service configuration")
	flag.Parse()

	cfg, err := configs.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log, err := logging.New(serviceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()
	log.Info("Starting the service",
		zap.Int(logging.FieldPort, cfg.API.HTTPPort),
		zap.Int("grpc_port", cfg.API.GRPCPort),
		zap.String("database", cfg.Database.Driver),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Jaeger.URL != "" {
		tp, err := tracing.NewJaegerProvider(cfg.Jaeger.URL, serviceName)
		if err != nil {
			log.Fatal("Failed to initialize jaeger provider", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("Failed to shutdown jaeger provider", zap.Error(err))
			}
		}()
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.TraceContext{})
	}

	var registry discovery.Registry
	if addr := cfg.ServiceDiscovery.Consul.Address; addr != "" {
		consulRegistry, err := consul.NewRegistry(addr, log)
		if err != nil {
			log.Fatal("Failed to create consul registry", zap.Error(err))
		}
		registry = consulRegistry
		deregister := register(ctx, registry, cfg.API.GRPCPort, log)
		defer deregister()
	}

	scope, closer := metrics.NewMetricsReporter(log, serviceName, cfg.Prometheus.MetricsPort)
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn("Failed to close Prometheus reporter scope", zap.Error(err))
		}
	}()

	store, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("Failed to close store", zap.Error(err))
		}
	}()
	cache := memory.New(cfg.Cache.TTL.Std(), log)

	recCfg := recommendation.Config{
		DefaultLimit: cfg.Recommendation.DefaultLimit,
		MaxLimit:     cfg.Recommendation.MaxLimit,
		MLTimeout:    cfg.ML.Timeout.Std(),
	}
	var recs *recommendation.Controller
	if cfg.ML.Enabled() {
		ml := mlgateway.New(mlgateway.Config{
			URL:         cfg.ML.URL,
			ServiceName: cfg.ML.ServiceName,
			Timeout:     cfg.ML.Timeout.Std(),
		}, registry, limiter.New(log, cfg.ML.RateLimit, cfg.ML.Burst), scope, log)
		recs = recommendation.New(store, ml, recCfg, scope, log)
	} else {
		log.Info("ML service not configured, personalised ML recommendations disabled")
		recs = recommendation.New(store, nil, recCfg, scope, log)
	}

	var ratings *rating.Controller
	if k := cfg.Messenger.Kafka; k.Address != "" {
		ingester, err := kafka.NewIngester(k.Address, k.GroupID, k.Topic, log)
		if err != nil {
			log.Fatal("Failed to initialize ingester", zap.Error(err))
		}
		ratings = rating.New(store, cache, ingester, log)
		go func() {
			if err := ratings.StartIngestion(ctx); err != nil {
				log.Error("Rating ingestion stopped", zap.Error(err))
			}
		}()
	} else {
		ratings = rating.New(store, cache, nil, log)
	}

	httpSrv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.API.HTTPPort),
		Handler: httphandler.New(httphandler.Controllers{
			Catalog:         catalog.New(store, cache, log),
			Favorites:       favorite.New(store, log),
			Ratings:         ratings,
			Recommendations: recs,
		}, store, scope, log).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", cfg.API.GRPCPort))
	if err != nil {
		log.Fatal("Failed to listen", zap.Error(err))
	}
	l := limiter.New(log, 100, 50)
	grpcSrv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_recovery.UnaryServerInterceptor(),
			grpc_zap.UnaryServerInterceptor(log),
			ratelimit.UnaryServerInterceptor(l),
		)),
	)
	api.RegisterBookServiceServer(grpcSrv, grpchandler.New(recs, ratings, scope, log))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus(api.BookServiceName, healthpb.HealthCheckResponse_SERVING)
	log.Info("Register reflection")
	reflection.Register(grpcSrv)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s := <-sigChan
		cancel()
		log.Info("Got signal, attempting graceful shutdown", zap.Stringer(logging.FieldSignal, s))
		healthSrv.Shutdown()

		shutdownCtx, done := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout.Std())
		defer done()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Failed to shutdown the HTTP server", zap.Error(err))
		}
		grpcSrv.GracefulStop()
		log.Info("Gracefully stopped the servers")
	}()

	go func() {
		if err := grpcSrv.Serve(lis); err != nil {
			log.Fatal("Failed to serve gRPC", zap.Error(err))
		}
	}()
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to serve HTTP", zap.Error(err))
	}
	wg.Wait()
}

func openStore(ctx context.Context, cfg configs.DatabaseConfig, log *zap.Logger) (*sqldb.Store, error) {
	switch cfg.Driver {
	case "mysql":
		repo, err := mysql.New(ctx, cfg.Mysql, log)
		if err != nil {
			return nil, err
		}
		return repo.Store, nil
	case "sqlite", "":
		repo, err := sqlite.New(ctx, cfg.Sqlite.Path, log)
		if err != nil {
			return nil, err
		}
		return repo.Store, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// register adds this instance to the registry and reports its health
// until ctx is done. The returned func deregisters it.
func register(ctx context.Context, registry discovery.Registry, port int, log *zap.Logger) func() {
	host, err := dns.AdvertiseHost()
	if err != nil {
		log.Fatal("Failed to resolve advertise host", zap.Error(err))
	}
	instanceID := discovery.GenerateInstanceID(serviceName)
	if err := registry.Register(ctx, instanceID, serviceName, fmt.Sprintf("%s:%d", host, port)); err != nil {
		log.Fatal("Failed to register service", zap.Error(err))
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(1 * time.Second):
				if err := registry.ReportHealthyState(instanceID, serviceName); err != nil {
					log.Warn("Failed to report healthy state", zap.Error(err))
				}
			}
		}
	}()
	return func() {
		if err := registry.Deregister(context.Background(), instanceID, serviceName); err != nil {
			log.Warn("Failed to deregister service", zap.Error(err))
		}
	}
}
