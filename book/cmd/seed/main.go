package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taletrail/book/configs"
	"taletrail/book/internal/repository/mysql"
	"taletrail/book/internal/repository/sqlite"
	"taletrail/book/internal/seed"
	"taletrail/pkg/logging"
)

func main() {
	configPath := flag.String("config", "defaults.yaml", "path to the service configuration")
	catalogPath := flag.String("catalog", "catalog.yaml", "path to the YAML catalog to load")
	cost := flag.Int("bcrypt-cost", bcrypt.DefaultCost, "bcrypt cost of the seeded password hashes")
	flag.Parse()

	cfg, err := configs.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log, err := logging.New("book-seed", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	if err := run(context.Background(), cfg.Database, *catalogPath, *cost, log); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg configs.DatabaseConfig, catalogPath string, cost int, log *zap.Logger) error {
	f, err := os.Open(catalogPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn("Failed to close file", zap.Error(err))
		}
	}()
	catalog, err := seed.Load(f)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var store seed.Store
	switch cfg.Driver {
	case "mysql":
		repo, err := mysql.New(ctx, cfg.Mysql, log)
		if err != nil {
			return err
		}
		defer repo.Close()
		store = repo
	case "sqlite", "":
		repo, err := sqlite.New(ctx, cfg.Sqlite.Path, log)
		if err != nil {
			return err
		}
		defer repo.Close()
		store = repo
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	_, err = seed.New(store, cost, log).Apply(ctx, catalog)
	return err
}
