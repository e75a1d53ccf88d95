package mysql

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"taletrail/book/configs"
	"taletrail/book/internal/repository/sqldb"
	"taletrail/pkg/logging"
)

//go:embed schema.sql
var schema string

// Dialect holds the MySQL specific statements.
var Dialect = sqldb.Dialect{
	Name:     "mysql",
	LockBook: "SELECT id FROM books WHERE id = ? FOR UPDATE",
	UpsertRating: `INSERT INTO ratings (user_id, book_id, rating, review_text, created_at) VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE rating = VALUES(rating), review_text = VALUES(review_text), created_at = VALUES(created_at)`,
	UpsertFavorite: `INSERT INTO user_favorites (user_id, book_id, created_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE created_at = VALUES(created_at)`,
	InsertGenreRelation: `INSERT INTO book_genre_relations (book_id, genre_id) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE genre_id = genre_id`,
}

// Repository defines a MySQL-based book repository.
type Repository struct {
	*sqldb.Store
}

// New creates a new MySQL-based repository and makes sure the schema exists.
func New(ctx context.Context, config configs.MysqlConfig, logger *zap.Logger) (*Repository, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "mysql"),
	)
	cfg := mysql.NewConfig()
	cfg.User = config.User
	cfg.Passwd = config.Pass
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", config.Host, config.Port)
	cfg.DBName = config.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	logger.Info("Connecting to mysql", zap.String("addr", cfg.Addr), zap.String("db", cfg.DBName))

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	r := &Repository{Store: sqldb.New(db, Dialect, logger)}
	if err := r.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	if err := r.Migrate(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}
