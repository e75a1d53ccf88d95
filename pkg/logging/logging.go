// Package logging holds the structured log field names shared by all services
// and a constructor for the production logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Common log field names.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldType      = "type"
	FieldPort      = "port"
	FieldSignal    = "signal"
	FieldUserID    = "user_id"
	FieldBookID    = "book_id"
	FieldStrategy  = "strategy"
	FieldEndpoint  = "endpoint"
)

// New builds a production JSON logger tagged with the service name.
// An empty or unknown level falls back to info.
func New(serviceName string, level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String(FieldService, serviceName)), nil
}
