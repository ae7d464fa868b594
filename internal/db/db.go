// Package db provides the database pool used by the HTTP handlers. Rows are
// returned as column-name maps since the users schema is owned by the database,
// not by this service.
package db

import (
	"context"
	"fmt"

	"github.com/anupam1005/SmartFarmAI/internal/config"
	"github.com/anupam1005/SmartFarmAI/pkg/logger"
)

// Row is one result record keyed by column name.
type Row = map[string]any

// Querier runs a query and returns every row it produced.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) ([]Row, error)
}

// Store is a pooled database handle.
type Store interface {
	Querier
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	Ping(ctx context.Context) error
	Driver() string
	Close() error
}

// Connect opens the store selected by cfg.DatabaseDriver and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, error) {
	log.Info(ctx, "connecting to database", logger.String("driver", cfg.DatabaseDriver))

	var (
		s   Store
		err error
	)
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		s, err = OpenPostgres(ctx, cfg)
	case config.DriverSQLite:
		s, err = OpenSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.DatabaseDriver)
	}
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "database connection successful", logger.String("driver", s.Driver()))
	return s, nil
}
