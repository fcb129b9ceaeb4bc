package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/courseapi/internal/config"
	"github.com/yigit/courseapi/internal/pkg/logger"
)

// Dialect identifies the SQL flavour spoken by the underlying driver
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// PlaceholderFormat returns the squirrel placeholder format for the dialect
func (d Dialect) PlaceholderFormat() squirrel.PlaceholderFormat {
	if d == DialectPostgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}

// Database wraps a database/sql handle together with its dialect
type Database struct {
	DB      *sql.DB
	Dialect Dialect

	// pool is the pgx pool behind DB for the postgres driver, nil otherwise
	pool *pgxpool.Pool
}

// New opens the database selected by cfg.Database.Driver
func New(cfg *config.Config) (*Database, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return NewPostgresDB(cfg)
	case config.DriverSQLite:
		return NewSQLiteDB(cfg.Database.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// StatementBuilder returns a squirrel builder using the dialect's placeholders
func (d *Database) StatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Dialect.PlaceholderFormat())
}

// Ping verifies the connection is alive
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closing method
func (d *Database) Close() {
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close database handle")
		}
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sql.Tx) error

// WithTransaction runs a function within a transaction, committing on success and rolling
// back on error or panic.
func (d *Database) WithTransaction(ctx context.Context, fn TransactionFn) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
