package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/courseapi/internal/db"
	"github.com/yigit/courseapi/internal/pkg/logger"
)

//go:embed sql
var schemaFS embed.FS

const createMigrationTableSQL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

// Migrator applies the embedded schema files of the database's dialect and records each
// applied version in schema_migrations.
type Migrator struct {
	db     *db.Database
	source fs.FS
}

// NewMigrator creates a new migrator for the database's dialect
func NewMigrator(database *db.Database) *Migrator {
	return &Migrator{
		db:     database,
		source: schemaFS,
	}
}

// Migrate applies every schema file of the dialect in filename order
func (m *Migrator) Migrate(ctx context.Context) error {
	if _, err := m.db.DB.ExecContext(ctx, createMigrationTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	dir := path.Join("sql", string(m.db.Dialect))

	entries, err := fs.ReadDir(m.source, dir)
	if err != nil {
		return fmt.Errorf("failed to read schema directory %s: %w", dir, err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}

	// Sort files to ensure they're executed in order
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		if err := m.migrateFile(ctx, path.Join(dir, file)); err != nil {
			return err
		}
	}

	return nil
}

// migrateFile executes the statements of one schema file and records its version
// ("001_schema.sql" => "001") in the same transaction. Applied versions are skipped.
func (m *Migrator) migrateFile(ctx context.Context, filePath string) error {
	version := strings.SplitN(path.Base(filePath), "_", 2)[0]

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		logger.Debug().Str("file", filePath).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(m.source, filePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	statements := splitStatements(string(content))

	err = m.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("error occurred during SQL migration execution of %s: %w", filePath, err)
			}
		}
		return m.recordMigration(ctx, tx, version)
	})
	if err != nil {
		return err
	}

	logger.Info().Str("file", filePath).Int("statements", len(statements)).Msg("Migration file successfully applied")
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	query, args, err := m.db.StatementBuilder().
		Select("COUNT(*)").
		From("schema_migrations").
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build migration status query: %w", err)
	}

	var count int
	if err := m.db.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return count > 0, nil
}

// recordMigration marks a migration as applied
func (m *Migrator) recordMigration(ctx context.Context, tx *sql.Tx, version string) error {
	query, args, err := m.db.StatementBuilder().
		Insert("schema_migrations").
		Columns("version", "applied_at").
		Values(version, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build record migration query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// splitStatements splits a schema file on ';'. Schema files contain no string literals
// or procedural bodies.
func splitStatements(content string) []string {
	var statements []string
	for _, part := range strings.Split(content, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
