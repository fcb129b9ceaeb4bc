package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseapi/internal/config"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	database, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(database.Close)

	_, err = database.DB.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)")
	require.NoError(t, err)
	return database
}

func countItems(t *testing.T, database *Database) int {
	t.Helper()
	var n int
	require.NoError(t, database.DB.QueryRow("SELECT COUNT(*) FROM items").Scan(&n))
	return n
}

func TestDialectPlaceholders(t *testing.T) {
	assert.Equal(t, squirrel.Dollar, DialectPostgres.PlaceholderFormat())
	assert.Equal(t, squirrel.Question, DialectSQLite.PlaceholderFormat())

	query, _, err := (&Database{Dialect: DialectPostgres}).StatementBuilder().
		Select("id").From("items").Where(squirrel.Eq{"id": 1}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM items WHERE id = $1", query)
}

func TestWithTransaction_Commit(t *testing.T) {
	database := newTestDB(t)

	err := database.WithTransaction(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES ('a'), ('b')")
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 2, countItems(t, database))
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	database := newTestDB(t)
	boom := errors.New("boom")

	err := database.WithTransaction(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES ('a')"); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countItems(t, database))
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	database := newTestDB(t)

	assert.Panics(t, func() {
		_ = database.WithTransaction(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
			_, _ = tx.ExecContext(ctx, "INSERT INTO items (name) VALUES ('a')")
			panic("boom")
		})
	})

	assert.Equal(t, 0, countItems(t, database))
}

func TestNew_SQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "app.db")

	database, err := New(cfg)
	require.NoError(t, err)
	defer database.Close()

	assert.Equal(t, DialectSQLite, database.Dialect)
	assert.NoError(t, database.Ping(context.Background()))
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = "oracle"

	_, err := New(cfg)
	assert.Error(t, err)
}
