package dberrors_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseapi/internal/db"
	"github.com/yigit/courseapi/internal/pkg/dberrors"
)

func TestIsUniqueViolation_Postgres(t *testing.T) {
	assert.True(t, dberrors.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, dberrors.IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, dberrors.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	database, err := db.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	_, err = database.DB.ExecContext(ctx, "CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT UNIQUE, parent INTEGER REFERENCES things(id))")
	require.NoError(t, err)
	_, err = database.DB.ExecContext(ctx, "INSERT INTO things (id, name) VALUES (1, 'a')")
	require.NoError(t, err)

	_, err = database.DB.ExecContext(ctx, "INSERT INTO things (id, name) VALUES (2, 'a')")
	require.Error(t, err)
	assert.True(t, dberrors.IsUniqueViolation(err))

	_, err = database.DB.ExecContext(ctx, "INSERT INTO things (id, name) VALUES (1, 'b')")
	require.Error(t, err)
	assert.True(t, dberrors.IsUniqueViolation(err))

	_, err = database.DB.ExecContext(ctx, "INSERT INTO things (id, name, parent) VALUES (3, 'c', 99)")
	require.Error(t, err, "foreign keys are enforced")
	assert.False(t, dberrors.IsUniqueViolation(err))
}

func TestIsUniqueViolation_Other(t *testing.T) {
	assert.False(t, dberrors.IsUniqueViolation(nil))
	assert.False(t, dberrors.IsUniqueViolation(errors.New("UNIQUE constraint failed")))
}
