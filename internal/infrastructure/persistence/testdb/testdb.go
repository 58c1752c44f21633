// Package testdb opens a migrated SQLite database in a test's temp dir.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	schema "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
	"github.com/stretchr/testify/require"
)

// New returns a fresh database with the full schema applied. It is closed
// when the test ends.
func New(t testing.TB) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fanhub.db")
	db, err := database.Open(database.Config{SQLitePath: path, MaxOpenConns: 1}, logging.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, schema.NewTableCreator().CreateSchema(context.Background(), db.DB))
	return db
}
