package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyConnection(t *testing.T) {
	db := testdb.New(t)
	logger := logging.NewDiscardLogger()

	require.NoError(t, db.VerifyConnection(context.Background(), logger))

	require.NoError(t, db.Close())
	assert.Error(t, db.VerifyConnection(context.Background(), logger))
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 30, 0, 123, time.UTC)
	parsed, err := database.ParseTime(database.FormatTime(now))
	require.NoError(t, err)
	assert.True(t, now.Equal(parsed))

	parsed, err = database.ParseTime("2026-03-01 12:30:00")
	require.NoError(t, err)
	assert.Equal(t, 12, parsed.Hour())

	_, err = database.ParseTime("yesterday")
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", database.Placeholders(0))
	assert.Equal(t, "?, ?, ?", database.Placeholders(3))
}
