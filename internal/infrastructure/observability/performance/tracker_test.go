package performance

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerAggregatesMarkers(t *testing.T) {
	tr := NewTracker(nil)

	ok := tr.StartOperation("cart:add_item")
	ok.Complete()
	ok.Complete() // second call is ignored

	failed := tr.StartOperation("cart:add_item")
	failed.SetError(errors.New("boom"))
	failed.Complete()

	stats := tr.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, int64(2), stats[0].Count)
	assert.Equal(t, int64(1), stats[0].Failures)

	overall := tr.GetOverallStats()
	assert.Equal(t, int64(0), overall["activeOperations"])
	assert.Equal(t, int64(2), overall["completedOperations"])
}

func TestTrackerLogsSlowOperations(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		Writer:       &buf,
		JSONFormat:   true,
		DefaultLevel: slog.LevelInfo,
	})
	require.NoError(t, err)

	tr := NewTracker(&TrackerConfig{SlowThreshold: time.Nanosecond, Logger: logger})
	m := tr.StartOperation("vendor:get_product")
	time.Sleep(time.Millisecond)
	m.Complete()

	assert.Contains(t, buf.String(), "Slow operation")
	assert.Contains(t, buf.String(), "vendor:get_product")
	assert.Equal(t, int64(1), tr.Stats()[0].Slow)
}

func TestStartOperationWithContext(t *testing.T) {
	tr := NewTracker(nil)

	ctx := logging.ContextWithRequestID(context.Background(), "req-7")
	m := tr.StartOperationWithContext(ctx, "get_cart_request")
	assert.Equal(t, "req-7", m.Metadata["requestId"])
	assert.True(t, m.Success)
	m.Complete()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	m = tr.StartOperationWithContext(cancelled, "get_cart_request")
	assert.False(t, m.Success)
	assert.Equal(t, context.Canceled.Error(), m.Error)
	assert.NotContains(t, m.Metadata, "requestId")
	m.Complete()

	stats := tr.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, int64(1), stats[0].Failures)
}

func TestStatsReportAverage(t *testing.T) {
	s := OperationStats{Count: 4, Total: 100 * time.Millisecond}
	assert.Equal(t, 25*time.Millisecond, s.Average())
	assert.Zero(t, OperationStats{}.Average())

	tr := NewTracker(nil)
	m := tr.StartOperation("home")
	m.SetError(errors.New("refused"))
	m.SetSuccess(true)
	m.Complete()
	stats := tr.Stats()
	require.Len(t, stats, 1)
	assert.Zero(t, stats[0].Failures)
	assert.Equal(t, stats[0].Total, stats[0].Avg)
}
