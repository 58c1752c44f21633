package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T) (*ChanneledLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := NewChanneledLogger(&LoggerConfig{
		Writer:       &buf,
		JSONFormat:   true,
		DefaultLevel: slog.LevelInfo,
	})
	require.NoError(t, err)
	return logger, &buf
}

func TestWithContextCarriesRequestID(t *testing.T) {
	logger, buf := newBufferLogger(t)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))

	logger.WithContext(ChannelCommerce, ctx).Info("cart updated")
	assert.Contains(t, buf.String(), `"requestId":"req-42"`)

	buf.Reset()
	logger.WithContext(ChannelCommerce, context.Background()).Info("cart updated")
	assert.NotContains(t, buf.String(), "requestId")
}

func TestLogErrorIncludesOperation(t *testing.T) {
	logger, buf := newBufferLogger(t)

	logger.LogError(ChannelVendor, "get_product", errors.New("timeout"), map[string]any{"productId": "tee"})
	out := buf.String()
	assert.Contains(t, out, `"operation":"get_product"`)
	assert.Contains(t, out, `"error":"timeout"`)
	assert.Contains(t, out, `"productId":"tee"`)
}

func TestChannelLevels(t *testing.T) {
	logger, buf := newBufferLogger(t)

	logger.Commerce().Debug("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, logger.SetChannelLevel(ChannelCommerce, ParseLevel("debug")))
	logger.Commerce().Debug("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Error(t, logger.SetChannelLevel(Channel("nope"), slog.LevelInfo))
}
