package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/cart"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessions struct {
	purgedAt time.Time
	count    int64
}

func (s *stubSessions) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return nil
}

func (s *stubSessions) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, nil
}

func (s *stubSessions) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	s.purgedAt = now
	return s.count, nil
}

func TestRunOnceExpiresCartsAndSessions(t *testing.T) {
	logger := logging.NewDiscardLogger()
	carts := stores.NewCartStore(time.Hour, logger)
	_, err := carts.Mutate("u1", func(c *cart.Cart) error {
		c.AddItem(catalog.Product{ID: "p", PriceCents: 100}, nil, nil)
		return nil
	})
	require.NoError(t, err)

	sessions := &stubSessions{count: 3}
	w := NewWorker(carts, sessions, &Config{CleanupInterval: time.Minute, CartTTL: time.Hour}, logger)

	res := w.RunOnce(context.Background())
	assert.Equal(t, 0, res.CartsExpired)
	assert.Equal(t, int64(3), res.SessionsPurged)
	assert.Equal(t, 1, res.CartsRemaining)

	w.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	res = w.RunOnce(context.Background())
	assert.Equal(t, 1, res.CartsExpired)
	assert.Equal(t, 0, res.CartsRemaining)
	assert.False(t, sessions.purgedAt.IsZero())

	report := w.Reporter().GenerateReport()
	assert.Equal(t, 2, report.Runs)
	assert.Equal(t, 1, report.CartsExpired)
	assert.Equal(t, int64(6), report.SessionsPurged)
	assert.Zero(t, report.ActiveCarts)
	require.NotNil(t, report.LastRun)
	assert.Equal(t, 1, report.LastRun.CartsExpired)
	assert.Contains(t, w.Reporter().Render(report), "cleanup pass 2")
}

func TestStartStopsOnCancel(t *testing.T) {
	logger := logging.NewDiscardLogger()
	w := NewWorker(stores.NewCartStore(time.Hour, logger), nil, &Config{CleanupInterval: 5 * time.Millisecond}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
