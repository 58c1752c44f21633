package printify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailsJSON = `{
  "id": "prod-1",
  "title": "Tour Tee",
  "options": [
    {"name": "Size", "type": "size", "values": [{"id": 1, "title": "S"}, {"id": 2, "title": "M"}]},
    {"name": "Color", "type": "color", "values": [{"id": 10, "title": "Black"}]}
  ],
  "variants": [
    {"id": 100, "title": "S / Black", "price": 2500, "is_enabled": true, "options": [1, 10]},
    {"id": 101, "title": "M / Black", "price": 2700, "is_enabled": true, "options": [2, 10]}
  ],
  "images": [
    {"src": "https://img/a.png", "variant_ids": [100], "is_default": false},
    {"src": "https://img/b.png", "variant_ids": [101], "is_default": true}
  ]
}`

func newTestClient(url string) *Client {
	return NewClient(Config{
		BaseURL:     url,
		APIKey:      "key",
		RPS:         1000,
		Burst:       100,
		MaxAttempts: 3,
		BaseBackoff: 5 * time.Millisecond,
	}, logging.NewDiscardLogger())
}

func TestGetProductDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shops/shop-9/products/prod-1.json", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(detailsJSON))
	}))
	defer srv.Close()

	d, err := newTestClient(srv.URL).GetProductDetails(context.Background(), "shop-9", "prod-1")
	require.NoError(t, err)
	require.Len(t, d.Options, 2)
	require.Len(t, d.Variants, 2)
	assert.Equal(t, []int64{2, 10}, d.Variants[1].OptionIDs)
	assert.Equal(t, int64(2700), d.Variants[1].PriceCents)

	img, ok := d.DefaultImage()
	assert.True(t, ok)
	assert.Equal(t, "https://img/b.png", img)
}

func TestRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(detailsJSON))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetProductDetails(context.Background(), "s", "p")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestExhaustedRetriesAreUnavailable(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetProductDetails(context.Background(), "s", "p")
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNotFoundAndNotConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetProductDetails(context.Background(), "s", "p")
	assert.True(t, errors.Is(err, ErrProductNotFound))

	_, err = NewClient(Config{BaseURL: srv.URL}, logging.NewDiscardLogger()).GetProductDetails(context.Background(), "s", "p")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestCancelledContextAbandonsRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).GetProductDetails(ctx, "s", "p")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestDetailsAreCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(detailsJSON))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.cacheTTL = time.Minute
	for i := 0; i < 3; i++ {
		_, err := c.GetProductDetails(context.Background(), "s", "p")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
