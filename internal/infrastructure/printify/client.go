// Package printify is the print-on-demand vendor client. Requests are rate
// limited, retried with backoff on 429 and 5xx, and abandoned when the
// caller's context ends.
package printify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/metrics"
	"golang.org/x/time/rate"
)

const endpointProductDetails = "product_details"

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("printify client not configured")
	// ErrProductNotFound is returned for a 404 from the vendor.
	ErrProductNotFound = errors.New("printify product not found")
	// ErrUnavailable covers transport failures and exhausted retries.
	ErrUnavailable = errors.New("printify unavailable")
)

// Config configures the client.
type Config struct {
	BaseURL     string
	APIKey      string
	RPS         float64
	Burst       int
	MaxAttempts int
	BaseBackoff time.Duration
	Timeout     time.Duration
	CacheTTL    time.Duration
}

type cachedDetails struct {
	details   *catalog.VendorDetails
	fetchedAt time.Time
}

// Client fetches product details from the Printify REST API.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
	cacheTTL    time.Duration
	logger      *logging.ChanneledLogger

	mu    sync.RWMutex
	cache map[string]cachedDetails
}

// NewClient creates a client. Zero config values fall back to defaults.
func NewClient(cfg Config, logger *logging.ChanneledLogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.printify.com/v1"
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 300 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		maxAttempts: cfg.MaxAttempts,
		baseBackoff: cfg.BaseBackoff,
		cacheTTL:    cfg.CacheTTL,
		logger:      logger,
		cache:       make(map[string]cachedDetails),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// GetProductDetails returns the vendor's options, variants and images for a
// product. Successful responses are cached for the configured TTL.
func (c *Client) GetProductDetails(ctx context.Context, shopID, productID string) (*catalog.VendorDetails, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if shopID == "" || productID == "" {
		return nil, fmt.Errorf("%w: empty shop or product id", ErrProductNotFound)
	}

	key := shopID + "/" + productID
	if d, ok := c.cached(key); ok {
		return d, nil
	}

	u := fmt.Sprintf("%s/shops/%s/products/%s.json", c.baseURL, url.PathEscape(shopID), url.PathEscape(productID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.auth(req)

	start := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		metrics.IncVendorRequest(endpointProductDetails, "error")
		c.logger.Vendor().Error("Product details request failed", "shopId", shopID, "productId", productID, "error", err, "duration", time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.IncVendorRequest(endpointProductDetails, "not_found")
		return nil, ErrProductNotFound
	case resp.StatusCode >= 400:
		metrics.IncVendorRequest(endpointProductDetails, "error")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Vendor().Warn("Product details rejected", "status", resp.StatusCode, "body", string(body), "productId", productID)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var details catalog.VendorDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		metrics.IncVendorRequest(endpointProductDetails, "error")
		return nil, fmt.Errorf("%w: invalid response: %v", ErrUnavailable, err)
	}

	metrics.IncVendorRequest(endpointProductDetails, "ok")
	c.logger.Vendor().Debug("Product details fetched", "productId", productID, "variants", len(details.Variants), "duration", time.Since(start))
	c.store(key, &details)
	return &details, nil
}

func (c *Client) auth(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) cached(key string) (*catalog.VendorDetails, bool) {
	if c.cacheTTL <= 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || time.Since(entry.fetchedAt) > c.cacheTTL {
		return nil, false
	}
	c.logger.LogCacheOperation("vendor_details", key, true, 0)
	return entry.details, true
}

func (c *Client) store(key string, d *catalog.VendorDetails) {
	if c.cacheTTL <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cachedDetails{details: d, fetchedAt: time.Now()}
}

// doWithRetry retries 429 and 5xx responses and transport errors with
// exponential backoff, honouring Retry-After.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.IncVendorRetry(endpointProductDetails)
		}
		resp, err := c.httpClient.Do(req.Clone(ctx))
		if err == nil {
			if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
				return resp, nil
			}
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			wait := retryAfter(resp.Header.Get("Retry-After"), backoff)
			resp.Body.Close()
			if attempt == c.maxAttempts {
				break
			}
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.maxAttempts {
			break
		}
		if err := sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("request failed after %d attempts: %v", c.maxAttempts, lastErr)
}

func retryAfter(header string, fallback time.Duration) time.Duration {
	if header == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return fallback
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
