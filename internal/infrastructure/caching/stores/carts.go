// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/cart"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/metrics"
)

type cartEntry struct {
	cart         *cart.Cart
	lastActivity time.Time
}

// CartStore keeps each member's cart in memory. All access goes through a
// single mutex, so a cart never has two concurrent writers.
type CartStore struct {
	carts  map[string]*cartEntry
	ttl    time.Duration
	now    func() time.Time
	mu     sync.Mutex
	logger *logging.ChanneledLogger
}

// NewCartStore creates a new cart store whose entries expire after ttl of
// inactivity.
func NewCartStore(ttl time.Duration, logger *logging.ChanneledLogger) *CartStore {
	if logger != nil {
		logger.Cache().Info("Initializing cart store", "ttl", ttl)
	}
	return &CartStore{
		carts:  make(map[string]*cartEntry),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// View returns a snapshot of the member's cart. A member without a cart
// gets an empty snapshot; no entry is created.
func (s *CartStore) View(userID string) interfaces.CartSnapshot {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.carts[userID]
	if ok && s.expired(entry) {
		delete(s.carts, userID)
		ok = false
	}
	if s.logger != nil {
		s.logger.LogCacheOperation("cart_view", userID, ok, time.Since(start))
	}
	if !ok {
		return interfaces.CartSnapshot{Lines: []cart.Line{}}
	}
	return snapshot(entry.cart)
}

// Mutate runs fn against the member's cart, creating it on first use. A new
// cart is only kept when fn succeeds and leaves at least one line.
func (s *CartStore) Mutate(userID string, fn func(c *cart.Cart) error) (interfaces.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.carts[userID]
	if ok && s.expired(entry) {
		delete(s.carts, userID)
		ok = false
	}
	if !ok {
		entry = &cartEntry{cart: cart.New()}
	}

	if err := fn(entry.cart); err != nil {
		return snapshot(entry.cart), err
	}

	if !ok && entry.cart.Len() == 0 {
		return snapshot(entry.cart), nil
	}
	entry.lastActivity = s.now()
	if !ok {
		s.carts[userID] = entry
		metrics.ActiveCarts.Set(float64(len(s.carts)))
		if s.logger != nil {
			s.logger.Cache().Debug("Cart created", "userId", userID)
		}
	}
	return snapshot(entry.cart), nil
}

// Clear drops the member's cart.
func (s *CartStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	metrics.ActiveCarts.Set(float64(len(s.carts)))
}

// PurgeExpired removes carts idle longer than the TTL and returns how many
// were removed.
func (s *CartStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, entry := range s.carts {
		if now.Sub(entry.lastActivity) > s.ttl {
			delete(s.carts, userID)
			removed++
		}
	}
	metrics.ActiveCarts.Set(float64(len(s.carts)))
	return removed
}

// Len returns the number of carts held.
func (s *CartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

func (s *CartStore) expired(entry *cartEntry) bool {
	return s.ttl > 0 && s.now().Sub(entry.lastActivity) > s.ttl
}

func snapshot(c *cart.Cart) interfaces.CartSnapshot {
	return interfaces.CartSnapshot{
		Lines:           c.Lines(),
		TotalItems:      c.TotalItemCount(),
		TotalPriceCents: c.TotalPriceCents(),
		UpdatedAt:       c.UpdatedAt,
	}
}
