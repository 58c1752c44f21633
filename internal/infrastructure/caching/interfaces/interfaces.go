// Package interfaces defines the contracts for the in-memory caches.
package interfaces

import (
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/cart"
)

// CartSnapshot is a read-only copy of a member's cart with its totals.
type CartSnapshot struct {
	Lines           []cart.Line `json:"lines"`
	TotalItems      int         `json:"totalItems"`
	TotalPriceCents int64       `json:"totalPriceCents"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// CartCache holds one cart per member. Mutate runs fn as the single writer
// for that member's cart.
type CartCache interface {
	View(userID string) CartSnapshot
	Mutate(userID string, fn func(c *cart.Cart) error) (CartSnapshot, error)
	Clear(userID string)
	PurgeExpired(now time.Time) int
	Len() int
}
