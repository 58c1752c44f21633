package services

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/cart"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/metrics"
)

// AddItemInput is a request to add one unit of a product.
type AddItemInput struct {
	ProductID       string            `json:"productId"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

// CartService applies cart operations to the member's server-side cart.
type CartService struct {
	carts   interfaces.CartCache
	catalog *CatalogService
	logger  *logging.ChanneledLogger
}

// NewCartService creates a new cart service
func NewCartService(carts interfaces.CartCache, catalog *CatalogService, logger *logging.ChanneledLogger) *CartService {
	return &CartService{carts: carts, catalog: catalog, logger: logger}
}

// View returns the member's cart.
func (s *CartService) View(userID string) interfaces.CartSnapshot {
	return s.carts.View(userID)
}

// AddItem adds one unit of a product. Vendor-backed products need a
// selection that resolves to exactly one variant: an incomplete or unknown
// selection is ErrVariantRequired, a vendor outage is ErrVendorUnavailable.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddItemInput) (interfaces.CartSnapshot, error) {
	product, err := s.catalog.FindProduct(ctx, in.ProductID)
	if err != nil {
		return interfaces.CartSnapshot{}, err
	}

	var (
		options   map[string]string
		variantID *int64
		line      catalog.Product = *product
	)

	if product.HasVendorDetails() {
		details, err := s.catalog.GetVendorDetails(ctx, product)
		if err != nil {
			return interfaces.CartSnapshot{}, err
		}
		if len(details.Options) > 0 {
			res, err := catalog.ResolveVariant(details, in.SelectedOptions)
			if err != nil {
				return interfaces.CartSnapshot{}, fmt.Errorf("%w: %w", ErrVendorUnavailable, err)
			}
			if !res.Matched() {
				s.logger.WithContext(logging.ChannelCommerce, ctx).Debug("Selection did not resolve", "productId", product.ID, "unknown", len(res.Unknown))
				return interfaces.CartSnapshot{}, ErrVariantRequired
			}
			id := res.Variant.ID
			variantID = &id
			options = in.SelectedOptions
		}
		line = product.WithVendorDetails(details)
	}

	snap, err := s.carts.Mutate(userID, func(c *cart.Cart) error {
		c.AddItem(line, options, variantID)
		return nil
	})
	if err != nil {
		return snap, err
	}

	metrics.IncCartMutation("add")
	s.logger.WithContext(logging.ChannelCommerce, ctx).Info("Cart item added", "userId", userID, "productId", product.ID, "totalItems", snap.TotalItems)
	return snap, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// Unknown line ids leave the cart unchanged.
func (s *CartService) UpdateQuantity(userID, lineID string, quantity int) (interfaces.CartSnapshot, error) {
	var changed bool
	snap, err := s.carts.Mutate(userID, func(c *cart.Cart) error {
		changed = c.UpdateQuantity(lineID, quantity)
		return nil
	})
	if err == nil && changed {
		metrics.IncCartMutation("update")
	}
	return snap, err
}

// RemoveItem deletes a line. Unknown line ids leave the cart unchanged.
func (s *CartService) RemoveItem(userID, lineID string) (interfaces.CartSnapshot, error) {
	var changed bool
	snap, err := s.carts.Mutate(userID, func(c *cart.Cart) error {
		changed = c.RemoveItem(lineID)
		return nil
	})
	if err == nil && changed {
		metrics.IncCartMutation("remove")
	}
	return snap, err
}

// Clear empties the member's cart.
func (s *CartService) Clear(userID string) {
	s.carts.Clear(userID)
	metrics.IncCartMutation("clear")
}
