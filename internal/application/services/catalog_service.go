package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
)

// ProductDetail is a product page: the product, its vendor options and the
// variant chosen by the default selection.
type ProductDetail struct {
	Product          *catalog.Product  `json:"product"`
	Options          []catalog.Option  `json:"options"`
	Variants         []catalog.Variant `json:"variants"`
	DefaultSelection map[string]string `json:"defaultSelection"`
	SelectedVariant  *catalog.Variant  `json:"selectedVariant"`
	Images           []string          `json:"images"`
	DetailsLoaded    bool              `json:"detailsLoaded"`
	RequiresOptions  bool              `json:"requiresOptions"`
}

// SelectionResult is the outcome of resolving a selection on a product.
type SelectionResult struct {
	Matched    bool                            `json:"matched"`
	Variant    *catalog.Variant                `json:"variant"`
	PriceCents int64                           `json:"priceCents"`
	Images     []string                        `json:"images"`
	Unknown    []catalog.UnknownSelectionError `json:"unknown,omitempty"`
}

// CatalogService lists merch and resolves vendor variants.
type CatalogService struct {
	products catalog.ProductRepository
	vendor   catalog.VendorCatalog
	logger   *logging.ChanneledLogger
}

// NewCatalogService creates a new catalog service. vendor may be nil, in
// which case vendor-backed products report details as not loaded.
func NewCatalogService(products catalog.ProductRepository, vendor catalog.VendorCatalog, logger *logging.ChanneledLogger) *CatalogService {
	return &CatalogService{products: products, vendor: vendor, logger: logger}
}

// ListProducts returns active products filtered by category and sorted.
// Vendor-backed products show the vendor's default image when it loads.
func (s *CatalogService) ListProducts(ctx context.Context, category, order string) ([]*catalog.Product, error) {
	products, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	products = catalog.FilterByCategory(products, category)
	catalog.SortProducts(products, order)
	s.applyVendorImages(ctx, products)
	return products, nil
}

// Latest returns the newest active products.
func (s *CatalogService) Latest(ctx context.Context, limit int) ([]*catalog.Product, error) {
	products, err := s.products.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	s.applyVendorImages(ctx, products)
	return products, nil
}

// FindProduct loads an active product.
func (s *CatalogService) FindProduct(ctx context.Context, id string) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}
	return product, nil
}

// GetVendorDetails fetches the vendor payload for a product. Any failure
// other than cancellation is reported as ErrVendorUnavailable, which also
// matches catalog.ErrDetailsNotLoaded.
func (s *CatalogService) GetVendorDetails(ctx context.Context, product *catalog.Product) (*catalog.VendorDetails, error) {
	if s.vendor == nil {
		return nil, fmt.Errorf("%w: %w", ErrVendorUnavailable, catalog.ErrDetailsNotLoaded)
	}
	details, err := s.vendor.GetProductDetails(ctx, product.VendorShopID, product.VendorProductID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.WithContext(logging.ChannelVendor, ctx).Warn("Vendor details unavailable", "productId", product.ID, "error", err)
		return nil, fmt.Errorf("%w: %w: %v", ErrVendorUnavailable, catalog.ErrDetailsNotLoaded, err)
	}
	return details, nil
}

// GetProduct builds the product page. A vendor outage does not fail the
// page; DetailsLoaded is false and purchase stays blocked.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*ProductDetail, error) {
	product, err := s.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{
		Product:          product,
		Options:          []catalog.Option{},
		Variants:         []catalog.Variant{},
		DefaultSelection: map[string]string{},
		Images:           product.Images,
	}
	if !product.HasVendorDetails() {
		detail.DetailsLoaded = true
		return detail, nil
	}

	detail.RequiresOptions = true
	details, err := s.GetVendorDetails(ctx, product)
	if err != nil {
		if errors.Is(err, ErrVendorUnavailable) {
			return detail, nil
		}
		return nil, err
	}

	detail.DetailsLoaded = true
	detail.RequiresOptions = len(details.Options) > 0
	detail.Options = details.Options
	detail.Variants = details.Variants
	detail.DefaultSelection = details.DefaultSelection()

	res, _ := catalog.ResolveVariant(details, detail.DefaultSelection)
	detail.SelectedVariant = res.Variant
	if images := details.ImagesForVariant(res.Variant); len(images) > 0 {
		detail.Images = images
	}
	return detail, nil
}

// ResolveSelection matches a selection to a variant. When vendor data
// cannot be loaded it returns ErrVendorUnavailable and never a no-match.
func (s *CatalogService) ResolveSelection(ctx context.Context, id string, selection map[string]string) (*SelectionResult, error) {
	product, err := s.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.HasVendorDetails() {
		return &SelectionResult{Matched: true, PriceCents: product.PriceCents, Images: product.Images}, nil
	}

	details, err := s.GetVendorDetails(ctx, product)
	if err != nil {
		return nil, err
	}
	res, err := catalog.ResolveVariant(details, selection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVendorUnavailable, err)
	}

	out := &SelectionResult{
		Matched:    res.Matched(),
		Variant:    res.Variant,
		PriceCents: product.PriceCents,
		Images:     details.ImagesForVariant(res.Variant),
		Unknown:    res.Unknown,
	}
	if res.Variant != nil {
		out.PriceCents = res.Variant.PriceCents
	}
	return out, nil
}

// applyVendorImages swaps in each vendor product's default image. Failures
// keep the cover image.
func (s *CatalogService) applyVendorImages(ctx context.Context, products []*catalog.Product) {
	if s.vendor == nil {
		return
	}
	var wg sync.WaitGroup
	for _, p := range products {
		if !p.HasVendorDetails() {
			continue
		}
		wg.Add(1)
		go func(p *catalog.Product) {
			defer wg.Done()
			details, err := s.vendor.GetProductDetails(ctx, p.VendorShopID, p.VendorProductID)
			if err != nil {
				s.logger.WithContext(logging.ChannelVendor, ctx).Debug("Keeping cover image", "productId", p.ID, "error", err)
				return
			}
			if src, ok := details.DefaultImage(); ok {
				p.Images = []string{src}
			}
		}(p)
	}
	wg.Wait()
}
