// Package seed loads products and content from a YAML file into the
// database. Loading is idempotent: rows are upserted by id.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/content"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"gopkg.in/yaml.v3"
)

// File is the seed document.
type File struct {
	Products []ProductSeed `yaml:"products"`
	Content  []ContentSeed `yaml:"content"`
}

// ProductSeed is one product entry. Prices are in cents.
type ProductSeed struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	Description      string `yaml:"description"`
	Type             string `yaml:"type"`
	Subtype          string `yaml:"subtype"`
	Category         string `yaml:"category"`
	PriceCents       int64  `yaml:"price_cents"`
	CoverImageURL    string `yaml:"cover_image_url"`
	VendorProductID  string `yaml:"vendor_product_id"`
	VendorShopID     string `yaml:"vendor_shop_id"`
	DigitalAssetPath string `yaml:"digital_asset_path"`
	Active           *bool  `yaml:"active"`
	CreatedAt        string `yaml:"created_at"`
}

// ContentSeed is one media item entry.
type ContentSeed struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Type          string   `yaml:"type"`
	Description   string   `yaml:"description"`
	FileURL       string   `yaml:"url"`
	CoverImageURL string   `yaml:"thumbnail"`
	Tags          []string `yaml:"tags"`
	Active        *bool    `yaml:"active"`
	CreatedAt     string   `yaml:"created_at"`
}

// Options tune how a seed file is applied.
type Options struct {
	// DefaultVendorShopID fills vendor_shop_id for products that name a
	// vendor product but no shop.
	DefaultVendorShopID string
}

// Result counts what was written.
type Result struct {
	Products int
	Content  int
}

// Load reads and validates a seed file.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks required fields and enumerations.
func (f *File) Validate() error {
	var errs []error
	for i, p := range f.Products {
		if p.ID == "" || p.Name == "" {
			errs = append(errs, fmt.Errorf("products[%d]: id and name are required", i))
		}
		switch catalog.ProductType(p.Type) {
		case catalog.ProductPhysical, catalog.ProductDigital:
		default:
			errs = append(errs, fmt.Errorf("products[%d]: unknown type %q", i, p.Type))
		}
		if p.PriceCents < 0 {
			errs = append(errs, fmt.Errorf("products[%d]: negative price", i))
		}
	}
	for i, c := range f.Content {
		if c.ID == "" || c.Title == "" {
			errs = append(errs, fmt.Errorf("content[%d]: id and title are required", i))
		}
		switch content.MediaType(c.Type) {
		case content.MediaVideo, content.MediaAudio, content.MediaImage:
		default:
			errs = append(errs, fmt.Errorf("content[%d]: unknown type %q", i, c.Type))
		}
	}
	return errors.Join(errs...)
}

// Apply upserts every entry. It stops at the first write error.
func Apply(ctx context.Context, f *File, opts Options, products catalog.ProductRepository, items content.Repository, logger *logging.ChanneledLogger) (Result, error) {
	var res Result
	now := time.Now().UTC()

	for _, p := range f.Products {
		if p.VendorProductID != "" && p.VendorShopID == "" {
			p.VendorShopID = opts.DefaultVendorShopID
			if p.VendorShopID == "" {
				logger.Startup().Warn("Seed product has no vendor shop, options will be unavailable", "productId", p.ID)
			}
		}
		product := &catalog.Product{
			ID:               p.ID,
			Name:             p.Name,
			Description:      p.Description,
			Type:             catalog.ProductType(p.Type),
			Subtype:          p.Subtype,
			Category:         p.Category,
			PriceCents:       p.PriceCents,
			CoverImageURL:    p.CoverImageURL,
			VendorProductID:  p.VendorProductID,
			VendorShopID:     p.VendorShopID,
			DigitalAssetPath: p.DigitalAssetPath,
			IsActive:         active(p.Active),
			CreatedAt:        createdAt(p.CreatedAt, now),
		}
		if err := products.Upsert(ctx, product); err != nil {
			return res, fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
		res.Products++
	}

	for _, c := range f.Content {
		item := &content.Item{
			ID:            c.ID,
			Title:         c.Title,
			Type:          content.MediaType(c.Type),
			Description:   c.Description,
			FileURL:       c.FileURL,
			CoverImageURL: c.CoverImageURL,
			Tags:          trimTags(c.Tags),
			IsActive:      active(c.Active),
			CreatedAt:     createdAt(c.CreatedAt, now),
		}
		if err := items.Upsert(ctx, item); err != nil {
			return res, fmt.Errorf("failed to seed content %s: %w", c.ID, err)
		}
		res.Content++
	}

	logger.Startup().Info("Seed data applied", "products", res.Products, "content", res.Content)
	return res, nil
}

// LoadAndApply is Load followed by Apply. An empty path is a no-op.
func LoadAndApply(ctx context.Context, path string, opts Options, products catalog.ProductRepository, items content.Repository, logger *logging.ChanneledLogger) (Result, error) {
	if path == "" {
		return Result{}, nil
	}
	f, err := Load(path)
	if err != nil {
		return Result{}, err
	}
	return Apply(ctx, f, opts, products, items, logger)
}

func active(v *bool) bool {
	return v == nil || *v
}

func createdAt(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" && !strings.Contains(t, ",") {
			out = append(out, t)
		}
	}
	return out
}
