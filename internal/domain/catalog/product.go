// Package catalog defines merchandise products, the print-on-demand vendor
// detail shapes, and the resolution of user option selections to variants.
package catalog

import (
	"context"
	"time"
)

// ProductType distinguishes shippable merchandise from downloads.
type ProductType string

const (
	ProductPhysical ProductType = "physical"
	ProductDigital  ProductType = "digital"
)

// Category values used by the merch listing filter.
const (
	CategoryClothing    = "clothing"
	CategoryAccessories = "accessories"
	CategoryBeats       = "beats"
	CategoryLimited     = "limited"
)

// Product is a catalog item. Prices are in minor currency units.
type Product struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Type             ProductType `json:"type"`
	Subtype          string      `json:"subtype,omitempty"`
	Category         string      `json:"category"`
	PriceCents       int64       `json:"priceCents"`
	CoverImageURL    string      `json:"coverImageUrl,omitempty"`
	Images           []string    `json:"images"`
	VendorProductID  string      `json:"vendorProductId,omitempty"`
	VendorShopID     string      `json:"vendorShopId,omitempty"`
	DigitalAssetPath string      `json:"-"`
	IsActive         bool        `json:"isActive"`
	IsNew            bool        `json:"isNew"`
	CreatedAt        time.Time   `json:"createdAt"`

	// Options and Variants are copied in from vendor details when known.
	Options  []Option  `json:"options,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
}

// HasVendorDetails reports whether the product is sourced from the
// print-on-demand vendor and needs variant details before purchase.
func (p *Product) HasVendorDetails() bool {
	return p.Type == ProductPhysical && p.VendorProductID != "" && p.VendorShopID != ""
}

// VariantByID finds a variant on the product.
func (p *Product) VariantByID(id int64) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// WithVendorDetails returns a copy of the product carrying the vendor's
// options and variants.
func (p Product) WithVendorDetails(d *VendorDetails) Product {
	if d == nil {
		return p
	}
	p.Options = append([]Option(nil), d.Options...)
	p.Variants = append([]Variant(nil), d.Variants...)
	return p
}

// OptionValue is one selectable label of an option with its vendor id.
type OptionValue struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Option is a named option category such as Size or Color.
type Option struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Values []OptionValue `json:"values"`
}

// Variant is one purchasable SKU, identified by the set of option value ids
// it represents. Price is in minor currency units.
type Variant struct {
	ID          int64   `json:"id"`
	SKU         string  `json:"sku"`
	Title       string  `json:"title"`
	PriceCents  int64   `json:"price"`
	CostCents   int64   `json:"cost"`
	Grams       int     `json:"grams"`
	IsEnabled   bool    `json:"is_enabled"`
	IsDefault   bool    `json:"is_default"`
	IsAvailable bool    `json:"is_available"`
	OptionIDs   []int64 `json:"options"`
}

// Image is a vendor mockup image tied to a set of variants.
type Image struct {
	Src        string  `json:"src"`
	VariantIDs []int64 `json:"variant_ids"`
	Position   string  `json:"position"`
	IsDefault  bool    `json:"is_default"`
}

// VendorDetails is the vendor's product detail payload.
type VendorDetails struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Options     []Option  `json:"options"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
}

// DefaultImage returns the vendor's default image, else the first one.
func (d *VendorDetails) DefaultImage() (string, bool) {
	if d == nil || len(d.Images) == 0 {
		return "", false
	}
	for _, img := range d.Images {
		if img.IsDefault {
			return img.Src, true
		}
	}
	return d.Images[0].Src, true
}

// ImagesForVariant returns the images tagged with the variant. When the
// variant is nil or has no tagged images, every image is returned.
func (d *VendorDetails) ImagesForVariant(v *Variant) []string {
	if d == nil {
		return nil
	}
	var tagged, all []string
	for _, img := range d.Images {
		all = append(all, img.Src)
		if v == nil {
			continue
		}
		for _, id := range img.VariantIDs {
			if id == v.ID {
				tagged = append(tagged, img.Src)
				break
			}
		}
	}
	if len(tagged) > 0 {
		return tagged
	}
	return all
}

// DefaultSelection picks the first value of every option, which is how the
// product page is initialised.
func (d *VendorDetails) DefaultSelection() map[string]string {
	selection := make(map[string]string)
	if d == nil {
		return selection
	}
	for _, opt := range d.Options {
		if len(opt.Values) > 0 {
			selection[opt.Name] = opt.Values[0].Title
		}
	}
	return selection
}

// ProductRepository defines persistence for catalog products.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]*Product, error)
	ListLatest(ctx context.Context, limit int) ([]*Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	Upsert(ctx context.Context, product *Product) error
}

// VendorCatalog fetches variant details from the print-on-demand vendor.
type VendorCatalog interface {
	GetProductDetails(ctx context.Context, shopID, productID string) (*VendorDetails, error)
}
