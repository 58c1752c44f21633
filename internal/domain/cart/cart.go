// Package cart holds the in-memory shopping cart: distinct purchasable lines
// keyed by product, selected options and vendor variant.
package cart

import (
	"sort"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/oklog/ulid/v2"
)

// Line is one distinct purchasable combination in the cart.
type Line struct {
	ID              string            `json:"id"`
	Product         catalog.Product   `json:"product"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
	VariantID       *int64            `json:"variantId,omitempty"`
}

// UnitPriceCents is the variant's price when the line's variant id resolves
// against the product's variants, otherwise the base product price.
func (l *Line) UnitPriceCents() int64 {
	if l.VariantID != nil {
		if v, ok := l.Product.VariantByID(*l.VariantID); ok {
			return v.PriceCents
		}
	}
	return l.Product.PriceCents
}

// SubtotalCents is the unit price times quantity.
func (l *Line) SubtotalCents() int64 {
	return l.UnitPriceCents() * int64(l.Quantity)
}

// Cart is owned by a single writer; it does no locking of its own.
type Cart struct {
	lines     []*Line
	newID     func() string
	UpdatedAt time.Time
}

// Option configures a Cart.
type Option func(*Cart)

// WithIDGenerator replaces the ULID line id generator.
func WithIDGenerator(gen func() string) Option {
	return func(c *Cart) { c.newID = gen }
}

// New creates an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{
		newID:     func() string { return ulid.Make().String() },
		UpdatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddItem increments the line whose (product id, options, variant id) key is
// structurally equal, or appends a new line with quantity 1. It returns the
// affected line.
func (c *Cart) AddItem(product catalog.Product, selectedOptions map[string]string, variantID *int64) *Line {
	defer c.touch()

	for _, line := range c.lines {
		if line.Product.ID == product.ID &&
			SameOptions(line.SelectedOptions, selectedOptions) &&
			sameVariant(line.VariantID, variantID) {
			line.Quantity++
			return line
		}
	}

	line := &Line{
		ID:              c.newID(),
		Product:         product,
		Quantity:        1,
		SelectedOptions: copyOptions(selectedOptions),
		VariantID:       copyVariant(variantID),
	}
	c.lines = append(c.lines, line)
	return line
}

// UpdateQuantity sets a line's quantity. Zero or negative removes the line;
// an unknown id is a no-op. It reports whether a line was found.
func (c *Cart) UpdateQuantity(lineID string, quantity int) bool {
	idx := c.indexOf(lineID)
	if idx < 0 {
		return false
	}
	defer c.touch()
	if quantity <= 0 {
		c.removeAt(idx)
		return true
	}
	c.lines[idx].Quantity = quantity
	return true
}

// RemoveItem deletes a line. It reports whether a line was removed.
func (c *Cart) RemoveItem(lineID string) bool {
	idx := c.indexOf(lineID)
	if idx < 0 {
		return false
	}
	c.removeAt(idx)
	c.touch()
	return true
}

// TotalItemCount sums the quantities of every line.
func (c *Cart) TotalItemCount() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalPriceCents sums unit price times quantity over every line.
func (c *Cart) TotalPriceCents() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.SubtotalCents()
	}
	return total
}

// Lines returns copies of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		cp := *line
		cp.SelectedOptions = copyOptions(line.SelectedOptions)
		cp.VariantID = copyVariant(line.VariantID)
		out = append(out, cp)
	}
	return out
}

// Line returns a copy of one line.
func (c *Cart) Line(lineID string) (Line, bool) {
	idx := c.indexOf(lineID)
	if idx < 0 {
		return Line{}, false
	}
	return c.Lines()[idx], true
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) indexOf(lineID string) int {
	if lineID == "" {
		return -1
	}
	for i, line := range c.lines {
		if line.ID == lineID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}

// SameOptions compares two option maps in canonical form: keys sorted and
// compared value by value. A nil map equals an empty one.
func SameOptions(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	ak, bk := sortedKeys(a), sortedKeys(b)
	for i := range ak {
		if ak[i] != bk[i] || a[ak[i]] != b[bk[i]] {
			return false
		}
	}
	return true
}

func sameVariant(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyOptions(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyVariant(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
