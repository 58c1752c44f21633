package cart

import (
	"fmt"
	"testing"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("line-%d", n)
	})
}

func variantID(id int64) *int64 { return &id }

var (
	beat = catalog.Product{ID: "beat", Name: "Night Drive", Type: catalog.ProductDigital, PriceCents: 1000}
	tee  = catalog.Product{
		ID:         "tee",
		Name:       "Tour Tee",
		Type:       catalog.ProductPhysical,
		PriceCents: 2000,
		Variants: []catalog.Variant{
			{ID: 7, Title: "Red / M", PriceCents: 2200},
		},
	}
)

func TestAddItemMergesEqualKeys(t *testing.T) {
	c := New(sequentialIDs())

	first := c.AddItem(tee, map[string]string{"Size": "M", "Color": "Red"}, variantID(7))
	second := c.AddItem(tee, map[string]string{"Color": "Red", "Size": "M"}, variantID(7))

	assert.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestAddItemNilOptionsEqualEmpty(t *testing.T) {
	c := New(sequentialIDs())
	c.AddItem(beat, nil, nil)
	c.AddItem(beat, map[string]string{}, nil)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.TotalItemCount())
}

func TestAddItemDistinctKeysMakeDistinctLines(t *testing.T) {
	c := New(sequentialIDs())
	c.AddItem(tee, map[string]string{"Size": "M"}, nil)
	c.AddItem(tee, map[string]string{"Size": "L"}, nil)
	c.AddItem(tee, map[string]string{"Size": "M"}, variantID(7))
	c.AddItem(beat, nil, nil)

	lines := c.Lines()
	require.Len(t, lines, 4)
	seen := map[string]bool{}
	for _, l := range lines {
		assert.False(t, seen[l.ID], "duplicate line id %s", l.ID)
		seen[l.ID] = true
	}
}

func TestUpdateQuantity(t *testing.T) {
	c := New(sequentialIDs())
	line := c.AddItem(beat, nil, nil)

	assert.True(t, c.UpdateQuantity(line.ID, 5))
	assert.Equal(t, 5, c.TotalItemCount())

	assert.False(t, c.UpdateQuantity("missing", 3))
	assert.False(t, c.UpdateQuantity("", 3))
	assert.Equal(t, 5, c.TotalItemCount())

	assert.True(t, c.UpdateQuantity(line.ID, 0))
	assert.Equal(t, 0, c.Len())

	line = c.AddItem(beat, nil, nil)
	assert.True(t, c.UpdateQuantity(line.ID, -2))
	assert.Equal(t, 0, c.Len())
}

func TestRemoveItem(t *testing.T) {
	c := New(sequentialIDs())
	a := c.AddItem(beat, nil, nil)
	c.AddItem(tee, nil, nil)

	assert.True(t, c.RemoveItem(a.ID))
	assert.False(t, c.RemoveItem(a.ID))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "tee", c.Lines()[0].Product.ID)
}

func TestTotals(t *testing.T) {
	p1 := catalog.Product{ID: "p1", PriceCents: 10}
	p2 := catalog.Product{ID: "p2", PriceCents: 20}

	c := New(sequentialIDs())
	a := c.AddItem(p1, nil, nil)
	b := c.AddItem(p2, nil, nil)
	c.UpdateQuantity(a.ID, 2)
	c.UpdateQuantity(b.ID, 3)

	assert.Equal(t, 5, c.TotalItemCount())
	assert.Equal(t, int64(80), c.TotalPriceCents())
}

func TestTotalsUseVariantPrice(t *testing.T) {
	c := New(sequentialIDs())
	c.AddItem(tee, nil, variantID(7))
	c.AddItem(tee, nil, variantID(99))

	assert.Equal(t, int64(2200+2000), c.TotalPriceCents())
}

func TestLinesAreCopies(t *testing.T) {
	c := New(sequentialIDs())
	opts := map[string]string{"Size": "M"}
	c.AddItem(tee, opts, nil)
	opts["Size"] = "L"

	lines := c.Lines()
	lines[0].SelectedOptions["Size"] = "XL"
	lines[0].Quantity = 40

	got, ok := c.Line("line-1")
	require.True(t, ok)
	assert.Equal(t, "M", got.SelectedOptions["Size"])
	assert.Equal(t, 1, got.Quantity)
}

func TestSameOptions(t *testing.T) {
	assert.True(t, SameOptions(nil, map[string]string{}))
	assert.True(t, SameOptions(map[string]string{"a": "1", "b": "2"}, map[string]string{"b": "2", "a": "1"}))
	assert.False(t, SameOptions(map[string]string{"a": "1"}, map[string]string{"a": "2"}))
	assert.False(t, SameOptions(map[string]string{"a": "1"}, map[string]string{"b": "1"}))
	assert.False(t, SameOptions(map[string]string{"a": "1"}, nil))
}
