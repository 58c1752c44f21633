package services

import (
	"context"
	"errors"
	"testing"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/metrics"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDigitalItemMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProduct(beatPack())

	snap, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: "beats"})
	require.NoError(t, err)
	snap, err = f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: "beats", SelectedOptions: map[string]string{}})
	require.NoError(t, err)

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, 2, snap.TotalItems)
	assert.Equal(t, int64(3000), snap.TotalPriceCents)
	assert.Zero(t, f.vendor.calls)

	// carts are per member
	assert.Empty(t, f.cart.View("u2").Lines)
}

func TestAddVendorItemNeedsCompleteSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProduct(tee())

	_, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: "tee"})
	assert.ErrorIs(t, err, ErrVariantRequired)

	_, err = f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: "tee", SelectedOptions: map[string]string{"Size": "M"}})
	assert.ErrorIs(t, err, ErrVariantRequired)
	assert.Empty(t, f.cart.View("u1").Lines)

	snap, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: "tee", SelectedOptions: map[string]string{"Size": "M", "Color": "Black"}})
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	line := snap.Lines[0]
	require.NotNil(t, line.VariantID)
	assert.Equal(t, int64(101), *line.VariantID)
	assert.Equal(t, int64(2700), line.UnitPriceCents())
	assert.Equal(t, int64(2700), snap.TotalPriceCents)

	snap, err = f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: "tee", SelectedOptions: map[string]string{"Size": "S", "Color": "Black"}})
	require.NoError(t, err)
	assert.Len(t, snap.Lines, 2)
	assert.Equal(t, int64(5200), snap.TotalPriceCents)
}

func TestAddVendorItemDuringOutage(t *testing.T) {
	f := newFixture(t)
	f.addProduct(tee())
	f.vendor.err = errors.New("503 from vendor")

	_, err := f.cart.AddItem(context.Background(), "u1", AddItemInput{ProductID: "tee", SelectedOptions: map[string]string{"Size": "M", "Color": "Black"}})
	assert.ErrorIs(t, err, ErrVendorUnavailable)
	assert.NotErrorIs(t, err, ErrVariantRequired)
	assert.Empty(t, f.cart.View("u1").Lines)
}

func TestAddUnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.cart.AddItem(context.Background(), "u1", AddItemInput{ProductID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRemoveAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProduct(beatPack())

	snap, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: "beats"})
	require.NoError(t, err)
	lineID := snap.Lines[0].ID

	snap, err = f.cart.UpdateQuantity("u1", lineID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.TotalItems)
	assert.Equal(t, int64(6000), snap.TotalPriceCents)

	snap, err = f.cart.UpdateQuantity("u1", "unknown", 9)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.TotalItems)

	snap, err = f.cart.RemoveItem("u1", "unknown")
	require.NoError(t, err)
	assert.Len(t, snap.Lines, 1)

	snap, err = f.cart.UpdateQuantity("u1", lineID, 0)
	require.NoError(t, err)
	assert.Empty(t, snap.Lines)

	_, err = f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: "beats"})
	require.NoError(t, err)
	f.cart.Clear("u1")
	assert.Empty(t, f.cart.View("u1").Lines)
	assert.Zero(t, f.cart.View("u1").TotalPriceCents)
}

func cartMutations(t *testing.T, op string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.CartMutations.WithLabelValues(op).Write(&m))
	return m.GetCounter().GetValue()
}

func TestUnknownLinesAreNotCounted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addProduct(beatPack())

	updates, removes := cartMutations(t, "update"), cartMutations(t, "remove")

	_, err := f.cart.UpdateQuantity("nobody", "missing", 3)
	require.NoError(t, err)
	_, err = f.cart.RemoveItem("nobody", "missing")
	require.NoError(t, err)
	assert.Equal(t, updates, cartMutations(t, "update"))
	assert.Equal(t, removes, cartMutations(t, "remove"))

	snap, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: "beats"})
	require.NoError(t, err)
	_, err = f.cart.UpdateQuantity("u1", snap.Lines[0].ID, 2)
	require.NoError(t, err)
	_, err = f.cart.RemoveItem("u1", snap.Lines[0].ID)
	require.NoError(t, err)
	assert.Equal(t, updates+1, cartMutations(t, "update"))
	assert.Equal(t, removes+1, cartMutations(t, "remove"))
}
