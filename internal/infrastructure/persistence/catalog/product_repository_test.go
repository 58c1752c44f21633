package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLProductRepository(testdb.New(t), logging.NewDiscardLogger())

	now := time.Now()
	require.NoError(t, repo.Upsert(ctx, &catalog.Product{
		ID: "tee", Name: "Tour Tee", Type: catalog.ProductPhysical, PriceCents: 2500,
		CoverImageURL: "/tee.jpg", VendorProductID: "vp1", VendorShopID: "shop",
		IsActive: true, CreatedAt: now.Add(-60 * 24 * time.Hour),
	}))
	require.NoError(t, repo.Upsert(ctx, &catalog.Product{
		ID: "beat", Name: "Night Drive", Type: catalog.ProductDigital, Subtype: "beats",
		PriceCents: 1999, IsActive: true, CreatedAt: now,
	}))
	require.NoError(t, repo.Upsert(ctx, &catalog.Product{
		ID: "retired", Name: "Old Cap", Type: catalog.ProductPhysical, Category: catalog.CategoryAccessories,
		PriceCents: 1000, IsActive: false, CreatedAt: now,
	}))

	all, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "beat", all[0].ID)
	assert.Equal(t, catalog.CategoryBeats, all[0].Category)
	assert.True(t, all[0].IsNew)
	assert.Equal(t, catalog.CategoryClothing, all[1].Category)
	assert.False(t, all[1].IsNew)
	assert.True(t, all[1].HasVendorDetails())
	assert.Equal(t, []string{"/tee.jpg"}, all[1].Images)

	latest, err := repo.ListLatest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "beat", latest[0].ID)

	require.NoError(t, repo.Upsert(ctx, &catalog.Product{
		ID: "beat", Name: "Night Drive (Remaster)", Type: catalog.ProductDigital, Subtype: "beats",
		PriceCents: 2499, IsActive: true, CreatedAt: now,
	}))
	got, err := repo.FindByID(ctx, "beat")
	require.NoError(t, err)
	assert.Equal(t, int64(2499), got.PriceCents)
	assert.Equal(t, "Night Drive (Remaster)", got.Name)

	missing, err := repo.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
