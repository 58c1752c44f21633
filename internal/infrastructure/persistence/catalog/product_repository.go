// Package catalog provides the SQL-based product repository.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
)

// SQLProductRepository is the SQL-based implementation of the ProductRepository.
type SQLProductRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewSQLProductRepository creates a new instance of the repository.
func NewSQLProductRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLProductRepository {
	return &SQLProductRepository{db: db, logger: logger, now: time.Now}
}

// NewWindow is how long after creation a product is flagged new.
const NewWindow = 14 * 24 * time.Hour

const productColumns = `id, name, description, type, subtype, category, price_cents, cover_image_url,
	vendor_product_id, vendor_shop_id, digital_asset_path, is_active, created_at`

// ListActive returns active products newest first.
func (r *SQLProductRepository) ListActive(ctx context.Context) ([]*catalog.Product, error) {
	return r.list(ctx, 0)
}

// ListLatest returns the newest active products.
func (r *SQLProductRepository) ListLatest(ctx context.Context, limit int) ([]*catalog.Product, error) {
	return r.list(ctx, limit)
}

func (r *SQLProductRepository) list(ctx context.Context, limit int) ([]*catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = 1 ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to list products", "error", err.Error())
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Database().Debug("Products listed", "count", len(products), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return products, nil
}

// FindByID returns one product, or nil when it does not exist.
func (r *SQLProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	p, err := r.scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load product", "error", err.Error(), "id", id)
		return nil, err
	}
	return p, nil
}

// Upsert inserts the product or refreshes every column.
func (r *SQLProductRepository) Upsert(ctx context.Context, p *catalog.Product) error {
	const query = `
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			type = excluded.type,
			subtype = excluded.subtype,
			category = excluded.category,
			price_cents = excluded.price_cents,
			cover_image_url = excluded.cover_image_url,
			vendor_product_id = excluded.vendor_product_id,
			vendor_shop_id = excluded.vendor_shop_id,
			digital_asset_path = excluded.digital_asset_path,
			is_active = excluded.is_active`

	category := p.Category
	if category == "" {
		category = catalog.CategoryFor(p.Type, p.Subtype)
	}

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, string(p.Type), p.Subtype, category, p.PriceCents,
		p.CoverImageURL, p.VendorProductID, p.VendorShopID, p.DigitalAssetPath, p.IsActive,
		database.FormatTime(p.CreatedAt),
	)
	if err != nil {
		r.logger.Database().Error("Product upsert failed", "error", err.Error(), "id", p.ID)
		return err
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLProductRepository) scanProduct(s scanner) (*catalog.Product, error) {
	var (
		p                  catalog.Product
		productType, stamp string
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &productType, &p.Subtype, &p.Category,
		&p.PriceCents, &p.CoverImageURL, &p.VendorProductID, &p.VendorShopID,
		&p.DigitalAssetPath, &p.IsActive, &stamp); err != nil {
		return nil, err
	}

	p.Type = catalog.ProductType(productType)
	if p.Category == "" {
		p.Category = catalog.CategoryFor(p.Type, p.Subtype)
	}
	createdAt, err := database.ParseTime(stamp)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt
	p.IsNew = r.now().Sub(createdAt) <= NewWindow
	if p.CoverImageURL != "" {
		p.Images = []string{p.CoverImageURL}
	}
	return &p, nil
}
