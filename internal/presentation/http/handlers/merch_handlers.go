package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/fanhub-go/internal/application/services"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// MerchHandlers serves the merch catalog and variant resolution
type MerchHandlers struct {
	catalogService *services.CatalogService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewMerchHandlers creates merch handlers with injected dependencies
func NewMerchHandlers(catalogService *services.CatalogService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *MerchHandlers {
	return &MerchHandlers{catalogService: catalogService, logger: logger, perfTracker: perfTracker}
}

// GetProducts handles GET /api/v1/merch/products?category=&sort=
func (h *MerchHandlers) GetProducts(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_products_request")
	defer marker.Complete()

	category := c.DefaultQuery("category", "all")
	order := c.DefaultQuery("sort", catalog.SortAlphabetical)
	products, err := h.catalogService.ListProducts(c.Request.Context(), category, order)
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommerce, marker, "list_products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProduct handles GET /api/v1/merch/products/:id. A vendor outage still
// returns the page with detailsLoaded=false.
func (h *MerchHandlers) GetProduct(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_product_request")
	defer marker.Complete()

	detail, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommerce, marker, "get_product", err)
		return
	}

	marker.AddMetadata("detailsLoaded", detail.DetailsLoaded)
	c.JSON(http.StatusOK, detail)
}

// PostResolve handles POST /api/v1/merch/products/:id/resolve
func (h *MerchHandlers) PostResolve(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "resolve_variant_request")
	defer marker.Complete()

	var req struct {
		SelectedOptions map[string]string `json:"selectedOptions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, marker, err)
		return
	}

	result, err := h.catalogService.ResolveSelection(c.Request.Context(), c.Param("id"), req.SelectedOptions)
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommerce, marker, "resolve_variant", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
