package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/fanhub-go/internal/application/services"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/cart"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// CartHandlers serves the member's server-side cart
type CartHandlers struct {
	cartService *services.CartService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewCartHandlers creates cart handlers with injected dependencies
func NewCartHandlers(cartService *services.CartService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CartHandlers {
	return &CartHandlers{cartService: cartService, logger: logger, perfTracker: perfTracker}
}

type cartLineResponse struct {
	cart.Line
	UnitPriceCents int64 `json:"unitPriceCents"`
	SubtotalCents  int64 `json:"subtotalCents"`
}

type cartResponse struct {
	Lines           []cartLineResponse `json:"lines"`
	TotalItems      int                `json:"totalItems"`
	TotalPriceCents int64              `json:"totalPriceCents"`
}

func toCartResponse(snap interfaces.CartSnapshot) cartResponse {
	resp := cartResponse{
		Lines:           make([]cartLineResponse, len(snap.Lines)),
		TotalItems:      snap.TotalItems,
		TotalPriceCents: snap.TotalPriceCents,
	}
	for i := range snap.Lines {
		line := snap.Lines[i]
		resp.Lines[i] = cartLineResponse{
			Line:           line,
			UnitPriceCents: line.UnitPriceCents(),
			SubtotalCents:  line.SubtotalCents(),
		}
	}
	return resp
}

// GetCart handles GET /api/v1/cart
func (h *CartHandlers) GetCart(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_cart_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	c.JSON(http.StatusOK, toCartResponse(h.cartService.View(profile.ID)))
}

// PostItem handles POST /api/v1/cart/items. Incomplete selections answer
// 422; a vendor outage answers 503.
func (h *CartHandlers) PostItem(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "add_cart_item_request")
	defer marker.Complete()

	var req services.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, marker, err)
		return
	}
	if req.ProductID == "" {
		writeError(c, h.logger, logging.ChannelCommerce, marker, "add_cart_item", services.ErrInvalidInput)
		return
	}

	profile, _ := middleware.GetProfile(c)
	snap, err := h.cartService.AddItem(c.Request.Context(), profile.ID, req)
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommerce, marker, "add_cart_item", err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(snap))
}

// PatchItem handles PATCH /api/v1/cart/items/:lineId - quantity <= 0 removes
func (h *CartHandlers) PatchItem(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "update_cart_item_request")
	defer marker.Complete()

	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, marker, err)
		return
	}

	profile, _ := middleware.GetProfile(c)
	snap, err := h.cartService.UpdateQuantity(profile.ID, c.Param("lineId"), *req.Quantity)
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommerce, marker, "update_cart_item", err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(snap))
}

// DeleteItem handles DELETE /api/v1/cart/items/:lineId
func (h *CartHandlers) DeleteItem(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "remove_cart_item_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	snap, err := h.cartService.RemoveItem(profile.ID, c.Param("lineId"))
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommerce, marker, "remove_cart_item", err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(snap))
}

// DeleteCart handles DELETE /api/v1/cart
func (h *CartHandlers) DeleteCart(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "clear_cart_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	h.cartService.Clear(profile.ID)
	c.JSON(http.StatusOK, toCartResponse(h.cartService.View(profile.ID)))
}
