package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/fanhub-go/internal/application/services"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// HomeHandlers serves the landing page feed
type HomeHandlers struct {
	homeService *services.HomeService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewHomeHandlers creates home handlers with injected dependencies
func NewHomeHandlers(homeService *services.HomeService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *HomeHandlers {
	return &HomeHandlers{homeService: homeService, logger: logger, perfTracker: perfTracker}
}

// GetHome handles GET /api/v1/home
func (h *HomeHandlers) GetHome(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_home_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	feed, err := h.homeService.Get(c.Request.Context(), profile)
	if err != nil {
		writeError(c, h.logger, logging.ChannelContent, marker, "get_home", err)
		return
	}

	c.JSON(http.StatusOK, feed)
}
