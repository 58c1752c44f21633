package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/fanhub-go/internal/application/services"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// ContentHandlers serves the media library
type ContentHandlers struct {
	contentService *services.ContentService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewContentHandlers creates content handlers with injected dependencies
func NewContentHandlers(contentService *services.ContentService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ContentHandlers {
	return &ContentHandlers{contentService: contentService, logger: logger, perfTracker: perfTracker}
}

// GetContent handles GET /api/v1/content?category=
func (h *ContentHandlers) GetContent(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_content_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	category := c.DefaultQuery("category", "all")
	cards, err := h.contentService.List(c.Request.Context(), profile.ID, category)
	if err != nil {
		writeError(c, h.logger, logging.ChannelContent, marker, "list_content", err)
		return
	}

	h.logger.Content().Debug("Content listed", "category", category, "count", len(cards))
	c.JSON(http.StatusOK, gin.H{"content": cards, "count": len(cards)})
}

// GetFeatured handles GET /api/v1/content/featured
func (h *ContentHandlers) GetFeatured(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_featured_content_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	featured, err := h.contentService.Featured(c.Request.Context(), profile.ID)
	if err != nil {
		writeError(c, h.logger, logging.ChannelContent, marker, "featured_content", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"featured": featured})
}

// PostLike handles POST /api/v1/content/:id/like - toggles the like
func (h *ContentHandlers) PostLike(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "post_content_like_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	result, err := h.contentService.ToggleLike(c.Request.Context(), profile.ID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, logging.ChannelContent, marker, "toggle_content_like", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
