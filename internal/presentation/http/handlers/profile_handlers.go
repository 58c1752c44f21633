package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/fanhub-go/internal/application/services"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProfileHandlers serves the member's profile and fan level
type ProfileHandlers struct {
	profileService *services.ProfileService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewProfileHandlers creates profile handlers with injected dependencies
func NewProfileHandlers(profileService *services.ProfileService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ProfileHandlers {
	return &ProfileHandlers{profileService: profileService, logger: logger, perfTracker: perfTracker}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandlers) GetProfile(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_profile_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	view, err := h.profileService.GetProfile(c.Request.Context(), profile.ID)
	if err != nil {
		writeError(c, h.logger, logging.ChannelAuth, marker, "get_profile", err)
		return
	}

	marker.AddMetadata("fanLevel", view.Engagement.FanLevel)
	c.JSON(http.StatusOK, view)
}

// PostAvatar handles POST /api/v1/profile/avatar with a base64 data URL body
func (h *ProfileHandlers) PostAvatar(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "post_avatar_request")
	defer marker.Complete()

	var req struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, marker, err)
		return
	}

	profile, _ := middleware.GetProfile(c)
	updated, err := h.profileService.UploadAvatar(c.Request.Context(), profile.ID, req.Image)
	if err != nil {
		writeError(c, h.logger, logging.ChannelAuth, marker, "upload_avatar", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": updated})
}
