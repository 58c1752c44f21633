package handlers

import (
	"net/http"
	"strconv"

	"github.com/AtRiskMedia/fanhub-go/internal/application/services"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// CommunityHandlers serves the member feed
type CommunityHandlers struct {
	communityService *services.CommunityService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewCommunityHandlers creates community handlers with injected dependencies
func NewCommunityHandlers(communityService *services.CommunityService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CommunityHandlers {
	return &CommunityHandlers{communityService: communityService, logger: logger, perfTracker: perfTracker}
}

// GetPosts handles GET /api/v1/community/posts?limit=
func (h *CommunityHandlers) GetPosts(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_posts_request")
	defer marker.Complete()

	limit, _ := strconv.Atoi(c.Query("limit"))
	profile, _ := middleware.GetProfile(c)
	posts, err := h.communityService.ListPosts(c.Request.Context(), profile, limit)
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommunity, marker, "list_posts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// PostPost handles POST /api/v1/community/posts
func (h *CommunityHandlers) PostPost(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "create_post_request")
	defer marker.Complete()

	var req services.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, marker, err)
		return
	}

	profile, _ := middleware.GetProfile(c)
	post, err := h.communityService.CreatePost(c.Request.Context(), profile, req)
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommunity, marker, "create_post", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// DeletePost handles DELETE /api/v1/community/posts/:id
func (h *CommunityHandlers) DeletePost(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "delete_post_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	if err := h.communityService.DeletePost(c.Request.Context(), profile, c.Param("id")); err != nil {
		writeError(c, h.logger, logging.ChannelCommunity, marker, "delete_post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostLike handles POST /api/v1/community/posts/:id/like - toggles the like
func (h *CommunityHandlers) PostLike(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "post_like_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	result, err := h.communityService.ToggleLike(c.Request.Context(), profile.ID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommunity, marker, "toggle_post_like", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetComments handles GET /api/v1/community/posts/:id/comments
func (h *CommunityHandlers) GetComments(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_comments_request")
	defer marker.Complete()

	comments, err := h.communityService.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommunity, marker, "list_comments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments, "count": len(comments)})
}

// PostComment handles POST /api/v1/community/posts/:id/comments
func (h *CommunityHandlers) PostComment(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "create_comment_request")
	defer marker.Complete()

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, marker, err)
		return
	}

	profile, _ := middleware.GetProfile(c)
	comment, err := h.communityService.AddComment(c.Request.Context(), profile, c.Param("id"), req.Content)
	if err != nil {
		writeError(c, h.logger, logging.ChannelCommunity, marker, "create_comment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
