package handlers

import (
	"net/http"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/application/services"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService  *services.AuthService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
	secureCookie bool
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, secureCookie bool) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		logger:       logger,
		perfTracker:  perfTracker,
		secureCookie: secureCookie,
	}
}

// PostSignUp handles POST /api/v1/auth/signup
func (h *AuthHandlers) PostSignUp(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "post_signup_request")
	defer marker.Complete()

	var req struct {
		Email           string `json:"email" binding:"required"`
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, marker, err)
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(c, h.logger, logging.ChannelAuth, marker, "signup", err)
		return
	}

	h.setSessionCookie(c, result)
	c.JSON(http.StatusCreated, result)
}

// PostSignIn handles POST /api/v1/auth/signin
func (h *AuthHandlers) PostSignIn(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "post_signin_request")
	defer marker.Complete()

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, marker, err)
		return
	}

	result, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, logging.ChannelAuth, marker, "signin", err)
		return
	}

	h.setSessionCookie(c, result)
	c.JSON(http.StatusOK, result)
}

// PostSignOut handles POST /api/v1/auth/signout - revokes the session and
// clears the cookie
func (h *AuthHandlers) PostSignOut(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "post_signout_request")
	defer marker.Complete()

	if err := h.authService.SignOut(c.Request.Context(), middleware.GetSessionToken(c)); err != nil {
		writeError(c, h.logger, logging.ChannelAuth, marker, "signout", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSession handles GET /api/v1/auth/session
func (h *AuthHandlers) GetSession(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_session_request")
	defer marker.Complete()

	profile, _ := middleware.GetProfile(c)
	c.JSON(http.StatusOK, gin.H{
		"profile":         profile,
		"needsOnboarding": profile.NeedsOnboarding(),
	})
}

// PutOnboarding handles PUT /api/v1/auth/onboarding - sets the display name
func (h *AuthHandlers) PutOnboarding(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "put_onboarding_request")
	defer marker.Complete()

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, marker, err)
		return
	}

	profile, _ := middleware.GetProfile(c)
	updated, err := h.authService.CompleteOnboarding(c.Request.Context(), profile.ID, req.Name)
	if err != nil {
		writeError(c, h.logger, logging.ChannelAuth, marker, "onboarding", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": updated, "needsOnboarding": false})
}

func (h *AuthHandlers) setSessionCookie(c *gin.Context, result *services.AuthResult) {
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, result.Token, maxAge, "/", "", h.secureCookie, true)
}
