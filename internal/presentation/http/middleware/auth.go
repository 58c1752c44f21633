package middleware

import (
	"net/http"
	"strings"

	"github.com/AtRiskMedia/fanhub-go/internal/application/services"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/user"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "fanhub_session"

const (
	profileKey = "profile"
	tokenKey   = "sessionToken"
)

// SessionToken extracts the bearer token, falling back to the session cookie.
func SessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// RequireSession rejects requests without a live session and stores the
// member's profile on the context.
func RequireSession(auth *services.AuthService, logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		profile, err := auth.CurrentProfile(c.Request.Context(), token)
		if err != nil || profile == nil {
			logger.Auth().Debug("Session rejected", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(profileKey, profile)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := GetProfile(c)
		if !ok || profile.Role != user.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// GetProfile retrieves the signed-in member from the gin context.
func GetProfile(c *gin.Context) (*user.Profile, bool) {
	value, exists := c.Get(profileKey)
	if !exists {
		return nil, false
	}
	profile, ok := value.(*user.Profile)
	return profile, ok
}

// GetSessionToken returns the token RequireSession accepted.
func GetSessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
