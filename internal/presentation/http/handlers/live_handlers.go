package handlers

import (
	"net/http"
	"net/url"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// LiveHandlers upgrades members onto the community live feed
type LiveHandlers struct {
	hub         *messaging.FeedHub
	upgrader    websocket.Upgrader
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewLiveHandlers creates the websocket handler. Browsers must connect from
// one of origins; requests without an Origin header are accepted.
func NewLiveHandlers(hub *messaging.FeedHub, origins []string, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *LiveHandlers {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &LiveHandlers{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if allowed[origin] {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetLive handles GET /api/v1/community/live. It blocks for the life of the
// connection.
func (h *LiveHandlers) GetLive(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "community_live_upgrade")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		marker.SetError(err)
		marker.Complete()
		h.logger.Community().Warn("Websocket upgrade failed", "error", err)
		return
	}
	marker.Complete()

	profile, _ := middleware.GetProfile(c)
	h.logger.Community().Info("Live feed client connected", "userId", profile.ID, "clients", h.hub.ClientCount()+1)
	h.hub.Serve(messaging.NewClient(conn, profile.ID))
	h.logger.Community().Debug("Live feed client disconnected", "userId", profile.ID)
}
