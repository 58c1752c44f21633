package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
	"github.com/gin-gonic/gin"
)

// SystemHandlers serves health and the admin operations endpoints
type SystemHandlers struct {
	db          *database.DB
	hub         messaging.Publisher
	cleaner     *cleanup.Worker
	reporter    *cleanup.Reporter
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSystemHandlers creates system handlers with injected dependencies
func NewSystemHandlers(db *database.DB, hub messaging.Publisher, cleaner *cleanup.Worker, reporter *cleanup.Reporter, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SystemHandlers {
	return &SystemHandlers{
		db:          db,
		hub:         hub,
		cleaner:     cleaner,
		reporter:    reporter,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetHealth handles GET /health
func (h *SystemHandlers) GetHealth(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "health_check")
	defer marker.Complete()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.VerifyConnection(ctx, h.logger); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": h.db.ConnectionInfo()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"database":    h.db.ConnectionInfo(),
		"feedClients": h.hub.ClientCount(),
	})
}

// GetLogLevels handles GET /api/v1/admin/logs/levels - current level per channel
func (h *SystemHandlers) GetLogLevels(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_log_levels_request")
	defer marker.Complete()

	c.JSON(http.StatusOK, h.logger.GetChannelLevels())
}

// PutLogLevel handles PUT /api/v1/admin/logs/levels - sets one channel's level
func (h *SystemHandlers) PutLogLevel(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "set_log_level_request")
	defer marker.Complete()

	var req struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, marker, err)
		return
	}

	switch strings.ToUpper(req.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log level specified"})
		return
	}

	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), logging.ParseLevel(req.Level)); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.System().Info("Log level changed", "channel", req.Channel, "level", strings.ToUpper(req.Level))
	c.JSON(http.StatusOK, gin.H{"success": true, "channel": req.Channel, "level": strings.ToUpper(req.Level)})
}

// GetPerformance handles GET /api/v1/admin/performance
func (h *SystemHandlers) GetPerformance(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "get_performance_request")
	defer marker.Complete()

	c.JSON(http.StatusOK, gin.H{
		"overall":    h.perfTracker.GetOverallStats(),
		"operations": h.perfTracker.Stats(),
	})
}

// PostCleanup handles POST /api/v1/admin/cleanup - runs one expiry sweep now
func (h *SystemHandlers) PostCleanup(c *gin.Context) {
	marker := h.perfTracker.StartOperationWithContext(c.Request.Context(), "run_cleanup_request")
	defer marker.Complete()

	result := h.cleaner.RunOnce(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"report": h.reporter.GenerateReport(),
	})
}
