package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/performance"
)

// DatabaseProbe reports whether the database answers and how it is pooled.
type DatabaseProbe interface {
	Ping(ctx context.Context) error
	ConnectionInfo() string
	PoolInfo() map[string]any
}

// SystemHandlers serves health, log level and timing endpoints
type SystemHandlers struct {
	db          DatabaseProbe
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSystemHandlers creates system handlers with injected dependencies
func NewSystemHandlers(db DatabaseProbe, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SystemHandlers {
	return &SystemHandlers{
		db:          db,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetHealth handles GET /api/v1/health
func (h *SystemHandlers) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.System().Error("Health check database ping failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "degraded",
			"database": "unreachable",
			"backend":  h.db.ConnectionInfo(),
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"database":     "ok",
		"backend":      h.db.ConnectionInfo(),
		"pool":         h.db.PoolInfo(),
		"responseTime": time.Since(start).String(),
		"uptime":       h.perfTracker.Uptime().Round(time.Second).String(),
	})
}

// GetLogLevels handles GET /api/v1/admin/system/logs/levels
func (h *SystemHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, h.logger.GetChannelLevels())
}

// SetLogLevel handles POST /api/v1/admin/system/logs/levels
func (h *SystemHandlers) SetLogLevel(c *gin.Context) {
	var req struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	switch strings.ToUpper(req.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log level specified"})
		return
	}

	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), logging.ParseLevel(req.Level)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to set log level", "details": err.Error()})
		return
	}
	h.logger.System().Info("Log level changed", "channel", req.Channel, "level", req.Level)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": fmt.Sprintf("Log level for channel '%s' set to '%s'", req.Channel, req.Level)})
}

// GetPerformance handles GET /api/v1/admin/system/performance?limit=N
func (h *SystemHandlers) GetPerformance(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"uptime":     h.perfTracker.Uptime().Round(time.Second).String(),
		"operations": h.perfTracker.Recent(limit),
	})
}
