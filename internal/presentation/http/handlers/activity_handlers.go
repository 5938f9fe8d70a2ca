package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studio-one/portfolio-api/internal/domain/activity"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/performance"
	"github.com/studio-one/portfolio-api/internal/presentation/http/middleware"
)

const defaultActivityLimit = 50

// ActivityFeed lists and clears the admin activity log.
type ActivityFeed interface {
	List(ctx context.Context, limit int) ([]*activity.Entry, error)
	Clear(ctx context.Context, actorID string) (int64, error)
}

// ActivityHandlers serves the admin activity log
type ActivityHandlers struct {
	activityService ActivityFeed
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewActivityHandlers creates activity handlers with injected dependencies
func NewActivityHandlers(activityService ActivityFeed, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ActivityHandlers {
	return &ActivityHandlers{
		activityService: activityService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// GetActivity handles GET /api/v1/admin/activity?limit=N
func (h *ActivityHandlers) GetActivity(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	marker := h.perfTracker.StartOperation("get_activity_request", identity.ID)
	defer marker.Complete()

	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := h.activityService.List(c.Request.Context(), limit)
	if err != nil {
		marker.SetError(err)
		h.logger.Audit().Error("Activity list request failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// DeleteActivity handles DELETE /api/v1/admin/activity
func (h *ActivityHandlers) DeleteActivity(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	start := time.Now()
	marker := h.perfTracker.StartOperation("clear_activity_request", identity.ID)
	defer marker.Complete()

	removed, err := h.activityService.Clear(c.Request.Context(), identity.ID)
	if err != nil {
		marker.SetError(err)
		h.logger.Audit().Error("Activity clear request failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Perf().Info("Performance for DeleteActivity request", "duration", time.Since(start), "entriesRemoved", removed)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"entriesRemoved": removed,
		"message":        "Activity log cleared.",
	})
}
