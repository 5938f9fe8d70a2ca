package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studio-one/portfolio-api/internal/application/services"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/performance"
	"github.com/studio-one/portfolio-api/internal/presentation/http/middleware"
)

// MetricsCollector produces the storage usage summary.
type MetricsCollector interface {
	Collect(ctx context.Context) *services.StorageMetrics
}

// StorageHandlers serves storage usage for the dashboard
type StorageHandlers struct {
	metricsService MetricsCollector
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewStorageHandlers creates storage handlers with injected dependencies
func NewStorageHandlers(metricsService MetricsCollector, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *StorageHandlers {
	return &StorageHandlers{
		metricsService: metricsService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetStorageMetrics handles GET /api/v1/admin/storage-metrics. Partial data
// is still a 200; the labels say what was cut short.
func (h *StorageHandlers) GetStorageMetrics(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_storage_metrics_request", identity.ID)
	defer marker.Complete()

	metrics := h.metricsService.Collect(c.Request.Context())
	marker.AddMetadata("partial", metrics.Partial)

	h.logger.Perf().Info("Performance for GetStorageMetrics request", "duration", time.Since(start), "partial", metrics.Partial)
	c.JSON(http.StatusOK, metrics)
}
