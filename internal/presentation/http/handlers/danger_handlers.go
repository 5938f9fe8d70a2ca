// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studio-one/portfolio-api/internal/application/services"
	"github.com/studio-one/portfolio-api/internal/domain/deletion"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/performance"
	"github.com/studio-one/portfolio-api/internal/presentation/http/middleware"
)

// DeletionRunner is the danger zone orchestrator as seen by HTTP.
type DeletionRunner interface {
	Execute(ctx context.Context, req services.DeletionRequest) (*deletion.Report, error)
	Sections() []deletion.Plan
	Aliases() map[string]string
}

// DangerZoneHandlers serves the bulk deletion endpoints
type DangerZoneHandlers struct {
	deletionService DeletionRunner
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewDangerZoneHandlers creates danger zone handlers with injected dependencies
func NewDangerZoneHandlers(deletionService DeletionRunner, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DangerZoneHandlers {
	return &DangerZoneHandlers{
		deletionService: deletionService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// DeleteRequest is the body of POST /api/v1/admin/danger/delete.
type DeleteRequest struct {
	SectionKeys []string `json:"sectionKeys"`
}

// PostDelete handles POST /api/v1/admin/danger/delete
func (h *DangerZoneHandlers) PostDelete(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	start := time.Now()
	marker := h.perfTracker.StartOperation("danger_delete_request", identity.ID)
	defer marker.Complete()
	h.logger.Deletion().Debug("Received danger zone delete request", "method", c.Request.Method, "path", c.Request.URL.Path, "requestId", middleware.GetRequestID(c))

	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		h.logger.Deletion().Warn("Danger zone request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: sectionKeys must be an array of strings"})
		return
	}
	marker.AddMetadata("sectionKeys", req.SectionKeys)

	report, err := h.deletionService.Execute(c.Request.Context(), services.DeletionRequest{
		SectionKeys: req.SectionKeys,
		Actor:       identity,
	})
	if err != nil {
		marker.SetError(err)
		status := deletionErrorStatus(err)
		h.logger.Deletion().Warn("Danger zone request failed", "status", status, "error", err.Error(), "duration", time.Since(start))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if !report.Success {
		status = http.StatusMultiStatus
	}
	marker.SetSuccess(report.Success)
	marker.AddMetadata("partial", report.Partial())
	h.logger.Perf().Info("Performance for PostDelete request", "duration", time.Since(start), "status", status, "success", report.Success)

	c.JSON(status, gin.H{
		"success":   report.Success,
		"message":   report.Message,
		"results":   report.Results,
		"successes": report.Successes,
		"warnings":  report.Warnings,
		"errors":    report.Errors,
	})
}

func deletionErrorStatus(err error) int {
	switch {
	case errors.Is(err, deletion.ErrUnknownSection), errors.Is(err, deletion.ErrNoSections):
		return http.StatusBadRequest
	case errors.Is(err, deletion.ErrNoActor):
		return http.StatusUnauthorized
	case errors.Is(err, deletion.ErrDangerZoneDisabled):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// SectionView describes one section for the dashboard.
type SectionView struct {
	Key             string   `json:"key"`
	Label           string   `json:"label"`
	Description     string   `json:"description,omitempty"`
	TablesToClear   []string `json:"tablesToClear"`
	TablesToReset   []string `json:"tablesToReset"`
	BucketsToEmpty  []string `json:"bucketsToEmpty"`
	SpecialHandling string   `json:"specialHandling,omitempty"`
	Aliases         []string `json:"aliases,omitempty"`
}

// GetSections handles GET /api/v1/admin/danger/sections
func (h *DangerZoneHandlers) GetSections(c *gin.Context) {
	aliasesByKey := make(map[string][]string)
	for alias, key := range h.deletionService.Aliases() {
		aliasesByKey[key] = append(aliasesByKey[key], alias)
	}

	plans := h.deletionService.Sections()
	views := make([]SectionView, 0, len(plans))
	for _, p := range plans {
		view := SectionView{
			Key:             p.Key,
			Label:           p.Label,
			Description:     p.Description,
			TablesToClear:   append([]string{}, p.TablesToClear...),
			TablesToReset:   make([]string, 0, len(p.TablesToReset)),
			BucketsToEmpty:  append([]string{}, p.BucketsToEmpty...),
			SpecialHandling: string(p.SpecialHandlingName()),
			Aliases:         aliasesByKey[p.Key],
		}
		sort.Strings(view.Aliases)
		for _, r := range p.TablesToReset {
			view.TablesToReset = append(view.TablesToReset, r.Target())
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"sections": views})
}
