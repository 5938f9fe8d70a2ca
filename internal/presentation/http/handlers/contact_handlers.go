package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studio-one/portfolio-api/internal/application/services"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/performance"
	"github.com/studio-one/portfolio-api/internal/presentation/http/middleware"
)

// ReplySender sends a reply to a contact submission.
type ReplySender interface {
	SendReply(ctx context.Context, actorID string, req services.ContactReplyRequest) (*services.ContactReplyResult, error)
}

// ContactHandlers serves contact submission replies
type ContactHandlers struct {
	contactService ReplySender
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewContactHandlers creates contact handlers with injected dependencies
func NewContactHandlers(contactService ReplySender, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ContactHandlers {
	return &ContactHandlers{
		contactService: contactService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// PostReply handles POST /api/v1/admin/contact/reply
func (h *ContactHandlers) PostReply(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	start := time.Now()
	marker := h.perfTracker.StartOperation("contact_reply_request", identity.ID)
	defer marker.Complete()

	var req services.ContactReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.contactService.SendReply(c.Request.Context(), identity.ID, req)
	if err != nil {
		marker.SetError(err)
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrMissingReplyFields):
			status = http.StatusBadRequest
		case errors.Is(err, services.ErrSubmissionNotFound):
			status = http.StatusNotFound
		}
		h.logger.Email().Warn("Contact reply failed", "status", status, "error", err.Error(), "duration", time.Since(start))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.logger.Perf().Info("Performance for PostReply request", "duration", time.Since(start), "statusUpdated", result.StatusUpdated)
	c.JSON(http.StatusOK, result)
}
