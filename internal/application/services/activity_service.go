package services

import (
	"context"
	"fmt"
	"time"

	"github.com/studio-one/portfolio-api/internal/domain/activity"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
)

const auditWriteTimeout = 5 * time.Second

// AuditRecorder writes activity entries on a best-effort basis: failures are
// logged and never returned.
type AuditRecorder struct {
	log    activity.Log
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewAuditRecorder creates a recorder over the activity log.
func NewAuditRecorder(log activity.Log, logger *logging.ChanneledLogger) *AuditRecorder {
	return &AuditRecorder{
		log:    log,
		logger: logger,
		now:    time.Now,
	}
}

// Record inserts one entry and reports whether it was stored. The write
// survives cancellation of ctx so a dropped client still leaves a trail.
func (a *AuditRecorder) Record(ctx context.Context, action activity.ActionType, description, actorID string, details activity.Details) bool {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	entry := &activity.Entry{
		ActionType:     action,
		Description:    description,
		UserIdentifier: actorID,
		Details:        details,
		CreatedAt:      a.now().UTC(),
	}
	if err := a.log.Insert(writeCtx, entry); err != nil {
		a.logger.Audit().Error("Failed to write admin activity entry",
			"actionType", action,
			"actorId", actorID,
			"error", err.Error())
		return false
	}
	return true
}

// ActivityService serves the admin activity feed.
type ActivityService struct {
	log    activity.Log
	audit  *AuditRecorder
	logger *logging.ChanneledLogger
}

// NewActivityService creates a new activity service
func NewActivityService(log activity.Log, audit *AuditRecorder, logger *logging.ChanneledLogger) *ActivityService {
	return &ActivityService{
		log:    log,
		audit:  audit,
		logger: logger,
	}
}

// List returns the newest entries first.
func (s *ActivityService) List(ctx context.Context, limit int) ([]*activity.Entry, error) {
	entries, err := s.log.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, nil
}

// Clear empties the log, then records who cleared it as the first new entry.
func (s *ActivityService) Clear(ctx context.Context, actorID string) (int64, error) {
	removed, err := s.log.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear activity log: %w", err)
	}

	s.logger.Audit().Warn("Admin activity log cleared", "actorId", actorID, "entriesRemoved", removed)
	s.audit.Record(ctx, activity.ActionActivityLogCleared,
		fmt.Sprintf("Admin cleared the activity log (%d entries removed).", removed),
		actorID,
		activity.LogClearedDetails{EntriesRemoved: removed})
	return removed, nil
}
