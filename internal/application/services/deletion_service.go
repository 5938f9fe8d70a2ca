package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studio-one/portfolio-api/internal/domain/activity"
	"github.com/studio-one/portfolio-api/internal/domain/deletion"
	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/domain/user"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
)

// DeletionRequest is one danger zone invocation.
type DeletionRequest struct {
	SectionKeys []string
	Actor       user.Identity
}

// DeletionConfig holds the switches read from pkg/config.
type DeletionConfig struct {
	Enabled    bool
	TimeBudget time.Duration
}

// DeletionService runs section plans against the database and object storage
// and records one activity entry per invocation.
type DeletionService struct {
	registry *deletion.Registry
	rows     repositories.RowStore
	buckets  *BucketEmptier
	audit    *AuditRecorder
	config   DeletionConfig
	logger   *logging.ChanneledLogger
	now      func() time.Time
}

// NewDeletionService creates the danger zone orchestrator
func NewDeletionService(
	registry *deletion.Registry,
	rows repositories.RowStore,
	buckets *BucketEmptier,
	audit *AuditRecorder,
	config DeletionConfig,
	logger *logging.ChanneledLogger,
) *DeletionService {
	return &DeletionService{
		registry: registry,
		rows:     rows,
		buckets:  buckets,
		audit:    audit,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Sections lists the plans the danger zone offers.
func (s *DeletionService) Sections() []deletion.Plan {
	return s.registry.Sections()
}

// Aliases lists legacy keys and the sections they resolve to.
func (s *DeletionService) Aliases() map[string]string {
	return s.registry.Aliases()
}

// Execute validates every key, then runs the sections in request order. A
// failing step never stops later steps or sections. The returned report is
// nil only when the request was rejected before anything ran.
func (s *DeletionService) Execute(ctx context.Context, req DeletionRequest) (report *deletion.Report, err error) {
	if req.Actor.ID == "" {
		return nil, deletion.ErrNoActor
	}

	if !s.config.Enabled {
		s.logger.Deletion().Warn("Danger zone request while disabled", "actorId", req.Actor.ID, "sectionKeys", req.SectionKeys)
		s.audit.Record(ctx, activity.ActionDataDeletionDisabled,
			"Admin attempted a data deletion while the danger zone is disabled.",
			req.Actor.ID,
			activity.DeletionDetails{RequestedSectionKeys: req.SectionKeys, Error: deletion.ErrDangerZoneDisabled.Error()})
		return nil, deletion.ErrDangerZoneDisabled
	}

	resolved, err := s.registry.ResolveAll(req.SectionKeys)
	if err != nil {
		s.logger.Deletion().Warn("Danger zone request rejected", "actorId", req.Actor.ID, "error", err.Error())
		return nil, err
	}

	if err := s.rows.Ping(ctx); err != nil {
		wrapped := fmt.Errorf("%w: %w", deletion.ErrBackendUnavailable, err)
		s.recordFailure(ctx, req, nil, wrapped)
		return nil, wrapped
	}

	started := s.now()
	deadline := time.Time{}
	if s.config.TimeBudget > 0 {
		deadline = started.Add(s.config.TimeBudget)
	}
	report = deletion.NewReport(req.SectionKeys, req.Actor.ID, started)

	// Steps outlive the request; only the time budget ends a run.
	execCtx, cancel := s.executionContext(ctx)
	defer cancel()

	s.logger.Deletion().Info("Danger zone deletion started",
		"actorId", req.Actor.ID,
		"sectionKeys", req.SectionKeys,
		"sections", len(resolved),
		"deadline", deadline)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deletion aborted: %v", r)
			s.logger.Deletion().Error("Panic during danger zone deletion", "panic", fmt.Sprint(r))
			report.Success = false
			report.Finish(s.now())
			s.recordFailure(ctx, req, report, err)
		}
	}()

	for _, section := range resolved {
		report.AddSection(s.runSection(execCtx, section, req.Actor, deadline))
	}
	report.Finish(s.now())

	status := "Complete"
	if !report.Success {
		status = "Partial"
	}
	labels := strings.Join(report.Labels(), ", ")
	if labels == "" {
		labels = "[None]"
	}
	s.audit.Record(ctx, activity.ActionForReport(report),
		fmt.Sprintf("Admin deleted data for sections: %s. Status: %s.", labels, status),
		req.Actor.ID,
		activity.DeletionDetails{RequestedSectionKeys: req.SectionKeys, Report: report})

	s.logger.Deletion().Info("Danger zone deletion finished",
		"actorId", req.Actor.ID,
		"success", report.Success,
		"successes", len(report.Successes),
		"warnings", len(report.Warnings),
		"errors", len(report.Errors),
		"duration", report.FinishedAt.Sub(report.StartedAt))
	return report, nil
}

// executionContext detaches from the caller's cancellation and bounds the run
// by the time budget plus the bucket safety margin.
func (s *DeletionService) executionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.config.TimeBudget <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, s.config.TimeBudget+s.buckets.config.SafetyMargin)
}

func (s *DeletionService) recordFailure(ctx context.Context, req DeletionRequest, report *deletion.Report, cause error) {
	s.logger.Deletion().Error("Danger zone deletion failed", "actorId", req.Actor.ID, "error", cause.Error())
	s.audit.Record(ctx, activity.ActionDataDeletionError,
		fmt.Sprintf("Admin data deletion failed: %s", cause.Error()),
		req.Actor.ID,
		activity.DeletionDetails{RequestedSectionKeys: req.SectionKeys, Report: report, Error: cause.Error()})
}

func (s *DeletionService) runSection(ctx context.Context, section deletion.Resolved, actor user.Identity, deadline time.Time) deletion.SectionResult {
	steps := section.Plan.Steps()
	results := make([]deletion.StepResult, 0, len(steps))
	for _, step := range steps {
		result := s.runStep(ctx, step, actor, deadline)
		if !result.Success {
			s.logger.Deletion().Warn("Deletion step did not succeed",
				"section", section.Plan.Key,
				"target", result.Target,
				"outcome", result.Outcome,
				"message", result.Message)
		}
		results = append(results, result)
	}
	return deletion.NewSectionResult(section, results)
}

func (s *DeletionService) runStep(ctx context.Context, step deletion.Step, actor user.Identity, deadline time.Time) deletion.StepResult {
	switch st := step.(type) {
	case deletion.ClearTable:
		affected, err := s.rows.ClearTable(ctx, st.Table)
		if err != nil {
			return deletion.NewStepResult(st, deletion.OutcomeFailed,
				fmt.Sprintf("Failed to clear table '%s': %v", st.Table, err))
		}
		r := deletion.NewStepResult(st, deletion.OutcomeSucceeded,
			fmt.Sprintf("Table '%s' cleared.", st.Table))
		r.RowsAffected = &affected
		return r

	case deletion.ResetRow:
		return s.resetRow(ctx, st, st.Table, st.ID, st.Fields,
			fmt.Sprintf("Table '%s' (ID: %s) reset to defaults.", st.Table, st.ID))

	case deletion.EmptyBucket:
		br := s.buckets.Empty(ctx, st.Bucket, deadline)
		outcome := deletion.OutcomeSucceeded
		switch br.Status {
		case BucketPartial:
			outcome = deletion.OutcomePartial
		case BucketFailed:
			outcome = deletion.OutcomeFailed
		}
		r := deletion.NewStepResult(st, outcome, br.Message())
		stats := br.Stats
		r.Bucket = &stats
		for _, f := range br.Failures {
			r.Details = append(r.Details, fmt.Sprintf("%s: %s %s", f.Key, f.Code, f.Message))
		}
		return r

	case deletion.DeleteOwnedRows:
		if actor.ID == "" {
			return deletion.NewStepResult(st, deletion.OutcomeFailed,
				fmt.Sprintf("Refused to delete from '%s': %v", st.Table, deletion.ErrNoActor))
		}
		affected, err := s.rows.DeleteOwnedRows(ctx, st.Table, st.OwnerColumn, actor.ID)
		if err != nil {
			return deletion.NewStepResult(st, deletion.OutcomeFailed,
				fmt.Sprintf("Failed to delete your rows from '%s': %v", st.Table, err))
		}
		r := deletion.NewStepResult(st, deletion.OutcomeSucceeded,
			fmt.Sprintf("Your rows in '%s' deleted.", st.Table))
		r.RowsAffected = &affected
		return r

	case deletion.ResetSharedField:
		return s.resetRow(ctx, st, st.Table, st.ID, st.Fields,
			fmt.Sprintf("Field(s) on '%s' (ID: %s) reset.", st.Table, st.ID))

	default:
		return deletion.NewStepResult(step, deletion.OutcomeFailed,
			fmt.Sprintf("Unsupported step type %T", step))
	}
}

func (s *DeletionService) resetRow(ctx context.Context, step deletion.Step, table, id string, fields []deletion.Field, okMessage string) deletion.StepResult {
	now := s.now()
	values := make([]repositories.Assignment, len(fields))
	for i, f := range fields {
		values[i] = repositories.Assignment{Column: f.Column, Value: f.Resolve(now)}
	}

	affected, err := s.rows.ResetRow(ctx, table, id, values)
	if err != nil {
		return deletion.NewStepResult(step, deletion.OutcomeFailed,
			fmt.Sprintf("Failed to reset '%s' (ID: %s): %v", table, id, err))
	}
	if affected == 0 {
		r := deletion.NewStepResult(step, deletion.OutcomeWarning,
			fmt.Sprintf("No row matched '%s' (ID: %s); nothing was reset.", table, id))
		r.RowsAffected = &affected
		return r
	}
	r := deletion.NewStepResult(step, deletion.OutcomeSucceeded, okMessage)
	r.RowsAffected = &affected
	return r
}
