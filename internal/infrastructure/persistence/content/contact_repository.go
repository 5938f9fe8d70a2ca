// Package content provides contact submission persistence
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/database"
)

// StatusReplied marks a submission that has been answered.
const StatusReplied = "Replied"

// ContactRepository reads and updates contact_submissions.
type ContactRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

func NewContactRepository(db *database.DB, logger *logging.ChanneledLogger) *ContactRepository {
	return &ContactRepository{
		db:     db,
		logger: logger,
	}
}

var _ repositories.ContactRepository = (*ContactRepository)(nil)

// FindByID returns nil, nil when the submission does not exist.
func (r *ContactRepository) FindByID(ctx context.Context, id string) (*repositories.ContactSubmission, error) {
	const query = `
		SELECT id, name, email, subject, message, status, notes, submitted_at
		FROM contact_submissions
		WHERE id = ?`

	var (
		sub         repositories.ContactSubmission
		subject     sql.NullString
		notes       sql.NullString
		submittedAt string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&sub.ID, &sub.Name, &sub.Email, &subject, &sub.Message, &sub.Status, &notes, &submittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Database().Debug("Contact submission not found", "id", id)
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to load contact submission", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to load contact submission %s: %w", id, err)
	}
	sub.Subject = subject.String
	sub.Notes = notes.String
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, submittedAt); err == nil {
			sub.SubmittedAt = ts
			break
		}
	}
	return &sub, nil
}

// MarkReplied sets status to Replied and stores the reply notes.
func (r *ContactRepository) MarkReplied(ctx context.Context, id, notes string) (int64, error) {
	const query = `UPDATE contact_submissions SET status = ?, notes = ? WHERE id = ?`

	start := time.Now()
	res, err := r.db.ExecContext(ctx, query, StatusReplied, notes, id)
	if err != nil {
		r.logger.Database().Error("Failed to mark submission replied", "error", err.Error(), "id", id)
		return 0, fmt.Errorf("failed to update contact submission %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Contact submission marked replied", "id", id, "rowsAffected", affected, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return affected, nil
}
