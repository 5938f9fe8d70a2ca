// Package activity provides the SQL-backed admin activity log.
package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/studio-one/portfolio-api/internal/domain/activity"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/database"
	"github.com/studio-one/portfolio-api/internal/infrastructure/security"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500

	// Fixed width so created_at sorts lexically.
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// SQLActivityRepository writes and reads admin_activity_log rows.
type SQLActivityRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLActivityRepository creates a new instance of the repository.
func NewSQLActivityRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLActivityRepository {
	return &SQLActivityRepository{
		db:     db,
		logger: logger,
	}
}

var _ activity.Log = (*SQLActivityRepository)(nil)

type storedDetails struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Insert appends an entry. A missing id or timestamp is filled in.
func (r *SQLActivityRepository) Insert(ctx context.Context, entry *activity.Entry) error {
	if entry.ID == "" {
		entry.ID = security.GenerateULID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var details sql.NullString
	if entry.Details != nil {
		payload, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to encode activity details: %w", err)
		}
		wrapped, err := json.Marshal(storedDetails{Kind: entry.Details.Kind(), Payload: payload})
		if err != nil {
			return fmt.Errorf("failed to encode activity details: %w", err)
		}
		details = sql.NullString{String: string(wrapped), Valid: true}
	}

	const query = `
		INSERT INTO admin_activity_log (id, action_type, description, user_identifier, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Audit().Debug("Executing activity insert", "id", entry.ID, "actionType", entry.ActionType)

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		string(entry.ActionType),
		entry.Description,
		entry.UserIdentifier,
		details,
		entry.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		r.logger.Audit().Error("Activity insert failed", "error", err.Error(), "id", entry.ID, "actionType", entry.ActionType)
		return fmt.Errorf("failed to store activity entry: %w", err)
	}

	duration := time.Since(start)
	r.logger.Audit().Info("Activity insert completed", "id", entry.ID, "actionType", entry.ActionType, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return nil
}

// List returns the newest entries first.
func (r *SQLActivityRepository) List(ctx context.Context, limit int) ([]*activity.Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	const query = `
		SELECT id, action_type, description, user_identifier, details, created_at
		FROM admin_activity_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Audit().Error("Activity list failed", "error", err.Error())
		return nil, fmt.Errorf("failed to list activity entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*activity.Entry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity entries: %w", err)
	}

	r.logger.Audit().Debug("Activity list completed", "count", len(entries), "duration", time.Since(start))
	return entries, nil
}

// Clear removes every entry and returns the count removed.
func (r *SQLActivityRepository) Clear(ctx context.Context) (int64, error) {
	const query = `DELETE FROM admin_activity_log`

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		r.logger.Audit().Error("Activity clear failed", "error", err.Error())
		return 0, fmt.Errorf("failed to clear activity log: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	r.logger.Audit().Info("Activity log cleared", "entriesRemoved", removed)
	return removed, nil
}

func scanEntry(rows *sql.Rows) (*activity.Entry, error) {
	var (
		entry      activity.Entry
		actionType string
		userID     sql.NullString
		details    sql.NullString
		createdAt  string
	)
	if err := rows.Scan(&entry.ID, &actionType, &entry.Description, &userID, &details, &createdAt); err != nil {
		return nil, fmt.Errorf("failed to scan activity entry: %w", err)
	}
	entry.ActionType = activity.ActionType(actionType)
	entry.UserIdentifier = userID.String

	if ts, err := time.Parse(timestampLayout, createdAt); err == nil {
		entry.CreatedAt = ts
	} else if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		entry.CreatedAt = ts
	}

	if details.Valid && details.String != "" {
		var stored storedDetails
		if err := json.Unmarshal([]byte(details.String), &stored); err != nil {
			return nil, fmt.Errorf("failed to decode details of activity entry %s: %w", entry.ID, err)
		}
		raw := activity.RawDetails{Type: stored.Kind}
		if len(stored.Payload) > 0 {
			if err := json.Unmarshal(stored.Payload, &raw.Payload); err != nil {
				return nil, fmt.Errorf("failed to decode payload of activity entry %s: %w", entry.ID, err)
			}
		}
		entry.Details = raw
	}
	return &entry, nil
}
