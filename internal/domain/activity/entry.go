// Package activity defines the admin activity log: one immutable entry per
// audited admin action, with a details payload tagged by kind.
package activity

import (
	"context"
	"time"

	"github.com/studio-one/portfolio-api/internal/domain/deletion"
)

// ActionType tags an activity log entry.
type ActionType string

const (
	ActionDataDeletionSuccess        ActionType = "DATA_DELETION_SUCCESS"
	ActionDataDeletionPartialFailure ActionType = "DATA_DELETION_PARTIAL_FAILURE"
	ActionDataDeletionError          ActionType = "DATA_DELETION_ERROR"
	ActionDataDeletionDisabled       ActionType = "DATA_DELETION_DISABLED_ATTEMPT"
	ActionActivityLogCleared         ActionType = "ACTIVITY_LOG_CLEARED"
	ActionContactReplySent           ActionType = "CONTACT_REPLY_SENT"
)

// Entry is one row of admin_activity_log.
type Entry struct {
	ID             string     `json:"id"`
	ActionType     ActionType `json:"actionType"`
	Description    string     `json:"description"`
	UserIdentifier string     `json:"userIdentifier"`
	Details        Details    `json:"details,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Details is the structured payload of an entry. Kind is stored alongside the
// payload so readers can decode it without knowing the action type.
type Details interface {
	Kind() string
}

// DeletionDetails embeds the full report of a deletion request.
type DeletionDetails struct {
	RequestedSectionKeys []string         `json:"requestedSectionKeys"`
	Report               *deletion.Report `json:"report,omitempty"`
	Error                string           `json:"error,omitempty"`
}

func (DeletionDetails) Kind() string { return "data_deletion" }

// LogClearedDetails records how many entries a clear removed.
type LogClearedDetails struct {
	EntriesRemoved int64 `json:"entriesRemoved"`
}

func (LogClearedDetails) Kind() string { return "activity_log_cleared" }

// ContactReplyDetails records a reply sent to a contact submission.
type ContactReplyDetails struct {
	SubmissionID   string `json:"submissionId"`
	RecipientEmail string `json:"recipientEmail"`
	MessageID      string `json:"messageId,omitempty"`
	StatusUpdated  bool   `json:"statusUpdated"`
}

func (ContactReplyDetails) Kind() string { return "contact_reply" }

// RawDetails holds a payload read back from storage.
type RawDetails struct {
	Type    string         `json:"kind"`
	Payload map[string]any `json:"payload"`
}

func (r RawDetails) Kind() string { return r.Type }

// ActionForReport picks the action type matching a finished report.
func ActionForReport(r *deletion.Report) ActionType {
	if r.Success {
		return ActionDataDeletionSuccess
	}
	return ActionDataDeletionPartialFailure
}

// Log is the append-only store behind the activity feed.
type Log interface {
	Insert(ctx context.Context, entry *Entry) error
	List(ctx context.Context, limit int) ([]*Entry, error)
	Clear(ctx context.Context) (int64, error)
}
