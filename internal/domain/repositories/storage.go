// Package repositories defines the storage interfaces used by the admin
// services. Adapters live under internal/infrastructure.
package repositories

import (
	"context"
	"time"
)

// Assignment is one column update of a reset.
type Assignment struct {
	Column string
	Value  any
}

// RowStore performs the relational side of bulk deletion.
type RowStore interface {
	Ping(ctx context.Context) error
	// ClearTable deletes every row of table and returns the count removed.
	ClearTable(ctx context.Context, table string) (int64, error)
	// ResetRow updates the row with the given id. Zero rows affected is not
	// an error; callers decide what it means.
	ResetRow(ctx context.Context, table, id string, values []Assignment) (int64, error)
	// DeleteOwnedRows deletes rows whose ownerColumn equals ownerID.
	DeleteOwnedRows(ctx context.Context, table, ownerColumn, ownerID string) (int64, error)
	// DatabaseSize returns the size of the database in bytes.
	DatabaseSize(ctx context.Context) (int64, error)
}

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectPage is one page of a bucket listing. An empty NextToken means the
// listing is complete.
type ObjectPage struct {
	Objects   []ObjectInfo
	NextToken string
}

// BucketInfo describes one bucket.
type BucketInfo struct {
	Name      string
	CreatedAt time.Time
}

// RemoveFailure is a key the backend refused to delete.
type RemoveFailure struct {
	Key     string
	Code    string
	Message string
}

// ObjectStore performs the object storage side of bulk deletion.
type ObjectStore interface {
	ListPage(ctx context.Context, bucket, token string, limit int) (*ObjectPage, error)
	// RemoveObjects deletes keys in one batch call. Per-key failures are
	// returned without an error; err is reserved for a failed call.
	RemoveObjects(ctx context.Context, bucket string, keys []string) ([]RemoveFailure, error)
	ListBuckets(ctx context.Context) ([]BucketInfo, error)
}

// ContactSubmission is one message sent through the public contact form.
type ContactSubmission struct {
	ID          string
	Name        string
	Email       string
	Subject     string
	Message     string
	Status      string
	Notes       string
	SubmittedAt time.Time
}

// ContactRepository updates contact form submissions.
type ContactRepository interface {
	FindByID(ctx context.Context, id string) (*ContactSubmission, error)
	MarkReplied(ctx context.Context, id, notes string) (int64, error)
}
