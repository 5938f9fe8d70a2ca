package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/studio-one/portfolio-api/internal/domain/deletion"
	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
)

// BucketEmptyStatus is the tri-state outcome of emptying one bucket.
type BucketEmptyStatus string

const (
	BucketComplete BucketEmptyStatus = "complete"
	BucketPartial  BucketEmptyStatus = "partial"
	BucketFailed   BucketEmptyStatus = "failed"
)

// maxRemoveBatch is the most keys one batch remove call accepts.
const maxRemoveBatch = 1000

// ErrDeadlineReached marks a bucket empty that stopped on the time budget.
var ErrDeadlineReached = errors.New("time budget exhausted before the bucket was emptied")

// BucketResult is what one Empty call did.
type BucketResult struct {
	Bucket   string
	Status   BucketEmptyStatus
	Stats    deletion.BucketStats
	Failures []repositories.RemoveFailure
	Err      error
}

// Message renders the result for a step report.
func (r BucketResult) Message() string {
	removed := fmt.Sprintf("%d object(s), %s", r.Stats.ObjectsRemoved, humanize.IBytes(uint64(r.Stats.BytesRemoved)))
	switch r.Status {
	case BucketComplete:
		if r.Stats.ObjectsFound == 0 {
			return fmt.Sprintf("Bucket '%s' was already empty.", r.Bucket)
		}
		return fmt.Sprintf("Bucket '%s' emptied: removed %s.", r.Bucket, removed)
	case BucketPartial:
		return fmt.Sprintf("Bucket '%s' partially emptied before the time budget ran out: removed %s of %d found.",
			r.Bucket, removed, r.Stats.ObjectsFound)
	default:
		return fmt.Sprintf("Failed to empty bucket '%s' (removed %s): %v", r.Bucket, removed, r.Err)
	}
}

// BucketEmptierConfig tunes paging and the deadline margin.
type BucketEmptierConfig struct {
	PageSize       int
	MaxRemoveBatch int
	// SafetyMargin is reserved before the deadline for removing what was
	// already listed.
	SafetyMargin time.Duration
}

// DefaultBucketEmptierConfig mirrors the storage API limits.
func DefaultBucketEmptierConfig() BucketEmptierConfig {
	return BucketEmptierConfig{
		PageSize:       100,
		MaxRemoveBatch: maxRemoveBatch,
		SafetyMargin:   500 * time.Millisecond,
	}
}

// BucketEmptier removes every object from a bucket under a deadline.
type BucketEmptier struct {
	store  repositories.ObjectStore
	config BucketEmptierConfig
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewBucketEmptier creates a bucket emptier. Non-positive settings fall back
// to the defaults and the remove batch never exceeds the API limit.
func NewBucketEmptier(store repositories.ObjectStore, config BucketEmptierConfig, logger *logging.ChanneledLogger) *BucketEmptier {
	defaults := DefaultBucketEmptierConfig()
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}
	if config.MaxRemoveBatch <= 0 || config.MaxRemoveBatch > maxRemoveBatch {
		config.MaxRemoveBatch = maxRemoveBatch
	}
	if config.SafetyMargin < 0 {
		config.SafetyMargin = 0
	}
	return &BucketEmptier{
		store:  store,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Empty lists the whole bucket page by page, then removes the accumulated
// objects in chunks. Listing stops once the deadline minus the safety margin
// has passed; removal continues until the deadline itself. Either stop
// yields a partial result. A list failure removes nothing.
func (e *BucketEmptier) Empty(ctx context.Context, bucket string, deadline time.Time) BucketResult {
	result := BucketResult{Bucket: bucket, Status: BucketComplete}
	start := e.now()

	var objects []repositories.ObjectInfo
	token := ""
	for {
		if !deadline.IsZero() && !e.now().Add(e.config.SafetyMargin).Before(deadline) {
			result.Stats.DeadlineHit = true
			break
		}
		if err := ctx.Err(); err != nil {
			result.Status = BucketFailed
			result.Err = err
			return result
		}

		page, err := e.store.ListPage(ctx, bucket, token, e.config.PageSize)
		result.Stats.ListPages++
		if err != nil {
			e.logger.Storage().Error("Bucket listing failed, nothing removed",
				"bucket", bucket, "page", result.Stats.ListPages, "error", err.Error())
			result.Status = BucketFailed
			result.Err = err
			return result
		}
		if page == nil || len(page.Objects) == 0 {
			break
		}
		for _, obj := range page.Objects {
			if obj.Key != "" {
				objects = append(objects, obj)
			}
		}
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}
	result.Stats.ObjectsFound = len(objects)

	for i := 0; i < len(objects); i += e.config.MaxRemoveBatch {
		if !deadline.IsZero() && !e.now().Before(deadline) {
			result.Stats.DeadlineHit = true
			break
		}

		chunk := objects[i:min(i+e.config.MaxRemoveBatch, len(objects))]
		keys := make([]string, len(chunk))
		for j, obj := range chunk {
			keys[j] = obj.Key
		}

		failures, err := e.store.RemoveObjects(ctx, bucket, keys)
		result.Stats.RemoveCalls++
		if err != nil {
			e.logger.Storage().Error("Bucket remove failed, earlier chunks stay removed",
				"bucket", bucket, "chunk", result.Stats.RemoveCalls, "error", err.Error())
			result.Status = BucketFailed
			result.Err = err
			return result
		}

		failed := make(map[string]bool, len(failures))
		for _, f := range failures {
			failed[f.Key] = true
		}
		for _, obj := range chunk {
			if !failed[obj.Key] {
				result.Stats.ObjectsRemoved++
				result.Stats.BytesRemoved += obj.Size
			}
		}
		result.Failures = append(result.Failures, failures...)
	}

	switch {
	case len(result.Failures) > 0:
		result.Status = BucketFailed
		result.Err = fmt.Errorf("%d object(s) could not be removed, first: %s (%s)",
			len(result.Failures), result.Failures[0].Key, result.Failures[0].Message)
	case result.Stats.DeadlineHit:
		result.Status = BucketPartial
		result.Err = ErrDeadlineReached
	}

	e.logger.Storage().Info("Bucket empty finished",
		"bucket", bucket,
		"status", result.Status,
		"found", result.Stats.ObjectsFound,
		"removed", result.Stats.ObjectsRemoved,
		"bytes", humanize.IBytes(uint64(result.Stats.BytesRemoved)),
		"listPages", result.Stats.ListPages,
		"removeCalls", result.Stats.RemoveCalls,
		"duration", e.now().Sub(start))
	return result
}
