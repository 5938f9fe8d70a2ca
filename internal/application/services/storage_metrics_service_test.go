package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/bulk"
)

func newMetricsService(t *testing.T, objects repositories.ObjectStore) *StorageMetricsService {
	t.Helper()
	db := newPortfolioDB(t)
	return NewStorageMetricsService(bulk.NewSQLRowStore(db, discardLogger()), objects, StorageMetricsConfig{
		TimeBudget:             4500 * time.Millisecond,
		PageSize:               100,
		MaxFilesPerBucket:      5000,
		PlanDBMaxSizeMB:        1024,
		PlanBucketMaxSizeMB:    10240,
		ExcludedBucketPrefixes: []string{"supabase-", "migrations"},
	}, discardLogger())
}

func TestCollect_SumsBucketsAndSkipsInternal(t *testing.T) {
	store := newMemObjectStore()
	store.seed("project-images", 150, 1024)
	store.put("project-images", ".emptyFolderPlaceholder", 999)
	store.put("resume-pdfs", "cv.pdf", 2048)
	store.put("resume-pdfs", "old/.emptyFolderPlaceholder", 999)
	store.seed("supabase-internal", 3, 1<<20)
	store.seed("migrations", 3, 1<<20)

	metrics := newMetricsService(t, store).Collect(context.Background())

	assert.Equal(t, int64(150*1024+2048), metrics.BucketStorageUsedBytes)
	assert.Equal(t, "~152 KiB", metrics.BucketStorageUsed)
	assert.False(t, metrics.Partial)
	assert.Len(t, metrics.Buckets, 2)
	assert.Zero(t, store.listCalls["supabase-internal"])
	assert.Zero(t, store.listCalls["migrations"])

	assert.Equal(t, 1024, metrics.MaxDatabaseSizeMB)
	assert.Equal(t, 10240, metrics.MaxBucketStorageMB)
	assert.Positive(t, metrics.DatabaseSizeBytes)
	assert.NotEmpty(t, metrics.DatabaseSize)
}

func TestCollect_NoBuckets(t *testing.T) {
	metrics := newMetricsService(t, newMemObjectStore()).Collect(context.Background())

	assert.Zero(t, metrics.BucketStorageUsedBytes)
	assert.Equal(t, "0 B (No buckets)", metrics.BucketStorageUsed)
}

func TestCollect_ListFailure(t *testing.T) {
	store := newMemObjectStore()
	store.seed("about-images", 2, 10)
	store.seed("skill-icons", 2, 10)
	store.listErr["skill-icons"] = errBoom

	metrics := newMetricsService(t, store).Collect(context.Background())

	assert.Equal(t, int64(-1), metrics.BucketStorageUsedBytes)
	assert.Equal(t, "Error (List Fail skill-icons)", metrics.BucketStorageUsed)
}

type failingBucketLister struct {
	*memObjectStore
}

func (failingBucketLister) ListBuckets(context.Context) ([]repositories.BucketInfo, error) {
	return nil, errors.New("forbidden")
}

func TestCollect_BucketListingFailure(t *testing.T) {
	metrics := newMetricsService(t, failingBucketLister{newMemObjectStore()}).Collect(context.Background())

	assert.Equal(t, int64(-1), metrics.BucketStorageUsedBytes)
	assert.Equal(t, "Error listing buckets", metrics.BucketStorageUsed)
}

func TestCollect_TimeoutReturnsPartial(t *testing.T) {
	clock := newFakeClock()
	store := newMemObjectStore()
	store.seed("about-images", 250, 1)
	store.seed("project-images", 10, 1)
	store.onList = func() { clock.Advance(3 * time.Second) }

	svc := newMetricsService(t, store)
	svc.now = clock.Now

	metrics := svc.Collect(context.Background())

	assert.True(t, metrics.Partial)
	assert.Equal(t, int64(200), metrics.BucketStorageUsedBytes)
	assert.Equal(t, "~200 B (Partial - Timeout in about-images)", metrics.BucketStorageUsed)
	assert.Zero(t, store.listCalls["project-images"])
}

func TestCollect_ScanLimitTruncates(t *testing.T) {
	store := newMemObjectStore()
	store.seed("project-images", 250, 1)

	svc := newMetricsService(t, store)
	svc.config.MaxFilesPerBucket = 200

	metrics := svc.Collect(context.Background())

	require.Len(t, metrics.Buckets, 1)
	assert.True(t, metrics.Buckets[0].Truncated)
	assert.Equal(t, 200, metrics.Buckets[0].Files)
	assert.False(t, metrics.Partial)
}

func TestCollect_ScanLimitIgnoresPlaceholdersAndLastPage(t *testing.T) {
	store := newMemObjectStore()
	store.seed("project-images", 200, 1)
	store.put("project-images", ".emptyFolderPlaceholder", 0)
	store.put("project-images", "thumbs/.emptyFolderPlaceholder", 0)

	svc := newMetricsService(t, store)
	svc.config.MaxFilesPerBucket = 200

	metrics := svc.Collect(context.Background())

	require.Len(t, metrics.Buckets, 1)
	assert.Equal(t, 200, metrics.Buckets[0].Files)
	assert.False(t, metrics.Buckets[0].Truncated)
	assert.Equal(t, int64(200), metrics.BucketStorageUsedBytes)
}
