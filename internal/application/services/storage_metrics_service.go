package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
)

const emptyFolderPlaceholder = ".emptyFolderPlaceholder"

// StorageMetricsConfig holds scan limits and plan quotas.
type StorageMetricsConfig struct {
	TimeBudget             time.Duration
	PageSize               int
	MaxFilesPerBucket      int
	PlanDBMaxSizeMB        int
	PlanBucketMaxSizeMB    int
	ExcludedBucketPrefixes []string
}

// StorageMetrics is the dashboard payload.
type StorageMetrics struct {
	DatabaseSize           string        `json:"databaseSize"`
	DatabaseSizeBytes      int64         `json:"databaseSizeBytes"`
	MaxDatabaseSizeMB      int           `json:"maxDatabaseSizeMB"`
	BucketStorageUsed      string        `json:"bucketStorageUsed"`
	BucketStorageUsedBytes int64         `json:"bucketStorageUsedBytes"`
	MaxBucketStorageMB     int           `json:"maxBucketStorageMB"`
	Buckets                []BucketUsage `json:"buckets,omitempty"`
	Partial                bool          `json:"partial"`
}

// BucketUsage is the scanned size of one bucket.
type BucketUsage struct {
	Name      string `json:"name"`
	Bytes     int64  `json:"bytes"`
	Files     int    `json:"files"`
	Truncated bool   `json:"truncated,omitempty"`
}

// StorageMetricsService reports database and bucket usage against plan quotas.
type StorageMetricsService struct {
	rows    repositories.RowStore
	objects repositories.ObjectStore
	config  StorageMetricsConfig
	logger  *logging.ChanneledLogger
	now     func() time.Time
}

// NewStorageMetricsService creates a new storage metrics service
func NewStorageMetricsService(rows repositories.RowStore, objects repositories.ObjectStore, config StorageMetricsConfig, logger *logging.ChanneledLogger) *StorageMetricsService {
	if config.PageSize <= 0 {
		config.PageSize = 100
	}
	if config.MaxFilesPerBucket <= 0 {
		config.MaxFilesPerBucket = 5000
	}
	return &StorageMetricsService{
		rows:    rows,
		objects: objects,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// Collect gathers both metrics. Bucket scanning stops at the time budget and
// labels what it has as partial rather than failing.
func (s *StorageMetricsService) Collect(ctx context.Context) *StorageMetrics {
	metrics := &StorageMetrics{
		MaxDatabaseSizeMB:  s.config.PlanDBMaxSizeMB,
		MaxBucketStorageMB: s.config.PlanBucketMaxSizeMB,
	}

	size, err := s.rows.DatabaseSize(ctx)
	if err != nil {
		s.logger.Database().Error("Database size query failed", "error", err.Error())
		metrics.DatabaseSize = "Error (Size Query Failed)"
		metrics.DatabaseSizeBytes = -1
	} else {
		metrics.DatabaseSize = humanize.IBytes(uint64(size))
		metrics.DatabaseSizeBytes = size
	}

	s.collectBuckets(ctx, metrics)
	return metrics
}

func (s *StorageMetricsService) collectBuckets(ctx context.Context, metrics *StorageMetrics) {
	start := s.now()
	deadline := time.Time{}
	if s.config.TimeBudget > 0 {
		deadline = start.Add(s.config.TimeBudget)
	}
	expired := func() bool {
		return !deadline.IsZero() && s.now().After(deadline)
	}

	buckets, err := s.objects.ListBuckets(ctx)
	if err != nil {
		s.logger.Storage().Error("Listing buckets failed", "error", err.Error())
		metrics.BucketStorageUsed = "Error listing buckets"
		metrics.BucketStorageUsedBytes = -1
		return
	}
	if len(buckets) == 0 {
		metrics.BucketStorageUsed = "0 B (No buckets)"
		return
	}

	var total int64
	partial := func(label string) {
		metrics.Partial = true
		metrics.BucketStorageUsedBytes = total
		metrics.BucketStorageUsed = fmt.Sprintf("~%s (%s)", humanize.IBytes(uint64(total)), label)
		s.logger.Storage().Warn("Storage scan hit its time budget, returning partial data",
			"label", label, "bytes", total, "duration", s.now().Sub(start))
	}

	for i, bucket := range buckets {
		if expired() {
			s.logger.Storage().Debug("Buckets processed before timeout", "processed", i, "total", len(buckets))
			partial("Partial - Timeout")
			return
		}
		if s.excluded(bucket.Name) {
			s.logger.Storage().Debug("Skipping internal bucket", "bucket", bucket.Name)
			continue
		}

		usage := BucketUsage{Name: bucket.Name}
		token := ""
		for {
			if expired() {
				total += usage.Bytes
				metrics.Buckets = append(metrics.Buckets, usage)
				partial("Partial - Timeout in " + bucket.Name)
				return
			}
			page, err := s.objects.ListPage(ctx, bucket.Name, token, s.config.PageSize)
			if err != nil {
				s.logger.Storage().Error("Listing bucket failed", "bucket", bucket.Name, "error", err.Error())
				metrics.BucketStorageUsed = fmt.Sprintf("Error (List Fail %s)", bucket.Name)
				metrics.BucketStorageUsedBytes = -1
				return
			}
			if page == nil || len(page.Objects) == 0 {
				break
			}
			for _, obj := range page.Objects {
				if obj.Key == emptyFolderPlaceholder || strings.HasSuffix(obj.Key, "/"+emptyFolderPlaceholder) {
					continue
				}
				usage.Bytes += obj.Size
				usage.Files++
			}
			if page.NextToken == "" {
				break
			}
			token = page.NextToken
			if usage.Files >= s.config.MaxFilesPerBucket {
				usage.Truncated = true
				s.logger.Storage().Warn("Reached scan limit for bucket, size may be partial", "bucket", bucket.Name, "files", usage.Files)
				break
			}
		}
		total += usage.Bytes
		metrics.Buckets = append(metrics.Buckets, usage)
	}

	metrics.BucketStorageUsedBytes = total
	metrics.BucketStorageUsed = "~" + humanize.IBytes(uint64(total))
	s.logger.Storage().Info("Storage scan completed", "bytes", total, "buckets", len(metrics.Buckets), "duration", s.now().Sub(start))
}

func (s *StorageMetricsService) excluded(bucket string) bool {
	for _, prefix := range s.config.ExcludedBucketPrefixes {
		if strings.HasPrefix(bucket, prefix) {
			return true
		}
	}
	return false
}
