package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/pkg/config"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// QuoteIdentifier validates a table or column name and quotes it for SQL.
// Names come from static configuration but are still checked before being
// interpolated.
func QuoteIdentifier(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("invalid SQL identifier %q", name)
	}
	return `"` + name + `"`, nil
}

// CheckAndLogSlowQuery checks if a query duration exceeds threshold
// and logs it using the slow query channel if it does
func CheckAndLogSlowQuery(logger *logging.ChanneledLogger, query string, duration time.Duration) {
	threshold := config.SlowQueryThreshold

	// Bulk deletes are expected to take longer.
	if strings.HasPrefix(query, "BULK_") || strings.HasPrefix(query, "DELETE FROM") {
		threshold *= 3
	}

	if duration > threshold {
		logger.LogSlowQuery(query, duration)
	}
}

// DatabaseSize returns page_count * page_size for SQLite compatible backends.
func (db *DB) DatabaseSize(ctx context.Context) (int64, error) {
	var pageCount, pageSize int64
	if err := db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0, fmt.Errorf("failed to read page count: %w", err)
	}
	if err := db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, fmt.Errorf("failed to read page size: %w", err)
	}
	return pageCount * pageSize, nil
}
