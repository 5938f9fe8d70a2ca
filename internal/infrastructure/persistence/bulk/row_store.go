// Package bulk provides the SQL side of danger zone deletions: whole-table
// clears, singleton resets and owner-scoped deletes.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/database"
)

// SQLRowStore implements repositories.RowStore on sqlite3 or libsql.
type SQLRowStore struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLRowStore creates a new row store.
func NewSQLRowStore(db *database.DB, logger *logging.ChanneledLogger) *SQLRowStore {
	return &SQLRowStore{
		db:     db,
		logger: logger,
	}
}

var _ repositories.RowStore = (*SQLRowStore)(nil)

// Ping checks that the database is reachable.
func (s *SQLRowStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Database().Error("Database ping failed", "error", err.Error())
		return err
	}
	return nil
}

// ClearTable deletes every row of table. There is no sentinel filter: the
// statement is an unconditional delete.
func (s *SQLRowStore) ClearTable(ctx context.Context, table string) (int64, error) {
	quoted, err := database.QuoteIdentifier(table)
	if err != nil {
		return 0, err
	}
	query := "DELETE FROM " + quoted

	start := time.Now()
	s.logger.Database().Debug("Executing table clear", "table", table)

	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		s.logger.Database().Error("Table clear failed", "error", err.Error(), "table", table)
		return 0, fmt.Errorf("failed to clear table %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected for %s: %w", table, err)
	}

	duration := time.Since(start)
	s.logger.Database().Info("Table clear completed", "table", table, "rowsAffected", affected, "duration", duration)
	database.CheckAndLogSlowQuery(s.logger, query, duration)
	return affected, nil
}

// ResetRow updates the row with id to the given values.
func (s *SQLRowStore) ResetRow(ctx context.Context, table, id string, values []repositories.Assignment) (int64, error) {
	if len(values) == 0 {
		return 0, errors.New("reset requires at least one column")
	}
	quotedTable, err := database.QuoteIdentifier(table)
	if err != nil {
		return 0, err
	}

	sets := make([]string, 0, len(values))
	args := make([]any, 0, len(values)+1)
	for _, v := range values {
		col, err := database.QuoteIdentifier(v.Column)
		if err != nil {
			return 0, err
		}
		sets = append(sets, col+" = ?")
		args = append(args, v.Value)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", quotedTable, strings.Join(sets, ", "))

	start := time.Now()
	s.logger.Database().Debug("Executing row reset", "table", table, "id", id, "columns", len(values))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Database().Error("Row reset failed", "error", err.Error(), "table", table, "id", id)
		return 0, fmt.Errorf("failed to reset %s (ID: %s): %w", table, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected for %s: %w", table, err)
	}

	duration := time.Since(start)
	s.logger.Database().Info("Row reset completed", "table", table, "id", id, "rowsAffected", affected, "duration", duration)
	database.CheckAndLogSlowQuery(s.logger, query, duration)
	return affected, nil
}

// DeleteOwnedRows deletes the rows of table owned by ownerID. An empty owner
// is refused so the filter can never widen to the whole table.
func (s *SQLRowStore) DeleteOwnedRows(ctx context.Context, table, ownerColumn, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, errors.New("owner id is required for a scoped delete")
	}
	quotedTable, err := database.QuoteIdentifier(table)
	if err != nil {
		return 0, err
	}
	quotedColumn, err := database.QuoteIdentifier(ownerColumn)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quotedTable, quotedColumn)

	start := time.Now()
	s.logger.Database().Debug("Executing owner scoped delete", "table", table, "ownerColumn", ownerColumn)

	res, err := s.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		s.logger.Database().Error("Owner scoped delete failed", "error", err.Error(), "table", table)
		return 0, fmt.Errorf("failed to delete owned rows from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected for %s: %w", table, err)
	}

	duration := time.Since(start)
	s.logger.Database().Info("Owner scoped delete completed", "table", table, "rowsAffected", affected, "duration", duration)
	database.CheckAndLogSlowQuery(s.logger, query, duration)
	return affected, nil
}

// DatabaseSize returns the database size in bytes.
func (s *SQLRowStore) DatabaseSize(ctx context.Context) (int64, error) {
	return s.db.DatabaseSize(ctx)
}
