package bulk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/database"
)

func newTestStore(t *testing.T) (*SQLRowStore, *database.DB) {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE visitor_logs (id TEXT PRIMARY KEY, path TEXT)`,
		`CREATE TABLE site_settings (id TEXT PRIMARY KEY, is_maintenance_mode_enabled INTEGER, maintenance_message TEXT)`,
		`CREATE TABLE quick_notes (id TEXT PRIMARY KEY, user_id TEXT NOT NULL, content TEXT)`,
		`INSERT INTO visitor_logs (id, path) VALUES ('00000000-0000-0000-0000-000000000000', '/'), ('b', '/about'), ('c', '/projects')`,
		`INSERT INTO site_settings VALUES ('global_settings', 1, 'Back soon')`,
		`INSERT INTO quick_notes VALUES ('n1', 'user-u', 'a'), ('n2', 'user-u', 'b'), ('n3', 'user-v', 'c')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return NewSQLRowStore(db, logging.NewDiscardLogger()), db
}

func count(t *testing.T, db *database.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestClearTableRemovesEveryRow(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	affected, err := store.ClearTable(ctx, "visitor_logs")
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected, "the all-zero id row is a real row")
	assert.Equal(t, 0, count(t, db, `SELECT COUNT(*) FROM visitor_logs`))

	affected, err = store.ClearTable(ctx, "visitor_logs")
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestClearTableRejectsBadIdentifiers(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.ClearTable(context.Background(), "visitor_logs; DROP TABLE quick_notes")
	assert.Error(t, err)

	_, err = store.ClearTable(context.Background(), "missing_table")
	assert.Error(t, err)
}

func TestResetRow(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	values := []repositories.Assignment{{Column: "maintenance_message", Value: "Default"}}

	affected, err := store.ResetRow(ctx, "site_settings", "global_settings", values)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var message string
	var enabled int
	require.NoError(t, db.QueryRow(`SELECT maintenance_message, is_maintenance_mode_enabled FROM site_settings`).Scan(&message, &enabled))
	assert.Equal(t, "Default", message)
	assert.Equal(t, 1, enabled, "columns outside the reset stay untouched")

	affected, err = store.ResetRow(ctx, "site_settings", "missing", values)
	require.NoError(t, err)
	assert.Zero(t, affected)

	_, err = store.ResetRow(ctx, "site_settings", "global_settings", nil)
	assert.Error(t, err)
}

func TestDeleteOwnedRowsIsScoped(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	affected, err := store.DeleteOwnedRows(ctx, "quick_notes", "user_id", "user-u")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM quick_notes WHERE user_id = 'user-v'`))

	_, err = store.DeleteOwnedRows(ctx, "quick_notes", "user_id", "")
	assert.Error(t, err)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM quick_notes`))
}

func TestPingAndDatabaseSize(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	size, err := store.DatabaseSize(ctx)
	require.NoError(t, err)
	assert.Positive(t, size)
}
