package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studio-one/portfolio-api/internal/domain/activity"
	"github.com/studio-one/portfolio-api/internal/domain/deletion"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/database"
)

func newTestRepository(t *testing.T) *SQLActivityRepository {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE admin_activity_log (id TEXT PRIMARY KEY, action_type TEXT NOT NULL, description TEXT NOT NULL, user_identifier TEXT, details TEXT, created_at TEXT NOT NULL)`)
	require.NoError(t, err)
	return NewSQLActivityRepository(db, logging.NewDiscardLogger())
}

func TestInsertAndList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	report := deletion.NewReport([]string{"visitor_analytics"}, "admin-1", base)
	report.Finish(base.Add(time.Second))

	first := &activity.Entry{
		ActionType:     activity.ActionDataDeletionSuccess,
		Description:    "Admin deleted data for sections: Visitor Analytics Data. Status: Complete.",
		UserIdentifier: "admin-1",
		Details:        activity.DeletionDetails{RequestedSectionKeys: []string{"visitor_analytics"}, Report: report},
		CreatedAt:      base,
	}
	require.NoError(t, repo.Insert(ctx, first))
	assert.Len(t, first.ID, 26, "ids are ULIDs")

	second := &activity.Entry{
		ActionType:     activity.ActionActivityLogCleared,
		Description:    "Activity log cleared.",
		UserIdentifier: "admin-1",
		CreatedAt:      base.Add(500 * time.Millisecond),
	}
	require.NoError(t, repo.Insert(ctx, second))

	entries, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, second.ID, entries[0].ID, "newest first")
	assert.Nil(t, entries[0].Details)

	got := entries[1]
	assert.Equal(t, activity.ActionDataDeletionSuccess, got.ActionType)
	assert.True(t, got.CreatedAt.Equal(base))
	raw, ok := got.Details.(activity.RawDetails)
	require.True(t, ok)
	assert.Equal(t, "data_deletion", raw.Kind())
	assert.Equal(t, []any{"visitor_analytics"}, raw.Payload["requestedSectionKeys"])
	assert.Contains(t, raw.Payload, "report")
}

func TestListLimit(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, &activity.Entry{
			ActionType:  activity.ActionContactReplySent,
			Description: "Reply sent.",
		}))
	}

	entries, err := repo.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestClear(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, &activity.Entry{ActionType: activity.ActionContactReplySent, Description: "Reply sent."}))
	}

	removed, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	entries, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
