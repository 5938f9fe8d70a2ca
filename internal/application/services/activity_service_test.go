package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studio-one/portfolio-api/internal/domain/activity"
)

func TestActivityService_ClearRecordsWhoCleared(t *testing.T) {
	log := &memActivityLog{}
	audit := NewAuditRecorder(log, discardLogger())
	svc := NewActivityService(log, audit, discardLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.True(t, audit.Record(ctx, activity.ActionContactReplySent, "reply", "admin-1", nil))
	}

	removed, err := svc.Clear(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	entries, err := svc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.ActionActivityLogCleared, entries[0].ActionType)
	assert.Equal(t, "admin-1", entries[0].UserIdentifier)
	assert.Equal(t, activity.LogClearedDetails{EntriesRemoved: 3}, entries[0].Details)
}

func TestAuditRecorder_SwallowsFailures(t *testing.T) {
	log := &memActivityLog{insertErr: errBoom}
	audit := NewAuditRecorder(log, discardLogger())

	ok := audit.Record(context.Background(), activity.ActionDataDeletionSuccess, "x", "admin-1", nil)

	assert.False(t, ok)
	assert.Equal(t, 1, log.attempts)
}

func TestAuditRecorder_SurvivesCancelledRequest(t *testing.T) {
	log := &memActivityLog{}
	audit := NewAuditRecorder(log, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, audit.Record(ctx, activity.ActionDataDeletionSuccess, "x", "admin-1", nil))
	assert.Len(t, log.snapshot(), 1)
}
