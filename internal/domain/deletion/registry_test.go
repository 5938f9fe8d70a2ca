package deletion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	sections := reg.Sections()
	require.Len(t, sections, 18)
	assert.Equal(t, "hero", sections[0].Key)
	assert.Equal(t, "site_maintenance_message_reset", sections[len(sections)-1].Key)

	for _, p := range sections {
		for _, bucket := range p.BucketsToEmpty {
			assert.False(t, IsProtectedBucket(bucket), "section %s empties protected bucket %s", p.Key, bucket)
		}
	}
}

func TestRegistryResolve(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	tests := []struct {
		name    string
		key     string
		wantKey string
		wantErr error
	}{
		{name: "canonical key", key: "projects", wantKey: "projects"},
		{name: "grouped alias", key: "projects_all", wantKey: "projects"},
		{name: "activity log alias", key: "admin_activity_log", wantKey: "activity_log"},
		{name: "unknown key", key: "not_a_real_section", wantErr: ErrUnknownSection},
		{name: "empty key", key: "", wantErr: ErrUnknownSection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := reg.Resolve(tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, plan.Key)
		})
	}
}

func TestRegistryResolveAll(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	t.Run("empty list", func(t *testing.T) {
		_, err := reg.ResolveAll(nil)
		assert.ErrorIs(t, err, ErrNoSections)
	})

	t.Run("one unknown key rejects the whole list", func(t *testing.T) {
		resolved, err := reg.ResolveAll([]string{"projects", "not_a_real_section"})
		assert.ErrorIs(t, err, ErrUnknownSection)
		assert.Contains(t, err.Error(), "not_a_real_section")
		assert.Nil(t, resolved)
	})

	t.Run("keeps request order and collapses duplicates", func(t *testing.T) {
		resolved, err := reg.ResolveAll([]string{"visitor_analytics", "resume_all", "resume", "visitor_analytics"})
		require.NoError(t, err)
		require.Len(t, resolved, 2)
		assert.Equal(t, "visitor_analytics", resolved[0].Plan.Key)
		assert.Equal(t, "resume", resolved[1].Plan.Key)
		assert.Equal(t, "resume_all", resolved[1].RequestedKey)
	})
}

func TestRegistryReturnsCopies(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	plan, err := reg.Resolve("resume")
	require.NoError(t, err)
	plan.TablesToClear[0] = "users"
	plan.TablesToReset[0].Fields[0].Value = "tampered"

	again, err := reg.Resolve("resume")
	require.NoError(t, err)
	assert.Equal(t, "resume_experience", again.TablesToClear[0])
	assert.NotEqual(t, "tampered", again.TablesToReset[0].Fields[0].Value)
}

func TestNewRegistryValidation(t *testing.T) {
	field := []Field{{Column: "title", Value: "x"}}

	tests := []struct {
		name    string
		plans   []Plan
		aliases map[string]string
	}{
		{
			name: "duplicate key",
			plans: []Plan{
				{Key: "a", Label: "A", TablesToClear: []string{"t"}},
				{Key: "a", Label: "A again", TablesToClear: []string{"u"}},
			},
		},
		{
			name:  "missing label",
			plans: []Plan{{Key: "a", TablesToClear: []string{"t"}}},
		},
		{
			name:  "empty plan",
			plans: []Plan{{Key: "a", Label: "A"}},
		},
		{
			name: "table both cleared and reset",
			plans: []Plan{{
				Key:           "a",
				Label:         "A",
				TablesToClear: []string{"settings"},
				TablesToReset: []ResetRow{{Table: "settings", ID: "1", Fields: field}},
			}},
		},
		{
			name: "reset without id",
			plans: []Plan{{
				Key:           "a",
				Label:         "A",
				TablesToReset: []ResetRow{{Table: "settings", Fields: field}},
			}},
		},
		{
			name: "reset without fields",
			plans: []Plan{{
				Key:           "a",
				Label:         "A",
				TablesToReset: []ResetRow{{Table: "settings", ID: "1"}},
			}},
		},
		{
			name:  "table name is not an identifier",
			plans: []Plan{{Key: "a", Label: "A", TablesToClear: []string{"users; DROP TABLE x"}}},
		},
		{
			name:  "protected bucket",
			plans: []Plan{{Key: "a", Label: "A", BucketsToEmpty: []string{"admin-profile-photos"}}},
		},
		{
			name: "owner scoped step on a cleared table",
			plans: []Plan{{
				Key:           "a",
				Label:         "A",
				TablesToClear: []string{"quick_notes"},
				Special:       DeleteOwnedRows{Name: SpecialDeleteUserQuickNotes, Table: "quick_notes", OwnerColumn: "user_id"},
			}},
		},
		{
			name:    "alias to unknown section",
			plans:   []Plan{{Key: "a", Label: "A", TablesToClear: []string{"t"}}},
			aliases: map[string]string{"b": "missing"},
		},
		{
			name:    "alias shadows a key",
			plans:   []Plan{{Key: "a", Label: "A", TablesToClear: []string{"t"}}},
			aliases: map[string]string{"a": "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.plans, tt.aliases)
			assert.ErrorIs(t, err, ErrInvalidPlan)
			assert.Nil(t, reg)
		})
	}
}

func TestPlanStepsOrder(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	plan, err := reg.Resolve("resume")
	require.NoError(t, err)

	var types []StepType
	for _, step := range plan.Steps() {
		types = append(types, step.Type())
	}
	require.Len(t, types, 11)
	assert.Equal(t, StepTableClear, types[0])
	assert.Equal(t, StepTableReset, types[6])
	assert.Equal(t, StepBucketEmpty, types[7])
	assert.Equal(t, StepBucketEmpty, types[10])

	notes, err := reg.Resolve("quick_notes_user")
	require.NoError(t, err)
	steps := notes.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, StepSpecialHandling, steps[0].Type())
	assert.Equal(t, SpecialDeleteUserQuickNotes, notes.SpecialHandlingName())
}

func TestFieldResolveNow(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	assert.Equal(t, "2024-05-01T10:00:00Z", Field{Column: "updated_at", Value: Now}.Resolve(at))
	assert.Equal(t, "x", Field{Column: "title", Value: "x"}.Resolve(at))
	assert.Nil(t, Field{Column: "phone", Value: nil}.Resolve(at))
}
