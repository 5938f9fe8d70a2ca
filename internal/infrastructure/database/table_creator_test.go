package database

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studio-one/portfolio-api/internal/domain/deletion"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func columns(t *testing.T, db *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	require.NoError(t, err)
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		require.NoError(t, rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk))
		cols[name] = true
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestSchemaCoversEverySection(t *testing.T) {
	db := openMemory(t)
	tc := NewTableCreator()
	require.NoError(t, tc.CreateSchema(db))

	for _, plan := range deletion.DefaultPlans() {
		for _, table := range plan.TablesToClear {
			assert.NotEmpty(t, columns(t, db, table), "section %s clears missing table %s", plan.Key, table)
		}
		for _, reset := range plan.TablesToReset {
			cols := columns(t, db, reset.Table)
			for _, f := range reset.Fields {
				assert.True(t, cols[f.Column], "section %s resets missing column %s.%s", plan.Key, reset.Table, f.Column)
			}
		}
		switch s := plan.Special.(type) {
		case deletion.DeleteOwnedRows:
			assert.True(t, columns(t, db, s.Table)[s.OwnerColumn])
		case deletion.ResetSharedField:
			cols := columns(t, db, s.Table)
			for _, f := range s.Fields {
				assert.True(t, cols[f.Column])
			}
		}
	}
}

func TestSeedInitialContentIsIdempotent(t *testing.T) {
	db := openMemory(t)
	tc := NewTableCreator()
	require.NoError(t, tc.CreateSchema(db))
	require.NoError(t, tc.SeedInitialContent(db))
	require.NoError(t, tc.SeedInitialContent(db))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM legal_documents`).Scan(&count))
	assert.Equal(t, 2, count)

	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM hero_content WHERE id = ?`, deletion.HeroContentID).Scan(&count))
	assert.Equal(t, 1, count)

	var message string
	require.NoError(t, db.QueryRow(`SELECT maintenance_message FROM site_settings WHERE id = ?`, deletion.SiteSettingsID).Scan(&message))
	assert.NotEmpty(t, message)
}
