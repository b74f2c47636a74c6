package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/rubberband/assets"
)

func TestMigrate_Idempotent(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "nested", "rb.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrate(db))
	require.NoError(t, migrate(db))

	migs, err := assets.Migrations()
	require.NoError(t, err)
	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&applied))
	assert.Equal(t, len(migs), applied)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM game_results`).Scan(&n))
	assert.Zero(t, n)
}

func TestSelfManaged(t *testing.T) {
	assert.True(t, selfManaged("pragma foreign_keys=off; ..."))
	assert.True(t, selfManaged("BEGIN TRANSACTION; COMMIT;"))
	assert.False(t, selfManaged("CREATE TABLE x (id TEXT);"))
}
