package db

import (
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestOpenWithMigrations(t *testing.T) {
	db, err := OpenWithMigrations(Memory, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"schema_migrations", "runs", "folds"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	var versions int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 2, versions)
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(Memory, nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, nil))
	require.NoError(t, Migrate(db, nil))

	var versions int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 2, versions)
}

func TestMigrate_FoldsCascade(t *testing.T) {
	db, err := OpenWithMigrations(Memory, nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO runs (id, algorithm, seed, corpus, instances, features,
		mean_accuracy, stddev_accuracy, version, created_at)
		VALUES ('r1', 'knn', 1, 'c.csv', 4, 2, 0.5, 0, '0.1.0', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO folds VALUES ('r1', 1, 2, 2, 1, 0, 0, 1, 1.0, 10)`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM runs WHERE id = 'r1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM folds").Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_Errors(t *testing.T) {
	base := "CREATE TABLE schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP);"

	tests := []struct {
		name    string
		files   fstest.MapFS
		wantErr string
	}{
		{
			name: "bad sql rolls back",
			files: fstest.MapFS{
				"sqlite/migrations/000_init.sql": {Data: []byte(base)},
				"sqlite/migrations/001_bad.sql":  {Data: []byte("CREATE TABLE (")},
			},
			wantErr: "execute 001_bad.sql",
		},
		{
			name: "first migration must create schema_migrations",
			files: fstest.MapFS{
				"sqlite/migrations/001_runs.sql": {Data: []byte("CREATE TABLE runs (id TEXT);")},
			},
			wantErr: "schema_migrations table missing",
		},
		{
			name: "missing version prefix",
			files: fstest.MapFS{
				"sqlite/migrations/init.sql": {Data: []byte(base)},
			},
			wantErr: "no version prefix",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := Open(Memory, nil)
			require.NoError(t, err)
			defer db.Close()

			err = migrate(db, tt.files, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("failed migration is not recorded", func(t *testing.T) {
		db, err := Open(Memory, nil)
		require.NoError(t, err)
		defer db.Close()

		files := fstest.MapFS{
			"sqlite/migrations/000_init.sql": {Data: []byte(base)},
			"sqlite/migrations/001_bad.sql":  {Data: []byte("CREATE TABLE (")},
		}
		require.Error(t, migrate(db, files, nil))

		applied, err := appliedVersions(db)
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"000": true}, applied)
	})
}
