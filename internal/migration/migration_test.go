package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitchain/migrations"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func memFS(files map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, body := range files {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

func TestCurrentVersion_FreshDatabase(t *testing.T) {
	r := NewRunner(openDB(t), memFS(nil))
	v, err := r.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestMigrations_SortedAndFiltered(t *testing.T) {
	r := NewRunner(openDB(t), memFS(map[string]string{
		"010_later.sql":  "SELECT 1;",
		"002_second.sql": "SELECT 1;",
		"001_first.sql":  "SELECT 1;",
		"README.md":      "ignored",
	}))

	ms, err := r.Migrations()
	require.NoError(t, err)
	require.Len(t, ms, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{ms[0].Version, ms[1].Version, ms[2].Version})
	assert.Equal(t, "second", ms[1].Name)

	latest, err := r.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, 10, latest)
}

func TestMigrations_InvalidNames(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"no underscore", map[string]string{"001.sql": ""}},
		{"not a number", map[string]string{"abc_init.sql": ""}},
		{"version zero", map[string]string{"000_init.sql": ""}},
		{"duplicate", map[string]string{"001_a.sql": "", "1_b.sql": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(openDB(t), memFS(tt.files)).Migrations()
			assert.Error(t, err)
		})
	}
}

func TestApply(t *testing.T) {
	db := openDB(t)
	files := memFS(map[string]string{
		"001_create.sql": "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT);",
		"002_seed.sql":   "INSERT INTO items (name) VALUES ('a'), ('b');",
	})
	r := NewRunner(db, files)

	n, err := r.Apply()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, err := r.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	var count int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM items").Scan(&count))
	assert.Equal(t, 2, count)

	// Second run is a no-op
	n, err = r.Apply()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// A new file is picked up incrementally
	files["003_more.sql"] = &fstest.MapFile{Data: []byte("INSERT INTO items (name) VALUES ('c');")}
	n, err = r.Apply()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, db.QueryRow("SELECT count(*) FROM items").Scan(&count))
	assert.Equal(t, 3, count)
}

func TestApply_FailureRollsBack(t *testing.T) {
	db := openDB(t)
	r := NewRunner(db, memFS(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER; garbage",
	}))

	n, err := r.Apply()
	require.Error(t, err)
	assert.Equal(t, 1, n)

	v, err := r.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestValidateVersion(t *testing.T) {
	db := openDB(t)
	r := NewRunner(db, memFS(map[string]string{"001_init.sql": "CREATE TABLE t (id INTEGER);"}))
	_, err := r.Apply()
	require.NoError(t, err)
	require.NoError(t, r.ValidateVersion())

	_, err = db.Exec("UPDATE schema_version SET version = 99")
	require.NoError(t, err)

	assert.ErrorIs(t, r.ValidateVersion(), ErrSchemaTooNew)
	_, err = r.Apply()
	assert.ErrorIs(t, err, ErrSchemaTooNew)
}

func TestWithPlaceholder(t *testing.T) {
	r := NewRunner(openDB(t), memFS(nil), WithPlaceholder(sq.Dollar))
	query, _, err := r.sql.Insert(versionTable).Columns("version").Values(1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO schema_version (version) VALUES ($1)", query)
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	require.NoError(t, err)

	db := openDB(t)
	r := NewRunner(db, sub)
	_, err = r.Apply()
	require.NoError(t, err)

	for _, table := range []string{"habits", "habit_completions"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
}

func TestEmbeddedPostgresMigrationsParse(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "postgres")
	require.NoError(t, err)

	ms, err := NewRunner(nil, sub).Migrations()
	require.NoError(t, err)
	assert.NotEmpty(t, ms)
}
