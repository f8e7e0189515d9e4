package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.db")
	require.NoError(t, Initialize(path))

	d, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d, path
}

func TestInitialize_CreatesFileAndRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")

	require.NoError(t, Initialize(path))
	assert.True(t, Exists(path))

	err := Initialize(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestOpen_MissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tasks-tui init")
}

func TestGet_NotFound(t *testing.T) {
	d, _ := openTemp(t)

	_, err := d.Get("tasks")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutGet_Overwrites(t *testing.T) {
	d, _ := openTemp(t)

	require.NoError(t, d.Put("tasks", []byte(`[]`)))
	require.NoError(t, d.Put("tasks", []byte(`[{"id":"a"}]`)))

	got, err := d.Get("tasks")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))
}

func TestPut_EmptyKey(t *testing.T) {
	d, _ := openTemp(t)
	assert.Error(t, d.Put("", []byte("x")))
}

// timestamps reads the bookkeeping columns for key
func timestamps(t *testing.T, d *DB, key string) (time.Time, time.Time) {
	t.Helper()
	var created, updated time.Time
	require.NoError(t, d.conn.QueryRow(
		`SELECT created_at, updated_at FROM kv WHERE key = ?`, key,
	).Scan(&created, &updated))
	return created, updated
}

func TestPut_TracksTimestamps(t *testing.T) {
	d, _ := openTemp(t)

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d.now = func() time.Time { return first }
	require.NoError(t, d.Put("projects", []byte(`[]`)))

	second := first.Add(time.Hour)
	d.now = func() time.Time { return second }
	require.NoError(t, d.Put("projects", []byte(`[{}]`)))

	got, err := d.Get("projects")
	require.NoError(t, err)
	assert.Equal(t, "[{}]", string(got))

	created, updated := timestamps(t, d, "projects")
	assert.True(t, created.Equal(first), "created_at must survive overwrite, got %v", created)
	assert.True(t, updated.Equal(second), "updated_at must follow the write, got %v", updated)
}

func TestKeys(t *testing.T) {
	d, _ := openTemp(t)

	keys, err := d.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, d.Put("tasks", []byte(`[]`)))
	require.NoError(t, d.Put("projects", []byte(`[]`)))

	keys, err = d.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"projects", "tasks"}, keys)
}

func TestPersistsAcrossReopen(t *testing.T) {
	d, path := openTemp(t)
	require.NoError(t, d.Put("tasks", []byte(`["kept"]`)))
	require.NoError(t, d.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get("tasks")
	require.NoError(t, err)
	assert.Equal(t, `["kept"]`, string(got))
}

func TestRunMigrations_UpgradesLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL);
		INSERT INTO kv (key, value) VALUES ('tasks', '[]');`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	d, err := Open(path)
	require.NoError(t, err)
	defer d.Close()

	var version int
	require.NoError(t, d.conn.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	got, err := d.Get("tasks")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	_, updated := timestamps(t, d, "tasks")
	assert.False(t, updated.IsZero())

	// a second open is a no-op
	require.NoError(t, d.RunMigrations())
}

func TestMain(m *testing.M) {
	log.SetOutput(discard{})
	os.Exit(m.Run())
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
