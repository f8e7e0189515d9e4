package storage

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/tasks-tui/internal/db"
	"github.com/pdxmph/tasks-tui/internal/logging"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// failingKV simulates a store that is full or unavailable.
type failingKV struct {
	getErr error
	putErr error
	data   []byte
}

func (f *failingKV) Get(string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data, nil
}

func (f *failingKV) Put(string, []byte) error { return f.putErr }

func newAdapter(kv KV) (*Adapter, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logging.New()
	logger.SetOutput(&buf)
	return New(kv, logger), &buf
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	a, _ := newAdapter(NewMemoryKV())

	a.Save(KeyProjects, []record{{ID: "p1", Name: "Work"}})

	var got []record
	require.True(t, a.Load(KeyProjects, &got))
	assert.Equal(t, []record{{ID: "p1", Name: "Work"}}, got)
}

func TestLoad_AbsentKeyIsNotAnError(t *testing.T) {
	a, logs := newAdapter(NewMemoryKV())

	var got []record
	assert.False(t, a.Load(KeyTasks, &got))
	assert.Nil(t, got)
	assert.Empty(t, logs.String())
}

func TestLoad_CorruptDataIsAbsentAndLogged(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(KeyTasks, []byte(`[{"id":`)))
	a, logs := newAdapter(kv)

	got := []record{{ID: "keep"}}
	assert.False(t, a.Load(KeyTasks, &got))
	assert.Equal(t, []record{{ID: "keep"}}, got, "target must be untouched")
	assert.Contains(t, logs.String(), "storage_load_failed")
}

func TestLoad_TypeMismatchLeavesTargetUntouched(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(KeyTasks, []byte(`[{"id":"a","name":"x"},{"id":7}]`)))
	a, _ := newAdapter(kv)

	var got []record
	assert.False(t, a.Load(KeyTasks, &got))
	assert.Nil(t, got)
}

func TestLoad_NullIsAbsent(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(KeyTasks, []byte(`null`)))
	a, _ := newAdapter(kv)

	var got []record
	assert.False(t, a.Load(KeyTasks, &got))
}

func TestLoad_StoreErrorIsAbsentAndLogged(t *testing.T) {
	a, logs := newAdapter(&failingKV{getErr: errors.New("disk on fire")})

	var got []record
	assert.False(t, a.Load(KeyTasks, &got))
	assert.Contains(t, logs.String(), "disk on fire")
}

func TestSave_StoreFailureIsContained(t *testing.T) {
	a, logs := newAdapter(&failingKV{putErr: errors.New("quota exceeded")})

	assert.NotPanics(t, func() { a.Save(KeyTasks, []record{{ID: "a"}}) })
	assert.Contains(t, logs.String(), "ERROR")
	assert.Contains(t, logs.String(), "quota exceeded")
}

func TestSave_SerializationFailureIsContained(t *testing.T) {
	kv := NewMemoryKV()
	a, logs := newAdapter(kv)

	a.Save(KeyTasks, map[string]any{"bad": make(chan int)})

	assert.Contains(t, logs.String(), "storage_save_failed")
	_, err := kv.Get(KeyTasks)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestAdapter_OverSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	require.NoError(t, db.Initialize(path))
	store, err := db.Open(path)
	require.NoError(t, err)
	defer store.Close()

	a, _ := newAdapter(store)
	a.Save(KeyProjects, []record{{ID: "p1", Name: "Home"}})

	var got []record
	require.True(t, a.Load(KeyProjects, &got))
	assert.Equal(t, "Home", got[0].Name)
}
