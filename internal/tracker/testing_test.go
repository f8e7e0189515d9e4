package tracker

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/pdxmph/tasks-tui/internal/logging"
	"github.com/pdxmph/tasks-tui/internal/storage"
)

// stepClock advances by a fixed step on every reading.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), step: time.Second}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// recordingStore is a Persister that counts saves on top of an in-memory adapter.
type recordingStore struct {
	*storage.Adapter
	kv    *storage.MemoryKV
	saves map[string]int
}

func (r *recordingStore) Save(key string, v any) {
	r.saves[key]++
	r.Adapter.Save(key, v)
}

type fixture struct {
	m     *Manager
	store *recordingStore
	clock *stepClock
	logs  *bytes.Buffer
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	var logs bytes.Buffer
	logger := logging.New()
	logger.SetOutput(&logs)

	kv := storage.NewMemoryKV()
	store := &recordingStore{Adapter: storage.New(kv, logger), kv: kv, saves: map[string]int{}}
	clock := newStepClock()

	all := append([]Option{WithClock(clock.Now), WithLogger(logger)}, opts...)
	m := New(store, all...)
	m.Initialize()

	return &fixture{m: m, store: store, clock: clock, logs: &logs}
}

func (f *fixture) addTask(t *testing.T, fields TaskFields) Task {
	t.Helper()
	task, err := f.m.AddTask(fields)
	if err != nil {
		t.Fatalf("AddTask(%q) failed: %v", fields.Title, err)
	}
	return task
}

func (f *fixture) addProject(t *testing.T, name string) Project {
	t.Helper()
	p, err := f.m.AddProject(name)
	if err != nil {
		t.Fatalf("AddProject(%q) failed: %v", name, err)
	}
	return p
}

func titles(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}
