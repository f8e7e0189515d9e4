package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pdxmph/tasks-tui/internal/storage"
	"github.com/pdxmph/tasks-tui/internal/tracker"
)

const reportID = "0190a3c2-7b1e-7c3d-8e4f-123456789abc"

func testSnapshot() Snapshot {
	due := tracker.NewDate(2026, 3, 5)
	projects := []tracker.Project{
		{ID: "P1", Name: "Work", CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	tasks := []tracker.Task{
		{
			ID:          reportID,
			Title:       "Write report",
			Description: "Quarterly numbers",
			DueDate:     &due,
			Priority:    tracker.PriorityHigh,
			ProjectID:   tracker.StringPtr("P1"),
			CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "T2",
			Title:     "Buy milk",
			Priority:  tracker.PriorityLow,
			Completed: true,
			CreatedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	state := tracker.State{Tasks: tasks, Projects: projects, Filters: tracker.DefaultFilters()}
	return Snapshot{
		Tasks:      tasks,
		Projects:   projects,
		View:       tracker.BuildView(state, tracker.NewDate(2026, 3, 10)),
		ExportedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONExporter{}.Export(&buf, testSnapshot()))
	newGoldie(t).Assert(t, t.Name(), buf.Bytes())
}

func TestJSONExporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONExporter{}.Export(&buf, Snapshot{}))
	assert.JSONEq(t, `{"projects":[],"tasks":[]}`, buf.String())
}

func TestTextExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextExporter{}.Export(&buf, testSnapshot()))
	newGoldie(t).Assert(t, t.Name(), buf.Bytes())
}

func TestTextExporterEmptyView(t *testing.T) {
	snap := testSnapshot()
	state := tracker.State{
		Tasks:    snap.Tasks,
		Projects: snap.Projects,
		Selected: tracker.StringPtr("P1"),
		Filters:  tracker.Filters{Status: tracker.StatusCompleted, Priority: tracker.PriorityAll},
	}
	snap.View = tracker.BuildView(state, tracker.NewDate(2026, 3, 10))

	var buf bytes.Buffer
	require.NoError(t, TextExporter{}.Export(&buf, snap))
	assert.Equal(t, "No tasks found in project \"Work\"\n", buf.String())
}

func TestTaskWarriorExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TaskWarriorExporter{}.Export(&buf, testSnapshot()))
	newGoldie(t).Assert(t, t.Name(), buf.Bytes())
}

func TestTaskWarriorUUIDIsStable(t *testing.T) {
	assert.Equal(t, reportID, taskWarriorUUID(reportID))
	assert.Equal(t, taskWarriorUUID("T2"), taskWarriorUUID("T2"))
	assert.NotEqual(t, taskWarriorUUID("T2"), taskWarriorUUID("T3"))
}

func TestTaskWarriorPriority(t *testing.T) {
	assert.Equal(t, "H", taskWarriorPriority(tracker.PriorityHigh))
	assert.Equal(t, "M", taskWarriorPriority(tracker.PriorityMedium))
	assert.Equal(t, "L", taskWarriorPriority(tracker.PriorityLow))
	assert.Equal(t, "", taskWarriorPriority("urgent"))
}

func TestTaskWarriorDanglingProject(t *testing.T) {
	snap := testSnapshot()
	snap.Projects = nil

	tw := convertToTaskWarrior(snap.Tasks[0], snap.projectName(snap.Tasks[0].ProjectID))
	assert.Empty(t, tw.Project)
}

func TestYAMLExporterGroupsByProject(t *testing.T) {
	snap := testSnapshot()
	// A task pointing at a project that no longer exists.
	snap.Tasks = append(snap.Tasks, tracker.Task{
		ID:        "T3",
		Title:     "Orphan",
		Priority:  tracker.PriorityMedium,
		ProjectID: tracker.StringPtr("gone"),
	})

	var buf bytes.Buffer
	require.NoError(t, YAMLExporter{}.Export(&buf, snap))

	var doc yamlDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2026-03-10T12:00:00Z", doc.ExportedAt)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "Work", doc.Projects[0].Name)
	require.Len(t, doc.Projects[0].Tasks, 1)
	assert.Equal(t, "Write report", doc.Projects[0].Tasks[0].Title)
	assert.Equal(t, "2026-03-05", doc.Projects[0].Tasks[0].Due)
	assert.Equal(t, "Work", doc.Projects[0].Tasks[0].Project)

	require.Len(t, doc.Unassigned, 2)
	assert.Equal(t, "Buy milk", doc.Unassigned[0].Title)
	assert.True(t, doc.Unassigned[0].Completed)
	assert.Equal(t, "Orphan", doc.Unassigned[1].Title)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "taskwarrior", "text", "yaml"}, Formats())
}

func TestNewUnknownFormat(t *testing.T) {
	e, err := New("json")
	require.NoError(t, err)
	assert.Equal(t, "json", e.Name())

	_, err = New("csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown export format "csv"`)
	assert.Contains(t, err.Error(), "available: json, taskwarrior, text, yaml")
}

func TestRegisterTwicePanics(t *testing.T) {
	assert.PanicsWithValue(t, "export: Register called twice for json", func() {
		Register("json", func() Exporter { return JSONExporter{} })
	})
	assert.Equal(t, []string{"json", "taskwarrior", "text", "yaml"}, Formats())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteWrapsExporterErrors(t *testing.T) {
	err := Write("text", failingWriter{}, testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporting text")

	err = Write("csv", &bytes.Buffer{}, testSnapshot())
	assert.Error(t, err)
}

func TestNewSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m := tracker.New(storage.New(storage.NewMemoryKV(), nil),
		tracker.WithClock(func() time.Time { return now }),
		tracker.WithIDGenerator(tracker.NewFixedGenerator("P1", "T1")),
	)
	m.Initialize()

	p, err := m.AddProject("Work")
	require.NoError(t, err)
	_, err = m.AddTask(tracker.TaskFields{Title: "Plan", ProjectID: &p.ID})
	require.NoError(t, err)

	snap := NewSnapshot(m, now)
	assert.Len(t, snap.Tasks, 1)
	assert.Len(t, snap.Projects, 1)
	require.Len(t, snap.View.Tasks, 1)
	assert.Equal(t, "Work", snap.View.Tasks[0].ProjectName)
	assert.Equal(t, now, snap.ExportedAt)
}
