package tracker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildView_RowsAndCounts(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	past := NewDate(2026, 3, 5)
	future := NewDate(2026, 3, 20)
	s := State{
		Projects: []Project{{ID: "p1", Name: "Work", CreatedAt: created}, {ID: "p2", Name: "Home", CreatedAt: created}},
		Tasks: []Task{
			{ID: "t1", Title: "late", Priority: PriorityHigh, ProjectID: StringPtr("p1"), DueDate: &past},
			{ID: "t2", Title: "later", Priority: PriorityLow, DueDate: &future},
			{ID: "t3", Title: "orphan", Priority: PriorityMedium, ProjectID: StringPtr("deleted")},
			{ID: "t4", Title: "done late", Priority: PriorityMedium, ProjectID: StringPtr("p1"), DueDate: &past, Completed: true},
		},
		Selected: StringPtr("p1"),
		Filters:  DefaultFilters(),
	}

	v := BuildView(s, NewDate(2026, 3, 10))

	assert.Equal(t, 4, v.TotalTasks)
	assert.Equal(t, 1, v.CompletedTasks)
	assert.Equal(t, "Work", v.SelectedName)
	assert.Empty(t, v.EmptyMessage)

	require.Len(t, v.Projects, 2)
	assert.True(t, v.Projects[0].Selected)
	assert.Equal(t, 2, v.Projects[0].TaskCount)
	assert.False(t, v.Projects[1].Selected)
	assert.Equal(t, 0, v.Projects[1].TaskCount)

	require.Len(t, v.Tasks, 2)
	late := v.Tasks[0]
	assert.Equal(t, "late", late.Task.Title)
	assert.Equal(t, "Work", late.ProjectName)
	assert.Equal(t, "●", late.Icon)
	assert.Equal(t, "High", late.Label)
	assert.Equal(t, "2026-03-05", late.Due)
	assert.True(t, late.Overdue)
	assert.False(t, v.Tasks[1].Overdue, "completed tasks are never overdue")

	s.Selected = nil
	v = BuildView(s, NewDate(2026, 3, 10))
	for _, row := range v.Tasks {
		if row.Task.ID == "t3" {
			assert.Empty(t, row.ProjectName, "dangling project reference shows no badge")
		}
		if row.Task.ID == "t2" {
			assert.Equal(t, "2026-03-20", row.Due)
			assert.False(t, row.Overdue)
		}
	}
}

func TestBuildView_EmptyMessages(t *testing.T) {
	today := NewDate(2026, 3, 10)

	v := BuildView(State{Filters: DefaultFilters()}, today)
	assert.Equal(t, "No tasks found", v.EmptyMessage)

	v = BuildView(State{
		Projects: []Project{{ID: "p1", Name: "Work"}},
		Selected: StringPtr("p1"),
		Filters:  DefaultFilters(),
	}, today)
	assert.Equal(t, `No tasks found in project "Work"`, v.EmptyMessage)

	v = BuildView(State{Selected: StringPtr("ghost"), Filters: DefaultFilters()}, today)
	assert.Equal(t, `No tasks found in project "Unknown"`, v.EmptyMessage)
}

func TestPriorityIcon(t *testing.T) {
	assert.Equal(t, "●", PriorityIcon(PriorityHigh))
	assert.Equal(t, "●", PriorityIcon(PriorityMedium))
	assert.Equal(t, "●", PriorityIcon(PriorityLow))
	assert.Equal(t, "○", PriorityIcon(Priority("urgent")))
	assert.Equal(t, "○", PriorityIcon(""))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Medium", Capitalize("medium"))
	assert.Equal(t, "HIGH", Capitalize("HIGH"))
	assert.Equal(t, "ÉCole", Capitalize("éCole"))
	assert.Equal(t, "", Capitalize(""))
}

func TestFormatDueDate(t *testing.T) {
	d := NewDate(2026, 12, 31)
	assert.Equal(t, "No deadline", FormatDueDate(nil))
	assert.Equal(t, "2026-12-31", FormatDueDate(&d))
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2026, 7, 4)
	data, err := json.Marshal(struct {
		Due  *Date `json:"due"`
		None *Date `json:"none"`
	}{Due: &d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2026-07-04","none":null}`, string(data))

	var got Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-07-04T15:30:00Z"`), &got))
	assert.Equal(t, d, got, "older timestamp form is truncated to the day")

	assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &got))
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" High ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}
