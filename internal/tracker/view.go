package tracker

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// State is a detached copy of everything a view depends on.
type State struct {
	Tasks    []Task
	Projects []Project
	Selected *string
	Filters  Filters
}

// TaskRow is one line of the task list.
type TaskRow struct {
	Task Task
	// ProjectName is empty when the task is unassigned or its project is gone.
	ProjectName string
	Icon        string
	Label       string
	Due         string
	Overdue     bool
}

// ProjectRow is one line of the project list.
type ProjectRow struct {
	Project   Project
	Selected  bool
	TaskCount int
}

// View is the pure view model a renderer draws from.
type View struct {
	Tasks        []TaskRow
	Projects     []ProjectRow
	Selected     *string
	SelectedName string
	Filters      Filters
	EmptyMessage string

	TotalTasks     int
	CompletedTasks int
}

// BuildView derives the view model from s. today decides which rows are
// overdue.
func BuildView(s State, today Date) View {
	names := make(map[string]string, len(s.Projects))
	counts := make(map[string]int, len(s.Projects))
	for _, p := range s.Projects {
		names[p.ID] = p.Name
	}

	v := View{
		Selected: clonePtr(s.Selected),
		Filters:  s.Filters,
	}

	for _, t := range s.Tasks {
		v.TotalTasks++
		if t.Completed {
			v.CompletedTasks++
		}
		if t.ProjectID != nil {
			counts[*t.ProjectID]++
		}
	}

	for _, p := range s.Projects {
		v.Projects = append(v.Projects, ProjectRow{
			Project:   p,
			Selected:  s.Selected != nil && *s.Selected == p.ID,
			TaskCount: counts[p.ID],
		})
	}

	filtered := filterTasks(s.Tasks, s.Selected, s.Filters)
	sortForDisplay(filtered)
	for _, t := range filtered {
		row := TaskRow{
			Task:    t,
			Icon:    PriorityIcon(t.Priority),
			Label:   Capitalize(string(t.Priority)),
			Due:     FormatDueDate(t.DueDate),
			Overdue: !t.Completed && t.DueDate != nil && t.DueDate.Before(today),
		}
		if t.ProjectID != nil {
			row.ProjectName = names[*t.ProjectID]
		}
		v.Tasks = append(v.Tasks, row)
	}

	if s.Selected != nil {
		name, ok := names[*s.Selected]
		if !ok {
			name = "Unknown"
		}
		v.SelectedName = name
	}

	if len(v.Tasks) == 0 {
		v.EmptyMessage = "No tasks found"
		if s.Selected != nil {
			v.EmptyMessage = fmt.Sprintf("No tasks found in project %q", v.SelectedName)
		}
	}

	return v
}

// PriorityIcon maps a priority to its badge glyph. The renderer colours it.
func PriorityIcon(p Priority) string {
	if p.Valid() {
		return "●"
	}
	return "○"
}

// Capitalize upper-cases the first letter of s and leaves the rest alone.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Title(language.Und, cases.NoLower).String(s[:size]) + s[size:]
}

// FormatDueDate renders a due date for display.
func FormatDueDate(d *Date) string {
	if d == nil {
		return "No deadline"
	}
	return d.String()
}
