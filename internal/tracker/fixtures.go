package tracker

import (
	"fmt"
)

// Seed fills m with realistic sample data relative to today. It goes through
// the normal add/toggle operations so ids and timestamps are assigned the
// usual way.
func Seed(m *Manager, today Date) error {
	due := func(days int) *Date {
		d := Date{today.AddDate(0, 0, days)}
		return &d
	}

	projectNames := []string{"Work", "Home", "Side project"}
	projectIDs := make(map[string]string)
	for _, name := range projectNames {
		p, err := m.AddProject(name)
		if err != nil {
			return fmt.Errorf("adding fixture project %s: %w", name, err)
		}
		projectIDs[name] = p.ID
	}

	fixtures := []struct {
		project string
		fields  TaskFields
		done    bool
	}{
		// Work
		{"Work", TaskFields{Title: "Write quarterly report", Description: "Numbers from finance are in the shared drive", DueDate: due(3), Priority: PriorityHigh}, false},
		{"Work", TaskFields{Title: "Review onboarding doc", DueDate: due(-2), Priority: PriorityMedium}, false},
		{"Work", TaskFields{Title: "Book team offsite venue", Priority: PriorityLow}, true},

		// Home
		{"Home", TaskFields{Title: "Fix leaking kitchen tap", Priority: PriorityHigh, DueDate: due(1)}, false},
		{"Home", TaskFields{Title: "Renew car insurance", DueDate: due(14)}, false},

		// Side project
		{"Side project", TaskFields{Title: "Sketch landing page", Description: "Two variants, one dark", Priority: PriorityMedium}, false},
		{"Side project", TaskFields{Title: "Register domain", Priority: PriorityHigh}, true},

		// Unassigned
		{"", TaskFields{Title: "Buy milk", Priority: PriorityLow}, false},
		{"", TaskFields{Title: "Call the dentist", Priority: PriorityMedium, DueDate: due(0)}, false},
	}

	for _, f := range fixtures {
		fields := f.fields
		if f.project != "" {
			id, ok := projectIDs[f.project]
			if !ok {
				continue
			}
			fields.ProjectID = StringPtr(id)
		}

		t, err := m.AddTask(fields)
		if err != nil {
			return fmt.Errorf("adding fixture task %s: %w", fields.Title, err)
		}
		if f.done {
			m.ToggleTaskStatus(t.ID)
		}
	}

	return nil
}
