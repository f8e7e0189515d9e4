package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdxmph/tasks-tui/internal/tracker"
)

// twTimeLayout is TaskWarrior's compact UTC timestamp format
const twTimeLayout = "20060102T150405Z"

// twNamespace derives stable TaskWarrior uuids for ids that are not UUIDs
var twNamespace = uuid.MustParse("6f1c7f9e-3b7a-4f65-9d1e-2a64f0d3c8b1")

// taskWarriorTask represents a task in TaskWarrior's import format
type taskWarriorTask struct {
	UUID        string         `json:"uuid"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Entry       string         `json:"entry"`
	Modified    string         `json:"modified"`
	End         string         `json:"end,omitempty"`
	Due         string         `json:"due,omitempty"`
	Priority    string         `json:"priority,omitempty"`
	Project     string         `json:"project,omitempty"`
	Annotations []twAnnotation `json:"annotations,omitempty"`
}

type twAnnotation struct {
	Entry       string `json:"entry"`
	Description string `json:"description"`
}

// TaskWarriorExporter writes JSON accepted by `task import`
type TaskWarriorExporter struct{}

// Name returns the format identifier
func (TaskWarriorExporter) Name() string { return "taskwarrior" }

// Export writes every task as a TaskWarrior record
func (TaskWarriorExporter) Export(w io.Writer, s Snapshot) error {
	out := make([]taskWarriorTask, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		out = append(out, convertToTaskWarrior(t, s.projectName(t.ProjectID)))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// convertToTaskWarrior maps a tracker task onto TaskWarrior's fields
func convertToTaskWarrior(t tracker.Task, project string) taskWarriorTask {
	tw := taskWarriorTask{
		UUID:        taskWarriorUUID(t.ID),
		Description: t.Title,
		Status:      "pending",
		Entry:       twTime(t.CreatedAt),
		Modified:    twTime(t.UpdatedAt),
		Priority:    taskWarriorPriority(t.Priority),
		Project:     project,
	}

	if t.Completed {
		tw.Status = "completed"
		tw.End = twTime(t.UpdatedAt)
	}

	if t.DueDate != nil {
		tw.Due = twTime(t.DueDate.Time)
	}

	if t.Description != "" {
		tw.Annotations = []twAnnotation{{Entry: twTime(t.CreatedAt), Description: t.Description}}
	}

	return tw
}

// taskWarriorUUID keeps UUID ids as they are and derives a stable UUID for
// anything else, so repeated imports update instead of duplicating
func taskWarriorUUID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return uuid.NewSHA1(twNamespace, []byte(id)).String()
}

func taskWarriorPriority(p tracker.Priority) string {
	switch p {
	case tracker.PriorityHigh:
		return "H"
	case tracker.PriorityMedium:
		return "M"
	case tracker.PriorityLow:
		return "L"
	}
	return ""
}

func twTime(t time.Time) string {
	return t.UTC().Format(twTimeLayout)
}

func init() {
	Register("taskwarrior", func() Exporter { return TaskWarriorExporter{} })
}
