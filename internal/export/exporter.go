package export

import (
	"io"
	"time"

	"github.com/pdxmph/tasks-tui/internal/tracker"
)

// Snapshot is everything an exporter may draw from
type Snapshot struct {
	Tasks      []tracker.Task
	Projects   []tracker.Project
	View       tracker.View // filtered rows, in display order
	ExportedAt time.Time
}

// NewSnapshot captures the current state of m
func NewSnapshot(m *tracker.Manager, now time.Time) Snapshot {
	return Snapshot{
		Tasks:      m.Tasks(),
		Projects:   m.Projects(),
		View:       tracker.BuildView(m.State(), tracker.DateOf(now)),
		ExportedAt: now,
	}
}

// projectName resolves a project reference, or "" when it dangles
func (s Snapshot) projectName(id *string) string {
	if id == nil {
		return ""
	}
	for _, p := range s.Projects {
		if p.ID == *id {
			return p.Name
		}
	}
	return ""
}

// Exporter defines the interface every output format implements
type Exporter interface {
	// Name returns the format identifier (e.g., "json", "taskwarrior")
	Name() string

	// Export writes the snapshot to w
	Export(w io.Writer, s Snapshot) error
}

// ExporterFactory is a function that creates a new instance of an Exporter
type ExporterFactory func() Exporter
