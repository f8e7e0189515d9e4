package export

import (
	"encoding/json"
	"io"

	"github.com/pdxmph/tasks-tui/internal/tracker"
)

// jsonDocument mirrors the persisted layout: the same records stored under
// the "projects" and "tasks" keys, side by side.
type jsonDocument struct {
	Projects []tracker.Project `json:"projects"`
	Tasks    []tracker.Task    `json:"tasks"`
}

// JSONExporter writes every project and task in the storage format
type JSONExporter struct{}

// Name returns the format identifier
func (JSONExporter) Name() string { return "json" }

// Export writes indented JSON
func (JSONExporter) Export(w io.Writer, s Snapshot) error {
	doc := jsonDocument{Projects: s.Projects, Tasks: s.Tasks}
	if doc.Projects == nil {
		doc.Projects = []tracker.Project{}
	}
	if doc.Tasks == nil {
		doc.Tasks = []tracker.Task{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func init() {
	Register("json", func() Exporter { return JSONExporter{} })
}
