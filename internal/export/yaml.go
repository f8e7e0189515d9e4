package export

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

type yamlTask struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Due         string `yaml:"due,omitempty"`
	Priority    string `yaml:"priority"`
	Project     string `yaml:"project,omitempty"`
	Completed   bool   `yaml:"completed"`
	CreatedAt   string `yaml:"created_at"`
	UpdatedAt   string `yaml:"updated_at"`
}

type yamlProject struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	CreatedAt string     `yaml:"created_at"`
	Tasks     []yamlTask `yaml:"tasks,omitempty"`
}

type yamlDocument struct {
	ExportedAt string        `yaml:"exported_at"`
	Projects   []yamlProject `yaml:"projects"`
	Unassigned []yamlTask    `yaml:"unassigned,omitempty"`
}

// YAMLExporter writes a human-editable outline grouped by project
type YAMLExporter struct{}

// Name returns the format identifier
func (YAMLExporter) Name() string { return "yaml" }

// Export nests tasks under their project. Tasks whose project no longer
// exists are listed as unassigned.
func (YAMLExporter) Export(w io.Writer, s Snapshot) error {
	doc := yamlDocument{
		ExportedAt: s.ExportedAt.UTC().Format(time.RFC3339),
		Projects:   []yamlProject{},
	}

	index := make(map[string]int, len(s.Projects))
	for i, p := range s.Projects {
		index[p.ID] = i
		doc.Projects = append(doc.Projects, yamlProject{
			ID:        p.ID,
			Name:      p.Name,
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	for _, t := range s.Tasks {
		yt := yamlTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    string(t.Priority),
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if t.DueDate != nil {
			yt.Due = t.DueDate.String()
		}

		if t.ProjectID != nil {
			if i, ok := index[*t.ProjectID]; ok {
				yt.Project = doc.Projects[i].Name
				doc.Projects[i].Tasks = append(doc.Projects[i].Tasks, yt)
				continue
			}
		}
		doc.Unassigned = append(doc.Unassigned, yt)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

func init() {
	Register("yaml", func() Exporter { return YAMLExporter{} })
}
