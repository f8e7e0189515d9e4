package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdxmph/tasks-tui/internal/tracker"
)

type formKind int

const (
	taskForm formKind = iota
	projectForm
)

// Task form field indices
const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldPriority
	fieldProject
	taskFieldCount
)

// Project form has a single name field
const fieldName = 0

var (
	errTitleRequired = errors.New("title is required")
	errNameRequired  = errors.New("name is required")
	errBadDueDate    = errors.New("due date must be YYYY-MM-DD")
)

// form is the add/edit dialog for tasks and projects
type form struct {
	kind formKind
	id   string // empty when creating

	inputs []textinput.Model
	field  int

	priority   tracker.Priority
	projects   []tracker.Project
	projectIdx int // 0 means no project

	err string
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 40
	ti.CharLimit = 200
	ti.Prompt = ""
	return ti
}

// newTaskForm opens a task form. existing is nil when adding; project
// pre-selects a project for new tasks.
func newTaskForm(existing *tracker.Task, projects []tracker.Project, project *string, priority tracker.Priority) *form {
	f := &form{
		kind:     taskForm,
		inputs:   make([]textinput.Model, fieldPriority),
		priority: priority,
		projects: projects,
	}
	f.inputs[fieldTitle] = newInput("Title")
	f.inputs[fieldDescription] = newInput("Description")
	f.inputs[fieldDue] = newInput("YYYY-MM-DD")
	f.inputs[fieldDue].CharLimit = 10

	if existing != nil {
		f.id = existing.ID
		f.inputs[fieldTitle].SetValue(existing.Title)
		f.inputs[fieldDescription].SetValue(existing.Description)
		if existing.DueDate != nil {
			f.inputs[fieldDue].SetValue(existing.DueDate.String())
		}
		f.priority = existing.Priority
		project = existing.ProjectID
	}
	if !f.priority.Valid() {
		f.priority = tracker.PriorityMedium
	}

	if project != nil {
		for i, p := range projects {
			if p.ID == *project {
				f.projectIdx = i + 1
				break
			}
		}
	}

	f.inputs[fieldTitle].Focus()
	return f
}

func newProjectForm(existing *tracker.Project) *form {
	f := &form{
		kind:   projectForm,
		inputs: []textinput.Model{newInput("Name")},
	}
	if existing != nil {
		f.id = existing.ID
		f.inputs[fieldName].SetValue(existing.Name)
	}
	f.inputs[fieldName].Focus()
	return f
}

func (f *form) fieldCount() int {
	if f.kind == taskForm {
		return taskFieldCount
	}
	return 1
}

// isText reports whether the focused field is a text input
func (f *form) isText() bool {
	return f.field < len(f.inputs)
}

func (f *form) focus(field int) {
	if f.isText() {
		f.inputs[f.field].Blur()
	}
	f.field = field
	if f.isText() {
		f.inputs[f.field].Focus()
	}
}

func (f *form) next() {
	f.focus((f.field + 1) % f.fieldCount())
}

func (f *form) prev() {
	f.focus((f.field + f.fieldCount() - 1) % f.fieldCount())
}

// cycle moves a choice field by delta
func (f *form) cycle(delta int) {
	switch f.field {
	case fieldPriority:
		i := 0
		for j, p := range tracker.Priorities {
			if p == f.priority {
				i = j
			}
		}
		n := len(tracker.Priorities)
		f.priority = tracker.Priorities[((i+delta)%n+n)%n]
	case fieldProject:
		n := len(f.projects) + 1
		f.projectIdx = ((f.projectIdx+delta)%n + n) % n
	}
}

// update feeds a key to the focused field
func (f *form) update(msg tea.KeyMsg) tea.Cmd {
	f.err = ""
	switch msg.String() {
	case "tab", "down":
		f.next()
		return textinput.Blink
	case "shift+tab", "up":
		f.prev()
		return textinput.Blink
	case "left", "h":
		if !f.isText() {
			f.cycle(-1)
			return nil
		}
	case "right", "l", " ":
		if !f.isText() {
			f.cycle(1)
			return nil
		}
	}

	if !f.isText() {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.field], cmd = f.inputs[f.field].Update(msg)
	return cmd
}

// taskFields validates the task form
func (f *form) taskFields() (tracker.TaskFields, error) {
	title := strings.TrimSpace(f.inputs[fieldTitle].Value())
	if title == "" {
		return tracker.TaskFields{}, errTitleRequired
	}

	fields := tracker.TaskFields{
		Title:       title,
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Priority:    f.priority,
	}

	if due := strings.TrimSpace(f.inputs[fieldDue].Value()); due != "" {
		d, err := tracker.ParseDate(due)
		if err != nil {
			return tracker.TaskFields{}, errBadDueDate
		}
		fields.DueDate = &d
	}

	if f.projectIdx > 0 && f.projectIdx <= len(f.projects) {
		fields.ProjectID = tracker.StringPtr(f.projects[f.projectIdx-1].ID)
	}
	return fields, nil
}

// projectName validates the project form
func (f *form) projectName() (string, error) {
	name := strings.TrimSpace(f.inputs[fieldName].Value())
	if name == "" {
		return "", errNameRequired
	}
	return name, nil
}

// submit validates and applies the form through the manager. A validation
// error keeps the form open.
func (f *form) submit(m *tracker.Manager) error {
	switch f.kind {
	case taskForm:
		fields, err := f.taskFields()
		if err != nil {
			return err
		}
		if f.id != "" {
			m.EditTask(f.id, tracker.PatchFromFields(fields))
			return nil
		}
		if _, err := m.AddTask(fields); err != nil {
			return fmt.Errorf("adding task: %w", err)
		}

	case projectForm:
		name, err := f.projectName()
		if err != nil {
			return err
		}
		if f.id != "" {
			m.EditProject(f.id, name)
			return nil
		}
		if _, err := m.AddProject(name); err != nil {
			return fmt.Errorf("adding project: %w", err)
		}
	}
	return nil
}

func (f *form) title() string {
	switch {
	case f.kind == taskForm && f.id == "":
		return "New Task"
	case f.kind == taskForm:
		return "Edit Task"
	case f.id == "":
		return "New Project"
	}
	return "Edit Project"
}

func (f *form) projectLabel() string {
	if f.projectIdx == 0 || f.projectIdx > len(f.projects) {
		return "None"
	}
	return sanitize(f.projects[f.projectIdx-1].Name)
}
