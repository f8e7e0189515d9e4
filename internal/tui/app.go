package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/tasks-tui/internal/tracker"
)

type pane int

const (
	projectsPane pane = iota
	tasksPane
)

// liveView holds the latest view pushed by the manager. Models are copied on
// every update, so they share it by pointer.
type liveView struct {
	view tracker.View
}

// confirmation is a pending y/N delete prompt
type confirmation struct {
	prompt    string
	taskID    string
	projectID string
}

// Model represents the main application state
type Model struct {
	manager         *tracker.Manager
	live            *liveView
	unsubscribe     func()
	defaultPriority tracker.Priority

	width  int
	height int

	focus         pane
	projectCursor int // 0 is "All tasks"
	taskCursor    int

	searchMode bool
	search     textinput.Model

	form    *form
	confirm *confirmation
	status  string
}

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	activeProjectStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Strikethrough(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	focusedBorderStyle = borderStyle.
				BorderForeground(lipgloss.Color("62"))
)

// Priority badge colours
var priorityColors = map[tracker.Priority]lipgloss.Color{
	tracker.PriorityHigh:   lipgloss.Color("196"),
	tracker.PriorityMedium: lipgloss.Color("220"),
	tracker.PriorityLow:    lipgloss.Color("42"),
}

// New creates a new application model bound to manager. defaultPriority
// seeds the task form.
func New(manager *tracker.Manager, defaultPriority tracker.Priority) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search tasks..."
	ti.Width = 30
	ti.CharLimit = 50
	ti.Prompt = "/ "
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	if !defaultPriority.Valid() {
		defaultPriority = tracker.PriorityMedium
	}

	live := &liveView{view: manager.View()}
	unsubscribe := manager.Subscribe(func(v tracker.View) {
		live.view = v
	})

	return &Model{
		manager:         manager,
		live:            live,
		unsubscribe:     unsubscribe,
		defaultPriority: defaultPriority,
		focus:           tasksPane,
		search:          ti,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width > 0 {
			m.search.Width = m.width - m.width/3 - 8
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

		var cmd tea.Cmd
		switch {
		case m.confirm != nil:
			m.updateConfirm(msg)
		case m.form != nil:
			cmd = m.updateForm(msg)
		case m.searchMode:
			cmd = m.updateSearch(msg)
		default:
			return m.updateNormal(msg)
		}
		m.clampCursors()
		return m, cmd
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

// updateConfirm resolves a pending delete. Anything but y cancels.
func (m *Model) updateConfirm(msg tea.KeyMsg) {
	c := m.confirm
	m.confirm = nil
	if msg.String() != "y" && msg.String() != "Y" {
		return
	}
	switch {
	case c.taskID != "":
		m.manager.RemoveTask(c.taskID)
	case c.projectID != "":
		m.manager.RemoveProject(c.projectID)
	}
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.form = nil
		return nil
	case "enter":
		if err := m.form.submit(m.manager); err != nil {
			m.form.err = tracker.Capitalize(err.Error())
			return nil
		}
		m.form = nil
		return nil
	}
	return m.form.update(msg)
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.search.Reset()
		return nil
	case "enter":
		m.searchMode = false
		m.search.Blur()
		return nil
	case "up":
		if m.taskCursor > 0 {
			m.taskCursor--
		}
		return nil
	case "down":
		m.taskCursor++
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	view := m.live.view

	switch msg.String() {
	case "q":
		return m.quit()

	case "tab":
		if m.focus == tasksPane {
			m.focus = projectsPane
		} else {
			m.focus = tasksPane
		}

	case "j", "down":
		if m.focus == projectsPane {
			m.projectCursor++
		} else {
			m.taskCursor++
		}

	case "k", "up":
		if m.focus == projectsPane {
			m.projectCursor--
		} else {
			m.taskCursor--
		}

	case "enter":
		if m.focus == projectsPane {
			if p, ok := m.cursorProject(); ok {
				m.manager.SelectProject(&p.ID)
			} else {
				m.manager.SelectProject(nil)
			}
			m.taskCursor = 0
			m.focus = tasksPane
		}

	case "a":
		m.manager.SelectProject(nil)
		m.projectCursor = 0
		m.taskCursor = 0

	case "s":
		next := view.Filters.Status.Next()
		if err := m.manager.SetFilter(tracker.FilterStatus, string(next)); err != nil {
			m.status = err.Error()
		}

	case "p":
		next := view.Filters.Priority.Next()
		if err := m.manager.SetFilter(tracker.FilterPriority, string(next)); err != nil {
			m.status = err.Error()
		}

	case "/":
		m.searchMode = true
		m.search.Focus()
		m.focus = tasksPane
		return m, textinput.Blink

	case "esc":
		if m.search.Value() != "" {
			m.search.Reset()
		}

	case " ", "x":
		if t, ok := m.cursorTask(); ok {
			m.manager.ToggleTaskStatus(t.ID)
		}

	case "n":
		m.form = newTaskForm(nil, m.manager.Projects(), m.manager.SelectedProject(), m.defaultPriority)
		return m, textinput.Blink

	case "N":
		m.form = newProjectForm(nil)
		return m, textinput.Blink

	case "e":
		if m.focus == projectsPane {
			if p, ok := m.cursorProject(); ok {
				m.form = newProjectForm(&p)
				return m, textinput.Blink
			}
		} else if t, ok := m.cursorTask(); ok {
			m.form = newTaskForm(&t, m.manager.Projects(), nil, m.defaultPriority)
			return m, textinput.Blink
		}

	case "d":
		if m.focus == projectsPane {
			if p, ok := m.cursorProject(); ok {
				m.confirm = &confirmation{
					projectID: p.ID,
					prompt:    projectDeletePrompt(p.Name, m.manager.ProjectTaskCount(p.ID)),
				}
			}
		} else if t, ok := m.cursorTask(); ok {
			m.confirm = &confirmation{
				taskID: t.ID,
				prompt: fmt.Sprintf("Delete task '%s'? (y/N)", sanitize(t.Title)),
			}
		}
	}

	m.clampCursors()
	return m, nil
}

func projectDeletePrompt(name string, tasks int) string {
	name = sanitize(name)
	switch tasks {
	case 0:
		return fmt.Sprintf("Delete project '%s'? (y/N)", name)
	case 1:
		return fmt.Sprintf("Delete project '%s' and its 1 task? (y/N)", name)
	}
	return fmt.Sprintf("Delete project '%s' and its %d tasks? (y/N)", name, tasks)
}

// visibleTasks returns the view's rows narrowed by the search text
func (m Model) visibleTasks() []tracker.TaskRow {
	rows := m.live.view.Tasks
	query := strings.ToLower(strings.TrimSpace(m.search.Value()))
	if query == "" {
		return rows
	}

	var filtered []tracker.TaskRow
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Task.Title), query) ||
			strings.Contains(strings.ToLower(r.Task.Description), query) ||
			strings.Contains(strings.ToLower(r.ProjectName), query) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// cursorTask returns the task under the cursor
func (m Model) cursorTask() (tracker.Task, bool) {
	rows := m.visibleTasks()
	if m.taskCursor < 0 || m.taskCursor >= len(rows) {
		return tracker.Task{}, false
	}
	return rows[m.taskCursor].Task, true
}

// cursorProject returns the project under the cursor; false for "All tasks"
func (m Model) cursorProject() (tracker.Project, bool) {
	projects := m.live.view.Projects
	i := m.projectCursor - 1
	if i < 0 || i >= len(projects) {
		return tracker.Project{}, false
	}
	return projects[i].Project, true
}

// clampCursors keeps both cursors within their lists
func (m *Model) clampCursors() {
	m.projectCursor = clamp(m.projectCursor, len(m.live.view.Projects)+1)
	m.taskCursor = clamp(m.taskCursor, len(m.visibleTasks()))
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
