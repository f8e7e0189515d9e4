// Package tracker owns the task and project collections, the active
// filter/selection state and every operation that changes them.
//
// A Manager is built once at start-up and handed to whatever renders it. Each
// mutation runs to completion, persists both collections through the storage
// adapter and then notifies subscribers with a fresh View. Lookups on unknown
// ids are logged and ignored rather than reported as errors.
//
// A Manager is not safe for concurrent use; it expects a single event loop.
package tracker

import (
	"slices"
	"time"

	"github.com/pdxmph/tasks-tui/internal/logging"
	"github.com/pdxmph/tasks-tui/internal/storage"
)

// Persister is the storage adapter contract: saves are best-effort and loads
// report absence with false.
type Persister interface {
	Save(key string, v any)
	Load(key string, v any) bool
}

// Listener receives the current view after every state change.
type Listener func(View)

type subscription struct {
	id int
	fn Listener
}

// settings is the persisted view configuration.
type settings struct {
	Filters Filters `json:"filters"`
}

// Manager is the single owner of tracker state.
type Manager struct {
	store Persister
	log   *logging.Logger
	now   func() time.Time
	ids   IDGenerator

	tasks    []Task
	projects []Project
	selected *string
	filters  Filters

	subs   []subscription
	nextID int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(m *Manager) { m.ids = g }
}

// WithLogger replaces the process-wide logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// New creates an empty Manager. Call Initialize to load persisted state.
func New(store Persister, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		log:      logging.Default(),
		now:      time.Now,
		ids:      UUIDGenerator{},
		tasks:    []Task{},
		projects: []Project{},
		filters:  DefaultFilters(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithComponent("tracker")
	return m
}

// Initialize loads both collections (absent means empty) and any saved
// filters, then notifies subscribers.
func (m *Manager) Initialize() {
	m.log.Info("initializing")

	var tasks []Task
	if m.store.Load(storage.KeyTasks, &tasks) && tasks != nil {
		m.tasks = tasks
		m.log.Info("tasks_loaded", logging.Fields{"count": len(tasks)})
	}

	var projects []Project
	if m.store.Load(storage.KeyProjects, &projects) && projects != nil {
		m.projects = projects
		m.log.Info("projects_loaded", logging.Fields{"count": len(projects)})
	}

	var s settings
	if m.store.Load(storage.KeySettings, &s) {
		if s.Filters.Valid() {
			m.filters = s.Filters
		} else {
			m.log.Warn("settings_ignored", logging.Fields{"status": s.Filters.Status, "priority": s.Filters.Priority})
		}
	}

	m.notify()
}

// GenerateID draws ids until one is unused by any task or project.
func (m *Manager) GenerateID() (string, error) {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id := m.ids.Generate()
		if id != "" && !m.idInUse(id) {
			return id, nil
		}
		m.log.Warn("id_collision", logging.Fields{"id": id, "attempt": attempt})
	}
	return "", ErrIDCollision
}

func (m *Manager) idInUse(id string) bool {
	return m.taskIndex(id) >= 0 || m.projectIndex(id) >= 0
}

// AddTask creates a task from f and appends it.
func (m *Manager) AddTask(f TaskFields) (Task, error) {
	id, err := m.GenerateID()
	if err != nil {
		return Task{}, err
	}

	priority := f.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	now := m.now()
	t := Task{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		DueDate:     clonePtr(f.DueDate),
		Priority:    priority,
		ProjectID:   clonePtr(f.ProjectID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.tasks = append(m.tasks, t)

	m.log.Info("task_added", logging.Fields{"id": id, "title": t.Title})
	m.commit()
	return t.clone(), nil
}

// EditTask applies patch to the task with id. It reports whether the task
// existed.
func (m *Manager) EditTask(id string, patch TaskPatch) bool {
	i := m.taskIndex(id)
	if i < 0 {
		m.log.Warn("task_not_found", logging.Fields{"op": "edit", "id": id})
		return false
	}

	t := &m.tasks[i]
	patch.apply(t)
	m.touch(t)

	m.log.Info("task_updated", logging.Fields{"id": id, "title": t.Title})
	m.commit()
	return true
}

// RemoveTask deletes the task with id.
func (m *Manager) RemoveTask(id string) bool {
	i := m.taskIndex(id)
	if i < 0 {
		m.log.Warn("task_not_found", logging.Fields{"op": "remove", "id": id})
		return false
	}

	removed := m.tasks[i]
	m.tasks = slices.Delete(m.tasks, i, i+1)

	m.log.Info("task_removed", logging.Fields{"id": id, "title": removed.Title})
	m.commit()
	return true
}

// ToggleTaskStatus flips the completion flag of the task with id.
func (m *Manager) ToggleTaskStatus(id string) bool {
	i := m.taskIndex(id)
	if i < 0 {
		m.log.Warn("task_not_found", logging.Fields{"op": "toggle", "id": id})
		return false
	}

	t := &m.tasks[i]
	t.Completed = !t.Completed
	m.touch(t)

	m.log.Info("task_status_changed", logging.Fields{"id": id, "title": t.Title, "completed": t.Completed})
	m.commit()
	return true
}

// AddProject creates a project called name. The caller validates name.
func (m *Manager) AddProject(name string) (Project, error) {
	id, err := m.GenerateID()
	if err != nil {
		return Project{}, err
	}

	p := Project{ID: id, Name: name, CreatedAt: m.now()}
	m.projects = append(m.projects, p)

	m.log.Info("project_added", logging.Fields{"id": id, "name": name})
	m.commit()
	return p, nil
}

// EditProject renames the project with id.
func (m *Manager) EditProject(id, name string) bool {
	i := m.projectIndex(id)
	if i < 0 {
		m.log.Warn("project_not_found", logging.Fields{"op": "edit", "id": id})
		return false
	}

	m.projects[i].Name = name

	m.log.Info("project_renamed", logging.Fields{"id": id, "name": name})
	m.commit()
	return true
}

// RemoveProject deletes the project with id together with every task that
// references it, and clears the selection if it pointed there.
func (m *Manager) RemoveProject(id string) bool {
	i := m.projectIndex(id)
	if i < 0 {
		m.log.Warn("project_not_found", logging.Fields{"op": "remove", "id": id})
		return false
	}

	removed := m.projects[i]
	m.projects = slices.Delete(m.projects, i, i+1)

	before := len(m.tasks)
	m.tasks = slices.DeleteFunc(m.tasks, func(t Task) bool { return t.InProject(id) })

	if m.selected != nil && *m.selected == id {
		m.selected = nil
	}

	m.log.Info("project_removed", logging.Fields{
		"id":            id,
		"name":          removed.Name,
		"removed_tasks": before - len(m.tasks),
	})
	m.commit()
	return true
}

// SelectProject narrows the view to one project; nil shows all tasks.
// Selection is view state and is not persisted.
func (m *Manager) SelectProject(id *string) {
	m.selected = clonePtr(id)
	if id == nil {
		m.log.Info("project_selected", logging.Fields{"id": "none"})
	} else {
		m.log.Info("project_selected", logging.Fields{"id": *id})
	}
	m.notify()
}

// SetFilter sets one filter. Unknown kinds or values return ErrInvalidFilter
// and change nothing.
func (m *Manager) SetFilter(kind FilterKind, value string) error {
	next, err := m.filters.with(kind, value)
	if err != nil {
		m.log.Warn("filter_rejected", logging.Fields{"kind": kind, "value": value})
		return err
	}
	m.filters = next

	m.log.Info("filter_applied", logging.Fields{"kind": kind, "value": value})
	m.store.Save(storage.KeySettings, settings{Filters: m.filters})
	m.notify()
	return nil
}

// FilteredTasks returns the tasks that pass the selection and filters, in
// display order. It has no side effects.
func (m *Manager) FilteredTasks() []Task {
	out := filterTasks(m.tasks, m.selected, m.filters)
	sortForDisplay(out)
	return out
}

// Task returns a copy of the task with id.
func (m *Manager) Task(id string) (Task, bool) {
	i := m.taskIndex(id)
	if i < 0 {
		return Task{}, false
	}
	return m.tasks[i].clone(), true
}

// Project returns a copy of the project with id.
func (m *Manager) Project(id string) (Project, bool) {
	i := m.projectIndex(id)
	if i < 0 {
		return Project{}, false
	}
	return m.projects[i], true
}

// Tasks returns a copy of every task in stored order.
func (m *Manager) Tasks() []Task {
	out := make([]Task, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = t.clone()
	}
	return out
}

// Projects returns a copy of every project in stored order.
func (m *Manager) Projects() []Project {
	return slices.Clone(m.projects)
}

// SelectedProject returns the selected project id, or nil.
func (m *Manager) SelectedProject() *string {
	return clonePtr(m.selected)
}

// Filters returns the active filters.
func (m *Manager) Filters() Filters {
	return m.filters
}

// ProjectTaskCount counts tasks that a RemoveProject(id) would cascade to.
func (m *Manager) ProjectTaskCount(id string) int {
	n := 0
	for _, t := range m.tasks {
		if t.InProject(id) {
			n++
		}
	}
	return n
}

// State returns a copy of everything a view is built from.
func (m *Manager) State() State {
	return State{
		Tasks:    m.Tasks(),
		Projects: m.Projects(),
		Selected: m.SelectedProject(),
		Filters:  m.filters,
	}
}

// View builds the current view model.
func (m *Manager) View() View {
	return BuildView(m.State(), DateOf(m.now()))
}

// Subscribe registers fn for change notifications. The returned function
// cancels the subscription.
func (m *Manager) Subscribe(fn Listener) (cancel func()) {
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	return func() {
		m.subs = slices.DeleteFunc(m.subs, func(s subscription) bool { return s.id == id })
	}
}

// commit persists both collections and notifies subscribers.
func (m *Manager) commit() {
	m.store.Save(storage.KeyTasks, m.tasks)
	m.store.Save(storage.KeyProjects, m.projects)
	m.notify()
}

func (m *Manager) notify() {
	if len(m.subs) == 0 {
		return
	}
	v := m.View()
	for _, s := range slices.Clone(m.subs) {
		s.fn(v)
	}
}

// touch stamps UpdatedAt, never moving it backwards or before CreatedAt.
func (m *Manager) touch(t *Task) {
	now := m.now()
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

func (m *Manager) taskIndex(id string) int {
	return slices.IndexFunc(m.tasks, func(t Task) bool { return t.ID == id })
}

func (m *Manager) projectIndex(id string) int {
	return slices.IndexFunc(m.projects, func(p Project) bool { return p.ID == id })
}
