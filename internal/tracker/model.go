package tracker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority is a task's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the known priorities from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities for display: high 3, medium 2, low 1. Values that
// came from storage but are not recognised rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// ParsePriority accepts the canonical names case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

const dateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Before reports whether d is an earlier day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// MarshalJSON writes the date-only form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD and, for data written by older builds,
// full RFC 3339 timestamps.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	*d = DateOf(t)
	return nil
}

// Task is a trackable unit of work.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *Date     `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	ProjectID   *string   `json:"projectId"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// InProject reports whether the task references project id.
func (t Task) InProject(id string) bool {
	return t.ProjectID != nil && *t.ProjectID == id
}

// clone returns a copy that shares no pointers with t.
func (t Task) clone() Task {
	t.DueDate = clonePtr(t.DueDate)
	t.ProjectID = clonePtr(t.ProjectID)
	return t
}

// Project is a named grouping tasks may reference.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskFields are the caller-supplied values for a new task. Title must be
// validated by the caller; an empty Priority means medium.
type TaskFields struct {
	Title       string
	Description string
	DueDate     *Date
	Priority    Priority
	ProjectID   *string
}

// Nullable is a patch slot for an optional field: the zero value leaves the
// field alone, Set(v) assigns it and Clear() removes it.
type Nullable[T any] struct {
	set   bool
	value *T
}

// Set returns a slot that assigns v.
func Set[T any](v T) Nullable[T] {
	return Nullable[T]{set: true, value: &v}
}

// Clear returns a slot that removes the current value.
func Clear[T any]() Nullable[T] {
	return Nullable[T]{set: true}
}

// IsSet reports whether the slot changes the field at all.
func (n Nullable[T]) IsSet() bool {
	return n.set
}

func (n Nullable[T]) apply(dst **T) {
	if !n.set {
		return
	}
	*dst = clonePtr(n.value)
}

// TaskPatch lists the fields an edit may change. Identity, creation time and
// completion state cannot be patched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     Nullable[Date]
	ProjectID   Nullable[string]
}

func (p TaskPatch) apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	p.DueDate.apply(&t.DueDate)
	p.ProjectID.apply(&t.ProjectID)
}

// PatchFromFields builds a patch that overwrites every mutable field with
// the values of f, the way a full edit form submits.
func PatchFromFields(f TaskFields) TaskPatch {
	priority := f.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	p := TaskPatch{
		Title:       &f.Title,
		Description: &f.Description,
		Priority:    &priority,
		DueDate:     Clear[Date](),
		ProjectID:   Clear[string](),
	}
	if f.DueDate != nil {
		p.DueDate = Set(*f.DueDate)
	}
	if f.ProjectID != nil {
		p.ProjectID = Set(*f.ProjectID)
	}
	return p
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StringPtr is a small helper for building fields and patches.
func StringPtr(s string) *string {
	return &s
}
