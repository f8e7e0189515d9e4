package tracker

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidFilter is returned by SetFilter for an unknown kind or value.
var ErrInvalidFilter = errors.New("invalid filter")

// FilterKind names one of the view filters.
type FilterKind string

const (
	FilterStatus   FilterKind = "status"
	FilterPriority FilterKind = "priority"
)

// StatusFilter narrows tasks by completion.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// StatusFilters is the cycle order used by the UI.
var StatusFilters = []StatusFilter{StatusAll, StatusPending, StatusCompleted}

// PriorityFilter narrows tasks by priority; "all" or a Priority value.
type PriorityFilter string

// PriorityAll disables the priority filter.
const PriorityAll PriorityFilter = "all"

// PriorityFilters is the cycle order used by the UI.
var PriorityFilters = []PriorityFilter{
	PriorityAll,
	PriorityFilter(PriorityHigh),
	PriorityFilter(PriorityMedium),
	PriorityFilter(PriorityLow),
}

// Filters is the active view-only narrowing.
type Filters struct {
	Status   StatusFilter   `json:"status"`
	Priority PriorityFilter `json:"priority"`
}

// DefaultFilters shows everything.
func DefaultFilters() Filters {
	return Filters{Status: StatusAll, Priority: PriorityAll}
}

// IsDefault reports whether no filter narrows the list.
func (f Filters) IsDefault() bool {
	return f == DefaultFilters()
}

// Valid reports whether both filter values are recognised.
func (f Filters) Valid() bool {
	return slices.Contains(StatusFilters, f.Status) && slices.Contains(PriorityFilters, f.Priority)
}

// with returns f with kind set to value, or ErrInvalidFilter.
func (f Filters) with(kind FilterKind, value string) (Filters, error) {
	switch kind {
	case FilterStatus:
		s := StatusFilter(value)
		if !slices.Contains(StatusFilters, s) {
			return f, fmt.Errorf("%w: status %q", ErrInvalidFilter, value)
		}
		f.Status = s
	case FilterPriority:
		p := PriorityFilter(value)
		if !slices.Contains(PriorityFilters, p) {
			return f, fmt.Errorf("%w: priority %q", ErrInvalidFilter, value)
		}
		f.Priority = p
	default:
		return f, fmt.Errorf("%w: unknown kind %q", ErrInvalidFilter, kind)
	}
	return f, nil
}

// Next returns the value after s in the UI cycle.
func (s StatusFilter) Next() StatusFilter {
	i := slices.Index(StatusFilters, s)
	return StatusFilters[(i+1)%len(StatusFilters)]
}

// Next returns the value after p in the UI cycle.
func (p PriorityFilter) Next() PriorityFilter {
	i := slices.Index(PriorityFilters, p)
	return PriorityFilters[(i+1)%len(PriorityFilters)]
}

// filterTasks applies project, status and priority narrowing in that order.
// The input is never modified; the result holds copies.
func filterTasks(tasks []Task, selected *string, f Filters) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if selected != nil && !t.InProject(*selected) {
			continue
		}
		switch f.Status {
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		case StatusPending:
			if t.Completed {
				continue
			}
		}
		if f.Priority != PriorityAll && f.Priority != "" && t.Priority != Priority(f.Priority) {
			continue
		}
		out = append(out, t.clone())
	}
	return out
}

// sortForDisplay orders incomplete before complete, then by descending
// priority rank. Ties keep their input order.
func sortForDisplay(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		return b.Priority.Rank() - a.Priority.Rank()
	})
}
