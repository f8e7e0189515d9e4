package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdxmph/tasks-tui/internal/export"
	"github.com/pdxmph/tasks-tui/internal/tracker"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Status   string
	Priority string
	Project  string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks",
		Long: `Print tasks in display order: incomplete first, then by priority.

Flags narrow the list for this run only; the filters saved by the
interactive tracker are used for anything not given.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "status filter (all|pending|completed)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "priority filter (all|high|medium|low)")
	cmd.Flags().StringVar(&opts.Project, "project", "", "project name or id")

	return cmd
}

func runList(opts *ListOptions, out, errOut io.Writer) error {
	a, err := openApp(opts.RootOptions, appModeBatch, errOut)
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := narrow(a.manager, opts)
	if err != nil {
		return err
	}

	now := time.Now()
	snap := export.Snapshot{
		Tasks:      state.Tasks,
		Projects:   state.Projects,
		View:       tracker.BuildView(state, tracker.DateOf(now)),
		ExportedAt: now,
	}
	return export.Write("text", out, snap)
}

// narrow applies the list flags on top of the saved state without touching
// what is persisted
func narrow(m *tracker.Manager, opts *ListOptions) (tracker.State, error) {
	state := m.State()

	if opts.Status != "" {
		state.Filters.Status = tracker.StatusFilter(strings.ToLower(opts.Status))
	}
	if opts.Priority != "" {
		state.Filters.Priority = tracker.PriorityFilter(strings.ToLower(opts.Priority))
	}
	if !state.Filters.Valid() {
		return tracker.State{}, fmt.Errorf("%w: status %q, priority %q",
			tracker.ErrInvalidFilter, state.Filters.Status, state.Filters.Priority)
	}

	if opts.Project != "" {
		p, ok := findProject(state.Projects, opts.Project)
		if !ok {
			return tracker.State{}, fmt.Errorf("project %q not found", opts.Project)
		}
		state.Selected = &p.ID
	}

	return state, nil
}

// findProject matches by id, then by case-insensitive name
func findProject(projects []tracker.Project, ref string) (tracker.Project, bool) {
	for _, p := range projects {
		if p.ID == ref {
			return p, true
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) {
			return p, true
		}
	}
	return tracker.Project{}, false
}
