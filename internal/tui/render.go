package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/pdxmph/tasks-tui/internal/tracker"
)

// minPaneWidth keeps rules and truncation widths positive on tiny terminals
const minPaneWidth = 3

// rule draws a horizontal line across a pane of width
func rule(width int) string {
	return strings.Repeat("─", max(width-2, 0))
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.form != nil {
		return m.overlay(m.renderForm())
	}
	if m.confirm != nil {
		return m.overlay(m.renderConfirm())
	}

	projectsWidth := m.width / 4
	if projectsWidth < 20 {
		projectsWidth = 20
	}
	tasksWidth := max(m.width-projectsWidth-4, minPaneWidth) // account for borders
	height := max(m.height-4, 1)

	projectsBorder, tasksBorder := borderStyle, focusedBorderStyle
	if m.focus == projectsPane {
		projectsBorder, tasksBorder = focusedBorderStyle, borderStyle
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		projectsBorder.Width(projectsWidth).Height(height).Render(m.renderProjects(projectsWidth, height)),
		tasksBorder.Width(tasksWidth).Height(height).Render(m.renderTasks(tasksWidth, height)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatus(), m.renderHelp())
}

// renderProjects renders the project list
func (m Model) renderProjects(width, height int) string {
	view := m.live.view
	var lines []string

	lines = append(lines, fmt.Sprintf("Projects (%d)", len(view.Projects)))
	lines = append(lines, rule(width))

	all := fmt.Sprintf("All tasks (%d)", view.TotalTasks)
	if view.Selected == nil {
		all = activeProjectStyle.Render(all)
	}
	lines = append(lines, m.projectLine(0, all))

	if len(view.Projects) == 0 {
		lines = append(lines, "", labelStyle.Render("  No projects yet"))
		return strings.Join(lines, "\n")
	}

	visible := height - 3
	start := 0
	if m.projectCursor >= visible {
		start = m.projectCursor - visible + 1
	}

	for i, row := range view.Projects {
		if i+1 < start || len(lines)-2 >= visible {
			continue
		}
		text := fmt.Sprintf("%s (%d)", sanitize(row.Project.Name), row.TaskCount)
		text = truncate.StringWithTail(text, uint(max(width-4, 1)), "…")
		if row.Selected {
			text = activeProjectStyle.Render(text)
		}
		lines = append(lines, m.projectLine(i+1, text))
	}

	return strings.Join(lines, "\n")
}

func (m Model) projectLine(i int, text string) string {
	if i == m.projectCursor && m.focus == projectsPane {
		return selectedStyle.Render("> " + text)
	}
	return "  " + text
}

// renderTasks renders the task list and the detail of the task under the cursor
func (m Model) renderTasks(width, height int) string {
	view := m.live.view
	var lines []string

	if m.searchMode || m.search.Value() != "" {
		lines = append(lines, m.search.View(), "")
		height -= 2
	}

	rows := m.visibleTasks()

	header := "All tasks"
	if view.Selected != nil {
		header = sanitize(view.SelectedName)
	}
	header += fmt.Sprintf(" (%d)", len(rows))

	if !view.Filters.IsDefault() {
		var indicators []string
		if view.Filters.Status != tracker.StatusAll {
			indicators = append(indicators, "status:"+string(view.Filters.Status))
		}
		if view.Filters.Priority != tracker.PriorityAll {
			indicators = append(indicators, "priority:"+string(view.Filters.Priority))
		}
		header += " [" + strings.Join(indicators, ", ") + "]"
	}

	lines = append(lines, header)
	lines = append(lines, rule(width))

	if len(rows) == 0 {
		msg := view.EmptyMessage
		if msg == "" {
			msg = "No tasks match the search"
		}
		lines = append(lines, "", labelStyle.Render(sanitize(msg)))
		return strings.Join(lines, "\n")
	}

	// Leave room for the detail block
	visible := height - 9
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.taskCursor >= visible {
		start = m.taskCursor - visible + 1
	}

	for i := start; i < len(rows) && i < start+visible; i++ {
		lines = append(lines, m.taskLine(rows[i], i == m.taskCursor && m.focus == tasksPane, width))
	}

	if t, ok := m.cursorTask(); ok {
		lines = append(lines, "", rule(width))
		lines = append(lines, m.renderDetail(t, width)...)
	}

	return strings.Join(lines, "\n")
}

func (m Model) taskLine(row tracker.TaskRow, selected bool, width int) string {
	check := "[ ]"
	if row.Task.Completed {
		check = "[x]"
	}

	title := sanitize(row.Task.Title)
	due := row.Due
	if row.Task.DueDate == nil {
		due = ""
	}
	project := ""
	if row.ProjectName != "" && m.live.view.Selected == nil {
		project = "#" + sanitize(row.ProjectName)
	}

	suffix := strings.TrimSpace(due + " " + project)
	titleWidth := width - 10 - lipgloss.Width(suffix)
	title = truncate.StringWithTail(title, uint(max(titleWidth, 1)), "…")

	if selected {
		line := fmt.Sprintf("%s %s %s %s", check, row.Icon, title, suffix)
		return selectedStyle.Render(line)
	}

	icon := priorityStyle(row.Task.Priority).Render(row.Icon)
	if row.Task.Completed {
		title = completedStyle.Render(title)
	}
	if row.Overdue {
		due = overdueStyle.Render(due)
	} else {
		due = labelStyle.Render(due)
	}
	return fmt.Sprintf("%s %s %s %s %s", check, icon, title, due, labelStyle.Render(project))
}

func priorityStyle(p tracker.Priority) lipgloss.Style {
	if c, ok := priorityColors[p]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return labelStyle
}

// renderDetail renders the task detail block
func (m Model) renderDetail(t tracker.Task, width int) []string {
	lines := []string{sanitize(t.Title)}

	meta := fmt.Sprintf("Priority: %s • Due: %s", tracker.Capitalize(string(t.Priority)), tracker.FormatDueDate(t.DueDate))
	if t.ProjectID != nil {
		name := "Unknown"
		if p, ok := m.manager.Project(*t.ProjectID); ok {
			name = sanitize(p.Name)
		}
		meta += " • Project: " + name
	}
	lines = append(lines, labelStyle.Render(meta))

	if t.Description != "" {
		wrapped := wordwrap.String(sanitize(t.Description), max(width-4, 10))
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}

// renderStatus renders counts, filter state and the last error
func (m Model) renderStatus() string {
	view := m.live.view
	if m.status != "" {
		return " " + errorStyle.Render(m.status)
	}
	return labelStyle.Render(fmt.Sprintf(" %d/%d completed • status: %s • priority: %s",
		view.CompletedTasks, view.TotalTasks, view.Filters.Status, view.Filters.Priority))
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	if m.searchMode {
		return " Type to search • ↑/↓: navigate • Enter: confirm • Esc: cancel"
	}

	help := " j/k: navigate • tab: switch pane"
	if m.focus == projectsPane {
		help += " • enter: select • N: new project • e: rename • d: delete"
	} else {
		help += " • n: new • e: edit • space: toggle • d: delete"
	}
	help += " • a: all • s: status • p: priority • /: search"

	if m.search.Value() != "" {
		help += " • Esc: clear search"
	}

	help += " • q: quit"
	return help
}

// renderForm renders the add/edit dialog
func (m Model) renderForm() string {
	f := m.form
	var lines []string
	lines = append(lines, f.title())
	lines = append(lines, strings.Repeat("─", 40))
	lines = append(lines, "")

	field := func(i int, label, value string) {
		if i == f.field {
			label = selectedStyle.Render(label)
		}
		lines = append(lines, label+value, "")
	}

	if f.kind == projectForm {
		field(fieldName, "Name:        ", f.inputs[fieldName].View())
	} else {
		field(fieldTitle, "Title:       ", f.inputs[fieldTitle].View())
		field(fieldDescription, "Description: ", f.inputs[fieldDescription].View())
		field(fieldDue, "Due:         ", f.inputs[fieldDue].View())
		field(fieldPriority, "Priority:    ", fmt.Sprintf("< %s >", priorityStyle(f.priority).Render(tracker.Capitalize(string(f.priority)))))
		field(fieldProject, "Project:     ", fmt.Sprintf("< %s >", f.projectLabel()))
	}

	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err), "")
	}

	lines = append(lines, "Tab/↓: next • Shift+Tab/↑: prev • ←/→: change • Enter: save • Esc: cancel")

	return borderStyle.
		Padding(1).
		Width(64).
		Render(strings.Join(lines, "\n"))
}

// renderConfirm renders the delete confirmation prompt
func (m Model) renderConfirm() string {
	width := 60
	height := 7

	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-4).
		Align(lipgloss.Center, lipgloss.Center).
		Render(m.confirm.prompt)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(width).
		Height(height).
		Render(content)
}

// overlay centers box on the screen
func (m Model) overlay(box string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}
