package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasker-go/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Faint(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	priorityStyle = map[task.Priority]lipgloss.Style{
		task.PriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		task.PriorityNormal:   lipgloss.NewStyle(),
		task.PriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.PriorityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

var formLabels = [fieldCount]string{
	fieldTitle:       "Title",
	fieldDescription: "Description",
	fieldPriority:    "Priority",
	fieldDue:         "Due date",
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tasker"))
	b.WriteString("\n\n")

	switch {
	case m.mode == modeAdd:
		m.writeForm(&b)
	case m.showHelp:
		writeHelp(&b)
	default:
		m.writeFilter(&b)
		m.writeTasks(&b)
		if m.showStats {
			m.writeStats(&b)
		}
	}

	m.writeStatus(&b)
	b.WriteString(footerStyle.Render("h help | a add | q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *tuiModel) writeFilter(b *strings.Builder) {
	if m.filter == nil {
		b.WriteString(headerStyle.Render("All tasks"))
	} else {
		b.WriteString(headerStyle.Render("Filter: " + m.filter.String()))
		b.WriteString(" (0 to clear)")
	}
	b.WriteString("\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if len(m.tasks) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	for i, t := range m.tasks {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix)
		b.WriteString(formatTask(t))
		b.WriteString("\n")
		if i == m.cursor {
			writeDetails(b, t)
		}
	}
	b.WriteString("\n")
}

func writeDetails(b *strings.Builder, t task.Task) {
	if t.Description != "" {
		details := t.Description
		if len(details) > 60 {
			details = details[:57] + "..."
		}
		b.WriteString("      " + details + "\n")
	}
	if len(t.Tags) > 0 {
		b.WriteString("      tags: " + strings.Join(t.Tags, ", ") + "\n")
	}
}

func formatTask(t task.Task) string {
	icon := " "
	switch t.Status {
	case task.StatusInProgress:
		icon = ">"
	case task.StatusDone:
		icon = "x"
	case task.StatusCancelled:
		icon = "-"
	}

	line := fmt.Sprintf("[%s] #%d %s %s", icon, t.ID, priorityStyle[t.Priority].Render(t.Priority.Label()), t.Title)
	if t.DueDate != "" {
		line += "  due " + t.DueDate
	}
	switch {
	case t.IsOverdue():
		return line + " " + overdueStyle.Render("(overdue)")
	case t.Status == task.StatusDone || t.Status == task.StatusCancelled:
		return doneStyle.Render(line)
	}
	return line
}

func (m *tuiModel) writeStats(b *strings.Builder) {
	st := m.store.Statistics()
	var p strings.Builder
	p.WriteString(headerStyle.Render("Statistics"))
	fmt.Fprintf(&p, "\nTotal: %d  Overdue: %d\n", st.Total, st.Overdue)
	for _, s := range task.Statuses() {
		fmt.Fprintf(&p, "%s: %d  ", s, st.ByStatus[s])
	}
	p.WriteString("\n")
	for _, pr := range task.Priorities() {
		fmt.Fprintf(&p, "%s: %d  ", pr.Label(), st.ByPriority[pr])
	}
	b.WriteString(panelStyle.Render(strings.TrimRight(p.String(), " ")))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeForm(b *strings.Builder) {
	b.WriteString(headerStyle.Render("New task"))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		label := formLabels[i]
		if i == m.focus {
			label = cursorStyle.Render(label)
		}
		b.WriteString(label + "\n")
		b.WriteString(in.View() + "\n\n")
	}
	fmt.Fprintf(b, "Blank priority uses %s (%s).\n\n", m.defaultPriority.Label(), m.defaultPriority.Name())
}

func (m *tuiModel) writeStatus(b *strings.Builder) {
	if m.status == "" {
		return
	}
	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString("  up/k, down/j  Move selection\n")
	b.WriteString("  a             Add a task\n")
	b.WriteString("  s             Start selected task\n")
	b.WriteString("  d             Mark selected task done\n")
	b.WriteString("  c             Cancel selected task\n")
	b.WriteString("  x, delete     Delete selected task\n")
	b.WriteString("  t             Toggle statistics\n")
	b.WriteString("  r, F5         Reload from disk\n")
	b.WriteString("  1             Filter pending\n")
	b.WriteString("  2             Filter in progress\n")
	b.WriteString("  3             Filter done\n")
	b.WriteString("  4             Filter cancelled\n")
	b.WriteString("  0             Clear filter\n")
	b.WriteString("  h, ?          Toggle this help screen\n")
	b.WriteString("  q, ctrl+c     Quit\n\n")
}
