// Package ui provides the interactive terminal menu.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasker-go/internal/store"
	"github.com/nibzard/tasker-go/internal/task"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	defaultPriority task.Priority
	altScreen       bool
}

// WithDefaultPriority sets the priority used when the add form leaves it blank.
func WithDefaultPriority(p task.Priority) TUIOption {
	return func(c *tuiConfig) {
		if p.Valid() {
			c.defaultPriority = p
		}
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// RunTUI starts the interactive menu on st.
func RunTUI(ctx context.Context, st *store.Store, opts ...TUIOption) error {
	c := &tuiConfig{
		defaultPriority: task.PriorityNormal,
		altScreen:       true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(newTUIModel(st, c), programOpts...)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
)

const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldDue
	fieldCount
)

type tuiModel struct {
	store           *store.Store
	defaultPriority task.Priority

	tasks     []task.Task
	cursor    int
	filter    *task.Status
	mode      mode
	inputs    []textinput.Model
	focus     int
	status    string
	statusErr bool
	showHelp  bool
	showStats bool
	width     int
}

func newTUIModel(st *store.Store, c *tuiConfig) *tuiModel {
	m := &tuiModel{
		store:           st,
		defaultPriority: c.defaultPriority,
		inputs:          newFormInputs(),
		status:          "Press a to add, h for help.",
	}
	m.reload()
	return m
}

func newFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	placeholders := [fieldCount]string{
		fieldTitle:       "Title",
		fieldDescription: "Description (optional)",
		fieldPriority:    "Priority 1-4 or low/normal/high/critical",
		fieldDue:         "Due date YYYY-MM-DD (optional)",
	}
	limits := [fieldCount]int{256, 512, 16, 10}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 48
		ti.Prompt = "> "
		inputs[i] = ti
	}
	return inputs
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-10, 10)
		}
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg.String())
		}
		return m.updateList(msg.String())
	}
	return m, nil
}

func (m *tuiModel) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "h", "?":
		m.showHelp = !m.showHelp
	case "t":
		m.showStats = !m.showStats
	case "r", "f5":
		m.store.Load()
		m.reload()
		m.setStatus("Reloaded " + m.store.Path())
	case "a":
		m.openForm()
		return m, textinput.Blink
	case "d":
		m.transition("Done", m.store.MarkDone)
	case "s":
		m.transition("Started", m.store.MarkInProgress)
	case "c":
		m.transition("Cancelled", m.store.Cancel)
	case "x", "delete":
		if t, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
			m.setStatus(fmt.Sprintf("Delete #%d %q? y/n", t.ID, t.Title))
		}
	case "1":
		m.setFilter(task.StatusPending)
	case "2":
		m.setFilter(task.StatusInProgress)
	case "3":
		m.setFilter(task.StatusDone)
	case "4":
		m.setFilter(task.StatusCancelled)
	case "0":
		m.filter = nil
		m.reload()
	}
	return m, nil
}

func (m *tuiModel) updateConfirmDelete(key string) (tea.Model, tea.Cmd) {
	m.mode = modeList
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	switch key {
	case "y", "Y":
		if m.store.Delete(t.ID) {
			m.setStatus(fmt.Sprintf("Deleted #%d", t.ID))
		} else {
			m.setError(fmt.Sprintf("Task %d not found", t.ID))
		}
		m.reload()
	default:
		m.setStatus("Delete aborted")
	}
	return m, nil
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeForm()
		m.setStatus("Add cancelled")
		return m, nil
	case "tab", "down":
		return m, m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if m.focus < fieldCount-1 {
			return m, m.focusField(m.focus + 1)
		}
		m.submitForm()
		return m, nil
	case "ctrl+s":
		m.submitForm()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *tuiModel) openForm() {
	m.mode = modeAdd
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.focusField(fieldTitle)
	m.setStatus("New task: tab to move, enter on the last field to save, esc to cancel")
}

func (m *tuiModel) closeForm() {
	m.mode = modeList
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *tuiModel) focusField(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
			continue
		}
		m.inputs[j].Blur()
	}
	return cmd
}

// submitForm creates the task from the form. On invalid input the form
// stays open with the offending field focused.
func (m *tuiModel) submitForm() {
	title := m.inputs[fieldTitle].Value()
	description := strings.TrimSpace(m.inputs[fieldDescription].Value())
	due := strings.TrimSpace(m.inputs[fieldDue].Value())

	priority := m.defaultPriority
	if raw := strings.TrimSpace(m.inputs[fieldPriority].Value()); raw != "" {
		p, err := task.ParsePriority(raw)
		if err != nil {
			m.setError(err.Error())
			m.focusField(fieldPriority)
			return
		}
		priority = p
	}
	if err := store.ValidateDueDate(due); err != nil {
		m.setError(err.Error())
		m.focusField(fieldDue)
		return
	}

	created, err := m.store.Create(title, description, priority, due)
	if err != nil {
		m.setError(err.Error())
		m.focusField(fieldTitle)
		return
	}
	m.closeForm()
	m.reload()
	m.selectID(created.ID)
	m.setStatus(fmt.Sprintf("Added #%d", created.ID))
}

func (m *tuiModel) transition(verb string, fn func(int) bool) {
	t, ok := m.selected()
	if !ok {
		m.setError("No task selected")
		return
	}
	if !fn(t.ID) {
		m.setError(fmt.Sprintf("Task %d not found", t.ID))
		m.reload()
		return
	}
	m.reload()
	m.selectID(t.ID)
	m.setStatus(fmt.Sprintf("%s #%d", verb, t.ID))
}

func (m *tuiModel) setFilter(s task.Status) {
	m.filter = &s
	m.cursor = 0
	m.reload()
}

// reload refreshes the visible list from the store and clamps the cursor.
func (m *tuiModel) reload() {
	m.tasks = m.store.List(store.Filter{Status: m.filter})
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() (task.Task, bool) {
	if len(m.tasks) == 0 {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *tuiModel) selectID(id int) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *tuiModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *tuiModel) setError(s string) {
	m.status = s
	m.statusErr = true
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
