// Package tui is the interactive terminal view. Every key that changes
// state is dispatched as a named action through the application context.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"duelist/internal/app"
	"duelist/internal/output"
	"duelist/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAddText
	modeAddDue
)

// screen holds the last snapshot pushed by the app. It is shared by all copies
// of Model.
type screen struct {
	snap app.Snapshot
}

// Model is the Bubble Tea model for the task list.
type Model struct {
	ctx    context.Context
	app    *app.App
	screen *screen
	now    func() time.Time

	cursor  int
	mode    mode
	input   textinput.Model
	pending string // description typed before the due date prompt
	status  string
	isErr   bool
}

// New returns a model bound to a. It registers itself as the app renderer.
func New(ctx context.Context, a *app.App) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	sc := &screen{snap: a.Snapshot()}
	a.OnRender(func(s app.Snapshot) { sc.snap = s })

	return Model{
		ctx:    ctx,
		app:    a,
		screen: sc,
		now:    time.Now,
		input:  ti,
		status: "a add • space toggle • d delete • s sort",
	}
}

// Run starts the interactive view and blocks until the user quits.
func Run(ctx context.Context, a *app.App, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(ctx, a), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeList {
			return m.updateAddMode(msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.input.Width = msg.Width - 20
		}
	}
	return m, nil
}

func (m Model) visible() []task.Task {
	return m.screen.snap.Visible
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.visible()))
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.visible()))
	case "a":
		m.mode = modeAddText
		m.input.Placeholder = "What needs doing?"
		m.input.SetValue("")
		m.setStatus("Add: type a description and press enter (esc cancels)", false)
		return m, m.input.Focus()
	case " ", "space":
		return m.taskAction(app.KindComplete)
	case "d", "delete":
		return m.taskAction(app.KindDelete)
	case "1":
		return m.filter(task.StatusAll)
	case "2":
		return m.filter(task.StatusCompleted)
	case "3":
		return m.filter(task.StatusActive)
	case "s":
		res, err := m.app.Dispatch(m.ctx, app.Event{Action: app.ActionSortRequested})
		if err != nil {
			m.setStatus(fmt.Sprintf("sort failed: %v", err), true)
		} else if res.Changed {
			m.setStatus("Saved in due date order", false)
		} else {
			m.setStatus("Already in due date order", false)
		}
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.mode = modeList
		m.pending = ""
		m.input.SetValue("")
		m.input.Blur()
		m.setStatus("Cancelled", false)
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if m.mode == modeAddText {
			if value == "" {
				m.setStatus("Description cannot be empty", true)
				return m, nil
			}
			m.pending = value
			m.mode = modeAddDue
			m.input.SetValue("")
			m.input.Placeholder = "YYYY-MM-DD"
			m.setStatus("Due date (YYYY-MM-DD) for "+value, false)
			return m, nil
		}
		return m.submit(value)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) submit(due string) (tea.Model, tea.Cmd) {
	res, err := m.app.Dispatch(m.ctx, app.Event{Action: app.ActionSubmitTask, Text: m.pending, DueDate: due})
	if err != nil {
		// stay on the due date prompt so the user can correct it
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.mode = modeList
	m.pending = ""
	m.input.SetValue("")
	m.input.Blur()
	m.cursor = indexOf(m.visible(), res.Task.ID, m.cursor)
	m.setStatus("Added "+res.Task.Text, false)
	return m, nil
}

func (m Model) taskAction(kind string) (tea.Model, tea.Cmd) {
	rows := m.visible()
	if len(rows) == 0 {
		return m, nil
	}
	m.cursor = clampCursor(m.cursor, len(rows))
	t := rows[m.cursor]
	res, err := m.app.Dispatch(m.ctx, app.Event{Action: app.ActionTaskAction, Kind: kind, ID: t.ID})
	if err != nil {
		m.setStatus(fmt.Sprintf("%s failed: %v", kind, err), true)
		return m, nil
	}
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	switch {
	case !res.Changed:
		m.setStatus("Task no longer exists", true)
	case kind == app.KindDelete:
		m.setStatus("Deleted "+t.Text, false)
	case res.Task.Completed:
		m.setStatus("Completed "+t.Text, false)
	default:
		m.setStatus("Reopened "+t.Text, false)
	}
	return m, nil
}

func (m Model) filter(status task.Status) (tea.Model, tea.Cmd) {
	if _, err := m.app.Dispatch(m.ctx, app.Event{Action: app.ActionFilterChanged, Status: string(status)}); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	m.setStatus("Showing "+string(status), false)
	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.isErr = isErr
}

func (m Model) View() string {
	var b strings.Builder
	snap := m.screen.snap

	b.WriteString(titleStyle.Render("duelist"))
	b.WriteString("  ")
	b.WriteString(renderFilters(snap.Status))
	b.WriteString("\n\n")

	if len(snap.Visible) == 0 {
		b.WriteString(emptyStyle.Render("No tasks here. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		today := m.now().Format(task.DateLayout)
		for i, t := range snap.Visible {
			b.WriteString(m.renderRow(i, t, today))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(filterStyle.Render(fmt.Sprintf("%d tasks, %d completed", snap.Total, snap.Completed)))
	b.WriteString("\n")

	if m.mode != modeList {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.isErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • a add • space toggle • d delete • 1 all • 2 completed • 3 active • s sort • q quit"))
	return b.String()
}

func (m Model) renderRow(i int, t task.Task, today string) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}

	due := output.NoDate
	if t.HasDueDate() {
		due = t.DueDate
	}
	switch {
	case t.Completed || !t.HasDueDate():
		due = filterStyle.Render(due)
	case t.DueDate < today:
		due = overdueStyle.Render(due)
	default:
		due = dueStyle.Render(due)
	}

	text := t.Text
	if t.Completed {
		text = doneStyle.Render(text)
	}
	return fmt.Sprintf("%s%s %s  %s", cursor, box, due, text)
}

func renderFilters(current task.Status) string {
	labels := []struct {
		key    string
		status task.Status
	}{
		{"1", task.StatusAll},
		{"2", task.StatusCompleted},
		{"3", task.StatusActive},
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		s := l.key + " " + string(l.status)
		if l.status == current {
			parts[i] = activeFilter.Render(s)
		} else {
			parts[i] = filterStyle.Render(s)
		}
	}
	return strings.Join(parts, "  ")
}

func clampCursor(cur, n int) int {
	if n == 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func indexOf(tasks []task.Task, id task.ID, fallback int) int {
	if i := task.IndexOf(tasks, id); i >= 0 {
		return i
	}
	return clampCursor(fallback, len(tasks))
}
