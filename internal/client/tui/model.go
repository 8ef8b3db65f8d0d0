package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo-api/internal/client"
)

type mode int

const (
	browsing mode = iota
	adding
	editing
)

const (
	actionLoad     = "load"
	actionAdd      = "add"
	actionEdit     = "edit"
	actionDelete   = "delete"
	actionComplete = "complete"
)

// resultMsg is sent back to Update when an API call finishes
type resultMsg struct {
	action string
	err    error
}

// Model is the Bubble Tea model of the todo list. All API calls go through
// client.View and run as commands, so Update never blocks on the network.
type Model struct {
	view    *client.View
	timeout time.Duration

	keys keyMap
	help help.Model
	ti   textinput.Model

	mode   mode
	cursor int
	editID int64
	status string
}

func New(view *client.View, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 500
	ti.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		view:    view,
		timeout: timeout,
		keys:    defaultKeyMap(),
		help:    help.New(),
		ti:      ti,
	}
}

// Run blocks until the user quits.
func Run(view *client.View, timeout time.Duration) error {
	_, err := tea.NewProgram(New(view, timeout), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.call(actionLoad, m.view.Load)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return m.handleResult(msg), nil
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case adding:
			return m.updateAdding(msg)
		case editing:
			return m.updateEditing(msg)
		default:
			return m.updateBrowsing(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A command may have shrunk the list before its result reached Update.
	items := m.view.Items()
	m.cursor = clampCursor(m.cursor, len(items))

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.mode = adding
		m.status = ""
		m.ti.SetValue(m.view.Input())
		m.ti.CursorEnd()
		return m, m.ti.Focus()
	case key.Matches(msg, m.keys.Edit):
		if len(items) == 0 {
			return m, nil
		}
		selected := items[m.cursor]
		m.mode = editing
		m.editID = selected.ID
		m.status = ""
		m.ti.SetValue(selected.Text)
		m.ti.CursorEnd()
		return m, m.ti.Focus()
	case key.Matches(msg, m.keys.Delete):
		if len(items) == 0 {
			return m, nil
		}
		id := items[m.cursor].ID
		return m, m.call(actionDelete, func(ctx context.Context) error {
			return m.view.Delete(ctx, id)
		})
	case key.Matches(msg, m.keys.Complete):
		if len(items) == 0 {
			return m, nil
		}
		id := items[m.cursor].ID
		return m, m.call(actionComplete, func(ctx context.Context) error {
			_, err := m.view.Complete(ctx, id)
			return err
		})
	case key.Matches(msg, m.keys.Reload):
		return m, m.call(actionLoad, m.view.Load)
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if strings.TrimSpace(m.ti.Value()) == "" {
			m.status = failLine("text cannot be empty")
			return m, nil
		}
		m.view.SetInput(m.ti.Value())
		return m, m.call(actionAdd, func(ctx context.Context) error {
			_, err := m.view.Add(ctx)
			return err
		})
	case key.Matches(msg, m.keys.Cancel):
		m.mode = browsing
		m.ti.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.view.SetInput(m.ti.Value())
	return m, cmd
}

// updateEditing sends the text to the API on every change, no debounce.
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) || key.Matches(msg, m.keys.Cancel) {
		m.mode = browsing
		m.ti.Blur()
		m.ti.Reset()
		return m, nil
	}

	before := m.ti.Value()
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	text := m.ti.Value()
	if text == before {
		return m, cmd
	}

	id := m.editID
	return m, tea.Batch(cmd, m.call(actionEdit, func(ctx context.Context) error {
		_, err := m.view.Edit(ctx, id, text)
		return err
	}))
}

func (m Model) handleResult(msg resultMsg) Model {
	if msg.err != nil {
		m.status = failLine(fmt.Sprintf("%s failed: %v", msg.action, msg.err))
		return m
	}

	switch msg.action {
	case actionAdd:
		m.mode = browsing
		m.ti.Blur()
		m.ti.Reset()
		m.status = okLine("added")
	case actionDelete:
		m.status = okLine("deleted")
	case actionComplete:
		m.status = okLine("completed")
	case actionLoad:
		m.status = ""
	}

	m.cursor = clampCursor(m.cursor, len(m.view.Items()))
	return m
}

func clampCursor(cursor int, n int) int {
	if cursor >= n {
		return max(n-1, 0)
	}
	return cursor
}

func (m Model) call(action string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		return resultMsg{action: action, err: fn(ctx)}
	}
}

func (m Model) View() string {
	items := m.view.Items()

	done := 0
	for _, item := range items {
		if item.IsCompleted() {
			done++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s   %s %d  %s %d  %s %d\n\n",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(items)-done,
		accentStyle.Render("Total"), len(items),
	)

	if len(items) == 0 && m.mode != adding {
		b.WriteString(mutedStyle.Render("No todos yet. Press a to add one."))
		b.WriteString("\n")
	}

	for i, item := range items {
		prefix := "  "
		if i == m.cursor && m.mode != adding {
			prefix = selectedStyle.Render("> ")
		}

		box, text := mutedStyle.Render(boxUnchecked), item.Text
		if item.IsCompleted() {
			box = successStyle.Render(boxChecked)
			text = doneStyle.Render(text)
		}
		if m.mode == editing && item.ID == m.editID {
			text = m.ti.View()
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, box, text)
	}

	if m.mode == adding {
		b.WriteString("  " + m.ti.View() + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	return frameStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n" + m.help.View(m.keys) + "\n"
}
