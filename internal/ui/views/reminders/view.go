package reminders

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	reminderdto "standwatch/internal/modules/reminder/dto"
	"standwatch/internal/ui/theme"
)

const tailSize = 50

// ─── port ────────────────────────────────────────────────────────────────────

type LogPort interface {
	Log(ctx context.Context, tail int) ([]reminderdto.LogEntryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Entries []reminderdto.LogEntryOutput
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type entryItem struct {
	entry reminderdto.LogEntryOutput
}

func (i entryItem) Title() string {
	return fmt.Sprintf("%s  %s", i.entry.At.Format("Jan 02 15:04"), i.entry.Outcome)
}

func (i entryItem) Description() string {
	desc := fmt.Sprintf("hour %s  sitting %dh", i.entry.HourStart.Format("15:04"), i.entry.StreakHours)
	if i.entry.Reason != "" {
		desc += "  " + i.entry.Reason
	}
	if i.entry.DeliveryError != "" {
		desc += "  error: " + i.entry.DeliveryError
	}
	return desc
}

func (i entryItem) FilterValue() string { return i.entry.Outcome }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port LogPort
	list list.Model
}

func New(port LogPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Reminders"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload fetches the newest log entries.
func (m Model) Reload() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := m.port.Log(context.Background(), tailSize)
		return LoadedMsg{Entries: entries, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)

	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Reminders: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Reminders"
		// newest first
		items := make([]list.Item, len(msg.Entries))
		for i, e := range msg.Entries {
			items[len(msg.Entries)-1-i] = entryItem{entry: e}
		}
		cmds = append(cmds, m.list.SetItems(items))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return m.list.View()
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Len returns the number of entries shown.
func (m Model) Len() int {
	return len(m.list.Items())
}
