package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	activitydto "standwatch/internal/modules/activity/dto"
	monitordto "standwatch/internal/modules/monitor/dto"
	"standwatch/internal/ui/components"
	"standwatch/internal/ui/theme"
	remindersview "standwatch/internal/ui/views/reminders"
	statusview "standwatch/internal/ui/views/status"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type monitorPort interface {
	Trigger()
	Snapshot() monitordto.SnapshotOutput
	Updates() <-chan monitordto.SnapshotOutput
}

type activityPort interface {
	Add(ctx context.Context, start, end time.Time, minutes float64) (activitydto.ImportOutput, error)
	Doctor(ctx context.Context) (activitydto.SourceOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabStatus tabID = iota
	tabReminders
	tabCount
)

var tabLabels = [tabCount]string{"Status", "Reminders"}

// ─── async messages ──────────────────────────────────────────────────────────

type sampleAddedMsg struct {
	out activitydto.ImportOutput
	err error
}

type doctorMsg struct {
	out activitydto.SourceOutput
	err error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Refresh key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "evaluate now")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Tab},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. The monitor loop runs elsewhere; the
// model only triggers cycles and renders the snapshots it publishes.
type Model struct {
	monitor  monitorPort
	activity activityPort
	now      func() time.Time

	statusView    statusview.Model
	remindersView remindersview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(monitor monitorPort, activity activityPort, reminders remindersview.LogPort) Model {
	return Model{
		monitor:       monitor,
		activity:      activity,
		now:           time.Now,
		statusView:    statusview.New(),
		remindersView: remindersview.New(reminders),
		activeTab:     tabStatus,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "waiting for first evaluation",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.statusView.Init(),
		m.remindersView.Init(),
		m.waitForSnapshot(),
	}
	if snap := m.monitor.Snapshot(); snap.HasResult || snap.Cycles > 0 {
		cmds = append(cmds, func() tea.Msg { return statusview.SnapshotMsg{Snapshot: snap} })
	}
	return tea.Batch(cmds...)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 60))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tea.FocusMsg:
		// Terminal regained focus: treat it as a foreground resume.
		m.monitor.Trigger()
		m.status = "resumed, re-evaluating"
		return m, nil

	case statusview.SnapshotMsg:
		m.status = describe(msg.Snapshot)
		var cmd tea.Cmd
		m.statusView, cmd = m.statusView.Update(msg)
		return m, tea.Batch(cmd, m.remindersView.Reload(), m.waitForSnapshot())

	case remindersview.LoadedMsg:
		var cmd tea.Cmd
		m.remindersView, cmd = m.remindersView.Update(msg)
		return m, cmd

	case sampleAddedMsg:
		if msg.err != nil {
			m.status = "record sample: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("recorded %d sample(s), re-evaluating", msg.out.Imported)
		m.monitor.Trigger()
		return m, nil

	case doctorMsg:
		if msg.err != nil {
			m.status = "source: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("source %s ok: %s", msg.out.Kind, msg.out.Detail)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabReminders && m.remindersView.Filtering() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Refresh):
			m.monitor.Trigger()
			m.status = "evaluating"
			return m, nil
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabStatus:
		m.statusView, tabCmd = m.statusView.Update(msg)
	case tabReminders:
		m.remindersView, tabCmd = m.remindersView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabReminders:
		content = m.remindersView.View()
	default:
		content = m.statusView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "standwatch  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "check":
		m.monitor.Trigger()
		m.status = "evaluating"

	case "stood":
		if len(parts) < 2 {
			m.status = "usage: stood <minutes>"
			return m, nil
		}
		minutes, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || minutes <= 0 {
			m.status = "invalid minutes: " + parts[1]
			return m, nil
		}
		return m, m.addSampleCmd(minutes)

	case "reminders:reload":
		return m, m.remindersView.Reload()

	case "source:doctor":
		return m, m.doctorCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.statusView, _ = m.statusView.Update(sz)
	m.remindersView, _ = m.remindersView.Update(sz)
}

func describe(s monitordto.SnapshotOutput) string {
	if s.LastError != "" {
		return "evaluation failed (" + s.Status + "): " + s.LastError
	}
	if !s.HasResult {
		return "no result"
	}
	ev := s.Check.Evaluation
	if ev.ShouldRemind {
		return theme.Bad.Render(fmt.Sprintf("time to stand, sitting %dh", ev.ContinuousSittingHours))
	}
	return fmt.Sprintf("ok, sitting %dh", ev.ContinuousSittingHours)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) waitForSnapshot() tea.Cmd {
	updates := m.monitor.Updates()
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return statusview.SnapshotMsg{Snapshot: snap}
	}
}

func (m Model) addSampleCmd(minutes float64) tea.Cmd {
	end := m.now()
	start := end.Add(-time.Duration(minutes * float64(time.Minute)))
	return func() tea.Msg {
		out, err := m.activity.Add(context.Background(), start, end, minutes)
		return sampleAddedMsg{out: out, err: err}
	}
}

func (m Model) doctorCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.activity.Doctor(context.Background())
		return doctorMsg{out: out, err: err}
	}
}
