package status

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	activitydto "standwatch/internal/modules/activity/dto"
	monitordto "standwatch/internal/modules/monitor/dto"
	"standwatch/internal/ui/theme"
)

const barCells = 20

// ─── messages ────────────────────────────────────────────────────────────────

// SnapshotMsg carries a published monitor snapshot into the view.
type SnapshotMsg struct {
	Snapshot monitordto.SnapshotOutput
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	snapshot monitordto.SnapshotOutput
	seen     bool
	body     viewport.Model
	spinner  spinner.Model
	width    int
	height   int
}

func New() Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{body: vp, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = max(msg.Width-4, 0)
		m.body.Height = max(msg.Height-2, 0)
		m.body.SetContent(m.render())

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		m.seen = true
		m.body.SetContent(m.render())

	case spinner.TickMsg:
		if !m.seen {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.body, vCmd = m.body.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if !m.seen {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Evaluating standing activity…")
	}
	return theme.Pane.Width(max(m.width-2, 0)).Height(max(m.height-2, 0)).Render(m.body.View())
}

// Snapshot returns the last snapshot the view rendered.
func (m Model) Snapshot() (monitordto.SnapshotOutput, bool) {
	return m.snapshot, m.seen
}

// ─── rendering ───────────────────────────────────────────────────────────────

func (m Model) render() string {
	s := m.snapshot
	var sb strings.Builder

	sb.WriteString(theme.Title.Render("Standing") + "  " + statusBadge(s.Status))
	if !s.UpdatedAt.IsZero() {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("  updated %s (%s, cycle %d)",
			s.UpdatedAt.Format("15:04:05"), s.Trigger, s.Cycles)))
	}
	sb.WriteString("\n\n")

	if s.LastError != "" {
		sb.WriteString(theme.Bad.Render("last cycle failed: ") + s.LastError + "\n\n")
	}
	if !s.HasResult {
		sb.WriteString(theme.Muted.Render("No result yet. Press r to evaluate."))
		return sb.String()
	}

	ev := s.Check.Evaluation
	sb.WriteString(row("current hour", yesNo(ev.CurrentHourComplete, "complete", "incomplete")))
	sb.WriteString(row("sitting streak", sittingHours(ev.ContinuousSittingHours)))
	sb.WriteString(row("should remind", remindBadge(ev.ShouldRemind)))
	sb.WriteString(row("previous hour", yesNo(ev.PreviousHourComplete, "complete", "incomplete")))
	sb.WriteString(row("phase", ev.Phase))
	sb.WriteString(row("goal", fmt.Sprintf("%.1f min/hour", ev.GoalMinutes)))
	if s.Check.Outcome != "" {
		outcome := s.Check.Outcome
		if s.Check.DeliveryError != "" {
			outcome += theme.Bad.Render("  " + s.Check.DeliveryError)
		}
		sb.WriteString(row("reminder", outcome))
	}

	sb.WriteString("\n" + theme.Title.Render("Hours") + "\n")
	sb.WriteString(renderBuckets(ev.Buckets, ev.GoalMinutes))
	return sb.String()
}

func renderBuckets(buckets []activitydto.BucketOutput, goal float64) string {
	if len(buckets) == 0 {
		return theme.Muted.Render("  no hours in range") + "\n"
	}
	var sb strings.Builder
	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf("  %s  %s  %5.1f", b.HourStart.Format("15:04"), bar(b.StandingMinutes, goal), b.StandingMinutes))
		if b.Complete {
			sb.WriteString(theme.Good.Render("  ✓"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// bar scales a bucket against twice the goal so a met goal fills half.
func bar(minutes, goal float64) string {
	filled := 0
	if goal > 0 {
		filled = int(math.Round(minutes / (2 * goal) * barCells))
	}
	filled = min(max(filled, 0), barCells)
	return theme.BarFull.Render(strings.Repeat("█", filled)) +
		theme.BarEmpty.Render(strings.Repeat("░", barCells-filled))
}

func row(label, value string) string {
	return theme.Muted.Render(fmt.Sprintf("%-16s", label)) + value + "\n"
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return theme.Good.Render(yes)
	}
	return theme.Warn.Render(no)
}

func sittingHours(h int) string {
	text := fmt.Sprintf("%dh", h)
	if h >= 2 {
		return theme.Hot.Render(text)
	}
	return text
}

func remindBadge(remind bool) string {
	if remind {
		return theme.Bad.Render("yes, time to stand")
	}
	return theme.Good.Render("no")
}

func statusBadge(status string) string {
	switch status {
	case "fresh":
		return theme.Good.Render("● fresh")
	case "stale":
		return theme.Warn.Render("● stale")
	}
	return theme.Muted.Render("● unknown")
}
