package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	activitydto "standwatch/internal/modules/activity/dto"
	monitordto "standwatch/internal/modules/monitor/dto"
	reminderdto "standwatch/internal/modules/reminder/dto"
	"standwatch/internal/ui/components"
	statusview "standwatch/internal/ui/views/status"
)

type fakeMonitor struct {
	triggers int
	updates  chan monitordto.SnapshotOutput
}

func (f *fakeMonitor) Trigger() { f.triggers++ }
func (f *fakeMonitor) Snapshot() monitordto.SnapshotOutput { return monitordto.SnapshotOutput{Status: "unknown"} }
func (f *fakeMonitor) Updates() <-chan monitordto.SnapshotOutput { return f.updates }

type fakeActivity struct {
	start, end time.Time
	minutes    float64
}

func (f *fakeActivity) Add(_ context.Context, start, end time.Time, minutes float64) (activitydto.ImportOutput, error) {
	f.start, f.end, f.minutes = start, end, minutes
	return activitydto.ImportOutput{Read: 1, Imported: 1}, nil
}

func (f *fakeActivity) Doctor(context.Context) (activitydto.SourceOutput, error) {
	return activitydto.SourceOutput{Kind: "sqlite", Detail: "3 samples stored"}, nil
}

type fakeLog struct{}

func (fakeLog) Log(context.Context, int) ([]reminderdto.LogEntryOutput, error) {
	return nil, nil
}

func newTestModel() (Model, *fakeMonitor, *fakeActivity) {
	mon := &fakeMonitor{updates: make(chan monitordto.SnapshotOutput, 1)}
	act := &fakeActivity{}
	m := NewModel(mon, act, fakeLog{})
	m.now = func() time.Time { return time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC) }
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), mon, act
}

func TestFocusTriggersCycle(t *testing.T) {
	t.Parallel()

	m, mon, _ := newTestModel()
	next, _ := m.Update(tea.FocusMsg{})
	if mon.triggers != 1 {
		t.Fatalf("expected focus to trigger one cycle, got %d", mon.triggers)
	}
	if got := next.(Model).status; !strings.Contains(got, "resumed") {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestRefreshKeyTriggersCycle(t *testing.T) {
	t.Parallel()

	m, mon, _ := newTestModel()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if mon.triggers != 1 {
		t.Fatalf("expected r to trigger one cycle, got %d", mon.triggers)
	}
}

func TestSnapshotRendersOutputs(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel()
	hour := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	snap := monitordto.SnapshotOutput{
		HasResult: true,
		Status:    "fresh",
		UpdatedAt: hour.Add(30 * time.Minute),
		Trigger:   "timer",
		Cycles:    2,
		Check: reminderdto.CheckOutput{
			Outcome: "send",
			Evaluation: activitydto.EvaluationOutput{
				ContinuousSittingHours: 2,
				ShouldRemind:           true,
				Phase:                  "all_day",
				GoalMinutes:            1,
				Buckets: []activitydto.BucketOutput{
					{HourStart: hour.Add(-time.Hour), StandingMinutes: 0},
					{HourStart: hour, StandingMinutes: 0.5},
				},
			},
		},
	}

	next, cmd := m.Update(statusview.SnapshotMsg{Snapshot: snap})
	if cmd == nil {
		t.Fatalf("expected snapshot to re-arm the update listener")
	}
	got := next.(Model)
	if _, seen := got.statusView.Snapshot(); !seen {
		t.Fatalf("status view did not receive the snapshot")
	}
	if !strings.Contains(got.status, "time to stand") {
		t.Fatalf("unexpected status %q", got.status)
	}
	view := got.View()
	for _, want := range []string{"sitting streak", "2h", "09:00", "10:00"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWaitForSnapshotReadsChannel(t *testing.T) {
	t.Parallel()

	m, mon, _ := newTestModel()
	mon.updates <- monitordto.SnapshotOutput{Status: "stale", LastError: "data unavailable"}
	msg := m.waitForSnapshot()()
	snap, ok := msg.(statusview.SnapshotMsg)
	if !ok {
		t.Fatalf("expected SnapshotMsg, got %T", msg)
	}
	if snap.Snapshot.Status != "stale" {
		t.Fatalf("unexpected snapshot %+v", snap.Snapshot)
	}

	close(mon.updates)
	if msg := m.waitForSnapshot()(); msg != nil {
		t.Fatalf("expected nil after close, got %T", msg)
	}
}

func TestPaletteStoodRecordsSampleAndTriggers(t *testing.T) {
	t.Parallel()

	m, mon, act := newTestModel()
	next, cmd := m.Update(components.PaletteSubmitMsg{Input: "stood 2"})
	if cmd == nil {
		t.Fatalf("expected a command for stood")
	}
	msg := cmd()
	if act.minutes != 2 {
		t.Fatalf("expected 2 minutes, got %v", act.minutes)
	}
	if act.end.Sub(act.start) != 2*time.Minute {
		t.Fatalf("unexpected sample span %s..%s", act.start, act.end)
	}

	next, _ = next.(Model).Update(msg)
	if mon.triggers != 1 {
		t.Fatalf("expected a re-evaluation after recording, got %d", mon.triggers)
	}
	if got := next.(Model).status; !strings.Contains(got, "recorded 1") {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestPaletteRejectsBadInput(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel()
	cases := map[string]string{
		"stood":      "usage",
		"stood -1":   "invalid minutes",
		"jump north": "unknown command",
	}
	for input, want := range cases {
		next, _ := m.Update(components.PaletteSubmitMsg{Input: input})
		if got := next.(Model).status; !strings.Contains(got, want) {
			t.Fatalf("%q: status %q does not contain %q", input, got, want)
		}
	}
}
