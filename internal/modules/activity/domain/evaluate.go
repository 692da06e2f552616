package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "standwatch/internal/platform/errors"
)

const DefaultGoalMinutes = 1.0

// ActiveWindow bounds streak tracking to [StartHour, EndHour) of each day.
type ActiveWindow struct {
	StartHour int
	EndHour   int
}

func (w ActiveWindow) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("%w: active window %02d-%02d", apperrors.ErrInvalidInput, w.StartHour, w.EndHour)
	}
	return nil
}

// Bounds returns the window's instants on the calendar day of t.
func (w ActiveWindow) Bounds(t time.Time) (time.Time, time.Time) {
	return time.Date(t.Year(), t.Month(), t.Day(), w.StartHour, 0, 0, 0, t.Location()),
		time.Date(t.Year(), t.Month(), t.Day(), w.EndHour, 0, 0, 0, t.Location())
}

// Policy holds the tunables shared by every evaluation. A nil ActiveWindow
// tracks the streak over the whole day.
type Policy struct {
	GoalMinutes  float64
	ActiveWindow *ActiveWindow
}

func DefaultPolicy() Policy {
	return Policy{GoalMinutes: DefaultGoalMinutes}
}

func (p Policy) Validate() error {
	if math.IsNaN(p.GoalMinutes) || p.GoalMinutes <= 0 {
		return fmt.Errorf("%w: goal minutes must be positive, got %v", apperrors.ErrInvalidInput, p.GoalMinutes)
	}
	if p.ActiveWindow != nil {
		return p.ActiveWindow.Validate()
	}
	return nil
}

type Phase string

const (
	PhaseBeforeWindow Phase = "before_window"
	PhaseInWindow     Phase = "in_window"
	PhaseAfterWindow  Phase = "after_window"
)

// StreakRange returns the span of the day the sitting streak is tracked over
// at now, clipped to now, and the phase of the day.
func (p Policy) StreakRange(now time.Time) (time.Time, time.Time, Phase) {
	day := StartOfDay(now)
	if p.ActiveWindow == nil {
		return day, now, PhaseInWindow
	}
	start, end := p.ActiveWindow.Bounds(day)
	switch {
	case now.Before(start):
		return start, start, PhaseBeforeWindow
	case !now.Before(end):
		return start, end, PhaseAfterWindow
	default:
		return start, now, PhaseInWindow
	}
}

// FetchWindow is the sample window an evaluation at now needs: the streak
// range plus the previous full hour.
func FetchWindow(now time.Time, p Policy) Window {
	start, _, _ := p.StreakRange(now)
	from := FloorHour(now).Add(-BucketWidth)
	if start.Before(from) {
		from = start
	}
	return Window{From: from, To: now}
}

type EvaluationResult struct {
	CurrentHourComplete    bool
	ContinuousSittingHours int
	ShouldRemind           bool

	PreviousHourComplete bool
	Phase                Phase
	HourStart            time.Time
	EvaluatedAt          time.Time
}

// Evaluation is one fetch-aggregate-evaluate cycle's output.
type Evaluation struct {
	Result      EvaluationResult
	Buckets     []HourBucket
	Window      Window
	GoalMinutes float64
}

// Evaluate derives the current-hour flag, the sitting streak and the reminder
// decision from hourly buckets. Hours missing from buckets count as zero
// standing minutes.
func Evaluate(now time.Time, buckets []HourBucket, p Policy) (EvaluationResult, error) {
	if err := p.Validate(); err != nil {
		return EvaluationResult{}, err
	}
	minutes := make(map[int64]float64, len(buckets))
	for i, b := range buckets {
		if !FloorHour(b.HourStart).Equal(b.HourStart) {
			return EvaluationResult{}, fmt.Errorf("%w: bucket %s is not hour aligned", apperrors.ErrInvalidInput, b.HourStart.Format(time.RFC3339))
		}
		if i > 0 && !b.HourStart.After(buckets[i-1].HourStart) {
			return EvaluationResult{}, fmt.Errorf("%w: buckets must be strictly ascending", apperrors.ErrInvalidInput)
		}
		minutes[b.HourStart.Unix()] = b.StandingMinutes
	}
	complete := func(hour time.Time) bool {
		return minutes[hour.Unix()] >= p.GoalMinutes
	}

	current := FloorHour(now)
	result := EvaluationResult{
		CurrentHourComplete:  complete(current),
		PreviousHourComplete: complete(current.Add(-BucketWidth)),
		HourStart:            current,
		EvaluatedAt:          now,
	}
	result.ShouldRemind = !result.CurrentHourComplete && !result.PreviousHourComplete

	start, end, phase := p.StreakRange(now)
	result.Phase = phase
	if phase == PhaseBeforeWindow {
		return result, nil
	}
	last := current
	if phase == PhaseAfterWindow {
		last = FloorHour(end.Add(-time.Nanosecond))
	}
	for hour := last; !hour.Before(start); hour = hour.Add(-BucketWidth) {
		if complete(hour) {
			break
		}
		result.ContinuousSittingHours++
	}
	return result, nil
}
