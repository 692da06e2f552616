package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "standwatch/internal/platform/errors"
)

// Sample is one reported interval of standing activity. Samples may overlap
// or straddle hour boundaries.
type Sample struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes float64   `json:"duration_minutes"`
}

func (s Sample) Validate() error {
	if s.End.Before(s.Start) {
		return fmt.Errorf("%w: end %s before start %s", apperrors.ErrInvalidSample, s.End.Format(time.RFC3339), s.Start.Format(time.RFC3339))
	}
	if math.IsNaN(s.DurationMinutes) || math.IsInf(s.DurationMinutes, 0) || s.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration %v must be a non-negative number of minutes", apperrors.ErrInvalidSample, s.DurationMinutes)
	}
	return nil
}

// Overlaps reports whether any part of the sample lies in w. A zero-length
// sample overlaps when its instant is inside w.
func (s Sample) Overlaps(w Window) bool {
	if s.End.Equal(s.Start) {
		return w.Contains(s.Start)
	}
	return s.Start.Before(w.To) && s.End.After(w.From)
}

// Window is the half-open interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Validate() error {
	if w.From.IsZero() || w.To.IsZero() {
		return fmt.Errorf("%w: both bounds are required", apperrors.ErrInvalidWindow)
	}
	if !w.To.After(w.From) {
		return fmt.Errorf("%w: to %s must be after from %s", apperrors.ErrInvalidWindow, w.To.Format(time.RFC3339), w.From.Format(time.RFC3339))
	}
	return nil
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// SourceInfo describes the sample source behind an evaluation.
type SourceInfo struct {
	Kind    string
	Name    string
	Version string
	Detail  string
}
