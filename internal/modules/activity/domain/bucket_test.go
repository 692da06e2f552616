package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	apperrors "standwatch/internal/platform/errors"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 4, hour, minute, 0, 0, time.UTC)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateSumsSamplesInOneBucket(t *testing.T) {
	t.Parallel()
	samples := []Sample{
		{Start: at(9, 5), End: at(9, 6), DurationMinutes: 1},
		{Start: at(9, 20), End: at(9, 22), DurationMinutes: 2},
		{Start: at(9, 40), End: at(9, 40), DurationMinutes: 0.5},
	}
	buckets, err := Aggregate(samples, Window{From: at(8, 0), To: at(11, 0)})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	want := []float64{0, 3.5, 0}
	for i, b := range buckets {
		if !b.HourStart.Equal(at(8+i, 0)) {
			t.Fatalf("bucket %d starts at %s", i, b.HourStart)
		}
		if !near(b.StandingMinutes, want[i]) {
			t.Fatalf("bucket %d: expected %v minutes, got %v", i, want[i], b.StandingMinutes)
		}
	}
}

func TestAggregateSplitsStraddlingSampleProportionally(t *testing.T) {
	t.Parallel()
	sample := Sample{Start: at(9, 45), End: at(10, 15), DurationMinutes: 30}
	buckets, err := Aggregate([]Sample{sample}, Window{From: at(9, 0), To: at(11, 0)})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !near(buckets[0].StandingMinutes, 15) || !near(buckets[1].StandingMinutes, 15) {
		t.Fatalf("expected 15/15 split, got %v/%v", buckets[0].StandingMinutes, buckets[1].StandingMinutes)
	}

	uneven := Sample{Start: at(8, 50), End: at(10, 20), DurationMinutes: 9}
	buckets, err = Aggregate([]Sample{uneven}, Window{From: at(8, 0), To: at(11, 0)})
	if err != nil {
		t.Fatalf("aggregate uneven: %v", err)
	}
	total := 0.0
	for _, b := range buckets {
		total += b.StandingMinutes
	}
	if !near(total, 9) {
		t.Fatalf("expected total of 9 minutes conserved, got %v", total)
	}
	if !near(buckets[0].StandingMinutes, 1) || !near(buckets[1].StandingMinutes, 6) || !near(buckets[2].StandingMinutes, 2) {
		t.Fatalf("unexpected split: %+v", buckets)
	}
}

func TestAggregateClipsToWindow(t *testing.T) {
	t.Parallel()
	samples := []Sample{
		{Start: at(6, 0), End: at(7, 0), DurationMinutes: 5},
		{Start: at(9, 30), End: at(10, 30), DurationMinutes: 10},
	}
	buckets, err := Aggregate(samples, Window{From: at(9, 10), To: at(10, 0)})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(buckets) != 1 || !buckets[0].HourStart.Equal(at(9, 0)) {
		t.Fatalf("expected a single 09:00 bucket, got %+v", buckets)
	}
	if !near(buckets[0].StandingMinutes, 5) {
		t.Fatalf("expected the in-window half of the sample, got %v", buckets[0].StandingMinutes)
	}
}

func TestAggregatePartialLastBucket(t *testing.T) {
	t.Parallel()
	buckets, err := Aggregate(nil, Window{From: at(8, 0), To: at(10, 30)})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(buckets) != 3 {
		t.Fatalf("expected buckets for 08, 09 and the running 10 o'clock hour, got %d", len(buckets))
	}
	for _, b := range buckets {
		if b.StandingMinutes != 0 {
			t.Fatalf("expected zero-filled buckets, got %+v", b)
		}
	}
}

func TestAggregateRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	window := Window{From: at(8, 0), To: at(10, 0)}
	cases := map[string]struct {
		samples []Sample
		window  Window
		want    error
	}{
		"end before start": {samples: []Sample{{Start: at(9, 0), End: at(8, 0), DurationMinutes: 1}}, window: window, want: apperrors.ErrInvalidSample},
		"negative":         {samples: []Sample{{Start: at(9, 0), End: at(9, 1), DurationMinutes: -1}}, window: window, want: apperrors.ErrInvalidSample},
		"nan":              {samples: []Sample{{Start: at(9, 0), End: at(9, 1), DurationMinutes: math.NaN()}}, window: window, want: apperrors.ErrInvalidSample},
		"empty window":     {window: Window{From: at(9, 0), To: at(9, 0)}, want: apperrors.ErrInvalidWindow},
		"reversed window":  {window: Window{From: at(10, 0), To: at(9, 0)}, want: apperrors.ErrInvalidWindow},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Aggregate(tc.samples, tc.window); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFloorHourHalfHourZone(t *testing.T) {
	t.Parallel()
	kolkata := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, time.March, 4, 10, 47, 12, 5, kolkata)
	got := FloorHour(ts)
	want := time.Date(2024, time.March, 4, 10, 0, 0, 0, kolkata)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if got.UTC().Minute() != 30 {
		t.Fatalf("expected local hour alignment, got UTC %s", got.UTC())
	}
}

func TestAggregateAcrossFallBack(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2024-11-03 01:00 local happens twice.
	from := time.Date(2024, time.November, 3, 0, 0, 0, 0, loc)
	to := from.Add(4 * time.Hour)
	sample := Sample{Start: from.Add(90 * time.Minute), End: from.Add(150 * time.Minute), DurationMinutes: 4}
	buckets, err := Aggregate([]Sample{sample}, Window{From: from, To: to})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(buckets) != 4 {
		t.Fatalf("expected 4 elapsed hours, got %d", len(buckets))
	}
	if !near(buckets[1].StandingMinutes, 2) || !near(buckets[2].StandingMinutes, 2) {
		t.Fatalf("expected sample split across the repeated hour, got %+v", buckets)
	}
	if buckets[1].HourStart.Hour() != 1 || buckets[2].HourStart.Hour() != 1 {
		t.Fatalf("expected two 01:00 buckets, got %s and %s", buckets[1].HourStart, buckets[2].HourStart)
	}
}
