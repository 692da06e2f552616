package domain

import "time"

const BucketWidth = time.Hour

type HourBucket struct {
	HourStart       time.Time
	StandingMinutes float64
}

func (b HourBucket) Complete(goalMinutes float64) bool {
	return b.StandingMinutes >= goalMinutes
}

// FloorHour returns the top of t's local clock hour. It subtracts the
// sub-hour fields instead of rebuilding the date so that repeated wall-clock
// hours at a DST fall-back stay distinct.
func FloorHour(t time.Time) time.Time {
	return t.Add(-time.Duration(t.Minute())*time.Minute -
		time.Duration(t.Second())*time.Second -
		time.Duration(t.Nanosecond()))
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Aggregate spreads each sample's duration over the hour buckets it
// intersects, proportionally to time-in-bucket. The result has one bucket
// per hour from FloorHour(w.From) up to w.To, zero-filled. Time outside
// that range is dropped.
func Aggregate(samples []Sample, w Window) ([]HourBucket, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	for _, s := range samples {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	from := FloorHour(w.From)
	clipped := Window{From: from, To: w.To}
	buckets := make([]HourBucket, 0, int(w.To.Sub(from)/BucketWidth)+1)
	for h := from; h.Before(w.To); h = h.Add(BucketWidth) {
		buckets = append(buckets, HourBucket{HourStart: h})
	}

	for _, s := range samples {
		if s.DurationMinutes == 0 || !s.Overlaps(clipped) {
			continue
		}
		if s.End.Equal(s.Start) {
			buckets[bucketIndex(from, s.Start)].StandingMinutes += s.DurationMinutes
			continue
		}
		lo := later(s.Start, from)
		hi := earlier(s.End, w.To)
		span := float64(s.End.Sub(s.Start))
		for i := bucketIndex(from, lo); i < len(buckets); i++ {
			start := buckets[i].HourStart
			if !start.Before(hi) {
				break
			}
			overlap := earlier(start.Add(BucketWidth), hi).Sub(later(start, lo))
			if overlap <= 0 {
				continue
			}
			buckets[i].StandingMinutes += s.DurationMinutes * float64(overlap) / span
		}
	}
	return buckets, nil
}

func bucketIndex(from, t time.Time) int {
	return int(t.Sub(from) / BucketWidth)
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
