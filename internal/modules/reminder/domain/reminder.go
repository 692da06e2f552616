package domain

import (
	"fmt"
	"time"

	apperrors "standwatch/internal/platform/errors"
)

const (
	DefaultTitle = "Time to Stand!"
	DefaultBody  = "You haven't stood in the last hour. Take a quick break!"
)

type Reminder struct {
	ID          string    `json:"id"`
	HourStart   time.Time `json:"hour_start"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	StreakHours int       `json:"streak_hours"`
	CreatedAt   time.Time `json:"created_at"`
}

// Marker records the hour the last reminder was delivered for. The zero
// value means no reminder has been delivered yet.
type Marker struct {
	HourStart  time.Time `json:"hour_start"`
	ReminderID string    `json:"reminder_id"`
	SentAt     time.Time `json:"sent_at"`
}

func (m Marker) Covers(hourStart time.Time) bool {
	return !m.HourStart.IsZero() && m.HourStart.Equal(hourStart)
}

// QuietRange is a daily span of local wall-clock time in which reminders
// are held back. A range whose end is before its start wraps past midnight.
type QuietRange struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

func (q QuietRange) Validate() error {
	if q.StartHour < 0 || q.StartHour > 23 || q.EndHour < 0 || q.EndHour > 23 ||
		q.StartMinute < 0 || q.StartMinute > 59 || q.EndMinute < 0 || q.EndMinute > 59 {
		return fmt.Errorf("%w: quiet range %02d:%02d-%02d:%02d", apperrors.ErrInvalidInput, q.StartHour, q.StartMinute, q.EndHour, q.EndMinute)
	}
	return nil
}

func (q QuietRange) Contains(t time.Time) bool {
	now := t.Hour()*60 + t.Minute()
	start := q.StartHour*60 + q.StartMinute
	end := q.EndHour*60 + q.EndMinute
	switch {
	case start == end:
		return false
	case start < end:
		return now >= start && now < end
	default:
		return now >= start || now < end
	}
}

func (q QuietRange) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", q.StartHour, q.StartMinute, q.EndHour, q.EndMinute)
}
