package domain

import "time"

type Outcome string

const (
	OutcomeNone                    Outcome = "none"
	OutcomeSend                    Outcome = "send"
	OutcomeSuppressedDuplicate     Outcome = "suppressed_duplicate"
	OutcomeSuppressedQuiet         Outcome = "suppressed_quiet"
	OutcomeSuppressedOutsideWindow Outcome = "suppressed_outside_window"
)

// Signal is the part of an evaluation the reminder policy looks at.
type Signal struct {
	HourStart    time.Time
	EvaluatedAt  time.Time
	ShouldRemind bool
	StreakHours  int
	InWindow     bool
}

type Options struct {
	QuietHours          []QuietRange
	RemindOutsideWindow bool
}

type Decision struct {
	Outcome Outcome
	Reason  string
}

// Decide applies repeat suppression, the active window and quiet hours to
// an evaluation's advisory should-remind flag.
func Decide(signal Signal, marker Marker, opts Options) Decision {
	if !signal.ShouldRemind {
		return Decision{Outcome: OutcomeNone}
	}
	if marker.Covers(signal.HourStart) {
		return Decision{Outcome: OutcomeSuppressedDuplicate, Reason: "already reminded for " + signal.HourStart.Format("15:04")}
	}
	if !signal.InWindow && !opts.RemindOutsideWindow {
		return Decision{Outcome: OutcomeSuppressedOutsideWindow, Reason: "outside the active window"}
	}
	for _, quiet := range opts.QuietHours {
		if quiet.Contains(signal.EvaluatedAt) {
			return Decision{Outcome: OutcomeSuppressedQuiet, Reason: "quiet hours " + quiet.String()}
		}
	}
	return Decision{Outcome: OutcomeSend}
}

// LogEntry is one line of the reminder log.
type LogEntry struct {
	At            time.Time `json:"at"`
	HourStart     time.Time `json:"hour_start"`
	Outcome       Outcome   `json:"outcome"`
	Reason        string    `json:"reason,omitempty"`
	ReminderID    string    `json:"reminder_id,omitempty"`
	StreakHours   int       `json:"streak_hours"`
	DeliveryError string    `json:"delivery_error,omitempty"`
}

// Delivery is what processing one signal produced.
type Delivery struct {
	Decision  Decision
	Reminder  Reminder
	Delivered bool
	Err       error
}
