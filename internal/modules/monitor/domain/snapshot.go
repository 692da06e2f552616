package domain

import (
	"fmt"
	"time"

	reminderdto "standwatch/internal/modules/reminder/dto"
)

type StalePolicy string

const (
	// StaleRetain keeps the last good result after a failed cycle and marks
	// it stale.
	StaleRetain StalePolicy = "retain"
	// StaleUnknown drops the last result after a failed cycle.
	StaleUnknown StalePolicy = "unknown"
)

func ParseStalePolicy(raw string) (StalePolicy, error) {
	switch StalePolicy(raw) {
	case StaleRetain, StaleUnknown:
		return StalePolicy(raw), nil
	case "":
		return StaleRetain, nil
	}
	return "", fmt.Errorf("unsupported stale policy %q", raw)
}

type Status string

const (
	StatusUnknown Status = "unknown"
	StatusFresh   Status = "fresh"
	StatusStale   Status = "stale"
)

type Trigger string

const (
	TriggerStart  Trigger = "start"
	TriggerTimer  Trigger = "timer"
	TriggerManual Trigger = "manual"
)

// Snapshot is the caller-held view of the latest cycle.
type Snapshot struct {
	Check     reminderdto.CheckOutput
	HasResult bool
	Status    Status
	UpdatedAt time.Time
	LastError string
	Trigger   Trigger
	Cycles    int
}

// Apply folds one cycle outcome into the snapshot.
func (s Snapshot) Apply(check reminderdto.CheckOutput, err error, at time.Time, trigger Trigger, policy StalePolicy) Snapshot {
	next := s
	next.UpdatedAt = at
	next.Trigger = trigger
	next.Cycles = s.Cycles + 1
	if err == nil {
		next.Check = check
		next.HasResult = true
		next.Status = StatusFresh
		next.LastError = ""
		return next
	}
	next.LastError = err.Error()
	if policy == StaleUnknown || !s.HasResult {
		next.Check = reminderdto.CheckOutput{}
		next.HasResult = false
		next.Status = StatusUnknown
		return next
	}
	next.Status = StatusStale
	return next
}
