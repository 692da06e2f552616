package out

import (
	"context"
	"time"

	monitorout "standwatch/internal/modules/monitor/port/out"
	reminderdto "standwatch/internal/modules/reminder/dto"
	reminderin "standwatch/internal/modules/reminder/port/in"
)

// ReminderCycle runs the reminder check as the monitor's cycle.
type ReminderCycle struct {
	reminders reminderin.Usecase
}

func NewReminderCycle(reminders reminderin.Usecase) monitorout.Cycle {
	return &ReminderCycle{reminders: reminders}
}

func (c *ReminderCycle) Run(ctx context.Context, at time.Time) (reminderdto.CheckOutput, error) {
	return c.reminders.Check(ctx, reminderdto.CheckInput{At: at})
}
