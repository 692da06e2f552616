package dto

import (
	"time"

	activitydto "standwatch/internal/modules/activity/dto"
)

type CheckInput struct {
	At time.Time
}

type CheckOutput struct {
	Evaluation    activitydto.EvaluationOutput
	Outcome       string
	Reason        string
	ReminderID    string
	Title         string
	Body          string
	Delivered     bool
	DeliveryError string
}

type LogInput struct {
	Tail int
}

type LogEntryOutput struct {
	At            time.Time
	HourStart     time.Time
	Outcome       string
	Reason        string
	ReminderID    string
	StreakHours   int
	DeliveryError string
}
