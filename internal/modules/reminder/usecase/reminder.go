package usecase

import (
	"context"

	activitydto "standwatch/internal/modules/activity/dto"
	activityin "standwatch/internal/modules/activity/port/in"
	"standwatch/internal/modules/reminder/domain"
	"standwatch/internal/modules/reminder/dto"
	reminderin "standwatch/internal/modules/reminder/port/in"
	"standwatch/internal/modules/reminder/service"
)

const inWindowPhase = "in_window"

type Interactor struct {
	svc      *service.ReminderService
	activity activityin.Usecase
}

func NewInteractor(svc *service.ReminderService, activity activityin.Usecase) reminderin.Usecase {
	return &Interactor{svc: svc, activity: activity}
}

// Check evaluates standing activity and delivers a reminder when one is due.
// An evaluation failure or a cancelled ctx is returned as is and nothing is
// delivered.
func (i *Interactor) Check(ctx context.Context, input dto.CheckInput) (dto.CheckOutput, error) {
	evaluation, err := i.activity.Evaluate(ctx, activitydto.EvaluateInput{At: input.At})
	if err != nil {
		return dto.CheckOutput{}, err
	}
	if err := ctx.Err(); err != nil {
		return dto.CheckOutput{Evaluation: evaluation}, err
	}
	delivery, err := i.svc.Process(ctx, domain.Signal{
		HourStart:    evaluation.HourStart,
		EvaluatedAt:  evaluation.EvaluatedAt,
		ShouldRemind: evaluation.ShouldRemind,
		StreakHours:  evaluation.ContinuousSittingHours,
		InWindow:     evaluation.Phase == inWindowPhase,
	})
	if err != nil {
		return dto.CheckOutput{Evaluation: evaluation}, err
	}
	out := dto.CheckOutput{
		Evaluation: evaluation,
		Outcome:    string(delivery.Decision.Outcome),
		Reason:     delivery.Decision.Reason,
		ReminderID: delivery.Reminder.ID,
		Title:      delivery.Reminder.Title,
		Body:       delivery.Reminder.Body,
		Delivered:  delivery.Delivered,
	}
	if delivery.Err != nil {
		out.DeliveryError = delivery.Err.Error()
	}
	return out, nil
}

func (i *Interactor) Log(ctx context.Context, input dto.LogInput) ([]dto.LogEntryOutput, error) {
	entries, err := i.svc.Tail(ctx, input.Tail)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LogEntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.LogEntryOutput{
			At:            entry.At,
			HourStart:     entry.HourStart,
			Outcome:       string(entry.Outcome),
			Reason:        entry.Reason,
			ReminderID:    entry.ReminderID,
			StreakHours:   entry.StreakHours,
			DeliveryError: entry.DeliveryError,
		})
	}
	return out, nil
}
