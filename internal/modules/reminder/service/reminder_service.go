package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"standwatch/internal/modules/reminder/domain"
	reminderout "standwatch/internal/modules/reminder/port/out"
	"standwatch/internal/platform/clock"
	apperrors "standwatch/internal/platform/errors"
	"standwatch/internal/platform/id"
)

type Message struct {
	Title string
	Body  string
}

type ReminderService struct {
	clock   clock.Clock
	ids     id.Generator
	sink    reminderout.Sink
	markers reminderout.MarkerStore
	log     reminderout.ReminderLog
	opts    domain.Options
	message Message
	logger  hclog.Logger
}

func NewReminderService(
	clk clock.Clock,
	ids id.Generator,
	sink reminderout.Sink,
	markers reminderout.MarkerStore,
	log reminderout.ReminderLog,
	opts domain.Options,
	message Message,
	logger hclog.Logger,
) *ReminderService {
	if message.Title == "" {
		message.Title = domain.DefaultTitle
	}
	if message.Body == "" {
		message.Body = domain.DefaultBody
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ReminderService{clock: clk, ids: ids, sink: sink, markers: markers, log: log, opts: opts, message: message, logger: logger}
}

// Process turns a signal into at most one delivered reminder. The marker is
// only advanced after a successful delivery, so a failed delivery is retried
// on the next cycle within the same hour. Delivery failures are reported in
// the returned Delivery, not as an error.
func (s *ReminderService) Process(ctx context.Context, signal domain.Signal) (domain.Delivery, error) {
	marker, err := s.markers.Load(ctx)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("load reminder marker: %w", err)
	}
	decision := domain.Decide(signal, marker, s.opts)
	delivery := domain.Delivery{Decision: decision}
	if decision.Outcome == domain.OutcomeNone {
		return delivery, nil
	}
	if decision.Outcome != domain.OutcomeSend {
		s.logger.Debug("reminder suppressed", "hour", signal.HourStart.Format(time.RFC3339), "outcome", decision.Outcome, "reason", decision.Reason)
		if decision.Outcome != domain.OutcomeSuppressedDuplicate {
			s.appendLog(ctx, signal, delivery)
		}
		return delivery, nil
	}

	reminder := domain.Reminder{
		ID:          s.ids.New(),
		HourStart:   signal.HourStart,
		Title:       s.message.Title,
		Body:        s.message.Body,
		StreakHours: signal.StreakHours,
		CreatedAt:   s.clock.Now(),
	}
	delivery.Reminder = reminder
	if err := ctx.Err(); err != nil {
		s.logger.Debug("reminder dropped after cancellation", "hour", signal.HourStart.Format(time.RFC3339))
		return delivery, fmt.Errorf("deliver reminder: %w", err)
	}
	if err := s.sink.Deliver(ctx, reminder); err != nil {
		if !errors.Is(err, apperrors.ErrDeliveryFailed) {
			err = fmt.Errorf("%w: %w", apperrors.ErrDeliveryFailed, err)
		}
		delivery.Err = err
		s.logger.Warn("reminder delivery failed", "reminder_id", reminder.ID, "error", err)
		s.appendLog(ctx, signal, delivery)
		return delivery, nil
	}
	delivery.Delivered = true
	marker = domain.Marker{HourStart: signal.HourStart, ReminderID: reminder.ID, SentAt: reminder.CreatedAt}
	if err := s.markers.Save(ctx, marker); err != nil {
		s.logger.Warn("save reminder marker failed", "reminder_id", reminder.ID, "error", err)
	}
	s.logger.Info("reminder delivered", "reminder_id", reminder.ID, "hour", signal.HourStart.Format(time.RFC3339), "streak", signal.StreakHours)
	s.appendLog(ctx, signal, delivery)
	return delivery, nil
}

func (s *ReminderService) Tail(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if s.log == nil {
		return []domain.LogEntry{}, nil
	}
	entries, err := s.log.Tail(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("tail reminder log: %w", err)
	}
	return entries, nil
}

func (s *ReminderService) appendLog(ctx context.Context, signal domain.Signal, delivery domain.Delivery) {
	if s.log == nil {
		return
	}
	entry := domain.LogEntry{
		At:          s.clock.Now(),
		HourStart:   signal.HourStart,
		Outcome:     delivery.Decision.Outcome,
		Reason:      delivery.Decision.Reason,
		ReminderID:  delivery.Reminder.ID,
		StreakHours: signal.StreakHours,
	}
	if delivery.Err != nil {
		entry.DeliveryError = delivery.Err.Error()
	}
	if err := s.log.Append(ctx, entry); err != nil {
		s.logger.Warn("append reminder log failed", "error", err)
	}
}
