package out

import (
	"context"

	"standwatch/internal/modules/reminder/domain"
)

// Sink delivers a reminder to the user. Failures wrap apperrors.ErrDeliveryFailed.
type Sink interface {
	Deliver(ctx context.Context, reminder domain.Reminder) error
}

type MarkerStore interface {
	Load(ctx context.Context) (domain.Marker, error)
	Save(ctx context.Context, marker domain.Marker) error
}

type ReminderLog interface {
	Append(ctx context.Context, entry domain.LogEntry) error
	Tail(ctx context.Context, limit int) ([]domain.LogEntry, error)
}
