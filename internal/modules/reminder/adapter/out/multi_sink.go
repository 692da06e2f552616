package out

import (
	"context"
	"errors"
	"fmt"

	"standwatch/internal/modules/reminder/domain"
	reminderout "standwatch/internal/modules/reminder/port/out"
	apperrors "standwatch/internal/platform/errors"
)

// MultiSink delivers to every sink and fails if any of them failed.
type MultiSink struct {
	sinks []reminderout.Sink
}

func NewMultiSink(sinks ...reminderout.Sink) reminderout.Sink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Deliver(ctx context.Context, reminder domain.Reminder) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Deliver(ctx, reminder); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	joined := errors.Join(errs...)
	if errors.Is(joined, apperrors.ErrDeliveryFailed) {
		return joined
	}
	return fmt.Errorf("%w: %w", apperrors.ErrDeliveryFailed, joined)
}
