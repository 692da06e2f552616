package out

import (
	"context"
	"fmt"
	"io"
	"sync"

	"standwatch/internal/modules/reminder/domain"
	reminderout "standwatch/internal/modules/reminder/port/out"
	apperrors "standwatch/internal/platform/errors"
)

// TerminalSink writes reminders to a terminal, ringing the bell first.
type TerminalSink struct {
	mu   sync.Mutex
	w    io.Writer
	bell bool
}

func NewTerminalSink(w io.Writer, bell bool) reminderout.Sink {
	return &TerminalSink{w: w, bell: bell}
}

func (s *TerminalSink) Deliver(_ context.Context, reminder domain.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := ""
	if s.bell {
		prefix = "\a"
	}
	_, err := fmt.Fprintf(s.w, "%s[%s] %s %s (sitting %dh)\n",
		prefix, reminder.CreatedAt.Format("15:04"), reminder.Title, reminder.Body, reminder.StreakHours)
	if err != nil {
		return fmt.Errorf("%w: write terminal: %w", apperrors.ErrDeliveryFailed, err)
	}
	return nil
}
