package out

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"standwatch/internal/modules/reminder/domain"
	reminderout "standwatch/internal/modules/reminder/port/out"
	apperrors "standwatch/internal/platform/errors"
)

// CommandSink runs an external notifier such as notify-send. The title and
// body are appended to argv unless argv references {title} or {body}.
type CommandSink struct {
	argv []string
}

func NewCommandSink(argv []string) reminderout.Sink {
	return &CommandSink{argv: append([]string(nil), argv...)}
}

func (s *CommandSink) Deliver(ctx context.Context, reminder domain.Reminder) error {
	if len(s.argv) == 0 {
		return fmt.Errorf("%w: notify command is not configured", apperrors.ErrDeliveryFailed)
	}
	args := s.args(reminder)
	cmd := exec.CommandContext(ctx, s.argv[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: run %s: %w: %s", apperrors.ErrDeliveryFailed, s.argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (s *CommandSink) args(reminder domain.Reminder) []string {
	templated := false
	args := make([]string, 0, len(s.argv)+1)
	replacer := strings.NewReplacer("{title}", reminder.Title, "{body}", reminder.Body, "{id}", reminder.ID)
	for _, arg := range s.argv[1:] {
		if strings.Contains(arg, "{title}") || strings.Contains(arg, "{body}") {
			templated = true
		}
		args = append(args, replacer.Replace(arg))
	}
	if !templated {
		args = append(args, reminder.Title, reminder.Body)
	}
	return args
}
