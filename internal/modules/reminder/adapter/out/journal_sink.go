package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"standwatch/internal/modules/reminder/domain"
	reminderout "standwatch/internal/modules/reminder/port/out"
	apperrors "standwatch/internal/platform/errors"
	"standwatch/internal/platform/markdown"
)

const journalBlock = "reminders"

// JournalSink records reminders in a daily markdown note. The frontmatter
// holds the reminder list; the generated block renders it. Anything the user
// writes outside the block is kept.
type JournalSink struct {
	dir string
}

func NewJournalSink(dir string) reminderout.Sink {
	return &JournalSink{dir: dir}
}

type journalEntry struct {
	ID     string
	At     time.Time
	Streak int
}

func (s *JournalSink) Deliver(_ context.Context, reminder domain.Reminder) error {
	if err := s.write(reminder); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrDeliveryFailed, err)
	}
	return nil
}

func (s *JournalSink) notePath(day time.Time) string {
	return filepath.Join(s.dir, day.Format("2006-01-02")+".md")
}

func (s *JournalSink) write(reminder domain.Reminder) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}
	path := s.notePath(reminder.CreatedAt)
	note := markdown.Note{Meta: map[string]any{}, Body: fmt.Sprintf("# Standing %s\n", reminder.CreatedAt.Format("2006-01-02"))}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		note, err = markdown.ParseNote(string(raw))
		if err != nil {
			return fmt.Errorf("parse journal note: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read journal note: %w", err)
	}

	entries := decodeJournalEntries(note.Meta["reminders"])
	for _, entry := range entries {
		if entry.ID == reminder.ID {
			return nil
		}
	}
	entries = append(entries, journalEntry{ID: reminder.ID, At: reminder.CreatedAt, Streak: reminder.StreakHours})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].At.Before(entries[j].At) })

	note.Meta["date"] = reminder.CreatedAt.Format("2006-01-02")
	note.Meta["reminder_count"] = len(entries)
	note.Meta["reminders"] = encodeJournalEntries(entries)
	note.SetBlock(journalBlock, renderJournalEntries(entries))

	rendered, err := note.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write journal note: %w", err)
	}
	return nil
}

func encodeJournalEntries(entries []journalEntry) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		out = append(out, map[string]any{
			"id":     entry.ID,
			"at":     entry.At.Format(time.RFC3339),
			"streak": entry.Streak,
		})
	}
	return out
}

func decodeJournalEntries(raw any) []journalEntry {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]journalEntry, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry := journalEntry{}
		entry.ID, _ = fields["id"].(string)
		switch at := fields["at"].(type) {
		case string:
			entry.At, _ = time.Parse(time.RFC3339, at)
		case time.Time:
			entry.At = at
		}
		if streak, ok := fields["streak"].(int); ok {
			entry.Streak = streak
		}
		if entry.ID != "" {
			out = append(out, entry)
		}
	}
	return out
}

func renderJournalEntries(entries []journalEntry) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("- %s stand reminder after %dh sitting", entry.At.Format("15:04"), entry.Streak))
	}
	return strings.Join(lines, "\n")
}
