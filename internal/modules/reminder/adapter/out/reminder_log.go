package out

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"standwatch/internal/modules/reminder/domain"
	reminderout "standwatch/internal/modules/reminder/port/out"
)

const defaultTail = 20

// FileReminderLog appends reminder outcomes as JSON lines.
type FileReminderLog struct {
	mu   sync.Mutex
	path string
}

func NewFileReminderLog(path string) reminderout.ReminderLog {
	return &FileReminderLog{path: path}
}

func (l *FileReminderLog) Append(_ context.Context, entry domain.LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create reminder log dir: %w", err)
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open reminder log: %w", err)
	}
	defer file.Close()
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode reminder log entry: %w", err)
	}
	if _, err := file.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write reminder log: %w", err)
	}
	return nil
}

func (l *FileReminderLog) Tail(_ context.Context, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		limit = defaultTail
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.LogEntry{}, nil
		}
		return nil, fmt.Errorf("open reminder log: %w", err)
	}
	defer file.Close()

	buffer := make([]domain.LogEntry, 0, limit)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		entry := domain.LogEntry{}
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if len(buffer) < limit {
			buffer = append(buffer, entry)
			continue
		}
		copy(buffer, buffer[1:])
		buffer[len(buffer)-1] = entry
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan reminder log: %w", err)
	}
	return buffer, nil
}
