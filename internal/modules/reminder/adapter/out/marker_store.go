package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"standwatch/internal/modules/reminder/domain"
	reminderout "standwatch/internal/modules/reminder/port/out"
)

type FileMarkerStore struct {
	path string
}

func NewFileMarkerStore(path string) reminderout.MarkerStore {
	return &FileMarkerStore{path: path}
}

func (s *FileMarkerStore) Load(_ context.Context) (domain.Marker, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Marker{}, nil
		}
		return domain.Marker{}, fmt.Errorf("read reminder marker: %w", err)
	}
	marker := domain.Marker{}
	if err := json.Unmarshal(payload, &marker); err != nil {
		return domain.Marker{}, fmt.Errorf("decode reminder marker: %w", err)
	}
	return marker, nil
}

func (s *FileMarkerStore) Save(_ context.Context, marker domain.Marker) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create marker dir: %w", err)
	}
	payload, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reminder marker: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write reminder marker: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace reminder marker: %w", err)
	}
	return nil
}

// MemoryMarkerStore keeps the marker for the lifetime of the process.
type MemoryMarkerStore struct {
	mu     sync.Mutex
	marker domain.Marker
}

func NewMemoryMarkerStore() *MemoryMarkerStore {
	return &MemoryMarkerStore{}
}

func (s *MemoryMarkerStore) Load(context.Context) (domain.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marker, nil
}

func (s *MemoryMarkerStore) Save(_ context.Context, marker domain.Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marker = marker
	return nil
}
