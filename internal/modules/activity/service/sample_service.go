package service

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"standwatch/internal/modules/activity/domain"
	activityout "standwatch/internal/modules/activity/port/out"
	apperrors "standwatch/internal/platform/errors"
)

type SampleService struct {
	store  activityout.SampleStore
	reader activityout.SampleFileReader
	logger hclog.Logger
}

func NewSampleService(store activityout.SampleStore, reader activityout.SampleFileReader, logger hclog.Logger) *SampleService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SampleService{store: store, reader: reader, logger: logger}
}

// Import reads a sample file and stores every sample not already present.
// A single invalid sample rejects the whole file.
func (s *SampleService) Import(ctx context.Context, path string) (int, int, error) {
	if path == "" {
		return 0, 0, fmt.Errorf("%w: sample file path is required", apperrors.ErrInvalidInput)
	}
	samples, err := s.reader.Read(ctx, path)
	if err != nil {
		return 0, 0, fmt.Errorf("read sample file: %w", err)
	}
	inserted, err := s.Add(ctx, samples...)
	if err != nil {
		return len(samples), 0, err
	}
	s.logger.Info("imported samples", "path", path, "read", len(samples), "inserted", inserted)
	return len(samples), inserted, nil
}

func (s *SampleService) Add(ctx context.Context, samples ...domain.Sample) (int, error) {
	for i, sample := range samples {
		if err := sample.Validate(); err != nil {
			return 0, fmt.Errorf("sample %d: %w", i+1, err)
		}
	}
	inserted, err := s.store.Add(ctx, samples)
	if err != nil {
		return 0, fmt.Errorf("store samples: %w", err)
	}
	return inserted, nil
}

func (s *SampleService) List(ctx context.Context, window domain.Window) ([]domain.Sample, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	samples, err := s.store.List(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	return samples, nil
}
