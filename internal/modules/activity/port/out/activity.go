package out

import (
	"context"

	"standwatch/internal/modules/activity/domain"
)

// SampleSource returns the samples overlapping a window. Failures are
// reported as apperrors.ErrSourceUnavailable or apperrors.ErrAuthorizationDenied.
// An empty result is not an error.
type SampleSource interface {
	Fetch(ctx context.Context, window domain.Window) ([]domain.Sample, error)
}

type SourceProbe interface {
	Probe(ctx context.Context) (domain.SourceInfo, error)
}

// SampleStore persists imported samples. Add skips samples already stored
// and returns how many were inserted.
type SampleStore interface {
	Add(ctx context.Context, samples []domain.Sample) (int, error)
	List(ctx context.Context, window domain.Window) ([]domain.Sample, error)
}

type SampleFileReader interface {
	Read(ctx context.Context, path string) ([]domain.Sample, error)
}
