package out

import (
	"context"
	"fmt"
	"sort"

	"standwatch/internal/modules/activity/domain"
	activityout "standwatch/internal/modules/activity/port/out"
)

// MergedSampleSource reads the configured source together with the local
// store, so samples recorded by hand count whatever the primary source is.
// Any failing source fails the fetch.
type MergedSampleSource struct {
	primary activityout.SampleSource
	local   activityout.SampleSource
}

func NewMergedSampleSource(primary, local activityout.SampleSource) *MergedSampleSource {
	return &MergedSampleSource{primary: primary, local: local}
}

func (s *MergedSampleSource) Fetch(ctx context.Context, window domain.Window) ([]domain.Sample, error) {
	samples, err := s.primary.Fetch(ctx, window)
	if err != nil {
		return nil, err
	}
	local, err := s.local.Fetch(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("local samples: %w", err)
	}
	out := make([]domain.Sample, 0, len(samples)+len(local))
	out = append(out, samples...)
	out = append(out, local...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}
