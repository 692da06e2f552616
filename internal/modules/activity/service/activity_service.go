package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"standwatch/internal/modules/activity/domain"
	activityout "standwatch/internal/modules/activity/port/out"
	"standwatch/internal/platform/clock"
	apperrors "standwatch/internal/platform/errors"
)

type ActivityService struct {
	clock  clock.Clock
	source activityout.SampleSource
	probe  activityout.SourceProbe
	policy domain.Policy
	logger hclog.Logger
}

func NewActivityService(clk clock.Clock, source activityout.SampleSource, probe activityout.SourceProbe, policy domain.Policy, logger hclog.Logger) *ActivityService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ActivityService{clock: clk, source: source, probe: probe, policy: policy, logger: logger}
}

func (s *ActivityService) Policy() domain.Policy {
	return s.policy
}

// Evaluate runs one fetch, aggregate and evaluate pass at the given instant,
// or at the clock's now when at is zero.
func (s *ActivityService) Evaluate(ctx context.Context, at time.Time) (domain.Evaluation, error) {
	now := at
	if now.IsZero() {
		now = s.clock.Now()
	}
	window := domain.FetchWindow(now, s.policy)
	buckets, err := s.aggregate(ctx, window)
	if err != nil {
		return domain.Evaluation{}, err
	}
	result, err := domain.Evaluate(now, buckets, s.policy)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("evaluate buckets: %w", err)
	}
	s.logger.Debug("evaluated standing activity",
		"hour", result.HourStart.Format(time.RFC3339),
		"current_complete", result.CurrentHourComplete,
		"streak", result.ContinuousSittingHours,
		"should_remind", result.ShouldRemind,
		"phase", result.Phase,
	)
	return domain.Evaluation{Result: result, Buckets: buckets, Window: window, GoalMinutes: s.policy.GoalMinutes}, nil
}

func (s *ActivityService) Buckets(ctx context.Context, window domain.Window) ([]domain.HourBucket, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	return s.aggregate(ctx, window)
}

// CheckSource probes the source and counts today's samples.
func (s *ActivityService) CheckSource(ctx context.Context) (domain.SourceInfo, int, domain.Window, error) {
	info := domain.SourceInfo{Kind: "unknown"}
	if s.probe != nil {
		probed, err := s.probe.Probe(ctx)
		if err != nil {
			return domain.SourceInfo{}, 0, domain.Window{}, fmt.Errorf("probe source: %w", err)
		}
		info = probed
	}
	now := s.clock.Now()
	window := domain.Window{From: domain.StartOfDay(now), To: now}
	if !window.To.After(window.From) {
		window.To = window.From.Add(time.Nanosecond)
	}
	samples, err := s.fetch(ctx, window)
	if err != nil {
		return info, 0, window, err
	}
	return info, len(samples), window, nil
}

func (s *ActivityService) aggregate(ctx context.Context, window domain.Window) ([]domain.HourBucket, error) {
	samples, err := s.fetch(ctx, window)
	if err != nil {
		return nil, err
	}
	buckets, err := domain.Aggregate(samples, window)
	if err != nil {
		return nil, fmt.Errorf("aggregate samples: %w", err)
	}
	return buckets, nil
}

func (s *ActivityService) fetch(ctx context.Context, window domain.Window) ([]domain.Sample, error) {
	samples, err := s.source.Fetch(ctx, window)
	if err != nil {
		s.logger.Warn("sample fetch failed", "from", window.From.Format(time.RFC3339), "to", window.To.Format(time.RFC3339), "error", err)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDataUnavailable, err)
	}
	// A source may return after the caller gave up; its samples are stale.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: fetch abandoned: %w", apperrors.ErrDataUnavailable, err)
	}
	return samples, nil
}
