package usecase

import (
	"context"
	"fmt"

	"standwatch/internal/modules/activity/domain"
	"standwatch/internal/modules/activity/dto"
	activityin "standwatch/internal/modules/activity/port/in"
	"standwatch/internal/modules/activity/service"
	"standwatch/internal/platform/clock"
	apperrors "standwatch/internal/platform/errors"
)

type Interactor struct {
	activity *service.ActivityService
	samples  *service.SampleService
	clock    clock.Clock
}

func NewInteractor(activity *service.ActivityService, samples *service.SampleService, clk clock.Clock) activityin.Usecase {
	return &Interactor{activity: activity, samples: samples, clock: clk}
}

func (i *Interactor) Evaluate(ctx context.Context, input dto.EvaluateInput) (dto.EvaluationOutput, error) {
	evaluation, err := i.activity.Evaluate(ctx, input.At)
	if err != nil {
		return dto.EvaluationOutput{}, err
	}
	result := evaluation.Result
	return dto.EvaluationOutput{
		CurrentHourComplete:    result.CurrentHourComplete,
		ContinuousSittingHours: result.ContinuousSittingHours,
		ShouldRemind:           result.ShouldRemind,
		PreviousHourComplete:   result.PreviousHourComplete,
		Phase:                  string(result.Phase),
		HourStart:              result.HourStart,
		EvaluatedAt:            result.EvaluatedAt,
		GoalMinutes:            evaluation.GoalMinutes,
		WindowFrom:             evaluation.Window.From,
		WindowTo:               evaluation.Window.To,
		Buckets:                toBucketOutputs(evaluation.Buckets, evaluation.GoalMinutes),
	}, nil
}

func (i *Interactor) Buckets(ctx context.Context, input dto.BucketsInput) (dto.BucketsOutput, error) {
	window := domain.Window{From: input.From, To: input.To}
	buckets, err := i.activity.Buckets(ctx, window)
	if err != nil {
		return dto.BucketsOutput{}, err
	}
	goal := i.activity.Policy().GoalMinutes
	total := 0.0
	for _, b := range buckets {
		total += b.StandingMinutes
	}
	return dto.BucketsOutput{
		From:        window.From,
		To:          window.To,
		GoalMinutes: goal,
		Buckets:     toBucketOutputs(buckets, goal),
		TotalMin:    total,
	}, nil
}

func (i *Interactor) ImportSamples(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error) {
	if i.samples == nil {
		return dto.ImportOutput{}, fmt.Errorf("sample store is not configured")
	}
	read, inserted, err := i.samples.Import(ctx, input.Path)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	return dto.ImportOutput{Read: read, Imported: inserted, Skipped: read - inserted}, nil
}

func (i *Interactor) AddSample(ctx context.Context, input dto.SampleInput) (dto.ImportOutput, error) {
	if i.samples == nil {
		return dto.ImportOutput{}, fmt.Errorf("sample store is not configured")
	}
	if input.Start.IsZero() {
		return dto.ImportOutput{}, fmt.Errorf("%w: sample start is required", apperrors.ErrInvalidInput)
	}
	sample := domain.Sample{Start: input.Start, End: input.End, DurationMinutes: input.DurationMinutes}
	if sample.End.IsZero() {
		sample.End = sample.Start
	}
	inserted, err := i.samples.Add(ctx, sample)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	return dto.ImportOutput{Read: 1, Imported: inserted, Skipped: 1 - inserted}, nil
}

// ListSamples defaults to the current day when no bounds are given.
func (i *Interactor) ListSamples(ctx context.Context, input dto.ListSamplesInput) ([]dto.SampleOutput, error) {
	if i.samples == nil {
		return nil, fmt.Errorf("sample store is not configured")
	}
	window := domain.Window{From: input.From, To: input.To}
	if window.To.IsZero() {
		window.To = i.clock.Now()
	}
	if window.From.IsZero() {
		window.From = domain.StartOfDay(window.To)
	}
	samples, err := i.samples.List(ctx, window)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SampleOutput, 0, len(samples))
	for _, s := range samples {
		out = append(out, dto.SampleOutput{Start: s.Start, End: s.End, DurationMinutes: s.DurationMinutes})
	}
	return out, nil
}

func (i *Interactor) CheckSource(ctx context.Context) (dto.SourceOutput, error) {
	info, count, window, err := i.activity.CheckSource(ctx)
	out := dto.SourceOutput{
		Kind:    info.Kind,
		Name:    info.Name,
		Version: info.Version,
		Detail:  info.Detail,
		Samples: count,
	}
	if !window.From.IsZero() {
		out.Window = fmt.Sprintf("%s..%s", window.From.Format("2006-01-02 15:04"), window.To.Format("15:04"))
	}
	return out, err
}

func toBucketOutputs(buckets []domain.HourBucket, goal float64) []dto.BucketOutput {
	out := make([]dto.BucketOutput, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.BucketOutput{HourStart: b.HourStart, StandingMinutes: b.StandingMinutes, Complete: b.Complete(goal)})
	}
	return out
}
