package in

import (
	"context"
	"time"

	"standwatch/internal/modules/activity/dto"
	activityin "standwatch/internal/modules/activity/port/in"
)

type CLIHandler struct {
	usecase activityin.Usecase
}

func NewCLIHandler(usecase activityin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context, at time.Time) (dto.EvaluationOutput, error) {
	return h.usecase.Evaluate(ctx, dto.EvaluateInput{At: at})
}

func (h CLIHandler) Buckets(ctx context.Context, from, to time.Time) (dto.BucketsOutput, error) {
	return h.usecase.Buckets(ctx, dto.BucketsInput{From: from, To: to})
}

func (h CLIHandler) Import(ctx context.Context, path string) (dto.ImportOutput, error) {
	return h.usecase.ImportSamples(ctx, dto.ImportInput{Path: path})
}

func (h CLIHandler) Add(ctx context.Context, start, end time.Time, minutes float64) (dto.ImportOutput, error) {
	return h.usecase.AddSample(ctx, dto.SampleInput{Start: start, End: end, DurationMinutes: minutes})
}

func (h CLIHandler) List(ctx context.Context, from, to time.Time) ([]dto.SampleOutput, error) {
	return h.usecase.ListSamples(ctx, dto.ListSamplesInput{From: from, To: to})
}

func (h CLIHandler) Doctor(ctx context.Context) (dto.SourceOutput, error) {
	return h.usecase.CheckSource(ctx)
}
