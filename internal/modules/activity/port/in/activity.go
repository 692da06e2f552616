package in

import (
	"context"

	"standwatch/internal/modules/activity/dto"
)

type Usecase interface {
	Evaluate(ctx context.Context, input dto.EvaluateInput) (dto.EvaluationOutput, error)
	Buckets(ctx context.Context, input dto.BucketsInput) (dto.BucketsOutput, error)
	ImportSamples(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
	AddSample(ctx context.Context, input dto.SampleInput) (dto.ImportOutput, error)
	ListSamples(ctx context.Context, input dto.ListSamplesInput) ([]dto.SampleOutput, error)
	CheckSource(ctx context.Context) (dto.SourceOutput, error)
}
