package in

import (
	"context"

	"standwatch/internal/modules/reminder/dto"
)

type Usecase interface {
	Check(ctx context.Context, input dto.CheckInput) (dto.CheckOutput, error)
	Log(ctx context.Context, input dto.LogInput) ([]dto.LogEntryOutput, error)
}
