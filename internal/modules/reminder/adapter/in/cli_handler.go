package in

import (
	"context"
	"time"

	"standwatch/internal/modules/reminder/dto"
	reminderin "standwatch/internal/modules/reminder/port/in"
)

type CLIHandler struct {
	usecase reminderin.Usecase
}

func NewCLIHandler(usecase reminderin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Check(ctx context.Context, at time.Time) (dto.CheckOutput, error) {
	return h.usecase.Check(ctx, dto.CheckInput{At: at})
}

func (h CLIHandler) Log(ctx context.Context, tail int) ([]dto.LogEntryOutput, error) {
	return h.usecase.Log(ctx, dto.LogInput{Tail: tail})
}
