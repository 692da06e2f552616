package in

import (
	"context"

	"standwatch/internal/modules/monitor/dto"
)

type Usecase interface {
	Run(ctx context.Context) error
	RunOnce(ctx context.Context) (dto.SnapshotOutput, error)
	Trigger()
	Snapshot() dto.SnapshotOutput
}
