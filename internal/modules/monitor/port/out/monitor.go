package out

import (
	"context"
	"time"

	"standwatch/internal/modules/monitor/domain"
	reminderdto "standwatch/internal/modules/reminder/dto"
)

// Cycle performs one evaluate-and-remind pass.
type Cycle interface {
	Run(ctx context.Context, at time.Time) (reminderdto.CheckOutput, error)
}

type Publisher interface {
	Publish(ctx context.Context, snapshot domain.Snapshot)
}
