package in

import (
	"context"

	"standwatch/internal/modules/monitor/dto"
	monitorin "standwatch/internal/modules/monitor/port/in"
)

type CLIHandler struct {
	usecase monitorin.Usecase
}

func NewCLIHandler(usecase monitorin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Run(ctx context.Context) error {
	return h.usecase.Run(ctx)
}

func (h CLIHandler) Trigger() {
	h.usecase.Trigger()
}

// TUIHandler is the status view's handle on the monitor loop.
type TUIHandler struct {
	usecase monitorin.Usecase
	updates <-chan dto.SnapshotOutput
}

func NewTUIHandler(usecase monitorin.Usecase, updates <-chan dto.SnapshotOutput) TUIHandler {
	return TUIHandler{usecase: usecase, updates: updates}
}

func (h TUIHandler) Run(ctx context.Context) error {
	return h.usecase.Run(ctx)
}

func (h TUIHandler) Trigger() {
	h.usecase.Trigger()
}

func (h TUIHandler) Snapshot() dto.SnapshotOutput {
	return h.usecase.Snapshot()
}

func (h TUIHandler) Updates() <-chan dto.SnapshotOutput {
	return h.updates
}
