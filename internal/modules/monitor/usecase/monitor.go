package usecase

import (
	"context"

	"standwatch/internal/modules/monitor/domain"
	"standwatch/internal/modules/monitor/dto"
	monitorin "standwatch/internal/modules/monitor/port/in"
	"standwatch/internal/modules/monitor/service"
)

type Interactor struct {
	scheduler *service.Scheduler
}

func NewInteractor(scheduler *service.Scheduler) monitorin.Usecase {
	return &Interactor{scheduler: scheduler}
}

func (i *Interactor) Run(ctx context.Context) error {
	return i.scheduler.Run(ctx)
}

func (i *Interactor) RunOnce(ctx context.Context) (dto.SnapshotOutput, error) {
	snapshot, err := i.scheduler.RunOnce(ctx)
	return ToOutput(snapshot), err
}

func (i *Interactor) Trigger() {
	i.scheduler.Trigger()
}

func (i *Interactor) Snapshot() dto.SnapshotOutput {
	return ToOutput(i.scheduler.Snapshot())
}

func ToOutput(snapshot domain.Snapshot) dto.SnapshotOutput {
	return dto.SnapshotOutput{
		Check:     snapshot.Check,
		HasResult: snapshot.HasResult,
		Status:    string(snapshot.Status),
		UpdatedAt: snapshot.UpdatedAt,
		LastError: snapshot.LastError,
		Trigger:   string(snapshot.Trigger),
		Cycles:    snapshot.Cycles,
	}
}
