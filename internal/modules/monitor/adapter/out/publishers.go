package out

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"standwatch/internal/modules/monitor/domain"
	"standwatch/internal/modules/monitor/dto"
)

type LogPublisher struct {
	logger hclog.Logger
}

func NewLogPublisher(logger hclog.Logger) *LogPublisher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, snapshot domain.Snapshot) {
	if !snapshot.HasResult {
		p.logger.Info("standing status unknown", "trigger", snapshot.Trigger, "error", snapshot.LastError)
		return
	}
	eval := snapshot.Check.Evaluation
	args := []any{
		"status", snapshot.Status,
		"trigger", snapshot.Trigger,
		"hour", eval.HourStart.Format(time.RFC3339),
		"current_hour_complete", eval.CurrentHourComplete,
		"continuous_sitting_hours", eval.ContinuousSittingHours,
		"should_remind", eval.ShouldRemind,
		"reminder", snapshot.Check.Outcome,
	}
	if snapshot.LastError != "" {
		args = append(args, "error", snapshot.LastError)
	}
	p.logger.Info("standing status", args...)
}

// ChannelPublisher hands snapshots to a consumer such as the TUI. When the
// consumer lags, the older pending snapshot is replaced.
type ChannelPublisher struct {
	ch chan dto.SnapshotOutput
}

func NewChannelPublisher() *ChannelPublisher {
	return &ChannelPublisher{ch: make(chan dto.SnapshotOutput, 1)}
}

func (p *ChannelPublisher) Updates() <-chan dto.SnapshotOutput {
	return p.ch
}

func (p *ChannelPublisher) Publish(_ context.Context, snapshot domain.Snapshot) {
	out := dto.SnapshotOutput{
		Check:     snapshot.Check,
		HasResult: snapshot.HasResult,
		Status:    string(snapshot.Status),
		UpdatedAt: snapshot.UpdatedAt,
		LastError: snapshot.LastError,
		Trigger:   string(snapshot.Trigger),
		Cycles:    snapshot.Cycles,
	}
	for {
		select {
		case p.ch <- out:
			return
		default:
		}
		select {
		case <-p.ch:
		default:
		}
	}
}
