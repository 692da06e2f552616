package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"standwatch/internal/modules/monitor/domain"
	monitorout "standwatch/internal/modules/monitor/port/out"
	"standwatch/internal/platform/clock"
	apperrors "standwatch/internal/platform/errors"
)

const (
	DefaultInterval     = 5 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
)

type Options struct {
	Interval     time.Duration
	FetchTimeout time.Duration
	StalePolicy  domain.StalePolicy
}

// Scheduler drives evaluation cycles from a periodic timer and from manual
// triggers. At most one cycle runs at a time; a cycle requested while
// another is in flight is skipped.
type Scheduler struct {
	cycle      monitorout.Cycle
	publishers []monitorout.Publisher
	clock      clock.Clock
	opts       Options
	logger     hclog.Logger

	inFlight atomic.Bool
	trigger  chan struct{}

	mu       sync.RWMutex
	snapshot domain.Snapshot
}

func NewScheduler(cycle monitorout.Cycle, clk clock.Clock, opts Options, logger hclog.Logger, publishers ...monitorout.Publisher) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.StalePolicy == "" {
		opts.StalePolicy = domain.StaleRetain
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Scheduler{
		cycle:      cycle,
		publishers: publishers,
		clock:      clk,
		opts:       opts,
		logger:     logger,
		trigger:    make(chan struct{}, 1),
		snapshot:   domain.Snapshot{Status: domain.StatusUnknown},
	}
}

func (s *Scheduler) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Trigger requests an immediate cycle from a running loop. Requests made
// while one is already pending collapse into it.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run executes a cycle right away, then on every tick and trigger until ctx
// is done. Cancelling ctx cancels the in-flight cycle and its result is
// discarded.
func (s *Scheduler) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	defer wg.Wait()
	start := func(trigger domain.Trigger) {
		if !s.inFlight.CompareAndSwap(false, true) {
			s.logger.Debug("cycle skipped", "trigger", trigger, "reason", apperrors.ErrCycleInFlight)
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.inFlight.Store(false)
			_, _ = s.runCycle(runCtx, trigger)
		}()
	}

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	s.logger.Info("monitor started", "interval", s.opts.Interval.String(), "stale_policy", s.opts.StalePolicy)
	start(domain.TriggerStart)
	for {
		select {
		case <-runCtx.Done():
			s.logger.Info("monitor stopped")
			return nil
		case <-ticker.C:
			start(domain.TriggerTimer)
		case <-s.trigger:
			start(domain.TriggerManual)
		}
	}
}

// RunOnce runs a single cycle in the caller's goroutine.
func (s *Scheduler) RunOnce(ctx context.Context) (domain.Snapshot, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return s.Snapshot(), apperrors.ErrCycleInFlight
	}
	defer s.inFlight.Store(false)
	return s.runCycle(ctx, domain.TriggerManual)
}

func (s *Scheduler) runCycle(ctx context.Context, trigger domain.Trigger) (domain.Snapshot, error) {
	cycleCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	check, err := s.cycle.Run(cycleCtx, time.Time{})
	cancel()

	if ctx.Err() != nil {
		s.logger.Debug("discarding cycle result after cancellation", "trigger", trigger)
		return s.Snapshot(), ctx.Err()
	}
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, apperrors.ErrDataUnavailable) {
		err = fmt.Errorf("%w: cycle timed out after %s: %w", apperrors.ErrDataUnavailable, s.opts.FetchTimeout, err)
	}

	s.mu.Lock()
	s.snapshot = s.snapshot.Apply(check, err, s.clock.Now(), trigger, s.opts.StalePolicy)
	snapshot := s.snapshot
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("cycle failed", "trigger", trigger, "status", snapshot.Status, "error", err)
	} else {
		s.logger.Debug("cycle completed", "trigger", trigger, "outcome", check.Outcome)
	}
	for _, publisher := range s.publishers {
		publisher.Publish(ctx, snapshot)
	}
	return snapshot, err
}
