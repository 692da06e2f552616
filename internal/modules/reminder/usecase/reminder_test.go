package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	activitydto "standwatch/internal/modules/activity/dto"
	reminderout "standwatch/internal/modules/reminder/adapter/out"
	"standwatch/internal/modules/reminder/domain"
	"standwatch/internal/modules/reminder/dto"
	"standwatch/internal/modules/reminder/service"
	"standwatch/internal/modules/reminder/usecase"
	"standwatch/internal/platform/clock"
	apperrors "standwatch/internal/platform/errors"
)

type fakeActivity struct {
	out activitydto.EvaluationOutput
	err error
}

func (f *fakeActivity) Evaluate(context.Context, activitydto.EvaluateInput) (activitydto.EvaluationOutput, error) {
	return f.out, f.err
}
func (f *fakeActivity) Buckets(context.Context, activitydto.BucketsInput) (activitydto.BucketsOutput, error) {
	return activitydto.BucketsOutput{}, nil
}
func (f *fakeActivity) ImportSamples(context.Context, activitydto.ImportInput) (activitydto.ImportOutput, error) {
	return activitydto.ImportOutput{}, nil
}
func (f *fakeActivity) AddSample(context.Context, activitydto.SampleInput) (activitydto.ImportOutput, error) {
	return activitydto.ImportOutput{}, nil
}
func (f *fakeActivity) ListSamples(context.Context, activitydto.ListSamplesInput) ([]activitydto.SampleOutput, error) {
	return nil, nil
}
func (f *fakeActivity) CheckSource(context.Context) (activitydto.SourceOutput, error) {
	return activitydto.SourceOutput{}, nil
}

type sequenceID struct{ n int }

func (s *sequenceID) New() string {
	s.n++
	return fmt.Sprintf("rem-%d", s.n)
}

type countingSink struct{ count int }

func (s *countingSink) Deliver(context.Context, domain.Reminder) error {
	s.count++
	return nil
}

func TestCheckDeliversAndLogs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	hour := time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)
	activity := &fakeActivity{out: activitydto.EvaluationOutput{
		ShouldRemind:           true,
		ContinuousSittingHours: 2,
		Phase:                  "in_window",
		HourStart:              hour,
		EvaluatedAt:            hour.Add(20 * time.Minute),
	}}
	sink := &countingSink{}
	svc := service.NewReminderService(
		clock.Fixed{At: hour.Add(20 * time.Minute)},
		&sequenceID{},
		sink,
		reminderout.NewFileMarkerStore(filepath.Join(dir, "last-reminder.json")),
		reminderout.NewFileReminderLog(filepath.Join(dir, "reminders.log")),
		domain.Options{},
		service.Message{},
		nil,
	)
	uc := usecase.NewInteractor(svc, activity)
	ctx := context.Background()

	out, err := uc.Check(ctx, dto.CheckInput{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if out.Outcome != string(domain.OutcomeSend) || !out.Delivered || out.ReminderID != "rem-1" || out.Evaluation.ContinuousSittingHours != 2 {
		t.Fatalf("unexpected check output: %+v", out)
	}
	again, err := uc.Check(ctx, dto.CheckInput{})
	if err != nil {
		t.Fatalf("check again: %v", err)
	}
	if again.Outcome != string(domain.OutcomeSuppressedDuplicate) || sink.count != 1 {
		t.Fatalf("expected the persisted marker to suppress a repeat, got %+v", again)
	}

	entries, err := uc.Log(ctx, dto.LogInput{Tail: 10})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(entries) != 1 || entries[0].ReminderID != "rem-1" || entries[0].StreakHours != 2 {
		t.Fatalf("unexpected log entries: %+v", entries)
	}
}

func TestCheckOutsideWindowIsSuppressed(t *testing.T) {
	t.Parallel()
	hour := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	activity := &fakeActivity{out: activitydto.EvaluationOutput{ShouldRemind: true, Phase: "after_window", HourStart: hour, EvaluatedAt: hour}}
	sink := &countingSink{}
	svc := service.NewReminderService(clock.Fixed{At: hour}, &sequenceID{}, sink, reminderout.NewMemoryMarkerStore(), nil, domain.Options{}, service.Message{}, nil)
	out, err := usecase.NewInteractor(svc, activity).Check(context.Background(), dto.CheckInput{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if out.Outcome != string(domain.OutcomeSuppressedOutsideWindow) || sink.count != 0 {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestCheckPropagatesDataUnavailable(t *testing.T) {
	t.Parallel()
	activity := &fakeActivity{err: fmt.Errorf("%w: %w", apperrors.ErrDataUnavailable, apperrors.ErrAuthorizationDenied)}
	sink := &countingSink{}
	svc := service.NewReminderService(clock.Fixed{At: time.Now()}, &sequenceID{}, sink, reminderout.NewMemoryMarkerStore(), nil, domain.Options{}, service.Message{}, nil)
	if _, err := usecase.NewInteractor(svc, activity).Check(context.Background(), dto.CheckInput{}); !errors.Is(err, apperrors.ErrDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}
	if sink.count != 0 {
		t.Fatalf("expected no delivery without data")
	}
}
