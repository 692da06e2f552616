package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	activityout "standwatch/internal/modules/activity/adapter/out"
	"standwatch/internal/modules/activity/domain"
	"standwatch/internal/modules/activity/dto"
	"standwatch/internal/modules/activity/service"
	"standwatch/internal/modules/activity/usecase"
	"standwatch/internal/platform/clock"
	apperrors "standwatch/internal/platform/errors"
)

func TestInteractorImportThenEvaluateFromSQLite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := activityout.NewSQLiteSampleStore(filepath.Join(dir, "standwatch.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()

	file := filepath.Join(dir, "samples.json")
	content := `[
  {"start": "2024-03-04T08:10:00Z", "end": "2024-03-04T08:11:00Z", "duration_minutes": 1},
  {"start": "2024-03-04T09:15:00Z", "end": "2024-03-04T09:17:00Z", "duration_minutes": 2}
]`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write samples: %v", err)
	}

	clk := clock.Fixed{At: time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC)}
	uc := usecase.NewInteractor(
		service.NewActivityService(clk, store, store, domain.DefaultPolicy(), nil),
		service.NewSampleService(store, activityout.NewFileSampleReader(), nil),
		clk,
	)
	ctx := context.Background()

	imported, err := uc.ImportSamples(ctx, dto.ImportInput{Path: file})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported.Read != 2 || imported.Imported != 2 || imported.Skipped != 0 {
		t.Fatalf("unexpected import result: %+v", imported)
	}
	again, err := uc.ImportSamples(ctx, dto.ImportInput{Path: file})
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if again.Imported != 0 || again.Skipped != 2 {
		t.Fatalf("expected re-import to skip duplicates, got %+v", again)
	}

	status, err := uc.Evaluate(ctx, dto.EvaluateInput{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if status.CurrentHourComplete || status.ContinuousSittingHours != 1 || status.ShouldRemind {
		t.Fatalf("unexpected evaluation: %+v", status)
	}
	if status.Phase != string(domain.PhaseInWindow) || status.GoalMinutes != 1 {
		t.Fatalf("unexpected context: %+v", status)
	}

	listed, err := uc.ListSamples(ctx, dto.ListSamplesInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected today's 2 samples, got %d", len(listed))
	}

	buckets, err := uc.Buckets(ctx, dto.BucketsInput{
		From: time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC),
		To:   time.Date(2024, time.March, 4, 11, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("buckets: %v", err)
	}
	if len(buckets.Buckets) != 3 || buckets.TotalMin != 3 || !buckets.Buckets[0].Complete || buckets.Buckets[2].Complete {
		t.Fatalf("unexpected buckets: %+v", buckets)
	}
}

func TestInteractorAddSample(t *testing.T) {
	t.Parallel()
	store, err := activityout.NewSQLiteSampleStore(filepath.Join(t.TempDir(), "standwatch.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()
	clk := clock.Fixed{At: time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC)}
	uc := usecase.NewInteractor(
		service.NewActivityService(clk, store, store, domain.DefaultPolicy(), nil),
		service.NewSampleService(store, activityout.NewFileSampleReader(), nil),
		clk,
	)

	out, err := uc.AddSample(context.Background(), dto.SampleInput{Start: clk.At.Add(-10 * time.Minute), DurationMinutes: 1})
	if err != nil {
		t.Fatalf("add sample: %v", err)
	}
	if out.Imported != 1 {
		t.Fatalf("expected one insert, got %+v", out)
	}
	_, err = uc.AddSample(context.Background(), dto.SampleInput{Start: clk.At, End: clk.At.Add(-time.Minute), DurationMinutes: 1})
	if !errors.Is(err, apperrors.ErrInvalidSample) {
		t.Fatalf("expected invalid sample, got %v", err)
	}
	if _, err := uc.AddSample(context.Background(), dto.SampleInput{DurationMinutes: 1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected missing start to be rejected, got %v", err)
	}

	status, err := uc.Evaluate(context.Background(), dto.EvaluateInput{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !status.CurrentHourComplete || status.ContinuousSittingHours != 0 {
		t.Fatalf("expected the added sample to complete the hour, got %+v", status)
	}
}
