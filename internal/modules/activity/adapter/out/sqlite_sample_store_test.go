package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	activityout "standwatch/internal/modules/activity/adapter/out"
	"standwatch/internal/modules/activity/domain"
)

func TestSQLiteSampleStoreAddIsIdempotentAndListsOverlaps(t *testing.T) {
	t.Parallel()
	store, err := activityout.NewSQLiteSampleStore(filepath.Join(t.TempDir(), "nested", "standwatch.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()

	base := time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)
	samples := []domain.Sample{
		{Start: base.Add(10 * time.Minute), End: base.Add(11 * time.Minute), DurationMinutes: 1},
		{Start: base.Add(75 * time.Minute), End: base.Add(77 * time.Minute), DurationMinutes: 2},
		{Start: base.Add(5 * time.Hour), End: base.Add(5 * time.Hour), DurationMinutes: 0.5},
	}
	ctx := context.Background()
	inserted, err := store.Add(ctx, samples)
	if err != nil {
		t.Fatalf("add samples: %v", err)
	}
	if inserted != 3 {
		t.Fatalf("expected 3 inserted, got %d", inserted)
	}
	inserted, err = store.Add(ctx, samples[:2])
	if err != nil {
		t.Fatalf("re-add samples: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected duplicates to be skipped, got %d inserted", inserted)
	}

	got, err := store.Fetch(ctx, domain.Window{From: base.Add(time.Hour), To: base.Add(3 * time.Hour)})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].DurationMinutes != 2 || !got[0].Start.Equal(samples[1].Start) {
		t.Fatalf("unexpected overlap result: %+v", got)
	}

	info, err := store.Probe(ctx)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if info.Kind != "sqlite" || info.Detail != "3 samples stored" {
		t.Fatalf("unexpected probe: %+v", info)
	}
}
