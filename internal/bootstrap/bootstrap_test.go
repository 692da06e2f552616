package bootstrap_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"standwatch/internal/bootstrap"
	"standwatch/internal/platform/config"
)

func TestManualSamplesCountWithFileSource(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	path := filepath.Join(home, "samples.json")
	if err := os.WriteFile(path, []byte(`[
  {"start": "2024-03-04T09:10:00Z", "end": "2024-03-04T09:12:00Z", "duration_minutes": 2}
]`), 0o644); err != nil {
		t.Fatalf("write samples: %v", err)
	}
	cfg := config.Default(home)
	cfg.Timezone = "UTC"
	cfg.Source = config.Source{Kind: config.SourceFile, Path: path}

	app, err := bootstrap.New(cfg, bootstrap.Options{Out: io.Discard, LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	ctx := context.Background()
	start := time.Date(2024, time.March, 4, 10, 5, 0, 0, time.UTC)
	added, err := app.ActivityCLI.Add(ctx, start, start.Add(2*time.Minute), 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.Imported != 1 {
		t.Fatalf("expected one stored sample, got %+v", added)
	}

	status, err := app.ActivityCLI.Status(ctx, time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.PreviousHourComplete {
		t.Fatalf("expected the file sample to complete 09:00, got %+v", status)
	}
	if !status.CurrentHourComplete {
		t.Fatalf("expected the stored sample to complete 10:00, got %+v", status)
	}
}
