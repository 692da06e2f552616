package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"standwatch/internal/platform/config"
)

func TestNewDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	cfg, err := config.New(home)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.GoalMinutes != 1.0 || cfg.PollIntervalSeconds != 300 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ActiveWindow != nil {
		t.Fatalf("active window should default to all day")
	}
	if cfg.DBPath != filepath.Join(home, "standwatch.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.Message.Title != "Time to Stand!" {
		t.Fatalf("unexpected default title %q", cfg.Message.Title)
	}
}

func TestNewOverlaysYAML(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	raw := `goal_minutes: 2.5
active_window:
  start_hour: 9
  end_hour: 18
poll_interval_seconds: 60
stale_policy: unknown
sinks: [terminal, journal]
quiet_hours:
  - {start_hour: 22, start_minute: 0, end_hour: 7, end_minute: 30}
`
	if err := os.WriteFile(filepath.Join(home, config.FileName), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.New(home)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.GoalMinutes != 2.5 || cfg.PollIntervalSeconds != 60 || cfg.StalePolicy != config.StaleUnknown {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.ActiveWindow == nil || cfg.ActiveWindow.StartHour != 9 || cfg.ActiveWindow.EndHour != 18 {
		t.Fatalf("active window not decoded: %+v", cfg.ActiveWindow)
	}
	if len(cfg.QuietHours) != 1 || cfg.QuietHours[0].EndMinute != 30 {
		t.Fatalf("quiet hours not decoded: %+v", cfg.QuietHours)
	}
	if cfg.FetchTimeoutSeconds != 30 {
		t.Fatalf("unset fields should keep defaults, got %d", cfg.FetchTimeoutSeconds)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"unknown field":  "goal: 1\n",
		"zero goal":      "goal_minutes: 0\n",
		"window order":   "active_window: {start_hour: 18, end_hour: 9}\n",
		"source kind":    "source: {kind: kafka}\n",
		"file no path":   "source: {kind: file}\n",
		"command no cmd": "sinks: [command]\n",
		"stale policy":   "stale_policy: maybe\n",
		"timezone":       "timezone: Mars/Olympus\n",
	}
	for name, raw := range cases {
		home := t.TempDir()
		if err := os.WriteFile(filepath.Join(home, config.FileName), []byte(raw), 0o644); err != nil {
			t.Fatalf("%s: write config: %v", name, err)
		}
		if _, err := config.New(home); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestNewRequiresHome(t *testing.T) {
	t.Parallel()
	if _, err := config.New(" "); err == nil || !strings.Contains(err.Error(), "home path") {
		t.Fatalf("expected home path error, got %v", err)
	}
}
