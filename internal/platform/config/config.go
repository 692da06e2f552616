package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	FileName = "config.yaml"

	SourceSQLite = "sqlite"
	SourceFile   = "file"
	SourcePlugin = "plugin"

	SinkTerminal = "terminal"
	SinkCommand  = "command"
	SinkJournal  = "journal"

	StaleRetain  = "retain"
	StaleUnknown = "unknown"
)

type ActiveWindow struct {
	StartHour int `yaml:"start_hour"`
	EndHour   int `yaml:"end_hour"`
}

type QuietRange struct {
	StartHour   int `yaml:"start_hour"`
	StartMinute int `yaml:"start_minute"`
	EndHour     int `yaml:"end_hour"`
	EndMinute   int `yaml:"end_minute"`
}

type Source struct {
	Kind   string `yaml:"kind"`
	Path   string `yaml:"path"`
	Plugin string `yaml:"plugin"`
}

type Message struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type Config struct {
	HomePath string `yaml:"-"`
	DBPath   string `yaml:"-"`

	GoalMinutes         float64       `yaml:"goal_minutes"`
	ActiveWindow        *ActiveWindow `yaml:"active_window"`
	PollIntervalSeconds int           `yaml:"poll_interval_seconds"`
	FetchTimeoutSeconds int           `yaml:"fetch_timeout_seconds"`
	StalePolicy         string        `yaml:"stale_policy"`
	RemindOutsideWindow bool          `yaml:"remind_outside_window"`
	Timezone            string        `yaml:"timezone"`
	LogLevel            string        `yaml:"log_level"`
	LogFormat           string        `yaml:"log_format"`
	Source              Source        `yaml:"source"`
	Sinks               []string      `yaml:"sinks"`
	NotifyCommand       []string      `yaml:"notify_command"`
	QuietHours          []QuietRange  `yaml:"quiet_hours"`
	Message             Message       `yaml:"message"`
}

func Default(homePath string) Config {
	return Config{
		HomePath:            homePath,
		DBPath:              filepath.Join(homePath, "standwatch.db"),
		GoalMinutes:         1.0,
		PollIntervalSeconds: 300,
		FetchTimeoutSeconds: 30,
		StalePolicy:         StaleRetain,
		Timezone:            "Local",
		LogLevel:            "info",
		LogFormat:           "text",
		Source:              Source{Kind: SourceSQLite},
		Sinks:               []string{SinkTerminal},
		Message: Message{
			Title: "Time to Stand!",
			Body:  "You haven't stood in the last hour. Take a quick break!",
		},
	}
}

// New returns defaults overlaid with <home>/config.yaml when it exists.
func New(homePath string) (Config, error) {
	if strings.TrimSpace(homePath) == "" {
		return Config{}, fmt.Errorf("home path is required")
	}
	homePath = expandHome(homePath)
	cfg := Default(homePath)

	raw, err := os.ReadFile(filepath.Join(homePath, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", filepath.Join(homePath, FileName), err)
	}
	if cfg.Source.Kind == SourceSQLite && cfg.Source.Path != "" {
		cfg.DBPath = expandHome(cfg.Source.Path)
	}
	if cfg.Source.Kind == SourceFile {
		cfg.Source.Path = expandHome(cfg.Source.Path)
	}
	cfg.Source.Plugin = expandHome(cfg.Source.Plugin)
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if !(c.GoalMinutes > 0) {
		return fmt.Errorf("goal_minutes must be positive, got %v", c.GoalMinutes)
	}
	if w := c.ActiveWindow; w != nil {
		if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
			return fmt.Errorf("active_window must satisfy 0 <= start_hour < end_hour <= 24, got %d-%d", w.StartHour, w.EndHour)
		}
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll_interval_seconds must be positive")
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive")
	}
	switch c.StalePolicy {
	case StaleRetain, StaleUnknown:
	default:
		return fmt.Errorf("unsupported stale_policy %q", c.StalePolicy)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.Source.Kind {
	case SourceSQLite:
	case SourceFile:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for file sources")
		}
	case SourcePlugin:
		if c.Source.Plugin == "" {
			return fmt.Errorf("source.plugin is required for plugin sources")
		}
	default:
		return fmt.Errorf("unsupported source kind %q", c.Source.Kind)
	}
	for _, sink := range c.Sinks {
		switch sink {
		case SinkTerminal, SinkJournal:
		case SinkCommand:
			if len(c.NotifyCommand) == 0 {
				return fmt.Errorf("notify_command is required for the command sink")
			}
		default:
			return fmt.Errorf("unsupported sink %q", sink)
		}
	}
	for _, q := range c.QuietHours {
		if q.StartHour < 0 || q.StartHour > 23 || q.EndHour < 0 || q.EndHour > 23 ||
			q.StartMinute < 0 || q.StartMinute > 59 || q.EndMinute < 0 || q.EndMinute > 59 {
			return fmt.Errorf("quiet_hours entry out of range: %+v", q)
		}
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

func (c Config) MarkerPath() string {
	return filepath.Join(c.HomePath, "last-reminder.json")
}

func (c Config) ReminderLogPath() string {
	return filepath.Join(c.HomePath, "reminders.log")
}

func (c Config) JournalDir() string {
	return filepath.Join(c.HomePath, "journal")
}

// DefaultHome resolves $STANDWATCH_HOME, falling back to ~/.standwatch.
func DefaultHome() string {
	if env := strings.TrimSpace(os.Getenv("STANDWATCH_HOME")); env != "" {
		return env
	}
	return "~/.standwatch"
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
