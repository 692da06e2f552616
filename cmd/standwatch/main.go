package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"standwatch/internal/bootstrap"
	"standwatch/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var homePath string

	root := &cobra.Command{
		Use:           "standwatch",
		Short:         "Hourly standing activity evaluator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&homePath, "home", config.DefaultHome(), "standwatch home (config, database, logs)")

	root.AddCommand(newStatusCmd(&homePath))
	root.AddCommand(newBucketsCmd(&homePath))
	root.AddCommand(newCheckCmd(&homePath))
	root.AddCommand(newRunCmd(&homePath))
	root.AddCommand(newTUICmd(&homePath))
	root.AddCommand(newSamplesCmd(&homePath))
	root.AddCommand(newSourceCmd(&homePath))
	root.AddCommand(newRemindersCmd(&homePath))
	return root
}

func loadApp(homePath string, opts bootstrap.Options) (*bootstrap.App, config.Config, error) {
	cfg, err := config.New(homePath)
	if err != nil {
		return nil, config.Config{}, err
	}
	app, err := bootstrap.New(cfg, opts)
	if err != nil {
		return nil, config.Config{}, err
	}
	return app, cfg, nil
}

// parseTime accepts RFC3339 or a local "2006-01-02 15:04" timestamp. An empty
// value yields the zero time, which callers read as "now".
func parseTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want RFC3339 or \"2006-01-02 15:04\"", raw)
}

func newStatusCmd(homePath *string) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Evaluate standing activity for the current hour",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*homePath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer closeApp(app)
			loc, _ := cfg.Location()
			when, err := parseTime(at, loc)
			if err != nil {
				return err
			}
			out, err := app.ActivityCLI.Status(context.Background(), when)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "current_hour_complete:    %t\n", out.CurrentHourComplete)
			_, _ = fmt.Fprintf(w, "continuous_sitting_hours: %d\n", out.ContinuousSittingHours)
			_, _ = fmt.Fprintf(w, "should_remind:            %t\n", out.ShouldRemind)
			_, _ = fmt.Fprintf(w, "phase=%s hour=%s goal=%.1fmin evaluated=%s\n",
				out.Phase, out.HourStart.Format("15:04"), out.GoalMinutes, out.EvaluatedAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "evaluate at this instant instead of now")
	return cmd
}

func newBucketsCmd(homePath *string) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "Print hourly standing minutes for a window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*homePath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer closeApp(app)
			loc, _ := cfg.Location()
			fromT, err := parseTime(from, loc)
			if err != nil {
				return err
			}
			toT, err := parseTime(to, loc)
			if err != nil {
				return err
			}
			out, err := app.ActivityCLI.Buckets(context.Background(), fromT, toT)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(out.Buckets) == 0 {
				_, _ = fmt.Fprintln(w, "no buckets")
				return nil
			}
			for _, b := range out.Buckets {
				mark := ""
				if b.Complete {
					mark = "complete"
				}
				_, _ = fmt.Fprintf(w, "%s  %6.2f  %s\n", b.HourStart.Format("2006-01-02 15:04"), b.StandingMinutes, mark)
			}
			_, _ = fmt.Fprintf(w, "total %.2f min, goal %.1f min/hour\n", out.TotalMin, out.GoalMinutes)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "window start (required)")
	cmd.Flags().StringVar(&to, "to", "", "window end (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newCheckCmd(homePath *string) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate and deliver a reminder when one is due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*homePath, bootstrap.Options{Out: cmd.OutOrStdout()})
			if err != nil {
				return err
			}
			defer closeApp(app)
			loc, _ := cfg.Location()
			when, err := parseTime(at, loc)
			if err != nil {
				return err
			}
			out, err := app.ReminderCLI.Check(context.Background(), when)
			if err != nil {
				return err
			}
			ev := out.Evaluation
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "complete=%t sitting=%dh remind=%t outcome=%s",
				ev.CurrentHourComplete, ev.ContinuousSittingHours, ev.ShouldRemind, out.Outcome)
			if out.Reason != "" {
				_, _ = fmt.Fprintf(w, " (%s)", out.Reason)
			}
			_, _ = fmt.Fprintln(w)
			if out.DeliveryError != "" {
				return fmt.Errorf("reminder not delivered: %s", out.DeliveryError)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "evaluate at this instant instead of now")
	return cmd
}

func newRunCmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Evaluate periodically and on resume until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*homePath, bootstrap.Options{Out: cmd.OutOrStdout()})
			if err != nil {
				return err
			}
			defer closeApp(app)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			resume := make(chan os.Signal, 1)
			if sigs := resumeSignals(); len(sigs) > 0 {
				signal.Notify(resume, sigs...)
				defer signal.Stop(resume)
			}
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case sig := <-resume:
						app.Logger.Debug("resume signal", "signal", sig.String())
						app.MonitorCLI.Trigger()
					}
				}
			}()

			app.Logger.Info("monitor started", "home", *homePath)
			return app.MonitorCLI.Run(ctx)
		},
	}
}

func newTUICmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the standing status view",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.New(*homePath)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.HomePath, 0o755); err != nil {
				return fmt.Errorf("create home: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(cfg.HomePath, "standwatch.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			// Reminders are shown in the view; terminal output would corrupt it.
			app, err := bootstrap.New(cfg, bootstrap.Options{Out: io.Discard, LogOutput: logFile})
			if err != nil {
				return err
			}
			defer closeApp(app)
			return bootstrap.RunTUI(app)
		},
	}
}

func newSamplesCmd(homePath *string) *cobra.Command {
	samples := &cobra.Command{Use: "samples", Short: "Manage stored standing samples"}

	samples.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import samples from a JSON or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := loadApp(*homePath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer closeApp(app)
			out, err := app.ActivityCLI.Import(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "read %d, imported %d, skipped %d duplicates\n", out.Read, out.Imported, out.Skipped)
			return nil
		},
	})

	var start, end string
	var minutes float64
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record one standing sample",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*homePath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer closeApp(app)
			loc, _ := cfg.Location()
			startT, err := parseTime(start, loc)
			if err != nil {
				return err
			}
			endT, err := parseTime(end, loc)
			if err != nil {
				return err
			}
			out, err := app.ActivityCLI.Add(context.Background(), startT, endT, minutes)
			if err != nil {
				return err
			}
			if out.Imported == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sample already recorded")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sample recorded")
			return nil
		},
	}
	addCmd.Flags().StringVar(&start, "start", "", "sample start (required)")
	addCmd.Flags().StringVar(&end, "end", "", "sample end (defaults to start)")
	addCmd.Flags().Float64Var(&minutes, "minutes", 0, "standing minutes (required)")
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("minutes")

	var from, to string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored samples (defaults to today)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*homePath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer closeApp(app)
			loc, _ := cfg.Location()
			fromT, err := parseTime(from, loc)
			if err != nil {
				return err
			}
			toT, err := parseTime(to, loc)
			if err != nil {
				return err
			}
			samples, err := app.ActivityCLI.List(context.Background(), fromT, toT)
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no samples")
				return nil
			}
			for _, s := range samples {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %6.2f min\n",
					s.Start.Format("2006-01-02 15:04:05"), s.End.Format("15:04:05"), s.DurationMinutes)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&from, "from", "", "window start")
	listCmd.Flags().StringVar(&to, "to", "", "window end")

	samples.AddCommand(addCmd, listCmd)
	return samples
}

func newSourceCmd(homePath *string) *cobra.Command {
	source := &cobra.Command{Use: "source", Short: "Sample source commands"}
	source.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check that the configured sample source is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*homePath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer closeApp(app)
			out, err := app.ActivityCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "kind:    %s\n", out.Kind)
			if out.Name != "" {
				_, _ = fmt.Fprintf(w, "name:    %s %s\n", out.Name, out.Version)
			}
			if out.Detail != "" {
				_, _ = fmt.Fprintf(w, "detail:  %s\n", out.Detail)
			}
			_, _ = fmt.Fprintf(w, "samples: %d in %s\n", out.Samples, out.Window)
			return nil
		},
	})
	return source
}

func newRemindersCmd(homePath *string) *cobra.Command {
	reminders := &cobra.Command{Use: "reminders", Short: "Reminder history"}

	var tail int
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent reminder decisions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*homePath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer closeApp(app)
			entries, err := app.ReminderCLI.Log(context.Background(), tail)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no reminders")
				return nil
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s  %-26s hour=%s sitting=%dh",
					e.At.Format("2006-01-02 15:04"), e.Outcome, e.HourStart.Format("15:04"), e.StreakHours)
				if e.ReminderID != "" {
					line += " id=" + e.ReminderID
				}
				if e.DeliveryError != "" {
					line += " error=" + e.DeliveryError
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	logCmd.Flags().IntVar(&tail, "tail", 20, "number of entries")
	reminders.AddCommand(logCmd)
	return reminders
}

func closeApp(app *bootstrap.App) {
	if err := app.Close(); err != nil {
		app.Logger.Warn("close app", "error", err)
	}
}
