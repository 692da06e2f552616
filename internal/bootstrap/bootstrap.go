package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	activityinadapter "standwatch/internal/modules/activity/adapter/in"
	activityoutadapter "standwatch/internal/modules/activity/adapter/out"
	activitydomain "standwatch/internal/modules/activity/domain"
	activityout "standwatch/internal/modules/activity/port/out"
	activityservice "standwatch/internal/modules/activity/service"
	activityusecase "standwatch/internal/modules/activity/usecase"
	monitorinadapter "standwatch/internal/modules/monitor/adapter/in"
	monitoroutadapter "standwatch/internal/modules/monitor/adapter/out"
	monitordomain "standwatch/internal/modules/monitor/domain"
	monitorservice "standwatch/internal/modules/monitor/service"
	monitorusecase "standwatch/internal/modules/monitor/usecase"
	reminderinadapter "standwatch/internal/modules/reminder/adapter/in"
	reminderoutadapter "standwatch/internal/modules/reminder/adapter/out"
	reminderdomain "standwatch/internal/modules/reminder/domain"
	reminderout "standwatch/internal/modules/reminder/port/out"
	reminderservice "standwatch/internal/modules/reminder/service"
	reminderusecase "standwatch/internal/modules/reminder/usecase"
	"standwatch/internal/platform/clock"
	"standwatch/internal/platform/config"
	"standwatch/internal/platform/id"
	"standwatch/internal/platform/logging"
	uiapp "standwatch/internal/ui/app"
)

// Options controls where the app writes. Out receives terminal reminders;
// LogOutput receives logs. Both default to the process streams.
type Options struct {
	Out       io.Writer
	LogOutput io.Writer
}

type App struct {
	ActivityCLI activityinadapter.CLIHandler
	ReminderCLI reminderinadapter.CLIHandler
	MonitorCLI  monitorinadapter.CLIHandler
	MonitorTUI  monitorinadapter.TUIHandler
	Logger      hclog.Logger

	closers []io.Closer
}

func New(cfg config.Config, opts Options) (*App, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger, err := logging.New("standwatch", logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: opts.LogOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clk := clock.SystemClock{Location: loc}
	ids := id.UUID{}

	store, err := activityoutadapter.NewSQLiteSampleStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new sample store: %w", err)
	}
	app := &App{Logger: logger, closers: []io.Closer{store}}

	source, probe := sampleSource(cfg, store, logger)
	activitySvc := activityservice.NewActivityService(clk, source, probe, policy(cfg), logger.Named("activity"))
	sampleSvc := activityservice.NewSampleService(store, activityoutadapter.NewFileSampleReader(), logger.Named("samples"))
	activityUC := activityusecase.NewInteractor(activitySvc, sampleSvc, clk)

	sink, err := reminderSink(cfg, opts.Out)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	reminderSvc := reminderservice.NewReminderService(
		clk,
		ids,
		sink,
		reminderoutadapter.NewFileMarkerStore(cfg.MarkerPath()),
		reminderoutadapter.NewFileReminderLog(cfg.ReminderLogPath()),
		reminderOptions(cfg),
		reminderservice.Message{Title: cfg.Message.Title, Body: cfg.Message.Body},
		logger.Named("reminder"),
	)
	reminderUC := reminderusecase.NewInteractor(reminderSvc, activityUC)

	stale, err := monitordomain.ParseStalePolicy(cfg.StalePolicy)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	updates := monitoroutadapter.NewChannelPublisher()
	scheduler := monitorservice.NewScheduler(
		monitoroutadapter.NewReminderCycle(reminderUC),
		clk,
		monitorservice.Options{
			Interval:     cfg.PollInterval(),
			FetchTimeout: cfg.FetchTimeout(),
			StalePolicy:  stale,
		},
		logger.Named("monitor"),
		monitoroutadapter.NewLogPublisher(logger.Named("status")),
		updates,
	)
	monitorUC := monitorusecase.NewInteractor(scheduler)

	app.ActivityCLI = activityinadapter.NewCLIHandler(activityUC)
	app.ReminderCLI = reminderinadapter.NewCLIHandler(reminderUC)
	app.MonitorCLI = monitorinadapter.NewCLIHandler(monitorUC)
	app.MonitorTUI = monitorinadapter.NewTUIHandler(monitorUC, updates.Updates())
	return app, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// RunTUI runs the monitor loop in the background for the lifetime of the
// status view.
func RunTUI(app *App) error {
	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- app.MonitorTUI.Run(ctx)
	}()

	model := uiapp.NewModel(app.MonitorTUI, app.ActivityCLI, app.ReminderCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := program.Run()

	cancel()
	if loopErr := <-loopDone; loopErr != nil && !errors.Is(loopErr, context.Canceled) {
		err = errors.Join(err, loopErr)
	}
	return err
}

// ─── wiring helpers ──────────────────────────────────────────────────────────

// sampleSource always reads the local store so samples added by hand are
// evaluated next to the configured source.
func sampleSource(cfg config.Config, store *activityoutadapter.SQLiteSampleStore, logger hclog.Logger) (activityout.SampleSource, activityout.SourceProbe) {
	switch cfg.Source.Kind {
	case config.SourceFile:
		src := activityoutadapter.NewFileSampleSource(cfg.Source.Path)
		return activityoutadapter.NewMergedSampleSource(src, store), src
	case config.SourcePlugin:
		src := activityoutadapter.NewPluginSampleSource(cfg.Source.Plugin, cfg.Source.Path, logger)
		return activityoutadapter.NewMergedSampleSource(src, store), src
	}
	return store, store
}

func policy(cfg config.Config) activitydomain.Policy {
	p := activitydomain.Policy{GoalMinutes: cfg.GoalMinutes}
	if w := cfg.ActiveWindow; w != nil {
		p.ActiveWindow = &activitydomain.ActiveWindow{StartHour: w.StartHour, EndHour: w.EndHour}
	}
	return p
}

func reminderOptions(cfg config.Config) reminderdomain.Options {
	opts := reminderdomain.Options{RemindOutsideWindow: cfg.RemindOutsideWindow}
	for _, q := range cfg.QuietHours {
		opts.QuietHours = append(opts.QuietHours, reminderdomain.QuietRange{
			StartHour:   q.StartHour,
			StartMinute: q.StartMinute,
			EndHour:     q.EndHour,
			EndMinute:   q.EndMinute,
		})
	}
	return opts
}

func reminderSink(cfg config.Config, out io.Writer) (reminderout.Sink, error) {
	sinks := make([]reminderout.Sink, 0, len(cfg.Sinks))
	for _, name := range cfg.Sinks {
		switch name {
		case config.SinkTerminal:
			sinks = append(sinks, reminderoutadapter.NewTerminalSink(out, true))
		case config.SinkCommand:
			sinks = append(sinks, reminderoutadapter.NewCommandSink(cfg.NotifyCommand))
		case config.SinkJournal:
			sinks = append(sinks, reminderoutadapter.NewJournalSink(cfg.JournalDir()))
		default:
			return nil, fmt.Errorf("unsupported sink %q", name)
		}
	}
	return reminderoutadapter.NewMultiSink(sinks...), nil
}
