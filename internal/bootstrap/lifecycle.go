package bootstrap

import (
	"context"
	"fmt"

	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/scheduler"
)

// Start loads the configuration at configPath and serves until ctx is
// cancelled or a termination signal arrives.
func Start(ctx context.Context, configPath string, debug bool, version string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.Debug = true
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	app, err := New(ctx, cfg, log, version)
	if err != nil {
		return err
	}
	return Serve(ctx, app)
}

// Serve runs the background jobs, the optional report scheduler and the HTTP
// server, then shuts them down in reverse order.
func Serve(ctx context.Context, app *App) error {
	defer app.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.Background(ctx)

	sched, err := SetupScheduler(app)
	if err != nil {
		return err
	}
	if sched != nil {
		sched.Start()
		defer sched.Stop()
	}

	srv := SetupHTTPServer(app)
	if runErr := srv.Run(ctx); runErr != nil {
		app.Logger.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	app.Logger.Info("Server exited")
	return nil
}

// SetupScheduler returns nil when report archiving is disabled.
func SetupScheduler(app *App) (*scheduler.Scheduler, error) {
	cfg := app.Config.Reports
	if !cfg.Schedule.Enabled {
		return nil, nil
	}
	formats, err := ReportFormats(cfg.Formats)
	if err != nil {
		return nil, err
	}
	sched, err := scheduler.New(app.Reports, scheduler.Config{
		Daily:     cfg.Schedule.Daily,
		Weekly:    cfg.Schedule.Weekly,
		Formats:   formats,
		OutputDir: cfg.OutputDir,
	}, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("create report scheduler: %w", err)
	}
	return sched, nil
}
