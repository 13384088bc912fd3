package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ListingPulse/internal/domain/models"
	drepo "ListingPulse/internal/domain/repository"
	"ListingPulse/internal/handler/api"
	"ListingPulse/internal/scheduler"
	"ListingPulse/pkg/config"
	xhttp "ListingPulse/pkg/http"
	applogger "ListingPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle: both recompute
// schedulers plus the HTTP server serving their snapshots.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	report     *scheduler.Scheduler[*models.Report]
	calendar   *scheduler.Scheduler[[]models.CalendarEntry]
	notifier   drepo.Notifier
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	report *scheduler.Scheduler[*models.Report],
	calendar *scheduler.Scheduler[[]models.CalendarEntry],
	notifier drepo.Notifier,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		report:   report,
		calendar: calendar,
		notifier: notifier,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := api.NewReportHandler(a.report, a.calendar, a.logger)
	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	a.report.Start(ctx)
	a.calendar.Start(ctx)
	a.logger.Info("schedulers started",
		applogger.Duration("report_interval", a.cfg.Scheduler.ReportInterval),
		applogger.Duration("calendar_interval", a.cfg.Scheduler.CalendarInterval),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown stops the schedulers first so no run outlives the process, then
// drains the HTTP server.
func (a *App) shutdown(ctx context.Context) error {
	a.report.Stop()
	a.calendar.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Flush the log collector before its producer goes away.
	a.logger.RemoveCollector()

	if a.notifier != nil {
		if err := a.notifier.Close(); err != nil {
			a.logger.Warn("notifier close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
