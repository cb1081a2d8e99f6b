package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"habithero-service/internal/config"
	"habithero-service/internal/domain/service"
)

const jobTimeout = 5 * time.Minute

// DailyJobs schedules the midnight progress reset and the evening recap.
// All expressions are evaluated in the configured timezone, so the reset
// fires at the user's local midnight.
type DailyJobs struct {
	resetService service.ResetService
	recapService service.RecapService // optional
	cron         *cron.Cron
	cfg          *config.SchedulerConfig
}

// NewDailyJobs creates the daily scheduler. recapService may be nil, in which
// case only the midnight reset is registered.
func NewDailyJobs(resetService service.ResetService, recapService service.RecapService, cfg *config.SchedulerConfig, loc *time.Location) *DailyJobs {
	return &DailyJobs{
		resetService: resetService,
		recapService: recapService,
		cron:         cron.New(cron.WithLocation(loc)),
		cfg:          cfg,
	}
}

// Start registers and starts the scheduled jobs
func (d *DailyJobs) Start() error {
	if _, err := d.cron.AddFunc("0 0 * * *", d.runReset); err != nil {
		return fmt.Errorf("failed to add midnight reset job: %w", err)
	}

	if d.recapService != nil {
		recapExpr := fmt.Sprintf("%d %d * * *", d.cfg.RecapMinute, d.cfg.RecapHour)
		if _, err := d.cron.AddFunc(recapExpr, d.runRecap); err != nil {
			return fmt.Errorf("failed to add recap job: %w", err)
		}
	}

	d.cron.Start()
	slog.Info("daily scheduler started",
		"recap_enabled", d.recapService != nil,
		"recap_hour", d.cfg.RecapHour, "recap_minute", d.cfg.RecapMinute)

	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (d *DailyJobs) Stop() {
	slog.Info("stopping daily scheduler")
	ctx := d.cron.Stop()
	<-ctx.Done()
	slog.Info("daily scheduler stopped")
}

// TriggerResetNow runs the midnight reset immediately. Behavior is identical
// to the scheduled run; it exists for manual and debug invocation.
func (d *DailyJobs) TriggerResetNow(ctx context.Context) (*service.ResetOutcome, error) {
	return d.resetService.Run(ctx)
}

func (d *DailyJobs) runReset() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	outcome, err := d.resetService.Run(ctx)
	if err != nil {
		slog.Error("midnight reset failed", "error", err)
		return
	}

	slog.Info("midnight reset completed",
		"reset", outcome.Reset, "skipped", outcome.Skipped, "failed", outcome.Failed)
}

func (d *DailyJobs) runRecap() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := d.recapService.Run(ctx); err != nil {
		slog.Error("daily recap failed", "error", err)
	}
}
