package migratorimpl

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleRuns sets up a recurring migration pass on the configured cron
// expression, picking up posts added to the archive since the last pass.
func (m *MigratorImpl) ScheduleRuns(ctx context.Context) error {
	expr := m.Config.Import.Schedule
	m.Logger.Info("Setting up scheduled imports", "schedule", expr)

	if m.Scheduler == nil {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create import scheduler: %w", err)
		}
		m.Scheduler = scheduler
	}

	_, err := m.Scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				m.Logger.Info("Context cancelled, skipping scheduled import")
				return
			}

			m.Logger.Info("Running scheduled import")
			if err := m.Run(ctx); err != nil {
				m.Logger.Error("Scheduled import failed", "error", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule imports: %w", err)
	}

	m.Scheduler.Start()

	go func() {
		<-ctx.Done()
		m.Logger.Info("Stopping import scheduler")
		if err := m.Scheduler.Shutdown(); err != nil {
			m.Logger.Error("Failed to shut down import scheduler", "error", err)
		}
	}()

	return nil
}
