package migrator

import "context"

// Client drives the migration: one full pass over the archive, or repeated
// passes on a schedule.
type Client interface {
	// Run executes one migration pass. The checkpoint is written before Run
	// returns, whether it succeeded or failed.
	Run(ctx context.Context) error

	// ScheduleRuns re-runs the migration on the configured cron schedule.
	ScheduleRuns(ctx context.Context) error
}
