// Package jobs provides scheduled background tasks for the station.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// BoardPollingJob refreshes the stored orders of one kind (table or app) from
// the backend. There is one job per kind, running "@every" the configured
// interval (30s by default).
//
// # Usage
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(gateway, store, interval, logger)
//
//	// Fill the boards before serving requests
//	if err := jobManager.RefreshAll(ctx); err != nil {
//		logger.Warn("initial refresh failed", "error", err)
//	}
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Overlapping polls
//
// A poll that starts while another one of the same kind is in flight cancels
// it. Results are applied in the order polls were issued, never in the order
// answers arrived: a superseded poll returns ErrPollSuperseded and leaves the
// store alone.
//
// # Error Handling
//
// A failed poll keeps the last board. Failures are logged and the next tick
// tries again.
package jobs
