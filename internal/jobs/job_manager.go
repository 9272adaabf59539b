package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/ports"
)

var _ ports.BoardRefresher = (*JobManager)(nil)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	tablePollingJob *BoardPollingJob
	appPollingJob   *BoardPollingJob
}

// NewJobManager creates a polling job for each order kind.
func NewJobManager(
	gateway ports.OrderGateway,
	store ports.BoardStore,
	interval time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		tablePollingJob: NewBoardPollingJob(order.Table, gateway, store, interval, logger),
		appPollingJob:   NewBoardPollingJob(order.App, gateway, store, interval, logger),
	}
}

// RefreshAll polls every board once, right away.
func (jm *JobManager) RefreshAll(ctx context.Context) error {
	return errors.Join(
		jm.tablePollingJob.PollNow(ctx),
		jm.appPollingJob.PollNow(ctx),
	)
}

// Supersede drops the in-flight refresh of the board of kind.
func (jm *JobManager) Supersede(kind order.Kind) {
	switch kind {
	case order.Table:
		jm.tablePollingJob.Supersede()
	case order.App:
		jm.appPollingJob.Supersede()
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.tablePollingJob.Start(); err != nil {
		return fmt.Errorf("failed to start table board polling job: %w", err)
	}

	if err := jm.appPollingJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.tablePollingJob.Stop()
		return fmt.Errorf("failed to start app board polling job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.appPollingJob.Stop()
	jm.tablePollingJob.Stop()
}
