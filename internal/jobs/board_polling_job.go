package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultPollInterval is how often boards are refreshed from the backend.
const DefaultPollInterval = 30 * time.Second

// ErrPollSuperseded is returned by a poll whose result was dropped because a
// newer poll of the same kind started while it was running.
var ErrPollSuperseded = errors.New("poll superseded by a newer one")

// BoardPollingJob refreshes the stored orders of one kind from the backend.
//
// Every poll gets the next sequence number. Starting a poll cancels the one in
// flight, and a result is written to the store only if its poll is still the
// latest one issued, so a slow answer can never overwrite a newer board.
// Supersede issues a sequence number without polling: commands call it before
// storing an order the backend just confirmed.
type BoardPollingJob struct {
	kind     order.Kind
	gateway  ports.OrderGateway
	store    ports.BoardStore
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger

	mu     sync.Mutex
	issued uint64
	cancel context.CancelFunc
}

// NewBoardPollingJob creates a job polling the orders of kind every interval.
func NewBoardPollingJob(
	kind order.Kind,
	gateway ports.OrderGateway,
	store ports.BoardStore,
	interval time.Duration,
	logger *slog.Logger,
) *BoardPollingJob {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &BoardPollingJob{
		kind:     kind,
		gateway:  gateway,
		store:    store,
		interval: interval,
		cron:     cron.New(),
		logger:   logger.With("component", "board_polling_job", "kind", kind.String()),
	}
}

// Start schedules the poll.
func (j *BoardPollingJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx := context.Background()

		if err := j.PollNow(ctx); err != nil && !errors.Is(err, ErrPollSuperseded) {
			j.logger.ErrorContext(ctx, "Board polling failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Board polling job started", "interval", j.interval.String())
	return nil
}

// Stop cancels the poll in flight and waits for the scheduler to finish.
func (j *BoardPollingJob) Stop() {
	j.mu.Lock()
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.mu.Unlock()

	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Board polling job stopped")
}

// PollNow fetches the orders and replaces the stored board with them.
// On failure the stored board is left as it was.
func (j *BoardPollingJob) PollNow(ctx context.Context) error {
	ctx, seq, cancel := j.begin(ctx)
	defer cancel()

	orders, err := j.gateway.ListOrders(ctx, j.kind)

	j.mu.Lock()
	defer j.mu.Unlock()

	if seq != j.issued {
		return ErrPollSuperseded
	}
	j.cancel = nil

	if err != nil {
		return fmt.Errorf("list %s orders: %w", j.kind, err)
	}
	if err = j.store.Replace(ctx, j.kind, orders); err != nil {
		return fmt.Errorf("store %s orders: %w", j.kind, err)
	}

	j.logger.DebugContext(ctx, "Board refreshed", "sequence", seq, "orders", len(orders))
	return nil
}

// Supersede drops the result of the poll in flight, if any. The store write of
// a poll happens under the same lock, so once Supersede returns no older
// result can reach the store.
func (j *BoardPollingJob) Supersede() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.issued++
}

func (j *BoardPollingJob) begin(parent context.Context) (context.Context, uint64, context.CancelFunc) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		j.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	j.issued++
	j.cancel = cancel
	return ctx, j.issued, cancel
}
