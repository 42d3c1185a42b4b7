package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
)

// RetryRequester re-requests assignment for a pending order.
type RetryRequester interface {
	Handle(ctx context.Context, cmd commands.RetryAssignmentCommand) error
}

// sweepRequester identifies the job as the actor behind automatic retries.
const sweepRequester = "stale-pending-sweep"

// StalePendingSweepJob periodically looks for orders stuck in PENDING and
// re-requests assignment for them. Runs every minute; only orders older than
// the configured age are swept, so fresh orders get their normal async
// matching pass first.
type StalePendingSweepJob struct {
	uowFactory commands.OrderUoWFactory
	retry      RetryRequester
	staleAge   time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStalePendingSweepJob creates the sweep job. staleAge bounds how long an
// order may sit in PENDING before the job re-requests assignment.
func NewStalePendingSweepJob(
	uowFactory commands.OrderUoWFactory,
	retry RetryRequester,
	staleAge time.Duration,
	logger *slog.Logger,
) *StalePendingSweepJob {
	return &StalePendingSweepJob{
		uowFactory: uowFactory,
		retry:      retry,
		staleAge:   staleAge,
		cron:       cron.New(),
		logger:     logger.With("component", "stale_pending_sweep_job"),
	}
}

// Start begins the sweep job to run every minute.
func (j *StalePendingSweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		if err := j.sweep(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Stale pending sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale pending sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *StalePendingSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale pending sweep job stopped")
}

func (j *StalePendingSweepJob) sweep(ctx context.Context) error {
	pending, err := j.loadPending(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-j.staleAge)
	for _, aggregate := range pending {
		if aggregate.CreatedAt().After(cutoff) {
			continue
		}

		cmd, err := commands.NewRetryAssignmentCommand(aggregate.ID(), sweepRequester, "order stale in pending")
		if err != nil {
			j.logger.ErrorContext(ctx, "Failed to build retry command",
				"order_id", aggregate.ID().String(), "error", err)
			continue
		}

		if err := j.retry.Handle(ctx, cmd); err != nil {
			// The order may have been assigned or cancelled between the read
			// and the retry; that is not a job failure.
			if errors.Is(err, commands.ErrRetryNotPending) {
				continue
			}
			j.logger.ErrorContext(ctx, "Failed to re-request assignment",
				"order_id", aggregate.ID().String(), "error", err)
		}
	}

	return nil
}

func (j *StalePendingSweepJob) loadPending(ctx context.Context) ([]*order.Order, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetAllInPendingStatus(ctx)
}
