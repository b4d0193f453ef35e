package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"payledger.backend/pkg/logger"
)

// intentReleaser frees payout requests whose transfer attempt was abandoned
type intentReleaser interface {
	ReleaseStaleIntents(ctx context.Context) (int, error)
}

// PayoutIntentSweeper periodically releases expired transfer intents so the
// requests can be paid again
type PayoutIntentSweeper struct {
	payouts  intentReleaser
	interval time.Duration
	stop     chan struct{}
}

func NewPayoutIntentSweeper(payouts intentReleaser, interval time.Duration) *PayoutIntentSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PayoutIntentSweeper{
		payouts:  payouts,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *PayoutIntentSweeper) Start(ctx context.Context) {
	logger.Info(ctx, "Starting payout intent sweeper", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Payout intent sweeper stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Payout intent sweeper stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *PayoutIntentSweeper) Stop() {
	close(j.stop)
}

func (j *PayoutIntentSweeper) sweep(ctx context.Context) {
	released, err := j.payouts.ReleaseStaleIntents(ctx)
	if err != nil {
		logger.Error(ctx, "Payout intent sweep failed", zap.Int("released", released), zap.Error(err))
		return
	}
	if released > 0 {
		logger.Info(ctx, "Released stale payout intents", zap.Int("released", released))
	}
}
