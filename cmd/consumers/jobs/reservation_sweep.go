package jobs

import (
	"context"
	"log/slog"
	"time"

	"stagedoor/internal/logger"
)

// Sweeper deletes all reservations past their deadline and reports how many
// went. service.ReservationService satisfies it.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// ReservationSweepJob periodically reclaims expired reservations. It backs
// up the per-reservation scheduler: seats come back even if the scheduler
// consumer is down or an event was lost.
type ReservationSweepJob struct {
	sweeper  Sweeper
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
	log      *slog.Logger
}

func NewReservationSweepJob(sweeper Sweeper, interval time.Duration) *ReservationSweepJob {
	return &ReservationSweepJob{
		sweeper:  sweeper,
		interval: interval,
		done:     make(chan bool),
		log:      logger.WithFields("job", "reservation_sweep"),
	}
}

// Start begins the background sweep loop. The first sweep runs immediately
// so a restart cleans up whatever expired while the process was down.
func (j *ReservationSweepJob) Start(ctx context.Context) {
	j.log.Info("Starting reservation sweep job", "interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	go j.sweep(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.sweep(ctx)
			case <-j.done:
				j.log.Info("Reservation sweep job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job
func (j *ReservationSweepJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *ReservationSweepJob) sweep(ctx context.Context) {
	count, err := j.sweeper.SweepExpired(ctx)
	if err != nil {
		j.log.Error("Reservation sweep failed", "error", err)
		return
	}

	if count > 0 {
		j.log.Info("Reservation sweep reclaimed seats", "count", count)
	}
}
