package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SweepFacade exposes the subset of application functionality required by the reconciler.
type SweepFacade interface {
	ActivateDueSales(ctx context.Context) (int, error)
	EndDueSales(ctx context.Context) (int, error)
	ReclaimExpiredReservations(ctx context.Context) (int, error)
	ExpirePendingOrders(ctx context.Context) (int, error)
}

// Reconciler runs the three periodic sweeps that keep sale state converged:
// sale lifecycle transitions, expired reservation reclaim, and pending order
// expiry. Each sweep runs on its own ticker and skips a tick when the
// previous run of the same sweep is still in flight.
type Reconciler struct {
	facade SweepFacade
	logger *slog.Logger

	saleInterval        time.Duration
	reservationInterval time.Duration
	orderInterval       time.Duration

	saleGuard        sync.Mutex
	reservationGuard sync.Mutex
	orderGuard       sync.Mutex

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the sweep loops.
func NewReconciler(facade SweepFacade, saleInterval, reservationInterval, orderInterval time.Duration, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		facade:              facade,
		logger:              logger,
		saleInterval:        saleInterval,
		reservationInterval: reservationInterval,
		orderInterval:       orderInterval,
	}
}

// Start launches the background sweep loops.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(3)
	go r.loop(runCtx, r.saleInterval, r.sweepSales)
	go r.loop(runCtx, r.reservationInterval, r.sweepReservations)
	go r.loop(runCtx, r.orderInterval, r.sweepOrders)
}

// Stop cancels the loops and waits for in-flight sweeps to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) loop(ctx context.Context, interval time.Duration, sweep func(context.Context)) {
	defer r.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx)
		}
	}
}

func (r *Reconciler) sweepSales(ctx context.Context) {
	if !r.saleGuard.TryLock() {
		r.logger.Warn("sale lifecycle sweep still running, skipping tick")
		return
	}
	defer r.saleGuard.Unlock()

	activated, err := r.facade.ActivateDueSales(ctx)
	if err != nil {
		r.logger.Error("sale activation sweep failed", slog.String("error", err.Error()))
	}
	ended, err := r.facade.EndDueSales(ctx)
	if err != nil {
		r.logger.Error("sale end sweep failed", slog.String("error", err.Error()))
	}
	if activated > 0 || ended > 0 {
		r.logger.Info("sale lifecycle sweep done", slog.Int("activated", activated), slog.Int("ended", ended))
	}
}

func (r *Reconciler) sweepReservations(ctx context.Context) {
	if !r.reservationGuard.TryLock() {
		r.logger.Warn("reservation reclaim sweep still running, skipping tick")
		return
	}
	defer r.reservationGuard.Unlock()

	reclaimed, err := r.facade.ReclaimExpiredReservations(ctx)
	if err != nil {
		r.logger.Error("reservation reclaim sweep failed", slog.String("error", err.Error()))
		return
	}
	if reclaimed > 0 {
		r.logger.Info("reservation reclaim sweep done", slog.Int("reclaimed", reclaimed))
	}
}

func (r *Reconciler) sweepOrders(ctx context.Context) {
	if !r.orderGuard.TryLock() {
		r.logger.Warn("order expiry sweep still running, skipping tick")
		return
	}
	defer r.orderGuard.Unlock()

	expired, err := r.facade.ExpirePendingOrders(ctx)
	if err != nil {
		r.logger.Error("order expiry sweep failed", slog.String("error", err.Error()))
		return
	}
	if expired > 0 {
		r.logger.Info("order expiry sweep done", slog.Int("expired", expired))
	}
}
