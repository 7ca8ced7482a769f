package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/minhtg/flashsale/internal/clock"
	"github.com/minhtg/flashsale/internal/domain/model"
	"github.com/minhtg/flashsale/internal/domain/repository"
)

// ExpiryUseCase reclaims expired reservations and expires unpaid orders.
// The two sweeps are deliberately independent: order expiry never touches
// sale counters, reservation reclaim is the only path that releases them.
type ExpiryUseCase struct {
	repos  repository.Repositories
	uow    repository.UnitOfWork
	clock  clock.Clock
	events EventPublisher
	cache  SaleCache
	logger *slog.Logger

	sweepBatch int
}

// NewExpiryUseCase constructs ExpiryUseCase.
func NewExpiryUseCase(repos repository.Repositories, uow repository.UnitOfWork, clk clock.Clock,
	events EventPublisher, cache SaleCache, sweepBatch int, logger *slog.Logger) *ExpiryUseCase {
	return &ExpiryUseCase{
		repos:      repos,
		uow:        uow,
		clock:      clk,
		events:     events,
		cache:      cache,
		logger:     logger,
		sweepBatch: sweepBatch,
	}
}

// ReclaimExpiredReservations releases the held quantity of every reservation
// whose expiry has passed while still Active. Candidates are scanned without
// locks and re-checked under the sale row lock; one row's failure does not
// block the rest.
func (u *ExpiryUseCase) ReclaimExpiredReservations(ctx context.Context) (int, error) {
	now := u.clock.Now()
	candidates, err := u.repos.Reservations().ExpiredCandidates(ctx, now, u.sweepBatch)
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for _, candidate := range candidates {
		err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
			sale, err := r.Sales().GetByIDForUpdate(ctx, candidate.SaleID)
			if err != nil {
				return err
			}
			reservation, err := r.Reservations().GetByIDForUpdate(ctx, candidate.ID)
			if err != nil {
				return err
			}
			// Someone converted or cancelled it between scan and lock.
			if reservation.Status != model.ReservationStatusActive || reservation.ExpiresAt.After(now) {
				return nil
			}
			if err := r.Reservations().MarkExpired(ctx, reservation.ID); err != nil {
				return err
			}
			sale.ReservedQuantity -= reservation.Quantity
			if sale.ReservedQuantity < 0 {
				sale.ReservedQuantity = 0
			}
			return r.Sales().Update(ctx, sale)
		})
		if err != nil {
			u.logger.Error("reservation reclaim failed",
				slog.Int64("reservation_id", candidate.ID),
				slog.Int64("sale_id", candidate.SaleID),
				slog.String("error", err.Error()))
			continue
		}
		u.cache.Invalidate(ctx, candidate.SaleID)
		reclaimed++
		u.logger.Info("reservation expired",
			slog.Int64("reservation_id", candidate.ID),
			slog.Float64("quantity", candidate.Quantity))
	}
	return reclaimed, nil
}

// ExpirePendingOrders flips every pending order past its payment deadline to
// EXPIRED in one set-based update. The matching reservations are reclaimed
// independently by ReclaimExpiredReservations.
func (u *ExpiryUseCase) ExpirePendingOrders(ctx context.Context) (int, error) {
	now := u.clock.Now()
	ids, err := u.repos.Orders().ExpirePending(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		u.events.OrderStatusChanged(ctx, model.OrderStatusChanged{
			OrderID:       id,
			OldStatus:     model.OrderStatusPending,
			NewStatus:     model.OrderStatusExpired,
			OccurredAt:    now,
			CorrelationID: uuid.NewString(),
		})
	}
	if len(ids) > 0 {
		u.logger.Info("pending orders expired", slog.Int("count", len(ids)))
	}
	return len(ids), nil
}
