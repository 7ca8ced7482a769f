package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minhtg/flashsale/internal/clock"
	domainErrors "github.com/minhtg/flashsale/internal/domain/errors"
	"github.com/minhtg/flashsale/internal/domain/model"
	"github.com/minhtg/flashsale/internal/domain/repository"
)

// PurchaseUseCase is the reservation engine: it owns the validate/reserve/
// order sequence and the paired payment-confirmation and cancellation paths.
// Every counter mutation happens inside one unit-of-work with the sale row
// locked, so concurrent purchases on the same sale serialize.
type PurchaseUseCase struct {
	uow    repository.UnitOfWork
	clock  clock.Clock
	events EventPublisher
	cache  SaleCache
	logger *slog.Logger

	holdDuration  time.Duration
	paymentWindow time.Duration
}

// NewPurchaseUseCase constructs the reservation engine.
func NewPurchaseUseCase(uow repository.UnitOfWork, clk clock.Clock, events EventPublisher,
	cache SaleCache, holdDuration, paymentWindow time.Duration, logger *slog.Logger) *PurchaseUseCase {
	return &PurchaseUseCase{
		uow:           uow,
		clock:         clk,
		events:        events,
		cache:         cache,
		logger:        logger,
		holdDuration:  holdDuration,
		paymentWindow: paymentWindow,
	}
}

// PurchaseInput carries one purchase attempt.
type PurchaseInput struct {
	SaleID          int64
	UserID          int64
	Quantity        float64
	ShippingName    string
	ShippingPhone   string
	ShippingAddress string
	CustomerNote    string
}

// Purchase attempts to reserve quantity on a sale and create the pending
// order. Business-rule rejections come back as typed errors; the sale status
// transitions they may trigger (Ended, SoldOut) are committed regardless.
func (u *PurchaseUseCase) Purchase(ctx context.Context, in PurchaseInput) (*model.PurchaseResult, error) {
	var (
		result    *model.PurchaseResult
		rejection error
		mutated   bool
		completed *model.PurchaseCompleted
	)

	err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		sale, err := r.Sales().GetByIDForUpdate(ctx, in.SaleID)
		if err != nil {
			return err
		}
		now := u.clock.Now()

		switch sale.Status {
		case model.SaleStatusCancelled:
			rejection = &domainErrors.NotActiveError{Reason: "cancelled"}
			return nil
		case model.SaleStatusEnded, model.SaleStatusSoldOut:
			rejection = &domainErrors.NotActiveError{Reason: "ended"}
			return nil
		}
		if now.Before(sale.StartTime) {
			rejection = &domainErrors.NotActiveError{
				Reason:           "not started",
				RemainingSeconds: int64(sale.StartTime.Sub(now).Seconds()),
			}
			return nil
		}
		if now.After(sale.EndTime) {
			if err := r.Sales().UpdateStatus(ctx, sale.ID, model.SaleStatusEnded); err != nil {
				return fmt.Errorf("end sale %d: %w", sale.ID, err)
			}
			mutated = true
			rejection = &domainErrors.NotActiveError{Reason: "ended"}
			return nil
		}

		if in.Quantity < sale.MinPurchase {
			rejection = &domainErrors.BelowMinimumError{Minimum: sale.MinPurchase}
			return nil
		}

		available := sale.AvailableQuantity()
		if available < in.Quantity {
			if available <= 0 {
				if err := r.Sales().UpdateStatus(ctx, sale.ID, model.SaleStatusSoldOut); err != nil {
					return fmt.Errorf("mark sale %d sold out: %w", sale.ID, err)
				}
				mutated = true
			}
			rejection = &domainErrors.OutOfStockError{Available: available}
			return nil
		}

		purchased, err := r.Orders().SumQuantityByUserAndSale(ctx, in.UserID, sale.ID)
		if err != nil {
			return fmt.Errorf("sum user purchases: %w", err)
		}
		remaining := sale.MaxPerUser - purchased
		if remaining < in.Quantity {
			rejection = &domainErrors.LimitExceededError{Remaining: remaining, Max: sale.MaxPerUser}
			return nil
		}

		reservation, err := r.Reservations().Create(ctx, &model.Reservation{
			SaleID:    sale.ID,
			UserID:    in.UserID,
			Quantity:  in.Quantity,
			Status:    model.ReservationStatusActive,
			ExpiresAt: now.Add(u.holdDuration),
		})
		if err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		sale.ReservedQuantity += in.Quantity
		if err := r.Sales().Update(ctx, sale); err != nil {
			return fmt.Errorf("reserve quantity on sale %d: %w", sale.ID, err)
		}

		order, err := r.Orders().Create(ctx, &model.Order{
			Code:            newOrderCode(now),
			SaleID:          sale.ID,
			UserID:          in.UserID,
			ReservationID:   reservation.ID,
			Quantity:        in.Quantity,
			UnitPrice:       sale.FlashPrice,
			TotalAmount:     in.Quantity * sale.FlashPrice,
			DiscountAmount:  in.Quantity * (sale.OriginalPrice - sale.FlashPrice),
			Status:          model.OrderStatusPending,
			PaymentDeadline: now.Add(u.paymentWindow),
			ShippingName:    in.ShippingName,
			ShippingPhone:   in.ShippingPhone,
			ShippingAddress: in.ShippingAddress,
			CustomerNote:    in.CustomerNote,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		mutated = true
		result = &model.PurchaseResult{
			OrderID:                 order.ID,
			OrderCode:               order.Code,
			Quantity:                order.Quantity,
			UnitPrice:               order.UnitPrice,
			TotalAmount:             order.TotalAmount,
			SavedAmount:             order.DiscountAmount,
			PaymentDeadline:         order.PaymentDeadline,
			PaymentRemainingSeconds: int64(order.PaymentDeadline.Sub(now).Seconds()),
			ReservationID:           reservation.ID,
			ReservationExpiresAt:    reservation.ExpiresAt,
			RemainingStock:          sale.AvailableQuantity(),
			SoldPercentage:          sale.SoldPercentage(),
			UserTotalPurchased:      purchased + in.Quantity,
			UserRemainingLimit:      remaining - in.Quantity,
		}

		completed = &model.PurchaseCompleted{
			OrderID:        order.ID,
			OrderCode:      order.Code,
			SaleID:         sale.ID,
			SaleName:       sale.Name,
			UserID:         in.UserID,
			Quantity:       order.Quantity,
			UnitPrice:      order.UnitPrice,
			TotalAmount:    order.TotalAmount,
			DiscountAmount: order.DiscountAmount,
			OccurredAt:     now,
			CorrelationID:  uuid.NewString(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if mutated {
		u.cache.Invalidate(ctx, in.SaleID)
	}
	if rejection != nil {
		return nil, rejection
	}
	if completed != nil {
		u.events.PurchaseCompleted(ctx, *completed)
	}

	u.logger.Info("purchase accepted",
		slog.Int64("sale_id", in.SaleID),
		slog.Int64("user_id", in.UserID),
		slog.Float64("quantity", in.Quantity),
		slog.String("order_code", result.OrderCode))
	return result, nil
}

// ConfirmPayment converts the order's reservation into sold units and marks
// the order paid. Reservation, sale counters and order flip in one atomic
// unit. Confirming an already-paid order is an idempotent success.
func (u *PurchaseUseCase) ConfirmPayment(ctx context.Context, orderID int64, method string) (*model.Order, error) {
	var (
		confirmed *model.Order
		rejection error
		saleID    int64
		changed   *model.OrderStatusChanged
	)

	err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		order, err := r.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == model.OrderStatusPaid {
			confirmed = order
			return nil
		}
		if order.Status != model.OrderStatusPending {
			rejection = domainErrors.ErrInvalidState
			return nil
		}
		now := u.clock.Now()
		if now.After(order.PaymentDeadline) {
			rejection = domainErrors.ErrOrderExpired
			return nil
		}

		// Sale row first, matching the purchase path's lock order.
		sale, err := r.Sales().GetByIDForUpdate(ctx, order.SaleID)
		if err != nil {
			return err
		}
		order, err = r.Orders().GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == model.OrderStatusPaid {
			confirmed = order
			return nil
		}
		if order.Status != model.OrderStatusPending {
			rejection = domainErrors.ErrInvalidState
			return nil
		}

		reservation, err := r.Reservations().GetByIDForUpdate(ctx, order.ReservationID)
		if err != nil {
			return err
		}
		// A reclaimed hold already returned its quantity to stock; converting
		// it now would count the same units twice. The order drains through
		// the expiry sweep instead.
		if reservation.Status != model.ReservationStatusActive {
			rejection = domainErrors.ErrOrderExpired
			return nil
		}
		if err := r.Reservations().MarkConverted(ctx, reservation.ID, now); err != nil {
			return fmt.Errorf("convert reservation %d: %w", reservation.ID, err)
		}

		sale.ReservedQuantity -= order.Quantity
		if sale.ReservedQuantity < 0 {
			sale.ReservedQuantity = 0
		}
		sale.SoldQuantity += order.Quantity
		if sale.AvailableQuantity() <= 0 && !sale.Status.Terminal() {
			sale.Status = model.SaleStatusSoldOut
		}
		if err := r.Sales().Update(ctx, sale); err != nil {
			return fmt.Errorf("move reserved to sold on sale %d: %w", sale.ID, err)
		}

		if err := r.Orders().MarkPaid(ctx, order.ID, method, now); err != nil {
			return fmt.Errorf("mark order %d paid: %w", order.ID, err)
		}

		paid := *order
		paid.Status = model.OrderStatusPaid
		paid.PaymentMethod = method
		paid.PaidAt = &now
		confirmed = &paid
		saleID = sale.ID

		changed = &model.OrderStatusChanged{
			OrderID:       order.ID,
			OldStatus:     model.OrderStatusPending,
			NewStatus:     model.OrderStatusPaid,
			OccurredAt:    now,
			CorrelationID: uuid.NewString(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		return nil, rejection
	}
	if saleID != 0 {
		u.cache.Invalidate(ctx, saleID)
		u.logger.Info("payment confirmed",
			slog.Int64("order_id", orderID), slog.String("method", method))
	}
	if changed != nil {
		u.events.OrderStatusChanged(ctx, *changed)
	}
	return confirmed, nil
}

// CancelOrder cancels a pending order owned by userID, releasing the reserved
// quantity back to the sale.
func (u *PurchaseUseCase) CancelOrder(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	var (
		cancelled *model.Order
		rejection error
		saleID    int64
		changed   *model.OrderStatusChanged
	)

	err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		order, err := r.Orders().GetByIDAndUser(ctx, orderID, userID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderStatusPending {
			rejection = domainErrors.ErrInvalidState
			return nil
		}

		sale, err := r.Sales().GetByIDForUpdate(ctx, order.SaleID)
		if err != nil {
			return err
		}
		order, err = r.Orders().GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderStatusPending {
			rejection = domainErrors.ErrInvalidState
			return nil
		}

		reservation, err := r.Reservations().GetByIDForUpdate(ctx, order.ReservationID)
		if err != nil {
			return err
		}
		// Only an Active hold still pins reserved quantity; a reclaimed one
		// was released by the sweep, so the counter must not move again.
		if reservation.Status == model.ReservationStatusActive {
			if err := r.Reservations().MarkCancelled(ctx, order.ReservationID); err != nil {
				return fmt.Errorf("cancel reservation %d: %w", order.ReservationID, err)
			}

			sale.ReservedQuantity -= order.Quantity
			if sale.ReservedQuantity < 0 {
				sale.ReservedQuantity = 0
			}
			if err := r.Sales().Update(ctx, sale); err != nil {
				return fmt.Errorf("release quantity on sale %d: %w", sale.ID, err)
			}
		}

		if err := r.Orders().MarkCancelled(ctx, order.ID); err != nil {
			return fmt.Errorf("mark order %d cancelled: %w", order.ID, err)
		}

		done := *order
		done.Status = model.OrderStatusCancelled
		cancelled = &done
		saleID = sale.ID

		changed = &model.OrderStatusChanged{
			OrderID:       order.ID,
			OldStatus:     model.OrderStatusPending,
			NewStatus:     model.OrderStatusCancelled,
			OccurredAt:    u.clock.Now(),
			CorrelationID: uuid.NewString(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		return nil, rejection
	}
	u.cache.Invalidate(ctx, saleID)
	u.events.OrderStatusChanged(ctx, *changed)
	u.logger.Info("order cancelled", slog.Int64("order_id", orderID), slog.Int64("user_id", userID))
	return cancelled, nil
}

// newOrderCode builds a human-readable unique order code.
func newOrderCode(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("FS-%d-%s", now.UnixMilli(), suffix)
}
