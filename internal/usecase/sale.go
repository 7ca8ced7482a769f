package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/minhtg/flashsale/internal/clock"
	"github.com/minhtg/flashsale/internal/domain/model"
	"github.com/minhtg/flashsale/internal/domain/repository"
)

// SaleUseCase manages sale administration, read queries and the time-window
// lifecycle sweep.
type SaleUseCase struct {
	repos   repository.Repositories
	uow     repository.UnitOfWork
	clock   clock.Clock
	catalog CatalogProvider
	cache   SaleCache
	logger  *slog.Logger

	sweepBatch int
}

// NewSaleUseCase constructs SaleUseCase.
func NewSaleUseCase(repos repository.Repositories, uow repository.UnitOfWork, clk clock.Clock,
	catalog CatalogProvider, cache SaleCache, sweepBatch int, logger *slog.Logger) *SaleUseCase {
	return &SaleUseCase{
		repos:      repos,
		uow:        uow,
		clock:      clk,
		catalog:    catalog,
		cache:      cache,
		logger:     logger,
		sweepBatch: sweepBatch,
	}
}

var (
	errFlashPriceTooHigh  = errors.New("flash price must be below original price")
	errInvalidTimeWindow  = errors.New("end time must be after start time")
	errQuantityBelowSold  = errors.New("total quantity cannot drop below sold quantity")
	errSaleNotEditable    = errors.New("sale in terminal state cannot be changed")
	errStartTimeImmutable = errors.New("start time is only editable while scheduled")
)

// CreateSaleInput carries the admin request to schedule a sale. Display
// fields and the original price come from the catalog item.
type CreateSaleInput struct {
	FabricID      int64
	Name          string
	Description   string
	FlashPrice    float64
	TotalQuantity float64
	MaxPerUser    float64
	MinPurchase   float64
	StartTime     time.Time
	EndTime       time.Time
	Priority      int
	IsFeatured    bool
}

// Create schedules a new sale against a catalog item.
func (u *SaleUseCase) Create(ctx context.Context, in CreateSaleInput) (*model.Sale, error) {
	item, err := u.catalog.GetSellableItem(ctx, in.FabricID)
	if err != nil {
		return nil, fmt.Errorf("fetch sellable item %d: %w", in.FabricID, err)
	}

	start := in.StartTime.UTC()
	end := in.EndTime.UTC()
	if !end.After(start) {
		return nil, errInvalidTimeWindow
	}
	if in.FlashPrice >= item.BasePrice {
		return nil, errFlashPriceTooHigh
	}

	sale := &model.Sale{
		FabricID:      item.ID,
		FabricName:    item.Name,
		FabricImage:   item.Image,
		Name:          in.Name,
		Description:   in.Description,
		OriginalPrice: item.BasePrice,
		FlashPrice:    in.FlashPrice,
		TotalQuantity: in.TotalQuantity,
		MaxPerUser:    in.MaxPerUser,
		MinPurchase:   in.MinPurchase,
		StartTime:     start,
		EndTime:       end,
		Status:        model.SaleStatusScheduled,
		Priority:      in.Priority,
		IsFeatured:    in.IsFeatured,
	}
	if sale.MaxPerUser <= 0 {
		sale.MaxPerUser = 5
	}
	if sale.MinPurchase <= 0 {
		sale.MinPurchase = 0.5
	}

	created, err := u.repos.Sales().Create(ctx, sale)
	if err != nil {
		return nil, err
	}
	u.logger.Info("sale created", slog.Int64("sale_id", created.ID), slog.String("name", created.Name))
	return created, nil
}

// UpdateSaleInput carries a partial sale update; nil fields are untouched.
type UpdateSaleInput struct {
	Name          *string
	Description   *string
	FlashPrice    *float64
	TotalQuantity *float64
	MaxPerUser    *float64
	MinPurchase   *float64
	StartTime     *time.Time
	EndTime       *time.Time
	Priority      *int
	IsFeatured    *bool
}

// Update edits a non-terminal sale under its row lock.
func (u *SaleUseCase) Update(ctx context.Context, id int64, in UpdateSaleInput) (*model.Sale, error) {
	var (
		updated   *model.Sale
		rejection error
	)
	err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		sale, err := r.Sales().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale.Status.Terminal() {
			rejection = errSaleNotEditable
			return nil
		}
		if in.Name != nil {
			sale.Name = *in.Name
		}
		if in.Description != nil {
			sale.Description = *in.Description
		}
		if in.FlashPrice != nil {
			if *in.FlashPrice >= sale.OriginalPrice {
				rejection = errFlashPriceTooHigh
				return nil
			}
			sale.FlashPrice = *in.FlashPrice
		}
		if in.TotalQuantity != nil {
			if *in.TotalQuantity < sale.SoldQuantity {
				rejection = errQuantityBelowSold
				return nil
			}
			sale.TotalQuantity = *in.TotalQuantity
		}
		if in.MaxPerUser != nil {
			sale.MaxPerUser = *in.MaxPerUser
		}
		if in.MinPurchase != nil {
			sale.MinPurchase = *in.MinPurchase
		}
		if in.StartTime != nil {
			if sale.Status != model.SaleStatusScheduled {
				rejection = errStartTimeImmutable
				return nil
			}
			sale.StartTime = in.StartTime.UTC()
		}
		if in.EndTime != nil {
			sale.EndTime = in.EndTime.UTC()
		}
		if in.Priority != nil {
			sale.Priority = *in.Priority
		}
		if in.IsFeatured != nil {
			sale.IsFeatured = *in.IsFeatured
		}
		if !sale.EndTime.After(sale.StartTime) {
			rejection = errInvalidTimeWindow
			return nil
		}
		if err := r.Sales().Update(ctx, sale); err != nil {
			return err
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		return nil, rejection
	}
	u.cache.Invalidate(ctx, id)
	u.logger.Info("sale updated", slog.Int64("sale_id", id))
	return updated, nil
}

// Cancel moves a non-terminal sale to CANCELLED; pending reservations drain
// through the regular expiry path.
func (u *SaleUseCase) Cancel(ctx context.Context, id int64) (*model.Sale, error) {
	var (
		cancelled *model.Sale
		rejection error
	)
	err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		sale, err := r.Sales().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale.Status.Terminal() {
			rejection = errSaleNotEditable
			return nil
		}
		if err := r.Sales().UpdateStatus(ctx, sale.ID, model.SaleStatusCancelled); err != nil {
			return err
		}
		sale.Status = model.SaleStatusCancelled
		cancelled = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		return nil, rejection
	}
	u.cache.Invalidate(ctx, id)
	u.logger.Info("sale cancelled", slog.Int64("sale_id", id))
	return cancelled, nil
}

// SaleDetail is a sale snapshot enriched with per-user purchase stats.
type SaleDetail struct {
	Sale               model.Sale
	RemainingSeconds   int64
	UserPurchased      float64
	UserRemainingLimit float64
}

// Detail returns one sale with the caller's remaining limit. Pass userID 0
// for an anonymous view.
func (u *SaleUseCase) Detail(ctx context.Context, id, userID int64) (*SaleDetail, error) {
	sale, ok := u.cache.Get(ctx, id)
	if !ok {
		var err error
		sale, err = u.repos.Sales().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		u.cache.Set(ctx, sale)
	}

	detail := &SaleDetail{Sale: *sale, UserRemainingLimit: sale.MaxPerUser}
	now := u.clock.Now()
	switch sale.Status {
	case model.SaleStatusScheduled:
		detail.RemainingSeconds = int64(sale.StartTime.Sub(now).Seconds())
	case model.SaleStatusActive:
		detail.RemainingSeconds = int64(sale.EndTime.Sub(now).Seconds())
	}
	if detail.RemainingSeconds < 0 {
		detail.RemainingSeconds = 0
	}

	if userID != 0 {
		purchased, err := u.repos.Orders().SumQuantityByUserAndSale(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		detail.UserPurchased = purchased
		detail.UserRemainingLimit = sale.MaxPerUser - purchased
	}
	return detail, nil
}

// Active returns currently running sales ordered by priority.
func (u *SaleUseCase) Active(ctx context.Context) ([]model.Sale, error) {
	return u.repos.Sales().ListActive(ctx, u.clock.Now())
}

// Featured returns the currently running featured sales ordered by priority.
func (u *SaleUseCase) Featured(ctx context.Context) ([]model.Sale, error) {
	return u.repos.Sales().ListFeatured(ctx, u.clock.Now())
}

// Upcoming returns scheduled sales ordered by start time.
func (u *SaleUseCase) Upcoming(ctx context.Context) ([]model.Sale, error) {
	return u.repos.Sales().ListUpcoming(ctx, u.clock.Now())
}

// ActivateDue flips scheduled sales whose window has opened to ACTIVE. Each
// row is an independent locked read-modify-write; one failure does not block
// the rest.
func (u *SaleUseCase) ActivateDue(ctx context.Context) (int, error) {
	now := u.clock.Now()
	ids, err := u.repos.Sales().IDsToActivate(ctx, now, u.sweepBatch)
	if err != nil {
		return 0, err
	}

	activated := 0
	for _, id := range ids {
		err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
			sale, err := r.Sales().GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if sale.Status != model.SaleStatusScheduled || now.Before(sale.StartTime) {
				return nil
			}
			next := model.SaleStatusActive
			if !now.Before(sale.EndTime) {
				next = model.SaleStatusEnded
			}
			return r.Sales().UpdateStatus(ctx, sale.ID, next)
		})
		if err != nil {
			u.logger.Error("sale activation failed",
				slog.Int64("sale_id", id), slog.String("error", err.Error()))
			continue
		}
		u.cache.Invalidate(ctx, id)
		activated++
		u.logger.Info("sale activated", slog.Int64("sale_id", id))
	}
	return activated, nil
}

// EndDue flips scheduled or active sales whose window has closed to ENDED.
func (u *SaleUseCase) EndDue(ctx context.Context) (int, error) {
	now := u.clock.Now()
	ids, err := u.repos.Sales().IDsToEnd(ctx, now, u.sweepBatch)
	if err != nil {
		return 0, err
	}

	ended := 0
	for _, id := range ids {
		err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
			sale, err := r.Sales().GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if sale.Status.Terminal() || now.Before(sale.EndTime) {
				return nil
			}
			return r.Sales().UpdateStatus(ctx, sale.ID, model.SaleStatusEnded)
		})
		if err != nil {
			u.logger.Error("sale end failed",
				slog.Int64("sale_id", id), slog.String("error", err.Error()))
			continue
		}
		u.cache.Invalidate(ctx, id)
		ended++
		u.logger.Info("sale ended", slog.Int64("sale_id", id))
	}
	return ended, nil
}

// MyOrders returns the user's orders for one sale, newest first.
func (u *SaleUseCase) MyOrders(ctx context.Context, userID, saleID int64) ([]model.Order, error) {
	return u.repos.Orders().ListByUserAndSale(ctx, userID, saleID)
}

// AllMyOrders returns all flash sale orders of a user, newest first.
func (u *SaleUseCase) AllMyOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.repos.Orders().ListByUser(ctx, userID)
}

// OrderDetail returns one order owned by userID.
func (u *SaleUseCase) OrderDetail(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	order, err := u.repos.Orders().GetByIDAndUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	return order, nil
}
