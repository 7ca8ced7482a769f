package app

import (
	"context"

	"github.com/minhtg/flashsale/internal/domain/model"
	"github.com/minhtg/flashsale/internal/usecase"
)

// FlashSaleFacade is the single entry point for transport and worker layers.
type FlashSaleFacade struct {
	purchases *usecase.PurchaseUseCase
	sales     *usecase.SaleUseCase
	expiry    *usecase.ExpiryUseCase
}

func NewFlashSaleFacade(purchases *usecase.PurchaseUseCase, sales *usecase.SaleUseCase, expiry *usecase.ExpiryUseCase) *FlashSaleFacade {
	return &FlashSaleFacade{purchases: purchases, sales: sales, expiry: expiry}
}

func (f *FlashSaleFacade) Purchase(ctx context.Context, in usecase.PurchaseInput) (*model.PurchaseResult, error) {
	return f.purchases.Purchase(ctx, in)
}

func (f *FlashSaleFacade) ConfirmPayment(ctx context.Context, orderID int64, method string) (*model.Order, error) {
	return f.purchases.ConfirmPayment(ctx, orderID, method)
}

func (f *FlashSaleFacade) CancelOrder(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	return f.purchases.CancelOrder(ctx, orderID, userID)
}

func (f *FlashSaleFacade) CreateSale(ctx context.Context, in usecase.CreateSaleInput) (*model.Sale, error) {
	return f.sales.Create(ctx, in)
}

func (f *FlashSaleFacade) UpdateSale(ctx context.Context, id int64, in usecase.UpdateSaleInput) (*model.Sale, error) {
	return f.sales.Update(ctx, id, in)
}

func (f *FlashSaleFacade) CancelSale(ctx context.Context, id int64) (*model.Sale, error) {
	return f.sales.Cancel(ctx, id)
}

func (f *FlashSaleFacade) SaleDetail(ctx context.Context, id, userID int64) (*usecase.SaleDetail, error) {
	return f.sales.Detail(ctx, id, userID)
}

func (f *FlashSaleFacade) ActiveSales(ctx context.Context) ([]model.Sale, error) {
	return f.sales.Active(ctx)
}

func (f *FlashSaleFacade) FeaturedSales(ctx context.Context) ([]model.Sale, error) {
	return f.sales.Featured(ctx)
}

func (f *FlashSaleFacade) UpcomingSales(ctx context.Context) ([]model.Sale, error) {
	return f.sales.Upcoming(ctx)
}

func (f *FlashSaleFacade) MyOrders(ctx context.Context, userID, saleID int64) ([]model.Order, error) {
	return f.sales.MyOrders(ctx, userID, saleID)
}

func (f *FlashSaleFacade) AllMyOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.sales.AllMyOrders(ctx, userID)
}

func (f *FlashSaleFacade) OrderDetail(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	return f.sales.OrderDetail(ctx, orderID, userID)
}

func (f *FlashSaleFacade) ActivateDueSales(ctx context.Context) (int, error) {
	return f.sales.ActivateDue(ctx)
}

func (f *FlashSaleFacade) EndDueSales(ctx context.Context) (int, error) {
	return f.sales.EndDue(ctx)
}

func (f *FlashSaleFacade) ReclaimExpiredReservations(ctx context.Context) (int, error) {
	return f.expiry.ReclaimExpiredReservations(ctx)
}

func (f *FlashSaleFacade) ExpirePendingOrders(ctx context.Context) (int, error) {
	return f.expiry.ExpirePendingOrders(ctx)
}
