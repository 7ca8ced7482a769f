package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minhtg/flashsale/internal/clock"
	domainErrors "github.com/minhtg/flashsale/internal/domain/errors"
	"github.com/minhtg/flashsale/internal/domain/model"
	testhelpers "github.com/minhtg/flashsale/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func activeSale(now time.Time, total float64) model.Sale {
	return model.Sale{
		FabricID:      7,
		FabricName:    "linen",
		Name:          "summer linen",
		OriginalPrice: 20,
		FlashPrice:    12,
		TotalQuantity: total,
		MaxPerUser:    5,
		MinPurchase:   0.5,
		StartTime:     now.Add(-time.Hour),
		EndTime:       now.Add(time.Hour),
		Status:        model.SaleStatusActive,
	}
}

type purchaseFixture struct {
	store  *testhelpers.FakeStore
	clock  *clock.Fixed
	events *testhelpers.EventRecorder
	cache  *testhelpers.CacheSpy
	uc     *PurchaseUseCase
}

func newPurchaseFixture() *purchaseFixture {
	store := testhelpers.NewFakeStore()
	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	events := &testhelpers.EventRecorder{}
	cache := testhelpers.NewCacheSpy()
	uc := NewPurchaseUseCase(store, clk, events, cache, 10*time.Minute, 10*time.Minute, discardLogger())
	return &purchaseFixture{store: store, clock: clk, events: events, cache: cache, uc: uc}
}

func TestPurchaseCreatesReservationAndOrder(t *testing.T) {
	f := newPurchaseFixture()
	now := f.clock.Now()
	sale := f.store.SeedSale(activeSale(now, 100))
	note := testhelpers.RandomASCIIString(8, 16)

	result, err := f.uc.Purchase(context.Background(), PurchaseInput{
		SaleID:          sale.ID,
		UserID:          42,
		Quantity:        2,
		ShippingName:    "An Nguyen",
		ShippingAddress: "12 Hang Gai",
		CustomerNote:    note,
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}

	if !strings.HasPrefix(result.OrderCode, "FS-") {
		t.Fatalf("unexpected order code %q", result.OrderCode)
	}
	if result.TotalAmount != 24 {
		t.Fatalf("expected total 24, got %v", result.TotalAmount)
	}
	if result.SavedAmount != 16 {
		t.Fatalf("expected saved amount 16, got %v", result.SavedAmount)
	}
	if result.RemainingStock != 98 {
		t.Fatalf("expected remaining stock 98, got %v", result.RemainingStock)
	}
	if result.UserRemainingLimit != 3 {
		t.Fatalf("expected user remaining limit 3, got %v", result.UserRemainingLimit)
	}
	if !result.PaymentDeadline.Equal(now.Add(10 * time.Minute)) {
		t.Fatalf("unexpected payment deadline %v", result.PaymentDeadline)
	}

	stored, _ := f.store.SaleByID(sale.ID)
	if stored.ReservedQuantity != 2 {
		t.Fatalf("expected reserved 2, got %v", stored.ReservedQuantity)
	}
	reservation, ok := f.store.ReservationByID(result.ReservationID)
	if !ok || reservation.Status != model.ReservationStatusActive {
		t.Fatalf("expected active reservation, got %+v", reservation)
	}
	if !reservation.ExpiresAt.Equal(now.Add(10 * time.Minute)) {
		t.Fatalf("unexpected reservation expiry %v", reservation.ExpiresAt)
	}
	order, ok := f.store.OrderByID(result.OrderID)
	if !ok || order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending order, got %+v", order)
	}
	if order.ShippingName != "An Nguyen" {
		t.Fatalf("expected shipping name recorded, got %q", order.ShippingName)
	}
	if order.CustomerNote != note {
		t.Fatalf("expected customer note recorded, got %q", order.CustomerNote)
	}

	if got := f.events.PurchaseEvents(); len(got) != 1 || got[0].OrderID != result.OrderID {
		t.Fatalf("expected one purchase event for the order, got %+v", got)
	}
	if got := f.cache.InvalidatedIDs(); len(got) != 1 || got[0] != sale.ID {
		t.Fatalf("expected cache invalidation for sale, got %v", got)
	}
}

func TestPurchaseRejectsBeforeStart(t *testing.T) {
	f := newPurchaseFixture()
	now := f.clock.Now()
	sale := activeSale(now, 100)
	sale.Status = model.SaleStatusScheduled
	sale.StartTime = now.Add(30 * time.Minute)
	seeded := f.store.SeedSale(sale)

	_, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: seeded.ID, UserID: 1, Quantity: 1})

	var notActive *domainErrors.NotActiveError
	if !errors.As(err, &notActive) {
		t.Fatalf("expected NotActiveError, got %v", err)
	}
	if notActive.RemainingSeconds != 1800 {
		t.Fatalf("expected 1800 seconds until start, got %d", notActive.RemainingSeconds)
	}
	if len(f.store.Orders()) != 0 || len(f.store.Reservations()) != 0 {
		t.Fatal("expected no rows written on rejection")
	}
}

func TestPurchasePastEndFlipsSaleToEnded(t *testing.T) {
	f := newPurchaseFixture()
	now := f.clock.Now()
	sale := activeSale(now, 100)
	sale.EndTime = now.Add(-time.Minute)
	seeded := f.store.SeedSale(sale)

	_, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: seeded.ID, UserID: 1, Quantity: 1})

	var notActive *domainErrors.NotActiveError
	if !errors.As(err, &notActive) || notActive.Reason != "ended" {
		t.Fatalf("expected ended rejection, got %v", err)
	}
	stored, _ := f.store.SaleByID(seeded.ID)
	if stored.Status != model.SaleStatusEnded {
		t.Fatalf("expected sale flipped to ENDED, got %s", stored.Status)
	}
	if got := f.cache.InvalidatedIDs(); len(got) != 1 {
		t.Fatalf("expected cache invalidation after status flip, got %v", got)
	}
}

func TestPurchaseBelowMinimum(t *testing.T) {
	f := newPurchaseFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 100))

	_, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 1, Quantity: 0.2})

	var belowMin *domainErrors.BelowMinimumError
	if !errors.As(err, &belowMin) || belowMin.Minimum != 0.5 {
		t.Fatalf("expected BelowMinimumError with minimum 0.5, got %v", err)
	}
	if len(f.store.Reservations()) != 0 {
		t.Fatal("expected no reservation on rejection")
	}
}

func TestPurchaseExhaustedStockFlipsSoldOut(t *testing.T) {
	f := newPurchaseFixture()
	sale := activeSale(f.clock.Now(), 10)
	sale.SoldQuantity = 10
	seeded := f.store.SeedSale(sale)

	_, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: seeded.ID, UserID: 1, Quantity: 1})

	var oos *domainErrors.OutOfStockError
	if !errors.As(err, &oos) || oos.Available != 0 {
		t.Fatalf("expected OutOfStockError with zero available, got %v", err)
	}
	stored, _ := f.store.SaleByID(seeded.ID)
	if stored.Status != model.SaleStatusSoldOut {
		t.Fatalf("expected SOLD_OUT, got %s", stored.Status)
	}
}

func TestPurchasePartialStockKeepsSaleActive(t *testing.T) {
	f := newPurchaseFixture()
	sale := activeSale(f.clock.Now(), 10)
	sale.SoldQuantity = 9
	seeded := f.store.SeedSale(sale)

	_, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: seeded.ID, UserID: 1, Quantity: 2})

	var oos *domainErrors.OutOfStockError
	if !errors.As(err, &oos) || oos.Available != 1 {
		t.Fatalf("expected OutOfStockError with 1 available, got %v", err)
	}
	stored, _ := f.store.SaleByID(seeded.ID)
	if stored.Status != model.SaleStatusActive {
		t.Fatalf("expected sale to stay ACTIVE, got %s", stored.Status)
	}
}

func TestPurchaseEnforcesPerUserLimit(t *testing.T) {
	f := newPurchaseFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 100))
	f.store.SeedOrder(model.Order{
		SaleID:   sale.ID,
		UserID:   42,
		Quantity: 4,
		Status:   model.OrderStatusPaid,
	})

	_, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 2})

	var limit *domainErrors.LimitExceededError
	if !errors.As(err, &limit) {
		t.Fatalf("expected LimitExceededError, got %v", err)
	}
	if limit.Remaining != 1 || limit.Max != 5 {
		t.Fatalf("expected remaining 1 of max 5, got %+v", limit)
	}
}

func TestPurchaseCancelledOrdersRestoreLimit(t *testing.T) {
	f := newPurchaseFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 100))
	f.store.SeedOrder(model.Order{SaleID: sale.ID, UserID: 42, Quantity: 4, Status: model.OrderStatusCancelled})
	f.store.SeedOrder(model.Order{SaleID: sale.ID, UserID: 42, Quantity: 4, Status: model.OrderStatusExpired})

	if _, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 5}); err != nil {
		t.Fatalf("expected cancelled and expired orders to free the limit, got %v", err)
	}
}

func TestPurchaseMissingSale(t *testing.T) {
	f := newPurchaseFixture()

	_, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: 404, UserID: 1, Quantity: 1})
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPurchaseConcurrentNeverOversells(t *testing.T) {
	f := newPurchaseFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 50))

	const attempts = 60
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		accepted   int
		outOfStock int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: userID, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case domainErrors.IsRejection(err):
				outOfStock++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	if accepted != 50 {
		t.Fatalf("expected exactly 50 accepted purchases, got %d", accepted)
	}
	if outOfStock != 10 {
		t.Fatalf("expected 10 out-of-stock rejections, got %d", outOfStock)
	}
	stored, _ := f.store.SaleByID(sale.ID)
	if stored.ReservedQuantity != 50 {
		t.Fatalf("expected reserved 50, got %v", stored.ReservedQuantity)
	}
	if stored.SoldQuantity+stored.ReservedQuantity > stored.TotalQuantity {
		t.Fatalf("oversold: sold %v reserved %v of %v",
			stored.SoldQuantity, stored.ReservedQuantity, stored.TotalQuantity)
	}
	if got := len(f.store.Orders()); got != 50 {
		t.Fatalf("expected 50 orders, got %d", got)
	}
}

func TestConfirmPaymentMovesReservedToSold(t *testing.T) {
	f := newPurchaseFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 100))
	result, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 2})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}

	order, err := f.uc.ConfirmPayment(context.Background(), result.OrderID, "bank_transfer")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if order.Status != model.OrderStatusPaid || order.PaymentMethod != "bank_transfer" {
		t.Fatalf("expected paid order, got %+v", order)
	}
	if order.PaidAt == nil {
		t.Fatal("expected paid timestamp")
	}

	stored, _ := f.store.SaleByID(sale.ID)
	if stored.ReservedQuantity != 0 || stored.SoldQuantity != 2 {
		t.Fatalf("expected reserved 0 sold 2, got reserved %v sold %v",
			stored.ReservedQuantity, stored.SoldQuantity)
	}
	reservation, _ := f.store.ReservationByID(result.ReservationID)
	if reservation.Status != model.ReservationStatusConverted || reservation.ConvertedAt == nil {
		t.Fatalf("expected converted reservation, got %+v", reservation)
	}
	statuses := f.events.StatusEvents()
	if len(statuses) != 1 || statuses[0].NewStatus != model.OrderStatusPaid {
		t.Fatalf("expected one paid status event, got %+v", statuses)
	}
}

func TestConfirmPaymentIdempotentOnPaidOrder(t *testing.T) {
	f := newPurchaseFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 100))
	result, _ := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 2})

	if _, err := f.uc.ConfirmPayment(context.Background(), result.OrderID, "bank_transfer"); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	again, err := f.uc.ConfirmPayment(context.Background(), result.OrderID, "bank_transfer")
	if err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}
	if again.Status != model.OrderStatusPaid {
		t.Fatalf("expected paid order, got %s", again.Status)
	}

	stored, _ := f.store.SaleByID(sale.ID)
	if stored.SoldQuantity != 2 {
		t.Fatalf("expected counters untouched by repeat confirm, got sold %v", stored.SoldQuantity)
	}
	if got := len(f.events.StatusEvents()); got != 1 {
		t.Fatalf("expected a single status event, got %d", got)
	}
}

func TestConfirmPaymentPastDeadline(t *testing.T) {
	f := newPurchaseFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 100))
	result, _ := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 1})

	f.clock.Advance(11 * time.Minute)

	_, err := f.uc.ConfirmPayment(context.Background(), result.OrderID, "bank_transfer")
	if !errors.Is(err, domainErrors.ErrOrderExpired) {
		t.Fatalf("expected ErrOrderExpired, got %v", err)
	}
}

func TestConfirmPaymentRejectsCancelledOrder(t *testing.T) {
	f := newPurchaseFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 100))
	result, _ := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 1})
	if _, err := f.uc.CancelOrder(context.Background(), result.OrderID, 42); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	_, err := f.uc.ConfirmPayment(context.Background(), result.OrderID, "bank_transfer")
	if !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestCancelOrderReleasesReservedQuantity(t *testing.T) {
	f := newPurchaseFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 100))
	result, _ := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 3})

	order, err := f.uc.CancelOrder(context.Background(), result.OrderID, 42)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if order.Status != model.OrderStatusCancelled {
		t.Fatalf("expected cancelled order, got %s", order.Status)
	}

	stored, _ := f.store.SaleByID(sale.ID)
	if stored.ReservedQuantity != 0 {
		t.Fatalf("expected reserved quantity released, got %v", stored.ReservedQuantity)
	}
	reservation, _ := f.store.ReservationByID(result.ReservationID)
	if reservation.Status != model.ReservationStatusCancelled {
		t.Fatalf("expected cancelled reservation, got %s", reservation.Status)
	}

	// The freed quantity is purchasable again, including by the same user.
	if _, err := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 5}); err != nil {
		t.Fatalf("expected repurchase after cancel, got %v", err)
	}
}

func TestCancelOrderWrongUser(t *testing.T) {
	f := newPurchaseFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 100))
	result, _ := f.uc.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 1})

	_, err := f.uc.CancelOrder(context.Background(), result.OrderID, 43)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's order, got %v", err)
	}
}

// shortHoldFixture wires purchase and expiry use cases over one store with a
// reservation hold much shorter than the payment window, so a hold can be
// reclaimed while its order is still awaiting payment.
type shortHoldFixture struct {
	store     *testhelpers.FakeStore
	clock     *clock.Fixed
	purchases *PurchaseUseCase
	expiry    *ExpiryUseCase
}

func newShortHoldFixture() *shortHoldFixture {
	store := testhelpers.NewFakeStore()
	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	events := &testhelpers.EventRecorder{}
	cache := testhelpers.NewCacheSpy()
	return &shortHoldFixture{
		store:     store,
		clock:     clk,
		purchases: NewPurchaseUseCase(store, clk, events, cache, time.Minute, time.Hour, discardLogger()),
		expiry:    NewExpiryUseCase(store.Repos(), store, clk, events, cache, 100, discardLogger()),
	}
}

func TestConfirmPaymentAfterReservationReclaimed(t *testing.T) {
	f := newShortHoldFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 5))

	first, err := f.purchases.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 5})
	if err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}

	f.clock.Advance(2 * time.Minute)
	if n, err := f.expiry.ReclaimExpiredReservations(context.Background()); err != nil || n != 1 {
		t.Fatalf("expected 1 reclaimed reservation, got %d (%v)", n, err)
	}

	// The freed stock goes to another buyer before the first order pays.
	second, err := f.purchases.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 43, Quantity: 5})
	if err != nil {
		t.Fatalf("second purchase failed: %v", err)
	}

	if _, err := f.purchases.ConfirmPayment(context.Background(), first.OrderID, "bank_transfer"); !errors.Is(err, domainErrors.ErrOrderExpired) {
		t.Fatalf("expected ErrOrderExpired for reclaimed hold, got %v", err)
	}
	if _, err := f.purchases.ConfirmPayment(context.Background(), second.OrderID, "bank_transfer"); err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}

	stored, _ := f.store.SaleByID(sale.ID)
	if stored.SoldQuantity+stored.ReservedQuantity > stored.TotalQuantity {
		t.Fatalf("sold %v + reserved %v exceeds total %v",
			stored.SoldQuantity, stored.ReservedQuantity, stored.TotalQuantity)
	}
	if stored.SoldQuantity != 5 || stored.ReservedQuantity != 0 {
		t.Fatalf("expected sold 5 reserved 0, got sold %v reserved %v",
			stored.SoldQuantity, stored.ReservedQuantity)
	}

	// The rejected order stays pending for the order expiry sweep.
	order, _ := f.store.OrderByID(first.OrderID)
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
}

func TestCancelOrderAfterReservationReclaimed(t *testing.T) {
	f := newShortHoldFixture()
	sale := f.store.SeedSale(activeSale(f.clock.Now(), 100))

	first, err := f.purchases.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 42, Quantity: 3})
	if err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}

	f.clock.Advance(2 * time.Minute)
	if n, err := f.expiry.ReclaimExpiredReservations(context.Background()); err != nil || n != 1 {
		t.Fatalf("expected 1 reclaimed reservation, got %d (%v)", n, err)
	}

	// Another buyer's hold is active when the stale order is cancelled.
	if _, err := f.purchases.Purchase(context.Background(), PurchaseInput{SaleID: sale.ID, UserID: 43, Quantity: 2}); err != nil {
		t.Fatalf("second purchase failed: %v", err)
	}

	order, err := f.purchases.CancelOrder(context.Background(), first.OrderID, 42)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if order.Status != model.OrderStatusCancelled {
		t.Fatalf("expected cancelled order, got %s", order.Status)
	}

	// The reclaimed hold gave its quantity back already; cancelling must not
	// release it again on top of the second buyer's active hold.
	stored, _ := f.store.SaleByID(sale.ID)
	if stored.ReservedQuantity != 2 {
		t.Fatalf("expected reserved 2, got %v", stored.ReservedQuantity)
	}
	reservation, _ := f.store.ReservationByID(first.ReservationID)
	if reservation.Status != model.ReservationStatusExpired {
		t.Fatalf("expected reservation to stay expired, got %s", reservation.Status)
	}
}

func TestOrderCodeFormat(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	code := newOrderCode(now)
	parts := strings.Split(code, "-")
	if len(parts) != 3 || parts[0] != "FS" {
		t.Fatalf("unexpected code %q", code)
	}
	if len(parts[2]) != 6 || parts[2] != strings.ToUpper(parts[2]) {
		t.Fatalf("expected six uppercase suffix characters, got %q", parts[2])
	}
}
