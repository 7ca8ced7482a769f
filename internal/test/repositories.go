package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/minhtg/flashsale/internal/domain/errors"
	"github.com/minhtg/flashsale/internal/domain/model"
	"github.com/minhtg/flashsale/internal/domain/repository"
)

// FakeStore is an in-memory implementation of repository.Repositories and
// repository.UnitOfWork for use-case tests. Transactions are serialized by a
// single mutex and roll back by restoring a snapshot, which models the
// row-locked read-modify-write semantics of the real storage closely enough
// for concurrency tests.
type FakeStore struct {
	mu sync.Mutex

	sales        map[int64]model.Sale
	reservations map[int64]model.Reservation
	orders       map[int64]model.Order

	nextSaleID        int64
	nextReservationID int64
	nextOrderID       int64

	// BeginErr, when set, fails every transaction before fn runs.
	BeginErr error
	// TxHook, when set, runs inside each transaction before fn. Lets tests
	// inject storage failures mid-flight.
	TxHook func() error
}

// NewFakeStore constructs an empty store.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		sales:             make(map[int64]model.Sale),
		reservations:      make(map[int64]model.Reservation),
		orders:            make(map[int64]model.Order),
		nextSaleID:        1,
		nextReservationID: 1,
		nextOrderID:       1,
	}
}

// SeedSale stores a sale, assigning an id when absent, and returns a copy.
func (s *FakeStore) SeedSale(sale model.Sale) model.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sale.ID == 0 {
		sale.ID = s.nextSaleID
		s.nextSaleID++
	} else if sale.ID >= s.nextSaleID {
		s.nextSaleID = sale.ID + 1
	}
	s.sales[sale.ID] = sale
	return sale
}

// SeedReservation stores a reservation, assigning an id when absent.
func (s *FakeStore) SeedReservation(reservation model.Reservation) model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reservation.ID == 0 {
		reservation.ID = s.nextReservationID
		s.nextReservationID++
	} else if reservation.ID >= s.nextReservationID {
		s.nextReservationID = reservation.ID + 1
	}
	s.reservations[reservation.ID] = reservation
	return reservation
}

// SeedOrder stores an order, assigning an id when absent.
func (s *FakeStore) SeedOrder(order model.Order) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == 0 {
		order.ID = s.nextOrderID
		s.nextOrderID++
	} else if order.ID >= s.nextOrderID {
		s.nextOrderID = order.ID + 1
	}
	s.orders[order.ID] = order
	return order
}

// SaleByID returns a stored sale copy for assertions.
func (s *FakeStore) SaleByID(id int64) (model.Sale, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	return sale, ok
}

// ReservationByID returns a stored reservation copy for assertions.
func (s *FakeStore) ReservationByID(id int64) (model.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reservation, ok := s.reservations[id]
	return reservation, ok
}

// OrderByID returns a stored order copy for assertions.
func (s *FakeStore) OrderByID(id int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	return order, ok
}

// Orders returns all stored orders for assertions.
func (s *FakeStore) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.Order, 0, len(s.orders))
	for _, order := range s.orders {
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Reservations returns all stored reservations for assertions.
func (s *FakeStore) Reservations() []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.Reservation, 0, len(s.reservations))
	for _, reservation := range s.reservations {
		result = append(result, reservation)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Repos returns the pool-like repository set taking the store lock per call.
func (s *FakeStore) Repos() repository.Repositories {
	return fakeRepos{store: s}
}

// WithinTransaction serializes the function under the store lock and restores
// the previous state when it returns an error.
func (s *FakeStore) WithinTransaction(_ context.Context, fn func(repository.Repositories) error) error {
	if s.BeginErr != nil {
		return s.BeginErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshotLocked()
	if s.TxHook != nil {
		if err := s.TxHook(); err != nil {
			s.restoreLocked(snapshot)
			return err
		}
	}
	if err := fn(fakeRepos{store: s, inTx: true}); err != nil {
		s.restoreLocked(snapshot)
		return err
	}
	return nil
}

type storeSnapshot struct {
	sales        map[int64]model.Sale
	reservations map[int64]model.Reservation
	orders       map[int64]model.Order

	nextSaleID        int64
	nextReservationID int64
	nextOrderID       int64
}

func (s *FakeStore) snapshotLocked() storeSnapshot {
	snap := storeSnapshot{
		sales:             make(map[int64]model.Sale, len(s.sales)),
		reservations:      make(map[int64]model.Reservation, len(s.reservations)),
		orders:            make(map[int64]model.Order, len(s.orders)),
		nextSaleID:        s.nextSaleID,
		nextReservationID: s.nextReservationID,
		nextOrderID:       s.nextOrderID,
	}
	for id, sale := range s.sales {
		snap.sales[id] = sale
	}
	for id, reservation := range s.reservations {
		snap.reservations[id] = reservation
	}
	for id, order := range s.orders {
		snap.orders[id] = order
	}
	return snap
}

func (s *FakeStore) restoreLocked(snap storeSnapshot) {
	s.sales = snap.sales
	s.reservations = snap.reservations
	s.orders = snap.orders
	s.nextSaleID = snap.nextSaleID
	s.nextReservationID = snap.nextReservationID
	s.nextOrderID = snap.nextOrderID
}

// enter takes the store lock for pool-like access; transaction-scoped repos
// already hold it.
func (s *FakeStore) enter(inTx bool) {
	if !inTx {
		s.mu.Lock()
	}
}

func (s *FakeStore) leave(inTx bool) {
	if !inTx {
		s.mu.Unlock()
	}
}

type fakeRepos struct {
	store *FakeStore
	inTx  bool
}

func (r fakeRepos) Sales() repository.SaleRepository {
	return fakeSaleRepo{store: r.store, inTx: r.inTx}
}

func (r fakeRepos) Reservations() repository.ReservationRepository {
	return fakeReservationRepo{store: r.store, inTx: r.inTx}
}

func (r fakeRepos) Orders() repository.OrderRepository {
	return fakeOrderRepo{store: r.store, inTx: r.inTx}
}

type fakeSaleRepo struct {
	store *FakeStore
	inTx  bool
}

func (r fakeSaleRepo) Create(_ context.Context, sale *model.Sale) (*model.Sale, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	created := *sale
	created.ID = r.store.nextSaleID
	r.store.nextSaleID++
	r.store.sales[created.ID] = created
	return &created, nil
}

func (r fakeSaleRepo) GetByID(_ context.Context, id int64) (*model.Sale, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	sale, ok := r.store.sales[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &sale, nil
}

func (r fakeSaleRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r fakeSaleRepo) Update(_ context.Context, sale *model.Sale) error {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	if _, ok := r.store.sales[sale.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	r.store.sales[sale.ID] = *sale
	return nil
}

func (r fakeSaleRepo) UpdateStatus(_ context.Context, id int64, status model.SaleStatus) error {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	sale, ok := r.store.sales[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	sale.Status = status
	r.store.sales[id] = sale
	return nil
}

func (r fakeSaleRepo) ListActive(_ context.Context, now time.Time) ([]model.Sale, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	var result []model.Sale
	for _, sale := range r.store.sales {
		if sale.Status == model.SaleStatusActive && !sale.StartTime.After(now) && sale.EndTime.After(now) {
			result = append(result, sale)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority > result[j].Priority
		}
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (r fakeSaleRepo) ListFeatured(_ context.Context, now time.Time) ([]model.Sale, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	var result []model.Sale
	for _, sale := range r.store.sales {
		if sale.IsFeatured && sale.Status == model.SaleStatusActive &&
			!sale.StartTime.After(now) && sale.EndTime.After(now) {
			result = append(result, sale)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority > result[j].Priority
		}
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (r fakeSaleRepo) ListUpcoming(_ context.Context, now time.Time) ([]model.Sale, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	var result []model.Sale
	for _, sale := range r.store.sales {
		if sale.Status == model.SaleStatusScheduled && sale.StartTime.After(now) {
			result = append(result, sale)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (r fakeSaleRepo) IDsToActivate(_ context.Context, now time.Time, limit int) ([]int64, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	var candidates []model.Sale
	for _, sale := range r.store.sales {
		if sale.Status == model.SaleStatusScheduled && !sale.StartTime.After(now) {
			candidates = append(candidates, sale)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].StartTime.Before(candidates[j].StartTime) })
	return saleIDs(candidates, limit), nil
}

func (r fakeSaleRepo) IDsToEnd(_ context.Context, now time.Time, limit int) ([]int64, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	var candidates []model.Sale
	for _, sale := range r.store.sales {
		eligible := sale.Status == model.SaleStatusScheduled || sale.Status == model.SaleStatusActive
		if eligible && !sale.EndTime.After(now) {
			candidates = append(candidates, sale)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].EndTime.Before(candidates[j].EndTime) })
	return saleIDs(candidates, limit), nil
}

func saleIDs(sales []model.Sale, limit int) []int64 {
	ids := make([]int64, 0, len(sales))
	for _, sale := range sales {
		if limit > 0 && len(ids) >= limit {
			break
		}
		ids = append(ids, sale.ID)
	}
	return ids
}

type fakeReservationRepo struct {
	store *FakeStore
	inTx  bool
}

func (r fakeReservationRepo) Create(_ context.Context, reservation *model.Reservation) (*model.Reservation, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	created := *reservation
	created.ID = r.store.nextReservationID
	r.store.nextReservationID++
	r.store.reservations[created.ID] = created
	return &created, nil
}

func (r fakeReservationRepo) GetByID(_ context.Context, id int64) (*model.Reservation, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	reservation, ok := r.store.reservations[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &reservation, nil
}

func (r fakeReservationRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r fakeReservationRepo) MarkConverted(_ context.Context, id int64, at time.Time) error {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	reservation, ok := r.store.reservations[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	reservation.Status = model.ReservationStatusConverted
	converted := at
	reservation.ConvertedAt = &converted
	r.store.reservations[id] = reservation
	return nil
}

func (r fakeReservationRepo) MarkCancelled(_ context.Context, id int64) error {
	return r.setStatus(id, model.ReservationStatusCancelled)
}

func (r fakeReservationRepo) MarkExpired(_ context.Context, id int64) error {
	return r.setStatus(id, model.ReservationStatusExpired)
}

func (r fakeReservationRepo) setStatus(id int64, status model.ReservationStatus) error {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	reservation, ok := r.store.reservations[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	reservation.Status = status
	r.store.reservations[id] = reservation
	return nil
}

func (r fakeReservationRepo) ExpiredCandidates(_ context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	var result []model.Reservation
	for _, reservation := range r.store.reservations {
		if reservation.Status == model.ReservationStatusActive && !reservation.ExpiresAt.After(now) {
			result = append(result, reservation)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ExpiresAt.Before(result[j].ExpiresAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type fakeOrderRepo struct {
	store *FakeStore
	inTx  bool
}

func (r fakeOrderRepo) Create(_ context.Context, order *model.Order) (*model.Order, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	created := *order
	created.ID = r.store.nextOrderID
	r.store.nextOrderID++
	r.store.orders[created.ID] = created
	return &created, nil
}

func (r fakeOrderRepo) GetByID(_ context.Context, id int64) (*model.Order, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	order, ok := r.store.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &order, nil
}

func (r fakeOrderRepo) GetByIDAndUser(_ context.Context, id, userID int64) (*model.Order, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	order, ok := r.store.orders[id]
	if !ok || order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return &order, nil
}

func (r fakeOrderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	return r.GetByID(ctx, id)
}

func (r fakeOrderRepo) MarkPaid(_ context.Context, id int64, method string, at time.Time) error {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	order, ok := r.store.orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.Status = model.OrderStatusPaid
	order.PaymentMethod = method
	paid := at
	order.PaidAt = &paid
	r.store.orders[id] = order
	return nil
}

func (r fakeOrderRepo) MarkCancelled(_ context.Context, id int64) error {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	order, ok := r.store.orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.Status = model.OrderStatusCancelled
	r.store.orders[id] = order
	return nil
}

func (r fakeOrderRepo) ExpirePending(_ context.Context, now time.Time) ([]int64, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	var ids []int64
	for id, order := range r.store.orders {
		if order.Status == model.OrderStatusPending && !order.PaymentDeadline.After(now) {
			order.Status = model.OrderStatusExpired
			r.store.orders[id] = order
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r fakeOrderRepo) SumQuantityByUserAndSale(_ context.Context, userID, saleID int64) (float64, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	var sum float64
	for _, order := range r.store.orders {
		if order.UserID != userID || order.SaleID != saleID {
			continue
		}
		if order.Status == model.OrderStatusCancelled || order.Status == model.OrderStatusExpired {
			continue
		}
		sum += order.Quantity
	}
	return sum, nil
}

func (r fakeOrderRepo) ListByUserAndSale(_ context.Context, userID, saleID int64) ([]model.Order, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	var result []model.Order
	for _, order := range r.store.orders {
		if order.UserID == userID && order.SaleID == saleID {
			result = append(result, order)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r fakeOrderRepo) ListByUser(_ context.Context, userID int64) ([]model.Order, error) {
	r.store.enter(r.inTx)
	defer r.store.leave(r.inTx)
	var result []model.Order
	for _, order := range r.store.orders {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}
