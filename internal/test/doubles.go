package test

import (
	"context"
	"sync"

	domainErrors "github.com/minhtg/flashsale/internal/domain/errors"
	"github.com/minhtg/flashsale/internal/domain/model"
)

// EventRecorder captures published events for assertions.
type EventRecorder struct {
	mu        sync.Mutex
	Purchases []model.PurchaseCompleted
	Statuses  []model.OrderStatusChanged
}

func (r *EventRecorder) PurchaseCompleted(_ context.Context, event model.PurchaseCompleted) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Purchases = append(r.Purchases, event)
}

func (r *EventRecorder) OrderStatusChanged(_ context.Context, event model.OrderStatusChanged) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Statuses = append(r.Statuses, event)
}

// PurchaseEvents returns a copy of recorded purchase events.
func (r *EventRecorder) PurchaseEvents() []model.PurchaseCompleted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.PurchaseCompleted(nil), r.Purchases...)
}

// StatusEvents returns a copy of recorded status change events.
func (r *EventRecorder) StatusEvents() []model.OrderStatusChanged {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.OrderStatusChanged(nil), r.Statuses...)
}

// CacheSpy records sale cache traffic; lookups hit only when Snapshots is
// pre-populated.
type CacheSpy struct {
	mu          sync.Mutex
	Snapshots   map[int64]*model.Sale
	SetCalls    []int64
	Invalidated []int64
}

func NewCacheSpy() *CacheSpy {
	return &CacheSpy{Snapshots: make(map[int64]*model.Sale)}
}

func (c *CacheSpy) Get(_ context.Context, id int64) (*model.Sale, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sale, ok := c.Snapshots[id]
	if !ok {
		return nil, false
	}
	copied := *sale
	return &copied, true
}

func (c *CacheSpy) Set(_ context.Context, sale *model.Sale) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *sale
	c.Snapshots[sale.ID] = &copied
	c.SetCalls = append(c.SetCalls, sale.ID)
}

func (c *CacheSpy) Invalidate(_ context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Snapshots, id)
	c.Invalidated = append(c.Invalidated, id)
}

// InvalidatedIDs returns a copy of recorded invalidations.
func (c *CacheSpy) InvalidatedIDs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.Invalidated...)
}

// CatalogStub serves sellable items from a map.
type CatalogStub struct {
	Items map[int64]*model.SellableItem
	Err   error
}

func (s *CatalogStub) GetSellableItem(_ context.Context, id int64) (*model.SellableItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if item, ok := s.Items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}
