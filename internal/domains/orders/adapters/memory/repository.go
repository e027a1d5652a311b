package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository is an in-memory order persistence adapter.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: map[uuid.UUID]*domain.Order{}}
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.LineItems = make([]domain.OrderLineItem, len(order.LineItems))
	copy(clone.LineItems, order.LineItems)
	return &clone
}

func (r *OrderRepository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	if err := clone.UpdateStatus(clone.Status); err != nil {
		return nil, err
	}
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	for i := range clone.LineItems {
		if clone.LineItems[i].ID == uuid.Nil {
			clone.LineItems[i].ID = uuid.New()
		}
		clone.LineItems[i].OrderID = clone.ID
	}
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *OrderRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *OrderRepository) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.orders[id]
	return ok, nil
}

func (r *OrderRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *OrderRepository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, cloneOrder(order))
	}
	return list, nil
}

func (r *OrderRepository) Search(_ context.Context, params ports.SearchParams) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if matches(order, params) {
			list = append(list, cloneOrder(order))
		}
	}
	return list, nil
}

func matches(order *domain.Order, params ports.SearchParams) bool {
	if params.SupplyingFacilityID != nil && order.SupplyingFacilityID != *params.SupplyingFacilityID {
		return false
	}
	if params.RequestingFacilityID != nil && order.RequestingFacilityID != *params.RequestingFacilityID {
		return false
	}
	if params.ProgramID != nil && order.ProgramID != *params.ProgramID {
		return false
	}
	if params.ProcessingPeriodID != nil && order.ProcessingPeriodID != *params.ProcessingPeriodID {
		return false
	}
	if len(params.Statuses) > 0 {
		found := false
		for _, status := range params.Statuses {
			if order.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
