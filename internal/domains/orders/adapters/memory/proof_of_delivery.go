package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.ProofOfDeliveryRepository = (*ProofOfDeliveryRepository)(nil)

// ProofOfDeliveryRepository is an in-memory proof-of-delivery store.
type ProofOfDeliveryRepository struct {
	mu   sync.RWMutex
	pods map[uuid.UUID]*domain.ProofOfDelivery
}

func NewProofOfDeliveryRepository() *ProofOfDeliveryRepository {
	return &ProofOfDeliveryRepository{pods: map[uuid.UUID]*domain.ProofOfDelivery{}}
}

func clonePod(pod *domain.ProofOfDelivery) *domain.ProofOfDelivery {
	clone := *pod
	clone.LineItems = make([]domain.ProofOfDeliveryLineItem, len(pod.LineItems))
	copy(clone.LineItems, pod.LineItems)
	return &clone
}

func (r *ProofOfDeliveryRepository) Save(_ context.Context, pod *domain.ProofOfDelivery) (*domain.ProofOfDelivery, error) {
	if pod == nil {
		return nil, errors.New("proof of delivery is nil")
	}
	clone := clonePod(pod)
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
		clone.LineItems[i].ProofOfDeliveryID = clone.ID
	}
	r.pods[clone.ID] = clone
	return clonePod(clone), nil
}

func (r *ProofOfDeliveryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.ProofOfDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pod, ok := r.pods[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clonePod(pod), nil
}

func (r *ProofOfDeliveryRepository) FindByOrderID(_ context.Context, orderID uuid.UUID) (*domain.ProofOfDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pod := range r.pods {
		if pod.OrderID == orderID {
			return clonePod(pod), nil
		}
	}
	return nil, nil
}
