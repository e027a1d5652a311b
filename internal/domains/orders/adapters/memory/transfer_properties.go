package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.TransferPropertiesRepository = (*TransferPropertiesRepository)(nil)

// TransferPropertiesRepository is an in-memory transfer-properties store.
// At most one record exists per facility.
type TransferPropertiesRepository struct {
	mu    sync.RWMutex
	props map[uuid.UUID]*domain.TransferProperties
}

func NewTransferPropertiesRepository() *TransferPropertiesRepository {
	return &TransferPropertiesRepository{props: map[uuid.UUID]*domain.TransferProperties{}}
}

func cloneProperties(props *domain.TransferProperties) *domain.TransferProperties {
	clone := *props
	if props.FTP != nil {
		ftp := *props.FTP
		clone.FTP = &ftp
	}
	if props.Local != nil {
		local := *props.Local
		clone.Local = &local
	}
	return &clone
}

func (r *TransferPropertiesRepository) Save(_ context.Context, props *domain.TransferProperties) (*domain.TransferProperties, error) {
	if props == nil {
		return nil, errors.New("transfer properties are nil")
	}
	clone := cloneProperties(props)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.props {
		if existing.FacilityID == clone.FacilityID && existing.ID != clone.ID {
			return nil, ports.ErrDuplicateFacility
		}
	}
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	r.props[clone.ID] = clone
	return cloneProperties(clone), nil
}

func (r *TransferPropertiesRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.TransferProperties, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	props, ok := r.props[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneProperties(props), nil
}

func (r *TransferPropertiesRepository) FindByFacilityID(_ context.Context, facilityID uuid.UUID) (*domain.TransferProperties, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, props := range r.props {
		if props.FacilityID == facilityID {
			return cloneProperties(props), nil
		}
	}
	return nil, nil
}

func (r *TransferPropertiesRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.props[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.props, id)
	return nil
}
