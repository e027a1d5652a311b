package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateFacility = errors.New("facility already has transfer properties")
)

// SearchParams is the conjunctive filter the repository applies when
// searching orders. Nil fields impose no constraint; statuses match by set
// membership.
type SearchParams struct {
	SupplyingFacilityID  *uuid.UUID
	RequestingFacilityID *uuid.UUID
	ProgramID            *uuid.UUID
	ProcessingPeriodID   *uuid.UUID
	Statuses             []domain.OrderStatus
}

// OrderRepository persists the order aggregate including its line items.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Order, error)
	Search(ctx context.Context, params SearchParams) ([]*domain.Order, error)
}

// ProofOfDeliveryRepository persists proofs of delivery. FindByOrderID
// returns nil (not an error) when no proof exists for the order.
type ProofOfDeliveryRepository interface {
	Save(ctx context.Context, pod *domain.ProofOfDelivery) (*domain.ProofOfDelivery, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProofOfDelivery, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.ProofOfDelivery, error)
}

// TransferPropertiesRepository persists per-facility transfer configuration.
// FindByFacilityID returns nil when the facility has none configured.
type TransferPropertiesRepository interface {
	Save(ctx context.Context, props *domain.TransferProperties) (*domain.TransferProperties, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TransferProperties, error)
	FindByFacilityID(ctx context.Context, facilityID uuid.UUID) (*domain.TransferProperties, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderFileTemplateRepository holds the single order file template. Get
// reports ErrNotFound when no template has been stored yet.
type OrderFileTemplateRepository interface {
	Get(ctx context.Context) (*domain.OrderFileTemplate, error)
	Save(ctx context.Context, template *domain.OrderFileTemplate) (*domain.OrderFileTemplate, error)
}
