package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
)

// SearchQuery carries raw search input from the transport layer. Statuses
// are unparsed strings; the service validates them before touching the
// repository.
type SearchQuery struct {
	SupplyingFacilityID  *uuid.UUID
	RequestingFacilityID *uuid.UUID
	ProgramID            *uuid.UUID
	ProcessingPeriodID   *uuid.UUID
	Statuses             []string
}

// Service exposes the order lifecycle use cases to adapters.
type Service interface {
	// Save runs the full dispatch pipeline: number generation, persistence,
	// staging, outbound transfer, status transition and notification.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query SearchQuery) ([]*domain.Order, error)
	// Finalize moves an ORDERED order into the downstream SHIPPED state.
	Finalize(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// Retry re-runs the transfer for a TRANSFER_FAILED order and reports the
	// send outcome.
	Retry(ctx context.Context, id uuid.UUID) (bool, error)
}

// WorkflowOrchestrator submits order creation, either durably via a workflow
// engine or inline against the service.
type WorkflowOrchestrator interface {
	SubmitOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}
