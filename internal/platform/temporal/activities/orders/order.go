package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

// SubmitOrderActivityName runs the full order dispatch pipeline.
const SubmitOrderActivityName = "orders.activities.SubmitOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ports.Service
}

// NewActivities wires the order service into the Temporal activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// SubmitOrder persists, stages, and transfers an order, returning its final
// state. The service's own pipeline handles the status transitions; the
// activity only adds durable retry semantics around it.
func (a *Activities) SubmitOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order submit activity not initialized")
		return nil, errors.New("order submit activity not initialized")
	}
	logger.Info("SubmitOrder activity started", "externalId", order.ExternalID)
	saved, err := a.service.Save(ctx, order)
	if err != nil {
		logger.Error("SubmitOrder activity failed", "externalId", order.ExternalID, "error", err)
		return saved, err
	}
	logger.Info("SubmitOrder activity completed", "orderCode", saved.OrderCode, "status", saved.Status)
	return saved, nil
}
