package orders

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	orderactivities "github.com/openlmis/fulfillment/internal/platform/temporal/activities/orders"
)

// OrderSubmissionTaskQueue hosts order submission workflows and activities.
const OrderSubmissionTaskQueue = "order-submission"

// OrderSubmissionWorkflowInput carries the order into the workflow together
// with the trace component used to build the workflow id.
type OrderSubmissionWorkflowInput struct {
	Order   *domain.Order
	TraceID string
}

// OrderSubmissionWorkflow runs the dispatch pipeline as a single durable
// activity. Retries cover transient infrastructure faults; the service keeps
// the pipeline idempotent per order code.
func OrderSubmissionWorkflow(ctx workflow.Context, input OrderSubmissionWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order submission workflow started", "externalId", input.Order.ExternalID)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var saved domain.Order
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, options),
		orderactivities.SubmitOrderActivityName,
		input.Order,
	).Get(ctx, &saved)
	if err != nil {
		logger.Error("order submission workflow failed", "externalId", input.Order.ExternalID, "error", err)
		return nil, err
	}
	logger.Info("order submission workflow completed", "orderCode", saved.OrderCode, "status", saved.Status)
	return &saved, nil
}
