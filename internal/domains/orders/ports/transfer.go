package ports

import (
	"context"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
)

// OrderStorage stages a transport-ready representation of an order in a
// durable location prior to transfer.
type OrderStorage interface {
	// Store writes the order's transfer file. Idempotent per order id:
	// storing the same order twice overwrites the staged artifact.
	Store(ctx context.Context, order *domain.Order) error
	// Delete removes the staged artifact; absent artifacts are not an error.
	Delete(ctx context.Context, order *domain.Order) error
}

// OrderSender performs the outbound transfer of a staged order using the
// supplying facility's transfer properties. Ordinary transport failure is
// reported as (false, nil); an error is reserved for configuration faults
// such as missing transfer properties.
type OrderSender interface {
	Send(ctx context.Context, order *domain.Order) (bool, error)
}

// Notification is the payload handed to the notification service.
type Notification struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// NotificationDispatcher delivers user-facing notifications. Callers treat
// failures as non-fatal.
type NotificationDispatcher interface {
	Send(ctx context.Context, notification Notification) error
}
