package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the fulfillment progression of an order.
type OrderStatus string

const (
	StatusOrdered        OrderStatus = "ORDERED"
	StatusPicking        OrderStatus = "PICKING"
	StatusPicked         OrderStatus = "PICKED"
	StatusReadyToPack    OrderStatus = "READY_TO_PACK"
	StatusShipped        OrderStatus = "SHIPPED"
	StatusInTransit      OrderStatus = "IN_TRANSIT"
	StatusReceived       OrderStatus = "RECEIVED"
	StatusInRoute        OrderStatus = "IN_ROUTE"
	StatusTransferFailed OrderStatus = "TRANSFER_FAILED"
)

var (
	ErrUnknownStatus      = errors.New("order status is unknown")
	ErrNegativeQuantity   = errors.New("line item quantity must not be negative")
	ErrMissingOrderOwner  = errors.New("line item must reference its owning order")
	ErrMissingOrderFields = errors.New("order is missing required references")
)

var knownStatuses = map[OrderStatus]struct{}{
	StatusOrdered:        {},
	StatusPicking:        {},
	StatusPicked:         {},
	StatusReadyToPack:    {},
	StatusShipped:        {},
	StatusInTransit:      {},
	StatusReceived:       {},
	StatusInRoute:        {},
	StatusTransferFailed: {},
}

// ParseOrderStatus converts a string into an OrderStatus, rejecting unknown values.
func ParseOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(value)
	if _, ok := knownStatuses[status]; !ok {
		return "", ErrUnknownStatus
	}
	return status, nil
}

// IsValid reports whether the status is one of the defined states.
func (s OrderStatus) IsValid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// Order is the purchase/supply order aggregate. Reference identifiers point at
// facilities, programs, periods and users owned by the reference-data service;
// uuid.Nil marks an absent reference.
type Order struct {
	ID                   uuid.UUID
	ExternalID           uuid.UUID
	Emergency            bool
	FacilityID           uuid.UUID
	ProgramID            uuid.UUID
	ProcessingPeriodID   uuid.UUID
	SupervisoryNodeID    uuid.UUID
	OrderCode            string
	QuotedCost           decimal.Decimal
	Status               OrderStatus
	CreatedByID          uuid.UUID
	CreatedDate          time.Time
	RequestingFacilityID uuid.UUID
	ReceivingFacilityID  uuid.UUID
	SupplyingFacilityID  uuid.UUID
	LineItems            []OrderLineItem
}

// OrderLineItem is one product line within an order. It is owned exclusively
// by its order and removed with it.
type OrderLineItem struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	OrderableID      uuid.UUID
	OrderedQuantity  int64
	FilledQuantity   int64
	ApprovedQuantity int64
	PacksToShip      int64
}

// Validate enforces the aggregate invariants.
func (o *Order) Validate() error {
	if o.ProgramID == uuid.Nil {
		return ErrMissingOrderFields
	}
	if !o.Status.IsValid() {
		return ErrUnknownStatus
	}
	for i := range o.LineItems {
		if err := o.LineItems[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus transitions the order to a known status, defaulting to ORDERED.
func (o *Order) UpdateStatus(status OrderStatus) error {
	if status == "" {
		status = StatusOrdered
	}
	if !status.IsValid() {
		return ErrUnknownStatus
	}
	o.Status = status
	return nil
}

// Validate enforces line item invariants.
func (li *OrderLineItem) Validate() error {
	if li.OrderedQuantity < 0 || li.FilledQuantity < 0 || li.ApprovedQuantity < 0 || li.PacksToShip < 0 {
		return ErrNegativeQuantity
	}
	return nil
}
