package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProofOfDelivery records the receipt of an order's shipment. Its existence
// for an order blocks deleting that order.
type ProofOfDelivery struct {
	ID                 uuid.UUID
	OrderID            uuid.UUID
	DeliveredBy        string
	ReceivedBy         string
	ReceivedDate       time.Time
	TotalShippedPacks  int64
	TotalReceivedPacks int64
	TotalReturnedPacks int64
	LineItems          []ProofOfDeliveryLineItem
}

// ProofOfDeliveryLineItem records receipt quantities for one product line.
type ProofOfDeliveryLineItem struct {
	ID                  uuid.UUID
	ProofOfDeliveryID   uuid.UUID
	OrderableID         uuid.UUID
	PackToShip          int64
	QuantityShipped     int64
	QuantityReceived    int64
	QuantityReturned    int64
	ReplacedProductCode string
	Notes               string
}

// Validate enforces non-negative receipt quantities.
func (p *ProofOfDelivery) Validate() error {
	if p.OrderID == uuid.Nil {
		return ErrMissingOrderFields
	}
	for i := range p.LineItems {
		li := &p.LineItems[i]
		if li.QuantityShipped < 0 || li.QuantityReceived < 0 || li.QuantityReturned < 0 {
			return ErrNegativeQuantity
		}
	}
	return nil
}
