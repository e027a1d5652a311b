// Package mapper translates between transport payloads and the orders
// domain model.
package mapper

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
)

// Order is the wire representation of an order.
type Order struct {
	ID                   uuid.UUID       `json:"id"`
	ExternalID           uuid.UUID       `json:"externalId"`
	Emergency            bool            `json:"emergency"`
	FacilityID           uuid.UUID       `json:"facilityId"`
	ProgramID            uuid.UUID       `json:"programId"`
	ProcessingPeriodID   uuid.UUID       `json:"processingPeriodId"`
	SupervisoryNodeID    uuid.UUID       `json:"supervisoryNodeId,omitempty"`
	OrderCode            string          `json:"orderCode,omitempty"`
	QuotedCost           decimal.Decimal `json:"quotedCost"`
	Status               string          `json:"status,omitempty"`
	CreatedByID          uuid.UUID       `json:"createdById"`
	CreatedDate          time.Time       `json:"createdDate,omitempty"`
	RequestingFacilityID uuid.UUID       `json:"requestingFacilityId"`
	ReceivingFacilityID  uuid.UUID       `json:"receivingFacilityId"`
	SupplyingFacilityID  uuid.UUID       `json:"supplyingFacilityId"`
	LineItems            []OrderLineItem `json:"orderLineItems"`
}

// OrderLineItem is the wire representation of a single order line.
type OrderLineItem struct {
	ID               uuid.UUID `json:"id"`
	OrderableID      uuid.UUID `json:"orderableId"`
	OrderedQuantity  int64     `json:"orderedQuantity"`
	FilledQuantity   int64     `json:"filledQuantity"`
	ApprovedQuantity int64     `json:"approvedQuantity"`
	PacksToShip      int64     `json:"packsToShip"`
}

// ToOrder builds the domain aggregate from a request payload.
func ToOrder(payload Order) *domain.Order {
	order := &domain.Order{
		ID:                   payload.ID,
		ExternalID:           payload.ExternalID,
		Emergency:            payload.Emergency,
		FacilityID:           payload.FacilityID,
		ProgramID:            payload.ProgramID,
		ProcessingPeriodID:   payload.ProcessingPeriodID,
		SupervisoryNodeID:    payload.SupervisoryNodeID,
		OrderCode:            payload.OrderCode,
		QuotedCost:           payload.QuotedCost,
		Status:               domain.OrderStatus(payload.Status),
		CreatedByID:          payload.CreatedByID,
		CreatedDate:          payload.CreatedDate,
		RequestingFacilityID: payload.RequestingFacilityID,
		ReceivingFacilityID:  payload.ReceivingFacilityID,
		SupplyingFacilityID:  payload.SupplyingFacilityID,
	}
	for _, item := range payload.LineItems {
		order.LineItems = append(order.LineItems, domain.OrderLineItem{
			ID:               item.ID,
			OrderID:          payload.ID,
			OrderableID:      item.OrderableID,
			OrderedQuantity:  item.OrderedQuantity,
			FilledQuantity:   item.FilledQuantity,
			ApprovedQuantity: item.ApprovedQuantity,
			PacksToShip:      item.PacksToShip,
		})
	}
	return order
}

// FromOrder builds the response payload for a domain order.
func FromOrder(order *domain.Order) Order {
	payload := Order{
		ID:                   order.ID,
		ExternalID:           order.ExternalID,
		Emergency:            order.Emergency,
		FacilityID:           order.FacilityID,
		ProgramID:            order.ProgramID,
		ProcessingPeriodID:   order.ProcessingPeriodID,
		SupervisoryNodeID:    order.SupervisoryNodeID,
		OrderCode:            order.OrderCode,
		QuotedCost:           order.QuotedCost,
		Status:               string(order.Status),
		CreatedByID:          order.CreatedByID,
		CreatedDate:          order.CreatedDate,
		RequestingFacilityID: order.RequestingFacilityID,
		ReceivingFacilityID:  order.ReceivingFacilityID,
		SupplyingFacilityID:  order.SupplyingFacilityID,
		LineItems:            make([]OrderLineItem, 0, len(order.LineItems)),
	}
	for _, item := range order.LineItems {
		payload.LineItems = append(payload.LineItems, OrderLineItem{
			ID:               item.ID,
			OrderableID:      item.OrderableID,
			OrderedQuantity:  item.OrderedQuantity,
			FilledQuantity:   item.FilledQuantity,
			ApprovedQuantity: item.ApprovedQuantity,
			PacksToShip:      item.PacksToShip,
		})
	}
	return payload
}

// FromOrderList maps a result set.
func FromOrderList(orders []*domain.Order) []Order {
	payloads := make([]Order, 0, len(orders))
	for _, order := range orders {
		payloads = append(payloads, FromOrder(order))
	}
	return payloads
}
