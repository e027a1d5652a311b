package mapper

import (
	"time"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
)

// ProofOfDelivery is the wire representation of a proof of delivery.
type ProofOfDelivery struct {
	ID                 uuid.UUID                 `json:"id"`
	OrderID            uuid.UUID                 `json:"orderId"`
	DeliveredBy        string                    `json:"deliveredBy"`
	ReceivedBy         string                    `json:"receivedBy"`
	ReceivedDate       time.Time                 `json:"receivedDate"`
	TotalShippedPacks  int64                     `json:"totalShippedPacks"`
	TotalReceivedPacks int64                     `json:"totalReceivedPacks"`
	TotalReturnedPacks int64                     `json:"totalReturnedPacks"`
	LineItems          []ProofOfDeliveryLineItem `json:"proofOfDeliveryLineItems"`
}

type ProofOfDeliveryLineItem struct {
	ID                  uuid.UUID `json:"id"`
	OrderableID         uuid.UUID `json:"orderableId"`
	PackToShip          int64     `json:"packToShip"`
	QuantityShipped     int64     `json:"quantityShipped"`
	QuantityReceived    int64     `json:"quantityReceived"`
	QuantityReturned    int64     `json:"quantityReturned"`
	ReplacedProductCode string    `json:"replacedProductCode,omitempty"`
	Notes               string    `json:"notes,omitempty"`
}

func ToProofOfDelivery(payload ProofOfDelivery) *domain.ProofOfDelivery {
	pod := &domain.ProofOfDelivery{
		ID:                 payload.ID,
		OrderID:            payload.OrderID,
		DeliveredBy:        payload.DeliveredBy,
		ReceivedBy:         payload.ReceivedBy,
		ReceivedDate:       payload.ReceivedDate,
		TotalShippedPacks:  payload.TotalShippedPacks,
		TotalReceivedPacks: payload.TotalReceivedPacks,
		TotalReturnedPacks: payload.TotalReturnedPacks,
	}
	for _, item := range payload.LineItems {
		pod.LineItems = append(pod.LineItems, domain.ProofOfDeliveryLineItem{
			ID:                  item.ID,
			ProofOfDeliveryID:   payload.ID,
			OrderableID:         item.OrderableID,
			PackToShip:          item.PackToShip,
			QuantityShipped:     item.QuantityShipped,
			QuantityReceived:    item.QuantityReceived,
			QuantityReturned:    item.QuantityReturned,
			ReplacedProductCode: item.ReplacedProductCode,
			Notes:               item.Notes,
		})
	}
	return pod
}

func FromProofOfDelivery(pod *domain.ProofOfDelivery) ProofOfDelivery {
	payload := ProofOfDelivery{
		ID:                 pod.ID,
		OrderID:            pod.OrderID,
		DeliveredBy:        pod.DeliveredBy,
		ReceivedBy:         pod.ReceivedBy,
		ReceivedDate:       pod.ReceivedDate,
		TotalShippedPacks:  pod.TotalShippedPacks,
		TotalReceivedPacks: pod.TotalReceivedPacks,
		TotalReturnedPacks: pod.TotalReturnedPacks,
		LineItems:          make([]ProofOfDeliveryLineItem, 0, len(pod.LineItems)),
	}
	for _, item := range pod.LineItems {
		payload.LineItems = append(payload.LineItems, ProofOfDeliveryLineItem{
			ID:                  item.ID,
			OrderableID:         item.OrderableID,
			PackToShip:          item.PackToShip,
			QuantityShipped:     item.QuantityShipped,
			QuantityReceived:    item.QuantityReceived,
			QuantityReturned:    item.QuantityReturned,
			ReplacedProductCode: item.ReplacedProductCode,
			Notes:               item.Notes,
		})
	}
	return payload
}
