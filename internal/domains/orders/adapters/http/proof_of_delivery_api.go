package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/http/mapper"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
	sharederrors "github.com/openlmis/fulfillment/internal/shared/errors"
)

// ProofOfDeliveryAPI records and serves delivery confirmations.
type ProofOfDeliveryAPI struct {
	pods      ports.ProofOfDeliveryRepository
	orders    ports.OrderRepository
	responder *sharederrors.ChainedResponder
}

func NewProofOfDeliveryAPI(pods ports.ProofOfDeliveryRepository, orders ports.OrderRepository) *ProofOfDeliveryAPI {
	return &ProofOfDeliveryAPI{pods: pods, orders: orders, responder: newResponder()}
}

// Post /api/proofOfDeliveries
func (api *ProofOfDeliveryAPI) CreateProofOfDelivery(c *gin.Context) {
	var payload mapper.ProofOfDelivery
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	pod := mapper.ToProofOfDelivery(payload)
	if err := pod.Validate(); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	exists, err := api.orders.Exists(c.Request.Context(), pod.OrderID)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	if !exists {
		api.responder.NotFound(c, "order", pod.OrderID)
		return
	}
	existing, err := api.pods.FindByOrderID(c.Request.Context(), pod.OrderID)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	if existing != nil {
		api.responder.Respond(c, sharederrors.ErrConflict.
			WithDetail("a proof of delivery already exists for this order").
			WithExtension("orderId", pod.OrderID))
		return
	}
	saved, err := api.pods.Save(c.Request.Context(), pod)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromProofOfDelivery(saved))
}

// Put /api/proofOfDeliveries/:id
func (api *ProofOfDeliveryAPI) UpdateProofOfDelivery(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	existing, err := api.pods.GetByID(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	var payload mapper.ProofOfDelivery
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	pod := mapper.ToProofOfDelivery(payload)
	pod.ID = id
	if pod.OrderID != existing.OrderID {
		api.responder.BadRequest(c, "proof of delivery cannot be moved to another order")
		return
	}
	if err := pod.Validate(); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	saved, err := api.pods.Save(c.Request.Context(), pod)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProofOfDelivery(saved))
}

// Get /api/proofOfDeliveries/:id
func (api *ProofOfDeliveryAPI) GetProofOfDelivery(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	pod, err := api.pods.GetByID(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProofOfDelivery(pod))
}

// Get /api/orders/:id/proofOfDeliveries
func (api *ProofOfDeliveryAPI) GetProofForOrder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	pod, err := api.pods.FindByOrderID(c.Request.Context(), orderID)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	if pod == nil {
		api.responder.NotFound(c, "proofOfDelivery", orderID)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProofOfDelivery(pod))
}
