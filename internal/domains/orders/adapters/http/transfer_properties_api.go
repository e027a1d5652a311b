package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/http/mapper"
	sharederrors "github.com/openlmis/fulfillment/internal/shared/errors"

	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

// TransferPropertiesAPI manages per-facility transfer configuration.
type TransferPropertiesAPI struct {
	props     ports.TransferPropertiesRepository
	responder *sharederrors.ChainedResponder
}

func NewTransferPropertiesAPI(props ports.TransferPropertiesRepository) *TransferPropertiesAPI {
	return &TransferPropertiesAPI{props: props, responder: newResponder()}
}

// Post /api/transferProperties
func (api *TransferPropertiesAPI) CreateProperties(c *gin.Context) {
	var payload mapper.TransferProperties
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	props := mapper.ToTransferProperties(payload)
	props.ID = uuid.Nil
	if err := props.Validate(); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	saved, err := api.props.Save(c.Request.Context(), props)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromTransferProperties(saved))
}

// Put /api/transferProperties/:id
func (api *TransferPropertiesAPI) UpdateProperties(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	existing, err := api.props.GetByID(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	var payload mapper.TransferProperties
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	props := mapper.ToTransferProperties(payload)
	props.ID = id
	if props.FacilityID != existing.FacilityID {
		api.responder.BadRequest(c, "transfer properties cannot be moved to another facility")
		return
	}
	if err := props.Validate(); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	saved, err := api.props.Save(c.Request.Context(), props)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromTransferProperties(saved))
}

// Get /api/transferProperties/:id
func (api *TransferPropertiesAPI) GetProperties(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	props, err := api.props.GetByID(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromTransferProperties(props))
}

// Get /api/transferProperties/search?facility={id}
func (api *TransferPropertiesAPI) SearchProperties(c *gin.Context) {
	raw, ok := c.GetQuery("facility")
	if !ok {
		api.responder.BadRequest(c, "facility query parameter is required")
		return
	}
	facilityID, err := uuid.Parse(raw)
	if err != nil {
		api.responder.BadRequest(c, "facility must be a valid UUID")
		return
	}
	props, err := api.props.FindByFacilityID(c.Request.Context(), facilityID)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	if props == nil {
		api.responder.NotFound(c, "transferProperties", facilityID)
		return
	}
	c.JSON(http.StatusOK, mapper.FromTransferProperties(props))
}

// Delete /api/transferProperties/:id
func (api *TransferPropertiesAPI) DeleteProperties(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	if err := api.props.Delete(c.Request.Context(), id); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
