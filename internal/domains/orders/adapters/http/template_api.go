package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/http/mapper"
	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
	sharederrors "github.com/openlmis/fulfillment/internal/shared/errors"
)

// TemplateAPI serves the single order file template. A GET before any
// template has been stored returns the bootstrap default.
type TemplateAPI struct {
	templates ports.OrderFileTemplateRepository
	responder *sharederrors.ChainedResponder
}

func NewTemplateAPI(templates ports.OrderFileTemplateRepository) *TemplateAPI {
	return &TemplateAPI{templates: templates, responder: newResponder()}
}

// Get /api/orderFileTemplates
func (api *TemplateAPI) GetTemplate(c *gin.Context) {
	template, err := api.templates.Get(c.Request.Context())
	if errors.Is(err, ports.ErrNotFound) {
		template = domain.DefaultTemplate()
	} else if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromTemplate(template))
}

// Put /api/orderFileTemplates
func (api *TemplateAPI) SaveTemplate(c *gin.Context) {
	var payload mapper.OrderFileTemplate
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	template := mapper.ToTemplate(payload)
	if err := template.Validate(); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	saved, err := api.templates.Save(c.Request.Context(), template)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromTemplate(saved))
}
