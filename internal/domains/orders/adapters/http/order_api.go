package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/http/mapper"
	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/export"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
	sharederrors "github.com/openlmis/fulfillment/internal/shared/errors"
)

// OrderAPI wires the HTTP transport with the order service, the export
// writers and, when configured, the durable workflow orchestrator.
type OrderAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	exporter  *export.Exporter
	templates ports.OrderFileTemplateRepository
	responder *sharederrors.ChainedResponder
}

func NewOrderAPI(
	service ports.Service,
	workflows ports.WorkflowOrchestrator,
	exporter *export.Exporter,
	templates ports.OrderFileTemplateRepository,
) *OrderAPI {
	return &OrderAPI{
		service:   service,
		workflows: workflows,
		exporter:  exporter,
		templates: templates,
		responder: newResponder(),
	}
}

// Post /api/orders
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload mapper.Order
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	order := mapper.ToOrder(payload)
	saved, err := api.submit(c, order)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromOrder(saved))
}

func (api *OrderAPI) submit(c *gin.Context, order *domain.Order) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.SubmitOrder(c.Request.Context(), order)
	}
	return api.service.Save(c.Request.Context(), order)
}

// Get /api/orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.List(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderList(orders))
}

// Get /api/orders/search
func (api *OrderAPI) SearchOrders(c *gin.Context) {
	query := ports.SearchQuery{Statuses: c.QueryArray("status")}
	for name, target := range map[string]**uuid.UUID{
		"supplyingFacility":  &query.SupplyingFacilityID,
		"requestingFacility": &query.RequestingFacilityID,
		"program":            &query.ProgramID,
		"processingPeriod":   &query.ProcessingPeriodID,
	} {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			api.responder.BadRequest(c, name+" must be a valid UUID")
			return
		}
		*target = &id
	}
	orders, err := api.service.Search(c.Request.Context(), query)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderList(orders))
}

// Get /api/orders/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	order, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// Delete /api/orders/:id
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Put /api/orders/:id/finalize
func (api *OrderAPI) FinalizeOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	order, err := api.service.Finalize(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// Get /api/orders/:id/retry
func (api *OrderAPI) RetryOrderTransfer(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	sent, err := api.service.Retry(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": sent})
}

// Get /api/orders/:id/export?type=csv
// Renders the order through the configured order file template.
func (api *OrderAPI) ExportOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	if format := c.DefaultQuery("type", "csv"); format != "csv" {
		api.responder.BadRequest(c, fmt.Sprintf("export type %q is not supported", format))
		return
	}
	order, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	template, err := api.templates.Get(c.Request.Context())
	if errors.Is(err, ports.ErrNotFound) {
		template = domain.DefaultTemplate()
	} else if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	filename := template.FilePrefix + order.OrderCode + ".csv"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)
	if err := api.exporter.WriteTemplate(c.Request.Context(), order, template, c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// Get /api/orders/:id/print?format=csv|pdf
func (api *OrderAPI) PrintOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "pdf" {
		api.responder.BadRequest(c, fmt.Sprintf("print format %q is not supported", format))
		return
	}
	order, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	filename := fmt.Sprintf("order-%s.%s", order.OrderCode, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if format == "pdf" {
		c.Header("Content-Type", "application/pdf")
		c.Status(http.StatusOK)
		err = api.exporter.WritePdf(c.Request.Context(), order, export.DefaultColumns, c.Writer)
	} else {
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		err = api.exporter.WriteCsv(c.Request.Context(), order, export.DefaultColumns, c.Writer)
	}
	if err != nil {
		_ = c.Error(err)
	}
}
