package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openlmis/fulfillment/internal/domains/orders/adapters/memory"
	"github.com/openlmis/fulfillment/internal/domains/orders/application"
	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/export"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRefData struct {
	program *ports.Program
}

func (s *stubRefData) FindFacility(context.Context, uuid.UUID) (*ports.Facility, error) {
	return nil, nil
}

func (s *stubRefData) FindProgram(context.Context, uuid.UUID) (*ports.Program, error) {
	return s.program, nil
}

func (s *stubRefData) FindOrderable(context.Context, uuid.UUID) (*ports.Orderable, error) {
	return nil, nil
}

func (s *stubRefData) FindUser(context.Context, uuid.UUID) (*ports.User, error) {
	return nil, nil
}

func (s *stubRefData) FindPeriod(context.Context, uuid.UUID) (*ports.ProcessingPeriod, error) {
	return nil, nil
}

type noopStorage struct{}

func (noopStorage) Store(context.Context, *domain.Order) error  { return nil }
func (noopStorage) Delete(context.Context, *domain.Order) error { return nil }

type stubSender struct{ sent bool }

func (s stubSender) Send(context.Context, *domain.Order) (bool, error) { return s.sent, nil }

type apiFixture struct {
	router    *gin.Engine
	orders    *memory.OrderRepository
	pods      *memory.ProofOfDeliveryRepository
	props     *memory.TransferPropertiesRepository
	templates *memory.OrderFileTemplateRepository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{
		orders:    memory.NewOrderRepository(),
		pods:      memory.NewProofOfDeliveryRepository(),
		props:     memory.NewTransferPropertiesRepository(),
		templates: memory.NewOrderFileTemplateRepository(),
	}
	refdata := &stubRefData{program: &ports.Program{ID: uuid.New(), Code: "EM"}}
	service, err := application.NewService(
		f.orders, f.pods, refdata, noopStorage{}, stubSender{sent: true}, nil,
		domain.OrderNumberConfiguration{Prefix: "O", IncludePrefix: true},
		application.NotificationConfig{},
	)
	require.NoError(t, err)
	exporter := export.NewExporter(refdata)

	f.router = NewRouter(Handlers{
		Orders:             NewOrderAPI(service, nil, exporter, f.templates),
		Templates:          NewTemplateAPI(f.templates),
		TransferProperties: NewTransferPropertiesAPI(f.props),
		ProofOfDeliveries:  NewProofOfDeliveryAPI(f.pods, f.orders),
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func orderPayload() map[string]any {
	return map[string]any{
		"externalId":           uuid.New().String(),
		"emergency":            false,
		"programId":            uuid.New().String(),
		"facilityId":           uuid.New().String(),
		"processingPeriodId":   uuid.New().String(),
		"requestingFacilityId": uuid.New().String(),
		"receivingFacilityId":  uuid.New().String(),
		"supplyingFacilityId":  uuid.New().String(),
		"orderLineItems": []map[string]any{
			{"orderableId": uuid.New().String(), "orderedQuantity": 20, "filledQuantity": 15},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "IN_ROUTE", created["status"])
	require.NotEmpty(t, created["orderCode"])
	require.NotEqual(t, uuid.Nil.String(), created["id"])
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	f := newAPIFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/api/orders/"+uuid.New().String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrder_InvalidID(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/api/orders/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchOrders_ByStatus(t *testing.T) {
	f := newAPIFixture(t)
	created := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	require.Equal(t, http.StatusCreated, created.Code)

	rec := f.do(t, http.MethodGet, "/api/orders/search?status=IN_ROUTE", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)

	empty := f.do(t, http.MethodGet, "/api/orders/search?status=SHIPPED", nil)
	require.Equal(t, http.StatusOK, empty.Code)
	require.NoError(t, json.Unmarshal(empty.Body.Bytes(), &results))
	require.Empty(t, results)
}

func TestSearchOrders_RejectsUnknownStatus(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/api/orders/search?status=BOGUS", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchOrders_RejectsMalformedFacility(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/api/orders/search?supplyingFacility=nope", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOrder_BlockedByProofOfDelivery(t *testing.T) {
	f := newAPIFixture(t)
	created := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	require.Equal(t, http.StatusCreated, created.Code)
	var order map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &order))
	orderID := order["id"].(string)

	pod := map[string]any{
		"orderId":    orderID,
		"receivedBy": "storekeeper",
	}
	podRec := f.do(t, http.MethodPost, "/api/proofOfDeliveries", pod)
	require.Equal(t, http.StatusCreated, podRec.Code)

	blocked := f.do(t, http.MethodDelete, "/api/orders/"+orderID, nil)
	require.Equal(t, http.StatusConflict, blocked.Code)
}

func TestDeleteOrder(t *testing.T) {
	f := newAPIFixture(t)
	created := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	var order map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &order))
	orderID := order["id"].(string)

	rec := f.do(t, http.MethodDelete, "/api/orders/"+orderID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	gone := f.do(t, http.MethodGet, "/api/orders/"+orderID, nil)
	require.Equal(t, http.StatusNotFound, gone.Code)
}

func TestRetryOrderTransfer_WrongState(t *testing.T) {
	f := newAPIFixture(t)
	created := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	var order map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &order))

	// The order went IN_ROUTE on creation, so a retry is rejected.
	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%s/retry", order["id"]), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportOrder_UnsupportedType(t *testing.T) {
	f := newAPIFixture(t)
	created := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	var order map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &order))

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%s/export?type=xlsx", order["id"]), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportOrder_WritesCsvAttachment(t *testing.T) {
	f := newAPIFixture(t)
	created := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	var order map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &order))

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%s/export", order["id"]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, rec.Body.String(), order["orderCode"].(string))
}

func TestPrintOrder_UnsupportedFormat(t *testing.T) {
	f := newAPIFixture(t)
	created := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	var order map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &order))

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%s/print?format=docx", order["id"]), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderFileTemplate_RoundTrip(t *testing.T) {
	f := newAPIFixture(t)

	// Before any save, the bootstrap default is served.
	rec := f.do(t, http.MethodGet, "/api/orderFileTemplates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var template map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &template))
	require.Equal(t, "O", template["filePrefix"])

	template["filePrefix"] = "ORD"
	saved := f.do(t, http.MethodPut, "/api/orderFileTemplates", template)
	require.Equal(t, http.StatusOK, saved.Code)

	rec = f.do(t, http.MethodGet, "/api/orderFileTemplates", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &template))
	require.Equal(t, "ORD", template["filePrefix"])
}

func TestOrderFileTemplate_RejectsInvalid(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPut, "/api/orderFileTemplates", map[string]any{
		"filePrefix":       "",
		"headerInFile":     true,
		"orderFileColumns": []map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransferProperties_CRUD(t *testing.T) {
	f := newAPIFixture(t)
	facility := uuid.New().String()
	payload := map[string]any{
		"facilityId": facility,
		"protocol":   "local",
		"local":      map[string]any{"path": "/var/lib/orders/outbound"},
	}

	created := f.do(t, http.MethodPost, "/api/transferProperties", payload)
	require.Equal(t, http.StatusCreated, created.Code)
	var props map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &props))
	id := props["id"].(string)

	// A second record for the same facility conflicts.
	dup := f.do(t, http.MethodPost, "/api/transferProperties", payload)
	require.Equal(t, http.StatusConflict, dup.Code)

	found := f.do(t, http.MethodGet, "/api/transferProperties/search?facility="+facility, nil)
	require.Equal(t, http.StatusOK, found.Code)

	payload["local"] = map[string]any{"path": "/tmp/out"}
	updated := f.do(t, http.MethodPut, "/api/transferProperties/"+id, payload)
	require.Equal(t, http.StatusOK, updated.Code)

	// Pointing the record at a different facility is rejected.
	payload["facilityId"] = uuid.New().String()
	moved := f.do(t, http.MethodPut, "/api/transferProperties/"+id, payload)
	require.Equal(t, http.StatusBadRequest, moved.Code)
	payload["facilityId"] = facility

	deleted := f.do(t, http.MethodDelete, "/api/transferProperties/"+id, nil)
	require.Equal(t, http.StatusNoContent, deleted.Code)

	missing := f.do(t, http.MethodGet, "/api/transferProperties/"+id, nil)
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func TestTransferProperties_PasswordNeverEchoed(t *testing.T) {
	f := newAPIFixture(t)
	payload := map[string]any{
		"facilityId": uuid.New().String(),
		"protocol":   "ftp",
		"ftp": map[string]any{
			"host":            "ftp.example.org",
			"port":            21,
			"username":        "orders",
			"password":        "secret",
			"remoteDirectory": "/incoming",
		},
	}
	created := f.do(t, http.MethodPost, "/api/transferProperties", payload)
	require.Equal(t, http.StatusCreated, created.Code)
	require.NotContains(t, created.Body.String(), "secret")
}

func TestTransferProperties_SearchRequiresFacility(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/api/transferProperties/search", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProofOfDelivery_UnknownOrder(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/api/proofOfDeliveries", map[string]any{
		"orderId":    uuid.New().String(),
		"receivedBy": "storekeeper",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProofForOrder(t *testing.T) {
	f := newAPIFixture(t)
	created := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	var order map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &order))
	orderID := order["id"].(string)

	missing := f.do(t, http.MethodGet, "/api/orders/"+orderID+"/proofOfDeliveries", nil)
	require.Equal(t, http.StatusNotFound, missing.Code)

	podRec := f.do(t, http.MethodPost, "/api/proofOfDeliveries", map[string]any{
		"orderId":     orderID,
		"deliveredBy": "driver",
		"receivedBy":  "storekeeper",
	})
	require.Equal(t, http.StatusCreated, podRec.Code)

	found := f.do(t, http.MethodGet, "/api/orders/"+orderID+"/proofOfDeliveries", nil)
	require.Equal(t, http.StatusOK, found.Code)
	var pod map[string]any
	require.NoError(t, json.Unmarshal(found.Body.Bytes(), &pod))
	require.Equal(t, orderID, pod["orderId"])
}

func TestCreateProofOfDelivery_DuplicateForOrder(t *testing.T) {
	f := newAPIFixture(t)
	created := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	var order map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &order))
	orderID := order["id"].(string)

	payload := map[string]any{
		"orderId":     orderID,
		"deliveredBy": "driver",
		"receivedBy":  "storekeeper",
	}
	first := f.do(t, http.MethodPost, "/api/proofOfDeliveries", payload)
	require.Equal(t, http.StatusCreated, first.Code)

	second := f.do(t, http.MethodPost, "/api/proofOfDeliveries", payload)
	require.Equal(t, http.StatusConflict, second.Code)
}

func TestUpdateProofOfDelivery(t *testing.T) {
	f := newAPIFixture(t)
	created := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	var order map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &order))
	orderID := order["id"].(string)

	podRec := f.do(t, http.MethodPost, "/api/proofOfDeliveries", map[string]any{
		"orderId":     orderID,
		"deliveredBy": "driver",
		"receivedBy":  "storekeeper",
	})
	require.Equal(t, http.StatusCreated, podRec.Code)
	var pod map[string]any
	require.NoError(t, json.Unmarshal(podRec.Body.Bytes(), &pod))
	podID := pod["id"].(string)

	updated := f.do(t, http.MethodPut, "/api/proofOfDeliveries/"+podID, map[string]any{
		"orderId":     orderID,
		"deliveredBy": "driver",
		"receivedBy":  "pharmacist",
	})
	require.Equal(t, http.StatusOK, updated.Code)

	fetched := f.do(t, http.MethodGet, "/api/proofOfDeliveries/"+podID, nil)
	require.Equal(t, http.StatusOK, fetched.Code)
	var latest map[string]any
	require.NoError(t, json.Unmarshal(fetched.Body.Bytes(), &latest))
	require.Equal(t, "pharmacist", latest["receivedBy"])

	// A proof stays attached to the order it was recorded for.
	rebound := f.do(t, http.MethodPut, "/api/proofOfDeliveries/"+podID, map[string]any{
		"orderId":     uuid.New().String(),
		"deliveredBy": "driver",
		"receivedBy":  "storekeeper",
	})
	require.Equal(t, http.StatusBadRequest, rebound.Code)
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
