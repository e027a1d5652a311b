// Package export turns orders into their transport representations: the
// fixed-column CSV/PDF print-outs and the template-driven order file.
package export

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

// Fixed column set understood by the CSV and PDF print-outs.
const (
	ColumnFacilityCode    = "facilityCode"
	ColumnCreatedDate     = "createdDate"
	ColumnOrderNum        = "orderNum"
	ColumnProductName     = "productName"
	ColumnProductCode     = "productCode"
	ColumnOrderedQuantity = "orderedQuantity"
	ColumnFilledQuantity  = "filledQuantity"
)

// DefaultColumns lists every supported print column in its default order.
var DefaultColumns = []string{
	ColumnFacilityCode,
	ColumnCreatedDate,
	ColumnOrderNum,
	ColumnProductName,
	ColumnProductCode,
	ColumnOrderedQuantity,
	ColumnFilledQuantity,
}

// WriteError wraps an I/O or rendering fault raised while producing an
// order's transport representation.
type WriteError struct {
	Format string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing order %s output: %v", e.Format, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Exporter builds order rows, resolving facility and product descriptions
// through the reference-data client.
type Exporter struct {
	refdata ports.ReferenceDataClient
}

// NewExporter wires the exporter with its reference-data lookups.
func NewExporter(refdata ports.ReferenceDataClient) *Exporter {
	return &Exporter{refdata: refdata}
}

// rows resolves one row per qualifying line item, in line-item order. Line
// items whose ordered quantity is not strictly positive are omitted.
func (e *Exporter) rows(ctx context.Context, order *domain.Order) ([]map[string]string, error) {
	facilityCode := ""
	if order.RequestingFacilityID != uuid.Nil {
		facility, err := e.refdata.FindFacility(ctx, order.RequestingFacilityID)
		if err != nil {
			return nil, fmt.Errorf("resolve requesting facility: %w", err)
		}
		if facility != nil {
			facilityCode = facility.Code
		}
	}
	createdDate := order.CreatedDate.Format(time.RFC3339)

	rows := make([]map[string]string, 0, len(order.LineItems))
	for i := range order.LineItems {
		item := &order.LineItems[i]
		if item.OrderedQuantity <= 0 {
			continue
		}
		product, err := e.refdata.FindOrderable(ctx, item.OrderableID)
		if err != nil {
			return nil, fmt.Errorf("resolve orderable %s: %w", item.OrderableID, err)
		}
		row := map[string]string{
			ColumnFacilityCode:    facilityCode,
			ColumnCreatedDate:     createdDate,
			ColumnOrderNum:        order.OrderCode,
			ColumnOrderedQuantity: strconv.FormatInt(item.OrderedQuantity, 10),
			ColumnFilledQuantity:  strconv.FormatInt(item.FilledQuantity, 10),
		}
		if product != nil {
			row[ColumnProductName] = product.Name
			row[ColumnProductCode] = product.ProductCode
		} else {
			row[ColumnProductName] = ""
			row[ColumnProductCode] = ""
		}
		rows = append(rows, row)
	}
	return rows, nil
}
