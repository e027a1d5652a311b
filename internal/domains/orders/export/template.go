package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

// WriteTemplate renders the order file defined by the given template: one
// row per line item, columns per the template's open columns, with the
// header included only when the template asks for it. Date and period
// columns honor the column's format layout.
func (e *Exporter) WriteTemplate(ctx context.Context, order *domain.Order, template *domain.OrderFileTemplate, w io.Writer) error {
	if order == nil {
		return nil
	}
	columns := template.OpenColumns()
	if len(columns) == 0 {
		return nil
	}

	facilityCode := ""
	if order.RequestingFacilityID != uuid.Nil {
		facility, err := e.refdata.FindFacility(ctx, order.RequestingFacilityID)
		if err != nil {
			return fmt.Errorf("resolve requesting facility: %w", err)
		}
		if facility != nil {
			facilityCode = facility.Code
		}
	}
	var period *ports.ProcessingPeriod
	if order.ProcessingPeriodID != uuid.Nil {
		var err error
		period, err = e.refdata.FindPeriod(ctx, order.ProcessingPeriodID)
		if err != nil {
			return fmt.Errorf("resolve processing period: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if template.HeaderInFile {
		header := make([]string, len(columns))
		for i, col := range columns {
			header[i] = col.ColumnLabel
		}
		if err := writer.Write(header); err != nil {
			return &WriteError{Format: "order file", Err: err}
		}
	}

	record := make([]string, len(columns))
	for i := range order.LineItems {
		item := &order.LineItems[i]
		product, err := e.refdata.FindOrderable(ctx, item.OrderableID)
		if err != nil {
			return fmt.Errorf("resolve orderable %s: %w", item.OrderableID, err)
		}
		for j, col := range columns {
			record[j] = templateValue(col, order, item, product, period, facilityCode)
		}
		if err := writer.Write(record); err != nil {
			return &WriteError{Format: "order file", Err: err}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return &WriteError{Format: "order file", Err: err}
	}
	return nil
}

func templateValue(
	col domain.OrderFileColumn,
	order *domain.Order,
	item *domain.OrderLineItem,
	product *ports.Orderable,
	period *ports.ProcessingPeriod,
	facilityCode string,
) string {
	switch col.DataFieldKey {
	case domain.FieldOrderCode:
		return order.OrderCode
	case domain.FieldFacilityCode:
		return facilityCode
	case domain.FieldProductCode:
		if product != nil {
			return product.ProductCode
		}
	case domain.FieldProductName:
		if product != nil {
			return product.Name
		}
	case domain.FieldApprovedQuantity:
		return strconv.FormatInt(item.ApprovedQuantity, 10)
	case domain.FieldOrderedQuantity:
		return strconv.FormatInt(item.OrderedQuantity, 10)
	case domain.FieldFilledQuantity:
		return strconv.FormatInt(item.FilledQuantity, 10)
	case domain.FieldPeriod:
		if period != nil {
			if col.Format != "" {
				return period.StartDate.Format(col.Format)
			}
			return period.Name
		}
	case domain.FieldOrderDate:
		if col.Format != "" {
			return order.CreatedDate.Format(col.Format)
		}
		return order.CreatedDate.Format("02/01/06")
	}
	return ""
}
