package export

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
)

// WriteCsv writes the order as CSV: a header with exactly the requested
// column names followed by one row per line item with a positive ordered
// quantity. A nil order or an order without qualifying rows produces no
// output and no error.
func (e *Exporter) WriteCsv(ctx context.Context, order *domain.Order, columns []string, w io.Writer) error {
	if order == nil {
		return nil
	}
	rows, err := e.rows(ctx, order)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return &WriteError{Format: "csv", Err: err}
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, column := range columns {
			record[i] = row[column]
		}
		if err := writer.Write(record); err != nil {
			return &WriteError{Format: "csv", Err: err}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return &WriteError{Format: "csv", Err: err}
	}
	return nil
}
