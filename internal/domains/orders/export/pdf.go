package export

import (
	"context"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
)

// WritePdf renders the same row data as the CSV print-out into a fixed
// tabular report layout. A nil order or an order without qualifying rows
// produces no output.
func (e *Exporter) WritePdf(ctx context.Context, order *domain.Order, columns []string, w io.Writer) error {
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

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Order "+order.OrderCode, "", 1, "L", false, 0, "")

	colWidth := 190.0 / float64(len(columns))
	pdf.SetFont("Helvetica", "B", 10)
	for _, column := range columns {
		pdf.CellFormat(colWidth, 8, column, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for _, column := range columns {
			pdf.CellFormat(colWidth, 8, row[column], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return &WriteError{Format: "pdf", Err: err}
	}
	return nil
}
