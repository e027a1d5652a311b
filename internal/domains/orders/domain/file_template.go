package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Data field keys resolvable by the template-driven order file writer.
const (
	FieldOrderCode        = "orderCode"
	FieldFacilityCode     = "facilityCode"
	FieldProductCode      = "productCode"
	FieldProductName      = "productName"
	FieldApprovedQuantity = "approvedQuantity"
	FieldOrderedQuantity  = "orderedQuantity"
	FieldFilledQuantity   = "filledQuantity"
	FieldPeriod           = "period"
	FieldOrderDate        = "orderDate"
)

var ErrInvalidTemplate = errors.New("order file template is invalid")

// OrderFileTemplate shapes the order file written to the staging area and
// served by the export endpoint. The system keeps a single template.
type OrderFileTemplate struct {
	ID           uuid.UUID
	FilePrefix   string
	HeaderInFile bool
	Columns      []OrderFileColumn
}

// OrderFileColumn is one template column in render order. Closed columns stay
// configured but are skipped when writing. Format applies to date and period
// fields using Go reference-time layouts.
type OrderFileColumn struct {
	ID           uuid.UUID
	Open         bool
	ColumnLabel  string
	DataFieldKey string
	Format       string
	Position     int
}

// DefaultTemplate mirrors the bootstrap template shipped with the service.
func DefaultTemplate() *OrderFileTemplate {
	return &OrderFileTemplate{
		FilePrefix:   "O",
		HeaderInFile: true,
		Columns: []OrderFileColumn{
			{Open: true, ColumnLabel: "Order number", DataFieldKey: FieldOrderCode, Position: 1},
			{Open: true, ColumnLabel: "Facility code", DataFieldKey: FieldFacilityCode, Position: 2},
			{Open: true, ColumnLabel: "Product code", DataFieldKey: FieldProductCode, Position: 3},
			{Open: true, ColumnLabel: "Product name", DataFieldKey: FieldProductName, Position: 4},
			{Open: true, ColumnLabel: "Approved quantity", DataFieldKey: FieldApprovedQuantity, Position: 5},
			{Open: true, ColumnLabel: "Period", DataFieldKey: FieldPeriod, Format: "01/06", Position: 6},
			{Open: true, ColumnLabel: "Order date", DataFieldKey: FieldOrderDate, Format: "02/01/06", Position: 7},
		},
	}
}

// Validate rejects templates without a prefix or without any open column.
func (t *OrderFileTemplate) Validate() error {
	if strings.TrimSpace(t.FilePrefix) == "" {
		return ErrInvalidTemplate
	}
	open := 0
	for i := range t.Columns {
		if strings.TrimSpace(t.Columns[i].DataFieldKey) == "" {
			return ErrInvalidTemplate
		}
		if t.Columns[i].Open {
			open++
		}
	}
	if open == 0 {
		return ErrInvalidTemplate
	}
	return nil
}

// OpenColumns returns the columns to render, in position order.
func (t *OrderFileTemplate) OpenColumns() []OrderFileColumn {
	open := make([]OrderFileColumn, 0, len(t.Columns))
	for _, col := range t.Columns {
		if col.Open {
			open = append(open, col)
		}
	}
	for i := 1; i < len(open); i++ {
		for j := i; j > 0 && open[j].Position < open[j-1].Position; j-- {
			open[j], open[j-1] = open[j-1], open[j]
		}
	}
	return open
}
