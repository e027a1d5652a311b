package mapper

import (
	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
)

// OrderFileTemplate is the wire representation of the order file template.
type OrderFileTemplate struct {
	ID           uuid.UUID         `json:"id"`
	FilePrefix   string            `json:"filePrefix"`
	HeaderInFile bool              `json:"headerInFile"`
	Columns      []OrderFileColumn `json:"orderFileColumns"`
}

// OrderFileColumn is one template column.
type OrderFileColumn struct {
	ID           uuid.UUID `json:"id"`
	Open         bool      `json:"openColumn"`
	ColumnLabel  string    `json:"columnLabel"`
	DataFieldKey string    `json:"dataFieldKey"`
	Format       string    `json:"format,omitempty"`
	Position     int       `json:"position"`
}

func ToTemplate(payload OrderFileTemplate) *domain.OrderFileTemplate {
	template := &domain.OrderFileTemplate{
		ID:           payload.ID,
		FilePrefix:   payload.FilePrefix,
		HeaderInFile: payload.HeaderInFile,
	}
	for _, col := range payload.Columns {
		template.Columns = append(template.Columns, domain.OrderFileColumn{
			ID:           col.ID,
			Open:         col.Open,
			ColumnLabel:  col.ColumnLabel,
			DataFieldKey: col.DataFieldKey,
			Format:       col.Format,
			Position:     col.Position,
		})
	}
	return template
}

func FromTemplate(template *domain.OrderFileTemplate) OrderFileTemplate {
	payload := OrderFileTemplate{
		ID:           template.ID,
		FilePrefix:   template.FilePrefix,
		HeaderInFile: template.HeaderInFile,
		Columns:      make([]OrderFileColumn, 0, len(template.Columns)),
	}
	for _, col := range template.Columns {
		payload.Columns = append(payload.Columns, OrderFileColumn{
			ID:           col.ID,
			Open:         col.Open,
			ColumnLabel:  col.ColumnLabel,
			DataFieldKey: col.DataFieldKey,
			Format:       col.Format,
			Position:     col.Position,
		})
	}
	return payload
}
