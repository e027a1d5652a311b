package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTemplate(t *testing.T) {
	template := DefaultTemplate()
	require.NoError(t, template.Validate())
	require.Equal(t, "O", template.FilePrefix)
	require.True(t, template.HeaderInFile)
	require.Len(t, template.Columns, 7)
	require.Equal(t, FieldOrderCode, template.Columns[0].DataFieldKey)
}

func TestTemplateValidate(t *testing.T) {
	noPrefix := DefaultTemplate()
	noPrefix.FilePrefix = " "
	require.ErrorIs(t, noPrefix.Validate(), ErrInvalidTemplate)

	blankKey := DefaultTemplate()
	blankKey.Columns[2].DataFieldKey = ""
	require.ErrorIs(t, blankKey.Validate(), ErrInvalidTemplate)

	allClosed := DefaultTemplate()
	for i := range allClosed.Columns {
		allClosed.Columns[i].Open = false
	}
	require.ErrorIs(t, allClosed.Validate(), ErrInvalidTemplate)
}

func TestOpenColumns_OrdersByPositionAndSkipsClosed(t *testing.T) {
	template := &OrderFileTemplate{
		FilePrefix:   "O",
		HeaderInFile: true,
		Columns: []OrderFileColumn{
			{Open: true, ColumnLabel: "Product code", DataFieldKey: FieldProductCode, Position: 3},
			{Open: false, ColumnLabel: "Period", DataFieldKey: FieldPeriod, Position: 2},
			{Open: true, ColumnLabel: "Order number", DataFieldKey: FieldOrderCode, Position: 1},
			{Open: true, ColumnLabel: "Ordered quantity", DataFieldKey: FieldOrderedQuantity, Position: 4},
		},
	}

	open := template.OpenColumns()
	require.Len(t, open, 3)
	require.Equal(t, FieldOrderCode, open[0].DataFieldKey)
	require.Equal(t, FieldProductCode, open[1].DataFieldKey)
	require.Equal(t, FieldOrderedQuantity, open[2].DataFieldKey)
}
