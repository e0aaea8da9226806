package purchases

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	list := []Purchase{{
		ID:          5,
		UserID:      1,
		ShopID:      2,
		Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		TotalAmount: dec("17.00"),
		Items: []Item{
			{ID: 10, PurchaseID: 5, ProductID: 1, Quantity: dec("2"), UnitPrice: dec("3.5"), Subtotal: dec("7.00")},
			{ID: 11, PurchaseID: 5, ProductID: 2, Quantity: dec("1"), UnitPrice: dec("10"), Subtotal: dec("10.00")},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, list))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "purchase_id", rows[0][0])
	assert.Equal(t, []string{"5", "2024-01-02", "1", "2", "10", "1", "2", "3.50", "7.00", "17.00"}, rows[1])
	assert.Equal(t, "11", rows[2][4])
	assert.Equal(t, "10.00", rows[2][7])
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))
	assert.NotZero(t, buf.Len())
}
