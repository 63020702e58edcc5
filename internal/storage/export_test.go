package storage

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteOrdersWorkbook(t *testing.T) {
	orders := []checkout.Order{
		{
			ID:           7,
			CustomerName: "Dana",
			Phone:        "+972501234567",
			DeliveryMode: delivery.ModeDelivery,
			Address:      "Herzl 12",
			Lines: checkout.OrderLines{
				{ItemID: 1, Name: "Margherita", Kind: cart.KindPizza, Size: cart.SizeM, Quantity: 2, UnitPrice: 5700, Subtotal: 11400, Configuration: json.RawMessage(`{"item_id":1}`)},
				{ItemID: 9, Name: "Cola", Kind: cart.KindPlain, Size: cart.SizeM, Quantity: 1, UnitPrice: 800, Subtotal: 800},
			},
			Subtotal:  12200,
			Total:     13420,
			Status:    checkout.StatusPending,
			CreatedAt: time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersWorkbook(&buf, orders))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ordersSheet, linesSheet}, f.GetSheetList())

	cells := map[string]string{"A1": "ID", "A2": "7", "B2": "Dana", "C2": "050-123-4567", "G2": "13420", "H2": "pending", "I2": "2024-03-01 18:30"}
	for cell, want := range cells {
		got, err := f.GetCellValue(ordersSheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	rows, err := f.GetRows(linesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Margherita", rows[1][2])
	assert.Equal(t, "11400", rows[1][7])
	assert.Equal(t, `{"item_id":1}`, rows[1][8])
	assert.Equal(t, "Cola", rows[2][2])
}

func TestWriteOrdersWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersWorkbook(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ordersSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
