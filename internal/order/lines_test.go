package order_test

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/order"
)

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV4()
	require.NoError(t, err)
	return id
}

func TestMergeLine_NewLine(t *testing.T) {
	orderID := mustUUID(t)
	productID := mustUUID(t)

	line, created := order.MergeLine(nil, orderID, productID, 2, 80)

	assert.True(t, created)
	assert.Equal(t, orderID, line.OrderID)
	assert.Equal(t, productID, line.ProductID)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 80, line.UnitPrice)
	assert.Equal(t, 160, line.LineTotal)
}

func TestMergeLine_MergesIntoExistingLine(t *testing.T) {
	existing := &order.OrderItem{
		ID:        mustUUID(t),
		OrderID:   mustUUID(t),
		ProductID: mustUUID(t),
		Quantity:  2,
		UnitPrice: 80,
		LineTotal: 160,
	}

	line, created := order.MergeLine(existing, existing.OrderID, existing.ProductID, 1, 80)

	assert.False(t, created)
	assert.Equal(t, existing.ID, line.ID)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 240, line.LineTotal)
	// the input line is untouched
	assert.Equal(t, 2, existing.Quantity)
}

func TestMergeLine_KeepsSnapshottedPrice(t *testing.T) {
	existing := &order.OrderItem{
		ID:        mustUUID(t),
		OrderID:   mustUUID(t),
		ProductID: mustUUID(t),
		Quantity:  1,
		UnitPrice: 80,
		LineTotal: 80,
	}

	// catalog price changed to 100 since the first add
	line, created := order.MergeLine(existing, existing.OrderID, existing.ProductID, 1, 100)

	assert.False(t, created)
	assert.Equal(t, 80, line.UnitPrice, "unit price must stay at the add-time snapshot")
	assert.Equal(t, 160, line.LineTotal)
}

func TestDecrementLine(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int
		wantDeleted bool
		wantQty     int
		wantTotal   int
	}{
		{name: "decrements_one_unit", quantity: 3, wantDeleted: false, wantQty: 2, wantTotal: 160},
		{name: "last_unit_deletes_line", quantity: 1, wantDeleted: true, wantQty: 0, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, deleted := order.DecrementLine(order.OrderItem{
				Quantity:  tt.quantity,
				UnitPrice: 80,
				LineTotal: tt.quantity * 80,
			})

			assert.Equal(t, tt.wantDeleted, deleted)
			assert.Equal(t, tt.wantQty, line.Quantity)
			assert.Equal(t, tt.wantTotal, line.LineTotal)
		})
	}
}

func TestDecrementLine_RepeatedUntilGone(t *testing.T) {
	line := order.OrderItem{Quantity: 3, UnitPrice: 50, LineTotal: 150}

	var deleted bool
	for i := 0; i < 2; i++ {
		line, deleted = order.DecrementLine(line)
		assert.False(t, deleted)
	}

	line, deleted = order.DecrementLine(line)
	assert.True(t, deleted)
	assert.Equal(t, 0, line.Quantity)
}

func TestSumLineTotals(t *testing.T) {
	items := []order.OrderItem{
		{Quantity: 3, UnitPrice: 80, LineTotal: 240},
		{Quantity: 1, UnitPrice: 220, LineTotal: 220},
	}

	assert.Equal(t, 460, order.SumLineTotals(items))
	assert.Equal(t, 0, order.SumLineTotals(nil))
}
