package order

import "github.com/gofrs/uuid"

// MergeLine decides what line-item write follows from adding quantity
// units of a product to an order. When existing is nil a fresh line is
// returned (caller assigns the ID) and created is true; otherwise the
// existing line is returned with the quantity folded in. The unit
// price of an existing line is kept: the price was snapshotted when
// the product was first added.
func MergeLine(existing *OrderItem, orderID, productID uuid.UUID, quantity, unitPrice int) (line OrderItem, created bool) {
	if existing == nil {
		return OrderItem{
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			LineTotal: quantity * unitPrice,
		}, true
	}

	line = *existing
	line.Quantity += quantity
	line.LineTotal = line.Quantity * line.UnitPrice
	return line, false
}

// DecrementLine removes exactly one unit from a line. When the last
// unit goes, deleted is true and the line must be removed rather than
// stored at zero quantity.
func DecrementLine(existing OrderItem) (line OrderItem, deleted bool) {
	line = existing
	line.Quantity--
	if line.Quantity <= 0 {
		line.Quantity = 0
		line.LineTotal = 0
		return line, true
	}

	line.LineTotal = line.Quantity * line.UnitPrice
	return line, false
}

// SumLineTotals derives an order total from its lines. Totals are
// never stored, so they cannot drift from the items.
func SumLineTotals(items []OrderItem) int {
	total := 0
	for _, it := range items {
		total += it.LineTotal
	}
	return total
}
