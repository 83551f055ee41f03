// Package receipt renders a closed order into the fixed-width text
// slip handed to the customer. Rendering is pure: the formatter prints
// whatever it is given and enforces no order state itself.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"

	"restaurant-pos/internal/order"
	"restaurant-pos/internal/table"
)

const (
	divider    = "--------------------------------"
	timeLayout = "2006-01-02 15:04"
)

// ProductNameFunc resolves a product id to its display name.
// Products deleted since the order closed render as "Unknown".
type ProductNameFunc func(productID uuid.UUID) string

// Render produces the receipt body. Callers invoke it right after a
// successful close; open or cancelled orders have no finalized total
// worth printing.
func Render(o *order.Order, t *table.Table, waiterName string, items []order.OrderItem, productName ProductNameFunc) []byte {
	var sb strings.Builder

	sb.WriteString("RestaurantPOS Receipt\n")
	sb.WriteString(divider + "\n")
	fmt.Fprintf(&sb, "Table: %d\n", t.TableNumber)

	if waiterName == "" {
		waiterName = "N/A"
	}
	fmt.Fprintf(&sb, "Waiter: %s\n", waiterName)

	fmt.Fprintf(&sb, "Opened: %s\n", o.OpenedAt.Format(timeLayout))
	if o.ClosedAt != nil {
		fmt.Fprintf(&sb, "Closed: %s\n", o.ClosedAt.Format(timeLayout))
	}
	fmt.Fprintf(&sb, "Status: %s\n", o.Status.Display())
	fmt.Fprintf(&sb, "Payment: %s\n", o.PaymentMethod.Display())

	sb.WriteString(divider + "\n")

	total := 0
	for _, it := range items {
		name := productName(it.ProductID)
		if name == "" {
			name = "Unknown"
		}
		total += it.LineTotal

		sb.WriteString(name + "\n")
		fmt.Fprintf(&sb, "  %d x %d MKD = %d MKD\n", it.Quantity, it.UnitPrice, it.LineTotal)
	}

	sb.WriteString(divider + "\n")
	fmt.Fprintf(&sb, "TOTAL: %d MKD\n", total)
	sb.WriteString(divider + "\n")

	return []byte(sb.String())
}

// Filename is the download name contract: receipt_table_<number>_<timestamp>.txt.
func Filename(tableNumber int, now time.Time) string {
	return fmt.Sprintf("receipt_table_%d_%s.txt", tableNumber, now.Format("20060102_1504"))
}
