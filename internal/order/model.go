package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusClosed    Status = "CLOSED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Display() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusClosed:
		return "Closed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

func (p PaymentMethod) String() string {
	return string(p)
}

func (p PaymentMethod) Display() string {
	switch p {
	case PaymentCash:
		return "Cash"
	case PaymentCard:
		return "Card"
	default:
		return "Unknown"
	}
}

// ParsePaymentMethod accepts any casing; stored values are uppercase.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch p := PaymentMethod(strings.ToUpper(s)); p {
	case PaymentCash, PaymentCard:
		return p, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Order is the unit of work for one seated table. PaymentMethod is
// empty until the order closes; ClosedAt is nil while it is open.
type Order struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	TableID       uuid.UUID     `json:"table_id" db:"table_id"`
	WaiterID      uuid.UUID     `json:"waiter_id" db:"waiter_id"`
	Status        Status        `json:"status" db:"status"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty" db:"payment_method"`
	OpenedAt      time.Time     `json:"opened_at" db:"opened_at"`
	ClosedAt      *time.Time    `json:"closed_at,omitempty" db:"closed_at"`
}

// OrderItem holds one product line. UnitPrice is a snapshot taken when
// the product was first added; later catalog price changes never touch
// it. LineTotal is always Quantity * UnitPrice.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice int       `json:"unit_price" db:"unit_price"`
	LineTotal int       `json:"line_total" db:"line_total"`
}
