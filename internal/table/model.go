package table

import "github.com/gofrs/uuid"

type Status string

const (
	StatusFree     Status = "FREE"
	StatusOccupied Status = "OCCUPIED"
	StatusReserved Status = "RESERVED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusFree, StatusOccupied, StatusReserved:
		return true
	}
	return false
}

// Display returns the human form used on receipts and screens.
func (s Status) Display() string {
	switch s {
	case StatusFree:
		return "Free"
	case StatusOccupied:
		return "Occupied"
	case StatusReserved:
		return "Reserved"
	default:
		return "Unknown"
	}
}

type Table struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TableNumber int       `json:"table_number" db:"table_number"`
	Status      Status    `json:"status" db:"status"`
}
