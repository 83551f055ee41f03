package expense

import (
	"time"

	"github.com/gofrs/uuid"
)

type Expense struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	Amount      int       `json:"amount" db:"amount"`
	SpentAt     time.Time `json:"spent_at" db:"spent_at"`
}
