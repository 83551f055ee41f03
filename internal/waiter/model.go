package waiter

import (
	"time"

	"github.com/gofrs/uuid"
)

type Waiter struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	PinHash   string    `json:"-" db:"pin_hash"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	IsManager bool      `json:"is_manager" db:"is_manager"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
