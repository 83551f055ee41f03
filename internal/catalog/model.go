package catalog

import "github.com/gofrs/uuid"

type Category struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
}

// Product prices are whole denars; order lines snapshot Price at
// add-time, so edits here never touch existing orders.
type Product struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Description      string    `json:"description" db:"description"`
	CategoryID       uuid.UUID `json:"category_id" db:"category_id"`
	Price            int       `json:"price" db:"price"`
	IsAvailable      bool      `json:"is_available" db:"is_available"`
	ExternalSourceID string    `json:"external_source_id,omitempty" db:"external_source_id"`
}
