package meals

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"restaurant-pos/internal/catalog"
)

// Imported items land at a placeholder price; the manager adjusts it
// on the products screen afterwards.
const defaultImportPrice = 250

var ErrMealNotFound = errors.New("meal not found in external catalog")

// Source is the slice of the client the importer needs.
type Source interface {
	Lookup(ctx context.Context, mealID string) (*Meal, error)
}

type Importer struct {
	source  Source
	catalog catalog.Service
}

func NewImporter(source Source, catalogSvc catalog.Service) *Importer {
	return &Importer{source: source, catalog: catalogSvc}
}

// Import pulls one meal from the external catalog and creates it as a
// product. Re-importing the same meal fails with
// catalog.ErrDuplicateExternalID.
func (i *Importer) Import(ctx context.Context, mealID string) (*catalog.Product, error) {
	meal, err := i.source.Lookup(ctx, mealID)
	if err != nil {
		log.Error().Err(err).Str("meal_id", mealID).Msg("meals: external lookup failed")
		return nil, fmt.Errorf("meals: failed to look up meal %q: %w", mealID, err)
	}
	if meal == nil {
		return nil, ErrMealNotFound
	}

	category, err := i.catalog.EnsureCategory(ctx, meal.Category)
	if err != nil {
		return nil, fmt.Errorf("meals: failed to resolve category for meal %q: %w", mealID, err)
	}

	product, err := i.catalog.CreateProduct(ctx, &catalog.Product{
		Name:             meal.Name,
		Description:      meal.ShortInstructions,
		CategoryID:       category.ID,
		Price:            defaultImportPrice,
		IsAvailable:      true,
		ExternalSourceID: meal.ExternalID,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateExternalID) {
			return nil, catalog.ErrDuplicateExternalID
		}
		return nil, fmt.Errorf("meals: failed to create product for meal %q: %w", mealID, err)
	}

	log.Info().Str("meal_id", mealID).Str("name", meal.Name).Msg("meals: meal imported")
	return product, nil
}
