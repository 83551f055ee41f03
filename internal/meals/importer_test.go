package meals_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/meals"
)

type mockSource struct {
	meals map[string]*meals.Meal
}

func (m *mockSource) Lookup(ctx context.Context, mealID string) (*meals.Meal, error) {
	return m.meals[mealID], nil
}

// mockCatalog fakes just enough of catalog.Service for the importer.
type mockCatalog struct {
	categories map[string]*catalog.Category
	products   []*catalog.Product
	createErr  error
}

func (m *mockCatalog) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return nil, catalog.ErrProductNotFound
}

func (m *mockCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) { return nil, nil }

func (m *mockCatalog) ListAvailableProducts(ctx context.Context) ([]catalog.Product, error) {
	return nil, nil
}

func (m *mockCatalog) CreateProduct(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	id, _ := uuid.NewV4()
	p.ID = id
	m.products = append(m.products, p)
	return p, nil
}

func (m *mockCatalog) UpdateProduct(ctx context.Context, p *catalog.Product) error { return nil }

func (m *mockCatalog) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return nil, nil
}

func (m *mockCatalog) CreateCategory(ctx context.Context, name string, displayOrder int) (*catalog.Category, error) {
	id, _ := uuid.NewV4()
	c := &catalog.Category{ID: id, Name: name, DisplayOrder: displayOrder}
	m.categories[name] = c
	return c, nil
}

func (m *mockCatalog) EnsureCategory(ctx context.Context, name string) (*catalog.Category, error) {
	if name == "" {
		name = "Food"
	}
	if c, ok := m.categories[name]; ok {
		return c, nil
	}
	return m.CreateCategory(ctx, name, 999)
}

func TestImporter_Import(t *testing.T) {
	source := &mockSource{meals: map[string]*meals.Meal{
		"52723": {
			ExternalID:        "52723",
			Name:              "Mushroom Risotto",
			Category:          "Vegetarian",
			ShortInstructions: "Heat the stock.",
		},
	}}
	cat := &mockCatalog{categories: make(map[string]*catalog.Category)}

	imp := meals.NewImporter(source, cat)
	p, err := imp.Import(context.Background(), "52723")
	require.NoError(t, err)

	assert.Equal(t, "Mushroom Risotto", p.Name)
	assert.Equal(t, 250, p.Price)
	assert.True(t, p.IsAvailable)
	assert.Equal(t, "52723", p.ExternalSourceID)

	require.Contains(t, cat.categories, "Vegetarian")
	assert.Equal(t, cat.categories["Vegetarian"].ID, p.CategoryID)
}

func TestImporter_Import_UnknownMeal(t *testing.T) {
	imp := meals.NewImporter(&mockSource{}, &mockCatalog{categories: make(map[string]*catalog.Category)})

	_, err := imp.Import(context.Background(), "missing")
	assert.ErrorIs(t, err, meals.ErrMealNotFound)
}

func TestImporter_Import_Duplicate(t *testing.T) {
	source := &mockSource{meals: map[string]*meals.Meal{
		"52723": {ExternalID: "52723", Name: "Mushroom Risotto", Category: "Vegetarian"},
	}}
	cat := &mockCatalog{
		categories: make(map[string]*catalog.Category),
		createErr:  catalog.ErrDuplicateExternalID,
	}

	imp := meals.NewImporter(source, cat)
	_, err := imp.Import(context.Background(), "52723")
	assert.ErrorIs(t, err, catalog.ErrDuplicateExternalID)
}
