package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	products   []Product
	categories []Category

	createProductFn func(ctx context.Context, p *Product) error
}

func (m *mockRepository) ListProducts(ctx context.Context) ([]Product, error) {
	return m.products, nil
}

func (m *mockRepository) ListAvailableProducts(ctx context.Context) ([]Product, error) {
	var available []Product
	for _, p := range m.products {
		if p.IsAvailable {
			available = append(available, p)
		}
	}
	return available, nil
}

func (m *mockRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *mockRepository) GetProductByExternalID(ctx context.Context, externalID string) (*Product, error) {
	for i := range m.products {
		if m.products[i].ExternalSourceID == externalID {
			return &m.products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *mockRepository) CreateProduct(ctx context.Context, p *Product) error {
	if m.createProductFn != nil {
		return m.createProductFn(ctx, p)
	}
	m.products = append(m.products, *p)
	return nil
}

func (m *mockRepository) UpdateProduct(ctx context.Context, p *Product) error {
	for i := range m.products {
		if m.products[i].ID == p.ID {
			m.products[i] = *p
			return nil
		}
	}
	return ErrProductNotFound
}

func (m *mockRepository) ListCategories(ctx context.Context) ([]Category, error) {
	return m.categories, nil
}

func (m *mockRepository) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	for i := range m.categories {
		if strings.EqualFold(m.categories[i].Name, name) {
			return &m.categories[i], nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (m *mockRepository) CreateCategory(ctx context.Context, c *Category) error {
	m.categories = append(m.categories, *c)
	return nil
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewService(&mockRepository{})
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &Product{Name: "   ", Price: 100})
	assert.Error(t, err)

	_, err = svc.CreateProduct(ctx, &Product{Name: "Lemonade", Price: -1})
	assert.Error(t, err)
}

func TestCreateProduct_AssignsID(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo)

	p, err := svc.CreateProduct(context.Background(), &Product{Name: "Lemonade", Price: 90, IsAvailable: true})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID)
	require.Len(t, repo.products, 1)
	assert.Equal(t, "Lemonade", repo.products[0].Name)
}

func TestCreateProduct_DuplicateExternalID(t *testing.T) {
	repo := &mockRepository{
		createProductFn: func(ctx context.Context, p *Product) error {
			return ErrDuplicateExternalID
		},
	}
	svc := NewService(repo)

	_, err := svc.CreateProduct(context.Background(), &Product{Name: "Baked Salmon", Price: 250, ExternalSourceID: "52959"})
	assert.ErrorIs(t, err, ErrDuplicateExternalID)
}

func TestEnsureCategory(t *testing.T) {
	repo := &mockRepository{
		categories: []Category{{ID: uuid.Must(uuid.NewV4()), Name: "Drinks", DisplayOrder: 1}},
	}
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("returns existing regardless of case", func(t *testing.T) {
		c, err := svc.EnsureCategory(ctx, "drinks")
		require.NoError(t, err)
		assert.Equal(t, repo.categories[0].ID, c.ID)
	})

	t.Run("creates missing with trailing display order", func(t *testing.T) {
		c, err := svc.EnsureCategory(ctx, "Seafood")
		require.NoError(t, err)
		assert.Equal(t, "Seafood", c.Name)
		assert.Equal(t, 999, c.DisplayOrder)
	})

	t.Run("blank name falls back to Food", func(t *testing.T) {
		c, err := svc.EnsureCategory(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "Food", c.Name)
	})
}
