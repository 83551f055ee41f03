package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrDuplicateExternalID = errors.New("product with this external source id already exists")
)

type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListAvailableProducts(ctx context.Context) ([]Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetProductByExternalID(ctx context.Context, externalID string) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryByName(ctx context.Context, name string) (*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const productColumns = `id, name, description, category_id, price, is_available, COALESCE(external_source_id, '')`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.Price, &p.IsAvailable, &p.ExternalSourceID)
}

func (r *postgresRepository) ListProducts(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, fmt.Sprintf(`SELECT %s FROM products ORDER BY name ASC`, productColumns))
}

func (r *postgresRepository) ListAvailableProducts(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, fmt.Sprintf(`SELECT %s FROM products WHERE is_available ORDER BY name ASC`, productColumns))
}

func (r *postgresRepository) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}

	return products, nil
}

func (r *postgresRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var p Product
	if err := scanProduct(r.db.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product by id %s: %w", id, err)
	}

	return &p, nil
}

func (r *postgresRepository) GetProductByExternalID(ctx context.Context, externalID string) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE external_source_id = $1`, productColumns)

	var p Product
	if err := scanProduct(r.db.QueryRow(ctx, query, externalID), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product by external id %s: %w", externalID, err)
	}

	return &p, nil
}

func (r *postgresRepository) CreateProduct(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (id, name, description, category_id, price, is_available, external_source_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
	`

	_, err := r.db.Exec(ctx, query, p.ID, p.Name, p.Description, p.CategoryID, p.Price, p.IsAvailable, p.ExternalSourceID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateExternalID
		}
		return fmt.Errorf("repository: failed to insert product: %w", err)
	}

	return nil
}

func (r *postgresRepository) UpdateProduct(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, category_id = $3, price = $4, is_available = $5
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query, p.Name, p.Description, p.CategoryID, p.Price, p.IsAvailable, p.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update product %s: %w", p.ID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *postgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, name, display_order
		FROM product_categories
		ORDER BY display_order ASC, name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("repository: failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *postgresRepository) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	query := `
		SELECT id, name, display_order
		FROM product_categories
		WHERE lower(name) = lower($1)
	`

	var c Category
	err := r.db.QueryRow(ctx, query, name).Scan(&c.ID, &c.Name, &c.DisplayOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("repository: failed to select category by name %q: %w", name, err)
	}

	return &c, nil
}

func (r *postgresRepository) CreateCategory(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO product_categories (id, name, display_order)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Exec(ctx, query, c.ID, c.Name, c.DisplayOrder); err != nil {
		return fmt.Errorf("repository: failed to insert category: %w", err)
	}

	return nil
}
