package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	// GetProduct is the single lookup the order ledger performs to
	// snapshot a price at add-item time.
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)

	ListProducts(ctx context.Context) ([]Product, error)
	ListAvailableProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string, displayOrder int) (*Category, error)
	// EnsureCategory returns the category with the given name,
	// creating it when missing. Used by the meal importer.
	EnsureCategory(ctx context.Context, name string) (*Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrProductNotFound
		}

		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to fetch product")
		return nil, fmt.Errorf("service: failed to fetch product %s: %w", id, err)
	}

	return p, nil
}

func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list products")
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	return products, nil
}

func (s *service) ListAvailableProducts(ctx context.Context) ([]Product, error) {
	products, err := s.repo.ListAvailableProducts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list available products")
		return nil, fmt.Errorf("service: failed to list available products: %w", err)
	}

	return products, nil
}

func (s *service) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, errors.New("service: product name is required")
	}
	if p.Price < 0 {
		return nil, errors.New("service: product price cannot be negative")
	}

	if p.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("service: failed to generate product id: %w", err)
		}
		p.ID = id
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateExternalID) {
			return nil, ErrDuplicateExternalID
		}

		log.Error().Err(err).Str("name", p.Name).Msg("service: failed to create product")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	log.Info().Stringer("product_id", p.ID).Str("name", p.Name).Msg("service: product created")
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, p *Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("service: product name is required")
	}
	if p.Price < 0 {
		return errors.New("service: product price cannot be negative")
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}

		log.Error().Err(err).Stringer("product_id", p.ID).Msg("service: failed to update product")
		return fmt.Errorf("service: failed to update product: %w", err)
	}

	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list categories")
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}

	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, name string, displayOrder int) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("service: category name is required")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate category id: %w", err)
	}

	c := &Category{ID: id, Name: name, DisplayOrder: displayOrder}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		log.Error().Err(err).Str("name", name).Msg("service: failed to create category")
		return nil, fmt.Errorf("service: failed to create category: %w", err)
	}

	return c, nil
}

func (s *service) EnsureCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Food"
	}

	c, err := s.repo.GetCategoryByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		log.Error().Err(err).Str("name", name).Msg("service: failed to look up category")
		return nil, fmt.Errorf("service: failed to look up category %q: %w", name, err)
	}

	// Imported categories sort after the curated menu.
	return s.CreateCategory(ctx, name, 999)
}
