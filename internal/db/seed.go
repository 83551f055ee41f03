package db

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/table"
	"restaurant-pos/internal/waiter"
)

const (
	seedTableCount = 15

	mainWaiterName = "Main Waiter"
	mainWaiterPin  = "1111"
	managerName    = "Manager"
	managerPin     = "9999"
)

// Seeder fills an empty database with the starter roster, floor plan
// and menu. Every step is skipped when data already exists, so running
// it on every startup is safe.
type Seeder struct {
	Tables     table.Repository
	Waiters    waiter.Repository
	WaiterSvc  waiter.Service
	CatalogSvc catalog.Service
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedWaiters(ctx); err != nil {
		return err
	}
	if err := s.seedTables(ctx); err != nil {
		return err
	}
	return s.seedCatalog(ctx)
}

func (s *Seeder) seedWaiters(ctx context.Context) error {
	count, err := s.Waiters.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: failed to count waiters: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := s.WaiterSvc.CreateWaiter(ctx, mainWaiterName, mainWaiterPin, false); err != nil {
		return fmt.Errorf("seed: failed to create waiter: %w", err)
	}
	if _, err := s.WaiterSvc.CreateWaiter(ctx, managerName, managerPin, true); err != nil {
		return fmt.Errorf("seed: failed to create manager: %w", err)
	}

	log.Info().Msg("Seeded staff roster")
	return nil
}

func (s *Seeder) seedTables(ctx context.Context) error {
	existing, err := s.Tables.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: failed to list tables: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for n := 1; n <= seedTableCount; n++ {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("seed: failed to generate table id: %w", err)
		}
		if err := s.Tables.Create(ctx, &table.Table{ID: id, TableNumber: n, Status: table.StatusFree}); err != nil {
			return fmt.Errorf("seed: failed to create table %d: %w", n, err)
		}
	}

	log.Info().Int("tables", seedTableCount).Msg("Seeded floor plan")
	return nil
}

func (s *Seeder) seedCatalog(ctx context.Context) error {
	categories, err := s.CatalogSvc.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("seed: failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		for i, name := range []string{"Drinks", "Food", "Desserts", "Coffee"} {
			c, err := s.CatalogSvc.CreateCategory(ctx, name, i+1)
			if err != nil {
				return fmt.Errorf("seed: failed to create category %q: %w", name, err)
			}
			categories = append(categories, *c)
		}
	}

	products, err := s.CatalogSvc.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("seed: failed to list products: %w", err)
	}
	if len(products) > 0 {
		return nil
	}

	catByName := make(map[string]uuid.UUID, len(categories))
	for _, c := range categories {
		catByName[c.Name] = c.ID
	}

	starter := []struct {
		name     string
		category string
		price    int
	}{
		{"Coca-Cola", "Drinks", 80},
		{"Fanta", "Drinks", 80},
		{"Water", "Drinks", 50},
		{"Espresso", "Coffee", 70},
		{"Cappuccino", "Coffee", 90},
		{"Chicken Burger", "Food", 220},
		{"Cheeseburger", "Food", 240},
		{"Greek Salad", "Food", 180},
		{"Cheesecake", "Desserts", 150},
		{"Chocolate Cake", "Desserts", 160},
	}

	for _, p := range starter {
		categoryID, ok := catByName[p.category]
		if !ok {
			return fmt.Errorf("seed: category %q missing for product %q", p.category, p.name)
		}
		if _, err := s.CatalogSvc.CreateProduct(ctx, &catalog.Product{
			Name:        p.name,
			CategoryID:  categoryID,
			Price:       p.price,
			IsAvailable: true,
		}); err != nil {
			return fmt.Errorf("seed: failed to create product %q: %w", p.name, err)
		}
	}

	log.Info().Int("products", len(starter)).Msg("Seeded starter menu")
	return nil
}
