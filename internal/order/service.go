package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"restaurant-pos/internal/catalog"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrProductUnavailable = errors.New("product is not available")
	ErrWaiterRequired     = errors.New("waiter id is required")
)

// CatalogProvider is the only view of the catalog the ledger needs: a
// single price/availability lookup per added item.
type CatalogProvider interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

type Service interface {
	OpenOrderForTable(ctx context.Context, tableID, waiterID uuid.UUID) (*Order, error)
	AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity int) (*OrderItem, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	CancelOrder(ctx context.Context, orderID uuid.UUID) error
	CloseOrder(ctx context.Context, orderID uuid.UUID, payment PaymentMethod) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOpenOrderForTable(ctx context.Context, tableID uuid.UUID) (*Order, error)
	GetItemsForOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)
	GetTotal(ctx context.Context, orderID uuid.UUID) (int, error)
}

type service struct {
	repo    Repository
	catalog CatalogProvider
}

func NewService(repo Repository, catalog CatalogProvider) Service {
	return &service{repo: repo, catalog: catalog}
}

func (s *service) OpenOrderForTable(ctx context.Context, tableID, waiterID uuid.UUID) (*Order, error) {
	if waiterID == uuid.Nil {
		return nil, ErrWaiterRequired
	}

	o, created, err := s.repo.OpenOrder(ctx, tableID, waiterID)
	if err != nil {
		log.Error().Err(err).Stringer("table_id", tableID).Msg("service: failed to open order")
		return nil, err
	}

	if created {
		log.Info().Stringer("order_id", o.ID).Stringer("table_id", tableID).Stringer("waiter_id", waiterID).Msg("service: order opened")
	} else {
		log.Debug().Stringer("order_id", o.ID).Stringer("table_id", tableID).Msg("service: table already has an open order")
	}

	return o, nil
}

func (s *service) AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity int) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, catalog.ErrProductNotFound
		}

		log.Error().Err(err).Stringer("product_id", productID).Msg("service: failed to look up product for add item")
		return nil, fmt.Errorf("service: failed to look up product: %w", err)
	}
	if !p.IsAvailable {
		return nil, ErrProductUnavailable
	}

	item, err := s.repo.AddItem(ctx, orderID, productID, quantity, p.Price)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrOrderNotOpen) {
			return nil, err
		}

		log.Error().Err(err).Stringer("order_id", orderID).Stringer("product_id", productID).Msg("service: failed to add item")
		return nil, fmt.Errorf("service: failed to add item: %w", err)
	}

	log.Info().
		Stringer("order_id", orderID).
		Stringer("product_id", productID).
		Int("quantity", item.Quantity).
		Int("line_total", item.LineTotal).
		Msg("service: item added")

	return item, nil
}

func (s *service) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	err := s.repo.RemoveItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrOrderNotOpen) {
			return err
		}

		log.Error().Err(err).Stringer("item_id", itemID).Msg("service: failed to remove item")
		return fmt.Errorf("service: failed to remove item: %w", err)
	}

	return nil
}

func (s *service) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	err := s.repo.Cancel(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrOrderNotOpen) {
			return err
		}

		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to cancel order")
		return fmt.Errorf("service: failed to cancel order: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Msg("service: order cancelled")
	return nil
}

func (s *service) CloseOrder(ctx context.Context, orderID uuid.UUID, payment PaymentMethod) (*Order, error) {
	if _, err := ParsePaymentMethod(payment.String()); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	o, err := s.repo.Close(ctx, orderID, payment)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrOrderNotOpen) || errors.Is(err, ErrEmptyOrder) {
			return nil, err
		}

		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to close order")
		return nil, fmt.Errorf("service: failed to close order: %w", err)
	}

	log.Info().
		Stringer("order_id", o.ID).
		Stringer("table_id", o.TableID).
		Str("payment_method", payment.String()).
		Msg("service: order closed")

	return o, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}

		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to fetch order")
		return nil, fmt.Errorf("service: failed to fetch order: %w", err)
	}

	return o, nil
}

func (s *service) GetOpenOrderForTable(ctx context.Context, tableID uuid.UUID) (*Order, error) {
	o, err := s.repo.GetOpenByTable(ctx, tableID)
	if err != nil {
		log.Error().Err(err).Stringer("table_id", tableID).Msg("service: failed to fetch open order for table")
		return nil, fmt.Errorf("service: failed to fetch open order for table: %w", err)
	}

	return o, nil
}

func (s *service) GetItemsForOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	items, err := s.repo.GetItems(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to fetch order items")
		return nil, fmt.Errorf("service: failed to fetch order items: %w", err)
	}

	return items, nil
}

func (s *service) GetTotal(ctx context.Context, orderID uuid.UUID) (int, error) {
	items, err := s.GetItemsForOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}

	return SumLineTotals(items), nil
}
