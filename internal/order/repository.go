package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"restaurant-pos/internal/table"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrItemNotFound  = errors.New("order item not found")
	ErrOrderNotOpen  = errors.New("order is not open")
	ErrEmptyOrder    = errors.New("order has no items")
)

type Repository interface {
	// OpenOrder opens an order for the table, or returns the already
	// open one. created reports whether a new order row was made.
	OpenOrder(ctx context.Context, tableID, waiterID uuid.UUID) (o *Order, created bool, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// GetOpenByTable returns (nil, nil) when the table has no open order.
	GetOpenByTable(ctx context.Context, tableID uuid.UUID) (*Order, error)
	AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity, unitPrice int) (*OrderItem, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	Cancel(ctx context.Context, orderID uuid.UUID) error
	Close(ctx context.Context, orderID uuid.UUID, payment PaymentMethod) (*Order, error)
	GetItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)
}

type postgresRepository struct {
	db     *pgxpool.Pool
	tables table.Repository
}

// NewRepository wires the ledger store. Table occupancy writes go
// through the table repository on the same transaction, so an order
// status and its table status always commit together.
func NewRepository(db *pgxpool.Pool, tables table.Repository) Repository {
	return &postgresRepository{db: db, tables: tables}
}

func (r *postgresRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Error().Err(rbErr).Msg("repository: failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit transaction: %w", err)
	}
	return nil
}

const orderColumns = `id, table_id, waiter_id, status, COALESCE(payment_method, ''), opened_at, closed_at`

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(&o.ID, &o.TableID, &o.WaiterID, &o.Status, &o.PaymentMethod, &o.OpenedAt, &o.ClosedAt)
}

func (r *postgresRepository) OpenOrder(ctx context.Context, tableID, waiterID uuid.UUID) (*Order, bool, error) {
	var o Order
	created := false

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		// Double-submissions resolve to the already open order.
		existing, err := getOpenByTable(ctx, tx, tableID)
		if err != nil {
			return err
		}
		if existing != nil {
			o = *existing
			return nil
		}

		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate order id: %w", err)
		}

		o = Order{
			ID:       id,
			TableID:  tableID,
			WaiterID: waiterID,
			Status:   StatusOpen,
			OpenedAt: time.Now().UTC(),
		}

		query := `
			INSERT INTO orders (id, table_id, waiter_id, status, opened_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, query, o.ID, o.TableID, o.WaiterID, o.Status, o.OpenedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case pgerrcode.UniqueViolation:
					// Lost the race against a concurrent open on the
					// same table; that order wins.
					lost, lookupErr := getOpenByTable(ctx, tx, tableID)
					if lookupErr != nil {
						return lookupErr
					}
					if lost == nil {
						return fmt.Errorf("repository: open order vanished after unique violation on table %s", tableID)
					}
					o = *lost
					return nil
				case pgerrcode.ForeignKeyViolation:
					return table.ErrTableNotFound
				}
			}
			return fmt.Errorf("repository: failed to insert order: %w", err)
		}

		if err := r.tables.MarkOccupied(ctx, tx, tableID); err != nil {
			return err
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &o, created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	var o Order
	if err := scanOrder(r.db.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	return &o, nil
}

func (r *postgresRepository) GetOpenByTable(ctx context.Context, tableID uuid.UUID) (*Order, error) {
	return getOpenByTable(ctx, r.db, tableID)
}

func getOpenByTable(ctx context.Context, q table.DB, tableID uuid.UUID) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE table_id = $1 AND status = $2`, orderColumns)

	var o Order
	if err := scanOrder(q.QueryRow(ctx, query, tableID, StatusOpen), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to select open order for table %s: %w", tableID, err)
	}

	return &o, nil
}

// lockOrder reads the order row FOR UPDATE so concurrent lifecycle
// operations on the same order serialize.
func lockOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 FOR UPDATE`, orderColumns)

	var o Order
	if err := scanOrder(tx.QueryRow(ctx, query, orderID), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to lock order %s: %w", orderID, err)
	}

	return &o, nil
}

func (r *postgresRepository) AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity, unitPrice int) (*OrderItem, error) {
	var result OrderItem

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.Status != StatusOpen {
			return ErrOrderNotOpen
		}

		existing, err := getLineForUpdate(ctx, tx, orderID, productID)
		if err != nil {
			return err
		}

		line, createLine := MergeLine(existing, orderID, productID, quantity, unitPrice)
		if createLine {
			id, err := uuid.NewV4()
			if err != nil {
				return fmt.Errorf("repository: failed to generate order item id: %w", err)
			}
			line.ID = id

			query := `
				INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5, $6)
			`
			if _, err := tx.Exec(ctx, query, line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal); err != nil {
				return fmt.Errorf("repository: failed to insert order item: %w", err)
			}
		} else {
			query := `
				UPDATE order_items
				SET quantity = $1, line_total = $2
				WHERE id = $3
			`
			if _, err := tx.Exec(ctx, query, line.Quantity, line.LineTotal, line.ID); err != nil {
				return fmt.Errorf("repository: failed to update order item %s: %w", line.ID, err)
			}
		}

		result = line
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func getLineForUpdate(ctx context.Context, tx pgx.Tx, orderID, productID uuid.UUID) (*OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = $1 AND product_id = $2
		FOR UPDATE
	`

	var it OrderItem
	err := tx.QueryRow(ctx, query, orderID, productID).Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.LineTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to select order item for order %s product %s: %w", orderID, productID, err)
	}

	return &it, nil
}

func (r *postgresRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			SELECT id, order_id, product_id, quantity, unit_price, line_total
			FROM order_items
			WHERE id = $1
			FOR UPDATE
		`

		var it OrderItem
		err := tx.QueryRow(ctx, query, itemID).Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.LineTotal)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrItemNotFound
			}
			return fmt.Errorf("repository: failed to select order item %s: %w", itemID, err)
		}

		o, err := lockOrder(ctx, tx, it.OrderID)
		if err != nil {
			return err
		}
		if o.Status != StatusOpen {
			return ErrOrderNotOpen
		}

		line, deleted := DecrementLine(it)
		if deleted {
			if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, itemID); err != nil {
				return fmt.Errorf("repository: failed to delete order item %s: %w", itemID, err)
			}
			return nil
		}

		updateQuery := `
			UPDATE order_items
			SET quantity = $1, line_total = $2
			WHERE id = $3
		`
		if _, err := tx.Exec(ctx, updateQuery, line.Quantity, line.LineTotal, itemID); err != nil {
			return fmt.Errorf("repository: failed to update order item %s: %w", itemID, err)
		}
		return nil
	})
}

func (r *postgresRepository) Cancel(ctx context.Context, orderID uuid.UUID) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.Status != StatusOpen {
			return ErrOrderNotOpen
		}

		// Cancelled orders keep no lines; nothing is billed.
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
			return fmt.Errorf("repository: failed to delete items of order %s: %w", orderID, err)
		}

		if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, StatusCancelled, orderID); err != nil {
			return fmt.Errorf("repository: failed to cancel order %s: %w", orderID, err)
		}

		return r.tables.MarkFree(ctx, tx, o.TableID)
	})
}

func (r *postgresRepository) Close(ctx context.Context, orderID uuid.UUID, payment PaymentMethod) (*Order, error) {
	var closed Order

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.Status != StatusOpen {
			return ErrOrderNotOpen
		}

		var itemCount int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, orderID).Scan(&itemCount); err != nil {
			return fmt.Errorf("repository: failed to count items of order %s: %w", orderID, err)
		}
		if itemCount == 0 {
			return ErrEmptyOrder
		}

		closedAt := time.Now().UTC()
		query := `
			UPDATE orders
			SET status = $1, payment_method = $2, closed_at = $3
			WHERE id = $4
		`
		if _, err := tx.Exec(ctx, query, StatusClosed, payment, closedAt, orderID); err != nil {
			return fmt.Errorf("repository: failed to close order %s: %w", orderID, err)
		}

		closed = *o
		closed.Status = StatusClosed
		closed.PaymentMethod = payment
		closed.ClosedAt = &closedAt

		return r.tables.MarkFree(ctx, tx, o.TableID)
	})
	if err != nil {
		return nil, err
	}

	return &closed, nil
}

func (r *postgresRepository) GetItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query items of order %s: %w", orderID, err)
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating items of order %s: %w", orderID, err)
	}

	return items, nil
}
