package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableConflict = errors.New("table is already occupied by another order")
)

// DB is satisfied by both *pgxpool.Pool and pgx.Tx, so occupancy
// writes can run inside the order ledger's transaction.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	// Create is used at seed time only; tables are never made or
	// removed during normal operation.
	Create(ctx context.Context, t *Table) error
	List(ctx context.Context) ([]Table, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Table, error)
	// MarkOccupied and MarkFree are driven exclusively by order
	// lifecycle transitions and always run on the ledger's tx.
	MarkOccupied(ctx context.Context, q DB, tableID uuid.UUID) error
	MarkFree(ctx context.Context, q DB, tableID uuid.UUID) error
}

type postgresRepository struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, t *Table) error {
	query := `
		INSERT INTO restaurant_tables (id, table_number, status)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Exec(ctx, query, t.ID, t.TableNumber, t.Status); err != nil {
		return fmt.Errorf("repository: failed to insert table %d: %w", t.TableNumber, err)
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Table, error) {
	query := `
		SELECT id, table_number, status
		FROM restaurant_tables
		ORDER BY table_number ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query tables: %w", err)
	}
	defer rows.Close()

	tables := make([]Table, 0)
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.ID, &t.TableNumber, &t.Status); err != nil {
			return nil, fmt.Errorf("repository: failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating tables: %w", err)
	}

	return tables, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Table, error) {
	query := `
		SELECT id, table_number, status
		FROM restaurant_tables
		WHERE id = $1
	`

	var t Table
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.TableNumber, &t.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("repository: failed to select table by id %s: %w", id, err)
	}

	return &t, nil
}

func (r *postgresRepository) MarkOccupied(ctx context.Context, q DB, tableID uuid.UUID) error {
	query := `
		UPDATE restaurant_tables
		SET status = $1
		WHERE id = $2 AND status <> $1
	`

	cmdTag, err := q.Exec(ctx, query, StatusOccupied, tableID)
	if err != nil {
		return fmt.Errorf("repository: failed to mark table %s occupied: %w", tableID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		var status Status
		err := q.QueryRow(ctx, `SELECT status FROM restaurant_tables WHERE id = $1`, tableID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTableNotFound
			}
			return fmt.Errorf("repository: failed to check table %s status: %w", tableID, err)
		}
		return ErrTableConflict
	}

	return nil
}

func (r *postgresRepository) MarkFree(ctx context.Context, q DB, tableID uuid.UUID) error {
	query := `
		UPDATE restaurant_tables
		SET status = $1
		WHERE id = $2
	`

	cmdTag, err := q.Exec(ctx, query, StatusFree, tableID)
	if err != nil {
		return fmt.Errorf("repository: failed to mark table %s free: %w", tableID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrTableNotFound
	}

	return nil
}
