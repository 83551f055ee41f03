package waiter

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrWaiterNotFound = errors.New("waiter not found")

type Repository interface {
	Create(ctx context.Context, w *Waiter) error
	GetByID(ctx context.Context, id uuid.UUID) (*Waiter, error)
	ListActive(ctx context.Context) ([]Waiter, error)
	Count(ctx context.Context) (int, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, w *Waiter) error {
	query := `
		INSERT INTO waiters (id, full_name, pin_hash, is_active, is_manager)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.Exec(ctx, query, w.ID, w.FullName, w.PinHash, w.IsActive, w.IsManager); err != nil {
		return fmt.Errorf("repository: failed to insert waiter: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Waiter, error) {
	query := `
		SELECT id, full_name, pin_hash, is_active, is_manager, created_at
		FROM waiters
		WHERE id = $1
	`

	var w Waiter
	err := r.db.QueryRow(ctx, query, id).Scan(&w.ID, &w.FullName, &w.PinHash, &w.IsActive, &w.IsManager, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWaiterNotFound
		}
		return nil, fmt.Errorf("repository: failed to select waiter by id %s: %w", id, err)
	}

	return &w, nil
}

func (r *postgresRepository) ListActive(ctx context.Context) ([]Waiter, error) {
	query := `
		SELECT id, full_name, pin_hash, is_active, is_manager, created_at
		FROM waiters
		WHERE is_active
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query active waiters: %w", err)
	}
	defer rows.Close()

	waiters := make([]Waiter, 0)
	for rows.Next() {
		var w Waiter
		if err := rows.Scan(&w.ID, &w.FullName, &w.PinHash, &w.IsActive, &w.IsManager, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan waiter: %w", err)
		}
		waiters = append(waiters, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating waiters: %w", err)
	}

	return waiters, nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM waiters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repository: failed to count waiters: %w", err)
	}
	return n, nil
}
