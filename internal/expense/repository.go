package expense

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	List(ctx context.Context) ([]Expense, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, e *Expense) error {
	query := `
		INSERT INTO expenses (id, description, amount, spent_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.Exec(ctx, query, e.ID, e.Description, e.Amount, e.SpentAt); err != nil {
		return fmt.Errorf("repository: failed to insert expense: %w", err)
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Expense, error) {
	query := `
		SELECT id, description, amount, spent_at
		FROM expenses
		ORDER BY spent_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]Expense, 0)
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.SpentAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating expenses: %w", err)
	}

	return expenses, nil
}
