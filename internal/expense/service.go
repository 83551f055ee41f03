package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	RecordExpense(ctx context.Context, description string, amount int, spentAt time.Time) (*Expense, error)
	ListExpenses(ctx context.Context) ([]Expense, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RecordExpense(ctx context.Context, description string, amount int, spentAt time.Time) (*Expense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.New("service: expense description is required")
	}
	if amount < 0 {
		return nil, errors.New("service: expense amount cannot be negative")
	}
	if spentAt.IsZero() {
		spentAt = time.Now().UTC()
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate expense id: %w", err)
	}

	e := &Expense{ID: id, Description: description, Amount: amount, SpentAt: spentAt}
	if err := s.repo.Create(ctx, e); err != nil {
		log.Error().Err(err).Msg("service: failed to record expense")
		return nil, fmt.Errorf("service: failed to record expense: %w", err)
	}

	log.Info().Stringer("expense_id", e.ID).Int("amount", amount).Msg("service: expense recorded")
	return e, nil
}

func (s *service) ListExpenses(ctx context.Context) ([]Expense, error) {
	expenses, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list expenses")
		return nil, fmt.Errorf("service: failed to list expenses: %w", err)
	}

	return expenses, nil
}
