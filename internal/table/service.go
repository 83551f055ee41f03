package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	ListTables(ctx context.Context) ([]Table, error)
	GetTable(ctx context.Context, id uuid.UUID) (*Table, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListTables(ctx context.Context) ([]Table, error) {
	tables, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list tables")
		return nil, fmt.Errorf("service: failed to list tables: %w", err)
	}

	return tables, nil
}

func (s *service) GetTable(ctx context.Context, id uuid.UUID) (*Table, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTableNotFound) {
			return nil, ErrTableNotFound
		}

		log.Error().Err(err).Stringer("table_id", id).Msg("service: failed to fetch table")
		return nil, fmt.Errorf("service: failed to fetch table %s: %w", id, err)
	}

	return t, nil
}
