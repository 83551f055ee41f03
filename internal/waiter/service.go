package waiter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPin covers both an unknown PIN and a role mismatch; login
// failures are deliberately indistinguishable to the caller.
var ErrInvalidPin = errors.New("invalid pin")

type Service interface {
	// LoginWithPin authenticates any active staff member by PIN.
	LoginWithPin(ctx context.Context, pin string) (*Waiter, error)
	// LoginManagerWithPin additionally requires the manager flag.
	LoginManagerWithPin(ctx context.Context, pin string) (*Waiter, error)
	GetWaiter(ctx context.Context, id uuid.UUID) (*Waiter, error)
	CreateWaiter(ctx context.Context, fullName, pin string, isManager bool) (*Waiter, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LoginWithPin(ctx context.Context, pin string) (*Waiter, error) {
	return s.login(ctx, pin, false)
}

func (s *service) LoginManagerWithPin(ctx context.Context, pin string) (*Waiter, error) {
	return s.login(ctx, pin, true)
}

func (s *service) login(ctx context.Context, pin string, managerOnly bool) (*Waiter, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return nil, ErrInvalidPin
	}

	waiters, err := s.repo.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list waiters for login")
		return nil, fmt.Errorf("service: failed to list waiters for login: %w", err)
	}

	// PINs are not lookup keys, only hashes are stored; the staff
	// roster is small enough to compare one by one.
	for i := range waiters {
		w := &waiters[i]
		if managerOnly && !w.IsManager {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(w.PinHash), []byte(pin)) == nil {
			log.Info().Stringer("waiter_id", w.ID).Bool("manager", w.IsManager).Msg("service: waiter logged in")
			return w, nil
		}
	}

	return nil, ErrInvalidPin
}

func (s *service) GetWaiter(ctx context.Context, id uuid.UUID) (*Waiter, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWaiterNotFound) {
			return nil, ErrWaiterNotFound
		}

		log.Error().Err(err).Stringer("waiter_id", id).Msg("service: failed to fetch waiter")
		return nil, fmt.Errorf("service: failed to fetch waiter: %w", err)
	}

	return w, nil
}

func (s *service) CreateWaiter(ctx context.Context, fullName, pin string, isManager bool) (*Waiter, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, errors.New("service: waiter name is required")
	}
	if len(strings.TrimSpace(pin)) < 4 {
		return nil, errors.New("service: pin must be at least 4 digits")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service: failed to hash pin: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate waiter id: %w", err)
	}

	w := &Waiter{
		ID:        id,
		FullName:  fullName,
		PinHash:   string(hash),
		IsActive:  true,
		IsManager: isManager,
	}

	if err := s.repo.Create(ctx, w); err != nil {
		log.Error().Err(err).Str("full_name", fullName).Msg("service: failed to create waiter")
		return nil, fmt.Errorf("service: failed to create waiter: %w", err)
	}

	return w, nil
}
