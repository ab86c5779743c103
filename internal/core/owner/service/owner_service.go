package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/core/owner/domain"
	"github.com/fintrackhq/fintrack/internal/core/owner/repository"
	"github.com/fintrackhq/fintrack/internal/shared/apperr"
	"github.com/fintrackhq/fintrack/pkg/logger"
)

// OwnerService handles owner account management.
type OwnerService struct {
	repo repository.OwnerRepository
	log  *logger.Logger
}

// NewOwnerService creates a new owner service.
func NewOwnerService(repo repository.OwnerRepository, log *logger.Logger) *OwnerService {
	return &OwnerService{repo: repo, log: log}
}

// Register creates a new owner with a hashed password and the given
// starting balance. A duplicate email surfaces as DuplicateEmail.
func (s *OwnerService) Register(ctx context.Context, name, email, password string, initialBalance decimal.Decimal) (*domain.Owner, error) {
	owner, err := domain.NewOwner(name, email, password, initialBalance)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, owner); err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("owner registered", "owner_id", owner.ID)
	return owner, nil
}

// GetByID retrieves an owner by id.
func (s *OwnerService) GetByID(ctx context.Context, id int64) (*domain.Owner, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves an owner by email.
func (s *OwnerService) GetByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	return s.repo.GetByEmail(ctx, email)
}

// UpdateProfile changes the owner's name and email.
func (s *OwnerService) UpdateProfile(ctx context.Context, id int64, name, email string) (*domain.Owner, error) {
	owner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)

	var errs apperr.ValidationErrors
	if vErr := domain.ValidateName(name); vErr != nil {
		errs = append(errs, vErr)
	}
	if vErr := domain.ValidateEmail(email); vErr != nil {
		errs = append(errs, vErr)
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	owner.Name = name
	owner.Email = email

	if err := s.repo.Update(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

// ChangePassword rehashes and stores a new password.
func (s *OwnerService) ChangePassword(ctx context.Context, id int64, password string) error {
	owner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := owner.SetPassword(password); err != nil {
		return err
	}
	return s.repo.Update(ctx, owner)
}

// Delete removes the owner. The storage schema cascades the deletion to
// the owner's ledger rows and transaction groups.
func (s *OwnerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("owner deleted", "owner_id", id)
	return nil
}
