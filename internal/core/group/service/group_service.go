package service

import (
	"context"

	"github.com/fintrackhq/fintrack/internal/core/group/domain"
	"github.com/fintrackhq/fintrack/internal/core/group/repository"
	"github.com/fintrackhq/fintrack/pkg/logger"
)

// GroupService handles transaction group management.
type GroupService struct {
	repo repository.GroupRepository
	log  *logger.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(repo repository.GroupRepository, log *logger.Logger) *GroupService {
	return &GroupService{repo: repo, log: log}
}

// Create validates and persists a new group for the owner.
func (s *GroupService) Create(ctx context.Context, ownerID int64, name, description string) (*domain.Group, error) {
	group, err := domain.NewGroup(ownerID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetByID retrieves a group scoped to its owner.
func (s *GroupService) GetByID(ctx context.Context, ownerID, id int64) (*domain.Group, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// ListByOwner returns the owner's groups.
func (s *GroupService) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Group, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update validates and rewrites a group.
func (s *GroupService) Update(ctx context.Context, ownerID, id int64, name, description string) (*domain.Group, error) {
	group, err := domain.NewGroup(ownerID, name, description)
	if err != nil {
		return nil, err
	}
	group.ID = id

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes a group; its transactions keep their rows with a null
// group reference.
func (s *GroupService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.repo.Delete(ctx, ownerID, id)
}
