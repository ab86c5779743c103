package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fintrackhq/fintrack/internal/core/group/domain"
	"github.com/fintrackhq/fintrack/internal/infra/postgres"
	"github.com/fintrackhq/fintrack/internal/shared/apperr"
)

// GroupRepository implements the group repository on PostgreSQL.
type GroupRepository struct {
	db *postgres.DB
}

// NewGroupRepository creates a PostgreSQL group repository.
func NewGroupRepository(db *postgres.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create persists a new group. A missing owner surfaces as OwnerNotFound.
func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	group.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	query := `
		INSERT INTO transaction_groups (owner_id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.Queryer(ctx).QueryRow(ctx, query,
		group.OwnerID, group.Name, group.Description, group.CreatedAt,
	).Scan(&group.ID)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to create group: %w", err))
	}
	return nil
}

// GetByID fetches a group scoped to its owner.
func (r *GroupRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Group, error) {
	query := `
		SELECT id, owner_id, name, description, created_at
		FROM transaction_groups
		WHERE owner_id = $1 AND id = $2`

	var g domain.Group
	err := r.db.Queryer(ctx).QueryRow(ctx, query, ownerID, id).Scan(
		&g.ID, &g.OwnerID, &g.Name, &g.Description, &g.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, apperr.Newf(apperr.KindGroupNotFound, "group %d not found", id)
	}
	if err != nil {
		return nil, postgres.Classify(fmt.Errorf("failed to get group: %w", err))
	}
	return &g, nil
}

// ListByOwner returns the owner's groups, newest first.
func (r *GroupRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Group, error) {
	query := `
		SELECT id, owner_id, name, description, created_at
		FROM transaction_groups
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Queryer(ctx).Query(ctx, query, ownerID)
	if err != nil {
		return nil, postgres.Classify(fmt.Errorf("failed to list groups: %w", err))
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return nil, postgres.Classify(fmt.Errorf("failed to scan group: %w", err))
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.Classify(fmt.Errorf("failed to iterate groups: %w", err))
	}
	return groups, nil
}

// Update rewrites the group's name and description.
func (r *GroupRepository) Update(ctx context.Context, group *domain.Group) error {
	query := `
		UPDATE transaction_groups
		SET name = $1, description = $2
		WHERE owner_id = $3 AND id = $4`

	tag, err := r.db.Queryer(ctx).Exec(ctx, query,
		group.Name, group.Description, group.OwnerID, group.ID,
	)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to update group: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindGroupNotFound, "group %d not found", group.ID)
	}
	return nil
}

// Delete removes the group. The transactions foreign key is SET NULL, so
// member transactions survive detached.
func (r *GroupRepository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.db.Queryer(ctx).Exec(ctx,
		`DELETE FROM transaction_groups WHERE owner_id = $1 AND id = $2`, ownerID, id,
	)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to delete group: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindGroupNotFound, "group %d not found", id)
	}
	return nil
}
