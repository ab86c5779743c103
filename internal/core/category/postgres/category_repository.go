package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fintrackhq/fintrack/internal/core/category/domain"
	"github.com/fintrackhq/fintrack/internal/infra/postgres"
	"github.com/fintrackhq/fintrack/internal/shared/apperr"
)

// CategoryRepository implements the category repository on PostgreSQL.
type CategoryRepository struct {
	db *postgres.DB
}

// NewCategoryRepository creates a PostgreSQL category repository.
func NewCategoryRepository(db *postgres.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create persists a new category. Duplicate names surface as DuplicateName.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	category.CreatedAt = now
	category.UpdatedAt = now

	query := `
		INSERT INTO categories (name, description, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.Queryer(ctx).QueryRow(ctx, query,
		category.Name, category.Description, category.Icon,
		category.CreatedAt, category.UpdatedAt,
	).Scan(&category.ID)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to create category: %w", err))
	}
	return nil
}

// GetByID fetches a category by id.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT id, name, description, icon, created_at, updated_at
		FROM categories
		WHERE id = $1`

	var c domain.Category
	err := r.db.Queryer(ctx).QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Icon, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, apperr.Newf(apperr.KindCategoryNotFound, "category %d not found", id)
	}
	if err != nil {
		return nil, postgres.Classify(fmt.Errorf("failed to get category: %w", err))
	}
	return &c, nil
}

// List returns every category ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, description, icon, created_at, updated_at
		FROM categories
		ORDER BY name`

	rows, err := r.db.Queryer(ctx).Query(ctx, query)
	if err != nil {
		return nil, postgres.Classify(fmt.Errorf("failed to list categories: %w", err))
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, postgres.Classify(fmt.Errorf("failed to scan category: %w", err))
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.Classify(fmt.Errorf("failed to iterate categories: %w", err))
	}
	return categories, nil
}

// Update rewrites the category.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	category.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	query := `
		UPDATE categories
		SET name = $1, description = $2, icon = $3, updated_at = $4
		WHERE id = $5`

	tag, err := r.db.Queryer(ctx).Exec(ctx, query,
		category.Name, category.Description, category.Icon, category.UpdatedAt, category.ID,
	)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to update category: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindCategoryNotFound, "category %d not found", category.ID)
	}
	return nil
}

// Delete removes the category. The transactions foreign key is RESTRICT,
// so a referenced category fails with Conflict rather than cascading.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Queryer(ctx).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperr.Wrap(err, apperr.KindConflict, "category is still referenced by transactions")
		}
		return postgres.Classify(fmt.Errorf("failed to delete category: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindCategoryNotFound, "category %d not found", id)
	}
	return nil
}
