package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/core/owner/domain"
	"github.com/fintrackhq/fintrack/internal/infra/postgres"
	"github.com/fintrackhq/fintrack/internal/shared/apperr"
)

// OwnerRepository implements the owner repository on PostgreSQL.
type OwnerRepository struct {
	db *postgres.DB
}

// NewOwnerRepository creates a PostgreSQL owner repository.
func NewOwnerRepository(db *postgres.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Create persists a new owner.
func (r *OwnerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	owner.CreatedAt = now
	owner.UpdatedAt = now

	query := `
		INSERT INTO owners (name, email, password_hash, initial_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.Queryer(ctx).QueryRow(ctx, query,
		owner.Name,
		owner.Email,
		owner.PasswordHash,
		owner.InitialBalance.String(),
		owner.CreatedAt,
		owner.UpdatedAt,
	).Scan(&owner.ID)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to create owner: %w", err))
	}
	return nil
}

// GetByID fetches an owner by id.
func (r *OwnerRepository) GetByID(ctx context.Context, id int64) (*domain.Owner, error) {
	query := `
		SELECT id, name, email, password_hash, initial_balance::text, created_at, updated_at
		FROM owners
		WHERE id = $1`
	return r.scanOwner(r.db.Queryer(ctx).QueryRow(ctx, query, id))
}

// GetByEmail fetches an owner by normalized email.
func (r *OwnerRepository) GetByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	query := `
		SELECT id, name, email, password_hash, initial_balance::text, created_at, updated_at
		FROM owners
		WHERE email = $1`
	return r.scanOwner(r.db.Queryer(ctx).QueryRow(ctx, query, domain.NormalizeEmail(email)))
}

// Update rewrites the owner's profile fields.
func (r *OwnerRepository) Update(ctx context.Context, owner *domain.Owner) error {
	owner.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	query := `
		UPDATE owners
		SET name = $1, email = $2, password_hash = $3, updated_at = $4
		WHERE id = $5`

	tag, err := r.db.Queryer(ctx).Exec(ctx, query,
		owner.Name, owner.Email, owner.PasswordHash, owner.UpdatedAt, owner.ID,
	)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to update owner: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindOwnerNotFound, "owner %d not found", owner.ID)
	}
	return nil
}

// UpdateInitialBalance sets the owner's initial balance. Ledger rows and
// their cumulative deltas are untouched; the current balance shifts
// uniformly because it is defined as initial plus last delta.
func (r *OwnerRepository) UpdateInitialBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	query := `UPDATE owners SET initial_balance = $1, updated_at = $2 WHERE id = $3`

	now := time.Now().UTC().Truncate(time.Microsecond)
	tag, err := r.db.Queryer(ctx).Exec(ctx, query, balance.String(), now, id)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to update initial balance: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindOwnerNotFound, "owner %d not found", id)
	}
	return nil
}

// Delete removes the owner; the schema cascades to their ledger and groups.
func (r *OwnerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Queryer(ctx).Exec(ctx, `DELETE FROM owners WHERE id = $1`, id)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to delete owner: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindOwnerNotFound, "owner %d not found", id)
	}
	return nil
}

// Exists reports whether the owner exists.
func (r *OwnerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.Queryer(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM owners WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, postgres.Classify(fmt.Errorf("failed to check owner existence: %w", err))
	}
	return exists, nil
}

func (r *OwnerRepository) scanOwner(row pgx.Row) (*domain.Owner, error) {
	var (
		owner   domain.Owner
		balance string
	)
	err := row.Scan(
		&owner.ID,
		&owner.Name,
		&owner.Email,
		&owner.PasswordHash,
		&balance,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, apperr.New(apperr.KindOwnerNotFound, "owner not found")
	}
	if err != nil {
		return nil, postgres.Classify(fmt.Errorf("failed to scan owner: %w", err))
	}
	if owner.InitialBalance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("failed to parse initial balance %q: %w", balance, err)
	}
	return &owner, nil
}
