package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/core/ledger/domain"
	"github.com/fintrackhq/fintrack/internal/core/ledger/repository"
	"github.com/fintrackhq/fintrack/internal/infra/postgres"
	"github.com/fintrackhq/fintrack/internal/shared/apperr"
)

const transactionColumns = `
	id, owner_id, kind, amount::text, signed_amount::text, cumulative_delta::text,
	date, subject, notes, payment_method, category_id, group_id, created_at, updated_at`

// TransactionRepository implements the ledger repository on PostgreSQL.
// Mutations keep each owner's cumulative_delta column equal to the running
// sum of signed_amount over (date, created_at, id) ascending; the repair
// statements below are what make that hold after arbitrary edits.
type TransactionRepository struct {
	db *postgres.DB
}

// NewTransactionRepository creates a PostgreSQL transaction repository.
func NewTransactionRepository(db *postgres.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Insert persists tx and repairs the cumulative deltas of every row that
// follows it in the owner's ordering. Callers mutate history, so rows after
// the insertion point all shift by the new signed amount.
func (r *TransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	q := r.db.Queryer(ctx)

	now := time.Now().UTC().Truncate(time.Microsecond)
	tx.CreatedAt = now
	tx.UpdatedAt = now

	insertQuery := `
		INSERT INTO transactions (
			owner_id, kind, amount, signed_amount, cumulative_delta,
			date, subject, notes, payment_method, category_id, group_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := q.QueryRow(ctx, insertQuery,
		tx.OwnerID,
		string(tx.Kind),
		tx.Amount.String(),
		tx.SignedAmount.String(),
		tx.Date,
		tx.Subject,
		tx.Notes,
		string(tx.PaymentMethod),
		tx.CategoryID,
		tx.GroupID,
		tx.CreatedAt,
		tx.UpdatedAt,
	).Scan(&tx.ID)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to insert transaction: %w", err))
	}

	prev, err := r.cumulativeBefore(ctx, q, tx.OwnerID, tx.ID, tx.Date, tx.CreatedAt)
	if err != nil {
		return err
	}
	tx.CumulativeDelta = prev.Add(tx.SignedAmount)

	setQuery := `UPDATE transactions SET cumulative_delta = $1 WHERE id = $2`
	if _, err := q.Exec(ctx, setQuery, tx.CumulativeDelta.String(), tx.ID); err != nil {
		return postgres.Classify(fmt.Errorf("failed to set cumulative delta: %w", err))
	}

	repairQuery := `
		UPDATE transactions
		SET cumulative_delta = cumulative_delta + $1, updated_at = $2
		WHERE owner_id = $3 AND (date, created_at, id) > ($4, $5, $6)`
	_, err = q.Exec(ctx, repairQuery,
		tx.SignedAmount.String(), tx.UpdatedAt,
		tx.OwnerID, tx.Date, tx.CreatedAt, tx.ID,
	)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to repair subsequent deltas: %w", err))
	}

	return nil
}

// Update rewrites tx's row and repairs cumulative deltas. The cheap paths
// come first: untouched position and signed amount need no repair at all,
// and a pure amount change only shifts the suffix. Moving a row across
// dates is the general case and repairs the span between the two positions.
func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	q := r.db.Queryer(ctx)

	old, err := r.getByIDWith(ctx, q, tx.OwnerID, tx.ID)
	if err != nil {
		return err
	}

	tx.CreatedAt = old.CreatedAt
	tx.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	sameDate := tx.Date.Equal(old.Date)
	sameSigned := tx.SignedAmount.Equal(old.SignedAmount)

	switch {
	case sameDate && sameSigned:
		tx.CumulativeDelta = old.CumulativeDelta
		return r.updateRow(ctx, q, tx)

	case sameDate:
		delta := tx.SignedAmount.Sub(old.SignedAmount)
		tx.CumulativeDelta = old.CumulativeDelta.Add(delta)
		if err := r.updateRow(ctx, q, tx); err != nil {
			return err
		}
		return r.shiftAfter(ctx, q, tx.OwnerID, tx.ID, tx.Date, tx.CreatedAt, delta, tx.UpdatedAt)

	default:
		return r.moveRow(ctx, q, old, tx)
	}
}

// moveRow handles a date change. The row keeps its created_at and id, so
// its ordering key slides from (oldDate, c, id) to (newDate, c, id) and
// every row between the two positions gains or loses one term of the
// prefix sum. Rows past both positions shift by the signed-amount change.
func (r *TransactionRepository) moveRow(ctx context.Context, q postgres.Queryer, old, tx *domain.Transaction) error {
	forward := tx.Date.After(old.Date)

	prev, prevAfterOld, err := r.cumulativeBeforeExcluding(ctx, q,
		tx.OwnerID, tx.ID, tx.Date, tx.CreatedAt, old.Date)
	if err != nil {
		return err
	}
	// The predecessor at the new position still carries the moving row's
	// old signed amount when it sits past the old position.
	if forward && prevAfterOld {
		prev = prev.Sub(old.SignedAmount)
	}
	tx.CumulativeDelta = prev.Add(tx.SignedAmount)

	if err := r.updateRow(ctx, q, tx); err != nil {
		return err
	}

	if forward {
		betweenQuery := `
			UPDATE transactions
			SET cumulative_delta = cumulative_delta - $1, updated_at = $2
			WHERE owner_id = $3 AND id <> $4
			  AND (date, created_at, id) > ($5, $6, $4)
			  AND (date, created_at, id) < ($7, $6, $4)`
		_, err = q.Exec(ctx, betweenQuery,
			old.SignedAmount.String(), tx.UpdatedAt,
			tx.OwnerID, tx.ID, old.Date, tx.CreatedAt, tx.Date,
		)
	} else {
		betweenQuery := `
			UPDATE transactions
			SET cumulative_delta = cumulative_delta + $1, updated_at = $2
			WHERE owner_id = $3 AND id <> $4
			  AND (date, created_at, id) > ($5, $6, $4)
			  AND (date, created_at, id) < ($7, $6, $4)`
		_, err = q.Exec(ctx, betweenQuery,
			tx.SignedAmount.String(), tx.UpdatedAt,
			tx.OwnerID, tx.ID, tx.Date, tx.CreatedAt, old.Date,
		)
	}
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to repair deltas between positions: %w", err))
	}

	delta := tx.SignedAmount.Sub(old.SignedAmount)
	if delta.IsZero() {
		return nil
	}
	tailDate := old.Date
	if forward {
		tailDate = tx.Date
	}
	return r.shiftAfter(ctx, q, tx.OwnerID, tx.ID, tailDate, tx.CreatedAt, delta, tx.UpdatedAt)
}

// Delete removes the row and pulls its signed amount out of every later
// cumulative delta in the same statement.
func (r *TransactionRepository) Delete(ctx context.Context, ownerID, id int64) error {
	q := r.db.Queryer(ctx)

	if _, err := r.getByIDWith(ctx, q, ownerID, id); err != nil {
		return err
	}

	query := `
		WITH removed AS (
			DELETE FROM transactions
			WHERE owner_id = $1 AND id = $2
			RETURNING owner_id, date, created_at, id, signed_amount
		)
		UPDATE transactions t
		SET cumulative_delta = t.cumulative_delta - r.signed_amount, updated_at = $3
		FROM removed r
		WHERE t.owner_id = r.owner_id
		  AND (t.date, t.created_at, t.id) > (r.date, r.created_at, r.id)`

	now := time.Now().UTC().Truncate(time.Microsecond)
	if _, err := q.Exec(ctx, query, ownerID, id, now); err != nil {
		return postgres.Classify(fmt.Errorf("failed to delete transaction: %w", err))
	}
	return nil
}

// GetByID fetches a single transaction scoped to its owner.
func (r *TransactionRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Transaction, error) {
	return r.getByIDWith(ctx, r.db.Queryer(ctx), ownerID, id)
}

// ListAll returns every transaction across all owners, newest first.
func (r *TransactionRepository) ListAll(ctx context.Context) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY date DESC, created_at DESC, id DESC`
	return r.list(ctx, query)
}

// ListByOwner returns the owner's transactions, newest first.
func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE owner_id = $1
		ORDER BY date DESC, created_at DESC, id DESC`
	return r.list(ctx, query, ownerID)
}

// ListByOwnerFiltered applies the listing options as a dynamic WHERE clause
// plus the sort contract: date first, the chosen secondary field next,
// created_at as the deterministic tie-break, all in one direction.
func (r *TransactionRepository) ListByOwnerFiltered(ctx context.Context, ownerID int64, opts repository.ListOptions) ([]*domain.Transaction, error) {
	conditions := []string{"owner_id = $1"}
	args := []any{ownerID}
	argPos := 2

	if opts.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("subject ILIKE '%%' || $%d || '%%'", argPos))
		args = append(args, opts.Subject)
		argPos++
	}
	if len(opts.CategoryIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("category_id = ANY($%d)", argPos))
		args = append(args, opts.CategoryIDs)
		argPos++
	}
	if len(opts.PaymentMethods) > 0 {
		methods := make([]string, 0, len(opts.PaymentMethods))
		for _, pm := range opts.PaymentMethods {
			methods = append(methods, string(pm))
		}
		conditions = append(conditions, fmt.Sprintf("payment_method = ANY($%d)", argPos))
		args = append(args, methods)
		argPos++
	}
	if opts.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argPos))
		args = append(args, string(*opts.Kind))
		argPos++
	}
	if opts.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argPos))
		args = append(args, domain.DateOnly(*opts.DateFrom))
		argPos++
	}
	if opts.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argPos))
		args = append(args, domain.DateOnly(*opts.DateTo))
		argPos++
	}

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY ` + orderClause(opts)

	return r.list(ctx, query, args...)
}

// ListByOwnerAndKind returns the owner's transactions of one kind, newest first.
func (r *TransactionRepository) ListByOwnerAndKind(ctx context.Context, ownerID int64, kind domain.Kind) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE owner_id = $1 AND kind = $2
		ORDER BY date DESC, created_at DESC, id DESC`
	return r.list(ctx, query, ownerID, string(kind))
}

// ListByOwnerAndDateRange returns the owner's transactions with dates in
// [from, to], newest first.
func (r *TransactionRepository) ListByOwnerAndDateRange(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE owner_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC, created_at DESC, id DESC`
	return r.list(ctx, query, ownerID, domain.DateOnly(from), domain.DateOnly(to))
}

// LastCumulativeDelta returns the cumulative delta of the owner's last row
// under the ordering key, or zero for an empty ledger.
func (r *TransactionRepository) LastCumulativeDelta(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	query := `
		SELECT cumulative_delta::text
		FROM transactions
		WHERE owner_id = $1
		ORDER BY date DESC, created_at DESC, id DESC
		LIMIT 1`

	var raw string
	err := r.db.Queryer(ctx).QueryRow(ctx, query, ownerID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, postgres.Classify(fmt.Errorf("failed to read last cumulative delta: %w", err))
	}
	return parseDecimal(raw)
}

func (r *TransactionRepository) getByIDWith(ctx context.Context, q postgres.Queryer, ownerID, id int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE owner_id = $1 AND id = $2`

	tx, err := scanTransaction(q.QueryRow(ctx, query, ownerID, id))
	if err == pgx.ErrNoRows {
		return nil, apperr.Newf(apperr.KindNotFound, "transaction %d not found", id)
	}
	if err != nil {
		return nil, postgres.Classify(fmt.Errorf("failed to get transaction: %w", err))
	}
	return tx, nil
}

// cumulativeBefore returns the cumulative delta of the rightmost row that
// precedes (date, createdAt, id) in the owner's ordering, zero when none.
func (r *TransactionRepository) cumulativeBefore(ctx context.Context, q postgres.Queryer, ownerID, id int64, date, createdAt time.Time) (decimal.Decimal, error) {
	query := `
		SELECT cumulative_delta::text
		FROM transactions
		WHERE owner_id = $1 AND (date, created_at, id) < ($2, $3, $4)
		ORDER BY date DESC, created_at DESC, id DESC
		LIMIT 1`

	var raw string
	err := q.QueryRow(ctx, query, ownerID, date, createdAt, id).Scan(&raw)
	if err == pgx.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, postgres.Classify(fmt.Errorf("failed to read preceding delta: %w", err))
	}
	return parseDecimal(raw)
}

// cumulativeBeforeExcluding is cumulativeBefore with the moving row itself
// excluded. It also reports whether the predecessor sits after the moving
// row's old position, which decides if its delta still contains the old
// signed amount.
func (r *TransactionRepository) cumulativeBeforeExcluding(ctx context.Context, q postgres.Queryer, ownerID, id int64, date, createdAt time.Time, oldDate time.Time) (decimal.Decimal, bool, error) {
	query := `
		SELECT cumulative_delta::text, (date, created_at, id) > ($5, $3, $4)
		FROM transactions
		WHERE owner_id = $1 AND id <> $4 AND (date, created_at, id) < ($2, $3, $4)
		ORDER BY date DESC, created_at DESC, id DESC
		LIMIT 1`

	var (
		raw      string
		afterOld bool
	)
	err := q.QueryRow(ctx, query, ownerID, date, createdAt, id, oldDate).Scan(&raw, &afterOld)
	if err == pgx.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, postgres.Classify(fmt.Errorf("failed to read preceding delta: %w", err))
	}
	d, err := parseDecimal(raw)
	return d, afterOld, err
}

func (r *TransactionRepository) updateRow(ctx context.Context, q postgres.Queryer, tx *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET kind = $1, amount = $2, signed_amount = $3, cumulative_delta = $4,
		    date = $5, subject = $6, notes = $7, payment_method = $8,
		    category_id = $9, group_id = $10, updated_at = $11
		WHERE owner_id = $12 AND id = $13`

	tag, err := q.Exec(ctx, query,
		string(tx.Kind),
		tx.Amount.String(),
		tx.SignedAmount.String(),
		tx.CumulativeDelta.String(),
		tx.Date,
		tx.Subject,
		tx.Notes,
		string(tx.PaymentMethod),
		tx.CategoryID,
		tx.GroupID,
		tx.UpdatedAt,
		tx.OwnerID,
		tx.ID,
	)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to update transaction: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "transaction %d not found", tx.ID)
	}
	return nil
}

// shiftAfter adds delta to the cumulative delta of every row strictly after
// the given ordering key, excluding the row identified by id.
func (r *TransactionRepository) shiftAfter(ctx context.Context, q postgres.Queryer, ownerID, id int64, date, createdAt time.Time, delta decimal.Decimal, now time.Time) error {
	query := `
		UPDATE transactions
		SET cumulative_delta = cumulative_delta + $1, updated_at = $2
		WHERE owner_id = $3 AND id <> $4 AND (date, created_at, id) > ($5, $6, $4)`

	_, err := q.Exec(ctx, query, delta.String(), now, ownerID, id, date, createdAt)
	if err != nil {
		return postgres.Classify(fmt.Errorf("failed to shift subsequent deltas: %w", err))
	}
	return nil
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.db.Queryer(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.Classify(fmt.Errorf("failed to list transactions: %w", err))
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransactionRows(rows)
		if err != nil {
			return nil, postgres.Classify(fmt.Errorf("failed to scan transaction: %w", err))
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.Classify(fmt.Errorf("failed to iterate transactions: %w", err))
	}
	return txs, nil
}

func orderClause(opts repository.ListOptions) string {
	dir := "ASC"
	if opts.IsDescending() {
		dir = "DESC"
	}

	secondary := ""
	switch opts.SortBy {
	case repository.SortBySubject:
		secondary = "subject"
	case repository.SortByPaymentMethod:
		secondary = "payment_method"
	case repository.SortByCategory:
		secondary = "category_id"
	case repository.SortByAmount:
		secondary = "amount"
	}

	parts := []string{"date " + dir}
	if secondary != "" {
		parts = append(parts, secondary+" "+dir)
	}
	parts = append(parts, "created_at "+dir, "id "+dir)
	return strings.Join(parts, ", ")
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	return scanFrom(row.Scan)
}

func scanTransactionRows(rows pgx.Rows) (*domain.Transaction, error) {
	return scanFrom(rows.Scan)
}

func scanFrom(scan func(dest ...any) error) (*domain.Transaction, error) {
	var (
		tx                 domain.Transaction
		kind, method       string
		amount, signed, cm string
	)
	err := scan(
		&tx.ID,
		&tx.OwnerID,
		&kind,
		&amount,
		&signed,
		&cm,
		&tx.Date,
		&tx.Subject,
		&tx.Notes,
		&method,
		&tx.CategoryID,
		&tx.GroupID,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Kind = domain.Kind(kind)
	tx.PaymentMethod = domain.PaymentMethod(method)
	if tx.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if tx.SignedAmount, err = parseDecimal(signed); err != nil {
		return nil, err
	}
	if tx.CumulativeDelta, err = parseDecimal(cm); err != nil {
		return nil, err
	}
	tx.Date = domain.DateOnly(tx.Date)
	return &tx, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse numeric %q: %w", s, err)
	}
	return d, nil
}
