package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack/internal/core/ledger/domain"
	"github.com/fintrackhq/fintrack/internal/core/ledger/repository"
	ownerdomain "github.com/fintrackhq/fintrack/internal/core/owner/domain"
	"github.com/fintrackhq/fintrack/internal/shared/apperr"
	"github.com/fintrackhq/fintrack/pkg/logger"
	"github.com/fintrackhq/fintrack/pkg/money"
)

type fakeTxRepo struct {
	repository.TransactionRepository

	insertErr  error
	updateErr  error
	deleteErr  error
	listResult []*domain.Transaction
	listErr    error
	lastDelta  decimal.Decimal

	inserted     []*domain.Transaction
	updated      []*domain.Transaction
	deletedIDs   []int64
	filteredOpts []repository.ListOptions
}

func (f *fakeTxRepo) Insert(_ context.Context, tx *domain.Transaction) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	tx.ID = int64(len(f.inserted) + 1)
	f.inserted = append(f.inserted, tx)
	return nil
}

func (f *fakeTxRepo) Update(_ context.Context, tx *domain.Transaction) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, tx)
	return nil
}

func (f *fakeTxRepo) Delete(_ context.Context, _, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeTxRepo) ListByOwner(_ context.Context, _ int64) ([]*domain.Transaction, error) {
	return f.listResult, f.listErr
}

func (f *fakeTxRepo) ListByOwnerFiltered(_ context.Context, _ int64, opts repository.ListOptions) ([]*domain.Transaction, error) {
	f.filteredOpts = append(f.filteredOpts, opts)
	return f.listResult, f.listErr
}

func (f *fakeTxRepo) ListByOwnerAndKind(_ context.Context, _ int64, _ domain.Kind) ([]*domain.Transaction, error) {
	return f.listResult, f.listErr
}

func (f *fakeTxRepo) ListByOwnerAndDateRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Transaction, error) {
	return f.listResult, f.listErr
}

func (f *fakeTxRepo) LastCumulativeDelta(_ context.Context, _ int64) (decimal.Decimal, error) {
	return f.lastDelta, nil
}

type fakeOwnerRepo struct {
	owners map[int64]*ownerdomain.Owner
}

func (f *fakeOwnerRepo) Create(_ context.Context, _ *ownerdomain.Owner) error { return nil }

func (f *fakeOwnerRepo) GetByID(_ context.Context, id int64) (*ownerdomain.Owner, error) {
	owner, ok := f.owners[id]
	if !ok {
		return nil, apperr.Newf(apperr.KindOwnerNotFound, "owner %d not found", id)
	}
	return owner, nil
}

func (f *fakeOwnerRepo) GetByEmail(_ context.Context, _ string) (*ownerdomain.Owner, error) {
	return nil, apperr.New(apperr.KindOwnerNotFound, "owner not found")
}

func (f *fakeOwnerRepo) Update(_ context.Context, _ *ownerdomain.Owner) error { return nil }

func (f *fakeOwnerRepo) UpdateInitialBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	owner, ok := f.owners[id]
	if !ok {
		return apperr.Newf(apperr.KindOwnerNotFound, "owner %d not found", id)
	}
	owner.InitialBalance = balance
	return nil
}

func (f *fakeOwnerRepo) Delete(_ context.Context, _ int64) error { return nil }

func (f *fakeOwnerRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.owners[id]
	return ok, nil
}

type fakeUOW struct {
	runs int
	err  error
}

func (f *fakeUOW) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.runs++
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

func newService(txRepo *fakeTxRepo, owners *fakeOwnerRepo, uow *fakeUOW) *LedgerService {
	return NewLedgerService(txRepo, owners, uow, logger.NewDefault("test"), 0)
}

func createParams(ownerID int64) domain.NewTransactionParams {
	return domain.NewTransactionParams{
		OwnerID:       ownerID,
		Kind:          domain.KindExpense,
		Amount:        money.MustParse("42.00"),
		Date:          time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Subject:       "Internet bill",
		PaymentMethod: domain.PaymentBankTransfer,
	}
}

func TestLedgerServiceCreate(t *testing.T) {
	t.Run("success runs insert inside unit of work", func(t *testing.T) {
		txRepo := &fakeTxRepo{}
		owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{7: {ID: 7}}}
		uow := &fakeUOW{}
		svc := newService(txRepo, owners, uow)

		tx, err := svc.Create(context.Background(), createParams(7))
		require.NoError(t, err)
		assert.Equal(t, int64(1), tx.ID)
		assert.Equal(t, 1, uow.runs)
		assert.Len(t, txRepo.inserted, 1)
		assert.True(t, tx.SignedAmount.Equal(money.MustParse("-42.00")))
	})

	t.Run("validation failure never reaches the store", func(t *testing.T) {
		txRepo := &fakeTxRepo{}
		owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{7: {ID: 7}}}
		uow := &fakeUOW{}
		svc := newService(txRepo, owners, uow)

		p := createParams(7)
		p.Subject = ""
		_, err := svc.Create(context.Background(), p)
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
		assert.Zero(t, uow.runs)
	})

	t.Run("missing owner fails before the unit of work", func(t *testing.T) {
		txRepo := &fakeTxRepo{}
		owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{}}
		uow := &fakeUOW{}
		svc := newService(txRepo, owners, uow)

		_, err := svc.Create(context.Background(), createParams(7))
		require.Error(t, err)
		assert.Equal(t, apperr.KindOwnerNotFound, apperr.KindOf(err))
		assert.Zero(t, uow.runs)
	})

	t.Run("conflict from the unit of work propagates", func(t *testing.T) {
		txRepo := &fakeTxRepo{}
		owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{7: {ID: 7}}}
		uow := &fakeUOW{err: apperr.New(apperr.KindConflict, "serialization conflict persisted across retries")}
		svc := newService(txRepo, owners, uow)

		_, err := svc.Create(context.Background(), createParams(7))
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})
}

func TestLedgerServiceUpdate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		txRepo := &fakeTxRepo{}
		owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{7: {ID: 7}}}
		uow := &fakeUOW{}
		svc := newService(txRepo, owners, uow)

		tx, err := svc.Update(context.Background(), 11, createParams(7))
		require.NoError(t, err)
		assert.Equal(t, int64(11), tx.ID)
		require.Len(t, txRepo.updated, 1)
		assert.Equal(t, int64(11), txRepo.updated[0].ID)
	})

	t.Run("not found propagates unchanged", func(t *testing.T) {
		txRepo := &fakeTxRepo{updateErr: apperr.New(apperr.KindNotFound, "transaction 11 not found")}
		owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{7: {ID: 7}}}
		svc := newService(txRepo, owners, &fakeUOW{})

		_, err := svc.Update(context.Background(), 11, createParams(7))
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestLedgerServiceDelete(t *testing.T) {
	txRepo := &fakeTxRepo{}
	owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{7: {ID: 7}}}
	uow := &fakeUOW{}
	svc := newService(txRepo, owners, uow)

	require.NoError(t, svc.Delete(context.Background(), 7, 3))
	assert.Equal(t, []int64{3}, txRepo.deletedIDs)
	assert.Equal(t, 1, uow.runs)
}

func TestLedgerServiceListings(t *testing.T) {
	rows := []*domain.Transaction{
		{Kind: domain.KindIncome, Amount: money.MustParse("1000.00")},
		{Kind: domain.KindExpense, Amount: money.MustParse("250.00")},
	}

	t.Run("list by owner carries a summary", func(t *testing.T) {
		txRepo := &fakeTxRepo{listResult: rows}
		svc := newService(txRepo, &fakeOwnerRepo{}, &fakeUOW{})

		listing, err := svc.ListByOwner(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, 2, listing.Summary.Count)
		assert.True(t, listing.Summary.NetChange.Equal(money.MustParse("750.00")))
	})

	t.Run("filtered rejects inverted date range", func(t *testing.T) {
		svc := newService(&fakeTxRepo{}, &fakeOwnerRepo{}, &fakeUOW{})

		from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.ListByOwnerFiltered(context.Background(), 7, repository.ListOptions{
			DateFrom: &from,
			DateTo:   &to,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidDateRange, apperr.KindOf(err))
	})

	t.Run("date range rejects from after to", func(t *testing.T) {
		svc := newService(&fakeTxRepo{}, &fakeOwnerRepo{}, &fakeUOW{})

		from := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.ListByOwnerAndDateRange(context.Background(), 7, from, to)
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidDateRange, apperr.KindOf(err))
	})

	t.Run("kind listing rejects unknown kind", func(t *testing.T) {
		svc := newService(&fakeTxRepo{}, &fakeOwnerRepo{}, &fakeUOW{})

		_, err := svc.ListByOwnerAndKind(context.Background(), 7, "TRANSFER")
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidKind, apperr.KindOf(err))
	})
}

func TestBalanceService(t *testing.T) {
	t.Run("balance is initial plus last delta", func(t *testing.T) {
		owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{
			7: {ID: 7, InitialBalance: money.MustParse("100.00")},
		}}
		txRepo := &fakeTxRepo{lastDelta: money.MustParse("-40.50")}
		svc := NewBalanceService(owners, txRepo)

		b, err := svc.GetBalance(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, b.InitialBalance.Equal(money.MustParse("100.00")))
		assert.True(t, b.CumulativeDelta.Equal(money.MustParse("-40.50")))
		assert.True(t, b.CurrentBalance.Equal(money.MustParse("59.50")))
	})

	t.Run("empty ledger reports the initial balance", func(t *testing.T) {
		owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{
			7: {ID: 7, InitialBalance: money.MustParse("100.00")},
		}}
		svc := NewBalanceService(owners, &fakeTxRepo{lastDelta: decimal.Zero})

		b, err := svc.GetBalance(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, b.CurrentBalance.Equal(money.MustParse("100.00")))
	})

	t.Run("missing owner", func(t *testing.T) {
		svc := NewBalanceService(&fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{}}, &fakeTxRepo{})

		_, err := svc.GetBalance(context.Background(), 9)
		require.Error(t, err)
		assert.Equal(t, apperr.KindOwnerNotFound, apperr.KindOf(err))
	})

	t.Run("set initial balance rejects bad scale", func(t *testing.T) {
		owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{7: {ID: 7}}}
		svc := NewBalanceService(owners, &fakeTxRepo{})

		bad := money.MustParse("10").Div(money.MustParse("3"))
		err := svc.SetInitialBalance(context.Background(), 7, bad)
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidAmount, apperr.KindOf(err))
	})

	t.Run("set initial balance updates the owner", func(t *testing.T) {
		owners := &fakeOwnerRepo{owners: map[int64]*ownerdomain.Owner{7: {ID: 7}}}
		svc := NewBalanceService(owners, &fakeTxRepo{})

		require.NoError(t, svc.SetInitialBalance(context.Background(), 7, money.MustParse("500.00")))
		assert.True(t, owners.owners[7].InitialBalance.Equal(money.MustParse("500.00")))
	})
}
