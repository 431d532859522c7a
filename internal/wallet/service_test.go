package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(workers int) (*MockDirectory, *MockLedger, *MockDescriptors, Service) {
	dir := new(MockDirectory)
	ledger := new(MockLedger)
	descriptors := new(MockDescriptors)
	return dir, ledger, descriptors, NewService(dir, ledger, descriptors, workers)
}

func TestService_EnsureWallet(t *testing.T) {
	ctx := context.Background()
	dir, _, _, svc := newTestService(1)

	w := Wallet{ID: uuid.New(), OwnerProfileID: 5, DepositCode: "SEHUBABC", Status: StatusActive}
	dir.On("Ensure", ctx, 5).Return(w, true, nil).Once()
	dir.On("Ensure", ctx, 5).Return(w, false, nil).Once()

	first, err := svc.EnsureWallet(ctx, 5)
	require.NoError(t, err)
	second, err := svc.EnsureWallet(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	dir.AssertExpectations(t)
}

func TestService_CreateWalletsForExistingProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing wallets page by page", func(t *testing.T) {
		dir, _, _, svc := newTestService(4)

		dir.On("ListProfilesWithoutWallet", ctx, 0, backfillBatchSize).Return([]int{1, 2, 3}, nil).Once()
		dir.On("ListProfilesWithoutWallet", ctx, 3, backfillBatchSize).Return([]int{7}, nil).Once()
		dir.On("ListProfilesWithoutWallet", ctx, 7, backfillBatchSize).Return([]int{}, nil).Once()

		dir.On("Ensure", mock.Anything, 1).Return(Wallet{ID: uuid.New()}, true, nil)
		// profile 2 got a wallet from a concurrent signup between listing and ensuring
		dir.On("Ensure", mock.Anything, 2).Return(Wallet{ID: uuid.New()}, false, nil)
		dir.On("Ensure", mock.Anything, 3).Return(Wallet{ID: uuid.New()}, true, nil)
		dir.On("Ensure", mock.Anything, 7).Return(Wallet{ID: uuid.New()}, true, nil)

		created, err := svc.CreateWalletsForExistingProfiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, created)
		dir.AssertExpectations(t)
	})

	t.Run("second run creates nothing", func(t *testing.T) {
		dir, _, _, svc := newTestService(4)
		dir.On("ListProfilesWithoutWallet", ctx, 0, backfillBatchSize).Return([]int{}, nil).Once()

		created, err := svc.CreateWalletsForExistingProfiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
		dir.AssertNotCalled(t, "Ensure", mock.Anything, mock.Anything)
	})

	t.Run("stops on ensure failure", func(t *testing.T) {
		dir, _, _, svc := newTestService(1)
		boom := errors.New("db down")

		dir.On("ListProfilesWithoutWallet", ctx, 0, backfillBatchSize).Return([]int{1}, nil).Once()
		dir.On("Ensure", mock.Anything, 1).Return(Wallet{}, false, boom)

		_, err := svc.CreateWalletsForExistingProfiles(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("freeze an active wallet", func(t *testing.T) {
		dir, _, _, svc := newTestService(1)
		dir.On("GetByID", ctx, id).Return(Wallet{ID: id, Status: StatusActive}, nil)
		dir.On("UpdateStatus", ctx, id, StatusActive, StatusFrozen).Return(Wallet{ID: id, Status: StatusFrozen}, nil)

		w, err := svc.ChangeStatus(ctx, id, StatusFrozen)
		require.NoError(t, err)
		assert.Equal(t, StatusFrozen, w.Status)
		dir.AssertExpectations(t)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		dir, _, _, svc := newTestService(1)
		dir.On("GetByID", ctx, id).Return(Wallet{ID: id, Status: StatusClosed}, nil)

		_, err := svc.ChangeStatus(ctx, id, StatusActive)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		dir.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		dir, _, _, svc := newTestService(1)
		dir.On("GetByID", ctx, id).Return(Wallet{}, ErrWalletNotFound)

		_, err := svc.ChangeStatus(ctx, id, StatusFrozen)
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})
}

func TestService_Adjust(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("validation happens before storage", func(t *testing.T) {
		dir, ledger, _, svc := newTestService(1)

		_, err := svc.Adjust(ctx, id, 0, DirectionCredit, "", "note")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		dir.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("appends a manual adjustment", func(t *testing.T) {
		dir, ledger, _, svc := newTestService(1)
		dir.On("GetByID", ctx, id).Return(Wallet{ID: id, Status: StatusActive}, nil)
		ledger.On("Append", ctx, mock.MatchedBy(func(txn Transaction) bool {
			return txn.Source == SourceManualAdjust && txn.Direction == DirectionDebit &&
				txn.Amount == 300 && txn.Ref() == "ticket-1" && txn.WalletID.UUID == id
		})).Return(AppendResult{Balance: 700}, nil)

		res, err := svc.Adjust(ctx, id, 300, DirectionDebit, "ticket-1", "double credit")
		require.NoError(t, err)
		assert.Equal(t, int64(700), res.Balance)
		ledger.AssertExpectations(t)
	})

	t.Run("insufficient balance is surfaced", func(t *testing.T) {
		dir, ledger, _, svc := newTestService(1)
		dir.On("GetByID", ctx, id).Return(Wallet{ID: id, Status: StatusActive}, nil)
		ledger.On("Append", ctx, mock.Anything).Return(AppendResult{}, ErrInsufficientBalance)

		_, err := svc.Adjust(ctx, id, 300, DirectionDebit, "", "too much")
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})
}

func TestService_Refund(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	dir, ledger, _, svc := newTestService(1)

	dir.On("GetByID", ctx, id).Return(Wallet{ID: id, Status: StatusActive}, nil)
	ledger.On("Append", ctx, mock.MatchedBy(func(txn Transaction) bool {
		return txn.Source == SourceRefund && txn.Ref() == "order-9"
	})).Return(AppendResult{Balance: 900, AlreadyProcessed: true}, nil)

	res, err := svc.Refund(ctx, id, 900, "order-9", "")
	require.NoError(t, err)
	assert.True(t, res.AlreadyProcessed)
}

func TestService_AuditAndRepair(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	dir, ledger, _, svc := newTestService(1)

	dir.On("GetByID", ctx, id).Return(Wallet{ID: id, Balance: 1000}, nil)
	ledger.On("ComputeBalance", ctx, id).Return(int64(800), nil)
	ledger.On("RepairBalance", ctx, id).Return(BalanceAudit{WalletID: id, Cached: 1000, Ledger: 800}, nil)

	audit, err := svc.Audit(ctx, id)
	require.NoError(t, err)
	assert.False(t, audit.Consistent)
	assert.Equal(t, int64(1000), audit.Cached)
	assert.Equal(t, int64(800), audit.Ledger)

	repaired, err := svc.Repair(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(800), repaired.Ledger)
}

func TestService_Transactions(t *testing.T) {
	ctx := context.Background()

	t.Run("profile without wallet has no history", func(t *testing.T) {
		dir, ledger, _, svc := newTestService(1)
		dir.On("GetByOwner", ctx, 3).Return(Wallet{}, ErrWalletNotFound)

		txs, err := svc.Transactions(ctx, 3, 50, 0)
		require.NoError(t, err)
		assert.Empty(t, txs)
		ledger.AssertNotCalled(t, "ListByWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lists the owner's ledger", func(t *testing.T) {
		dir, ledger, _, svc := newTestService(1)
		id := uuid.New()
		dir.On("GetByOwner", ctx, 3).Return(Wallet{ID: id}, nil)
		ledger.On("ListByWallet", ctx, id, 20, 40).Return([]Transaction{{ID: uuid.New()}}, nil)

		txs, err := svc.Transactions(ctx, 3, 20, 40)
		require.NoError(t, err)
		assert.Len(t, txs, 1)
	})
}

func TestService_PaymentDescriptor(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("negative amount", func(t *testing.T) {
		dir, _, _, svc := newTestService(1)
		_, err := svc.PaymentDescriptor(ctx, id, -1, "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "amount", verr.Field)
		dir.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("inactive wallet", func(t *testing.T) {
		dir, _, descriptors, svc := newTestService(1)
		dir.On("GetByID", ctx, id).Return(Wallet{ID: id, DepositCode: "SEHUBABC", Status: StatusFrozen}, nil)

		_, err := svc.PaymentDescriptor(ctx, id, 0, "")
		assert.ErrorIs(t, err, ErrWalletNotActive)
		descriptors.AssertNotCalled(t, "Build", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wallet without code", func(t *testing.T) {
		dir, _, _, svc := newTestService(1)
		dir.On("GetByID", ctx, id).Return(Wallet{ID: id, Status: StatusActive}, nil)

		_, err := svc.PaymentDescriptor(ctx, id, 0, "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "deposit_code", verr.Field)
	})

	t.Run("builds for the wallet's code", func(t *testing.T) {
		dir, _, descriptors, svc := newTestService(1)
		dir.On("GetByID", ctx, id).Return(Wallet{ID: id, DepositCode: "SEHUBABC", Status: StatusActive}, nil)
		descriptors.On("Build", "SEHUBABC", int64(100000), "Nap tien").Return("https://qr.example/x.png", nil)

		url, err := svc.PaymentDescriptor(ctx, id, 100000, "Nap tien")
		require.NoError(t, err)
		assert.Equal(t, "https://qr.example/x.png", url)
	})
}

func TestService_WalletByCode(t *testing.T) {
	ctx := context.Background()
	dir, _, _, svc := newTestService(1)

	w := Wallet{ID: uuid.New(), DepositCode: "SEHUBABC123"}
	dir.On("Resolve", ctx, "SEHUBABC123").Return(w, nil)

	got, err := svc.WalletByCode(ctx, "  sehubabc123 ")
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)

	for _, bad := range []string{"", "SEHUB", "ABC123", "SEHUB ABC", "SEHUBAB-C"} {
		_, err := svc.WalletByCode(ctx, bad)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), bad)
	}
	dir.AssertNumberOfCalls(t, "Resolve", 1)
}
