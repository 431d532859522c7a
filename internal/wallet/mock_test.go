package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockDirectory struct{ mock.Mock }
type MockLedger struct{ mock.Mock }
type MockDescriptors struct{ mock.Mock }

func (m *MockDirectory) Resolve(ctx context.Context, code string) (Wallet, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(Wallet), args.Error(1)
}

func (m *MockDirectory) GetByID(ctx context.Context, id uuid.UUID) (Wallet, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Wallet), args.Error(1)
}

func (m *MockDirectory) GetByOwner(ctx context.Context, profileID int) (Wallet, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(Wallet), args.Error(1)
}

func (m *MockDirectory) Create(ctx context.Context, profileID int) (Wallet, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(Wallet), args.Error(1)
}

func (m *MockDirectory) Ensure(ctx context.Context, profileID int) (Wallet, bool, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(Wallet), args.Bool(1), args.Error(2)
}

func (m *MockDirectory) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (Wallet, error) {
	args := m.Called(ctx, id, from, to)
	return args.Get(0).(Wallet), args.Error(1)
}

func (m *MockDirectory) ListProfilesWithoutWallet(ctx context.Context, afterProfileID, limit int) ([]int, error) {
	args := m.Called(ctx, afterProfileID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockLedger) Append(ctx context.Context, txn Transaction) (AppendResult, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(AppendResult), args.Error(1)
}

func (m *MockLedger) GetByRef(ctx context.Context, source Source, ref string) (Transaction, error) {
	args := m.Called(ctx, source, ref)
	return args.Get(0).(Transaction), args.Error(1)
}

func (m *MockLedger) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]Transaction, error) {
	args := m.Called(ctx, walletID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockLedger) ListFailed(ctx context.Context, reason FailureReason, limit, offset int) ([]Transaction, error) {
	args := m.Called(ctx, reason, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockLedger) ComputeBalance(ctx context.Context, walletID uuid.UUID) (int64, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) RepairBalance(ctx context.Context, walletID uuid.UUID) (BalanceAudit, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(BalanceAudit), args.Error(1)
}

func (m *MockDescriptors) Build(depositCode string, amount int64, description string) (string, error) {
	args := m.Called(depositCode, amount, description)
	return args.String(0), args.Error(1)
}
