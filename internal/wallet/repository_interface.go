package wallet

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrWalletNotFound          = errors.New("wallet not found")
	ErrWalletExists            = errors.New("wallet already exists for profile")
	ErrCodeCollision           = errors.New("deposit code collision")
	ErrWalletNotActive         = errors.New("wallet is not active")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInvalidStatusTransition = errors.New("invalid wallet status transition")
	ErrStatusConflict          = errors.New("wallet status changed concurrently")
	ErrTransactionNotFound     = errors.New("transaction not found")
)

// Directory maps wallets to their owners and deposit codes.
type Directory interface {
	Resolve(ctx context.Context, code string) (Wallet, error)
	GetByID(ctx context.Context, id uuid.UUID) (Wallet, error)
	GetByOwner(ctx context.Context, profileID int) (Wallet, error)
	Create(ctx context.Context, profileID int) (Wallet, error)
	// Ensure returns the profile's wallet, creating it if needed. created is
	// true only for the call that inserted the row.
	Ensure(ctx context.Context, profileID int) (w Wallet, created bool, err error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (Wallet, error)
	ListProfilesWithoutWallet(ctx context.Context, afterProfileID, limit int) ([]int, error)
}

// Ledger is the append-only transaction store. Append is also the
// idempotency gate: a second append with the same (source, external ref)
// returns the stored row with AlreadyProcessed set and changes nothing.
type Ledger interface {
	Append(ctx context.Context, txn Transaction) (AppendResult, error)
	GetByRef(ctx context.Context, source Source, ref string) (Transaction, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]Transaction, error)
	ListFailed(ctx context.Context, reason FailureReason, limit, offset int) ([]Transaction, error)
	ComputeBalance(ctx context.Context, walletID uuid.UUID) (int64, error)
	RepairBalance(ctx context.Context, walletID uuid.UUID) (BalanceAudit, error)
}
