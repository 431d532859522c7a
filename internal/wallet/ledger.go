package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sehub/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const externalRefConstraint = "wallet_transactions_source_external_ref_key"

const transactionColumns = `id, wallet_id, amount, direction, source, status, external_ref, reason, deposit_code, raw_description, note, created_at`

const ledgerSumQuery = `
	SELECT COALESCE(SUM(CASE WHEN direction = 'CREDIT' THEN amount ELSE -amount END), 0)::BIGINT
	FROM wallet_transactions
	WHERE wallet_id = $1 AND status = 'COMPLETED'
`

type ledger struct {
	db *sqlx.DB
}

func NewLedger(db *sqlx.DB) Ledger {
	return &ledger{db: db}
}

// Append inserts txn and, for a COMPLETED row, moves the wallet balance in
// the same database transaction. The balance is changed with a single
// relative UPDATE so concurrent credits to one wallet serialise on the row
// lock instead of overwriting each other.
func (l *ledger) Append(ctx context.Context, txn Transaction) (AppendResult, error) {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return AppendResult{}, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	var stored Transaction
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (`+transactionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (source, external_ref) WHERE external_ref IS NOT NULL DO NOTHING
		 RETURNING `+transactionColumns,
		txn.ID, txn.WalletID, txn.Amount, txn.Direction, txn.Source, txn.Status,
		txn.ExternalRef, txn.Reason, txn.DepositCode, txn.RawDescription, txn.Note, txn.CreatedAt,
	).StructScan(&stored)
	if (errors.Is(err, sql.ErrNoRows) || db.IsUniqueViolation(err, externalRefConstraint)) && txn.ExternalRef != nil {
		_ = tx.Rollback()
		return l.alreadyProcessed(ctx, txn.Source, *txn.ExternalRef)
	}
	if err != nil {
		return AppendResult{}, fmt.Errorf("insert transaction: %w", err)
	}

	balance, err := applyBalance(ctx, tx, stored)
	if err != nil {
		return AppendResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return AppendResult{}, fmt.Errorf("commit append: %w", err)
	}

	return AppendResult{Transaction: stored, Balance: balance}, nil
}

func applyBalance(ctx context.Context, tx *sqlx.Tx, t Transaction) (int64, error) {
	if !t.WalletID.Valid {
		return 0, nil
	}

	var balance int64
	if t.Status != TxCompleted {
		err := tx.GetContext(ctx, &balance, `SELECT balance FROM wallets WHERE id = $1`, t.WalletID.UUID)
		if err != nil {
			return 0, fmt.Errorf("read balance: %w", err)
		}
		return balance, nil
	}

	err := tx.GetContext(ctx, &balance,
		`UPDATE wallets
		 SET balance = balance + $2, updated_at = NOW()
		 WHERE id = $1 AND status = 'ACTIVE' AND balance + $2 >= 0
		 RETURNING balance`,
		t.WalletID.UUID, t.SignedAmount(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, balanceRejection(ctx, tx, t.WalletID.UUID)
	}
	if err != nil {
		return 0, fmt.Errorf("update balance: %w", err)
	}
	return balance, nil
}

// balanceRejection explains why the guarded balance UPDATE matched no row.
func balanceRejection(ctx context.Context, tx *sqlx.Tx, walletID uuid.UUID) error {
	var status Status
	err := tx.GetContext(ctx, &status, `SELECT status FROM wallets WHERE id = $1`, walletID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrWalletNotFound
	case err != nil:
		return fmt.Errorf("read wallet status: %w", err)
	case status != StatusActive:
		return ErrWalletNotActive
	default:
		return ErrInsufficientBalance
	}
}

func (l *ledger) alreadyProcessed(ctx context.Context, source Source, ref string) (AppendResult, error) {
	stored, err := l.GetByRef(ctx, source, ref)
	if err != nil {
		return AppendResult{}, fmt.Errorf("load processed transaction: %w", err)
	}

	res := AppendResult{Transaction: stored, AlreadyProcessed: true}
	if stored.WalletID.Valid {
		if err := l.db.GetContext(ctx, &res.Balance, `SELECT balance FROM wallets WHERE id = $1`, stored.WalletID.UUID); err != nil {
			return AppendResult{}, fmt.Errorf("read balance: %w", err)
		}
	}
	return res, nil
}

func (l *ledger) GetByRef(ctx context.Context, source Source, ref string) (Transaction, error) {
	var t Transaction
	err := l.db.GetContext(ctx, &t,
		`SELECT `+transactionColumns+` FROM wallet_transactions WHERE source = $1 AND external_ref = $2`,
		source, ref,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (l *ledger) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	txs := []Transaction{}
	err := l.db.SelectContext(ctx, &txs, `
		SELECT `+transactionColumns+`
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// ListFailed returns FAILED notifications, newest first. An empty reason
// lists every reason.
func (l *ledger) ListFailed(ctx context.Context, reason FailureReason, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	txs := []Transaction{}
	err := l.db.SelectContext(ctx, &txs, `
		SELECT `+transactionColumns+`
		FROM wallet_transactions
		WHERE status = 'FAILED' AND ($1 = '' OR reason = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, string(reason), limit, offset)
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (l *ledger) ComputeBalance(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var sum int64
	if err := l.db.GetContext(ctx, &sum, ledgerSumQuery, walletID); err != nil {
		return 0, err
	}
	return sum, nil
}

// RepairBalance rewrites the cached balance from the ledger while holding
// the wallet row lock.
func (l *ledger) RepairBalance(ctx context.Context, walletID uuid.UUID) (BalanceAudit, error) {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return BalanceAudit{}, err
	}
	defer tx.Rollback()

	var cached int64
	err = tx.GetContext(ctx, &cached, `SELECT balance FROM wallets WHERE id = $1 FOR UPDATE`, walletID)
	if errors.Is(err, sql.ErrNoRows) {
		return BalanceAudit{}, ErrWalletNotFound
	}
	if err != nil {
		return BalanceAudit{}, err
	}

	var sum int64
	if err := tx.GetContext(ctx, &sum, ledgerSumQuery, walletID); err != nil {
		return BalanceAudit{}, err
	}

	if sum != cached {
		_, err = tx.ExecContext(ctx,
			`UPDATE wallets SET balance = $2, updated_at = NOW() WHERE id = $1`,
			walletID, sum,
		)
		if err != nil {
			return BalanceAudit{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return BalanceAudit{}, err
	}

	return BalanceAudit{
		WalletID:   walletID,
		Cached:     cached,
		Ledger:     sum,
		Consistent: cached == sum,
	}, nil
}
