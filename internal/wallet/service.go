package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"sehub/internal/deposit"
	"sehub/internal/logger"
	"sehub/internal/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const backfillBatchSize = 200

type Service interface {
	EnsureWallet(ctx context.Context, profileID int) (Wallet, error)
	CreateWalletsForExistingProfiles(ctx context.Context) (int, error)
	GetWallet(ctx context.Context, id uuid.UUID) (Wallet, error)
	GetWalletForOwner(ctx context.Context, profileID int) (Wallet, error)
	WalletByCode(ctx context.Context, code string) (Wallet, error)
	Transactions(ctx context.Context, profileID int, limit, offset int) ([]Transaction, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, to Status) (Wallet, error)
	Adjust(ctx context.Context, id uuid.UUID, amount int64, dir Direction, idempotencyKey, note string) (AppendResult, error)
	Refund(ctx context.Context, id uuid.UUID, amount int64, refundOf, note string) (AppendResult, error)
	Audit(ctx context.Context, id uuid.UUID) (BalanceAudit, error)
	Repair(ctx context.Context, id uuid.UUID) (BalanceAudit, error)
	FailedNotifications(ctx context.Context, reason FailureReason, limit, offset int) ([]Transaction, error)
	PaymentDescriptor(ctx context.Context, id uuid.UUID, amount int64, description string) (string, error)
}

// DescriptorBuilder turns a deposit code into the string a QR renderer
// consumes.
type DescriptorBuilder interface {
	Build(depositCode string, amount int64, description string) (string, error)
}

type service struct {
	dir         Directory
	ledger      Ledger
	descriptors DescriptorBuilder
	workers     int
}

func NewService(dir Directory, ledger Ledger, descriptors DescriptorBuilder, backfillWorkers int) Service {
	if backfillWorkers <= 0 {
		backfillWorkers = 1
	}
	return &service{
		dir:         dir,
		ledger:      ledger,
		descriptors: descriptors,
		workers:     backfillWorkers,
	}
}

func (s *service) EnsureWallet(ctx context.Context, profileID int) (Wallet, error) {
	w, created, err := s.dir.Ensure(ctx, profileID)
	if err != nil {
		return Wallet{}, err
	}
	if created {
		metrics.RecordWalletCreated("bootstrap")
		logger.Info("wallet created", "wallet_id", w.ID, "profile_id", profileID, "deposit_code", w.DepositCode)
	}
	return w, nil
}

// CreateWalletsForExistingProfiles walks profiles without a wallet in id
// order and ensures one for each. Running it again creates nothing.
func (s *service) CreateWalletsForExistingProfiles(ctx context.Context) (int, error) {
	var created atomic.Int64
	after := 0

	for {
		ids, err := s.dir.ListProfilesWithoutWallet(ctx, after, backfillBatchSize)
		if err != nil {
			return int(created.Load()), fmt.Errorf("list profiles without wallet: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for _, id := range ids {
			profileID := id
			g.Go(func() error {
				_, ok, err := s.dir.Ensure(gctx, profileID)
				if err != nil {
					return fmt.Errorf("profile %d: %w", profileID, err)
				}
				if ok {
					created.Add(1)
					metrics.RecordWalletCreated("backfill")
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return int(created.Load()), err
		}

		after = ids[len(ids)-1]
	}

	n := int(created.Load())
	logger.Info("wallet backfill finished", "created", n)
	return n, nil
}

func (s *service) GetWallet(ctx context.Context, id uuid.UUID) (Wallet, error) {
	return s.dir.GetByID(ctx, id)
}

// GetWalletForOwner lazily creates the wallet for profiles registered
// before wallets existed.
func (s *service) GetWalletForOwner(ctx context.Context, profileID int) (Wallet, error) {
	return s.EnsureWallet(ctx, profileID)
}

func (s *service) WalletByCode(ctx context.Context, code string) (Wallet, error) {
	code = deposit.Normalize(code)
	if !deposit.Valid(code) {
		return Wallet{}, invalid("deposit_code", "malformed deposit code")
	}
	return s.dir.Resolve(ctx, code)
}

func (s *service) Transactions(ctx context.Context, profileID int, limit, offset int) ([]Transaction, error) {
	w, err := s.dir.GetByOwner(ctx, profileID)
	if errors.Is(err, ErrWalletNotFound) {
		return []Transaction{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.ledger.ListByWallet(ctx, w.ID, limit, offset)
}

func (s *service) ChangeStatus(ctx context.Context, id uuid.UUID, to Status) (Wallet, error) {
	current, err := s.dir.GetByID(ctx, id)
	if err != nil {
		return Wallet{}, err
	}
	if _, err := current.WithStatus(to); err != nil {
		return Wallet{}, err
	}

	updated, err := s.dir.UpdateStatus(ctx, id, current.Status, to)
	if err != nil {
		return Wallet{}, err
	}

	logger.Info("wallet status changed", "wallet_id", id, "from", current.Status, "to", to)
	return updated, nil
}

func (s *service) Adjust(ctx context.Context, id uuid.UUID, amount int64, dir Direction, idempotencyKey, note string) (AppendResult, error) {
	txn, err := NewManualAdjustment(id, amount, dir, idempotencyKey, note)
	if err != nil {
		return AppendResult{}, err
	}
	if _, err := s.dir.GetByID(ctx, id); err != nil {
		return AppendResult{}, err
	}

	res, err := s.ledger.Append(ctx, txn)
	if err != nil {
		return AppendResult{}, err
	}
	if !res.AlreadyProcessed {
		logger.Info("manual adjustment applied",
			"wallet_id", id,
			"direction", dir,
			"amount", amount,
			"balance", res.Balance,
		)
	}
	return res, nil
}

func (s *service) Refund(ctx context.Context, id uuid.UUID, amount int64, refundOf, note string) (AppendResult, error) {
	txn, err := NewRefund(id, amount, refundOf, note)
	if err != nil {
		return AppendResult{}, err
	}
	if _, err := s.dir.GetByID(ctx, id); err != nil {
		return AppendResult{}, err
	}

	res, err := s.ledger.Append(ctx, txn)
	if err != nil {
		return AppendResult{}, err
	}
	if !res.AlreadyProcessed {
		logger.Info("refund applied", "wallet_id", id, "amount", amount, "refund_of", refundOf)
	}
	return res, nil
}

func (s *service) Audit(ctx context.Context, id uuid.UUID) (BalanceAudit, error) {
	w, err := s.dir.GetByID(ctx, id)
	if err != nil {
		return BalanceAudit{}, err
	}
	sum, err := s.ledger.ComputeBalance(ctx, id)
	if err != nil {
		return BalanceAudit{}, err
	}
	return BalanceAudit{
		WalletID:   id,
		Cached:     w.Balance,
		Ledger:     sum,
		Consistent: w.Balance == sum,
	}, nil
}

func (s *service) Repair(ctx context.Context, id uuid.UUID) (BalanceAudit, error) {
	audit, err := s.ledger.RepairBalance(ctx, id)
	if err != nil {
		return BalanceAudit{}, err
	}
	if !audit.Consistent {
		logger.Warn("wallet balance repaired",
			"wallet_id", id,
			"cached", audit.Cached,
			"ledger", audit.Ledger,
		)
	}
	return audit, nil
}

func (s *service) FailedNotifications(ctx context.Context, reason FailureReason, limit, offset int) ([]Transaction, error) {
	return s.ledger.ListFailed(ctx, reason, limit, offset)
}

func (s *service) PaymentDescriptor(ctx context.Context, id uuid.UUID, amount int64, description string) (string, error) {
	if amount < 0 {
		return "", invalid("amount", "must not be negative")
	}
	w, err := s.dir.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if w.DepositCode == "" {
		return "", invalid("deposit_code", "wallet has no deposit code")
	}
	// A transfer to a frozen or closed wallet would only produce a FAILED row.
	if !w.Active() {
		return "", ErrWalletNotActive
	}
	return s.descriptors.Build(w.DepositCode, amount, description)
}
