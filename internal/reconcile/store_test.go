package reconcile

import (
	"context"
	"errors"
	"sync"

	"sehub/internal/deposit"
	"sehub/internal/wallet"

	"github.com/google/uuid"
)

// memStore keeps the ledger's gate and balance rules in memory: one mutex
// stands in for the storage transaction.
type memStore struct {
	mu        sync.Mutex
	wallets   map[uuid.UUID]*wallet.Wallet
	byCode    map[string]uuid.UUID
	txns      []wallet.Transaction
	refs      map[string]int
	appendErr error
}

func newMemStore() *memStore {
	return &memStore{
		wallets: map[uuid.UUID]*wallet.Wallet{},
		byCode:  map[string]uuid.UUID{},
		refs:    map[string]int{},
	}
}

func (s *memStore) addWallet(profileID int, code string, status wallet.Status) wallet.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := &wallet.Wallet{
		ID:             uuid.New(),
		OwnerProfileID: profileID,
		DepositCode:    code,
		Status:         status,
	}
	s.wallets[w.ID] = w
	s.byCode[code] = w.ID
	return *w
}

func (s *memStore) setStatus(id uuid.UUID, status wallet.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[id].Status = status
}

func (s *memStore) balance(id uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[id].Balance
}

func (s *memStore) rows() []wallet.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]wallet.Transaction(nil), s.txns...)
}

func (s *memStore) Resolve(_ context.Context, code string) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byCode[deposit.Normalize(code)]
	if !ok {
		return wallet.Wallet{}, wallet.ErrWalletNotFound
	}
	return *s.wallets[id], nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[id]
	if !ok {
		return wallet.Wallet{}, wallet.ErrWalletNotFound
	}
	return *w, nil
}

func (s *memStore) GetByOwner(_ context.Context, profileID int) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.wallets {
		if w.OwnerProfileID == profileID {
			return *w, nil
		}
	}
	return wallet.Wallet{}, wallet.ErrWalletNotFound
}

func (s *memStore) Create(context.Context, int) (wallet.Wallet, error) {
	return wallet.Wallet{}, wallet.ErrWalletExists
}

func (s *memStore) Ensure(ctx context.Context, profileID int) (wallet.Wallet, bool, error) {
	w, err := s.GetByOwner(ctx, profileID)
	return w, false, err
}

func (s *memStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to wallet.Status) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[id]
	if !ok {
		return wallet.Wallet{}, wallet.ErrWalletNotFound
	}
	if w.Status != from {
		return wallet.Wallet{}, wallet.ErrStatusConflict
	}
	w.Status = to
	return *w, nil
}

func (s *memStore) ListProfilesWithoutWallet(context.Context, int, int) ([]int, error) {
	return nil, nil
}

func (s *memStore) Append(_ context.Context, txn wallet.Transaction) (wallet.AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appendErr != nil {
		return wallet.AppendResult{}, s.appendErr
	}
	if txn.DepositCode != nil && len(*txn.DepositCode) > wallet.StoredCodeLength {
		return wallet.AppendResult{}, errors.New("value too long for type character varying(32)")
	}

	key := string(txn.Source) + "|" + txn.Ref()
	if txn.ExternalRef != nil {
		if i, ok := s.refs[key]; ok {
			stored := s.txns[i]
			res := wallet.AppendResult{Transaction: stored, AlreadyProcessed: true}
			if stored.WalletID.Valid {
				res.Balance = s.wallets[stored.WalletID.UUID].Balance
			}
			return res, nil
		}
	}

	var balance int64
	if txn.WalletID.Valid {
		w, ok := s.wallets[txn.WalletID.UUID]
		if !ok {
			return wallet.AppendResult{}, wallet.ErrWalletNotFound
		}
		if txn.Status == wallet.TxCompleted {
			switch {
			case w.Status != wallet.StatusActive:
				return wallet.AppendResult{}, wallet.ErrWalletNotActive
			case w.Balance+txn.SignedAmount() < 0:
				return wallet.AppendResult{}, wallet.ErrInsufficientBalance
			}
			w.Balance += txn.SignedAmount()
		}
		balance = w.Balance
	}

	s.txns = append(s.txns, txn)
	if txn.ExternalRef != nil {
		s.refs[key] = len(s.txns) - 1
	}
	return wallet.AppendResult{Transaction: txn, Balance: balance}, nil
}

func (s *memStore) GetByRef(_ context.Context, source wallet.Source, ref string) (wallet.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.refs[string(source)+"|"+ref]
	if !ok {
		return wallet.Transaction{}, wallet.ErrTransactionNotFound
	}
	return s.txns[i], nil
}

func (s *memStore) ListByWallet(_ context.Context, walletID uuid.UUID, _, _ int) ([]wallet.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []wallet.Transaction
	for _, t := range s.txns {
		if t.WalletID.Valid && t.WalletID.UUID == walletID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) ListFailed(_ context.Context, reason wallet.FailureReason, _, _ int) ([]wallet.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []wallet.Transaction
	for _, t := range s.txns {
		if t.Status == wallet.TxFailed && (reason == "" || t.FailureReason() == reason) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) ComputeBalance(_ context.Context, walletID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum int64
	for _, t := range s.txns {
		if t.Status == wallet.TxCompleted && t.WalletID.Valid && t.WalletID.UUID == walletID {
			sum += t.SignedAmount()
		}
	}
	return sum, nil
}

func (s *memStore) RepairBalance(ctx context.Context, walletID uuid.UUID) (wallet.BalanceAudit, error) {
	sum, err := s.ComputeBalance(ctx, walletID)
	if err != nil {
		return wallet.BalanceAudit{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.wallets[walletID]
	audit := wallet.BalanceAudit{WalletID: walletID, Cached: w.Balance, Ledger: sum, Consistent: w.Balance == sum}
	w.Balance = sum
	return audit, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	credited []wallet.Transaction
	failed   []wallet.Transaction
	err      error
}

func (n *recordingNotifier) DepositCredited(_ context.Context, _ wallet.Wallet, txn wallet.Transaction, _ int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.credited = append(n.credited, txn)
	return n.err
}

func (n *recordingNotifier) DepositFailed(_ context.Context, txn wallet.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, txn)
	return n.err
}
