// Package reconcile credits wallets from inbound bank transfer
// notifications.
package reconcile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sehub/internal/deposit"
	"sehub/internal/logger"
	"sehub/internal/metrics"
	"sehub/internal/wallet"

	"github.com/google/uuid"
)

type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Notification is one inbound transfer as reported by the payment provider.
// Amount is in minor units.
type Notification struct {
	RawDescription string
	Amount         int64
	ProviderTxnID  string
	ReceivedAt     time.Time
}

// Outcome is the terminal result of a notification. A redelivered
// notification gets the outcome of its first delivery with Duplicate set.
type Outcome struct {
	Status        Status               `json:"status"`
	WalletID      uuid.UUID            `json:"wallet_id"`
	Balance       int64                `json:"balance"`
	Reason        wallet.FailureReason `json:"reason,omitempty"`
	Duplicate     bool                 `json:"duplicate"`
	TransactionID uuid.UUID            `json:"transaction_id"`
}

// TransientError means nothing was recorded and the notification should be
// delivered again.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// Notifier is told about first-time outcomes. Its errors are logged only.
type Notifier interface {
	DepositCredited(ctx context.Context, w wallet.Wallet, txn wallet.Transaction, balance int64) error
	DepositFailed(ctx context.Context, txn wallet.Transaction) error
}

// Processor holds no state of its own; every guarantee comes from the
// ledger's single storage transaction, so it is safe for concurrent use.
type Processor struct {
	dir      wallet.Directory
	ledger   wallet.Ledger
	notifier Notifier
}

// NewProcessor returns a processor. notifier may be nil.
func NewProcessor(dir wallet.Directory, ledger wallet.Ledger, notifier Notifier) *Processor {
	return &Processor{
		dir:      dir,
		ledger:   ledger,
		notifier: notifier,
	}
}

// ExternalRef is the idempotency key of a notification: the provider's
// transaction id, or a digest of its content when the provider sent none.
func ExternalRef(n Notification) string {
	if id := strings.TrimSpace(n.ProviderTxnID); id != "" {
		return id
	}
	sum := sha256.Sum256([]byte(n.RawDescription + "|" + strconv.FormatInt(n.Amount, 10)))
	return "sha256:" + hex.EncodeToString(sum[:])
}

func validate(n Notification) error {
	if n.Amount <= 0 {
		return &wallet.ValidationError{Field: "amount", Message: "must be positive"}
	}
	if strings.TrimSpace(n.RawDescription) == "" {
		return &wallet.ValidationError{Field: "description", Message: "required"}
	}
	return nil
}

func (p *Processor) ProcessNotification(ctx context.Context, n Notification) (Outcome, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveReconcileDuration(time.Since(start).Seconds())
	}()

	if err := validate(n); err != nil {
		metrics.RecordNotification("rejected", "validation")
		return Outcome{}, err
	}
	ref := ExternalRef(n)

	out, err := p.process(ctx, n, ref)
	if IsTransient(err) {
		metrics.RecordNotification("error", "transient")
		logger.Error("bank transfer notification not processed",
			"external_ref", ref,
			"amount", n.Amount,
			"error", err,
		)
	}
	return out, err
}

func (p *Processor) process(ctx context.Context, n Notification, ref string) (Outcome, error) {
	code, ok := deposit.ExtractCode(n.RawDescription)
	if !ok {
		return p.fail(ctx, n, ref, uuid.Nil, "", wallet.ReasonNoCode)
	}

	w, err := p.dir.Resolve(ctx, code)
	if errors.Is(err, wallet.ErrWalletNotFound) {
		return p.fail(ctx, n, ref, uuid.Nil, code, wallet.ReasonWalletNotFound)
	}
	if err != nil {
		return Outcome{}, &TransientError{Op: "resolve deposit code", Err: err}
	}
	if !w.Active() {
		return p.fail(ctx, n, ref, w.ID, code, wallet.ReasonWalletInactive)
	}

	txn, err := wallet.NewBankTransferCredit(w.ID, n.Amount, ref, code, n.RawDescription)
	if err != nil {
		return Outcome{}, err
	}

	res, err := p.ledger.Append(ctx, txn)
	if errors.Is(err, wallet.ErrWalletNotActive) {
		// Frozen or closed after Resolve; the credit was rolled back.
		return p.fail(ctx, n, ref, w.ID, code, wallet.ReasonWalletInactive)
	}
	if err != nil {
		return Outcome{}, &TransientError{Op: "append credit", Err: err}
	}
	if res.AlreadyProcessed {
		return replay(res), nil
	}

	metrics.RecordNotification("completed", "")
	metrics.RecordDepositCredited(n.Amount)
	logger.Info("deposit credited",
		"wallet_id", w.ID,
		"deposit_code", code,
		"external_ref", ref,
		"amount", n.Amount,
		"balance", res.Balance,
		"received_at", n.ReceivedAt,
	)

	if p.notifier != nil {
		if err := p.notifier.DepositCredited(ctx, w, res.Transaction, res.Balance); err != nil {
			logger.Warn("deposit receipt not queued", "wallet_id", w.ID, "error", err)
		}
	}

	return Outcome{
		Status:        StatusCompleted,
		WalletID:      w.ID,
		Balance:       res.Balance,
		TransactionID: res.Transaction.ID,
	}, nil
}

// fail records a FAILED row through the idempotency gate.
func (p *Processor) fail(ctx context.Context, n Notification, ref string, walletID uuid.UUID, code string, reason wallet.FailureReason) (Outcome, error) {
	txn, err := wallet.NewFailedBankTransfer(walletID, n.Amount, ref, code, n.RawDescription, reason)
	if err != nil {
		return Outcome{}, err
	}

	res, err := p.ledger.Append(ctx, txn)
	if err != nil {
		return Outcome{}, &TransientError{Op: "record failed deposit", Err: err}
	}
	if res.AlreadyProcessed {
		return replay(res), nil
	}

	metrics.RecordNotification("failed", string(reason))
	logger.Warn("deposit not credited",
		"reason", reason,
		"deposit_code", code,
		"external_ref", ref,
		"amount", n.Amount,
	)

	if p.notifier != nil {
		if err := p.notifier.DepositFailed(ctx, res.Transaction); err != nil {
			logger.Warn("operator alert not queued", "external_ref", ref, "error", err)
		}
	}

	return Outcome{
		Status:        StatusFailed,
		WalletID:      walletID,
		Balance:       res.Balance,
		Reason:        reason,
		TransactionID: res.Transaction.ID,
	}, nil
}

func replay(res wallet.AppendResult) Outcome {
	stored := res.Transaction
	out := Outcome{
		Status:        StatusCompleted,
		Balance:       res.Balance,
		Duplicate:     true,
		TransactionID: stored.ID,
	}
	if stored.WalletID.Valid {
		out.WalletID = stored.WalletID.UUID
	}
	if stored.Status != wallet.TxCompleted {
		out.Status = StatusFailed
		out.Reason = stored.FailureReason()
	}

	metrics.RecordDuplicateNotification()
	logger.Info("duplicate bank transfer notification",
		"external_ref", stored.Ref(),
		"status", out.Status,
		"reason", out.Reason,
	)
	return out
}
