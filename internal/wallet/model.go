package wallet

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusFrozen Status = "FROZEN"
	StatusClosed Status = "CLOSED"
)

type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

type Source string

const (
	SourceBankTransfer Source = "BANK_TRANSFER"
	SourceManualAdjust Source = "MANUAL_ADJUST"
	SourceRefund       Source = "REFUND"
)

type TxStatus string

const (
	TxPending   TxStatus = "PENDING"
	TxCompleted TxStatus = "COMPLETED"
	TxFailed    TxStatus = "FAILED"
)

// FailureReason is recorded on FAILED rows.
type FailureReason string

const (
	ReasonNoCode         FailureReason = "NO_CODE"
	ReasonWalletNotFound FailureReason = "WALLET_NOT_FOUND"
	ReasonWalletInactive FailureReason = "WALLET_INACTIVE"
)

// Wallet balances are in minor currency units.
type Wallet struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OwnerProfileID int       `db:"owner_profile_id" json:"owner_profile_id"`
	DepositCode    string    `db:"deposit_code" json:"deposit_code"`
	Status         Status    `db:"status" json:"status"`
	Balance        int64     `db:"balance" json:"balance"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

var transitions = map[Status][]Status{
	StatusActive: {StatusFrozen, StatusClosed},
	StatusFrozen: {StatusActive, StatusClosed},
}

// CanTransition reports whether a wallet may move from one status to another.
// CLOSED is terminal.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// WithStatus returns a copy of w in status to.
func (w Wallet) WithStatus(to Status) (Wallet, error) {
	if !CanTransition(w.Status, to) {
		return Wallet{}, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, w.Status, to)
	}
	w.Status = to
	return w, nil
}

func (w Wallet) Active() bool {
	return w.Status == StatusActive
}

// Transaction is one ledger row. Rows are written once and never updated.
type Transaction struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	WalletID       uuid.NullUUID `db:"wallet_id" json:"wallet_id"`
	Amount         int64         `db:"amount" json:"amount"`
	Direction      Direction     `db:"direction" json:"direction"`
	Source         Source        `db:"source" json:"source"`
	Status         TxStatus      `db:"status" json:"status"`
	ExternalRef    *string       `db:"external_ref" json:"external_ref,omitempty"`
	Reason         *string       `db:"reason" json:"reason,omitempty"`
	DepositCode    *string       `db:"deposit_code" json:"deposit_code,omitempty"`
	RawDescription string        `db:"raw_description" json:"raw_description"`
	Note           string        `db:"note" json:"note,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// SignedAmount is the balance effect of a COMPLETED row.
func (t Transaction) SignedAmount() int64 {
	if t.Direction == DirectionDebit {
		return -t.Amount
	}
	return t.Amount
}

func (t Transaction) FailureReason() FailureReason {
	if t.Reason == nil {
		return ""
	}
	return FailureReason(*t.Reason)
}

func (t Transaction) Ref() string {
	if t.ExternalRef == nil {
		return ""
	}
	return *t.ExternalRef
}

// ValidationError is returned by constructors and services before any
// storage interaction.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func validAmount(amount int64) error {
	if amount <= 0 {
		return invalid("amount", "must be positive")
	}
	return nil
}

func normalizeRef(ref string) (*string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	if len(ref) > 128 {
		return nil, invalid("external_ref", "must be at most 128 characters")
	}
	return &ref, nil
}

// StoredCodeLength is the width of wallet_transactions.deposit_code. Text
// extracted from a bank description can be longer when digits are glued to
// the code; such a code never names a wallet and is kept truncated.
const StoredCodeLength = 32

func storedCode(code string) *string {
	if len(code) > StoredCodeLength {
		code = code[:StoredCodeLength]
	}
	return strPtr(code)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NewBankTransferCredit builds the COMPLETED credit for a reconciled deposit.
func NewBankTransferCredit(walletID uuid.UUID, amount int64, externalRef, code, raw string) (Transaction, error) {
	if err := validAmount(amount); err != nil {
		return Transaction{}, err
	}
	ref, err := normalizeRef(externalRef)
	if err != nil {
		return Transaction{}, err
	}
	if ref == nil {
		return Transaction{}, invalid("external_ref", "required for bank transfers")
	}
	if walletID == uuid.Nil {
		return Transaction{}, invalid("wallet_id", "required")
	}
	return Transaction{
		ID:             uuid.New(),
		WalletID:       uuid.NullUUID{UUID: walletID, Valid: true},
		Amount:         amount,
		Direction:      DirectionCredit,
		Source:         SourceBankTransfer,
		Status:         TxCompleted,
		ExternalRef:    ref,
		DepositCode:    strPtr(code),
		RawDescription: raw,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// NewFailedBankTransfer records a notification that could not be credited.
// walletID is uuid.Nil when no wallet was resolved.
func NewFailedBankTransfer(walletID uuid.UUID, amount int64, externalRef, code, raw string, reason FailureReason) (Transaction, error) {
	if err := validAmount(amount); err != nil {
		return Transaction{}, err
	}
	ref, err := normalizeRef(externalRef)
	if err != nil {
		return Transaction{}, err
	}
	if ref == nil {
		return Transaction{}, invalid("external_ref", "required for bank transfers")
	}
	switch reason {
	case ReasonNoCode, ReasonWalletNotFound, ReasonWalletInactive:
	default:
		return Transaction{}, invalid("reason", "unknown failure reason")
	}
	r := string(reason)
	return Transaction{
		ID:             uuid.New(),
		WalletID:       uuid.NullUUID{UUID: walletID, Valid: walletID != uuid.Nil},
		Amount:         amount,
		Direction:      DirectionCredit,
		Source:         SourceBankTransfer,
		Status:         TxFailed,
		ExternalRef:    ref,
		Reason:         &r,
		DepositCode:    storedCode(code),
		RawDescription: raw,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// NewManualAdjustment builds an operator correction. idempotencyKey is
// optional; when set, replays of the same adjustment are ignored.
func NewManualAdjustment(walletID uuid.UUID, amount int64, dir Direction, idempotencyKey, note string) (Transaction, error) {
	if err := validAmount(amount); err != nil {
		return Transaction{}, err
	}
	if dir != DirectionCredit && dir != DirectionDebit {
		return Transaction{}, invalid("direction", "must be CREDIT or DEBIT")
	}
	if strings.TrimSpace(note) == "" {
		return Transaction{}, invalid("note", "required for manual adjustments")
	}
	ref, err := normalizeRef(idempotencyKey)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		ID:          uuid.New(),
		WalletID:    uuid.NullUUID{UUID: walletID, Valid: true},
		Amount:      amount,
		Direction:   dir,
		Source:      SourceManualAdjust,
		Status:      TxCompleted,
		ExternalRef: ref,
		Note:        note,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// NewRefund credits a wallet back. refundOf identifies what is being
// refunded and is the idempotency key for REFUND rows.
func NewRefund(walletID uuid.UUID, amount int64, refundOf, note string) (Transaction, error) {
	if err := validAmount(amount); err != nil {
		return Transaction{}, err
	}
	ref, err := normalizeRef(refundOf)
	if err != nil {
		return Transaction{}, err
	}
	if ref == nil {
		return Transaction{}, invalid("refund_of", "required")
	}
	return Transaction{
		ID:          uuid.New(),
		WalletID:    uuid.NullUUID{UUID: walletID, Valid: true},
		Amount:      amount,
		Direction:   DirectionCredit,
		Source:      SourceRefund,
		Status:      TxCompleted,
		ExternalRef: ref,
		Note:        note,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// AppendResult is what Ledger.Append reports. When AlreadyProcessed is set,
// Transaction is the row that was stored by the earlier delivery.
type AppendResult struct {
	Transaction      Transaction `json:"transaction"`
	Balance          int64       `json:"balance"`
	AlreadyProcessed bool        `json:"already_processed"`
}

// BalanceAudit compares the cached balance with the ledger sum.
type BalanceAudit struct {
	WalletID   uuid.UUID `json:"wallet_id"`
	Cached     int64     `json:"cached_balance"`
	Ledger     int64     `json:"ledger_balance"`
	Consistent bool      `json:"consistent"`
}
