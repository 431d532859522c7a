// Package notify sends deposit receipts to wallet owners and alerts
// operators about deposits that could not be credited.
package notify

import (
	"context"
	"fmt"

	"sehub/internal/user"
	"sehub/internal/wallet"
)

const (
	KindDepositReceipt = "deposit_receipt"
	KindOperatorAlert  = "operator_alert"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, kind, to, name, subject, body string) error
}

type ContactLookup interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Notifier struct {
	queue    Enqueuer
	contacts ContactLookup
	opsEmail string
}

// NewNotifier returns a notifier. With an empty opsEmail operator alerts are
// skipped.
func NewNotifier(queue Enqueuer, contacts ContactLookup, opsEmail string) *Notifier {
	return &Notifier{
		queue:    queue,
		contacts: contacts,
		opsEmail: opsEmail,
	}
}

func (n *Notifier) DepositCredited(ctx context.Context, w wallet.Wallet, txn wallet.Transaction, balance int64) error {
	owner, err := n.contacts.FindByID(ctx, w.OwnerProfileID)
	if err != nil {
		return fmt.Errorf("load wallet owner %d: %w", w.OwnerProfileID, err)
	}

	subject := "Deposit received"
	body := fmt.Sprintf(`Hi %s,

We received your bank transfer and credited it to your wallet.

Amount: %d
New balance: %d
Deposit code: %s
Bank reference: %s

- SEHUB Team`, owner.Name, txn.Amount, balance, w.DepositCode, txn.Ref())

	return n.queue.Enqueue(ctx, KindDepositReceipt, owner.Email, owner.Name, subject, body)
}

func (n *Notifier) DepositFailed(ctx context.Context, txn wallet.Transaction) error {
	if n.opsEmail == "" {
		return nil
	}

	code := "-"
	if txn.DepositCode != nil {
		code = *txn.DepositCode
	}
	walletID := "-"
	if txn.WalletID.Valid {
		walletID = txn.WalletID.UUID.String()
	}

	subject := fmt.Sprintf("Unreconciled deposit: %s", txn.FailureReason())
	body := fmt.Sprintf(`A bank transfer could not be credited and needs review.

Reason: %s
Amount: %d
Bank reference: %s
Deposit code: %s
Wallet: %s
Received: %s

Description:
%s`,
		txn.FailureReason(), txn.Amount, txn.Ref(), code, walletID,
		txn.CreatedAt.Format("2006-01-02 15:04:05 MST"), txn.RawDescription)

	return n.queue.Enqueue(ctx, KindOperatorAlert, n.opsEmail, "Operations", subject, body)
}
