package wallet

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusActive, StatusFrozen, true},
		{StatusFrozen, StatusActive, true},
		{StatusActive, StatusClosed, true},
		{StatusFrozen, StatusClosed, true},
		{StatusClosed, StatusActive, false},
		{StatusClosed, StatusFrozen, false},
		{StatusActive, StatusActive, false},
		{StatusFrozen, StatusFrozen, false},
		{Status("BOGUS"), StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestWallet_WithStatus(t *testing.T) {
	w := Wallet{ID: uuid.New(), Status: StatusActive, DepositCode: "SEHUBABC123"}

	frozen, err := w.WithStatus(StatusFrozen)
	require.NoError(t, err)
	assert.Equal(t, StatusFrozen, frozen.Status)
	assert.Equal(t, StatusActive, w.Status, "original value is not modified")
	assert.False(t, frozen.Active())

	closed, err := frozen.WithStatus(StatusClosed)
	require.NoError(t, err)

	_, err = closed.WithStatus(StatusActive)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestNewBankTransferCredit(t *testing.T) {
	walletID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		txn, err := NewBankTransferCredit(walletID, 5000, "  FT123  ", "SEHUBABC", "raw text")
		require.NoError(t, err)
		assert.Equal(t, TxCompleted, txn.Status)
		assert.Equal(t, DirectionCredit, txn.Direction)
		assert.Equal(t, SourceBankTransfer, txn.Source)
		assert.Equal(t, "FT123", txn.Ref())
		assert.Equal(t, int64(5000), txn.SignedAmount())
		assert.True(t, txn.WalletID.Valid)
		assert.Nil(t, txn.Reason)
	})

	tests := []struct {
		name     string
		walletID uuid.UUID
		amount   int64
		ref      string
		field    string
	}{
		{"zero amount", walletID, 0, "FT1", "amount"},
		{"negative amount", walletID, -10, "FT1", "amount"},
		{"missing ref", walletID, 10, "   ", "external_ref"},
		{"ref too long", walletID, 10, strings.Repeat("x", 129), "external_ref"},
		{"missing wallet", uuid.Nil, 10, "FT1", "wallet_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBankTransferCredit(tt.walletID, tt.amount, tt.ref, "SEHUBABC", "")
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNewFailedBankTransfer(t *testing.T) {
	txn, err := NewFailedBankTransfer(uuid.Nil, 100, "FT1", "", "hello", ReasonNoCode)
	require.NoError(t, err)
	assert.Equal(t, TxFailed, txn.Status)
	assert.Equal(t, ReasonNoCode, txn.FailureReason())
	assert.False(t, txn.WalletID.Valid)
	assert.Nil(t, txn.DepositCode)

	walletID := uuid.New()
	txn, err = NewFailedBankTransfer(walletID, 100, "FT2", "SEHUBABC", "SEHUBABC", ReasonWalletInactive)
	require.NoError(t, err)
	assert.True(t, txn.WalletID.Valid)
	assert.Equal(t, "SEHUBABC", *txn.DepositCode)

	_, err = NewFailedBankTransfer(walletID, 100, "FT3", "", "", FailureReason("SOMETHING"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reason", verr.Field)

	_, err = NewFailedBankTransfer(walletID, 100, "", "", "", ReasonNoCode)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "external_ref", verr.Field)
}

func TestNewFailedBankTransfer_LongCode(t *testing.T) {
	code := "SEHUBHAIND0937258678110787649577NAPTIENHOCPHI"
	txn, err := NewFailedBankTransfer(uuid.Nil, 100, "92704", code, "CT DEN:0123 "+code, ReasonWalletNotFound)
	require.NoError(t, err)

	require.NotNil(t, txn.DepositCode)
	assert.Len(t, *txn.DepositCode, StoredCodeLength)
	assert.Equal(t, code[:StoredCodeLength], *txn.DepositCode)
	assert.Equal(t, "CT DEN:0123 "+code, txn.RawDescription)
}

func TestNewManualAdjustment(t *testing.T) {
	walletID := uuid.New()

	txn, err := NewManualAdjustment(walletID, 250, DirectionDebit, "", "duplicate top-up")
	require.NoError(t, err)
	assert.Equal(t, SourceManualAdjust, txn.Source)
	assert.Equal(t, int64(-250), txn.SignedAmount())
	assert.Nil(t, txn.ExternalRef)

	txn, err = NewManualAdjustment(walletID, 250, DirectionCredit, "ticket-42", "goodwill")
	require.NoError(t, err)
	assert.Equal(t, "ticket-42", txn.Ref())

	var verr *ValidationError
	_, err = NewManualAdjustment(walletID, 250, Direction("SIDEWAYS"), "", "x")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "direction", verr.Field)

	_, err = NewManualAdjustment(walletID, 250, DirectionCredit, "", "  ")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "note", verr.Field)
}

func TestNewRefund(t *testing.T) {
	walletID := uuid.New()

	txn, err := NewRefund(walletID, 900, "course-order-7", "")
	require.NoError(t, err)
	assert.Equal(t, SourceRefund, txn.Source)
	assert.Equal(t, DirectionCredit, txn.Direction)
	assert.Equal(t, "course-order-7", txn.Ref())

	var verr *ValidationError
	_, err = NewRefund(walletID, 900, "", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "refund_of", verr.Field)
}
