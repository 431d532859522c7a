package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("WEBHOOK_API_KEY", "hook-secret")
	t.Setenv("BANK_ID", "MB")
	t.Setenv("BANK_ACCOUNT_NO", "0937258678")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.DepositCodeLength)
	assert.Equal(t, 4, cfg.BackfillWorkers)
	assert.Equal(t, "https://img.vietqr.io/image", cfg.QRBaseURL)
	assert.Equal(t, float64(20), cfg.RateLimitRPS)
	assert.Equal(t, "hook-secret", cfg.WebhookAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DEPOSIT_CODE_LENGTH", "12")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("BACKFILL_WORKERS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 12, cfg.DepositCodeLength)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 4, cfg.BackfillWorkers)
}

func TestLoad_MissingWebhookKey(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBHOOK_API_KEY", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingWebhookKey)
}

func TestValidate(t *testing.T) {
	valid := Config{
		WebhookAPIKey:     "k",
		BankID:            "MB",
		BankAccountNo:     "1",
		DepositCodeLength: 10,
		BackfillWorkers:   1,
	}
	require.NoError(t, valid.Validate())

	noBank := valid
	noBank.BankAccountNo = ""
	assert.ErrorIs(t, noBank.Validate(), ErrMissingBankAccount)

	shortCode := valid
	shortCode.DepositCodeLength = 4
	assert.ErrorIs(t, shortCode.Validate(), ErrInvalidDepositCode)

	noWorkers := valid
	noWorkers.BackfillWorkers = 0
	assert.ErrorIs(t, noWorkers.Validate(), ErrInvalidWorkerCount)
}

func TestProviderLocation(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	loc, err := cfg.ProviderLocation()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Ho_Chi_Minh", loc.String())

	t.Setenv("PROVIDER_TZ", "Mars/Olympus")
	_, err = Load()
	assert.ErrorIs(t, err, ErrInvalidTimeZone)
}
