package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sehub/internal/db"
	"sehub/internal/deposit"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	depositCodeConstraint = "wallets_deposit_code_key"
	ownerConstraint       = "wallets_owner_profile_id_key"

	maxCodeAttempts = 5
)

const walletColumns = `id, owner_profile_id, deposit_code, status, balance, created_at, updated_at`

type CodeGenerator interface {
	NewCode() string
}

type directory struct {
	db    *sqlx.DB
	codes CodeGenerator
}

func NewDirectory(db *sqlx.DB, codes CodeGenerator) Directory {
	return &directory{db: db, codes: codes}
}

func (d *directory) get(ctx context.Context, query string, arg interface{}) (Wallet, error) {
	var w Wallet
	err := d.db.GetContext(ctx, &w, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return Wallet{}, ErrWalletNotFound
	}
	if err != nil {
		return Wallet{}, err
	}
	return w, nil
}

func (d *directory) Resolve(ctx context.Context, code string) (Wallet, error) {
	return d.get(ctx, `SELECT `+walletColumns+` FROM wallets WHERE deposit_code = $1`, deposit.Normalize(code))
}

func (d *directory) GetByID(ctx context.Context, id uuid.UUID) (Wallet, error) {
	return d.get(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)
}

func (d *directory) GetByOwner(ctx context.Context, profileID int) (Wallet, error) {
	return d.get(ctx, `SELECT `+walletColumns+` FROM wallets WHERE owner_profile_id = $1`, profileID)
}

func (d *directory) Create(ctx context.Context, profileID int) (Wallet, error) {
	var w Wallet
	err := d.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (id, owner_profile_id, deposit_code, status)
		 VALUES ($1, $2, $3, 'ACTIVE')
		 RETURNING `+walletColumns,
		uuid.New(), profileID, d.codes.NewCode(),
	).StructScan(&w)
	switch {
	case err == nil:
		return w, nil
	case db.IsUniqueViolation(err, depositCodeConstraint):
		return Wallet{}, ErrCodeCollision
	case db.IsUniqueViolation(err, ownerConstraint):
		return Wallet{}, ErrWalletExists
	default:
		return Wallet{}, fmt.Errorf("create wallet: %w", err)
	}
}

// Ensure inserts and, when another caller won the race for the same
// profile, re-reads the row that caller created.
func (d *directory) Ensure(ctx context.Context, profileID int) (Wallet, bool, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		var w Wallet
		err := d.db.QueryRowxContext(ctx,
			`INSERT INTO wallets (id, owner_profile_id, deposit_code, status)
			 VALUES ($1, $2, $3, 'ACTIVE')
			 ON CONFLICT (owner_profile_id) DO NOTHING
			 RETURNING `+walletColumns,
			uuid.New(), profileID, d.codes.NewCode(),
		).StructScan(&w)
		switch {
		case err == nil:
			return w, true, nil
		case errors.Is(err, sql.ErrNoRows):
			existing, err := d.GetByOwner(ctx, profileID)
			if err != nil {
				return Wallet{}, false, fmt.Errorf("reload wallet for profile %d: %w", profileID, err)
			}
			return existing, false, nil
		case db.IsUniqueViolation(err, depositCodeConstraint):
			continue
		default:
			return Wallet{}, false, fmt.Errorf("ensure wallet: %w", err)
		}
	}
	return Wallet{}, false, ErrCodeCollision
}

func (d *directory) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (Wallet, error) {
	var w Wallet
	err := d.db.QueryRowxContext(ctx,
		`UPDATE wallets
		 SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND status = $2
		 RETURNING `+walletColumns,
		id, from, to,
	).StructScan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return Wallet{}, ErrStatusConflict
	}
	if err != nil {
		return Wallet{}, err
	}
	return w, nil
}

func (d *directory) ListProfilesWithoutWallet(ctx context.Context, afterProfileID, limit int) ([]int, error) {
	if limit <= 0 {
		limit = 100
	}

	var ids []int
	err := d.db.SelectContext(ctx, &ids, `
		SELECT u.id
		FROM users u
		LEFT JOIN wallets w ON w.owner_profile_id = u.id
		WHERE w.id IS NULL AND u.id > $1
		ORDER BY u.id
		LIMIT $2
	`, afterProfileID, limit)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
