package user

import (
	"context"
	"database/sql"
	"errors"

	"sehub/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, name, email, password_hash, role, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var user User
	if err := r.db.GetContext(ctx, &user, query, name, email, passwordHash, role); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) find(ctx context.Context, where string, arg interface{}) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.find(ctx, "email = $1", email)
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	return r.find(ctx, "id = $1", id)
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}
