package user

import (
	"context"
	"errors"

	"sehub/internal/auth"
	"sehub/internal/db"
	"sehub/internal/logger"
	"sehub/internal/wallet"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// WalletBootstrapper gives a new profile its wallet.
type WalletBootstrapper interface {
	EnsureWallet(ctx context.Context, profileID int) (wallet.Wallet, error)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo    Repository
	wallets WalletBootstrapper
	tokens  *auth.Issuer
}

func NewService(repo Repository, wallets WalletBootstrapper, jwtSecret string) Service {
	return &service{
		repo:    repo,
		wallets: wallets,
		tokens:  auth.NewIssuer(jwtSecret),
	}
}

func identity(u *User) auth.Identity {
	return auth.Identity{ProfileID: u.ID, Email: u.Email, Role: u.Role}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, req.Name, req.Email, passwordHash, RoleMember)
	if db.IsUniqueViolation(err, "users_email_key") {
		return nil, "", "", ErrEmailExists
	}
	if err != nil {
		return nil, "", "", err
	}

	// The wallet is also ensured lazily on first access, so a failure here
	// does not fail the registration.
	if _, err := s.wallets.EnsureWallet(ctx, user.ID); err != nil {
		logger.Warn("wallet bootstrap failed", "profile_id", user.ID, "error", err)
	}

	pair, err := s.tokens.Issue(identity(user))
	if err != nil {
		return nil, "", "", err
	}

	return user, pair.Access, pair.Refresh, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(identity(user))
	if err != nil {
		return nil, "", "", err
	}

	return user, pair.Access, pair.Refresh, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	id, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, id.ProfileID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	access, err := s.tokens.Access(identity(user))
	if err != nil {
		return "", nil, err
	}

	return access, user, nil
}
