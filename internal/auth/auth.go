// Package auth issues and checks JWTs for profiles and guards the
// provider webhook with a shared API key.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	jwtIssuer   = "sehub-wallet"
	jwtAudience = "sehub-profiles"

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrEmptyJWTSecret   = errors.New("jwt secret cannot be empty")
)

// TokenKind separates short-lived access tokens from refresh tokens; each
// is only accepted where its kind is expected.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

func (k TokenKind) ttl() time.Duration {
	if k == KindRefresh {
		return RefreshTokenTTL
	}
	return AccessTokenTTL
}

// Identity is the profile a token speaks for.
type Identity struct {
	ProfileID int
	Email     string
	Role      string
}

type Claims struct {
	ProfileID int       `json:"pid"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Kind      TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{ProfileID: c.ProfileID, Email: c.Email, Role: c.Role}
}

type TokenPair struct {
	Access  string
	Refresh string
}

// Issuer signs and verifies profile tokens with a single HMAC secret.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

func (i *Issuer) sign(id Identity, kind TokenKind) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrEmptyJWTSecret
	}

	now := i.now()
	claims := &Claims{
		ProfileID: id.ProfileID,
		Email:     id.Email,
		Role:      id.Role,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    jwtIssuer,
			Subject:   strconv.Itoa(id.ProfileID),
			Audience:  jwt.ClaimStrings{jwtAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(kind.ttl())),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (i *Issuer) Access(id Identity) (string, error) {
	return i.sign(id, KindAccess)
}

// Issue returns a fresh access/refresh pair for id.
func (i *Issuer) Issue(id Identity) (TokenPair, error) {
	access, err := i.sign(id, KindAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(id, KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Verify parses token and checks signature, issuer, audience, expiry and
// that it is of the wanted kind.
func (i *Issuer) Verify(token string, want TokenKind) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, ErrEmptyJWTSecret
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithAudience(jwtAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	case !parsed.Valid:
		return nil, ErrInvalidToken
	}

	if claims.Kind != want {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}

// Refresh exchanges a refresh token for the identity it carries. Callers
// reload the profile before issuing a new access token so role changes
// take effect.
func (i *Issuer) Refresh(refreshToken string) (Identity, error) {
	claims, err := i.Verify(refreshToken, KindRefresh)
	if err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}
