package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTypeAccess = "access"

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, malformed token, missing or past expiry, wrong token type.
var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// UserID is the subject the token was minted for.
func (c *Claims) UserID() string { return c.Subject }

// TokenID is the jti used as the revocation key.
func (c *Claims) TokenID() string { return c.ID }

func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Token is a freshly minted credential.
type Token struct {
	Raw       string
	ID        string
	ExpiresAt time.Time
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue mints an HS256 access token for userID valid for the manager's TTL.
func (m *Manager) Issue(userID string) (Token, error) {
	if userID == "" {
		return Token{}, errors.New("issue token: empty user id")
	}

	now := m.now().UTC()
	jti := uuid.NewString()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{Raw: raw, ID: jti, ExpiresAt: expiresAt}, nil
}

// Verify checks signature and expiry and returns the decoded claims.
// Any failure is reported as ErrInvalidToken; callers treat it as "no identity".
func (m *Manager) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		// Enforce HS256
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != tokenTypeAccess || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
