package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/taskhub/internal/actorctx"
	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/errs"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

type UserResolver interface {
	Get(ctx context.Context, id string) (user.User, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwt     TokenVerifier
	users   UserResolver
	revoked RevocationChecker
	prom    *observability.Prom
}

func NewAuthMiddleware(jwt TokenVerifier, users UserResolver, revoked RevocationChecker, prom *observability.Prom) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users, revoked: revoked, prom: prom}
}

const (
	msgTokenRequired = "Token required"
	msgInvalidToken  = "Invalid or expired token"
	msgUserNotFound  = "User not found"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	return raw, true
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			m.reject(c, "missing_token", msgTokenRequired)
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			m.reject(c, "invalid_token", msgInvalidToken)
			return
		}

		cctx, cancel := config.WithTimeoutFrom(c.Request.Context(), 2*time.Second)
		defer cancel()

		if m.revoked != nil {
			revoked, err := m.revoked.IsRevoked(cctx, claims.TokenID())
			if err != nil {
				m.fail(c, "revocation lookup failed", err)
				return
			}
			if revoked {
				m.reject(c, "revoked", msgInvalidToken)
				return
			}
		}

		u, err := m.users.Get(cctx, claims.UserID())
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				m.reject(c, "user_not_found", msgUserNotFound)
				return
			}
			m.fail(c, "user lookup failed", err)
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUser, u.Sanitized())
		c.Set(CtxClaims, claims)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), u.ID))

		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, reason, message string) {
	m.prom.IncAuthRejection(reason)
	abortWithError(c, http.StatusUnauthorized, "unauthorized", message)
}

func (m *AuthMiddleware) fail(c *gin.Context, msg string, err error) {
	m.prom.IncAuthRejection("internal")
	slog.Default().ErrorContext(c.Request.Context(), msg, "err", err)
	abortWithError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
