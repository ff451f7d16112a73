package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/validation"
	"github.com/gin-gonic/gin"
)

type AccountService interface {
	Register(ctx context.Context, req user.RegisterRequest) (user.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (user.User, error)
}

type TokenService interface {
	Issue(userID string) (auth.Token, error)
	Verify(raw string) (*auth.Claims, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
}

type AuthHandler struct {
	accounts AccountService
	tokens   TokenService
	revoker  TokenRevoker
}

func NewAuthHandler(accounts AccountService, tokens TokenService, revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
		revoker:  revoker,
	}
}

type authResponse struct {
	Token string      `json:"token"`
	User  user.Public `json:"user"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// bcrypt plus one insert
	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.accounts.Register(cctx, req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not create user")
		return
	}

	tok, err := h.tokens.Issue(u.ID)
	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "issue token failed", "err", err)
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusCreated, authResponse{Token: tok.Raw, User: u.Public()})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := validation.Struct(req); err != nil {
		RespondServiceError(ctx, err, "Could not log in")
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.accounts.VerifyCredentials(cctx, req.Email, req.Password)
	if err != nil {
		RespondServiceError(ctx, err, "Could not log in")
		return
	}

	tok, err := h.tokens.Issue(u.ID)
	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "issue token failed", "err", err)
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, authResponse{Token: tok.Raw, User: u.Public()})
}

// Logout revokes the presented token until it would have expired anyway.
// A missing or already invalid token is not an error: there is nothing left to revoke.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	raw, ok := middlewares.BearerToken(ctx.GetHeader("Authorization"))
	if ok {
		claims, err := h.tokens.Verify(raw)
		if err == nil {
			cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 2*time.Second)
			defer cancel()

			err = h.revoker.Revoke(cctx, claims.TokenID(), claims.ExpiresAtTime())
			if err != nil {
				slog.Default().ErrorContext(ctx.Request.Context(), "revoke token failed", "err", err)
				RespondInternal(ctx, "Could not log out")
				return
			}
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Token required")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u.Public()})
}
