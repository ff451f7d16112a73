package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/taskhub/internal/errs"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	if s := ctx.GetString(middlewares.CtxRequestID); s != "" {
		return s
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

// RespondServiceError maps a service/store error onto the error envelope.
// Anything unrecognised is logged and reported as a generic 500 with fallback as the message.
func RespondServiceError(ctx *gin.Context, err error, fallback string) {
	var ve *errs.ValidationError

	switch {
	case errors.As(err, &ve):
		RespondBadRequest(ctx, "Validation failed", gin.H{"fields": ve.Violations})
	case errors.Is(err, errs.ErrInvalidID):
		RespondError(ctx, http.StatusBadRequest, "invalid_id", "Invalid task id", nil)
	case errors.Is(err, errs.ErrEmailTaken):
		RespondError(ctx, http.StatusBadRequest, "email_taken", "Email is already in use.", nil)
	case errors.Is(err, errs.ErrInvalidCredentials):
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
	case errors.Is(err, errs.ErrUnauthenticated):
		RespondUnAuthorized(ctx, "unauthorized", "Token required")
	case errors.Is(err, errs.ErrNotFound):
		RespondNotFound(ctx, "Task not found")
	default:
		slog.Default().ErrorContext(ctx.Request.Context(), fallback, "err", err, "request_id", requestIDFrom(ctx))
		RespondInternal(ctx, fallback)
	}
}
