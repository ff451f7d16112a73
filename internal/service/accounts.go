package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/errs"
	"github.com/geocoder89/taskhub/internal/security"
	"github.com/geocoder89/taskhub/internal/validation"
	"github.com/google/uuid"
)

var nowUTC = task.Now

type Accounts struct {
	users UserStore
}

func NewAccounts(users UserStore) *Accounts {
	return &Accounts{users: users}
}

// Register validates the request, hashes the password and stores the user.
// Nothing is written when validation fails.
func (a *Accounts) Register(ctx context.Context, req user.RegisterRequest) (user.User, error) {
	req.Normalize()

	if err := validation.Struct(req); err != nil {
		return user.User{}, err
	}

	if rule := security.PasswordPolicyViolation(req.Password); rule != "" {
		param := fmt.Sprint(security.MinPasswordLength)
		if rule == "max" {
			param = fmt.Sprint(security.MaxPasswordBytes)
		}
		return user.User{}, errs.NewValidation("password", rule, param, validation.Message(rule, param))
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := nowUTC()

	u, err := a.users.Create(ctx, user.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, errs.ErrEmailTaken) {
			return user.User{}, errs.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// VerifyCredentials returns errs.ErrInvalidCredentials for an unknown email and
// for a wrong password alike, spending one bcrypt comparison either way.
func (a *Accounts) VerifyCredentials(ctx context.Context, email, password string) (user.User, error) {
	u, err := a.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		_ = security.CheckPasswordAgainstDummy(password)

		if errors.Is(err, errs.ErrNotFound) {
			return user.User{}, errs.ErrInvalidCredentials
		}
		return user.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.User{}, errs.ErrInvalidCredentials
	}

	return u, nil
}

// Get resolves a user by id; errs.ErrNotFound when absent.
func (a *Accounts) Get(ctx context.Context, id string) (user.User, error) {
	if id == "" {
		return user.User{}, errs.ErrNotFound
	}
	return a.users.GetByID(ctx, id)
}
