package security

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes
	MaxPasswordBytes = 72
)

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// dummyHash is compared against when no user matches a login so that an unknown
// email costs the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("taskhub-timing-equalizer"), bcrypt.DefaultCost)

// HashPassword hashes a plain text password with bcrypt (random per-hash salt).
func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// CheckPasswordAgainstDummy burns the same time as CheckPassword and always fails.
func CheckPasswordAgainstDummy(plain string) error {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
	return bcrypt.ErrMismatchedHashAndPassword
}

// PasswordPolicyViolation returns the failed rule ("min" or "max") or "" when the password is acceptable.
func PasswordPolicyViolation(plain string) string {
	if utf8.RuneCountInString(plain) < MinPasswordLength {
		return "min"
	}
	if len(plain) > MaxPasswordBytes {
		return "max"
	}
	return ""
}
