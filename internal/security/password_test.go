package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_OneWayAndSalted(t *testing.T) {
	plain := "secret1"

	h1, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if h1 == plain || strings.Contains(h1, plain) {
		t.Fatalf("hash must not contain the plaintext")
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ (per-hash salt)")
	}
	if err := CheckPassword(h1, plain); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := CheckPassword(h1, "secret2"); err == nil {
		t.Fatalf("expected mismatch")
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1)); err != ErrPasswordTooLong {
		t.Fatalf("got %v want ErrPasswordTooLong", err)
	}
}

func TestCheckPasswordAgainstDummy_AlwaysFails(t *testing.T) {
	if err := CheckPasswordAgainstDummy("taskhub-timing-equalizer"); err != bcrypt.ErrMismatchedHashAndPassword {
		t.Fatalf("dummy comparison must always fail, got %v", err)
	}
}

func TestPasswordPolicyViolation(t *testing.T) {
	tests := map[string]string{
		"12345":                   "min",
		"123456":                  "",
		"secret1":                 "",
		strings.Repeat("x", 72):   "",
		strings.Repeat("x", 73):   "max",
		strings.Repeat("é", 36):   "", // 72 bytes
		strings.Repeat("é", 37):   "max",
	}

	for in, want := range tests {
		if got := PasswordPolicyViolation(in); got != want {
			t.Errorf("PasswordPolicyViolation(len=%d) = %q, want %q", len(in), got, want)
		}
	}
}
