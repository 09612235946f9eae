package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerateTemporaryPassword(t *testing.T) {
	password, err := GenerateTemporaryPassword(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(password) != 12 {
		t.Fatalf("expected length 12, got %d", len(password))
	}
	for _, r := range password {
		if !strings.ContainsRune(tempPasswordCharset, r) {
			t.Fatalf("unexpected character %q in password", r)
		}
	}
}

func TestGenerateTemporaryPasswordEnforcesMinimum(t *testing.T) {
	password, err := GenerateTemporaryPassword(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(password) < 6 {
		t.Fatalf("expected at least 6 characters, got %d", len(password))
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("sw0rdf1sh", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ComparePassword(hash, "sw0rdf1sh"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch to error")
	}
}
