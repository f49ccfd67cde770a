package auth

import (
	"testing"
	"time"
)

func TestIssueAndParseToken(t *testing.T) {
	secret := []byte("test-secret")
	now := time.Now()

	token, expiresAt, err := IssueToken(secret, 42, "ana@example.com", true, now, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if !expiresAt.After(now) {
		t.Fatalf("expiry not in the future: %s", expiresAt)
	}

	claims, err := ParseToken(token, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "ana@example.com" || !claims.Admin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := IssueToken([]byte("secret-a"), 1, "x@example.com", false, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := ParseToken(token, []byte("secret-b")); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, _, err := IssueToken([]byte("secret"), 1, "x@example.com", false, time.Now().Add(-2*time.Hour), time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := ParseToken(token, []byte("secret")); err == nil {
		t.Fatal("expected parse failure for expired token")
	}
}

func TestParseTokenRejectsEmpty(t *testing.T) {
	if _, err := ParseToken("", []byte("secret")); err == nil {
		t.Fatal("expected parse failure for empty token")
	}
}
