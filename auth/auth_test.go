package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plain password")
	}
	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("err = %v, want ErrBadCredentials", err)
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueAndParse(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	pair, err := issuer.IssuePair("64b7f0c2e4b0a1a2b3c4d5e6", "donor")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := issuer.Parse(pair.AccessToken, AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.Subject != "64b7f0c2e4b0a1a2b3c4d5e6" || claims.Role != "donor" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a token id")
	}

	if _, err := issuer.Parse(pair.RefreshToken, RefreshToken); err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
}

func TestParseRejects(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, _ := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	issuer.WithClock(func() time.Time { return base })
	pair, err := issuer.IssuePair("64b7f0c2e4b0a1a2b3c4d5e6", "student")
	if err != nil {
		t.Fatal(err)
	}

	other, _ := NewTokenIssuer("other-secret", time.Hour, time.Hour)
	later, _ := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	later.WithClock(func() time.Time { return base.Add(2 * time.Hour) })

	tests := []struct {
		name   string
		issuer *TokenIssuer
		token  string
		want   TokenType
	}{
		{"refresh used as access", issuer, pair.RefreshToken, AccessToken},
		{"access used as refresh", issuer, pair.AccessToken, RefreshToken},
		{"wrong secret", other, pair.AccessToken, AccessToken},
		{"expired", later, pair.AccessToken, AccessToken},
		{"garbage", issuer, "not.a.token", AccessToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.issuer.Parse(tt.token, tt.want); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}

	// The refresh token outlives the access token.
	if _, err := later.Parse(pair.RefreshToken, RefreshToken); err != nil {
		t.Fatalf("refresh should still be valid: %v", err)
	}
}
