package auth

import (
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-32-characters!!"

func TestMintAndResolve(t *testing.T) {
	p := Principal{ID: "64f1c0ffee", Email: "visitor@example.com", Name: "Visitor"}

	tokens, err := MintTokens(p, testSecret, time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("MintTokens() returned empty tokens")
	}

	got, ok := Resolve(tokens.AccessToken, testSecret)
	if !ok {
		t.Fatal("Resolve() failed for freshly minted token")
	}
	if got != p {
		t.Errorf("Resolve() = %+v, want %+v", got, p)
	}
}

func TestResolveNeverErrors(t *testing.T) {
	p := Principal{ID: "1", Email: "visitor@example.com"}
	tokens, err := MintTokens(p, testSecret, time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not.a.jwt"},
		{"wrong secret", tokens.AccessToken + "tampered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Resolve(tt.token, testSecret); ok {
				t.Error("Resolve() = ok for invalid token")
			}
		})
	}

	if _, ok := Resolve(tokens.AccessToken, "a-different-secret-32-characters!"); ok {
		t.Error("Resolve() accepted token signed with another secret")
	}
}

func TestResolveExpiredToken(t *testing.T) {
	p := Principal{ID: "1", Email: "visitor@example.com"}
	tokens, err := MintTokens(p, testSecret, -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}

	if _, ok := Resolve(tokens.AccessToken, testSecret); ok {
		t.Error("Resolve() accepted expired token")
	}
}

func TestParseClaimsRejectsUnexpectedAlgorithm(t *testing.T) {
	// A token with alg=none must not validate.
	noneToken := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
		"eyJ1aWQiOiIxIiwiZW1haWwiOiJ2aXNpdG9yQGV4YW1wbGUuY29tIn0."

	if _, err := ParseClaims(noneToken, testSecret); err == nil {
		t.Error("ParseClaims() accepted alg=none token")
	}
}
