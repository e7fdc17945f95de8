package utils

import (
	"os"
	"strings"
	"testing"
	"time"

	"contenthub/config"
)

func TestMain(m *testing.M) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret", AppEnv: "test"})
	os.Exit(m.Run())
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected role admin, got %s", claims.Role)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < TokenDuration-time.Minute || remaining > TokenDuration {
		t.Fatalf("unexpected token lifetime %v", remaining)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken(1, "user")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := ParseToken(tampered); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
}
