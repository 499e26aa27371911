package auth

import (
	"testing"
	"time"

	"github.com/detalhesstore/detalhes-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-secret",
		Issuer:            "detalhes-api",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		AdminID:  "default-admin",
		Username: "admin",
		Role:     "superadmin",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.AdminID != "default-admin" {
		t.Fatalf("unexpected admin id %q", claims.AdminID)
	}
	if claims.Username != "admin" || claims.Role != "superadmin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintRequiresAdminID(t *testing.T) {
	t.Parallel()

	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected error for missing admin id")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{AdminID: "a1"})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{AdminID: "a1"})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := testJWTConfig()
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}
