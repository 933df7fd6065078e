package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/username/srriwatch/backend/src/config"
)

func testConfig(t *testing.T) {
	t.Helper()
	config.Cfg = &config.AppConfig{AccessTokenExpiry: time.Minute}
	t.Cleanup(func() { config.Cfg = nil })
}

func TestGenerateAndValidateToken(t *testing.T) {
	testConfig(t)
	svc := NewAuthService("a-sufficiently-long-test-secret-of-32-bytes!")

	token, err := svc.GenerateToken("42")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	sub, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if sub != "42" {
		t.Errorf("subject = %q, want %q", sub, "42")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	testConfig(t)
	minter := NewAuthService("a-sufficiently-long-test-secret-of-32-bytes!")
	verifier := NewAuthService("a-different-long-test-secret-also-32-bytes!")

	token, err := minter.GenerateToken("42")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("token signed with another secret should not validate")
	}
}

// A token signed with our secret but minted elsewhere (no issuer claim, or
// a different one) must not pass validation.
func TestValidateTokenRequiresIssuer(t *testing.T) {
	testConfig(t)
	secret := "a-sufficiently-long-test-secret-of-32-bytes!"
	svc := NewAuthService(secret)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"iss": "some-other-service",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	signed, err := foreign.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if _, err := svc.ValidateToken(signed); err == nil {
		t.Error("token with a foreign issuer should not validate")
	}

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"iss": tokenIssuer,
	})
	signed, err = noExpiry.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if _, err := svc.ValidateToken(signed); err == nil {
		t.Error("token without an expiry should not validate")
	}
}
