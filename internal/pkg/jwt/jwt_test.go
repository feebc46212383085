package jwt

import (
	"testing"
)

func TestOperatorTokenRoundTrip(t *testing.T) {
	token, err := GenerateOperatorToken(42, "secret", 10)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ValidateOperatorToken(token, "secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.PrincipalID != 42 || claims.Subject != "42" || claims.Issuer != Issuer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestOperatorTokenRejected(t *testing.T) {
	expired, _ := GenerateOperatorToken(42, "secret", -1)
	if _, err := ValidateOperatorToken(expired, "secret"); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	valid, _ := GenerateOperatorToken(42, "secret", 10)
	if _, err := ValidateOperatorToken(valid, "other"); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}

	noPrincipal, _ := GenerateOperatorToken(0, "secret", 10)
	if _, err := ValidateOperatorToken(noPrincipal, "secret"); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for empty principal, got %v", err)
	}
}
