package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/token"
)

const testKey = "token-test-secret-at-least-32-ch"

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	now := time.Now()

	signed, expiresAt, err := issuer.Issue("user-1", 42, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(time.Hour); !expiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", expiresAt, want)
	}

	claims, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Trust != 42 {
		t.Errorf("trust = %d, want 42", claims.Trust)
	}
}

func TestVerify_WrongKey_Fails(t *testing.T) {
	signed, _, err := token.NewIssuer([]byte(testKey), time.Hour).Issue("user-1", 10, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := token.NewIssuer([]byte("another-test-secret-32-chars!!!!"), time.Hour)
	if _, err := other.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_ExpiredToken_Fails(t *testing.T) {
	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	signed, _, err := issuer.Issue("user-1", 10, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := issuer.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_GarbageToken_Fails(t *testing.T) {
	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	if _, err := issuer.Verify("not.a.jwt"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_MissingSubject_Fails(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp":   time.Now().Add(time.Hour).Unix(),
		"trust": 10,
	})
	signed, err := raw.SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}

	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	if _, err := issuer.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_RejectsNonHMACAlgorithm(t *testing.T) {
	// alg=none with an empty signature must never be accepted.
	raw := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}

	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	if _, err := issuer.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
