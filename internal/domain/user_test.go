package domain_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/kuu-app/kuu-backend/internal/domain"
)

func TestParsePublicKey_RoundTrips(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}

	parsed, err := domain.ParsePublicKey(domain.EncodePublicKey(pub))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(parsed, pub) {
		t.Error("parsed key differs from original")
	}
}

func TestParsePublicKey_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"wrong length", base64.StdEncoding.EncodeToString([]byte("short"))},
		{"empty", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := domain.ParsePublicKey(tc.encoded); !errors.Is(err, domain.ErrInvalidPublicKey) {
				t.Errorf("err = %v, want ErrInvalidPublicKey", err)
			}
		})
	}
}
