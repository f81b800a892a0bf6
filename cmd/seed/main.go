// seed bootstraps a fresh database with a founder identity and a batch of
// invite codes. The community is invite-gated, so without this there is no
// way to admit the first member. Run: go run ./cmd/seed
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/infrastructure/postgres"
)

const (
	founderTrust = 100
	founderCodes = 5
	codeTTL      = 30 * 24 * time.Hour
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("generate founder keypair: %v", err)
	}

	var founderID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (public_key, trust_score)
		VALUES ($1, $2)
		RETURNING id`,
		[]byte(publicKey), founderTrust,
	).Scan(&founderID)
	if err != nil {
		log.Fatalf("insert founder: %v", err)
	}

	expiresAt := time.Now().Add(codeTTL)
	codes := make([]string, 0, founderCodes)
	for len(codes) < founderCodes {
		code, err := newCode()
		if err != nil {
			log.Fatalf("generate code: %v", err)
		}
		tag, err := pool.Exec(ctx, `
			INSERT INTO invite_codes (code, inviter_id, expires_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO NOTHING`,
			code, founderID, expiresAt,
		)
		if err != nil {
			log.Fatalf("insert code: %v", err)
		}
		if tag.RowsAffected() > 0 {
			codes = append(codes, code)
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Founder ID:  %s\n", founderID)
	fmt.Printf("  Public key:  %s\n", base64.StdEncoding.EncodeToString(publicKey))
	fmt.Printf("  Private key: %s  (store this somewhere safe)\n", base64.StdEncoding.EncodeToString(privateKey))
	fmt.Printf("  Codes expire: %s\n", expiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("  Invite codes:")
	for _, code := range codes {
		fmt.Printf("    %s\n", code)
	}
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: register with one of the codes above:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/auth/register \\")
	fmt.Println("      -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"public_key\":\"<base64 key>\",\"invite_code\":\"<code>\"}'")
	fmt.Println()
	fmt.Println("  Step 2: sign the returned challenge with the matching private key, then:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/auth/verify \\")
	fmt.Println("      -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"user_id\":\"<id>\",\"challenge\":\"<challenge>\",\"signature\":\"<base64 sig>\"}'")
	fmt.Println("    # → {\"token\":\"eyJ...\"}")
}

func newCode() (string, error) {
	raw := make([]byte, domain.InviteCodeSuffix)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}
	suffix := make([]byte, domain.InviteCodeSuffix)
	for i, b := range raw {
		suffix[i] = domain.InviteCodeAlphabet[int(b)%len(domain.InviteCodeAlphabet)]
	}
	return domain.InviteCodePrefix + string(suffix), nil
}
