package repository

import (
	"context"
	"crypto/ed25519"

	"github.com/kuu-app/kuu-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByPublicKey(ctx context.Context, key ed25519.PublicKey) (*domain.User, error)
	SetTrustScore(ctx context.Context, id string, score int) error
	Delete(ctx context.Context, id string) error
}
