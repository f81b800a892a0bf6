package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kuu-app/kuu-backend/internal/repository"
)

// querier is the subset of *pgxpool.Pool and pgx.Tx the repositories use, so
// the same repository code runs inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store owns the connection pool and implements repository.Atomic.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Repos returns repositories bound to the pool (auto-commit per statement).
func (s *Store) Repos() repository.Repos {
	return reposFor(s.pool)
}

// Transact runs fn inside one database transaction, rolling back on error.
func (s *Store) Transact(ctx context.Context, fn func(r repository.Repos) error) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(reposFor(tx))
	})
	if err != nil {
		return fmt.Errorf("transact: %w", err)
	}
	return nil
}

func reposFor(db querier) repository.Repos {
	return repository.Repos{
		Users:      &UserRepository{db: db},
		Challenges: &ChallengeRepository{db: db},
		Vouches:    &VouchRepository{db: db},
		Invites:    &InviteRepository{db: db},
	}
}
