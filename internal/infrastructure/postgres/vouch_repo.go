package postgres

import (
	"context"
	"fmt"

	"github.com/kuu-app/kuu-backend/internal/domain"
)

type VouchRepository struct {
	db querier
}

func (r *VouchRepository) Create(ctx context.Context, v *domain.Vouch) (bool, error) {
	// The unique (voucher_id, vouchee_id) constraint makes concurrent
	// duplicate vouches collapse into one edge.
	query := `
		INSERT INTO vouches (voucher_id, vouchee_id, vouch_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (voucher_id, vouchee_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, v.VoucherID, v.VoucheeID, string(v.Type))
	if err != nil {
		return false, fmt.Errorf("create vouch: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *VouchRepository) CountForVouchee(ctx context.Context, voucheeID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM vouches WHERE vouchee_id = $1`, voucheeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count vouches: %w", err)
	}
	return n, nil
}

func (r *VouchRepository) ListReceived(ctx context.Context, userID string) ([]*domain.Vouch, error) {
	return r.list(ctx, `vouchee_id`, userID)
}

func (r *VouchRepository) ListGiven(ctx context.Context, userID string) ([]*domain.Vouch, error) {
	return r.list(ctx, `voucher_id`, userID)
}

func (r *VouchRepository) list(ctx context.Context, column, userID string) ([]*domain.Vouch, error) {
	query := `
		SELECT id, voucher_id, vouchee_id, vouch_type, created_at
		FROM vouches WHERE ` + column + ` = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list vouches: %w", err)
	}
	defer rows.Close()

	var vouches []*domain.Vouch
	for rows.Next() {
		var (
			v   domain.Vouch
			typ string
		)
		if err := rows.Scan(&v.ID, &v.VoucherID, &v.VoucheeID, &typ, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vouch: %w", err)
		}
		v.Type = domain.VouchType(typ)
		vouches = append(vouches, &v)
	}
	return vouches, rows.Err()
}
