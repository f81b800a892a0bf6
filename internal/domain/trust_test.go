package domain_test

import (
	"testing"

	"github.com/kuu-app/kuu-backend/internal/domain"
)

func TestInviteAllowance(t *testing.T) {
	cases := []struct {
		trust int
		want  int
	}{
		{0, 0},
		{15, 0},
		{29, 0},
		{30, 3},
		{49, 3},
		{50, 4},
		{70, 5},
		{100, 6},
	}

	for _, tc := range cases {
		if got := domain.InviteAllowance(tc.trust); got != tc.want {
			t.Errorf("InviteAllowance(%d) = %d, want %d", tc.trust, got, tc.want)
		}
	}
}

func TestTrustScore_IsLinearInVouches(t *testing.T) {
	if got := domain.TrustScore(0); got != 0 {
		t.Errorf("TrustScore(0) = %d, want 0", got)
	}
	if got := domain.TrustScore(3); got != 3*domain.VouchWeight {
		t.Errorf("TrustScore(3) = %d, want %d", got, 3*domain.VouchWeight)
	}
}
