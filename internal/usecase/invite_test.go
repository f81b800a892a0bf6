package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/usecase"
)

func newInviteUsecase(users *fakeUserRepo, invites *fakeInviteRepo) *usecase.InviteUsecase {
	return usecase.NewInviteUsecase(newRepos(users, nil, nil, invites), 7*24*time.Hour)
}

// echoInvites hands the code back with an ID, like the real repository.
func echoInvites() *fakeInviteRepo {
	return &fakeInviteRepo{
		create: func(_ context.Context, inv *domain.InviteCode) (*domain.InviteCode, error) {
			out := *inv
			out.ID = "inv-1"
			return &out, nil
		},
	}
}

// ---- Generate ----

func TestGenerate_BelowThreshold_ReturnsTrustError(t *testing.T) {
	users := usersWithTrust(map[string]int{"user-1": domain.MinTrustToVouch - 1})

	_, err := newInviteUsecase(users, nil).Generate(context.Background(), "user-1")

	var trustErr *domain.TrustError
	if !errors.As(err, &trustErr) {
		t.Fatalf("err = %v, want *TrustError", err)
	}
	if trustErr.Current != domain.MinTrustToVouch-1 {
		t.Errorf("current = %d, want %d", trustErr.Current, domain.MinTrustToVouch-1)
	}
}

func TestGenerate_AllowanceExhausted_ReturnsAllowanceError(t *testing.T) {
	users := usersWithTrust(map[string]int{"user-1": 30}) // allowance 3
	invites := &fakeInviteRepo{
		countIssued: func(_ context.Context, _ string) (int, error) { return 3, nil },
	}

	_, err := newInviteUsecase(users, invites).Generate(context.Background(), "user-1")

	var allowanceErr *domain.AllowanceError
	if !errors.As(err, &allowanceErr) {
		t.Fatalf("err = %v, want *AllowanceError", err)
	}
	if allowanceErr.Allowance != 3 || allowanceErr.Issued != 3 {
		t.Errorf("AllowanceError = %+v, want allowance=3 issued=3", allowanceErr)
	}
}

func TestGenerate_CodeMatchesFormat(t *testing.T) {
	users := usersWithTrust(map[string]int{"user-1": 30})
	invites := echoInvites()
	invites.countIssued = func(_ context.Context, _ string) (int, error) { return 0, nil }

	inv, err := newInviteUsecase(users, invites).Generate(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(inv.Code, domain.InviteCodePrefix) {
		t.Errorf("code %q lacks prefix %q", inv.Code, domain.InviteCodePrefix)
	}
	suffix := strings.TrimPrefix(inv.Code, domain.InviteCodePrefix)
	if len(suffix) != domain.InviteCodeSuffix {
		t.Fatalf("suffix %q has length %d, want %d", suffix, len(suffix), domain.InviteCodeSuffix)
	}
	for _, r := range suffix {
		if !strings.ContainsRune(domain.InviteCodeAlphabet, r) {
			t.Errorf("suffix character %q is outside the alphabet", r)
		}
	}
}

func TestGenerate_RetriesOnCodeCollision(t *testing.T) {
	users := usersWithTrust(map[string]int{"user-1": 30})

	attempts := 0
	invites := &fakeInviteRepo{
		countIssued: func(_ context.Context, _ string) (int, error) { return 0, nil },
		create: func(_ context.Context, inv *domain.InviteCode) (*domain.InviteCode, error) {
			attempts++
			if attempts == 1 {
				return nil, domain.ErrDuplicateInviteCode
			}
			out := *inv
			out.ID = "inv-1"
			return &out, nil
		},
	}

	inv, err := newInviteUsecase(users, invites).Generate(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("create attempts = %d, want 2", attempts)
	}
	if inv.ID != "inv-1" {
		t.Errorf("invite ID = %q, want inv-1", inv.ID)
	}
}

// ---- List ----

func TestList_CountsStatusesAndAllowance(t *testing.T) {
	usedAt := time.Now().Add(-time.Hour)
	users := usersWithTrust(map[string]int{"user-1": 50}) // allowance 4
	invites := &fakeInviteRepo{
		listByInviter: func(_ context.Context, _ string) ([]*domain.InviteCode, error) {
			return []*domain.InviteCode{
				{Code: "KUU-AAAAAA", ExpiresAt: time.Now().Add(time.Hour)},
				{Code: "KUU-BBBBBB", ExpiresAt: time.Now().Add(time.Hour), UsedAt: &usedAt},
				{Code: "KUU-CCCCCC", ExpiresAt: time.Now().Add(-time.Hour)},
			}, nil
		},
	}

	list, err := newInviteUsecase(users, invites).List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Allowance != 4 {
		t.Errorf("allowance = %d, want 4", list.Allowance)
	}
	if list.Active != 1 || list.Used != 1 {
		t.Errorf("active/used = %d/%d, want 1/1", list.Active, list.Used)
	}
}

// ---- Revoke ----

func TestRevoke_OtherUsersCode_ReportsNotFound(t *testing.T) {
	invites := &fakeInviteRepo{
		findByCode: func(_ context.Context, code string) (*domain.InviteCode, error) {
			return &domain.InviteCode{Code: code, InviterID: "someone-else", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}

	err := newInviteUsecase(nil, invites).Revoke(context.Background(), "user-1", "KUU-AAAAAA")
	if !errors.Is(err, domain.ErrInviteNotFound) {
		t.Errorf("err = %v, want ErrInviteNotFound", err)
	}
}

func TestRevoke_UsedCode_ReturnsInviteUsed(t *testing.T) {
	usedAt := time.Now().Add(-time.Hour)
	invites := &fakeInviteRepo{
		findByCode: func(_ context.Context, code string) (*domain.InviteCode, error) {
			return &domain.InviteCode{
				Code:      code,
				InviterID: "user-1",
				ExpiresAt: time.Now().Add(time.Hour),
				UsedAt:    &usedAt,
			}, nil
		},
	}

	err := newInviteUsecase(nil, invites).Revoke(context.Background(), "user-1", "KUU-AAAAAA")
	if !errors.Is(err, domain.ErrInviteUsed) {
		t.Errorf("err = %v, want ErrInviteUsed", err)
	}
}

func TestRevoke_ActiveOwnCode_Deletes(t *testing.T) {
	var deletedCode, deletedOwner string
	invites := &fakeInviteRepo{
		findByCode: func(_ context.Context, code string) (*domain.InviteCode, error) {
			return &domain.InviteCode{Code: code, InviterID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		deleteUnused: func(_ context.Context, code, inviterID string) error {
			deletedCode, deletedOwner = code, inviterID
			return nil
		},
	}

	if err := newInviteUsecase(nil, invites).Revoke(context.Background(), "user-1", "kuu-aaaaaa"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedCode != "KUU-AAAAAA" || deletedOwner != "user-1" {
		t.Errorf("deleted (%q, %q), want (KUU-AAAAAA, user-1)", deletedCode, deletedOwner)
	}
}

// ---- Validate ----

func TestValidate_ClassifiesCodeStates(t *testing.T) {
	usedAt := time.Now().Add(-time.Hour)

	cases := []struct {
		name    string
		invite  *domain.InviteCode
		findErr error
		wantErr error
	}{
		{
			name:   "active",
			invite: &domain.InviteCode{Code: "KUU-AAAAAA", ExpiresAt: time.Now().Add(time.Hour)},
		},
		{
			name:    "unknown",
			findErr: domain.ErrInviteNotFound,
			wantErr: domain.ErrInviteNotFound,
		},
		{
			name: "used",
			invite: &domain.InviteCode{
				Code: "KUU-BBBBBB", ExpiresAt: time.Now().Add(time.Hour), UsedAt: &usedAt,
			},
			wantErr: domain.ErrInviteUsed,
		},
		{
			name:    "expired",
			invite:  &domain.InviteCode{Code: "KUU-CCCCCC", ExpiresAt: time.Now().Add(-time.Hour)},
			wantErr: domain.ErrInviteExpired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			invites := &fakeInviteRepo{
				findByCode: func(_ context.Context, _ string) (*domain.InviteCode, error) {
					if tc.findErr != nil {
						return nil, tc.findErr
					}
					return tc.invite, nil
				},
			}

			inv, err := newInviteUsecase(nil, invites).Validate(context.Background(), "whatever")
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if inv == nil {
					t.Fatal("expected the invite back for an active code")
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestNormalizeCode_UppercasesAndTrims(t *testing.T) {
	if got := usecase.NormalizeCode("  kuu-abc234 "); got != "KUU-ABC234" {
		t.Errorf("NormalizeCode = %q, want KUU-ABC234", got)
	}
}
