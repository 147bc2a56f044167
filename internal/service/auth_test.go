package service

import (
	"context"
	"testing"
	"time"

	"pocket-ledger/internal/apperr"
)

const testPassword = "Secret123"

func register(t *testing.T, svc *Services, username string) uint {
	t.Helper()
	u, err := svc.Auth.Register(context.Background(), RegisterInput{
		Username: username, Password: testPassword, ConfirmPassword: testPassword,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u.ID
}

func TestAuth_RegisterSeedsLedger(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	register(t, svc, "alice")

	res, err := svc.Auth.Login(ctx, "alice", testPassword, "127.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	owner, claims, err := svc.Auth.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if owner.UserID() != res.User.ID || claims.ID == "" {
		t.Errorf("owner = %d, claims = %+v", owner.UserID(), claims)
	}

	accounts, err := svc.Accounts.List(ctx, owner)
	if err != nil {
		t.Fatalf("List accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "Cash" || accounts[0].BalanceCent != 0 {
		t.Errorf("accounts = %+v", accounts)
	}
	cats, err := svc.Categories.List(ctx, owner, "")
	if err != nil {
		t.Fatalf("List categories: %v", err)
	}
	if len(cats) != len(defaultCategories) {
		t.Errorf("got %d categories, want %d", len(cats), len(defaultCategories))
	}
}

func TestAuth_RegisterValidation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	register(t, svc, "alice")

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"short username", RegisterInput{Username: "al", Password: testPassword, ConfirmPassword: testPassword}},
		{"weak password", RegisterInput{Username: "bob", Password: "password", ConfirmPassword: "password"}},
		{"mismatch", RegisterInput{Username: "bob", Password: testPassword, ConfirmPassword: testPassword + "x"}},
		{"duplicate ignoring case", RegisterInput{Username: "ALICE", Password: testPassword, ConfirmPassword: testPassword}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Auth.Register(ctx, tt.in); !apperr.IsValidation(err) {
				t.Errorf("err = %v, want validation", err)
			}
		})
	}
}

func TestAuth_LoginLockout(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	register(t, svc, "alice")

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.Auth.now = func() time.Time { return now }

	for i := 0; i < maxFailedLogins; i++ {
		if _, err := svc.Auth.Login(ctx, "alice", "Wrong1234", ""); apperr.KindOf(err) != apperr.KindUnauthenticated {
			t.Fatalf("attempt %d err = %v", i, err)
		}
	}
	_, err := svc.Auth.Login(ctx, "alice", testPassword, "")
	if apperr.PublicMessage(err) != "account locked, try again later" {
		t.Fatalf("locked login err = %v", err)
	}

	now = now.Add(lockDuration + time.Second)
	if _, err := svc.Auth.Login(ctx, "alice", testPassword, ""); err != nil {
		t.Fatalf("login after lock expiry: %v", err)
	}
	if _, err := svc.Auth.Login(ctx, "nobody", testPassword, ""); apperr.PublicMessage(err) != "invalid username or password" {
		t.Errorf("unknown user err = %v", err)
	}
}

func TestAuth_LogoutAndPasswordChangeRevoke(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	register(t, svc, "alice")

	first, err := svc.Auth.Login(ctx, "alice", testPassword, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	second, err := svc.Auth.Login(ctx, "alice", testPassword, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	_, claims, err := svc.Auth.Authenticate(ctx, first.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := svc.Auth.Logout(ctx, claims.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, _, err := svc.Auth.Authenticate(ctx, first.Token); apperr.KindOf(err) != apperr.KindUnauthenticated {
		t.Errorf("token valid after logout: %v", err)
	}

	owner, _, err := svc.Auth.Authenticate(ctx, second.Token)
	if err != nil {
		t.Fatalf("second session: %v", err)
	}
	if err := svc.Auth.ChangePassword(ctx, owner, "Wrong1234", "Newpass123"); !apperr.IsValidation(err) {
		t.Errorf("wrong old password err = %v", err)
	}
	if err := svc.Auth.ChangePassword(ctx, owner, testPassword, "Newpass123"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := svc.Auth.Authenticate(ctx, second.Token); apperr.KindOf(err) != apperr.KindUnauthenticated {
		t.Errorf("session survived password change: %v", err)
	}
	if _, err := svc.Auth.Login(ctx, "alice", "Newpass123", ""); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, _, err := svc.Auth.Authenticate(ctx, "not-a-token"); apperr.KindOf(err) != apperr.KindUnauthenticated {
		t.Errorf("garbage token err = %v", err)
	}
}

func TestAuth_UpdateProfile(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	register(t, svc, "alice")
	res, err := svc.Auth.Login(ctx, "alice", testPassword, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	owner, _, err := svc.Auth.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	u, err := svc.Auth.UpdateProfile(ctx, owner, "  Alice A.  ")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.DisplayName != "Alice A." {
		t.Errorf("display name = %q", u.DisplayName)
	}
}
