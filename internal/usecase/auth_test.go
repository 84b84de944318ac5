package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/batimatch/batimatch/internal/domain"
)

func newAuthFixture() (*AuthUsecase, *memUserRepo, *memSessionRepo, *memCompanyRepo) {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	companies := newMemCompanyRepo()
	uc := NewAuthUsecase(users, sessions, companies, newFakeIssuer(), bcrypt.MinCost, time.Hour, 7*24*time.Hour)
	return uc, users, sessions, companies
}

func freelancerSignup(email string) RegisterFreelancerInput {
	return RegisterFreelancerInput{
		Email:     email,
		Password:  "s3cret-enough",
		LastName:  "Dupont",
		FirstName: "Marie",
		Trade:     "Plomberie",
		DailyRate: 350,
	}
}

func TestRegisterFreelancer(t *testing.T) {
	uc, users, sessions, _ := newAuthFixture()
	ctx := context.Background()

	result, err := uc.RegisterFreelancer(ctx, freelancerSignup("Marie.Dupont@example.com"))
	if err != nil {
		t.Fatal(err)
	}

	if result.User.Email != "marie.dupont@example.com" {
		t.Errorf("email not normalized: %s", result.User.Email)
	}
	if result.User.AccountType != domain.AccountFreelancer {
		t.Errorf("unexpected account type: %s", result.User.AccountType)
	}
	if result.User.Freelancer == nil || result.User.Freelancer.Trade != "Plomberie" {
		t.Error("freelancer profile not attached")
	}
	if result.User.Freelancer.RateMode != "JOUR" {
		t.Errorf("rate mode default not applied: %s", result.User.Freelancer.RateMode)
	}
	if result.User.PasswordHash != "" {
		t.Error("password hash leaked in result")
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Error("token pair missing")
	}
	if sessions.count(result.User.ID) != 1 {
		t.Errorf("expected 1 session, got %d", sessions.count(result.User.ID))
	}

	stored, err := users.GetByEmail(ctx, "marie.dupont@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-enough")); err != nil {
		t.Error("stored hash does not match the password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := uc.RegisterFreelancer(ctx, freelancerSignup("dup@example.com")); err != nil {
		t.Fatal(err)
	}

	_, err := uc.RegisterFreelancer(ctx, freelancerSignup("DUP@example.com"))
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if conflict.Code != domain.CodeEmailExists {
		t.Errorf("unexpected code: %s", conflict.Code)
	}
}

func TestRegisterCompanyDuplicateSiret(t *testing.T) {
	uc, _, _, companies := newAuthFixture()
	ctx := context.Background()
	companies.add(domain.Company{UserID: 99, LegalName: "BatiPro", Siret: "12345678900011"})

	_, err := uc.RegisterCompany(ctx, RegisterCompanyInput{
		Email:     "new@example.com",
		Password:  "s3cret-enough",
		LegalName: "Autre SARL",
		Siret:     "12345678900011",
	})
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if conflict.Code != domain.CodeSiretExists {
		t.Errorf("unexpected code: %s", conflict.Code)
	}
}

func TestLogin(t *testing.T) {
	uc, _, sessions, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := uc.RegisterFreelancer(ctx, freelancerSignup("login@example.com"))
	if err != nil {
		t.Fatal(err)
	}

	result, err := uc.Login(ctx, "LOGIN@example.com", "s3cret-enough", "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if result.User.ID != registered.User.ID {
		t.Error("logged into the wrong user")
	}
	// registration session plus the login session
	if sessions.count(result.User.ID) != 2 {
		t.Errorf("expected 2 sessions, got %d", sessions.count(result.User.ID))
	}
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := uc.RegisterFreelancer(ctx, freelancerSignup("login@example.com")); err != nil {
		t.Fatal(err)
	}

	_, err := uc.Login(ctx, "login@example.com", "wrong", "", "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err2 := uc.Login(ctx, "nobody@example.com", "wrong", "", "")
	if !errors.Is(err2, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err2)
	}
	// unknown email and wrong password must be indistinguishable
	if err.Error() != err2.Error() {
		t.Errorf("messages differ: %q vs %q", err, err2)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	uc, users, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := uc.RegisterFreelancer(ctx, freelancerSignup("off@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	users.users[registered.User.ID].IsActive = false

	if _, err := uc.Login(ctx, "off@example.com", "s3cret-enough", "", ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	uc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := uc.RegisterFreelancer(ctx, freelancerSignup("rotate@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	old := registered.Tokens.RefreshToken

	pair, err := uc.Refresh(ctx, old)
	if err != nil {
		t.Fatal(err)
	}
	if pair.RefreshToken == old {
		t.Error("refresh token not rotated")
	}

	// the consumed token no longer matches any session
	if _, err := uc.Refresh(ctx, old); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized on replay, got %v", err)
	}

	// the rotated token still works
	if _, err := uc.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatal(err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	uc, _, _, _ := newAuthFixture()

	if _, err := uc.Refresh(context.Background(), "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	uc, _, sessions, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := uc.RegisterFreelancer(ctx, freelancerSignup("out@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Login(ctx, "out@example.com", "s3cret-enough", "", ""); err != nil {
		t.Fatal(err)
	}

	if err := uc.Logout(ctx, registered.User.ID, registered.Tokens.RefreshToken); err != nil {
		t.Fatal(err)
	}
	if sessions.count(registered.User.ID) != 1 {
		t.Errorf("expected the other session to survive, got %d", sessions.count(registered.User.ID))
	}

	if err := uc.Logout(ctx, registered.User.ID, ""); err != nil {
		t.Fatal(err)
	}
	if sessions.count(registered.User.ID) != 0 {
		t.Error("logout-all left sessions behind")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	uc, users, sessions, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := uc.RegisterFreelancer(ctx, freelancerSignup("reset@example.com"))
	if err != nil {
		t.Fatal(err)
	}

	if err := uc.ForgotPassword(ctx, "reset@example.com"); err != nil {
		t.Fatal(err)
	}
	entry, ok := users.resetTokens[registered.User.ID]
	if !ok {
		t.Fatal("no reset token stored")
	}

	if err := uc.ResetPassword(ctx, entry.token, "brand-new-pass"); err != nil {
		t.Fatal(err)
	}

	// all sessions revoked, old password dead, new one live
	if sessions.count(registered.User.ID) != 0 {
		t.Error("sessions survived the password reset")
	}
	if _, err := uc.Login(ctx, "reset@example.com", "s3cret-enough", "", ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Error("old password still accepted")
	}
	if _, err := uc.Login(ctx, "reset@example.com", "brand-new-pass", "", ""); err != nil {
		t.Fatal(err)
	}

	// the token is single-use
	if err := uc.ResetPassword(ctx, entry.token, "another"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized on reuse, got %v", err)
	}
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	uc, _, _, _ := newAuthFixture()

	if err := uc.ForgotPassword(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
}
