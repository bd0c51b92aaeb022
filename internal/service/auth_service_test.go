package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"solvetrack/internal/namegen"
	"solvetrack/pkg/apperror"
)

func newAuthFixture(repo *fakeAccountRepo, source namegen.Source) AuthService {
	reservations := NewReservationService(repo)
	return NewAuthService(
		repo,
		reservations,
		nil,
		nil,
		func() namegen.Source { return source },
		"test-secret",
		time.Hour,
		15*time.Minute,
		"test-app",
	)
}

func TestSignupWithChosenName(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAuthFixture(repo, nil)

	resp, err := svc.Signup(context.Background(), SignupInput{
		Email:    "Nova@Example.com",
		Password: "correct-horse",
		Username: "Nova42",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if resp.AccessToken == "" {
		t.Fatalf("access token is empty")
	}
	if resp.Account.Email != "nova@example.com" {
		t.Fatalf("email = %q, want normalized lowercase", resp.Account.Email)
	}
	if resp.Account.DisplayName != "Nova42" {
		t.Fatalf("display name = %q, want Nova42", resp.Account.DisplayName)
	}
	if resp.Account.SolvedCount != 0 {
		t.Fatalf("solved count = %d, want 0", resp.Account.SolvedCount)
	}
}

func TestSignupSameNameTwice(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAuthFixture(repo, nil)

	if _, err := svc.Signup(context.Background(), SignupInput{
		Email:    "first@example.com",
		Password: "correct-horse",
		Username: "Nova42",
	}); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(context.Background(), SignupInput{
		Email:    "second@example.com",
		Password: "correct-horse",
		Username: "Nova42",
	})
	if !errors.Is(err, apperror.ErrNameTaken) {
		t.Fatalf("error = %v, want ErrNameTaken", err)
	}

	count, _ := repo.Count(context.Background())
	if count != 1 {
		t.Fatalf("account count = %d, want 1", count)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAuthFixture(repo, nil)

	if _, err := svc.Signup(context.Background(), SignupInput{
		Email:    "dup@example.com",
		Password: "correct-horse",
		Username: "FirstName",
	}); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(context.Background(), SignupInput{
		Email:    "dup@example.com",
		Password: "correct-horse",
		Username: "OtherName",
	})
	if !errors.Is(err, apperror.ErrEmailRegistered) {
		t.Fatalf("error = %v, want ErrEmailRegistered", err)
	}
}

func TestSignupMalformedEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAuthFixture(repo, nil)

	_, err := svc.Signup(context.Background(), SignupInput{
		Email:    "not an email",
		Password: "correct-horse",
		Username: "Whatever",
	})
	if !errors.Is(err, apperror.ErrMalformedEmail) {
		t.Fatalf("error = %v, want ErrMalformedEmail", err)
	}
}

func TestSignupWithGeneratedName(t *testing.T) {
	repo := newFakeAccountRepo()
	source := &queueSource{names: []string{"VividWolf73"}}
	svc := newAuthFixture(repo, source)

	resp, err := svc.Signup(context.Background(), SignupInput{
		Email:    "anon@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if resp.Account.DisplayName != "VividWolf73" {
		t.Fatalf("display name = %q, want VividWolf73", resp.Account.DisplayName)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAuthFixture(repo, nil)

	if _, err := svc.Signup(context.Background(), SignupInput{
		Email:    "user@example.com",
		Password: "correct-horse",
		Username: "LoginUser",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "wrong-horse",
	})
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAuthFixture(repo, nil)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAuthFixture(repo, nil)

	if _, err := svc.Signup(context.Background(), SignupInput{
		Email:    "user@example.com",
		Password: "correct-horse",
		Username: "LoginUser",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("access token is empty")
	}
}

func TestDeleteAccountRequiresPassword(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAuthFixture(repo, nil)

	resp, err := svc.Signup(context.Background(), SignupInput{
		Email:    "user@example.com",
		Password: "correct-horse",
		Username: "DoomedUser",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	err = svc.DeleteAccount(context.Background(), resp.Account.ID, "wrong-horse")
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if count, _ := repo.Count(context.Background()); count != 1 {
		t.Fatalf("account deleted despite failed reauth")
	}

	if err := svc.DeleteAccount(context.Background(), resp.Account.ID, "correct-horse"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if count, _ := repo.Count(context.Background()); count != 0 {
		t.Fatalf("account still present after delete")
	}
	if !repo.pairedState() {
		t.Fatalf("store left unpaired after delete")
	}
	if taken, _ := repo.ReservationExists(context.Background(), "DoomedUser"); taken {
		t.Fatalf("reservation survived account deletion")
	}
}

func TestReauthenticate(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAuthFixture(repo, nil)

	resp, err := svc.Signup(context.Background(), SignupInput{
		Email:    "user@example.com",
		Password: "correct-horse",
		Username: "ReauthUser",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := svc.Reauthenticate(context.Background(), resp.Account.ID, "correct-horse"); err != nil {
		t.Fatalf("reauthenticate failed: %v", err)
	}
	if err := svc.Reauthenticate(context.Background(), resp.Account.ID, "wrong-horse"); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}
