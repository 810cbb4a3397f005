package admins

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	galadmins "github.com/ohanalens/go-gallery/admins"
	"golang.org/x/crypto/bcrypt"
)

func TestSignupCreatesActiveAccount(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	created, err := svc.Signup(context.Background(), SignupInput{
		Username: "curator",
		Email:    "curator@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if !created.IsActive {
		t.Fatal("expected new account to be active")
	}
	if created.PasswordHash == "correct horse battery" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct horse battery")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Username: "curator", Email: "a@example.com", Password: "password-one"}); err != nil {
		t.Fatalf("first Signup returned error: %v", err)
	}

	_, err := svc.Signup(ctx, SignupInput{Username: "curator", Email: "b@example.com", Password: "password-two"})
	if !errors.Is(err, galadmins.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSignupValidatesInput(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Signup(context.Background(), SignupInput{Username: "curator", Email: "a@example.com", Password: "short"}); err == nil {
		t.Fatal("expected validation error for short password")
	}
}

func TestLoginVerifiesCredentials(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupInput{Username: "curator", Email: "a@example.com", Password: "correct horse battery"})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	record, err := svc.Login(ctx, "curator", "correct horse battery")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if record.ID != created.ID {
		t.Fatalf("Login returned account %s, want %s", record.ID, created.ID)
	}

	if _, err := svc.Login(ctx, "curator", "wrong password here"); !errors.Is(err, galadmins.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "whatever password"); !errors.Is(err, galadmins.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupInput{Username: "curator", Email: "a@example.com", Password: "correct horse battery"})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if _, err := svc.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}

	if _, err := svc.Login(ctx, "curator", "correct horse battery"); !errors.Is(err, galadmins.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}

	active, err := svc.IsActive(ctx, created.ID)
	if err != nil {
		t.Fatalf("IsActive returned error: %v", err)
	}
	if active {
		t.Fatal("expected account to report inactive")
	}
}

func TestIsActiveUnknownAccount(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.IsActive(context.Background(), uuid.New())
	var notFound *galadmins.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
