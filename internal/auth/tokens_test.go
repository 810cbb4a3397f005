package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ohanalens/go-gallery/admins"
	"github.com/ohanalens/go-gallery/internal/auth"
)

type stubAdminDir struct {
	active map[uuid.UUID]bool
}

func (s *stubAdminDir) IsActive(_ context.Context, id uuid.UUID) (bool, error) {
	active, ok := s.active[id]
	return ok && active, nil
}

type stubFolderDir struct {
	existing map[uuid.UUID]bool
}

func (s *stubFolderDir) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.existing[id], nil
}

func newService(adminDir auth.AdminDirectory, folderDir auth.FolderDirectory) auth.Service {
	return auth.NewService(auth.Config{Secret: "test-secret", Issuer: "gallery-test"}, adminDir, folderDir)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	adminID := uuid.New()
	svc := newService(&stubAdminDir{active: map[uuid.UUID]bool{adminID: true}}, nil)

	token, err := svc.IssueAdminToken(adminID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := svc.VerifyAdminToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != adminID {
		t.Fatalf("expected subject %s got %s", adminID, got)
	}
}

func TestFolderTokenRejectedAsAdminToken(t *testing.T) {
	folderID := uuid.New()
	svc := newService(nil, &stubFolderDir{existing: map[uuid.UUID]bool{folderID: true}})

	token, err := svc.IssueFolderToken(folderID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.VerifyAdminToken(context.Background(), token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected kind mismatch rejection, got %v", err)
	}
	if _, err := svc.VerifyFolderToken(context.Background(), token); err != nil {
		t.Fatalf("folder verification should still pass: %v", err)
	}
}

func TestDeactivatedAdminFailsVerification(t *testing.T) {
	adminID := uuid.New()
	dir := &stubAdminDir{active: map[uuid.UUID]bool{adminID: false}}
	svc := newService(dir, nil)

	token, err := svc.IssueAdminToken(adminID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.VerifyAdminToken(context.Background(), token); !errors.Is(err, admins.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	adminID := uuid.New()
	issuedAt := time.Now().Add(-10 * 24 * time.Hour)
	issuer := auth.NewService(
		auth.Config{Secret: "test-secret"},
		nil, nil,
		auth.WithClock(func() time.Time { return issuedAt }),
	)
	token, err := issuer.IssueAdminToken(adminID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifier := newService(nil, nil)
	if _, err := verifier.VerifyAdminToken(context.Background(), token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected expiry rejection, got %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	svc := newService(nil, nil)
	token, err := svc.IssueAdminToken(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	mangled := token[:len(token)-2] + "xx"
	if _, err := svc.VerifyAdminToken(context.Background(), mangled); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected signature rejection, got %v", err)
	}

	other := auth.NewService(auth.Config{Secret: "different"}, nil, nil)
	if _, err := other.VerifyAdminToken(context.Background(), token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected wrong-secret rejection, got %v", err)
	}
}
