package accesslog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	galaccess "github.com/ohanalens/go-gallery/accesslogs"
)

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryRepository(), WithClock(func() time.Time { return base }))

	adminID := uuid.New()
	record, err := svc.Record(context.Background(), Entry{
		AdminID:   &adminID,
		Action:    galaccess.ActionAdminLogin,
		IPAddress: "203.0.113.9",
		UserAgent: "test-agent",
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if record.ID == uuid.Nil {
		t.Fatal("expected assigned ID")
	}
	if !record.CreatedAt.Equal(base) {
		t.Fatalf("created_at = %v, want %v", record.CreatedAt, base)
	}
}

func TestRecordRequiresAction(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Record(context.Background(), Entry{IPAddress: "203.0.113.9"}); err == nil {
		t.Fatal("expected error for missing action")
	}
}

func TestListFilters(t *testing.T) {
	repo := NewMemoryRepository()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := now
	svc := NewService(repo, WithClock(func() time.Time { return current }))
	ctx := context.Background()

	folderID := uuid.New()
	otherFolder := uuid.New()

	entries := []Entry{
		{FolderID: &folderID, Action: galaccess.ActionFolderAccess, IPAddress: "203.0.113.1"},
		{FolderID: &folderID, Action: galaccess.ActionMediaUpload, IPAddress: "203.0.113.1"},
		{FolderID: &otherFolder, Action: galaccess.ActionFolderAccess, IPAddress: "203.0.113.2"},
	}
	for i, entry := range entries {
		current = now.Add(time.Duration(i) * time.Minute)
		if _, err := svc.Record(ctx, entry); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	byFolder, err := svc.List(ctx, Filter{FolderID: &folderID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(byFolder) != 2 {
		t.Fatalf("folder filter returned %d records, want 2", len(byFolder))
	}
	if !byFolder[0].CreatedAt.After(byFolder[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}

	byAction, err := svc.List(ctx, Filter{Action: galaccess.ActionFolderAccess})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(byAction) != 2 {
		t.Fatalf("action filter returned %d records, want 2", len(byAction))
	}

	limited, err := svc.List(ctx, Filter{Limit: 1})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit filter returned %d records, want 1", len(limited))
	}
}

func TestTrimOlderThan(t *testing.T) {
	repo := NewMemoryRepository()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := now.Add(-40 * 24 * time.Hour)
	svc := NewService(repo, WithClock(func() time.Time { return current }))
	ctx := context.Background()

	if _, err := svc.Record(ctx, Entry{Action: galaccess.ActionAdminLogin, IPAddress: "203.0.113.1"}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	current = now
	if _, err := svc.Record(ctx, Entry{Action: galaccess.ActionAdminLogin, IPAddress: "203.0.113.1"}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	removed, err := svc.TrimOlderThan(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("TrimOlderThan returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	remaining, err := svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("remaining = %d, want 1", len(remaining))
	}

	if _, err := svc.TrimOlderThan(ctx, 0); err == nil {
		t.Fatal("expected error for non-positive retention")
	}
}
