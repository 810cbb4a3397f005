package gallery_test

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"testing"

	gallery "github.com/ohanalens/go-gallery"
	"github.com/ohanalens/go-gallery/accesslogs"
	"github.com/ohanalens/go-gallery/internal/accesslog"
	"github.com/ohanalens/go-gallery/internal/admins"
	"github.com/ohanalens/go-gallery/internal/admission"
	mediacmd "github.com/ohanalens/go-gallery/internal/commands/media"
	"github.com/ohanalens/go-gallery/internal/folders"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
	"github.com/ohanalens/go-gallery/pkg/testsupport"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Upload(_ context.Context, req interfaces.UploadRequest) (*interfaces.StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	publicID := fmt.Sprintf("%s/%s-%d", req.Path, req.FileName, s.uploads)
	s.objects[publicID] = req.Data
	return &interfaces.StoredObject{
		PublicID: publicID,
		URL:      "https://cdn.test/" + publicID,
		Format:   "png",
		Size:     int64(len(req.Data)),
	}, nil
}

func (s *fakeStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, publicID)
	return nil
}

func (s *fakeStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id := range s.objects {
		if len(id) >= len(prefix) && id[:len(prefix)] == prefix {
			delete(s.objects, id)
			removed++
		}
	}
	return removed, nil
}

func (s *fakeStore) Exists(_ context.Context, publicID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[publicID]
	return ok, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type fakeReporter struct{}

func (fakeReporter) Usage(context.Context) (*interfaces.AccountUsage, error) {
	return &interfaces.AccountUsage{
		Plan:               "test",
		ImageMaxSizeBytes:  20 * 1024 * 1024,
		VideoMaxSizeBytes:  200 * 1024 * 1024,
		RawMaxSizeBytes:    20 * 1024 * 1024,
		ImageMaxPx:         25_000_000,
		AssetMaxTotalPx:    50_000_000,
		RateLimitAllowed:   2000,
		RateLimitRemaining: 1500,
	}, nil
}

func pngPayload(width, height uint32) []byte {
	payload := make([]byte, 24)
	copy(payload, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	copy(payload[12:16], []byte("IHDR"))
	binary.BigEndian.PutUint32(payload[16:20], width)
	binary.BigEndian.PutUint32(payload[20:24], height)
	return payload
}

func newTestModule(t *testing.T, mutate func(*gallery.Config), opts ...gallery.Option) (*gallery.Module, *fakeStore) {
	t.Helper()

	bunDB, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = bunDB.Close()
	})

	if err := gallery.BootstrapSchema(context.Background(), bunDB); err != nil {
		t.Fatalf("bootstrap schema: %v", err)
	}

	cfg := gallery.DefaultConfig()
	cfg.Auth.Secret = "integration-secret"
	if mutate != nil {
		mutate(&cfg)
	}

	store := newFakeStore()
	moduleOpts := append([]gallery.Option{
		gallery.WithDB(bunDB),
		gallery.WithMediaStorage(store),
		gallery.WithUsageReporter(fakeReporter{}),
	}, opts...)

	module, err := gallery.New(cfg, moduleOpts...)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return module, store
}

func TestModule_AdminAndFolderLifecycleWithBun(t *testing.T) {
	ctx := context.Background()
	module, store := newTestModule(t, nil)

	admin, err := module.Admins().Signup(ctx, admins.SignupInput{
		Username: "curator",
		Email:    "curator@example.com",
		Password: "orchestrate",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := module.Admins().Login(ctx, "curator", "orchestrate"); err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := module.Auth().IssueAdminToken(admin.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	verified, err := module.Auth().VerifyAdminToken(ctx, token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if verified != admin.ID {
		t.Fatalf("expected subject %s, got %s", admin.ID, verified)
	}

	created, err := module.Folders().Create(ctx, folders.CreateInput{Name: "June Wedding"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if created.Password == "" {
		t.Fatal("expected a generated member password")
	}
	if _, err := module.Folders().VerifyPassword(ctx, created.Folder.FolderKey, created.Password); err != nil {
		t.Fatalf("verify folder password: %v", err)
	}

	payload := pngPayload(640, 480)
	batch := module.AdmissionFlow().Process(ctx, created.Folder.ID, []admission.CandidateFile{
		{Name: "ceremony.png", MimeType: "image/png", Data: payload},
	})
	if batch.Succeeded != 1 {
		t.Fatalf("expected 1 succeeded upload, got %d: %+v", batch.Succeeded, batch.Results)
	}
	if store.count() != 1 {
		t.Fatalf("expected 1 stored object, got %d", store.count())
	}

	if err := module.Folders().AddBytes(ctx, created.Folder.ID, batch.BytesAdded); err != nil {
		t.Fatalf("add bytes: %v", err)
	}
	folder, err := module.Folders().Get(ctx, created.Folder.ID)
	if err != nil {
		t.Fatalf("get folder: %v", err)
	}
	if folder.SizeInBytes != int64(len(payload)) {
		t.Fatalf("expected folder size %d, got %d", len(payload), folder.SizeInBytes)
	}

	rows, err := module.Media().ListByFolder(ctx, created.Folder.ID)
	if err != nil {
		t.Fatalf("list media: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 media row, got %d", len(rows))
	}

	if _, err := module.AccessLogs().Record(ctx, accesslog.Entry{
		AdminID:   &admin.ID,
		FolderID:  &created.Folder.ID,
		Action:    accesslogs.ActionMediaUpload,
		IPAddress: "203.0.113.9",
	}); err != nil {
		t.Fatalf("record access log: %v", err)
	}
	logs, err := module.AccessLogs().List(ctx, accesslog.Filter{Action: accesslogs.ActionMediaUpload})
	if err != nil {
		t.Fatalf("list access logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(logs))
	}

	if err := module.Folders().Delete(ctx, created.Folder.ID); err != nil {
		t.Fatalf("delete folder: %v", err)
	}
	if store.count() != 0 {
		t.Fatalf("expected stored objects purged, %d remain", store.count())
	}
	if _, err := module.Folders().Get(ctx, created.Folder.ID); !folders.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestModule_CommandsExposedWhenEnabled(t *testing.T) {
	module, _ := newTestModule(t, func(cfg *gallery.Config) {
		cfg.Commands.Enabled = true
	})

	if module.MediaCleanup() == nil {
		t.Fatal("expected media cleanup handler")
	}
	if module.AccessLogCleanup() == nil {
		t.Fatal("expected access log cleanup handler")
	}
	if err := module.MediaCleanup().Execute(context.Background(), mediacmd.CleanupOrphansCommand{DryRun: true}); err != nil {
		t.Fatalf("dry-run cleanup: %v", err)
	}
}

func TestNew_RequiresMediaStorage(t *testing.T) {
	cfg := gallery.DefaultConfig()
	cfg.Auth.Secret = "integration-secret"
	cfg.Storage.Dialect = "memory"

	_, err := gallery.New(cfg)
	if !errors.Is(err, gallery.ErrMediaStorageRequired) {
		t.Fatalf("expected ErrMediaStorageRequired, got %v", err)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := gallery.DefaultConfig()

	_, err := gallery.New(cfg)
	if !errors.Is(err, gallery.ErrAuthSecretRequired) {
		t.Fatalf("expected ErrAuthSecretRequired, got %v", err)
	}
}
