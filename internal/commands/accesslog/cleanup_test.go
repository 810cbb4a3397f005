package accesslogcmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ohanalens/go-gallery/internal/logging"
)

type stubTrimmer struct {
	removed    int
	trimErr    error
	calls      int
	retentions []time.Duration
}

func (s *stubTrimmer) TrimOlderThan(_ context.Context, retention time.Duration) (int, error) {
	s.calls++
	s.retentions = append(s.retentions, retention)
	if s.trimErr != nil {
		return 0, s.trimErr
	}
	return s.removed, nil
}

func TestCleanupLogsHandlerUsesDefaultRetention(t *testing.T) {
	trimmer := &stubTrimmer{removed: 4}
	handler := NewCleanupLogsHandler(trimmer, logging.NoOp())

	if err := handler.Execute(context.Background(), CleanupLogsCommand{}); err != nil {
		t.Fatalf("cleanup execute: %v", err)
	}
	if trimmer.calls != 1 {
		t.Fatalf("expected trimmer to be called once, got %d", trimmer.calls)
	}
	want := time.Duration(DefaultRetentionDays) * 24 * time.Hour
	if trimmer.retentions[0] != want {
		t.Fatalf("expected retention %v, got %v", want, trimmer.retentions[0])
	}
}

func TestCleanupLogsHandlerHonoursRetentionOverride(t *testing.T) {
	trimmer := &stubTrimmer{}
	handler := NewCleanupLogsHandler(trimmer, logging.NoOp())

	if err := handler.Execute(context.Background(), CleanupLogsCommand{RetentionDays: 7}); err != nil {
		t.Fatalf("cleanup execute: %v", err)
	}
	want := 7 * 24 * time.Hour
	if trimmer.retentions[0] != want {
		t.Fatalf("expected retention %v, got %v", want, trimmer.retentions[0])
	}
}

func TestCleanupLogsCommandRejectsNegativeRetention(t *testing.T) {
	trimmer := &stubTrimmer{}
	handler := NewCleanupLogsHandler(trimmer, logging.NoOp())

	err := handler.Execute(context.Background(), CleanupLogsCommand{RetentionDays: -1})
	if err == nil {
		t.Fatal("expected validation error for negative retention")
	}
	if trimmer.calls != 0 {
		t.Fatalf("expected trimmer untouched, got %d calls", trimmer.calls)
	}
}

func TestCleanupLogsHandlerPropagatesError(t *testing.T) {
	trimmer := &stubTrimmer{trimErr: errors.New("database locked")}
	handler := NewCleanupLogsHandler(trimmer, logging.NoOp())

	err := handler.Execute(context.Background(), CleanupLogsCommand{})
	if err == nil {
		t.Fatal("expected error from trimmer")
	}
	if !errors.Is(err, trimmer.trimErr) {
		t.Fatalf("expected trimmer error, got %v", err)
	}
}
