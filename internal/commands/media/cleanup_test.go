package mediacmd

import (
	"context"
	"errors"
	"testing"

	"github.com/ohanalens/go-gallery/internal/logging"
)

type stubRemover struct {
	removed   int
	removeErr error
	calls     int
	dryRuns   []bool
}

func (s *stubRemover) RemoveOrphans(_ context.Context, dryRun bool) (int, error) {
	s.calls++
	s.dryRuns = append(s.dryRuns, dryRun)
	if s.removeErr != nil {
		return 0, s.removeErr
	}
	return s.removed, nil
}

func TestCleanupOrphansHandlerInvokesRemover(t *testing.T) {
	remover := &stubRemover{removed: 3}
	handler := NewCleanupOrphansHandler(remover, logging.NoOp())

	if err := handler.Execute(context.Background(), CleanupOrphansCommand{}); err != nil {
		t.Fatalf("cleanup execute: %v", err)
	}
	if remover.calls != 1 {
		t.Fatalf("expected remover to be called once, got %d", remover.calls)
	}
	if remover.dryRuns[0] {
		t.Fatal("expected a real run, got dry run")
	}
}

func TestCleanupOrphansHandlerForwardsDryRun(t *testing.T) {
	remover := &stubRemover{removed: 5}
	handler := NewCleanupOrphansHandler(remover, logging.NoOp())

	if err := handler.Execute(context.Background(), CleanupOrphansCommand{DryRun: true}); err != nil {
		t.Fatalf("cleanup execute: %v", err)
	}
	if len(remover.dryRuns) != 1 || !remover.dryRuns[0] {
		t.Fatalf("expected dry run flag to reach the remover, got %v", remover.dryRuns)
	}
}

func TestCleanupOrphansHandlerPropagatesError(t *testing.T) {
	remover := &stubRemover{removeErr: errors.New("store unreachable")}
	handler := NewCleanupOrphansHandler(remover, logging.NoOp())

	err := handler.Execute(context.Background(), CleanupOrphansCommand{})
	if err == nil {
		t.Fatal("expected error from remover")
	}
	if !errors.Is(err, remover.removeErr) {
		t.Fatalf("expected remover error, got %v", err)
	}
}

func TestCleanupOrphansHandlerCronDefaults(t *testing.T) {
	handler := NewCleanupOrphansHandler(&stubRemover{}, logging.NoOp())
	if got := handler.CronOptions().Expression; got != "@daily" {
		t.Fatalf("expected @daily cron expression, got %q", got)
	}

	handler = NewCleanupOrphansHandler(&stubRemover{}, logging.NoOp(), CleanupWithCronExpression("@hourly"))
	if got := handler.CronOptions().Expression; got != "@hourly" {
		t.Fatalf("expected @hourly cron expression, got %q", got)
	}
}
