package mediacmd

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"github.com/ohanalens/go-gallery/internal/commands"
	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

const cleanupOrphansMessageType = "gallery.media.cleanup"

// OrphanRemover reconciles media rows against the remote store.
type OrphanRemover interface {
	RemoveOrphans(ctx context.Context, dryRun bool) (int, error)
}

// CleanupOrphansCommand removes media rows whose remote asset no longer exists.
// When DryRun is true only the orphan count is reported.
type CleanupOrphansCommand struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (CleanupOrphansCommand) Type() string { return cleanupOrphansMessageType }

// Validate satisfies command.Message.
func (CleanupOrphansCommand) Validate() error {
	return validation.ValidateStruct(&CleanupOrphansCommand{})
}

type cleanupHandlerConfig struct {
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// CleanupHandlerOption customises the cleanup handler.
type CleanupHandlerOption func(*cleanupHandlerConfig)

// CleanupWithCronConfig overrides the cron registration options for the cleanup handler.
func CleanupWithCronConfig(config command.HandlerConfig) CleanupHandlerOption {
	return func(cfg *cleanupHandlerConfig) {
		cfg.cronConfig = config
	}
}

// CleanupWithCronExpression overrides the cron expression for the cleanup handler.
func CleanupWithCronExpression(expression string) CleanupHandlerOption {
	return func(cfg *cleanupHandlerConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// CleanupWithTimeout overrides the default execution timeout.
func CleanupWithTimeout(timeout time.Duration) CleanupHandlerOption {
	return func(cfg *cleanupHandlerConfig) {
		cfg.timeout = timeout
	}
}

// CleanupOrphansHandler reconciles stored media through the supplied remover.
type CleanupOrphansHandler struct {
	remover    OrphanRemover
	logger     interfaces.Logger
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// NewCleanupOrphansHandler constructs a handler that delegates to the provided remover.
func NewCleanupOrphansHandler(remover OrphanRemover, logger interfaces.Logger, opts ...CleanupHandlerOption) *CleanupOrphansHandler {
	cfg := cleanupHandlerConfig{
		cronConfig: command.HandlerConfig{
			Expression: "@daily",
		},
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &CleanupOrphansHandler{
		remover:    remover,
		logger:     commands.EnsureLogger(logger),
		cronConfig: cfg.cronConfig,
		timeout:    cfg.timeout,
	}
}

// Execute satisfies command.Commander[CleanupOrphansCommand].
func (h *CleanupOrphansHandler) Execute(ctx context.Context, msg CleanupOrphansCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	removed, err := h.remover.RemoveOrphans(ctx, msg.DryRun)
	if err != nil {
		return commands.WrapExecuteError(err)
	}

	logger := logging.WithFields(h.logger, map[string]any{
		"operation": "media.cleanup",
	})

	if msg.DryRun {
		logging.WithFields(logger, map[string]any{
			"dry_run":      true,
			"orphan_count": removed,
		}).Debug("media.command.cleanup.dry_run")
		return nil
	}

	logging.WithFields(logger, map[string]any{
		"removed": removed,
	}).Debug("media.command.cleanup.removed")
	return nil
}

// CronHandler satisfies command.CronCommand by binding cleanup execution to a cron runner.
func (h *CleanupOrphansHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), CleanupOrphansCommand{})
	}
}

// CronOptions satisfies command.CronCommand by returning the configured cron metadata.
func (h *CleanupOrphansHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the cleanup handler to CLI integrations.
func (h *CleanupOrphansHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for media cleanup.
func (h *CleanupOrphansHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"media", "cleanup"},
		Group:       "media",
		Description: "Remove media records whose remote asset is gone; supports dry-run",
	}
}
