package accesslogcmd

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

const cleanupLogsMessageType = "gallery.accesslog.cleanup"

// DefaultRetentionDays bounds how long access records are kept when no override is supplied.
const DefaultRetentionDays = 90

// LogTrimmer removes access records past a retention window.
type LogTrimmer interface {
	TrimOlderThan(ctx context.Context, retention time.Duration) (int, error)
}

// CleanupLogsCommand deletes access records older than the retention window.
type CleanupLogsCommand struct {
	RetentionDays int `json:"retention_days,omitempty"`
}

// Type implements command.Message.
func (CleanupLogsCommand) Type() string { return cleanupLogsMessageType }

// Validate rejects negative retention windows. Zero falls back to the default.
func (m CleanupLogsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RetentionDays, validation.Min(0)),
	)
}

func (m CleanupLogsCommand) retention() time.Duration {
	days := m.RetentionDays
	if days <= 0 {
		days = DefaultRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
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

// CleanupLogsHandler trims access records via the supplied trimmer implementation.
type CleanupLogsHandler struct {
	trimmer    LogTrimmer
	logger     interfaces.Logger
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// NewCleanupLogsHandler constructs a handler that delegates to the provided trimmer.
func NewCleanupLogsHandler(trimmer LogTrimmer, logger interfaces.Logger, opts ...CleanupHandlerOption) *CleanupLogsHandler {
	cfg := cleanupHandlerConfig{
		cronConfig: command.HandlerConfig{
			Expression: "@weekly",
		},
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &CleanupLogsHandler{
		trimmer:    trimmer,
		logger:     commands.EnsureLogger(logger),
		cronConfig: cfg.cronConfig,
		timeout:    cfg.timeout,
	}
}

// Execute satisfies command.Commander[CleanupLogsCommand].
func (h *CleanupLogsHandler) Execute(ctx context.Context, msg CleanupLogsCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	removed, err := h.trimmer.TrimOlderThan(ctx, msg.retention())
	if err != nil {
		return commands.WrapExecuteError(err)
	}

	logging.WithFields(h.logger, map[string]any{
		"operation":      "accesslog.cleanup",
		"retention_days": msg.RetentionDays,
		"removed":        removed,
	}).Debug("accesslog.command.cleanup.removed")
	return nil
}

// CronHandler satisfies command.CronCommand by binding cleanup execution to a cron runner.
func (h *CleanupLogsHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), CleanupLogsCommand{})
	}
}

// CronOptions satisfies command.CronCommand by returning the configured cron metadata.
func (h *CleanupLogsHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the cleanup handler to CLI integrations.
func (h *CleanupLogsHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for access log cleanup.
func (h *CleanupLogsHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"accesslog", "cleanup"},
		Group:       "accesslog",
		Description: "Delete access records older than the retention window",
	}
}
