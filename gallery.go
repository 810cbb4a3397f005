package gallery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/ohanalens/go-gallery/internal/accesslog"
	"github.com/ohanalens/go-gallery/internal/admins"
	"github.com/ohanalens/go-gallery/internal/admission"
	"github.com/ohanalens/go-gallery/internal/auth"
	"github.com/ohanalens/go-gallery/internal/commands"
	accesslogcmd "github.com/ohanalens/go-gallery/internal/commands/accesslog"
	mediacmd "github.com/ohanalens/go-gallery/internal/commands/media"
	"github.com/ohanalens/go-gallery/internal/compress"
	"github.com/ohanalens/go-gallery/internal/folders"
	"github.com/ohanalens/go-gallery/internal/gallerymedia"
	galleryhttp "github.com/ohanalens/go-gallery/internal/http"
	"github.com/ohanalens/go-gallery/internal/limits"
	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/internal/logging/console"
	"github.com/ohanalens/go-gallery/internal/logging/gologger"
	"github.com/ohanalens/go-gallery/internal/storage/cloudmedia"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ErrMediaStorageRequired indicates no remote store was configured: either set
// the CDN credentials or inject one through WithMediaStorage.
var ErrMediaStorageRequired = errors.New("gallery: media storage is required")

// AdminService exports the admin account service contract.
type AdminService = admins.Service

// FolderService exports the folder service contract.
type FolderService = folders.Service

// MediaService exports the media bookkeeping service contract.
type MediaService = gallerymedia.Service

// AccessLogService exports the audit service contract.
type AccessLogService = accesslog.Service

// AuthService exports the token service contract.
type AuthService = auth.Service

// LimitsService exports the upload limits cache contract.
type LimitsService = limits.Service

// Option overrides a dependency the module would otherwise build itself.
type Option func(*Module)

// WithDB injects an existing bun database handle, skipping DSN-based setup.
func WithDB(db *bun.DB) Option {
	return func(m *Module) {
		m.db = db
	}
}

// WithMediaStorage injects the remote store collaborator.
func WithMediaStorage(store interfaces.MediaStorage) Option {
	return func(m *Module) {
		m.store = store
	}
}

// WithUsageReporter injects the account usage fetcher feeding the limits cache.
func WithUsageReporter(reporter interfaces.UsageReporter) Option {
	return func(m *Module) {
		m.reporter = reporter
	}
}

// WithLoggerProvider injects the logger provider used for module loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.loggerProvider = provider
	}
}

// WithCache injects the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(m *Module) {
		m.cacheService = service
		m.keySerializer = serializer
	}
}

// Module is the top level gallery runtime facade. It owns the service graph
// built from a validated Config plus any injected overrides.
type Module struct {
	cfg Config

	db             *bun.DB
	ownsDB         bool
	store          interfaces.MediaStorage
	reporter       interfaces.UsageReporter
	loggerProvider interfaces.LoggerProvider
	cacheService   repocache.CacheService
	keySerializer  repocache.KeySerializer

	adminsSvc  admins.Service
	foldersSvc folders.Service
	mediaSvc   gallerymedia.Service
	accessSvc  accesslog.Service
	authSvc    auth.Service
	limitsSvc  limits.Service
	flow       *admission.Flow
	api        *galleryhttp.API

	mediaCleanup     *mediacmd.CleanupOrphansHandler
	accessLogCleanup *accesslogcmd.CleanupLogsHandler
}

// New constructs a gallery module from the provided configuration. Options
// override the dependencies the module would otherwise build from config.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if err := m.configureLogging(); err != nil {
		return nil, err
	}
	if err := m.configureStorage(); err != nil {
		return nil, err
	}
	m.configureCacheDefaults()
	m.configureServices()
	m.configureCommands()

	return m, nil
}

func (m *Module) configureLogging() error {
	if m.loggerProvider != nil || !m.cfg.Features.Logger {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(m.cfg.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     m.cfg.Logging.Level,
			Format:    m.cfg.Logging.Format,
			AddSource: m.cfg.Logging.AddSource,
			Focus:     m.cfg.Logging.Focus,
		})
		if err != nil {
			return err
		}
		m.loggerProvider = provider
	case "console":
		minLevel := console.ParseLevel(m.cfg.Logging.Level)
		m.loggerProvider = console.NewProvider(console.Options{
			MinLevel: &minLevel,
		})
	}
	return nil
}

func (m *Module) configureStorage() error {
	if m.db == nil {
		dialect := strings.ToLower(strings.TrimSpace(m.cfg.Storage.Dialect))
		switch dialect {
		case "sqlite":
			sqlDB, err := sql.Open("sqlite3", m.cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("gallery: open sqlite database: %w", err)
			}
			sqlDB.SetMaxOpenConns(1)
			m.db = bun.NewDB(sqlDB, sqlitedialect.New())
			m.ownsDB = true
		case "postgres":
			sqlDB, err := sql.Open("postgres", m.cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("gallery: open postgres database: %w", err)
			}
			m.db = bun.NewDB(sqlDB, pgdialect.New())
			m.ownsDB = true
		case "memory":
			// Memory repositories are built in configureServices.
		}
	}

	if m.store == nil && m.cfg.CDN.BaseURL != "" {
		client, err := cloudmedia.NewClient(cloudmedia.Config{
			BaseURL:   m.cfg.CDN.BaseURL,
			APIKey:    m.cfg.CDN.APIKey,
			APISecret: m.cfg.CDN.APISecret,
			Timeout:   m.cfg.CDN.Timeout,
		}, cloudmedia.WithLogger(m.loggerProvider))
		if err != nil {
			return err
		}
		m.store = client
		if m.reporter == nil {
			m.reporter = client
		}
	}
	if m.store == nil {
		return ErrMediaStorageRequired
	}
	if m.reporter == nil {
		m.reporter = unreachableUsage{}
	}
	return nil
}

func (m *Module) configureCacheDefaults() {
	if !m.cfg.Cache.Enabled || m.db == nil {
		return
	}

	if m.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if m.cfg.Cache.DefaultTTL > 0 {
			cfg.TTL = m.cfg.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			m.cacheService = service
		}
	}

	if m.cacheService != nil && m.keySerializer == nil {
		m.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (m *Module) configureServices() {
	provider := m.loggerProvider

	var (
		adminRepo  admins.Repository
		folderRepo folders.Repository
		mediaRepo  gallerymedia.Repository
		logRepo    accesslog.Repository
	)
	if m.db != nil {
		adminRepo = admins.NewBunRepositoryWithCache(m.db, m.cacheService, m.keySerializer)
		folderRepo = folders.NewBunRepositoryWithCache(m.db, m.cacheService, m.keySerializer)
		mediaRepo = gallerymedia.NewBunRepositoryWithCache(m.db, m.cacheService, m.keySerializer)
		logRepo = accesslog.NewBunRepository(m.db)
	} else {
		adminRepo = admins.NewMemoryRepository()
		folderRepo = folders.NewMemoryRepository()
		mediaRepo = gallerymedia.NewMemoryRepository()
		logRepo = accesslog.NewMemoryRepository()
	}

	m.limitsSvc = limits.NewService(m.reporter,
		limits.WithLogger(logging.LimitsLogger(provider)),
	)

	m.mediaSvc = gallerymedia.NewService(mediaRepo, m.store,
		gallerymedia.WithByteAccountant(folderRepo),
		gallerymedia.WithLogger(provider),
	)

	m.foldersSvc = folders.NewService(folderRepo,
		folders.WithMediaCounter(m.mediaSvc),
		folders.WithMediaPurger(m.mediaSvc),
		folders.WithLogger(provider),
	)

	m.adminsSvc = admins.NewService(adminRepo,
		admins.WithLogger(provider),
	)

	m.accessSvc = accesslog.NewService(logRepo,
		accesslog.WithLogger(provider),
	)

	m.authSvc = auth.NewService(auth.Config{
		Secret: m.cfg.Auth.Secret,
		Issuer: m.cfg.Auth.Issuer,
		TTL:    m.cfg.Auth.TokenTTL,
	}, m.adminsSvc, m.foldersSvc,
		auth.WithLogger(logging.AuthLogger(provider)),
	)

	validator := admission.NewValidator(m.limitsSvc,
		admission.ValidatorWithLogger(logging.AdmissionLogger(provider)),
	)

	flowOpts := []admission.FlowOption{
		admission.FlowWithLogger(logging.AdmissionLogger(provider)),
	}
	if m.cfg.Uploads.CompressImages {
		compressor := compress.New(compress.WithLogger(logging.CompressLogger(provider)))
		flowOpts = append(flowOpts, admission.FlowWithCompression(compressor, true))
	}
	if m.cfg.Uploads.TargetFraction > 0 {
		flowOpts = append(flowOpts, admission.FlowWithTargetFraction(m.cfg.Uploads.TargetFraction))
	}
	m.flow = admission.NewFlow(validator, m.limitsSvc, m.store, m.mediaSvc, flowOpts...)

	m.api = galleryhttp.NewAPI(
		galleryhttp.WithAdminService(m.adminsSvc),
		galleryhttp.WithFolderService(m.foldersSvc),
		galleryhttp.WithMediaService(m.mediaSvc),
		galleryhttp.WithAuthService(m.authSvc),
		galleryhttp.WithLimitsService(m.limitsSvc),
		galleryhttp.WithAdmissionFlow(m.flow),
		galleryhttp.WithAccessLogService(m.accessSvc),
		galleryhttp.WithLogger(m.loggerProvider),
	)
}

func (m *Module) configureCommands() {
	if !m.cfg.Commands.Enabled {
		return
	}

	mediaOpts := []mediacmd.CleanupHandlerOption{}
	if cron := strings.TrimSpace(m.cfg.Commands.MediaCleanupCron); cron != "" {
		mediaOpts = append(mediaOpts, mediacmd.CleanupWithCronExpression(cron))
	}
	m.mediaCleanup = mediacmd.NewCleanupOrphansHandler(
		m.mediaSvc,
		commands.CommandLogger(m.loggerProvider, "media"),
		mediaOpts...,
	)

	logOpts := []accesslogcmd.CleanupHandlerOption{}
	if cron := strings.TrimSpace(m.cfg.Commands.LogCleanupCron); cron != "" {
		logOpts = append(logOpts, accesslogcmd.CleanupWithCronExpression(cron))
	}
	m.accessLogCleanup = accesslogcmd.NewCleanupLogsHandler(
		m.accessSvc,
		commands.CommandLogger(m.loggerProvider, "accesslog"),
		logOpts...,
	)
}

// Admins returns the configured admin account service.
func (m *Module) Admins() AdminService {
	return m.adminsSvc
}

// Folders returns the configured folder service.
func (m *Module) Folders() FolderService {
	return m.foldersSvc
}

// Media returns the configured media bookkeeping service.
func (m *Module) Media() MediaService {
	return m.mediaSvc
}

// AccessLogs returns the configured audit service.
func (m *Module) AccessLogs() AccessLogService {
	return m.accessSvc
}

// Auth returns the configured token service.
func (m *Module) Auth() AuthService {
	return m.authSvc
}

// Limits returns the configured upload limits cache.
func (m *Module) Limits() LimitsService {
	return m.limitsSvc
}

// AdmissionFlow returns the batch upload pipeline.
func (m *Module) AdmissionFlow() *admission.Flow {
	return m.flow
}

// API returns the HTTP surface. Call Register on it with a ServeMux.
func (m *Module) API() *galleryhttp.API {
	return m.api
}

// DB exposes the bun handle, nil when running on memory repositories.
func (m *Module) DB() *bun.DB {
	return m.db
}

// MediaCleanup returns the orphan removal command handler, nil unless
// commands are enabled.
func (m *Module) MediaCleanup() *mediacmd.CleanupOrphansHandler {
	return m.mediaCleanup
}

// AccessLogCleanup returns the retention trim command handler, nil unless
// commands are enabled.
func (m *Module) AccessLogCleanup() *accesslogcmd.CleanupLogsHandler {
	return m.accessLogCleanup
}

// Close releases the database handle when the module opened it itself.
func (m *Module) Close() error {
	if m.ownsDB && m.db != nil {
		return m.db.Close()
	}
	return nil
}

// unreachableUsage keeps the limits cache on its free-tier fallback when no
// usage endpoint is available.
type unreachableUsage struct{}

func (unreachableUsage) Usage(context.Context) (*interfaces.AccountUsage, error) {
	return nil, errors.New("gallery: no usage reporter configured")
}
