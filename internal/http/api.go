package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ohanalens/go-gallery/internal/accesslog"
	"github.com/ohanalens/go-gallery/internal/admins"
	"github.com/ohanalens/go-gallery/internal/admission"
	"github.com/ohanalens/go-gallery/internal/auth"
	"github.com/ohanalens/go-gallery/internal/folders"
	"github.com/ohanalens/go-gallery/internal/gallerymedia"
	"github.com/ohanalens/go-gallery/internal/limits"
	"github.com/ohanalens/go-gallery/internal/logging"
	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

// API registers the gallery endpoints: auth, folders, media admission, limits,
// and audit listings.
type API struct {
	basePath   string
	admins     admins.Service
	folders    folders.Service
	media      gallerymedia.Service
	auth       auth.Service
	limits     limits.Service
	flow       *admission.Flow
	accessLogs accesslog.Service
	logger     interfaces.Logger
}

// APIOption mutates the API configuration.
type APIOption func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...APIOption) *API {
	api := &API{
		basePath: "/api",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) APIOption {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithAdminService wires the admin account service.
func WithAdminService(service admins.Service) APIOption {
	return func(api *API) {
		api.admins = service
	}
}

// WithFolderService wires the folder service.
func WithFolderService(service folders.Service) APIOption {
	return func(api *API) {
		api.folders = service
	}
}

// WithMediaService wires the media service.
func WithMediaService(service gallerymedia.Service) APIOption {
	return func(api *API) {
		api.media = service
	}
}

// WithAuthService wires the token service.
func WithAuthService(service auth.Service) APIOption {
	return func(api *API) {
		api.auth = service
	}
}

// WithLimitsService wires the upload limits cache.
func WithLimitsService(service limits.Service) APIOption {
	return func(api *API) {
		api.limits = service
	}
}

// WithAdmissionFlow wires the batch upload flow.
func WithAdmissionFlow(flow *admission.Flow) APIOption {
	return func(api *API) {
		api.flow = flow
	}
}

// WithAccessLogService wires the audit recorder.
func WithAccessLogService(service accesslog.Service) APIOption {
	return func(api *API) {
		api.accessLogs = service
	}
}

// WithLogger attaches a logger provider to the API.
func WithLogger(provider interfaces.LoggerProvider) APIOption {
	return func(api *API) {
		api.logger = logging.HTTPLogger(provider)
	}
}

// Register attaches the gallery endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerAuthRoutes(mux, base)
	api.registerFolderRoutes(mux, base)
	api.registerMediaRoutes(mux, base)
	api.registerAccessLogRoutes(mux, base)

	return nil
}
