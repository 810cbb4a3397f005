package logging

import (
	"context"
	"maps"

	"github.com/ohanalens/go-gallery/pkg/interfaces"
)

const (
	rootModule      = "gallery"
	admissionModule = "gallery.admission"
	limitsModule    = "gallery.limits"
	compressModule  = "gallery.compress"
	adminsModule    = "gallery.admins"
	foldersModule   = "gallery.folders"
	mediaModule     = "gallery.media"
	authModule      = "gallery.auth"
	storageModule   = "gallery.storage"
	httpModule      = "gallery.http"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{"module": module})
}

// WithFields attaches structured fields when the logger supports the optional
// FieldsLogger extension; otherwise the logger is returned unchanged. The
// fields map is copied so callers can reuse it.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// AdmissionLogger returns the logger namespace reserved for upload admission.
func AdmissionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, admissionModule)
}

// LimitsLogger returns the logger namespace reserved for the limits cache.
func LimitsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, limitsModule)
}

// CompressLogger returns the logger namespace reserved for image compression.
func CompressLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, compressModule)
}

// AdminsLogger returns the logger namespace reserved for admin accounts.
func AdminsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, adminsModule)
}

// FoldersLogger returns the logger namespace reserved for folder services.
func FoldersLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, foldersModule)
}

// MediaLogger returns the logger namespace reserved for media services.
func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediaModule)
}

// AuthLogger returns the logger namespace reserved for authentication.
func AuthLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, authModule)
}

// StorageLogger returns the logger namespace reserved for the CDN client.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP API.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
