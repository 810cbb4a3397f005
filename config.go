package gallery

import "github.com/ohanalens/go-gallery/internal/runtimeconfig"

var (
	ErrStorageDialectUnknown        = runtimeconfig.ErrStorageDialectUnknown
	ErrStorageDSNRequired           = runtimeconfig.ErrStorageDSNRequired
	ErrCDNCredentialsIncomplete     = runtimeconfig.ErrCDNCredentialsIncomplete
	ErrAuthSecretRequired           = runtimeconfig.ErrAuthSecretRequired
	ErrAuthTokenTTLInvalid          = runtimeconfig.ErrAuthTokenTTLInvalid
	ErrUploadTargetFractionInvalid  = runtimeconfig.ErrUploadTargetFractionInvalid
	ErrAccessLogRetentionInvalid    = runtimeconfig.ErrAccessLogRetentionInvalid
	ErrCommandsCronRequiresCommands = runtimeconfig.ErrCommandsCronRequiresCommands
	ErrLoggingProviderRequired      = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown       = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid          = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid         = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	StorageConfig   = runtimeconfig.StorageConfig
	CDNConfig       = runtimeconfig.CDNConfig
	AuthConfig      = runtimeconfig.AuthConfig
	UploadConfig    = runtimeconfig.UploadConfig
	CacheConfig     = runtimeconfig.CacheConfig
	RetentionConfig = runtimeconfig.RetentionConfig
	Features        = runtimeconfig.Features
	CommandsConfig  = runtimeconfig.CommandsConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
