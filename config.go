package configurator

import "github.com/goliatone/go-site-configurator/internal/runtimeconfig"

var (
	ErrStorageTypeUnknown      = runtimeconfig.ErrStorageTypeUnknown
	ErrStorageDriverUnknown    = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrDraftTTLInvalid         = runtimeconfig.ErrDraftTTLInvalid
	ErrRendererURLRequired     = runtimeconfig.ErrRendererURLRequired
	ErrRendererURLInvalid      = runtimeconfig.ErrRendererURLInvalid
	ErrSitesAPIURLInvalid      = runtimeconfig.ErrSitesAPIURLInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrDispatcherNeedsCommands = runtimeconfig.ErrDispatcherNeedsCommands
)

const (
	StorageDurable = runtimeconfig.StorageDurable
	StorageMemory  = runtimeconfig.StorageMemory
	DriverSQLite   = runtimeconfig.DriverSQLite
	DriverPostgres = runtimeconfig.DriverPostgres
)

type (
	Config         = runtimeconfig.Config
	ServerConfig   = runtimeconfig.ServerConfig
	StorageConfig  = runtimeconfig.StorageConfig
	UploadConfig   = runtimeconfig.UploadConfig
	PreviewConfig  = runtimeconfig.PreviewConfig
	RendererConfig = runtimeconfig.RendererConfig
	PublishConfig  = runtimeconfig.PublishConfig
	SitesAPIConfig = runtimeconfig.SitesAPIConfig
	CommandsConfig = runtimeconfig.CommandsConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	LookupFunc     = runtimeconfig.LookupFunc
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ConfigFromEnv overlays process environment values on DefaultConfig.
func ConfigFromEnv(lookup LookupFunc) (Config, error) {
	return runtimeconfig.FromEnv(lookup)
}
