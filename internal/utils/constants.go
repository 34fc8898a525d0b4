// Package utils provides shared helpers: logging, version retrieval, and
// project-wide constants.
package utils

const (
	// ConfigFileName is the application configuration file name, used both
	// inside the global configuration directory and at project roots.
	ConfigFileName = ".codebase-mcp.yaml"
	// GlobalConfigDirectoryName is the per-user configuration directory under
	// the home directory.
	GlobalConfigDirectoryName = ".codebase-mcp"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal CLI failures.
	ApplicationExecutionFailedMessage = "application execution failed"
)
