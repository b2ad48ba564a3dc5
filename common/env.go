// Package common provides shared constants and wire types used by the
// CookieMaster native messaging host, JSON-RPC server and CLI.
package common

// Environment variable names for configuration.
const (
	// ConfigPathEnv overrides the policy configuration file location.
	ConfigPathEnv = "COOKIEMASTER_CONFIG"

	// DataDirEnv overrides the directory holding the activity database and
	// the token fallback file.
	DataDirEnv = "COOKIEMASTER_DATA_DIR"

	// RPCSecretEnv supplies the JSON-RPC bearer token, bypassing the keyring.
	RPCSecretEnv = "COOKIEMASTER_RPC_SECRET"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "COOKIEMASTER_DEBUG"
)
