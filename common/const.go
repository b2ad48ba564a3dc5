package common

import (
	"os"
	"path/filepath"
)

const (
	// AppName names the configuration and data directories.
	AppName = "cookiemaster"

	// ConfigFileName is the policy configuration file inside the config dir.
	ConfigFileName = "config.yaml"

	// ActivityDBName is the SQLite activity history inside the data dir.
	ActivityDBName = "activity.db"

	// DefaultRPCPort is the loopback port of the JSON-RPC server.
	DefaultRPCPort = 3850
)

// ConfigPath returns the policy configuration file path, honouring
// COOKIEMASTER_CONFIG.
func ConfigPath() (string, error) {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, ConfigFileName), nil
}

// DataDir returns the data directory, honouring COOKIEMASTER_DATA_DIR.
func DataDir() (string, error) {
	if d := os.Getenv(DataDirEnv); d != "" {
		return d, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// DebugEnabled reports whether COOKIEMASTER_DEBUG is set to a true value.
func DebugEnabled() bool {
	switch os.Getenv(DebugEnv) {
	case "1", "true", "TRUE", "yes":
		return true
	}
	return false
}
