package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetBridgeStateHome returns a directory path for storing user-specific
// bridge state data (logs etc), creating it if needed per the XDG spec. Can
// be overridden by setting the BRIDGE_STATE_HOME environment variable.
func GetBridgeStateHome() (string, error) {
	stateDir := os.Getenv("BRIDGE_STATE_HOME")
	if stateDir != "" {
		err := os.MkdirAll(stateDir, 0755)
		if err != nil {
			return "", fmt.Errorf("failed to create bridge state directory from BRIDGE_STATE_HOME: %w", err)
		}
		return stateDir, nil
	}

	stateDir = filepath.Join(xdg.StateHome, "modelbridge")
	err := os.MkdirAll(stateDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create bridge state directory: %w", err)
	}
	return stateDir, nil
}

// GetBridgeConfigHome returns the directory the bridge config file lives in,
// overridable via BRIDGE_CONFIG_HOME. Unlike the state home it is not
// created on access: a missing config dir just means no config file.
func GetBridgeConfigHome() string {
	configDir := os.Getenv("BRIDGE_CONFIG_HOME")
	if configDir != "" {
		return configDir
	}
	return filepath.Join(xdg.ConfigHome, "modelbridge")
}
