package common

import (
	"fmt"
	"os"
	"strconv"
)

// The bridge predates any reserved port; 3000 matches what existing external
// clients assume. Callers should still prefer the bound port reported by the
// server over this default, since start may fall back to the next port.
const defaultServerPort = 3000

const defaultExtensionId = "modelbridge"

func GetServerPort() int {
	port := os.Getenv("BRIDGE_SERVER_PORT")
	if port == "" {
		return defaultServerPort
	}

	intPort, err := strconv.Atoi(port)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse bridge server port: %s", port))
	}
	return intPort
}

// GetExtensionId returns the identifier reported by the health endpoint,
// mirroring the id the hosting environment knows the bridge by.
func GetExtensionId() string {
	extensionId := os.Getenv("BRIDGE_EXTENSION_ID")
	if extensionId == "" {
		extensionId = defaultExtensionId
	}
	return extensionId
}

func GetServerHost() string {
	host := os.Getenv("BRIDGE_SERVER_HOST")
	if host == "" {
		host = "localhost"
	}
	return host
}

func GetServerBaseUrl() string {
	return fmt.Sprintf("http://%s:%d", GetServerHost(), GetServerPort())
}
