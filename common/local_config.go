package common

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ValidHostTypes are the allowed host client types
var ValidHostTypes = []string{"static", "openai_compatible"}

// HostModelConfig describes one model the configured host serves.
type HostModelConfig struct {
	Id             string `koanf:"id"`
	Vendor         string `koanf:"vendor"`
	Family         string `koanf:"family"`
	Name           string `koanf:"name"`
	MaxInputTokens int    `koanf:"max_input_tokens"`
}

// HostConfig selects and configures the host client backing the gateway.
type HostConfig struct {
	Type         string            `koanf:"type"`
	BaseURL      string            `koanf:"base_url"`
	Key          string            `koanf:"key"`
	DefaultModel string            `koanf:"default_model,omitempty"`
	Models       []HostModelConfig `koanf:"models,omitempty"`
}

// Validate ensures the HostConfig is usable.
func (c HostConfig) Validate() error {
	if c.Type == "" {
		return nil // defaults to static
	}
	if !slices.Contains(ValidHostTypes, c.Type) {
		return fmt.Errorf("invalid host type: %s", c.Type)
	}
	if c.Type == "openai_compatible" {
		if c.BaseURL == "" {
			return fmt.Errorf("base_url is required for openai_compatible host")
		}
		if c.Key == "" && os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("key is required for openai_compatible host (or set OPENAI_API_KEY)")
		}
	}
	return nil
}

// LocalConfig represents the local configuration file structure
type LocalConfig struct {
	ServerPort  int        `koanf:"server_port,omitempty"`
	ExtensionId string     `koanf:"extension_id,omitempty"`
	Host        HostConfig `koanf:"host,omitempty"`
}

const localConfigFileName = "config.yml"

// LoadLocalConfig reads the local config file from the bridge config home.
// A missing file is not an error: env defaults apply.
func LoadLocalConfig() (LocalConfig, error) {
	return LoadLocalConfigFromPath(filepath.Join(GetBridgeConfigHome(), localConfigFileName))
}

func LoadLocalConfigFromPath(path string) (LocalConfig, error) {
	var config LocalConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return config, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if err := k.Unmarshal("", &config); err != nil {
		return config, fmt.Errorf("failed to unmarshal config file %s: %w", path, err)
	}

	if err := config.Host.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// ResolvedServerPort applies precedence: config file, then env, then default.
func (c LocalConfig) ResolvedServerPort() int {
	if c.ServerPort != 0 {
		return c.ServerPort
	}
	return GetServerPort()
}

// ResolvedExtensionId applies the same precedence as ResolvedServerPort.
func (c LocalConfig) ResolvedExtensionId() string {
	if c.ExtensionId != "" {
		return c.ExtensionId
	}
	return GetExtensionId()
}
