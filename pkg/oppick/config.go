package oppick

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. OPPICK_OP_PATH.
const EnvPrefix = "OPPICK"

// OpConfig holds settings for the 1Password CLI
type OpConfig struct {
	Path  string `yaml:"path"`
	Vault string `yaml:"vault"` // empty means all vaults
}

// LauncherConfig holds settings for the external launcher
type LauncherConfig struct {
	Command  string `yaml:"command"`
	Category string `yaml:"category"`
}

// NotificationConfig holds diagnostic notification settings
type NotificationConfig struct {
	Method string `yaml:"method"` // stderr, desktop
}

// Config represents the oppick configuration
type Config struct {
	Op            OpConfig           `yaml:"op"`
	Launcher      LauncherConfig     `yaml:"launcher"`
	Notifications NotificationConfig `yaml:"notifications"`
	Debug         bool               `yaml:"debug"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Op: OpConfig{
			Path: "op",
		},
		Launcher: LauncherConfig{
			Command:  "rofi",
			Category: DefaultLauncherCategory,
		},
		Notifications: NotificationConfig{
			Method: MethodStderr,
		},
	}
}

// ConfigPath returns ~/.oppick/config.yml.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".oppick", "config.yml"), nil
}

// LoadConfig loads configuration from ~/.oppick/config.yml and applies
// OPPICK_* environment overrides.
// Returns defaults if the file doesn't exist
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		path = ""
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom is LoadConfig with an explicit file path. An empty path
// skips the file.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if c.Op.Path == "" {
		return errors.New("config: op.path must not be empty")
	}
	if c.Launcher.Command == "" {
		return errors.New("config: launcher.command must not be empty")
	}
	switch c.Notifications.Method {
	case MethodStderr, MethodDesktop:
	default:
		return fmt.Errorf("config: unknown notifications.method %q", c.Notifications.Method)
	}
	return nil
}
