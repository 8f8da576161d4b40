package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	kerrors "github.com/podtards/mspkeys/internal/errors"
)

type Config struct {
	Keystore KeystoreConfig `toml:"keystore"`
	Audit    AuditConfig    `toml:"audit"`
	UI       UIConfig       `toml:"ui"`
}

type KeystoreConfig struct {
	DataDir string `toml:"data_dir"`
}

type AuditConfig struct {
	Enabled bool `toml:"enabled"`
}

type UIConfig struct {
	Spinner bool `toml:"spinner"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{Spinner: true},
	}
}

// LoadConfig reads the config file at path. A missing file yields
// DefaultConfig; keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if err := LoadTOML(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating the directory if needed.
func SaveConfig(path string, cfg *Config) error {
	if err := SaveTOML(path, cfg); err != nil {
		return fmt.Errorf("%w: failed to save config: %w", kerrors.ErrHost, err)
	}
	return nil
}
