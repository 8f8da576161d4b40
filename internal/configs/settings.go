package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	kerrors "github.com/podtards/mspkeys/internal/errors"
	"github.com/podtards/mspkeys/internal/utils"
)

const (
	appDirName    = "msp-studio"
	configDirName = "mspkeys"

	// ConfigFileName is the user configuration file inside the config directory.
	ConfigFileName = "config.toml"

	// KeystoreFileName matches the file the desktop app reads.
	KeystoreFileName = "keystore.json"

	// AuditFileName is the operation log inside the data directory.
	AuditFileName = "audit.jsonl"

	EnvDataDir   = "MSPKEYS_DATA_DIR"
	EnvConfigDir = "MSPKEYS_CONFIG_DIR"
)

// Settings are the resolved locations for one invocation.
type Settings struct {
	ConfigDir string
	DataDir   string
	Username  string
}

var (
	UserSettings *Settings
	GlobalConfig *Config
)

// ConfigPath returns the config.toml location.
func (s *Settings) ConfigPath() string {
	return filepath.Join(s.ConfigDir, ConfigFileName)
}

// KeystorePath returns the keystore.json location.
func (s *Settings) KeystorePath() string {
	return filepath.Join(s.DataDir, KeystoreFileName)
}

// AuditPath returns the audit log location.
func (s *Settings) AuditPath() string {
	return filepath.Join(s.DataDir, AuditFileName)
}

// InitSettings resolves UserSettings and loads GlobalConfig from it. A
// data_dir in the config file applies unless MSPKEYS_DATA_DIR is set.
func InitSettings() error {
	settings, err := ResolveSettings(os.Getenv)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(settings.ConfigPath())
	if err != nil {
		return err
	}
	if cfg.Keystore.DataDir != "" && os.Getenv(EnvDataDir) == "" {
		settings.DataDir = expandHome(cfg.Keystore.DataDir)
	}

	UserSettings = settings
	GlobalConfig = cfg
	return nil
}

// ResolveSettings computes the default locations, honouring environment
// overrides read through getenv.
func ResolveSettings(getenv func(string) string) (*Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("%w: getting home directory: %w", kerrors.ErrHost, err)
	}

	configDir := getenv(EnvConfigDir)
	if configDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%w: getting config directory: %w", kerrors.ErrHost, err)
		}
		configDir = filepath.Join(base, configDirName)
	}

	dataDir := getenv(EnvDataDir)
	if dataDir == "" {
		dataDir = defaultDataDir(runtime.GOOS, getenv, homeDir)
	}

	// The username only tags audit records, so a lookup failure is not fatal.
	username, err := utils.GetUsername()
	if err != nil {
		username = "unknown"
	}

	return &Settings{
		ConfigDir: configDir,
		DataDir:   dataDir,
		Username:  username,
	}, nil
}

func defaultDataDir(goos string, getenv func(string) string, homeDir string) string {
	switch goos {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "com.podtards."+appDirName)
	case "windows":
		appData := getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(homeDir, "AppData", "Roaming")
		}
		return filepath.Join(appData, "podtards", appDirName, "data")
	default:
		dataHome := getenv("XDG_DATA_HOME")
		if dataHome == "" {
			dataHome = filepath.Join(homeDir, ".local", "share")
		}
		return filepath.Join(dataHome, appDirName)
	}
}

func expandHome(path string) string {
	if len(path) < 2 || path[0] != '~' || (path[1] != '/' && path[1] != '\\') {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}
