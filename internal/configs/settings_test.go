package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDefaultDataDir(t *testing.T) {
	home := filepath.Join("home", "alex")

	tests := []struct {
		name     string
		goos     string
		env      map[string]string
		expected string
	}{
		{"LinuxFallback", "linux", nil, filepath.Join(home, ".local", "share", "msp-studio")},
		{"LinuxXDG", "linux", map[string]string{"XDG_DATA_HOME": "/data"}, filepath.Join("/data", "msp-studio")},
		{"Darwin", "darwin", nil, filepath.Join(home, "Library", "Application Support", "com.podtards.msp-studio")},
		{"WindowsAppData", "windows", map[string]string{"APPDATA": "C:/Users/alex/AppData/Roaming"}, filepath.Join("C:/Users/alex/AppData/Roaming", "podtards", "msp-studio", "data")},
		{"WindowsFallback", "windows", nil, filepath.Join(home, "AppData", "Roaming", "podtards", "msp-studio", "data")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := defaultDataDir(tc.goos, envMap(tc.env), home)
			if got != tc.expected {
				t.Errorf("defaultDataDir(%q) = %q, expected %q", tc.goos, got, tc.expected)
			}
		})
	}
}

func TestResolveSettingsOverrides(t *testing.T) {
	dataDir := t.TempDir()
	configDir := t.TempDir()

	s, err := ResolveSettings(envMap(map[string]string{
		EnvDataDir:   dataDir,
		EnvConfigDir: configDir,
	}))
	if err != nil {
		t.Fatalf("ResolveSettings failed: %v", err)
	}

	if s.KeystorePath() != filepath.Join(dataDir, KeystoreFileName) {
		t.Errorf("Unexpected keystore path %q", s.KeystorePath())
	}
	if s.AuditPath() != filepath.Join(dataDir, AuditFileName) {
		t.Errorf("Unexpected audit path %q", s.AuditPath())
	}
	if s.ConfigPath() != filepath.Join(configDir, ConfigFileName) {
		t.Errorf("Unexpected config path %q", s.ConfigPath())
	}
	if s.Username == "" {
		t.Error("Expected a username")
	}
}

func TestInitSettingsAppliesConfigDataDir(t *testing.T) {
	configDir := t.TempDir()
	override := t.TempDir()
	t.Setenv(EnvConfigDir, configDir)
	t.Setenv(EnvDataDir, "")

	cfg := DefaultConfig()
	cfg.Keystore.DataDir = override
	if err := SaveConfig(filepath.Join(configDir, ConfigFileName), cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	oldSettings, oldConfig := UserSettings, GlobalConfig
	defer func() {
		UserSettings, GlobalConfig = oldSettings, oldConfig
	}()

	if err := InitSettings(); err != nil {
		t.Fatalf("InitSettings failed: %v", err)
	}
	if UserSettings.DataDir != override {
		t.Errorf("Expected data dir %q, got %q", override, UserSettings.DataDir)
	}

	envDir := t.TempDir()
	t.Setenv(EnvDataDir, envDir)
	if err := InitSettings(); err != nil {
		t.Fatalf("InitSettings failed: %v", err)
	}
	if UserSettings.DataDir != envDir {
		t.Errorf("Expected environment to win, got %q", UserSettings.DataDir)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/keys"); got != filepath.Join(home, "keys") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/abs/keys"); got != "/abs/keys" {
		t.Errorf("expandHome changed an absolute path: %q", got)
	}
	if got := expandHome("~alex/keys"); got != "~alex/keys" {
		t.Errorf("expandHome changed a user path: %q", got)
	}
}
