package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/podtards/mspkeys/internal/configs"
)

func TestConfigShowDefaults(t *testing.T) {
	dataDir, configDir := setupTestEnvironment(t)

	out, _, err := runCommand(t, nil, "config", "show", "--json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	var view configView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("config show output is not JSON: %v\n%s", err, out)
	}
	if view.ConfigExists {
		t.Error("Expected no config file")
	}
	if view.ConfigPath != filepath.Join(configDir, configs.ConfigFileName) {
		t.Errorf("Unexpected config path %s", view.ConfigPath)
	}
	if view.KeystorePath != filepath.Join(dataDir, configs.KeystoreFileName) {
		t.Errorf("Unexpected keystore path %s", view.KeystorePath)
	}
	if view.AuditEnabled || !view.Spinner {
		t.Errorf("Expected defaults, got %+v", view)
	}
}

func TestConfigInit(t *testing.T) {
	_, configDir := setupTestEnvironment(t)
	path := filepath.Join(configDir, configs.ConfigFileName)

	out, _, err := runCommand(t, nil, "config", "init", "--audit", "--no-spinner")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Wrote") {
		t.Errorf("Unexpected output: %q", out)
	}

	cfg, err := configs.LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load written config: %v", err)
	}
	if !cfg.Audit.Enabled || cfg.UI.Spinner {
		t.Errorf("Unexpected config: %+v", cfg)
	}

	out, _, err = runCommand(t, nil, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("Expected existing config to be kept, got: %q", out)
	}
	if cfg, _ := configs.LoadConfig(path); !cfg.Audit.Enabled {
		t.Error("Existing config was overwritten without --force")
	}

	if _, _, err := runCommand(t, nil, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force failed: %v", err)
	}
	if cfg, _ := configs.LoadConfig(path); cfg.Audit.Enabled {
		t.Error("Expected --force to overwrite the config")
	}
}

func TestConfigDataDirMovesKeystore(t *testing.T) {
	setupTestEnvironment(t)
	// The environment override wins over the file, so drop it.
	os.Unsetenv(configs.EnvDataDir)

	custom := filepath.Join(t.TempDir(), "elsewhere")
	if _, _, err := runCommand(t, nil, "config", "init", "--data-dir", custom); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	if _, _, err := runCommand(t, &scriptedPrompter{key: newTestKey(t).nsec}, "keys", "add", "--device"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(custom, configs.KeystoreFileName)); err != nil {
		t.Errorf("Expected keystore under the configured data dir: %v", err)
	}
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	_, configDir := setupTestEnvironment(t)
	if err := os.WriteFile(filepath.Join(configDir, configs.ConfigFileName), []byte("[keystore]\ndatadir = \"x\"\n"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	_, _, err := runCommand(t, nil, "config", "show")
	if err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("Expected unknown key error, got %v", err)
	}
}
