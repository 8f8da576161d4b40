package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFileName))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.UI.Spinner {
		t.Error("Expected spinner to default to true")
	}
	if cfg.Audit.Enabled {
		t.Error("Expected audit to default to false")
	}
	if cfg.Keystore.DataDir != "" {
		t.Errorf("Expected empty data dir, got %q", cfg.Keystore.DataDir)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	cfg := &Config{
		Keystore: KeystoreConfig{DataDir: "/srv/keys"},
		Audit:    AuditConfig{Enabled: true},
		UI:       UIConfig{Spinner: false},
	}
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Expected %+v, got %+v", *cfg, *loaded)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm()&0o077 != 0 && os.PathSeparator == '/' {
		t.Errorf("Expected owner-only config file, got %v", info.Mode().Perm())
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("[audit]\nenabled = true\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Audit.Enabled {
		t.Error("Expected audit to be enabled")
	}
	if !cfg.UI.Spinner {
		t.Error("Expected spinner to keep its default")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"InvalidSyntax", "[keystore\n", "failed to load config"},
		{"UnknownKey", "[keystore]\nkdf_memory = 1\n", "keystore.kdf_memory"},
		{"WrongType", "[ui]\nspinner = \"yes\"\n", "failed to load config"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			if err := os.WriteFile(path, []byte(tc.content), 0600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
