package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/podtards/mspkeys/internal/configs"
	"github.com/podtards/mspkeys/internal/keystore"
	"github.com/podtards/mspkeys/internal/secmem"
	"github.com/podtards/mspkeys/internal/utils"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// doctor caches what several checks need. It reads the keystore file
// directly so that a legacy file is reported, not migrated.
type doctor struct {
	s *Session

	path    string
	data    []byte
	readErr error

	current *keystore.Keystore
	legacy  *keystore.LegacyRecord
}

// Doctor runs health checks on the keystore and its environment:
//   - Configuration file validity
//   - Keystore presence, permissions and format version
//   - Data directory permissions
//   - Device identifier availability for device-protected entries
//
// Doctor never modifies the keystore.
func Doctor(ctx context.Context, s *Session) (*DoctorResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := &doctor{s: s, path: s.Manager.Path()}
	d.load()

	checks := []func() CheckResult{
		d.checkConfig,
		d.checkKeystoreExists,
		d.checkKeystorePermissions,
		d.checkDataDirPermissions,
		d.checkKeystoreFormat,
		d.checkDeviceID,
	}

	var results []CheckResult
	for _, check := range checks {
		results = append(results, check())
	}

	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     calculateDoctorSummary(results),
		Suggestions: suggestions,
	}, nil
}

func (d *doctor) load() {
	d.data, d.readErr = os.ReadFile(d.path)
	if d.readErr != nil {
		return
	}
	if ks, err := keystore.DecodeCurrent(d.data); err == nil {
		d.current = ks
		return
	}
	if rec, err := keystore.DecodeLegacy(d.data); err == nil {
		d.legacy = rec
	}
}

func (d *doctor) missing() bool {
	return errors.Is(d.readErr, fs.ErrNotExist)
}

// checkConfig checks that config.toml, if present, parses.
func (d *doctor) checkConfig() CheckResult {
	const name = "Configuration"
	if d.s.Settings == nil {
		return CheckResult{Name: name, Status: CheckPass, Message: "Using default configuration"}
	}

	path := d.s.Settings.ConfigPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return CheckResult{Name: name, Status: CheckPass, Message: "No config.toml, using defaults"}
	}

	if _, err := configs.LoadConfig(path); err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to parse config: %v", err),
			Suggestion: fmt.Sprintf("Fix or delete %s", path),
		}
	}

	return CheckResult{Name: name, Status: CheckPass, Message: "Configuration valid"}
}

func (d *doctor) checkKeystoreExists() CheckResult {
	const name = "Keystore exists"
	if d.missing() {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    "No keystore yet",
			Suggestion: "Run 'mspkeys keys add' to store a key",
		}
	}
	if d.readErr != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to read keystore: %v", d.readErr),
			Suggestion: "Check that the keystore file is accessible",
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("Keystore found at %s", d.path)}
}

func (d *doctor) checkKeystorePermissions() CheckResult {
	const name = "Keystore permissions"
	if !utils.SupportsPermissionBits() {
		return CheckResult{Name: name, Status: CheckPass, Message: "Permission bits not used on this platform"}
	}
	if d.missing() {
		return CheckResult{Name: name, Status: CheckPass, Message: "No keystore (skipping permissions check)"}
	}

	mode, err := utils.FileMode(d.path)
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to stat keystore: %v", err),
			Suggestion: "Check that the keystore file is accessible",
		}
	}
	if mode != 0600 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Keystore has insecure permissions (%04o)", mode),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", d.path),
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Keystore has correct permissions (0600)"}
}

func (d *doctor) checkDataDirPermissions() CheckResult {
	const name = "Data directory permissions"
	dir := filepath.Dir(d.path)
	if !utils.SupportsPermissionBits() {
		return CheckResult{Name: name, Status: CheckPass, Message: "Permission bits not used on this platform"}
	}

	mode, err := utils.FileMode(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return CheckResult{Name: name, Status: CheckPass, Message: "Data directory will be created on first save"}
	}
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to stat data directory: %v", err),
			Suggestion: "Check that the data directory is accessible",
		}
	}
	if !utils.IsOwnerOnly(mode) {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Data directory is accessible to other users (%04o)", mode),
			Suggestion: fmt.Sprintf("Run 'chmod 700 %s' to restrict the data directory", dir),
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Data directory is private to this user"}
}

func (d *doctor) checkKeystoreFormat() CheckResult {
	const name = "Keystore format"
	if d.readErr != nil {
		return CheckResult{Name: name, Status: CheckPass, Message: "No keystore (skipping format check)"}
	}

	switch {
	case d.current != nil:
		return CheckResult{
			Name:    name,
			Status:  CheckPass,
			Message: fmt.Sprintf("Keystore is version %d with %d key(s)", keystore.CurrentVersion, len(d.current.Entries)),
		}
	case d.legacy != nil:
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Keystore uses the version %d single-key format", keystore.LegacyVersion),
			Suggestion: "Run 'mspkeys keys list' to migrate it to the current format",
		}
	default:
		_, err := keystore.DecodeCurrent(d.data)
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Keystore is unreadable: %v", err),
			Suggestion: "Restore the keystore from a backup, or run 'mspkeys keys clear' and add your keys again",
		}
	}
}

// checkDeviceID checks that device-protected entries can be unlocked here.
func (d *doctor) checkDeviceID() CheckResult {
	const name = "Device identifier"

	deviceEntries := 0
	if d.current != nil {
		for _, e := range d.current.Entries {
			if e.Protection.Mode() == keystore.ModeDevice {
				deviceEntries++
			}
		}
	} else if d.legacy != nil && d.legacy.Mode == string(keystore.ModeDevice) {
		deviceEntries = 1
	}

	id, err := d.s.Device.DeviceID()
	secmem.Wipe(id)
	if err != nil {
		status := CheckWarning
		if deviceEntries > 0 {
			status = CheckError
		}
		return CheckResult{
			Name:       name,
			Status:     status,
			Message:    fmt.Sprintf("Device identifier unavailable: %v", err),
			Suggestion: "Use password protection ('mspkeys keys rotate ID') on this machine",
		}
	}

	msg := "Device identifier available"
	if deviceEntries > 0 {
		msg = fmt.Sprintf("Device identifier available for %d device-protected key(s)", deviceEntries)
	}
	return CheckResult{Name: name, Status: CheckPass, Message: msg}
}

// calculateDoctorSummary calculates the counts of checks by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
