package kdf

import (
	"fmt"
	"strings"

	kerrors "github.com/podtards/mspkeys/internal/errors"

	"github.com/denisbrodbeck/machineid"
)

// DeviceSource yields the stable host identifier used for device mode.
// The caller owns the returned buffer.
type DeviceSource interface {
	DeviceID() ([]byte, error)
}

// MachineID reads the operating system's machine identifier
// (/etc/machine-id, IOPlatformUUID, or the MachineGuid registry value).
type MachineID struct{}

func (MachineID) DeviceID() ([]byte, error) {
	id, err := machineid.ID()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get machine ID: %w", kerrors.ErrHost, err)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: machine ID is empty", kerrors.ErrHost)
	}
	return []byte(id), nil
}

// StaticDevice is a fixed identifier, for hosts that provide one out of band
// and for tests.
type StaticDevice string

func (s StaticDevice) DeviceID() ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: device identifier is empty", kerrors.ErrHost)
	}
	return []byte(s), nil
}
