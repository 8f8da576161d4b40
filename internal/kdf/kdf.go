// Package kdf turns a password or device-bound material into the symmetric
// key that protects a keystore entry.
//
// Derivation always uses Argon2id. Password entries carry their own random
// salt; device entries compute a deterministic salt from the machine id and
// an application constant, so the same host reproduces the same key without
// user input.
package kdf

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	kerrors "github.com/podtards/mspkeys/internal/errors"
	"github.com/podtards/mspkeys/internal/secmem"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the length of every derived key.
	KeySize = 32

	// SaltSize is the number of random bytes behind a password salt, and the
	// length of a device salt.
	SaltSize = 16

	// minSaltLen is the smallest salt Argon2 accepts.
	minSaltLen = 8

	// DeviceAppSalt binds device keys to this application.
	DeviceAppSalt = "msp-studio-device-key-v1"
)

// Params are the Argon2id cost parameters.
type Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultParams returns the production cost: 3 passes over 64 MiB, one lane.
// Entries do not record their parameters, so these must not change for an
// existing keystore.
func DefaultParams() Params {
	return Params{Time: 3, MemoryKiB: 64 * 1024, Threads: 1}
}

// Validate rejects parameters Argon2id cannot run with.
func (p Params) Validate() error {
	if p.Time == 0 || p.Threads == 0 {
		return fmt.Errorf("%w: time and threads must be positive", kerrors.ErrKDFParams)
	}
	if p.MemoryKiB < 8*uint32(p.Threads) {
		return fmt.Errorf("%w: memory must be at least 8 KiB per thread", kerrors.ErrKDFParams)
	}
	return nil
}

// Derive runs Argon2id over material and salt. The caller owns the returned
// key and must wipe it.
func Derive(material, salt []byte, p Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) < minSaltLen {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes", kerrors.ErrKDFParams, minSaltLen)
	}
	return argon2.IDKey(material, salt, p.Time, p.MemoryKiB, p.Threads, KeySize), nil
}

// NewPasswordSalt returns a fresh salt string for a password entry: SaltSize
// random bytes in unpadded standard base64. The salt fed to Argon2id is the
// string's bytes, which keeps keystores written by earlier releases readable.
func NewPasswordSalt() (string, error) {
	raw := make([]byte, SaltSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%w: generating salt: %w", kerrors.ErrHost, err)
	}
	return base64.RawStdEncoding.EncodeToString(raw), nil
}

// DeviceSalt computes the deterministic salt for device mode:
// SHA-256(deviceID || DeviceAppSalt) truncated to SaltSize.
func DeviceSalt(deviceID []byte) []byte {
	h := sha256.New()
	h.Write(deviceID)
	h.Write([]byte(DeviceAppSalt))
	sum := h.Sum(nil)
	return sum[:SaltSize]
}

// Deriver derives entry keys with fixed parameters and a device source.
type Deriver struct {
	Params Params
	Device DeviceSource
}

// NewDeriver returns a Deriver with production parameters bound to this machine.
func NewDeriver() Deriver {
	return Deriver{Params: DefaultParams(), Device: MachineID{}}
}

// PasswordKey derives the key for a password-protected entry.
func (d Deriver) PasswordKey(password []byte, salt string) ([]byte, error) {
	if len(password) == 0 {
		return nil, kerrors.ErrMissingCredential
	}
	if salt == "" {
		return nil, fmt.Errorf("%w: password entry has no salt", kerrors.ErrKDFParams)
	}
	return Derive(password, []byte(salt), d.Params)
}

// DeviceKey derives the key for a device-protected entry on this host.
func (d Deriver) DeviceKey() ([]byte, error) {
	if d.Device == nil {
		return nil, fmt.Errorf("%w: no device identifier source configured", kerrors.ErrHost)
	}
	id, err := d.Device.DeviceID()
	if err != nil {
		return nil, err
	}
	defer secmem.Wipe(id)

	salt := DeviceSalt(id)
	defer secmem.Wipe(salt)

	return Derive(id, salt, d.Params)
}
