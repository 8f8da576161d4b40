package kdf

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"

	kerrors "github.com/podtards/mspkeys/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastParams keeps the tests quick; production uses DefaultParams.
var fastParams = Params{Time: 1, MemoryKiB: 64, Threads: 1}

type failingDevice struct{}

func (failingDevice) DeviceID() ([]byte, error) {
	return nil, errors.Join(kerrors.ErrHost, errors.New("registry unavailable"))
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, uint32(3), p.Time)
	assert.Equal(t, uint32(65536), p.MemoryKiB)
	assert.Equal(t, uint8(1), p.Threads)
	require.NoError(t, p.Validate())
}

func TestDeriveIsDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1, err := Derive([]byte("pw1"), salt, fastParams)
	require.NoError(t, err)
	k2, err := Derive([]byte("pw1"), salt, fastParams)
	require.NoError(t, err)
	assert.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)

	k3, err := Derive([]byte("pw2"), salt, fastParams)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	k4, err := Derive([]byte("pw1"), []byte("fedcba9876543210"), fastParams)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4)
}

func TestDeriveRejectsBadParameters(t *testing.T) {
	cases := map[string]struct {
		salt   []byte
		params Params
	}{
		"ZeroTime":    {[]byte("0123456789abcdef"), Params{Time: 0, MemoryKiB: 64, Threads: 1}},
		"ZeroThreads": {[]byte("0123456789abcdef"), Params{Time: 1, MemoryKiB: 64, Threads: 0}},
		"TinyMemory":  {[]byte("0123456789abcdef"), Params{Time: 1, MemoryKiB: 4, Threads: 1}},
		"ShortSalt":   {[]byte("short"), fastParams},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Derive([]byte("pw"), tc.salt, tc.params)
			assert.ErrorIs(t, err, kerrors.ErrKDFParams)
		})
	}
}

func TestNewPasswordSalt(t *testing.T) {
	s1, err := NewPasswordSalt()
	require.NoError(t, err)
	s2, err := NewPasswordSalt()
	require.NoError(t, err)

	assert.Len(t, s1, 22)
	assert.NotEqual(t, s1, s2)

	raw, err := base64.RawStdEncoding.DecodeString(s1)
	require.NoError(t, err)
	assert.Len(t, raw, SaltSize)
}

func TestDeviceSalt(t *testing.T) {
	id := []byte("4c4c4544-0035-4410-8058-b7c04f4d4d32")
	sum := sha256.Sum256(append(append([]byte{}, id...), DeviceAppSalt...))

	salt := DeviceSalt(id)
	assert.Equal(t, sum[:SaltSize], salt)
	assert.Equal(t, salt, DeviceSalt(id))
	assert.False(t, bytes.Equal(salt, DeviceSalt([]byte("other-machine"))))
}

func TestDeriverPasswordKey(t *testing.T) {
	d := Deriver{Params: fastParams}

	t.Run("MatchesDirectDerivation", func(t *testing.T) {
		salt, err := NewPasswordSalt()
		require.NoError(t, err)
		key, err := d.PasswordKey([]byte("pw1"), salt)
		require.NoError(t, err)
		want, err := Derive([]byte("pw1"), []byte(salt), fastParams)
		require.NoError(t, err)
		assert.Equal(t, want, key)
	})

	t.Run("EmptyPasswordIsMissingCredential", func(t *testing.T) {
		_, err := d.PasswordKey(nil, "c2FsdHNhbHRzYWx0c2FsdA")
		assert.ErrorIs(t, err, kerrors.ErrMissingCredential)
	})

	t.Run("EmptySaltRejected", func(t *testing.T) {
		_, err := d.PasswordKey([]byte("pw"), "")
		assert.ErrorIs(t, err, kerrors.ErrKDFParams)
	})
}

func TestDeriverDeviceKey(t *testing.T) {
	t.Run("StableOnSameDevice", func(t *testing.T) {
		d := Deriver{Params: fastParams, Device: StaticDevice("machine-a")}
		k1, err := d.DeviceKey()
		require.NoError(t, err)
		k2, err := d.DeviceKey()
		require.NoError(t, err)
		assert.Equal(t, k1, k2)

		other := Deriver{Params: fastParams, Device: StaticDevice("machine-b")}
		k3, err := other.DeviceKey()
		require.NoError(t, err)
		assert.NotEqual(t, k1, k3)
	})

	t.Run("DeviceFailureIsHostError", func(t *testing.T) {
		d := Deriver{Params: fastParams, Device: failingDevice{}}
		_, err := d.DeviceKey()
		assert.ErrorIs(t, err, kerrors.ErrHost)
	})

	t.Run("MissingSourceIsHostError", func(t *testing.T) {
		d := Deriver{Params: fastParams}
		_, err := d.DeviceKey()
		assert.ErrorIs(t, err, kerrors.ErrHost)
	})

	t.Run("EmptyStaticDevice", func(t *testing.T) {
		d := Deriver{Params: fastParams, Device: StaticDevice("")}
		_, err := d.DeviceKey()
		assert.ErrorIs(t, err, kerrors.ErrHost)
	})
}
