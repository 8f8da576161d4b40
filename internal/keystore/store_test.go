package keystore

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	kerrors "github.com/podtards/mspkeys/internal/errors"
	"github.com/podtards/mspkeys/internal/identity"
	"github.com/podtards/mspkeys/internal/kdf"
	logger "github.com/podtards/mspkeys/internal/logging"
	"github.com/podtards/mspkeys/internal/sealer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLegacy seals secret the way version 1 files were written and stores
// the record at path. An empty password writes a device-protected record
// bound to the test machine id.
func writeLegacy(t *testing.T, path, secret, password string) string {
	t.Helper()
	mode, salt := "device", ""
	var (
		key []byte
		err error
	)
	if password == "" {
		key, err = testDeriver(testMachineID).DeviceKey()
	} else {
		mode = "password"
		salt, err = kdf.NewPasswordSalt()
		require.NoError(t, err)
		key, err = testDeriver("").PasswordKey([]byte(password), salt)
	}
	require.NoError(t, err)
	box, err := sealer.Seal([]byte(secret), key)
	require.NoError(t, err)

	id, err := identity.Nostr{}.IdentityID([]byte(secret))
	require.NoError(t, err)

	rec := LegacyRecord{
		Version:    LegacyVersion,
		Mode:       mode,
		Nonce:      base64.StdEncoding.EncodeToString(box.Nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(box.Ciphertext),
		Argon2Salt: salt,
		Pubkey:     id,
		CreatedAt:  1600000000,
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return id
}

func TestFileStoreLoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), FileName), logger.Logger{})

	ks, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, ks.Version)
	assert.Empty(t, ks.Entries)

	exists, err := s.Exists()
	require.NoError(t, err)
	assert.False(t, exists, "Load must not create the file")
}

func TestFileStoreSaveCreatesDirAndRestrictsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", FileName)
	s := NewFileStore(path, logger.Logger{})

	ks := New()
	ks.Put(entryFor(samplePubkey, DeviceProtection{}))
	require.NoError(t, s.Save(ks))

	back, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, ks, back)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestFileStoreSaveTightensExistingFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	require.NoError(t, NewFileStore(path, logger.Logger{}).Save(New()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"hello":"world"}`), 0o600))

	_, err := NewFileStore(path, logger.Logger{}).Load()
	assert.ErrorIs(t, err, kerrors.ErrFormat)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, string(data))
}

func TestFileStoreMigratesLegacyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	k := newTestKey(t)
	id := writeLegacy(t, path, k.nsec, "pw1")
	s := NewFileStore(path, logger.Logger{})

	first, err := s.Load()
	require.NoError(t, err)
	require.Len(t, first.Entries, 1)
	assert.Equal(t, id, first.Entries[0].IdentityID)
	assert.Nil(t, first.Entries[0].Label)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	onDisk, err := DecodeCurrent(data)
	require.NoError(t, err, "migrated file must parse as the current format")
	assert.Equal(t, first, onDisk)

	second, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFileStoreMigratesDeviceLegacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	k := newTestKey(t)
	id := writeLegacy(t, path, k.nsec, "")

	ks, err := NewFileStore(path, logger.Logger{}).Load()
	require.NoError(t, err)
	require.Len(t, ks.Entries, 1)
	assert.Equal(t, id, ks.Entries[0].IdentityID)
	assert.Equal(t, DeviceProtection{}, ks.Entries[0].Protection)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"argon2_salt": ""`)
}

func TestFileStoreRemoveIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s := NewFileStore(path, logger.Logger{})
	require.NoError(t, s.Save(New()))

	require.NoError(t, s.Remove())
	require.NoError(t, s.Remove())

	exists, err := s.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStoreLoadDirectoryIsHostError(t *testing.T) {
	dir := t.TempDir()
	_, err := NewFileStore(dir, logger.Logger{}).Load()
	assert.ErrorIs(t, err, kerrors.ErrHost)
}
