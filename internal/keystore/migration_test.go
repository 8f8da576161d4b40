package keystore

import (
	"testing"
	"time"

	kerrors "github.com/podtards/mspkeys/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateLegacy(t *testing.T) {
	rec := LegacyRecord{
		Version:    LegacyVersion,
		Mode:       "password",
		Nonce:      sampleNonce,
		Ciphertext: "AQID",
		Argon2Salt: "c2FsdHNhbHQ",
		Pubkey:     samplePubkey,
		CreatedAt:  1600000000,
	}

	ks, err := MigrateLegacy(rec)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, ks.Version)
	require.Len(t, ks.Entries, 1)

	e := ks.Entries[0]
	assert.Equal(t, samplePubkey, e.IdentityID)
	assert.Equal(t, PasswordProtection{Salt: "c2FsdHNhbHQ"}, e.Protection)
	assert.Equal(t, time.Unix(1600000000, 0).UTC(), e.CreatedAt)
	assert.Nil(t, e.Label)
	assert.Equal(t, []byte{1, 2, 3}, e.Sealed.Ciphertext)
}

func TestMigrateLegacyRejectsInvalidRecord(t *testing.T) {
	rec := LegacyRecord{
		Version:    LegacyVersion,
		Mode:       "device",
		Nonce:      "AAAA",
		Ciphertext: "AQID",
		Pubkey:     samplePubkey,
	}
	_, err := MigrateLegacy(rec)
	assert.ErrorIs(t, err, kerrors.ErrFormat)
}
