package sealer

import (
	"bytes"
	"crypto/rand"
	"testing"

	kerrors "github.com/podtards/mspkeys/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSealOpenRoundtrip(t *testing.T) {
	key := newKey(t)
	secret := []byte("nsec1vl029mgpspedva04g90vltkh6fvh240zqtv9k0t9af8935ke9laqsnlfe5")

	box, err := Seal(secret, key)
	require.NoError(t, err)
	assert.Len(t, box.Nonce, NonceSize)
	assert.False(t, bytes.Contains(box.Ciphertext, secret))

	plain, err := Open(box, key)
	require.NoError(t, err)
	assert.Equal(t, secret, plain)
}

func TestSealUsesFreshNonces(t *testing.T) {
	key := newKey(t)
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		box, err := Seal([]byte("same plaintext"), key)
		require.NoError(t, err)
		require.False(t, seen[string(box.Nonce)], "nonce reused")
		seen[string(box.Nonce)] = true
	}
}

func TestOpenFailures(t *testing.T) {
	key := newKey(t)
	box, err := Seal([]byte("secret"), key)
	require.NoError(t, err)

	t.Run("WrongKey", func(t *testing.T) {
		_, err := Open(box, newKey(t))
		assert.ErrorIs(t, err, kerrors.ErrAuthenticationFailed)
	})

	t.Run("TamperedCiphertext", func(t *testing.T) {
		tampered := Box{Nonce: box.Nonce, Ciphertext: append([]byte(nil), box.Ciphertext...)}
		tampered.Ciphertext[0] ^= 0xFF
		_, err := Open(tampered, key)
		assert.ErrorIs(t, err, kerrors.ErrAuthenticationFailed)
	})

	t.Run("TamperedNonce", func(t *testing.T) {
		tampered := Box{Nonce: append([]byte(nil), box.Nonce...), Ciphertext: box.Ciphertext}
		tampered.Nonce[3] ^= 0x01
		_, err := Open(tampered, key)
		assert.ErrorIs(t, err, kerrors.ErrAuthenticationFailed)
	})

	t.Run("ShortNonce", func(t *testing.T) {
		_, err := Open(Box{Nonce: box.Nonce[:12], Ciphertext: box.Ciphertext}, key)
		assert.ErrorIs(t, err, kerrors.ErrAuthenticationFailed)
	})

	t.Run("BadKeyLength", func(t *testing.T) {
		_, err := Open(box, key[:16])
		require.Error(t, err)
		assert.NotErrorIs(t, err, kerrors.ErrAuthenticationFailed)
	})
}
