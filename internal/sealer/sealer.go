// Package sealer encrypts and authenticates keystore secrets with
// XChaCha20-Poly1305.
//
// The 24-byte nonce is drawn from crypto/rand on every Seal, which is wide
// enough that random nonces do not collide in practice and no nonce
// bookkeeping is kept.
package sealer

import (
	"crypto/rand"
	"fmt"

	kerrors "github.com/podtards/mspkeys/internal/errors"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// NonceSize is the XChaCha20-Poly1305 nonce length.
	NonceSize = chacha20poly1305.NonceSizeX

	// KeySize is the required key length.
	KeySize = chacha20poly1305.KeySize
)

// Box is the output of a single Seal call. Nonce and Ciphertext are only
// ever created together and are stored together.
type Box struct {
	Nonce      []byte
	Ciphertext []byte
}

// Seal encrypts plaintext under key with a fresh random nonce.
func Seal(plaintext, key []byte) (Box, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return Box{}, fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return Box{}, fmt.Errorf("%w: generating nonce: %w", kerrors.ErrHost, err)
	}

	return Box{
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Open authenticates and decrypts box. Every failure to authenticate,
// including a malformed nonce, is reported as ErrAuthenticationFailed.
// The caller owns the returned plaintext and must wipe it.
func Open(box Box, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	if len(box.Nonce) != NonceSize {
		return nil, kerrors.ErrAuthenticationFailed
	}

	plaintext, err := aead.Open(nil, box.Nonce, box.Ciphertext, nil)
	if err != nil {
		return nil, kerrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}
