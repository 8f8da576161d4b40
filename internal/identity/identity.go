// Package identity adapts Nostr secp256k1 keys to the keystore.
//
// The keystore never interprets a secret beyond asking this package which
// public identity it belongs to. A secret is accepted either as a bech32
// "nsec1..." string or as 64 hex characters; the identity id is the hex
// encoded 32-byte x-only (BIP-340) public key.
package identity

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	kerrors "github.com/podtards/mspkeys/internal/errors"
	"github.com/podtards/mspkeys/internal/secmem"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	secretKeyHRP = "nsec"
	publicKeyHRP = "npub"
	keyLen       = 32
)

// Nostr derives identity ids from Nostr private keys.
type Nostr struct{}

// IdentityID returns the hex public key for secret.
func (Nostr) IdentityID(secret []byte) (string, error) {
	return PublicKeyHex(secret)
}

// PublicKeyHex parses secret and returns its x-only public key in hex.
func PublicKeyHex(secret []byte) (string, error) {
	raw, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	defer secmem.Wipe(raw)

	priv, pub := btcec.PrivKeyFromBytes(raw)
	defer priv.Zero()

	return hex.EncodeToString(schnorr.SerializePubKey(pub)), nil
}

// decodeSecret returns the 32 raw scalar bytes. The caller wipes them.
func decodeSecret(secret []byte) ([]byte, error) {
	s := bytes.TrimSpace(secret)
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty key", kerrors.ErrInvalidSecret)
	}

	var raw []byte
	switch {
	case hasPrefixFold(s, secretKeyHRP+"1"):
		hrp, data, err := bech32.DecodeToBase256(string(s))
		if err != nil {
			// bech32 errors quote checksum characters derived from the key.
			return nil, fmt.Errorf("%w: malformed nsec", kerrors.ErrInvalidSecret)
		}
		if hrp != secretKeyHRP {
			secmem.Wipe(data)
			return nil, fmt.Errorf("%w: unexpected prefix %q", kerrors.ErrInvalidSecret, hrp)
		}
		raw = data
	case len(s) == hex.EncodedLen(keyLen):
		raw = make([]byte, keyLen)
		if _, err := hex.Decode(raw, s); err != nil {
			secmem.Wipe(raw)
			return nil, fmt.Errorf("%w: invalid hex", kerrors.ErrInvalidSecret)
		}
	default:
		return nil, fmt.Errorf("%w: expected nsec or 64 hex characters", kerrors.ErrInvalidSecret)
	}

	if err := validScalar(raw); err != nil {
		secmem.Wipe(raw)
		return nil, err
	}
	return raw, nil
}

// validScalar requires 0 < k < n.
func validScalar(k []byte) error {
	if len(k) != keyLen {
		return fmt.Errorf("%w: key must be %d bytes", kerrors.ErrInvalidSecret, keyLen)
	}
	var order [keyLen]byte
	btcec.S256().Params().N.FillBytes(order[:])
	if bytes.Compare(k, order[:]) >= 0 {
		return fmt.Errorf("%w: key is out of range", kerrors.ErrInvalidSecret)
	}
	if bytes.Equal(k, make([]byte, keyLen)) {
		return fmt.Errorf("%w: key is zero", kerrors.ErrInvalidSecret)
	}
	return nil
}

func hasPrefixFold(s []byte, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(string(s[:len(prefix)]), prefix)
}

// EncodeNpub renders a hex identity id as a bech32 npub.
func EncodeNpub(identityID string) (string, error) {
	pub, err := hex.DecodeString(identityID)
	if err != nil || len(pub) != keyLen {
		return "", fmt.Errorf("invalid identity id %q", identityID)
	}
	return bech32.EncodeFromBase256(publicKeyHRP, pub)
}

// DecodeNpub accepts either an npub or a hex identity id and returns the hex form.
func DecodeNpub(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(strings.ToLower(s), publicKeyHRP+"1") {
		raw, err := hex.DecodeString(s)
		if err != nil || len(raw) != keyLen {
			return "", fmt.Errorf("invalid identity %q", s)
		}
		return strings.ToLower(s), nil
	}
	hrp, data, err := bech32.DecodeToBase256(s)
	if err != nil {
		return "", fmt.Errorf("invalid npub: %w", err)
	}
	if hrp != publicKeyHRP || len(data) != keyLen {
		return "", fmt.Errorf("invalid npub %q", s)
	}
	return hex.EncodeToString(data), nil
}

// EncodeNsec renders 32 raw secret bytes as a bech32 nsec.
func EncodeNsec(raw []byte) (string, error) {
	if err := validScalar(raw); err != nil {
		return "", err
	}
	return bech32.EncodeFromBase256(secretKeyHRP, raw)
}
