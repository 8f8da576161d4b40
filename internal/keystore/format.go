package keystore

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	kerrors "github.com/podtards/mspkeys/internal/errors"
	"github.com/podtards/mspkeys/internal/sealer"
)

// LegacyVersion is the single-key format migrated by Load.
const LegacyVersion = 1

// fileV2 is the current on-disk layout.
type fileV2 struct {
	Version int        `json:"version"`
	Keys    *[]entryV2 `json:"keys"`
}

type entryV2 struct {
	Pubkey     string  `json:"pubkey"`
	Mode       string  `json:"mode"`
	Nonce      string  `json:"nonce"`
	Ciphertext string  `json:"ciphertext"`
	Argon2Salt string  `json:"argon2_salt"`
	CreatedAt  uint64  `json:"created_at"`
	Label      *string `json:"label"`
}

// LegacyRecord is the version 1 layout: one key, fields at the top level,
// no label.
type LegacyRecord struct {
	Version    int    `json:"version"`
	Mode       string `json:"mode"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
	Argon2Salt string `json:"argon2_salt"`
	Pubkey     string `json:"pubkey"`
	CreatedAt  uint64 `json:"created_at"`
}

// decodeStrict unmarshals data into v, rejecting unknown fields and
// trailing content so that one schema cannot be mistaken for the other.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON document")
	}
	return nil
}

// DecodeCurrent parses a version 2 document.
func DecodeCurrent(data []byte) (*Keystore, error) {
	var f fileV2
	if err := decodeStrict(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrFormat, err)
	}
	if f.Keys == nil {
		return nil, fmt.Errorf("%w: missing keys collection", kerrors.ErrFormat)
	}
	if f.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", kerrors.ErrFormat, f.Version)
	}

	ks := &Keystore{Version: CurrentVersion, Entries: make([]Entry, 0, len(*f.Keys))}
	for i, w := range *f.Keys {
		e, err := entryFromWire(w)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		if _, dup := ks.Find(e.IdentityID); dup {
			return nil, fmt.Errorf("%w: duplicate pubkey %s", kerrors.ErrFormat, e.IdentityID)
		}
		ks.Entries = append(ks.Entries, e)
	}
	return ks, nil
}

// DecodeLegacy parses a version 1 document.
func DecodeLegacy(data []byte) (*LegacyRecord, error) {
	var rec LegacyRecord
	if err := decodeStrict(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrFormat, err)
	}
	if rec.Version != LegacyVersion {
		return nil, fmt.Errorf("%w: unsupported legacy version %d", kerrors.ErrFormat, rec.Version)
	}
	if rec.Pubkey == "" || rec.Mode == "" || rec.Nonce == "" || rec.Ciphertext == "" {
		return nil, fmt.Errorf("%w: legacy record is incomplete", kerrors.ErrFormat)
	}
	return &rec, nil
}

// Encode serializes ks in the current format.
func Encode(ks *Keystore) ([]byte, error) {
	keys := make([]entryV2, 0, len(ks.Entries))
	for _, e := range ks.Entries {
		keys = append(keys, entryToWire(e))
	}
	return json.MarshalIndent(fileV2{Version: CurrentVersion, Keys: &keys}, "", "  ")
}

func entryToWire(e Entry) entryV2 {
	w := entryV2{
		Pubkey:     e.IdentityID,
		Mode:       string(e.Protection.Mode()),
		Nonce:      base64.StdEncoding.EncodeToString(e.Sealed.Nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(e.Sealed.Ciphertext),
		CreatedAt:  uint64(e.CreatedAt.Unix()),
		Label:      e.Label,
	}
	if p, ok := e.Protection.(PasswordProtection); ok {
		w.Argon2Salt = p.Salt
	}
	return w
}

func entryFromWire(w entryV2) (Entry, error) {
	if raw, err := hex.DecodeString(w.Pubkey); err != nil || len(raw) != 32 {
		return Entry{}, fmt.Errorf("%w: invalid pubkey %q", kerrors.ErrFormat, w.Pubkey)
	}
	// Identity ids are compared in lower case everywhere.
	w.Pubkey = strings.ToLower(w.Pubkey)

	prot, err := protectionFromWire(w.Mode, w.Argon2Salt)
	if err != nil {
		return Entry{}, err
	}

	nonce, err := base64.StdEncoding.DecodeString(w.Nonce)
	if err != nil || len(nonce) != sealer.NonceSize {
		return Entry{}, fmt.Errorf("%w: invalid nonce", kerrors.ErrFormat)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(w.Ciphertext)
	if err != nil || len(ciphertext) == 0 {
		return Entry{}, fmt.Errorf("%w: invalid ciphertext", kerrors.ErrFormat)
	}

	return Entry{
		IdentityID: w.Pubkey,
		Protection: prot,
		Sealed:     sealer.Box{Nonce: nonce, Ciphertext: ciphertext},
		CreatedAt:  time.Unix(int64(w.CreatedAt), 0).UTC(),
		Label:      w.Label,
	}, nil
}

func protectionFromWire(mode, salt string) (Protection, error) {
	m, ok := ParseMode(mode)
	if !ok {
		return nil, fmt.Errorf("%w: unknown storage mode: %s", kerrors.ErrFormat, mode)
	}
	switch m {
	case ModePassword:
		if salt == "" {
			return nil, fmt.Errorf("%w: password entry without salt", kerrors.ErrFormat)
		}
		return PasswordProtection{Salt: salt}, nil
	default:
		if salt != "" {
			return nil, fmt.Errorf("%w: device entry with salt", kerrors.ErrFormat)
		}
		return DeviceProtection{}, nil
	}
}
