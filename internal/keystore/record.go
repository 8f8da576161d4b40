package keystore

import (
	"strings"
	"time"

	"github.com/podtards/mspkeys/internal/sealer"
)

// CurrentVersion is the format version written by Save.
const CurrentVersion = 2

// Mode names how an entry's key is derived.
type Mode string

const (
	ModePassword Mode = "password"
	ModeDevice   Mode = "device"
)

// ParseMode converts the persisted mode string.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModePassword:
		return ModePassword, true
	case ModeDevice:
		return ModeDevice, true
	}
	return "", false
}

// Protection is either PasswordProtection or DeviceProtection.
type Protection interface {
	Mode() Mode
	protection()
}

// PasswordProtection carries the entry's Argon2id salt string.
type PasswordProtection struct {
	Salt string
}

func (PasswordProtection) Mode() Mode { return ModePassword }
func (PasswordProtection) protection() {}

// DeviceProtection derives everything from the host and stores nothing.
type DeviceProtection struct{}

func (DeviceProtection) Mode() Mode { return ModeDevice }
func (DeviceProtection) protection() {}

// Entry is one protected secret.
type Entry struct {
	IdentityID string
	Protection Protection
	Sealed     sealer.Box
	CreatedAt  time.Time
	Label      *string
}

// Info returns the public view of the entry.
func (e Entry) Info() EntryInfo {
	info := EntryInfo{
		IdentityID: e.IdentityID,
		Mode:       e.Protection.Mode(),
		CreatedAt:  e.CreatedAt,
	}
	if e.Label != nil {
		l := *e.Label
		info.Label = &l
	}
	return info
}

// EntryInfo is what callers may see about an entry: never the nonce,
// ciphertext or salt.
type EntryInfo struct {
	IdentityID string    `json:"pubkey"`
	Mode       Mode      `json:"mode"`
	CreatedAt  time.Time `json:"created_at"`
	Label      *string   `json:"label"`
}

// Keystore is the persisted aggregate.
type Keystore struct {
	Version int
	Entries []Entry
}

// New returns an empty keystore at the current version.
func New() *Keystore {
	return &Keystore{Version: CurrentVersion, Entries: []Entry{}}
}

func (ks *Keystore) index(identityID string) int {
	identityID = strings.ToLower(identityID)
	for i, e := range ks.Entries {
		if e.IdentityID == identityID {
			return i
		}
	}
	return -1
}

// Find returns the entry for identityID.
func (ks *Keystore) Find(identityID string) (*Entry, bool) {
	i := ks.index(identityID)
	if i < 0 {
		return nil, false
	}
	return &ks.Entries[i], true
}

// Put removes any entry with the same identity and appends e.
func (ks *Keystore) Put(e Entry) {
	ks.Remove(e.IdentityID)
	ks.Entries = append(ks.Entries, e)
}

// Remove deletes the entry for identityID and reports whether it existed.
func (ks *Keystore) Remove(identityID string) bool {
	i := ks.index(identityID)
	if i < 0 {
		return false
	}
	ks.Entries = append(ks.Entries[:i], ks.Entries[i+1:]...)
	return true
}

// Infos lists every entry's public view in order.
func (ks *Keystore) Infos() []EntryInfo {
	out := make([]EntryInfo, 0, len(ks.Entries))
	for _, e := range ks.Entries {
		out = append(out, e.Info())
	}
	return out
}
