package keystore

import (
	"testing"
	"time"

	"github.com/podtards/mspkeys/internal/sealer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryFor(id string, prot Protection) Entry {
	return Entry{
		IdentityID: id,
		Protection: prot,
		Sealed:     sealer.Box{Nonce: make([]byte, sealer.NonceSize), Ciphertext: []byte{1}},
		CreatedAt:  time.Unix(1700000000, 0).UTC(),
	}
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("password")
	assert.True(t, ok)
	assert.Equal(t, ModePassword, m)

	m, ok = ParseMode("device")
	assert.True(t, ok)
	assert.Equal(t, ModeDevice, m)

	_, ok = ParseMode("Device")
	assert.False(t, ok)
	_, ok = ParseMode("")
	assert.False(t, ok)
}

func TestKeystorePutReplacesSameIdentity(t *testing.T) {
	ks := New()
	ks.Put(entryFor("aa", DeviceProtection{}))
	ks.Put(entryFor("bb", DeviceProtection{}))
	ks.Put(entryFor("aa", PasswordProtection{Salt: "salt"}))

	require.Len(t, ks.Entries, 2)
	assert.Equal(t, "bb", ks.Entries[0].IdentityID)
	assert.Equal(t, "aa", ks.Entries[1].IdentityID)
	assert.Equal(t, ModePassword, ks.Entries[1].Protection.Mode())
}

func TestKeystoreRemove(t *testing.T) {
	ks := New()
	ks.Put(entryFor("aa", DeviceProtection{}))

	assert.False(t, ks.Remove("bb"))
	assert.True(t, ks.Remove("aa"))
	assert.Empty(t, ks.Entries)

	_, ok := ks.Find("aa")
	assert.False(t, ok)
}

func TestInfoHidesSealedFieldsAndCopiesLabel(t *testing.T) {
	label := "main"
	e := entryFor("aa", PasswordProtection{Salt: "salt"})
	e.Label = &label

	info := e.Info()
	assert.Equal(t, "aa", info.IdentityID)
	assert.Equal(t, ModePassword, info.Mode)
	require.NotNil(t, info.Label)
	assert.Equal(t, "main", *info.Label)

	label = "changed"
	assert.Equal(t, "main", *info.Label)
}
