package keystore

import (
	"encoding/hex"
	"path/filepath"
	"testing"
	"time"

	"github.com/podtards/mspkeys/internal/identity"
	"github.com/podtards/mspkeys/internal/kdf"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/stretchr/testify/require"
)

var fastParams = kdf.Params{Time: 1, MemoryKiB: 64, Threads: 1}

const testMachineID = "test-machine-id"

var testClock = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func testDeriver(device string) kdf.Deriver {
	return kdf.Deriver{Params: fastParams, Device: kdf.StaticDevice(device)}
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	base := []Option{
		WithDeriver(testDeriver(testMachineID)),
		WithClock(func() time.Time { return testClock }),
	}
	return NewManager(path, append(base, opts...)...), path
}

type testKey struct {
	nsec string
	hex  string
	id   string
}

func newTestKey(t *testing.T) testKey {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	raw := priv.Serialize()
	nsec, err := identity.EncodeNsec(raw)
	require.NoError(t, err)
	return testKey{
		nsec: nsec,
		hex:  hex.EncodeToString(raw),
		id:   hex.EncodeToString(schnorr.SerializePubKey(priv.PubKey())),
	}
}

func strPtr(s string) *string { return &s }
