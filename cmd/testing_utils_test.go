package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/podtards/mspkeys/internal/configs"
	"github.com/podtards/mspkeys/internal/identity"
	"github.com/podtards/mspkeys/internal/kdf"
	"github.com/podtards/mspkeys/internal/keystore"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/spf13/cobra"
)

const testDevice = kdf.StaticDevice("cmd-test-machine")

// testRoot mirrors the root command built in main.
var testRoot = func() *cobra.Command {
	root := &cobra.Command{Use: "mspkeys", SilenceErrors: true, SilenceUsage: true}
	root.AddCommand(KeysCmd)
	root.AddCommand(ConfigCmd)
	return root
}()

// scriptedPrompter answers prompts from fixed values. Each call returns a
// fresh copy because commands wipe what they are given.
type scriptedPrompter struct {
	key       string
	passwords []string
	confirm   bool
	prompts   []string
}

func (p *scriptedPrompter) PrivateKey() ([]byte, error) {
	return []byte(p.key), nil
}

func (p *scriptedPrompter) Password(prompt string) ([]byte, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.passwords) == 0 {
		return nil, errors.New("unexpected password prompt: " + prompt)
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return []byte(pw), nil
}

func (p *scriptedPrompter) Confirm(prompt string) (bool, error) {
	p.prompts = append(p.prompts, prompt)
	return p.confirm, nil
}

// setupTestEnvironment points the config and data directories at temporary
// directories and installs cheap key derivation.
func setupTestEnvironment(t *testing.T) (dataDir, configDir string) {
	t.Helper()
	dataDir = t.TempDir()
	configDir = t.TempDir()
	t.Setenv(configs.EnvDataDir, dataDir)
	t.Setenv(configs.EnvConfigDir, configDir)
	t.Setenv("NO_COLOR", "1")

	ResetGlobalState()
	ResetConfigState()
	t.Cleanup(func() {
		ResetGlobalState()
		ResetConfigState()
	})

	SetManagerOptions(keystore.WithKDFParams(kdf.Params{Time: 1, MemoryKiB: 64, Threads: 1}))
	SetDeviceSource(testDevice)
	return dataDir, configDir
}

// runCommand executes the root command with args and captures its output.
// Flag state is reset first, as it would be in a fresh process.
func runCommand(t *testing.T, p *scriptedPrompter, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetCobraFlagState(KeysCmd)
	resetConfigCobraFlagState()
	if p != nil {
		SetPrompter(p)
	}

	var out, errOut bytes.Buffer
	testRoot.SetOut(&out)
	testRoot.SetErr(&errOut)
	testRoot.SetArgs(args)
	err = testRoot.Execute()
	return out.String(), errOut.String(), err
}

type testKey struct {
	nsec string
	id   string
	npub string
}

func newTestKey(t *testing.T) testKey {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	raw := priv.Serialize()
	nsec, err := identity.EncodeNsec(raw)
	if err != nil {
		t.Fatalf("Failed to encode nsec: %v", err)
	}
	id, err := identity.Nostr{}.IdentityID([]byte(nsec))
	if err != nil {
		t.Fatalf("Failed to derive identity: %v", err)
	}
	npub, err := identity.EncodeNpub(id)
	if err != nil {
		t.Fatalf("Failed to encode npub: %v", err)
	}
	return testKey{nsec: nsec, id: id, npub: npub}
}
