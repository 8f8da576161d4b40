package cmd

import (
	"github.com/podtards/mspkeys/internal/configs"
	"github.com/podtards/mspkeys/internal/kdf"
	"github.com/podtards/mspkeys/internal/keystore"
	logger "github.com/podtards/mspkeys/internal/logging"
	"github.com/podtards/mspkeys/internal/workflows"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// session is opened by KeysCmd before any subcommand runs.
	session *workflows.Session

	// Test hooks, see SetManagerOptions and SetDeviceSource.
	managerOptions []keystore.Option
	deviceSource   kdf.DeviceSource

	KeysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Manage the encrypted Nostr keystore",
		Long: `Stores Nostr private keys encrypted at rest, protected either by a password
or by a key bound to this machine.

The keystore is shared with MSP Studio, so keys added here can be unlocked by
the app and the other way around.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.OutOrStdout(),
				Err:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing keys command with verbose=%t, debug=%t", verbose, debug)
			return openSession()
		},
	}
)

func init() {
	KeysCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	KeysCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	KeysCmd.AddCommand(listCmd)
	KeysCmd.AddCommand(addCmd)
	KeysCmd.AddCommand(unlockCmd)
	KeysCmd.AddCommand(removeCmd)
	KeysCmd.AddCommand(labelCmd)
	KeysCmd.AddCommand(rotateCmd)
	KeysCmd.AddCommand(clearCmd)
	KeysCmd.AddCommand(logCmd)
	KeysCmd.AddCommand(doctorCmd)
}

func openSession() error {
	if err := configs.InitSettings(); err != nil {
		return Logger.ErrorfAndReturn("failed to load settings: %v", err)
	}
	Logger.Debugf("Keystore path: %s", configs.UserSettings.KeystorePath())

	session = workflows.NewSession(configs.UserSettings, configs.GlobalConfig, Logger, deviceSource, managerOptions...)
	return nil
}

// Helper functions for testing

// GetKeysCmd returns the KeysCmd for testing.
func GetKeysCmd() *cobra.Command {
	return KeysCmd
}

// SetManagerOptions adds keystore options to every session, such as
// keystore.WithKDFParams for cheap key derivation.
func SetManagerOptions(opts ...keystore.Option) {
	managerOptions = opts
}

// SetDeviceSource replaces the machine id source used for device keys and
// probed by doctor.
func SetDeviceSource(d kdf.DeviceSource) {
	deviceSource = d
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	session = nil
	managerOptions = nil
	deviceSource = nil
	prompter = terminalPrompter{}
	resetListCommandState()
	resetAddCommandState()
	resetUnlockCommandState()
	resetRemoveCommandState()
	resetLabelCommandState()
	resetRotateCommandState()
	resetClearCommandState()
	resetLogCommandState()
	resetDoctorCommandState()
	resetCobraFlagState(KeysCmd)
}

// resetCobraFlagState clears Changed on every flag so one test's flags do
// not leak into the next.
func resetCobraFlagState(root *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	}
	root.PersistentFlags().VisitAll(reset)
	for _, c := range root.Commands() {
		c.Flags().VisitAll(reset)
	}
}
