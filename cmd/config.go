package cmd

import (
	"os"

	"github.com/podtards/mspkeys/internal/configs"
	logger "github.com/podtards/mspkeys/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configVerbose bool
	configDebug   bool
	ConfigLogger  logger.Logger

	// configSettings is resolved by ConfigCmd. The config file itself is
	// loaded by each subcommand, so a broken file can still be replaced.
	configSettings *configs.Settings

	// ConfigCmd is the top-level config command.
	ConfigCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage mspkeys configuration",
		Long: `Provides commands for the configuration file.

The file lives in the user config directory (config.toml) and controls where
the keystore is kept, whether operations are recorded in the audit log and
whether progress spinners are shown.

Examples:
  mspkeys config init --audit
  mspkeys config show --json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ConfigLogger = logger.Logger{
				Verbose: configVerbose,
				Debug:   configDebug,
				Out:     cmd.OutOrStdout(),
				Err:     cmd.ErrOrStderr(),
			}
			ConfigLogger.Debugf("Initializing config command with verbose=%t, debug=%t", configVerbose, configDebug)

			settings, err := configs.ResolveSettings(os.Getenv)
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("failed to resolve settings: %v", err)
			}
			configSettings = settings
			return nil
		},
	}
)

func init() {
	ConfigCmd.PersistentFlags().BoolVarP(&configVerbose, "verbose", "v", false, "enable verbose output")
	ConfigCmd.PersistentFlags().BoolVarP(&configDebug, "debug", "d", false, "enable debug output")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

// GetConfigCmd returns the ConfigCmd for testing.
func GetConfigCmd() *cobra.Command {
	return ConfigCmd
}

// ResetConfigState resets all config command global variables to their default values for testing.
func ResetConfigState() {
	configVerbose = false
	configDebug = false
	configSettings = nil
	resetConfigShowState()
	resetConfigInitState()
	resetConfigCobraFlagState()
}

func resetConfigCobraFlagState() {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	}
	ConfigCmd.PersistentFlags().VisitAll(reset)
	for _, c := range ConfigCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}
