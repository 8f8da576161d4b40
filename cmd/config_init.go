package cmd

import (
	"fmt"

	"github.com/podtards/mspkeys/internal/configs"
	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/utils"

	"github.com/spf13/cobra"
)

var (
	configInitDataDir   string
	configInitAudit     bool
	configInitNoSpinner bool
	configInitForce     bool
)

func init() {
	configInitCmd.Flags().StringVar(&configInitDataDir, "data-dir", "", "directory for the keystore and audit log")
	configInitCmd.Flags().BoolVar(&configInitAudit, "audit", false, "record operations in the audit log")
	configInitCmd.Flags().BoolVar(&configInitNoSpinner, "no-spinner", false, "disable progress spinners")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
}

func resetConfigInitState() {
	configInitDataDir = ""
	configInitAudit = false
	configInitNoSpinner = false
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file",
	Long: `Writes a config file with the given settings. An existing file is left
alone unless --force is passed.

Examples:
  mspkeys config init
  mspkeys config init --audit
  mspkeys config init --data-dir ~/sync/mspkeys --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config init command")
		path := configSettings.ConfigPath()
		out := cmd.OutOrStdout()

		if _, err := utils.FileMode(path); err == nil && !configInitForce {
			ConfigLogger.Infof("Config already exists at %s", path)
			fmt.Fprintln(out, ui.Warning.Sprint("⚠")+" Config already exists at "+ui.Path.Sprint(path))
			fmt.Fprintln(out, ui.Info.Sprint("→")+" Pass "+ui.Flag.Sprint("--force")+" to overwrite it")
			return nil
		}

		cfg := configs.DefaultConfig()
		cfg.Keystore.DataDir = configInitDataDir
		cfg.Audit.Enabled = configInitAudit
		cfg.UI.Spinner = !configInitNoSpinner

		if err := configs.SaveConfig(path, cfg); err != nil {
			return ConfigLogger.ErrorfAndReturn("%v", err)
		}
		ConfigLogger.Infof("Wrote config to %s", path)

		fmt.Fprintln(out, ui.Success.Sprint("✓")+" Wrote "+ui.Path.Sprint(path))
		return nil
	},
}
