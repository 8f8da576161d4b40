package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/podtards/mspkeys/internal/configs"
	"github.com/podtards/mspkeys/internal/utils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

func resetConfigShowState() {
	configShowJSON = false
}

// configView is the effective configuration with resolved paths.
type configView struct {
	ConfigPath   string `json:"config_path"`
	ConfigExists bool   `json:"config_exists"`
	KeystorePath string `json:"keystore_path"`
	AuditPath    string `json:"audit_path"`
	AuditEnabled bool   `json:"audit_enabled"`
	Spinner      bool   `json:"spinner"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Displays the configuration in effect, including the resolved keystore and
audit log paths. Defaults are shown when no config file exists.

Examples:
  mspkeys config show
  mspkeys config show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config show command")

		if err := configs.InitSettings(); err != nil {
			return ConfigLogger.ErrorfAndReturn("failed to load config: %v", err)
		}
		settings, cfg := configs.UserSettings, configs.GlobalConfig

		_, statErr := utils.FileMode(settings.ConfigPath())
		view := configView{
			ConfigPath:   settings.ConfigPath(),
			ConfigExists: statErr == nil,
			KeystorePath: settings.KeystorePath(),
			AuditPath:    settings.AuditPath(),
			AuditEnabled: cfg.Audit.Enabled,
			Spinner:      cfg.UI.Spinner,
		}
		ConfigLogger.Debugf("Effective config: %+v", view)

		out := cmd.OutOrStdout()
		if configShowJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}

		source := view.ConfigPath
		if !view.ConfigExists {
			source += " " + color.YellowString("(not created, showing defaults)")
		}
		fmt.Fprintln(out, color.CyanString("Configuration")+" "+source)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %-10s %s\n", "Keystore:", color.GreenString(view.KeystorePath))
		fmt.Fprintf(out, "  %-10s %s\n", "Audit log:", color.GreenString(view.AuditPath))
		fmt.Fprintf(out, "  %-10s %s\n", "Auditing:", onOff(view.AuditEnabled))
		fmt.Fprintf(out, "  %-10s %s\n", "Spinner:", onOff(view.Spinner))
		return nil
	},
}

func onOff(b bool) string {
	if b {
		return color.GreenString("on")
	}
	return color.YellowString("off")
}
