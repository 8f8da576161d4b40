package cmd

import (
	"fmt"

	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/workflows"

	"github.com/spf13/cobra"
)

var clearForce bool

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip confirmation prompt")
}

func resetClearCommandState() {
	clearForce = false
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole keystore",
	Long: `Deletes the keystore file and every key in it. This also works when the
file is damaged and cannot be read.

Examples:
  mspkeys keys clear
  mspkeys keys clear --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting clear command")

		err := confirm(clearForce, "Delete every key in "+session.Manager.Path()+"? This cannot be undone.")

		s, cleanup := startSpinner(cmd, "Clearing keystore...")
		defer cleanup()
		if err != nil {
			return fail(s, err)
		}

		result, err := workflows.Clear(cmd.Context(), session)
		if err != nil {
			return fail(s, err)
		}

		switch {
		case !result.Existed:
			s.FinalMSG = ui.Muted.Sprint("nothing to clear, no keystore at ") + ui.Path.Sprint(result.Path)
		case result.Unreadable:
			s.FinalMSG = ui.Success.Sprint("✓") + " Deleted unreadable keystore " + ui.Path.Sprint(result.Path)
		default:
			s.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" Deleted %d key(s) from ", result.Removed) + ui.Path.Sprint(result.Path)
		}
		return nil
	},
}
