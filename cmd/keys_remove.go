package cmd

import (
	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/workflows"

	"github.com/spf13/cobra"
)

var removeForce bool

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "skip confirmation prompt")
}

func resetRemoveCommandState() {
	removeForce = false
}

var removeCmd = &cobra.Command{
	Use:   "remove NPUB",
	Short: "Delete one stored key",
	Long: `Deletes one identity from the keystore. The private key is gone for good
unless you have another copy.

Examples:
  mspkeys keys remove npub1...
  mspkeys keys remove npub1... --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting remove command")

		key, err := workflows.Lookup(session, args[0])
		if err == nil {
			err = confirm(removeForce, "Delete "+ui.ShortID(key.Npub)+" "+ui.Label(key.Label)+"? This cannot be undone.")
		}

		s, cleanup := startSpinner(cmd, "Removing key...")
		defer cleanup()
		if err != nil {
			return fail(s, err)
		}

		result, err := workflows.Remove(cmd.Context(), session, key.IdentityID)
		if err != nil {
			return fail(s, err)
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " Removed " + ui.Identity.Sprint(result.Key.Npub)
		return nil
	},
}
