package cmd

import (
	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/workflows"

	"github.com/spf13/cobra"
)

var labelClear bool

func init() {
	labelCmd.Flags().BoolVar(&labelClear, "clear", false, "remove the label")
}

func resetLabelCommandState() {
	labelClear = false
}

var labelCmd = &cobra.Command{
	Use:   "label NPUB [LABEL]",
	Short: "Set or clear a key's label",
	Long: `Sets the display label of a stored key, or removes it with --clear.

Examples:
  mspkeys keys label npub1... "podcast account"
  mspkeys keys label npub1... --clear`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting label command")
		s, cleanup := startSpinner(cmd, "Updating label...")
		defer cleanup()

		var label *string
		switch {
		case labelClear && len(args) == 2:
			return fail(s, errLabelConflict)
		case !labelClear && len(args) == 1:
			return fail(s, errLabelMissing)
		case len(args) == 2:
			label = &args[1]
		}

		result, err := workflows.Relabel(cmd.Context(), session, workflows.RelabelOptions{
			Identity: args[0],
			Label:    label,
		})
		if err != nil {
			return fail(s, err)
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " " + ui.Identity.Sprint(ui.ShortID(result.Key.Npub)) +
			" is now " + ui.Label(result.Key.Label)
		return nil
	},
}
