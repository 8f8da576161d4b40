package cmd

import (
	"github.com/podtards/mspkeys/internal/keystore"
	"github.com/podtards/mspkeys/internal/secmem"
	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/workflows"

	"github.com/spf13/cobra"
)

var rotateDevice bool

func init() {
	rotateCmd.Flags().BoolVar(&rotateDevice, "device", false, "switch the key to device protection")
}

func resetRotateCommandState() {
	rotateDevice = false
}

var rotateCmd = &cobra.Command{
	Use:   "rotate [NPUB]",
	Short: "Re-encrypt a key under new credentials",
	Long: `Re-encrypts a stored key with a new password, or binds it to this machine
with --device. The current credentials are checked first. The label is kept.

Examples:
  mspkeys keys rotate npub1...
  mspkeys keys rotate npub1... --device`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rotate command")
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		}

		var current, next []byte
		defer func() {
			secmem.Wipe(current)
			secmem.Wipe(next)
		}()

		key, err := workflows.Lookup(session, ref)
		if err == nil && key.Mode == keystore.ModePassword {
			current, err = prompter.Password("Current password: ")
		}
		if err == nil && !rotateDevice {
			next, err = readNewPassword("New password: ")
		}

		s, cleanup := startSpinner(cmd, "Re-encrypting key...")
		defer cleanup()
		if err != nil {
			return fail(s, err)
		}

		result, err := workflows.Rotate(cmd.Context(), session, workflows.RotateOptions{
			Identity: key.IdentityID,
			Current:  current,
			Next:     next,
		})
		if err != nil {
			return fail(s, err)
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " " + ui.Identity.Sprint(ui.ShortID(result.Key.Npub)) +
			" moved from " + ui.Mode(string(result.From)) + " to " + ui.Mode(string(result.Key.Mode)) + " protection"
		return nil
	},
}
