package cmd

import (
	"fmt"

	"github.com/podtards/mspkeys/internal/keystore"
	"github.com/podtards/mspkeys/internal/secmem"
	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/workflows"

	"github.com/spf13/cobra"
)

var unlockReveal bool

func init() {
	unlockCmd.Flags().BoolVar(&unlockReveal, "reveal", false, "write the private key to stdout")
}

func resetUnlockCommandState() {
	unlockReveal = false
}

var unlockCmd = &cobra.Command{
	Use:   "unlock [NPUB]",
	Short: "Decrypt and verify a stored key",
	Long: `Decrypts a stored key and checks that it still matches its public key.

Without an argument the only stored key is used. With --reveal the private key
is written to stdout, and nothing else is, so it can be piped to a signer.

Examples:
  mspkeys keys unlock
  mspkeys keys unlock npub1...
  mspkeys keys unlock npub1... --reveal | signer --stdin`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting unlock command")
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		}

		key, err := workflows.Lookup(session, ref)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), formatError(err))
			return &reportedError{err: err}
		}

		var password []byte
		defer func() { secmem.Wipe(password) }()
		if key.Mode == keystore.ModePassword {
			password, err = prompter.Password("Password for " + ui.ShortID(key.Npub) + ": ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read password: %v", err)
			}
		}

		s, cleanup := startSpinner(cmd, "Unlocking key...")
		result, err := workflows.Unlock(cmd.Context(), session, workflows.UnlockOptions{
			Identity: key.IdentityID,
			Password: password,
		})
		if err != nil {
			// Errors go to stderr so a piped consumer never reads them as a key.
			cleanup()
			fmt.Fprintln(cmd.ErrOrStderr(), formatError(err))
			return &reportedError{err: err}
		}
		defer result.Secret.Destroy()

		if unlockReveal {
			cleanup()
			out := cmd.OutOrStdout()
			if _, err := out.Write(result.Secret.Bytes()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(out)
			return err
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " Unlocked and verified " + ui.Identity.Sprint(result.Key.Npub) + "\n" +
			"   " + ui.Muted.Sprint("pubkey "+result.Key.IdentityID)
		cleanup()
		return nil
	},
}
