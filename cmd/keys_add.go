package cmd

import (
	"github.com/podtards/mspkeys/internal/secmem"
	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	addDevice bool
	addLabel  string
)

func init() {
	addCmd.Flags().BoolVar(&addDevice, "device", false, "protect the key with this machine instead of a password")
	addCmd.Flags().StringVarP(&addLabel, "label", "l", "", "display label for the key")
}

func resetAddCommandState() {
	addDevice = false
	addLabel = ""
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Encrypt and store a private key",
	Long: `Encrypts a Nostr private key and stores it in the keystore.

The key is read without echo from the terminal, or from stdin when piped.
It may be an nsec or 64 hex characters. Adding a key that is already stored
replaces the old entry.

By default the key is protected with a password you choose. With --device it
is bound to this machine instead and unlocks without a password, but only here.

Examples:
  mspkeys keys add --label main
  mspkeys keys add --device
  cat key.txt | mspkeys keys add`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add command")

		secret, err := prompter.PrivateKey()
		defer secmem.Wipe(secret)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read private key: %v", err)
		}

		var password []byte
		defer func() { secmem.Wipe(password) }()
		if !addDevice {
			password, err = readNewPassword("New password: ")
			if err != nil {
				s, cleanup := startSpinner(cmd, "Storing key...")
				defer cleanup()
				return fail(s, err)
			}
		}

		var label *string
		if cmd.Flags().Changed("label") {
			label = &addLabel
		}

		s, cleanup := startSpinner(cmd, "Encrypting key...")
		defer cleanup()

		result, err := workflows.Add(cmd.Context(), session, workflows.AddOptions{
			Secret:   secret,
			Device:   addDevice,
			Password: password,
			Label:    label,
		})
		if err != nil {
			return fail(s, err)
		}

		verb := "Stored"
		if result.Replaced {
			verb = "Replaced"
		}
		s.FinalMSG = ui.Success.Sprint("✓") + " " + verb + " " + ui.Mode(string(result.Key.Mode)) +
			"-protected key " + ui.Identity.Sprint(result.Key.Npub)
		return nil
	},
}
