package main

import (
	"fmt"
	"os"

	"github.com/podtards/mspkeys/cmd"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mspkeys",
	Short: "mspkeys - encrypted Nostr key storage for MSP Studio",
	Long: `mspkeys keeps Nostr private keys encrypted at rest in the same keystore
MSP Studio uses. Each key is protected by a password or bound to this machine.

Usage:
  mspkeys <command> [flags]

Available Commands:
  keys       Add, unlock, rotate and remove stored keys
  config     Manage the config file

Run 'mspkeys help <command>' for more details on a specific command.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(cmd.KeysCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
