package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/workflows"

	"github.com/spf13/cobra"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output in JSON format")
}

func resetListCommandState() {
	listJSON = false
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored identities",
	Long: `Lists every identity in the keystore with its protection mode, label and
creation time. Nothing is decrypted.

Examples:
  mspkeys keys list
  mspkeys keys list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")

		result, err := workflows.List(cmd.Context(), session)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), formatError(err))
			return &reportedError{err: err}
		}

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if len(result.Keys) == 0 {
			fmt.Fprintln(out, ui.Muted.Sprint("no keys stored"))
			fmt.Fprintln(out, ui.Info.Sprint("→")+" Run "+ui.Code.Sprint("mspkeys keys add")+" to store one")
			return nil
		}

		for _, k := range result.Keys {
			fmt.Fprintln(out, keyLine(k.Npub, string(k.Mode), k.Label, k.CreatedAt))
		}
		Logger.Infof("Listed %d keys from %s", len(result.Keys), result.Path)
		return nil
	},
}
