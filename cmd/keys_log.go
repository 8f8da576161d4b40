package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/podtards/mspkeys/internal/audit"
	kerrors "github.com/podtards/mspkeys/internal/errors"
	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logIdentity  string
	logOperation string
	logSince     string
	logUntil     string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logIdentity, "identity", "", "filter by npub, hex id or hex prefix")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logIdentity = ""
	logOperation = ""
	logSince = ""
	logUntil = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the local audit log of keystore operations. Secrets and passwords
are never logged, only which identity was touched and whether it worked.

Recording is enabled with audit.enabled in the config file.

Examples:
  mspkeys keys log -n 10
  mspkeys keys log --reverse
  mspkeys keys log --operation unlock,rotate
  mspkeys keys log --since 2025-01-01 --json`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	s, cleanup := startSpinner(cmd, "Loading audit log...")
	defer cleanup()

	result, err := workflows.Log(cmd.Context(), session, workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Identity:   logIdentity,
		Operations: logOperation,
		Since:      logSince,
		Until:      logUntil,
	})
	if err != nil {
		if errors.Is(err, kerrors.ErrInvalidDateFormat) {
			return fail(s, err)
		}
		return fail(s, fmt.Errorf("failed to read audit log: %w", err))
	}
	Logger.Debugf("After filtering: %d of %d entries", len(result.Entries), result.TotalEntriesBeforeFilter)

	out := cmd.OutOrStdout()
	if logJSON {
		cleanup()
		entries := result.Entries
		if entries == nil {
			entries = []audit.Entry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(result.Entries) == 0 {
		switch {
		case result.TotalEntriesBeforeFilter > 0:
			s.FinalMSG = "No audit log entries found matching the filters."
		case !result.Enabled:
			s.FinalMSG = ui.Info.Sprint("ℹ") + " No audit log entries. Set " + ui.Code.Sprint("audit.enabled = true") +
				" in " + ui.Path.Sprint(session.Settings.ConfigPath()) + " to record operations."
		default:
			s.FinalMSG = "No audit log entries found."
		}
		return nil
	}

	cleanup()
	outputLogDefault(out, result.Entries)
	return nil
}

func outputLogDefault(w io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s  %-16s  %-8s  %s\n",
			workflows.FormatDateTime(e.Timestamp), e.User, e.Operation, workflows.FormatDetails(e))
	}
}
