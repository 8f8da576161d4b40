package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	doctorJSONOutput bool
	// doctorExitFunc can be overridden for testing.
	doctorExitFunc = os.Exit
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
}

func resetDoctorCommandState() {
	doctorJSONOutput = false
	doctorExitFunc = os.Exit
}

// SetDoctorExitFunc sets the exit function for testing purposes.
func SetDoctorExitFunc(f func(int)) {
	doctorExitFunc = f
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the keystore",
	Long: `Runs health checks on the keystore and reports issues. It never modifies
the keystore, so an old format is reported rather than upgraded.

The doctor command checks:
  - Config file validity
  - Keystore presence and format version
  - Keystore and data directory permissions
  - Device identifier, when device-protected keys are stored

Exit codes:
  0 - All checks passed
  1 - Warnings found (non-critical issues)
  2 - Errors found (critical issues)`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting doctor command")

	s, cleanup := startSpinner(cmd, "Running health checks...")

	result, err := workflows.Doctor(cmd.Context(), session)
	if err != nil {
		err = fail(s, fmt.Errorf("failed to run health checks: %w", err))
		cleanup()
		return err
	}

	for _, check := range result.Checks {
		Logger.Debugf("Check %s: status=%s, message=%s", check.Name, check.Status, check.Message)
	}

	out := cmd.OutOrStdout()
	if doctorJSONOutput {
		cleanup()
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		cleanup()
		printDoctorResults(out, result)
	}

	// Exit skips deferred calls, so everything is flushed above.
	if result.Summary.Errors > 0 {
		doctorExitFunc(2)
	} else if result.Summary.Warnings > 0 {
		doctorExitFunc(1)
	}
	return nil
}

func printDoctorResults(w io.Writer, result *workflows.DoctorResult) {
	for _, check := range result.Checks {
		var icon string
		switch check.Status {
		case workflows.CheckPass:
			icon = ui.Success.Sprint("✓")
		case workflows.CheckWarning:
			icon = ui.Warning.Sprint("⚠")
		case workflows.CheckError:
			icon = ui.Error.Sprint("✗")
		}
		fmt.Fprintf(w, "%s %s\n", icon, check.Message)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Summary: %d passed", result.Summary.Passed)
	if result.Summary.Warnings > 0 {
		fmt.Fprintf(w, ", %s", ui.Warning.Sprintf("%d warning(s)", result.Summary.Warnings))
	}
	if result.Summary.Errors > 0 {
		fmt.Fprintf(w, ", %s", ui.Error.Sprintf("%d error(s)", result.Summary.Errors))
	}
	fmt.Fprintln(w)

	if len(result.Suggestions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Suggestions:")
		for _, suggestion := range result.Suggestions {
			fmt.Fprintf(w, "  %s %s\n", ui.Info.Sprint("→"), suggestion)
		}
	}
}
