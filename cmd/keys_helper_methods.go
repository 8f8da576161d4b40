package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	kerrors "github.com/podtards/mspkeys/internal/errors"
	"github.com/podtards/mspkeys/internal/secmem"
	"github.com/podtards/mspkeys/internal/ui"
	"github.com/podtards/mspkeys/internal/utils"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// Prompter collects interactive input. Returned buffers belong to the caller.
type Prompter interface {
	// PrivateKey reads an nsec or hex key, from piped stdin when present.
	PrivateKey() ([]byte, error)
	// Password reads a password without echo.
	Password(prompt string) ([]byte, error)
	// Confirm asks a yes/no question.
	Confirm(prompt string) (bool, error)
}

var prompter Prompter = terminalPrompter{}

// SetPrompter replaces the terminal prompter for testing.
func SetPrompter(p Prompter) {
	prompter = p
}

type terminalPrompter struct{}

func (terminalPrompter) PrivateKey() ([]byte, error) {
	if !utils.IsTerminal() {
		return utils.ReadStdin()
	}
	return utils.ReadHidden(os.Stderr, "Private key (nsec or hex): ")
}

func (terminalPrompter) Password(prompt string) ([]byte, error) {
	return utils.ReadHidden(os.Stderr, prompt)
}

func (terminalPrompter) Confirm(prompt string) (bool, error) {
	var in io.Reader = os.Stdin
	if !utils.IsTerminal() {
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return false, fmt.Errorf("cannot ask for confirmation without a terminal (use --force): %w", err)
		}
		defer tty.Close()
		in = tty
	}

	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// readNewPassword asks for a password twice. The caller wipes the result.
func readNewPassword(prompt string) ([]byte, error) {
	first, err := prompter.Password(prompt)
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return nil, fmt.Errorf("%w: password cannot be empty", kerrors.ErrMissingCredential)
	}

	second, err := prompter.Password("Confirm password: ")
	defer secmem.Wipe(second)
	if err != nil {
		secmem.Wipe(first)
		return nil, err
	}
	if !bytes.Equal(first, second) {
		secmem.Wipe(first)
		return nil, kerrors.ErrPasswordMismatch
	}
	return first, nil
}

// confirm asks unless force is set. A declined prompt yields ErrCancelled.
func confirm(force bool, prompt string) error {
	if force {
		return nil
	}
	ok, err := prompter.Confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return kerrors.ErrCancelled
	}
	return nil
}

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode and when the config allows it. The returned
// cleanup stops it and prints FinalMSG to the command's output.
//
// spinner.FinalMSG values do NOT need trailing newlines; cleanup adds one.
func startSpinner(cmd *cobra.Command, message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	animate := !verbose && !debug && spinnerEnabled()
	if animate {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if animate {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(cmd.OutOrStdout(), finalMsg)
		}
	}

	return s, cleanup
}

func spinnerEnabled() bool {
	return session == nil || session.Config == nil || session.Config.UI.Spinner
}

// reportedError marks an error whose message was already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already printed by a command.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// fail sets the spinner's final message for err and returns it marked as reported.
func fail(s *spinner.Spinner, err error) error {
	s.FinalMSG = formatError(err)
	return &reportedError{err: err}
}

// formatError renders err with a hint for the errors a user can act on.
func formatError(err error) string {
	msg := ui.Error.Sprint("✗") + " " + err.Error()

	var hint string
	switch {
	case errors.Is(err, kerrors.ErrAuthenticationFailed):
		hint = "Check the password. Device-protected keys only open on the machine that stored them"
	case errors.Is(err, kerrors.ErrVerificationMismatch):
		hint = "The keystore entry has been altered. Restore it from a backup or add the key again"
	case errors.Is(err, kerrors.ErrIdentityRequired):
		hint = "Run " + ui.Code.Sprint("mspkeys keys list") + " and pass the npub of the key you want"
	case errors.Is(err, kerrors.ErrNotFound):
		hint = "Run " + ui.Code.Sprint("mspkeys keys list") + " to see stored keys"
	case errors.Is(err, kerrors.ErrFormat):
		hint = "Run " + ui.Code.Sprint("mspkeys keys doctor") + " for details"
	case errors.Is(err, kerrors.ErrInvalidSecret):
		hint = "Expected an nsec1… key or 64 hex characters"
	}
	if hint != "" {
		msg += "\n" + ui.Info.Sprint("→") + " " + hint
	}
	return msg
}

// keyLine renders one key for listings.
func keyLine(npub, mode string, label *string, created time.Time) string {
	return fmt.Sprintf("%s  %s  %s  %s",
		ui.Identity.Sprint(ui.ShortID(npub)),
		ui.Mode(mode),
		ui.Label(label),
		ui.Muted.Sprint(ui.Timestamp(created)),
	)
}
