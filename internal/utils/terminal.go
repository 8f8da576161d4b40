package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

func ttyPath() string {
	if runtime.GOOS == "windows" {
		return "CON"
	}
	return "/dev/tty"
}

// ReadHidden prompts on w and reads a line without echoing it. It reads from
// stdin when stdin is a terminal and from the controlling terminal when stdin
// carries piped data.
func ReadHidden(w io.Writer, prompt string) ([]byte, error) {
	if IsTerminal() {
		return readHiddenFrom(int(os.Stdin.Fd()), w, prompt)
	}

	tty, err := os.Open(ttyPath())
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for hidden input: %w", ttyPath(), err)
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", ttyPath())
	}
	return readHiddenFrom(fd, w, prompt)
}

func readHiddenFrom(fd int, w io.Writer, prompt string) ([]byte, error) {
	fmt.Fprint(w, prompt)
	value, err := term.ReadPassword(fd)
	fmt.Fprintln(w) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return value, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsTTYAvailable returns true if /dev/tty (or CON on Windows) is available for reading.
func IsTTYAvailable() bool {
	tty, err := os.Open(ttyPath())
	if err != nil {
		return false
	}
	defer tty.Close()

	return term.IsTerminal(int(tty.Fd()))
}
