package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Seams for tests: terminal detection and hidden input.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// getSimpleText prompts and reads one trimmed line from the input.
func (a *App) getSimpleText(prompt string) (string, error) {
	a.printf("%s: ", prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("input closed")
	}
	return strings.TrimSpace(a.in.Text()), nil
}

// getPIN prompts for the PIN without echoing. When stdin is not a
// terminal (tests, pipes) it degrades to a plain line read.
func (a *App) getPIN(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return a.getSimpleText(prompt)
	}

	a.printf("%s: ", prompt)
	b, err := readPassword(fd)
	a.println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
