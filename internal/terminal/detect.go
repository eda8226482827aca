// Package terminal decides whether a person is on the other end of the CLI.
package terminal

import (
	"os"

	"golang.org/x/term"
)

var isTerminal = term.IsTerminal

// IsInteractive reports whether stdin and stderr are both terminals. Prompts
// draw on stderr so stdout stays free for reports that hosts capture.
func IsInteractive() bool {
	return isTerminal(int(os.Stdin.Fd())) && isTerminal(int(os.Stderr.Fd()))
}
