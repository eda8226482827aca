package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
	"github.com/conn-castle/depgate/internal/terminal"
)

// Prompt modes accepted in configuration.
const (
	// ModeAuto shows the terminal form when a terminal is attached and
	// otherwise leaves the prompt unhandled.
	ModeAuto = "auto"
	ModeTUI  = "tui"
	ModeLine = "line"
	// ModeNone never asks; every batch of findings is unhandled.
	ModeNone = "none"
)

var modes = []string{ModeAuto, ModeTUI, ModeLine, ModeNone}

var isInteractive = terminal.IsInteractive

// Modes returns the accepted mode names.
func Modes() []string {
	return append([]string(nil), modes...)
}

// ValidMode reports whether mode names a prompt mode. Empty means ModeAuto.
func ValidMode(mode string) bool {
	normalized := normalizeMode(mode)
	for _, m := range modes {
		if m == normalized {
			return true
		}
	}
	return false
}

// ForMode returns the prompter for mode. A nil prompter is valid and answers
// gate.ResponseNoHandler.
func ForMode(mode string, in io.Reader, out io.Writer) (gate.Prompter, error) {
	switch normalizeMode(mode) {
	case ModeAuto:
		if !isInteractive() {
			return nil, nil
		}
		return NewHuhPrompter(), nil
	case ModeTUI:
		return NewHuhPrompter(), nil
	case ModeLine:
		return NewLinePrompter(in, out), nil
	case ModeNone:
		return nil, nil
	}
	return nil, fmt.Errorf(messages.PromptUnknownModeFmt, mode, strings.Join(modes, ", "))
}

// Fixed answers every prompt with response, for --yes and --no.
func Fixed(response gate.Response) gate.Prompter {
	return gate.PromptFunc(func(gate.Findings) (gate.Response, error) {
		return response, nil
	})
}

func normalizeMode(mode string) string {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	if normalized == "" {
		return ModeAuto
	}
	return normalized
}
