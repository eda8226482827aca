package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
)

// LinePrompter asks on a plain line-oriented stream, for hosts that pipe
// answers in or run without a full-screen terminal.
type LinePrompter struct {
	in  io.Reader
	out io.Writer
}

// NewLinePrompter returns a prompter reading answers from in and writing to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: in, out: out}
}

// Prompt prints the findings and reads y/n/c until it gets a valid answer.
// Running out of input before an answer means nobody is there to handle the
// prompt, so it returns gate.ResponseNoHandler.
func (p *LinePrompter) Prompt(findings gate.Findings) (gate.Response, error) {
	if p.in == nil || p.out == nil {
		return gate.ResponseNoHandler, nil
	}
	if _, err := color.New(color.FgYellow, color.Bold).Fprintln(p.out, Title(findings)); err != nil {
		return gate.ResponseNoHandler, err
	}
	if _, err := fmt.Fprintln(p.out, Body(findings)); err != nil {
		return gate.ResponseNoHandler, err
	}

	reader := bufio.NewReader(p.in)
	for {
		if _, err := fmt.Fprintf(p.out, messages.PromptLineQuestionFmt, messages.PromptContinueQuestion); err != nil {
			return gate.ResponseNoHandler, err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return gate.ResponseNoHandler, err
		}
		if response, ok := parseAnswer(line); ok {
			return response, nil
		}
		if errors.Is(err, io.EOF) {
			return gate.ResponseNoHandler, nil
		}
		if _, err := fmt.Fprintln(p.out, messages.PromptLineRetry); err != nil {
			return gate.ResponseNoHandler, err
		}
	}
}

func parseAnswer(line string) (gate.Response, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return gate.ResponseYes, true
	case "n", "no":
		return gate.ResponseNo, true
	case "c", "cancel":
		return gate.ResponseCancel, true
	}
	return gate.ResponseNoHandler, false
}
