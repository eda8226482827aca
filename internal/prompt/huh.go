package prompt

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
	"github.com/conn-castle/depgate/internal/terminal"
)

// HuhPrompter asks through a terminal form built with charmbracelet/huh.
type HuhPrompter struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhPrompter returns a prompter that uses terminal.IsInteractive to decide
// whether a form can be shown at all.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{isTerminal: terminal.IsInteractive}
}

// Prompt shows the findings and a Yes / No / Cancel choice. Without a
// terminal nobody can answer, so it returns gate.ResponseNoHandler. Esc and
// Ctrl+C both cancel.
func (p *HuhPrompter) Prompt(findings gate.Findings) (gate.Response, error) {
	checker := p.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if !checker() {
		return gate.ResponseNoHandler, nil
	}

	choice := gate.ResponseNo
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(Title(findings)).
				Description(Body(findings)),
			huh.NewSelect[gate.Response]().
				Title(messages.PromptContinueQuestion).
				Options(
					huh.NewOption(messages.PromptChoiceYes, gate.ResponseYes),
					huh.NewOption(messages.PromptChoiceNo, gate.ResponseNo),
					huh.NewOption(messages.PromptChoiceCancel, gate.ResponseCancel),
				).
				Value(&choice),
		),
	)
	form.WithKeyMap(gateKeyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithFilter(interruptFilter),
	)

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return gate.ResponseCancel, nil
	}
	if err != nil {
		return gate.ResponseNoHandler, err
	}
	return choice, nil
}

// gateKeyMap makes Esc abort the form the same way Ctrl+C does.
func gateKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))
	km.Select.Filter.SetEnabled(false)
	km.Select.SetFilter.SetEnabled(false)
	km.Select.ClearFilter.SetEnabled(false)
	return km
}

// interruptFilter turns InterruptMsg into QuitMsg so bubbletea clears the form
// on its graceful shutdown path.
func interruptFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.InterruptMsg); ok {
		return tea.QuitMsg{}
	}
	return msg
}
