package gate

import (
	"fmt"
	"strings"

	"github.com/conn-castle/depgate/internal/messages"
)

// Action is the verb the current transaction performs on a component.
// The host decides it; the checks only consume it.
type Action int

const (
	// ActionUnknown means the host could not say what happens to the component.
	ActionUnknown Action = iota
	// ActionNone leaves the component as it is.
	ActionNone
	// ActionInstall installs the component.
	ActionInstall
	// ActionReinstall installs the component over an existing copy.
	ActionReinstall
	// ActionUninstall removes the component.
	ActionUninstall
)

var actionNames = map[Action]string{
	ActionUnknown:   "unknown",
	ActionNone:      "none",
	ActionInstall:   "install",
	ActionReinstall: "reinstall",
	ActionUninstall: "uninstall",
}

// String returns the lowercase action name used in transaction manifests.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Installing reports whether the component ends up installed by this transaction.
func (a Action) Installing() bool {
	return a == ActionInstall || a == ActionReinstall
}

// Removing reports whether the component goes away in this transaction.
// A reinstall never removes the component.
func (a Action) Removing() bool {
	return a == ActionUninstall
}

// ParseAction parses an action name case-insensitively.
// An empty value parses as ActionNone.
func ParseAction(raw string) (Action, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ActionNone, nil
	}
	for action, name := range actionNames {
		if strings.EqualFold(trimmed, name) {
			return action, nil
		}
	}
	return ActionUnknown, fmt.Errorf(messages.GateUnknownActionFmt, raw)
}
