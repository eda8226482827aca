package gate

import (
	"fmt"

	"github.com/conn-castle/depgate/internal/messages"
)

// Response is the answer the interaction gate returns for a batch of findings.
type Response int

const (
	// ResponseNoHandler means nobody was available to answer. It is the zero value.
	ResponseNoHandler Response = iota
	// ResponseYes accepts the risk and continues.
	ResponseYes
	// ResponseNo declines.
	ResponseNo
	// ResponseCancel aborts the whole transaction.
	ResponseCancel
)

var responseNames = map[Response]string{
	ResponseNoHandler: "no-handler",
	ResponseYes:       "yes",
	ResponseNo:        "no",
	ResponseCancel:    "cancel",
}

func (r Response) String() string {
	if name, ok := responseNames[r]; ok {
		return name
	}
	return fmt.Sprintf("response(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Response) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Outcome tells the host how to continue the transaction after a check.
type Outcome int

const (
	// OutcomeContinue proceeds with the transaction.
	OutcomeContinue Outcome = iota
	// OutcomeAbort stops the transaction as a user-initiated exit, not an error.
	OutcomeAbort
	// OutcomeStopEarly ends the removal session for this target without an error.
	OutcomeStopEarly
	// OutcomeFail is a hard error; the host rolls back.
	OutcomeFail
)

var outcomeNames = map[Outcome]string{
	OutcomeContinue:  "continue",
	OutcomeAbort:     "abort",
	OutcomeStopEarly: "stop-early",
	OutcomeFail:      "fail",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// OutcomeTable maps every response to an outcome.
type OutcomeTable struct {
	Yes       Outcome
	No        Outcome
	Cancel    Outcome
	NoHandler Outcome
}

// Resolve maps a response to its outcome. Responses outside the closed set fail.
func (t OutcomeTable) Resolve(r Response) Outcome {
	switch r {
	case ResponseYes:
		return t.Yes
	case ResponseNo:
		return t.No
	case ResponseCancel:
		return t.Cancel
	case ResponseNoHandler:
		return t.NoHandler
	default:
		return OutcomeFail
	}
}

// Check identifies which of the two checks ran.
type Check int

const (
	// CheckRequire verifies required providers before installing components.
	CheckRequire Check = iota
	// CheckDependents verifies nothing still depends on providers before removing them.
	CheckDependents
)

func (c Check) String() string {
	if c == CheckDependents {
		return messages.GateCheckDependents
	}
	return messages.GateCheckRequire
}

// MarshalText implements encoding.TextMarshaler.
func (c Check) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Outcomes returns the response mapping for the check.
// Declining a missing dependency aborts the install; declining to remove a
// provider with live dependents only stops the removal early.
func (c Check) Outcomes() OutcomeTable {
	if c == CheckDependents {
		return OutcomeTable{
			Yes:       OutcomeContinue,
			No:        OutcomeStopEarly,
			Cancel:    OutcomeFail,
			NoHandler: OutcomeStopEarly,
		}
	}
	return OutcomeTable{
		Yes:       OutcomeContinue,
		No:        OutcomeAbort,
		Cancel:    OutcomeFail,
		NoHandler: OutcomeFail,
	}
}

// Kind returns the finding kind the check produces.
func (c Check) Kind() FindingKind {
	if c == CheckDependents {
		return KindLiveDependents
	}
	return KindMissingDependencies
}
