package main

import "github.com/conn-castle/depgate/internal/gate"

// Process exit codes. Fail is reported through the returned error.
const (
	exitContinue  = 0
	exitFail      = 1
	exitAbort     = 2
	exitStopEarly = 3
)

// outcomeError converts a non-failing outcome into the error runMain turns
// into an exit code. Continue maps to nil.
func outcomeError(outcome gate.Outcome) error {
	switch outcome {
	case gate.OutcomeContinue:
		return nil
	case gate.OutcomeAbort:
		return &SilentExitError{Code: exitAbort}
	case gate.OutcomeStopEarly:
		return &SilentExitError{Code: exitStopEarly}
	default:
		return &SilentExitError{Code: exitFail}
	}
}
