package gate

import (
	"errors"
	"fmt"

	"github.com/conn-castle/depgate/internal/messages"
)

var (
	// ErrDependenciesMissing is wrapped by the policy failure of the dependency check.
	ErrDependenciesMissing = errors.New(messages.GateDependenciesMissing)
	// ErrDependentsPresent is wrapped by the policy failure of the dependents check.
	ErrDependentsPresent = errors.New(messages.GateDependentsPresent)
)

// Category classifies why a check failed.
type Category string

const (
	// CategoryDeclaration is a catalog row that could not be read.
	CategoryDeclaration Category = "declaration"
	// CategoryAction is a component action the host could not resolve.
	CategoryAction Category = "action"
	// CategoryStore is a registration store failure.
	CategoryStore Category = "store"
	// CategoryPrompt is an interaction gate failure.
	CategoryPrompt Category = "prompt"
	// CategoryPolicy is a response that maps to a hard failure.
	CategoryPolicy Category = "policy"
)

// CheckError is the diagnostic attached to OutcomeFail.
type CheckError struct {
	Check    Check
	Category Category
	Err      error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf(messages.GateCheckFailedFmt, e.Check, e.Category, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}
