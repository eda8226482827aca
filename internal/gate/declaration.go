package gate

import (
	"fmt"
	"strings"

	"github.com/conn-castle/depgate/internal/messages"
)

// DependencyDeclaration states that Component requires something registered
// under ProviderKey, optionally within a version range.
type DependencyDeclaration struct {
	ID          string
	Component   string
	ProviderKey string
	MinVersion  string
	MaxVersion  string
	Attributes  Attributes
}

// Range returns the version bounds of the declaration.
func (d DependencyDeclaration) Range() VersionRange {
	return VersionRange{Min: d.MinVersion, Max: d.MaxVersion, Attributes: d.Attributes}
}

// Validate reports a *DeclarationError when the row cannot be evaluated.
func (d DependencyDeclaration) Validate() error {
	if err := requireFields(d.ID,
		field{"id", d.ID},
		field{"component", d.Component},
		field{"provider key", d.ProviderKey},
	); err != nil {
		return err
	}
	if err := d.Range().Validate(); err != nil {
		return &DeclarationError{ID: d.ID, Field: "version range", Err: err}
	}
	return nil
}

// ProviderDeclaration states that Component publishes ProviderKey.
type ProviderDeclaration struct {
	ID          string
	Component   string
	ProviderKey string
	DisplayName string
	Attributes  Attributes
}

// Validate reports a *DeclarationError when the row cannot be evaluated.
func (p ProviderDeclaration) Validate() error {
	return requireFields(p.ID,
		field{"id", p.ID},
		field{"component", p.Component},
		field{"provider key", p.ProviderKey},
	)
}

// DeclarationError describes a catalog row that could not be read.
type DeclarationError struct {
	ID    string
	Field string
	Err   error
}

func (e *DeclarationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf(messages.GateDeclarationFieldRequiredFmt, e.ID, e.Field)
	}
	return fmt.Errorf(messages.GateDeclarationInvalidFmt, e.ID, e.Field, e.Err).Error()
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

type field struct {
	name  string
	value string
}

func requireFields(id string, fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &DeclarationError{ID: id, Field: f.name}
		}
	}
	return nil
}
