package gate

// Hive selects the installation scope a store query runs against.
type Hive int

const (
	// HivePerUser is the current user's registrations.
	HivePerUser Hive = iota
	// HivePerMachine is the system-wide registrations.
	HivePerMachine
)

// HiveFor resolves the hive from the transaction's machine-context flag.
func HiveFor(machine bool) Hive {
	if machine {
		return HivePerMachine
	}
	return HivePerUser
}

func (h Hive) String() string {
	if h == HivePerMachine {
		return "machine"
	}
	return "user"
}

// LookupResult is the store's answer for a required provider.
type LookupResult int

const (
	// LookupSatisfied means the provider is registered within the requested range.
	LookupSatisfied LookupResult = iota
	// LookupMissing means nothing is registered under the key.
	LookupMissing
	// LookupOutOfRange means the registered version falls outside the range.
	LookupOutOfRange
)

func (r LookupResult) String() string {
	switch r {
	case LookupSatisfied:
		return "satisfied"
	case LookupMissing:
		return "missing"
	case LookupOutOfRange:
		return "out-of-range"
	default:
		return "invalid"
	}
}

// Dependent is a registration that relies on a provider key.
type Dependent struct {
	Key         string
	DisplayName string
}

// Catalog supplies the declared relationships of the current transaction.
// Iteration order carries no meaning.
type Catalog interface {
	Dependencies() ([]DependencyDeclaration, error)
	Providers() ([]ProviderDeclaration, error)
}

// ActionResolver returns what the current transaction does to a component.
type ActionResolver interface {
	ComponentAction(component string) (Action, error)
}

// Store is the read side of the provider registration store.
// Lookup returns an error only when the store itself failed; an absent or
// out-of-range provider is a result, not an error. DependentsOf returns an
// empty slice when nothing depends on the key.
type Store interface {
	Lookup(hive Hive, providerKey string, rng VersionRange) (LookupResult, error)
	DependentsOf(hive Hive, providerKey string, attrs Attributes) ([]Dependent, error)
}

// Prompter presents one batch of findings and returns the answer.
type Prompter interface {
	Prompt(findings Findings) (Response, error)
}

// PromptFunc adapts a function into a Prompter. A nil PromptFunc answers ResponseNoHandler.
type PromptFunc func(findings Findings) (Response, error)

// Prompt calls f.
func (f PromptFunc) Prompt(findings Findings) (Response, error) {
	if f == nil {
		return ResponseNoHandler, nil
	}
	return f(findings)
}
