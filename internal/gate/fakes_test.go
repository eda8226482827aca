package gate

import (
	"strings"
)

type fakeCatalog struct {
	deps      []DependencyDeclaration
	providers []ProviderDeclaration
	depsErr   error
	provErr   error
	reads     int
}

func (c *fakeCatalog) Dependencies() ([]DependencyDeclaration, error) {
	c.reads++
	return c.deps, c.depsErr
}

func (c *fakeCatalog) Providers() ([]ProviderDeclaration, error) {
	c.reads++
	return c.providers, c.provErr
}

type actionMap map[string]Action

func (m actionMap) ComponentAction(component string) (Action, error) {
	action, ok := m[component]
	if !ok {
		return ActionUnknown, nil
	}
	return action, nil
}

type resolverFunc func(component string) (Action, error)

func (f resolverFunc) ComponentAction(component string) (Action, error) {
	return f(component)
}

type registration struct {
	version     string
	displayName string
	dependents  []Dependent
}

// countingStore is an in-memory store seeded per test that records every call.
type countingStore struct {
	providers  map[string]registration
	lookupErr  error
	depsErr    error
	lookups    []string
	depQueries []string
	hives      []Hive
}

func newCountingStore() *countingStore {
	return &countingStore{providers: map[string]registration{}}
}

func (s *countingStore) register(key string, reg registration) *countingStore {
	s.providers[strings.ToLower(key)] = reg
	return s
}

func (s *countingStore) calls() int {
	return len(s.lookups) + len(s.depQueries)
}

func (s *countingStore) Lookup(hive Hive, providerKey string, rng VersionRange) (LookupResult, error) {
	s.lookups = append(s.lookups, providerKey)
	s.hives = append(s.hives, hive)
	if s.lookupErr != nil {
		return LookupMissing, s.lookupErr
	}
	reg, ok := s.providers[strings.ToLower(providerKey)]
	if !ok {
		return LookupMissing, nil
	}
	inRange, err := rng.Contains(reg.version)
	if err != nil {
		return LookupMissing, err
	}
	if !inRange {
		return LookupOutOfRange, nil
	}
	return LookupSatisfied, nil
}

func (s *countingStore) DependentsOf(hive Hive, providerKey string, attrs Attributes) ([]Dependent, error) {
	s.depQueries = append(s.depQueries, providerKey)
	s.hives = append(s.hives, hive)
	if s.depsErr != nil {
		return nil, s.depsErr
	}
	return s.providers[strings.ToLower(providerKey)].dependents, nil
}

// recordingPrompter answers every batch with a fixed response and keeps the batches.
type recordingPrompter struct {
	response Response
	err      error
	batches  []Findings
}

func (p *recordingPrompter) Prompt(findings Findings) (Response, error) {
	p.batches = append(p.batches, findings)
	return p.response, p.err
}
