package catalog

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
)

// Manifest describes one install transaction: what happens to each component
// and the relationships those components declare.
type Manifest struct {
	Machine        bool         `toml:"machine"`
	Components     []Component  `toml:"components"`
	DependencyRows []Dependency `toml:"dependencies"`
	ProviderRows   []Provider   `toml:"providers"`

	actions      map[string]gate.Action
	dependencies []gate.DependencyDeclaration
	providers    []gate.ProviderDeclaration
}

// Component is one component and the action the transaction takes on it.
type Component struct {
	ID     string `toml:"id"`
	Action string `toml:"action"`
}

// Dependency is one [[dependencies]] row.
type Dependency struct {
	ID         string   `toml:"id"`
	Component  string   `toml:"component"`
	Provider   string   `toml:"provider"`
	MinVersion string   `toml:"min_version"`
	MaxVersion string   `toml:"max_version"`
	Attributes []string `toml:"attributes"`
}

// Provider is one [[providers]] row. Version is what the transaction registers
// when it commits.
type Provider struct {
	ID          string   `toml:"id"`
	Component   string   `toml:"component"`
	Key         string   `toml:"key"`
	DisplayName string   `toml:"display_name"`
	Version     string   `toml:"version"`
	Attributes  []string `toml:"attributes"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.CatalogReadFmt, path, err)
	}
	return Parse(data, path)
}

// Parse decodes manifest TOML, rejecting unknown keys, and resolves component
// actions and attribute names. Row fields are not checked here; the checks
// report incomplete rows only for components they act on.
func Parse(data []byte, source string) (*Manifest, error) {
	var m Manifest
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf(messages.CatalogDecodeFmt, source, err)
	}
	if err := m.resolve(source); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) resolve(source string) error {
	m.actions = make(map[string]gate.Action, len(m.Components))
	for i, c := range m.Components {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return fmt.Errorf(messages.CatalogComponentIDRequiredFmt, source, i)
		}
		if _, dup := m.actions[id]; dup {
			return fmt.Errorf(messages.CatalogDuplicateComponentFmt, source, id)
		}
		action, err := gate.ParseAction(c.Action)
		if err != nil {
			return fmt.Errorf(messages.CatalogComponentActionFmt, source, id, err)
		}
		m.actions[id] = action
	}

	m.dependencies = make([]gate.DependencyDeclaration, 0, len(m.DependencyRows))
	for i, d := range m.DependencyRows {
		attrs, err := gate.ParseAttributes(d.Attributes)
		if err != nil {
			return fmt.Errorf(messages.CatalogAttributesFmt, source, "dependencies", i, err)
		}
		m.dependencies = append(m.dependencies, gate.DependencyDeclaration{
			ID:          strings.TrimSpace(d.ID),
			Component:   strings.TrimSpace(d.Component),
			ProviderKey: strings.TrimSpace(d.Provider),
			MinVersion:  strings.TrimSpace(d.MinVersion),
			MaxVersion:  strings.TrimSpace(d.MaxVersion),
			Attributes:  attrs,
		})
	}

	m.providers = make([]gate.ProviderDeclaration, 0, len(m.ProviderRows))
	for i, p := range m.ProviderRows {
		attrs, err := gate.ParseAttributes(p.Attributes)
		if err != nil {
			return fmt.Errorf(messages.CatalogAttributesFmt, source, "providers", i, err)
		}
		m.providers = append(m.providers, gate.ProviderDeclaration{
			ID:          strings.TrimSpace(p.ID),
			Component:   strings.TrimSpace(p.Component),
			ProviderKey: strings.TrimSpace(p.Key),
			DisplayName: strings.TrimSpace(p.DisplayName),
			Attributes:  attrs,
		})
	}
	return nil
}

// Dependencies returns the dependency rows as gate declarations.
func (m *Manifest) Dependencies() ([]gate.DependencyDeclaration, error) {
	return append([]gate.DependencyDeclaration(nil), m.dependencies...), nil
}

// Providers returns the provider rows as gate declarations.
func (m *Manifest) Providers() ([]gate.ProviderDeclaration, error) {
	return append([]gate.ProviderDeclaration(nil), m.providers...), nil
}

// ComponentAction returns the declared action of component. Components the
// manifest does not declare resolve to gate.ActionUnknown.
func (m *Manifest) ComponentAction(component string) (gate.Action, error) {
	action, ok := m.actions[strings.TrimSpace(component)]
	if !ok {
		return gate.ActionUnknown, nil
	}
	return action, nil
}

// Hive returns the hive the transaction runs against.
func (m *Manifest) Hive() gate.Hive {
	return gate.HiveFor(m.Machine)
}

// Registrations returns the provider rows whose components this transaction
// installs, in manifest order.
func (m *Manifest) Registrations() []Provider {
	return m.providersWhere(gate.Action.Installing)
}

// Removals returns the provider rows whose components this transaction removes.
func (m *Manifest) Removals() []Provider {
	return m.providersWhere(gate.Action.Removing)
}

func (m *Manifest) providersWhere(keep func(gate.Action) bool) []Provider {
	var out []Provider
	for _, p := range m.ProviderRows {
		if strings.TrimSpace(p.Key) == "" {
			continue
		}
		if action, _ := m.ComponentAction(p.Component); keep(action) {
			out = append(out, p)
		}
	}
	return out
}

// Link says that Dependent relies on Provider.
type Link struct {
	Provider    string
	Dependent   string
	DisplayName string
}

// Links returns the dependent entries an installed transaction leaves behind:
// every dependency row of an installed component links its provider to each
// provider key that component publishes. A component publishing no key has
// nothing to record.
func (m *Manifest) Links() []Link {
	published := make(map[string][]Provider)
	for _, p := range m.Registrations() {
		component := strings.TrimSpace(p.Component)
		published[component] = append(published[component], p)
	}
	var out []Link
	seen := make(map[string]struct{})
	for _, d := range m.DependencyRows {
		provider := strings.TrimSpace(d.Provider)
		if provider == "" {
			continue
		}
		for _, own := range published[strings.TrimSpace(d.Component)] {
			dependent := strings.TrimSpace(own.Key)
			id := strings.ToLower(provider) + "\x00" + strings.ToLower(dependent)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, Link{
				Provider:    provider,
				Dependent:   dependent,
				DisplayName: strings.TrimSpace(own.DisplayName),
			})
		}
	}
	return out
}
