package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
)

// FileStore keeps provider registrations in one TOML document per hive.
type FileStore struct {
	paths Paths
	sys   System
}

// NewFileStore returns a store over paths. A nil sys uses the real filesystem.
func NewFileStore(paths Paths, sys System) *FileStore {
	if sys == nil {
		sys = RealSystem{}
	}
	return &FileStore{paths: paths, sys: sys}
}

// Paths returns the hive locations the store reads.
func (s *FileStore) Paths() Paths {
	return s.paths
}

// Load reads the document of hive. A missing document is an empty hive.
func (s *FileStore) Load(hive gate.Hive) (Document, error) {
	path, err := s.paths.For(hive)
	if err != nil {
		return Document{}, err
	}
	return s.load(path)
}

func (s *FileStore) load(path string) (Document, error) {
	data, err := s.sys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf(messages.RegistryReadFmt, path, err)
	}
	return decodeDocument(data, path)
}

// Lookup reports whether key is registered in hive within rng.
func (s *FileStore) Lookup(hive gate.Hive, providerKey string, rng gate.VersionRange) (gate.LookupResult, error) {
	doc, err := s.Load(hive)
	if err != nil {
		return gate.LookupMissing, err
	}
	provider, ok := doc.Provider(providerKey)
	if !ok {
		return gate.LookupMissing, nil
	}
	inRange, err := rng.Contains(provider.Version)
	if err != nil {
		return gate.LookupMissing, err
	}
	if !inRange {
		return gate.LookupOutOfRange, nil
	}
	return gate.LookupSatisfied, nil
}

// DependentsOf lists the registrations relying on key in hive. Attributes do
// not narrow the file store's answer. A dependent without its own display name
// borrows the one from its provider registration when the hive has one.
func (s *FileStore) DependentsOf(hive gate.Hive, providerKey string, _ gate.Attributes) ([]gate.Dependent, error) {
	doc, err := s.Load(hive)
	if err != nil {
		return nil, err
	}
	provider, ok := doc.Provider(providerKey)
	if !ok || len(provider.Dependents) == 0 {
		return []gate.Dependent{}, nil
	}
	out := make([]gate.Dependent, 0, len(provider.Dependents))
	for _, dep := range provider.Dependents {
		name := strings.TrimSpace(dep.DisplayName)
		if name == "" {
			if registered, found := doc.Provider(dep.Key); found {
				name = strings.TrimSpace(registered.DisplayName)
			}
		}
		out = append(out, gate.Dependent{Key: dep.Key, DisplayName: name})
	}
	return out, nil
}
