package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/hashicorp/go-version"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Mutation changes a hive document in memory.
type Mutation func(doc *Document) error

// RegisterProvider records key at ver. Re-registering an existing key replaces
// its version and display name and keeps its dependents.
func RegisterProvider(key string, ver string, displayName string) Mutation {
	return func(doc *Document) error {
		key = strings.TrimSpace(key)
		if key == "" {
			return errors.New(messages.RegistryProviderKeyRequired)
		}
		ver = strings.TrimSpace(ver)
		if ver != "" {
			if _, err := version.NewVersion(ver); err != nil {
				return fmt.Errorf(messages.RegistryInvalidVersionFmt, ver, err)
			}
		}
		if existing, ok := doc.Provider(key); ok {
			existing.Version = ver
			existing.DisplayName = strings.TrimSpace(displayName)
			return nil
		}
		doc.Providers = append(doc.Providers, Provider{
			Key:         key,
			Version:     ver,
			DisplayName: strings.TrimSpace(displayName),
		})
		return nil
	}
}

// UnregisterProvider removes key. A provider that still has dependents is kept
// unless force is set.
func UnregisterProvider(key string, force bool) Mutation {
	return func(doc *Document) error {
		idx := doc.index(key)
		if idx < 0 {
			return fmt.Errorf(messages.RegistryProviderNotFoundFmt, key)
		}
		if deps := doc.Providers[idx].Dependents; len(deps) > 0 && !force {
			keys := make([]string, 0, len(deps))
			for _, dep := range deps {
				keys = append(keys, dep.Key)
			}
			return fmt.Errorf(messages.RegistryProviderHasDependentsFmt, doc.Providers[idx].Key, strings.Join(keys, ", "))
		}
		doc.Providers = append(doc.Providers[:idx], doc.Providers[idx+1:]...)
		return nil
	}
}

// AddDependent records dependent as relying on provider. Adding a dependent
// twice only refreshes its display name.
func AddDependent(provider string, dependent string, displayName string) Mutation {
	return func(doc *Document) error {
		dependent = strings.TrimSpace(dependent)
		if dependent == "" {
			return errors.New(messages.RegistryDependentKeyRequired)
		}
		p, ok := doc.Provider(provider)
		if !ok {
			return fmt.Errorf(messages.RegistryProviderNotFoundFmt, provider)
		}
		if strings.EqualFold(p.Key, dependent) {
			return fmt.Errorf(messages.RegistrySelfDependencyFmt, p.Key)
		}
		for i := range p.Dependents {
			if strings.EqualFold(p.Dependents[i].Key, dependent) {
				if name := strings.TrimSpace(displayName); name != "" {
					p.Dependents[i].DisplayName = name
				}
				return nil
			}
		}
		p.Dependents = append(p.Dependents, Dependent{Key: dependent, DisplayName: strings.TrimSpace(displayName)})
		return nil
	}
}

// RemoveDependent drops dependent from provider.
func RemoveDependent(provider string, dependent string) Mutation {
	return func(doc *Document) error {
		p, ok := doc.Provider(provider)
		if !ok {
			return fmt.Errorf(messages.RegistryProviderNotFoundFmt, provider)
		}
		for i := range p.Dependents {
			if strings.EqualFold(p.Dependents[i].Key, strings.TrimSpace(dependent)) {
				p.Dependents = append(p.Dependents[:i], p.Dependents[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf(messages.RegistryDependentNotFoundFmt, dependent, p.Key)
	}
}

// RecordDependent is AddDependent for committed transactions: a provider the
// hive does not register, or a dependent naming its own provider, is skipped.
func RecordDependent(provider string, dependent string, displayName string) Mutation {
	return func(doc *Document) error {
		p, ok := doc.Provider(provider)
		if !ok || strings.EqualFold(p.Key, strings.TrimSpace(dependent)) {
			return nil
		}
		return AddDependent(provider, dependent, displayName)(doc)
	}
}

// DropDependent removes dependent from every provider that lists it.
func DropDependent(dependent string) Mutation {
	return func(doc *Document) error {
		dependent = strings.TrimSpace(dependent)
		if dependent == "" {
			return errors.New(messages.RegistryDependentKeyRequired)
		}
		for i := range doc.Providers {
			var kept []Dependent
			for _, dep := range doc.Providers[i].Dependents {
				if !strings.EqualFold(dep.Key, dependent) {
					kept = append(kept, dep)
				}
			}
			doc.Providers[i].Dependents = kept
		}
		return nil
	}
}

// Chain applies mutations in order, stopping at the first error.
func Chain(mutations ...Mutation) Mutation {
	return func(doc *Document) error {
		for _, m := range mutations {
			if m == nil {
				continue
			}
			if err := m(doc); err != nil {
				return err
			}
		}
		return nil
	}
}

// Apply runs mutation against the hive document under the registry lock and
// writes the result atomically. A failed mutation leaves the document untouched.
func (s *FileStore) Apply(hive gate.Hive, mutation Mutation) error {
	if mutation == nil {
		return errors.New(messages.RegistryMutationRequired)
	}
	path, err := s.paths.For(hive)
	if err != nil {
		return err
	}
	if err := s.sys.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf(messages.RegistryCreateDirFmt, path, err)
	}
	return withHiveLock(path, func() error {
		doc, err := s.load(path)
		if err != nil {
			return err
		}
		next := doc.clone()
		if err := mutation(&next); err != nil {
			return err
		}
		data, err := encodeDocument(next, path)
		if err != nil {
			return err
		}
		if err := s.sys.WriteFileAtomic(path, data, filePerm); err != nil {
			return fmt.Errorf(messages.RegistryWriteFmt, path, err)
		}
		return nil
	})
}

// Preview returns the unified diff mutation would produce without writing.
// An empty string means the mutation changes nothing.
func (s *FileStore) Preview(hive gate.Hive, mutation Mutation) (string, error) {
	if mutation == nil {
		return "", errors.New(messages.RegistryMutationRequired)
	}
	path, err := s.paths.For(hive)
	if err != nil {
		return "", err
	}
	doc, err := s.load(path)
	if err != nil {
		return "", err
	}
	next := doc.clone()
	if err := mutation(&next); err != nil {
		return "", err
	}
	before, err := encodeDocument(doc.clone(), path)
	if err != nil {
		return "", err
	}
	after, err := encodeDocument(next, path)
	if err != nil {
		return "", err
	}
	if string(before) == string(after) {
		return "", nil
	}
	return udiff.Unified(path, path+" (pending)", string(before), string(after)), nil
}
