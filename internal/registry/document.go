package registry

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/depgate/internal/messages"
)

// Document is the persisted content of one hive.
type Document struct {
	Providers []Provider `toml:"providers" json:"providers"`
}

// Provider is one registered provider key.
type Provider struct {
	Key         string      `toml:"key" json:"key"`
	Version     string      `toml:"version,omitempty" json:"version,omitempty"`
	DisplayName string      `toml:"display_name,omitempty" json:"display_name,omitempty"`
	Dependents  []Dependent `toml:"dependents,omitempty" json:"dependents,omitempty"`
}

// Dependent is a registration relying on a provider.
type Dependent struct {
	Key         string `toml:"key" json:"key"`
	DisplayName string `toml:"display_name,omitempty" json:"display_name,omitempty"`
}

// Provider returns the registration for key, matched case-insensitively.
func (d *Document) Provider(key string) (*Provider, bool) {
	idx := d.index(key)
	if idx < 0 {
		return nil, false
	}
	return &d.Providers[idx], true
}

func (d *Document) index(key string) int {
	for i := range d.Providers {
		if strings.EqualFold(d.Providers[i].Key, strings.TrimSpace(key)) {
			return i
		}
	}
	return -1
}

func (d *Document) clone() Document {
	out := Document{Providers: make([]Provider, len(d.Providers))}
	for i, p := range d.Providers {
		p.Dependents = append([]Dependent(nil), p.Dependents...)
		out.Providers[i] = p
	}
	return out
}

// normalize sorts providers and dependents so the encoded form is stable.
func (d *Document) normalize() {
	sort.SliceStable(d.Providers, func(i, j int) bool {
		return strings.ToLower(d.Providers[i].Key) < strings.ToLower(d.Providers[j].Key)
	})
	for i := range d.Providers {
		deps := d.Providers[i].Dependents
		sort.SliceStable(deps, func(a, b int) bool {
			return strings.ToLower(deps[a].Key) < strings.ToLower(deps[b].Key)
		})
	}
}

func (d *Document) validate(source string) error {
	seen := make(map[string]struct{}, len(d.Providers))
	for _, p := range d.Providers {
		key := strings.ToLower(strings.TrimSpace(p.Key))
		if key == "" {
			return fmt.Errorf(messages.RegistryDecodeFmt, source, errors.New(messages.RegistryProviderKeyRequired))
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf(messages.RegistryDuplicateProviderFmt, source, p.Key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// decodeDocument parses hive content, rejecting unknown keys.
// Empty content is an empty hive.
func decodeDocument(data []byte, source string) (Document, error) {
	var doc Document
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf(messages.RegistryDecodeFmt, source, err)
	}
	if err := doc.validate(source); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func encodeDocument(doc Document, source string) ([]byte, error) {
	doc.normalize()
	if len(doc.Providers) == 0 {
		return []byte{}, nil
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf(messages.RegistryEncodeFmt, source, err)
	}
	return data, nil
}
