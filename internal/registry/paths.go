package registry

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
)

// DefaultMachinePath is where the per-machine hive lives unless configured otherwise.
const DefaultMachinePath = "/var/lib/depgate/registry.toml"

// DefaultUserPath is where the per-user hive lives unless configured otherwise.
const DefaultUserPath = "~/.local/state/depgate/registry.toml"

var expandHome = homedir.Expand

// Paths locates the hive documents.
type Paths struct {
	Machine string
	User    string
}

// DefaultPaths returns the default hive locations with the home directory expanded.
func DefaultPaths() (Paths, error) {
	return ResolvePaths(DefaultMachinePath, DefaultUserPath)
}

// ResolvePaths expands a leading ~ in either path and cleans both.
func ResolvePaths(machine string, user string) (Paths, error) {
	resolved := Paths{}
	for _, p := range []struct {
		raw string
		dst *string
	}{
		{machine, &resolved.Machine},
		{user, &resolved.User},
	} {
		trimmed := strings.TrimSpace(p.raw)
		if trimmed == "" {
			continue
		}
		expanded, err := expandHome(trimmed)
		if err != nil {
			return Paths{}, fmt.Errorf(messages.RegistryResolveHomeFmt, err)
		}
		*p.dst = filepath.Clean(expanded)
	}
	return resolved, nil
}

// For returns the document path of hive.
func (p Paths) For(hive gate.Hive) (string, error) {
	path := p.User
	if hive == gate.HivePerMachine {
		path = p.Machine
	}
	if path == "" {
		return "", fmt.Errorf(messages.RegistryPathEmptyFmt, hive)
	}
	return path, nil
}
