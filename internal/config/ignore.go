package config

import (
	"os"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/properties"
)

// EnvIgnoreDependencies overrides the configured ignore list when set.
const EnvIgnoreDependencies = "DG_IGNORE_DEPENDENCIES"

// Ignore source names reported by ResolveIgnore.
const (
	IgnoreFromFlag       = "flag"
	IgnoreFromProperties = "properties"
	IgnoreFromEnv        = "env"
	IgnoreFromConfig     = "config"
)

var lookupEnv = os.LookupEnv

// IgnoreSources are the places an ignore list can come from.
type IgnoreSources struct {
	Flag       string
	FlagSet    bool
	Properties properties.Properties
	Config     *Config
}

// ResolveIgnore picks the first ignore list that is set, in the order flag,
// property file, environment, config, and parses it once. It also returns the
// name of the source that won, or "" when none was set.
func ResolveIgnore(src IgnoreSources) (gate.IgnoreSet, string) {
	if src.FlagSet {
		return gate.ParseIgnoreSet(src.Flag), IgnoreFromFlag
	}
	if value, ok := src.Properties.Get(properties.IgnoreDependencies); ok {
		return gate.ParseIgnoreSet(value), IgnoreFromProperties
	}
	if value, ok := lookupEnv(EnvIgnoreDependencies); ok {
		return gate.ParseIgnoreSet(value), IgnoreFromEnv
	}
	if src.Config != nil && src.Config.Dependents.Ignore != "" {
		return gate.ParseIgnoreSet(src.Config.Dependents.Ignore), IgnoreFromConfig
	}
	return gate.ParseIgnoreSet(""), ""
}
