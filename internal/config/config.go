package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/depgate/internal/messages"
	"github.com/conn-castle/depgate/internal/prompt"
	"github.com/conn-castle/depgate/internal/registry"
)

// ErrConfigValidation wraps config validation failures (as opposed to TOML
// syntax or filesystem errors). Callers can use errors.Is to tell them apart.
var ErrConfigValidation = errors.New("config validation failed")

// DefaultPath is where the tool looks for depgate.toml unless --config says otherwise.
const DefaultPath = "~/.config/depgate/depgate.toml"

var expandHome = homedir.Expand

// Config is the content of depgate.toml.
type Config struct {
	Registry   RegistryConfig   `toml:"registry"`
	Dependents DependentsConfig `toml:"dependents"`
	Prompt     PromptConfig     `toml:"prompt"`
}

// RegistryConfig locates the hive documents.
type RegistryConfig struct {
	MachinePath string `toml:"machine_path"`
	UserPath    string `toml:"user_path"`
}

// DependentsConfig holds the default ignore list for the dependents check.
type DependentsConfig struct {
	Ignore string `toml:"ignore"`
}

// PromptConfig selects how findings are put to the user.
type PromptConfig struct {
	Mode string `toml:"mode"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			MachinePath: registry.DefaultMachinePath,
			UserPath:    registry.DefaultUserPath,
		},
		Prompt: PromptConfig{Mode: prompt.ModeAuto},
	}
}

// Load reads and validates the config at path, expanding a leading ~.
// A missing file yields Default.
func Load(path string) (*Config, error) {
	resolved, err := expandHome(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigResolveHomeFmt, err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf(messages.ConfigReadFmt, resolved, err)
	}
	return Parse(data, resolved)
}

// Parse decodes config TOML over the defaults and validates the result.
// Keys left out keep their default values.
func Parse(data []byte, source string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	return cfg, nil
}

// decodeStrict re-decodes with unknown-field rejection, which toml.Unmarshal
// does not do.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(source string) error {
	if strings.TrimSpace(c.Registry.MachinePath) == "" {
		return fmt.Errorf(messages.ConfigMachinePathRequiredFmt, source)
	}
	if strings.TrimSpace(c.Registry.UserPath) == "" {
		return fmt.Errorf(messages.ConfigUserPathRequiredFmt, source)
	}
	if !prompt.ValidMode(c.Prompt.Mode) {
		return fmt.Errorf(messages.ConfigPromptModeFmt, source, strings.Join(prompt.Modes(), ", "), c.Prompt.Mode)
	}
	return nil
}

// RegistryPaths resolves the configured hive locations.
func (c *Config) RegistryPaths() (registry.Paths, error) {
	return registry.ResolvePaths(c.Registry.MachinePath, c.Registry.UserPath)
}
