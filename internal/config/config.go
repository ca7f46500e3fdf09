// Package config resolves the layered configuration spec.md §6 names:
// CLI flag > environment variable > config file > built-in default. The
// teacher's go.mod already pulled in spf13/viper for this; this package
// is the first thing in the rework to actually call it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/roberthamel/oascodegen/internal/core"
)

// ValidKeys enumerates every recognized configuration key (spec.md §6
// "recognized options the core consumes"). Set rejects anything else.
var ValidKeys = []string{
	"input",
	"input.include",
	"input.exclude",
	"output.path",
	"output.indexFile",
	"parser.transforms.enums.enabled",
	"parser.transforms.enums.mode",
	"parser.transforms.readWrite.enabled",
	"definitions.case",
	"definitions.name",
	"requests.enabled",
	"responses.enabled",
	"comments",
	"metadata",
}

// defaults mirrors the built-in values the core falls back to when
// neither a flag, environment variable, nor config file sets a key.
var defaults = map[string]any{
	"output.path":                         "./generated",
	"output.indexFile":                    true,
	"parser.transforms.enums.enabled":     false,
	"parser.transforms.enums.mode":        "inline",
	"parser.transforms.readWrite.enabled": false,
	"definitions.case":                    "PascalCase",
	"requests.enabled":                    true,
	"responses.enabled":                   true,
	"comments":                            true,
	"metadata":                            false,
}

// Loader wraps a *viper.Viper bound to the config file, environment, and
// a command's flags, in that ascending precedence order.
type Loader struct {
	v          *viper.Viper
	configPath string
}

// New returns a Loader seeded with defaults, the OASCODEGEN_ environment
// prefix, and (if present) a ".oascodegen" config file discovered on the
// given search paths. The first search path (the working directory, for
// every caller in cmd/oascodegen) is where Set persists a key so it is
// honored by later invocations, the same file ReadInConfig already reads.
func New(searchPaths ...string) *Loader {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("OASCODEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(".oascodegen")
	v.SetConfigType("yaml")
	configPath := ".oascodegen.yaml"
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	if len(searchPaths) > 0 {
		configPath = filepath.Join(searchPaths[0], ".oascodegen.yaml")
	}
	// A missing config file is not fatal: flags, env, and defaults still
	// resolve every recognized key.
	_ = v.ReadInConfig()

	return &Loader{v: v, configPath: configPath}
}

// BindFlags wires cmd's flags — including persistent flags inherited from
// parent commands, which cobra merges into Flags() once the command tree
// has been parsed — into the loader at the highest precedence tier.
func (l *Loader) BindFlags(cmd *cobra.Command) error {
	return l.v.BindPFlags(cmd.Flags())
}

// Resolve narrows the full layered configuration down to the shape
// internal/core.Config expects.
func (l *Loader) Resolve() *core.Config {
	return &core.Config{
		OutputPath:      l.v.GetString("output.path"),
		OutputIndexFile: l.v.GetBool("output.indexFile"),
		EnumsEnabled:    l.v.GetBool("parser.transforms.enums.enabled"),
		EnumsMode:       l.v.GetString("parser.transforms.enums.mode"),
		ReadWriteSplit:  l.v.GetBool("parser.transforms.readWrite.enabled"),
		PluginOptions:   make(map[string]map[string]any),
	}
}

// Set assigns value to key after validating key is recognized (spec.md
// §7 ConfigError "invalid output path" and friends route through here),
// and persists it to the discovered .oascodegen.yaml so it outlives this
// process and is honored by later invocations at the config-file
// precedence tier.
func (l *Loader) Set(key string, value any) error {
	if !isValidKey(key) {
		return core.New(core.KindConfigError, unknownKeyError(key))
	}
	l.v.Set(key, value)
	if err := l.persist(key, value); err != nil {
		return core.New(core.KindConfigError, fmt.Errorf("writing %s: %w", l.configPath, err))
	}
	return nil
}

// persist merges key=value into the on-disk config file, preserving any
// other keys already written there.
func (l *Loader) persist(key string, value any) error {
	raw := make(map[string]any)
	if data, err := os.ReadFile(l.configPath); err == nil {
		_ = yaml.Unmarshal(data, &raw)
	}
	setNested(raw, key, value)
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(l.configPath, data, 0o644)
}

// setNested assigns value at the dotted path key within m, creating
// intermediate maps as needed — the nesting a dotted viper key expects to
// find in a YAML document (e.g. "parser.transforms.enums.enabled" becomes
// {parser: {transforms: {enums: {enabled: value}}}}).
func setNested(m map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// Get returns the resolved value for key, honoring the same precedence
// Resolve uses.
func (l *Loader) Get(key string) any {
	return l.v.Get(key)
}

// List returns every recognized key alongside its currently resolved
// value. The result is a map, so callers sort the keys for display.
func (l *Loader) List() map[string]any {
	out := make(map[string]any, len(ValidKeys))
	for _, k := range ValidKeys {
		out[k] = l.v.Get(k)
	}
	return out
}

// Reset restores every key to its built-in default, both for this process
// and for later invocations by removing the persisted config file Set
// writes to.
func (l *Loader) Reset() {
	for k, val := range defaults {
		l.v.Set(k, val)
	}
	_ = os.Remove(l.configPath)
}

func isValidKey(key string) bool {
	for _, k := range ValidKeys {
		if k == key {
			return true
		}
	}
	return false
}

type unknownKeyError string

func (e unknownKeyError) Error() string { return "unrecognized configuration key: " + string(e) }
