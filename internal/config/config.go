package config

import "time"

// Config represents the complete scriptlens configuration.
// It can be loaded from .scriptlens/config.yml with environment variable overrides.
type Config struct {
	References ReferencesConfig `yaml:"references" mapstructure:"references"`
	Paths      PathsConfig      `yaml:"paths" mapstructure:"paths"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Watch      WatchConfig      `yaml:"watch" mapstructure:"watch"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// ReferencesConfig configures reference extraction.
type ReferencesConfig struct {
	Roots     []string        `yaml:"roots" mapstructure:"roots"` // root entity names, e.g. ["Things", "Items", "Users"]
	Principal PrincipalConfig `yaml:"principal" mapstructure:"principal"`
}

// PrincipalConfig normalizes Root[Identifier] to the fixed member Actor.
type PrincipalConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	Root       string `yaml:"root" mapstructure:"root"`
	Identifier string `yaml:"identifier" mapstructure:"identifier"`
	Actor      string `yaml:"actor" mapstructure:"actor"`
}

// PathsConfig defines which files to analyze and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for scripts
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// CacheConfig bounds the analysis result cache.
type CacheConfig struct {
	MaxEntries int           `yaml:"max_entries" mapstructure:"max_entries"`
	TTL        time.Duration `yaml:"ttl" mapstructure:"ttl"` // zero disables expiry
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"` // quiet period before re-analysis
}

// OutputConfig selects how CLI results are rendered.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "text" or "json"
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		References: ReferencesConfig{
			Roots: []string{"Things", "Items", "Users"},
			Principal: PrincipalConfig{
				Enabled:    true,
				Root:       "Users",
				Identifier: "principal",
				Actor:      "System",
			},
		},
		Paths: PathsConfig{
			Include: []string{
				"**/*.ts",
				"**/*.mts",
				"**/*.cts",
				"**/*.tsx",
				"**/*.js",
				"**/*.jsx",
				"**/*.mjs",
				"**/*.cjs",
			},
			Ignore: []string{
				"node_modules/**",
				"**/node_modules/**",
				".git/**",
				"dist/**",
				"build/**",
				"coverage/**",
				"**/*.d.ts",
				"**/*.min.js",
			},
		},
		Cache: CacheConfig{
			MaxEntries: 1024,
			TTL:        10 * time.Minute,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Output: OutputConfig{
			Format: FormatText,
		},
	}
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)
