// Package config provides configuration loading and discovery for ruffgrade.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (RUFFGRADE_* prefix)
//  3. Config file (closest .ruffgrade.toml or ruffgrade.toml)
//  4. Built-in defaults
//
// Config file discovery follows a cascading pattern similar to Ruff:
// starting from the target directory, walk up the filesystem until a
// config file is found. The closest config wins (no merging).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".ruffgrade.toml", "ruffgrade.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "RUFFGRADE_"

// Config represents the complete ruffgrade configuration.
type Config struct {
	// Output configures the HTML report.
	Output OutputConfig `json:"output" koanf:"output"`

	// Report configures the score gate and export defaults.
	Report ReportConfig `json:"report" koanf:"report"`

	// Discovery configures Python source discovery.
	Discovery DiscoveryConfig `json:"discovery" koanf:"discovery"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// OutputConfig configures the HTML report output.
//
// Example TOML configuration:
//
//	[output]
//	dir = "ruffgrade-report"
//	title = "My Project"
//	source = true
type OutputConfig struct {
	// Dir is the directory the HTML report is written to.
	Dir string `json:"dir,omitempty" koanf:"dir"`

	// Title is the report title. Defaults to the pyproject project name,
	// then the target directory name.
	Title string `json:"title,omitempty" koanf:"title"`

	// Source renders highlighted source panels on file pages.
	Source bool `json:"source,omitempty" koanf:"source"`

	// Open prints the report index path after generation.
	Open bool `json:"open,omitempty" koanf:"open"`
}

// ReportConfig configures the score gate and export defaults.
//
// Example TOML configuration:
//
//	[report]
//	fail-under = 80.0
//	format = "text"
//	path = "stdout"
type ReportConfig struct {
	// FailUnder is the minimum aggregate score; a lower score makes the
	// run exit non-zero. 0 disables the gate.
	FailUnder float64 `json:"fail-under,omitempty" koanf:"fail-under"`

	// Format specifies the export format.
	Format string `json:"format,omitempty" koanf:"format"`

	// Path specifies where to write export output.
	Path string `json:"path,omitempty" koanf:"path"`
}

// DiscoveryConfig configures Python source discovery.
//
// Example TOML configuration:
//
//	[discovery]
//	sources = ["src", "scripts"]
//	exclude = ["migrations/**"]
//	max-file-size = 1048576
type DiscoveryConfig struct {
	// Sources are the source roots to grade. Defaults to pyproject
	// sources, then the working directory.
	Sources []string `json:"sources,omitempty" koanf:"sources"`

	// Exclude are glob patterns dropped from discovery.
	Exclude []string `json:"exclude,omitempty" koanf:"exclude"`

	// MaxFileSize is the maximum source file size in bytes (0 = unlimited).
	// Larger files are skipped with a warning instead of graded.
	MaxFileSize int64 `json:"max-file-size,omitempty" koanf:"max-file-size"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    "ruffgrade-report",
			Title:  "", // Resolved from pyproject or the directory name
			Source: true,
			Open:   false,
		},
		Report: ReportConfig{
			FailUnder: 0, // Gate disabled
			Format:    "text",
			Path:      "stdout",
		},
		Discovery: DiscoveryConfig{
			MaxFileSize: 1024 * 1024, // 1 MB
		},
	}
}

// Load loads configuration for a target directory.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetDir string) (*Config, error) {
	return loadWithConfigPath(Discover(targetDir))
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath)
}

// loadWithConfigPath is an internal helper that loads config with an optional config file path.
func loadWithConfigPath(configPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Load config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load environment variables (RUFFGRADE_* prefix)
	// RUFFGRADE_REPORT_FAIL_UNDER -> report.fail-under
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	// 4. Validate merged raw config and decode.
	cfg, err := decodeConfig(k.Raw())
	if err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated equivalents.
// Add new entries here when adding hyphenated config keys.
var knownHyphenatedKeys = map[string]string{
	"fail.under":    "fail-under",
	"max.file.size": "max-file-size",
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"output":    {},
	"report":    {},
	"discovery": {},
	// Compatibility aliases normalized in normalizeReportAliases.
	"fail-under": {},
	"format":     {},
	"path":       {},
}

// envKeyTransform converts environment variable names to config keys.
// RUFFGRADE_FORMAT -> format
// RUFFGRADE_REPORT_FAIL_UNDER -> report.fail-under
func envKeyTransform(k, v string) (string, any) {
	// Remove RUFFGRADE_ prefix (already stripped by Prefix option, but keeping for safety)
	s := strings.TrimPrefix(k, EnvPrefix)
	// Convert to lowercase and replace _ with . for nesting
	s = strings.ToLower(s)
	// REPORT_FAIL_UNDER -> report.fail.under
	s = strings.ReplaceAll(s, "_", ".")
	// Fix known hyphenated keys using lookup table
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}

	topLevel := s
	if before, _, ok := strings.Cut(s, "."); ok {
		topLevel = before
	}
	if _, ok := allowedEnvTopLevelKeys[topLevel]; !ok {
		return "", nil
	}

	return s, v
}

// Discover finds the closest config file for a target directory.
// It walks up the directory tree, checking for config files at each
// level. Returns empty string if no config file is found.
func Discover(targetDir string) string {
	// Get absolute path to handle relative paths correctly
	dir, err := filepath.Abs(targetDir)
	if err != nil {
		return ""
	}

	for {
		// Check each config file name in priority order
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		// Move up to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
