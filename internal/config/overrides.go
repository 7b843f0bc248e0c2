package config

import (
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// LoadWithOverrides loads configuration for a target directory with an
// optional overrides map applied on top. CLI flags land here.
//
// Overrides use the same (nested) shape as the TOML config file, for example:
//
//	overrides := map[string]any{
//	  "output": map[string]any{"dir": "build/report"},
//	  "report": map[string]any{"fail-under": 80.0},
//	}
//
// Precedence: defaults → config file → env → overrides.
func LoadWithOverrides(targetDir string, overrides map[string]any) (*Config, error) {
	return loadWithConfigPathAndOverrides(Discover(targetDir), overrides)
}

// LoadFromFileWithOverrides is LoadWithOverrides pinned to a specific
// config file, skipping discovery.
func LoadFromFileWithOverrides(configPath string, overrides map[string]any) (*Config, error) {
	return loadWithConfigPathAndOverrides(configPath, overrides)
}

func loadWithConfigPathAndOverrides(configPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}
	if err := loadConfigFile(k, configPath); err != nil {
		return nil, err
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	if err := loadOverrides(k, overrides); err != nil {
		return nil, err
	}

	cfg, err := decodeConfig(k.Raw())
	if err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

func loadConfigFile(k *koanf.Koanf, configPath string) error {
	if configPath == "" {
		return nil
	}
	return k.Load(file.Provider(configPath), toml.Parser())
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil)
}

func loadOverrides(k *koanf.Koanf, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	return k.Load(confmap.Provider(overrides, ""), nil)
}
