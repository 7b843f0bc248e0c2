package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

func decodeConfig(raw map[string]any) (*Config, error) {
	if err := validateAndNormalize(raw); err != nil {
		return nil, err
	}

	normalized := koanf.New(".")
	if err := normalized.Load(confmap.Provider(raw, ""), nil); err != nil {
		return nil, fmt.Errorf("load normalized config: %w", err)
	}

	var cfg Config
	if err := normalized.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func validateAndNormalize(raw map[string]any) error {
	normalizeReportAliases(raw)

	validator, err := defaultValidator()
	if err != nil {
		return err
	}
	if err := validator.coerce(raw); err != nil {
		return err
	}
	return validator.validate(raw)
}

// normalizeReportAliases folds bare top-level shorthand keys into the
// [report] table: `format = "json"` means `report.format = "json"`. The
// aliases keep RUFFGRADE_FORMAT-style environment variables short.
func normalizeReportAliases(raw map[string]any) {
	aliases := []string{"fail-under", "format", "path"}

	var reportRaw map[string]any
	if existing, ok := raw["report"].(map[string]any); ok {
		reportRaw = existing
	}

	for _, key := range aliases {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if reportRaw == nil {
			reportRaw = make(map[string]any)
			raw["report"] = reportRaw
		}
		if _, exists := reportRaw[key]; !exists {
			reportRaw[key] = value
		}
		delete(raw, key)
	}
}
