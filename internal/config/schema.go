package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	gjsonschema "github.com/google/jsonschema-go/jsonschema"
)

// configSchemaJSON is the JSON schema every merged raw config is checked
// against before decoding. The same document is published for editor
// completion of .ruffgrade.toml files.
//
//go:embed config.schema.json
var configSchemaJSON []byte

// SchemaJSON returns the embedded configuration schema document.
func SchemaJSON() []byte {
	out := make([]byte, len(configSchemaJSON))
	copy(out, configSchemaJSON)
	return out
}

type schemaValidator struct {
	resolved *gjsonschema.Resolved
	raw      map[string]any
}

var (
	schemaValidatorOnce sync.Once
	sharedValidator     *schemaValidator
	errSchemaValidator  error
)

func defaultValidator() (*schemaValidator, error) {
	schemaValidatorOnce.Do(func() {
		sharedValidator, errSchemaValidator = newSchemaValidator()
	})
	if errSchemaValidator != nil {
		return nil, errSchemaValidator
	}
	return sharedValidator, nil
}

func newSchemaValidator() (*schemaValidator, error) {
	var schema gjsonschema.Schema
	if err := json.Unmarshal(configSchemaJSON, &schema); err != nil {
		return nil, fmt.Errorf("parse config schema: %w", err)
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve config schema: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(configSchemaJSON, &raw); err != nil {
		return nil, fmt.Errorf("parse raw config schema: %w", err)
	}

	return &schemaValidator{resolved: resolved, raw: raw}, nil
}

// validate checks the merged raw config against the schema.
func (v *schemaValidator) validate(raw map[string]any) error {
	if raw == nil {
		return nil
	}
	jsonValue, err := toJSONValue(raw)
	if err != nil {
		return fmt.Errorf("convert config to JSON value: %w", err)
	}
	if err := v.resolved.Validate(jsonValue); err != nil {
		return fmt.Errorf("config schema validation failed: %w", err)
	}
	return nil
}

// coerce rewrites string leaves of the raw config into the types the
// schema declares. TOML files produce typed values already; environment
// variables arrive as strings and need this pass to validate.
func (v *schemaValidator) coerce(raw map[string]any) error {
	_, err := coerceValue(v.raw, raw)
	return err
}

func coerceValue(schema map[string]any, value any) (any, error) {
	if value == nil || schema == nil {
		return value, nil
	}

	switch typed := value.(type) {
	case string:
		return coerceString(schema, typed)
	case map[string]any:
		return coerceObject(schema, typed)
	case []any:
		return coerceArray(schema, typed)
	case []string:
		list := make([]any, 0, len(typed))
		for _, item := range typed {
			list = append(list, item)
		}
		return coerceArray(schema, list)
	default:
		return value, nil
	}
}

func coerceObject(schema, obj map[string]any) (any, error) {
	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return obj, nil
	}

	for key, child := range obj {
		childSchema, ok := properties[key].(map[string]any)
		if !ok {
			continue
		}

		coerced, err := coerceValue(childSchema, child)
		if err != nil {
			return obj, err
		}
		obj[key] = coerced
	}

	return obj, nil
}

func coerceArray(schema map[string]any, arr []any) (any, error) {
	items, ok := schema["items"].(map[string]any)
	if !ok {
		return arr, nil
	}

	for i, child := range arr {
		coerced, err := coerceValue(items, child)
		if err != nil {
			return arr, err
		}
		arr[i] = coerced
	}

	return arr, nil
}

func coerceString(schema map[string]any, value string) (any, error) {
	types := schemaTypes(schema)
	if len(types) == 0 {
		return value, nil
	}

	if types["boolean"] {
		if b, err := strconv.ParseBool(value); err == nil {
			return b, nil
		}
	}

	if types["integer"] {
		if i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return i, nil
		}
	}

	if types["number"] {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f, nil
		}
	}

	if types["array"] {
		trimmed := strings.TrimSpace(value)
		if strings.HasPrefix(trimmed, "[") {
			var arr []any
			if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
				return coerceArray(schema, arr)
			}
		}

		parts := splitEnvList(value)
		items, ok := schema["items"].(map[string]any)
		if !ok {
			return parts, nil
		}

		coerced := make([]any, 0, len(parts))
		for _, part := range parts {
			item, err := coerceValue(items, part)
			if err != nil {
				return value, err
			}
			coerced = append(coerced, item)
		}
		return coerced, nil
	}

	return value, nil
}

// splitEnvList splits a comma-separated environment value into parts.
func splitEnvList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func schemaTypes(schema map[string]any) map[string]bool {
	if schema == nil {
		return nil
	}

	if t, ok := schema["type"]; ok {
		switch v := t.(type) {
		case string:
			return map[string]bool{v: true}
		case []any:
			out := make(map[string]bool, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					out[s] = true
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}

	out := make(map[string]bool)
	if _, ok := schema["properties"].(map[string]any); ok {
		out["object"] = true
	}
	if _, ok := schema["items"].(map[string]any); ok {
		out["array"] = true
	}
	if len(out) > 0 {
		return out
	}

	return nil
}

func toJSONValue(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
