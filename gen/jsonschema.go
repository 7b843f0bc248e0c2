//go:build ignore

// This program generates the JSON schema published for editor completion of
// ruffgrade configuration. Run with: go run gen/jsonschema.go > schema.json
//
// The embedded internal/config/config.schema.json stays the validation
// document; this artifact is the schemastore-friendly rendering of the same
// config surface.
package main

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"os"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/pyqa/ruffgrade/internal/config"
)

func main() {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	schema := r.Reflect(&config.Config{})
	schema.ID = "https://json.schemastore.org/ruffgrade.json"
	schema.Title = "ruffgrade configuration"
	schema.Description = "Configuration schema for the ruffgrade quality report generator"

	// Enhance nested config sections with enums/defaults (too long for struct tags)
	enhanceOutputConfigSchema(schema)
	enhanceReportConfigSchema(schema)
	enhanceDiscoveryConfigSchema(schema)

	// Fix required fields - all config fields should be optional
	fixRequiredFields(schema)

	// Add generation timestamp as comment
	schema.Comments = fmt.Sprintf("Auto-generated on %s. Do not edit manually.",
		time.Now().Format("2006-01-02"))

	// Output as pretty-printed JSON
	data, err := json.Marshal(
		schema,
		jsontext.EscapeForHTML(true),
		jsontext.WithIndentPrefix(""),
		jsontext.WithIndent("  "),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// fixRequiredFields removes the required array from schemas where all fields should be optional.
// This is needed because the omitempty tag doesn't work on nested struct fields.
func fixRequiredFields(schema *jsonschema.Schema) {
	schema.Required = nil

	for _, name := range []string{"OutputConfig", "ReportConfig", "DiscoveryConfig"} {
		if def, ok := schema.Definitions[name]; ok {
			def.Required = nil
		}
	}
}

// enhanceOutputConfigSchema adds defaults/descriptions to OutputConfig fields.
// This is done programmatically to avoid long struct tag lines.
func enhanceOutputConfigSchema(schema *jsonschema.Schema) {
	outputDef, ok := schema.Definitions["OutputConfig"]
	if !ok || outputDef == nil {
		return
	}

	if dir, ok := outputDef.Properties.Get("dir"); ok {
		dir.Default = "ruffgrade-report"
		dir.Description = "Directory the HTML report is written to"
	}

	if source, ok := outputDef.Properties.Get("source"); ok {
		source.Default = true
		source.Description = "Render highlighted source panels on file pages"
	}

	if open, ok := outputDef.Properties.Get("open"); ok {
		open.Default = false
		open.Description = "Print the report index path after generation"
	}
}

// enhanceReportConfigSchema adds enum/default/description to ReportConfig fields.
func enhanceReportConfigSchema(schema *jsonschema.Schema) {
	reportDef, ok := schema.Definitions["ReportConfig"]
	if !ok || reportDef == nil {
		return
	}

	if format, ok := reportDef.Properties.Get("format"); ok {
		format.Enum = []any{"text", "json", "sarif", "github-actions", "markdown"}
		format.Default = "text"
		format.Description = "Export format"
	}

	if path, ok := reportDef.Properties.Get("path"); ok {
		path.Default = "stdout"
		path.Description = "Export destination: stdout, stderr, or a file path"
	}

	if failUnder, ok := reportDef.Properties.Get("fail-under"); ok {
		failUnder.Default = 0
		failUnder.Description = "Minimum aggregate score for a zero exit. 0 disables the gate"
	}
}

// enhanceDiscoveryConfigSchema adds defaults/descriptions to DiscoveryConfig fields.
func enhanceDiscoveryConfigSchema(schema *jsonschema.Schema) {
	discoveryDef, ok := schema.Definitions["DiscoveryConfig"]
	if !ok || discoveryDef == nil {
		return
	}

	if sources, ok := discoveryDef.Properties.Get("sources"); ok {
		sources.Description = "Source roots to grade. Defaults to pyproject sources, then the working directory"
	}

	if exclude, ok := discoveryDef.Properties.Get("exclude"); ok {
		exclude.Description = "Glob patterns excluded from discovery"
	}

	if maxFileSize, ok := discoveryDef.Properties.Get("max-file-size"); ok {
		maxFileSize.Default = 1024 * 1024
		maxFileSize.Description = "Maximum source file size in bytes. 0 disables the limit"
	}
}
