package reporter

import (
	"io"
	"path/filepath"
	"slices"
	"sort"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/pyqa/ruffgrade/internal/issues"
	"github.com/pyqa/ruffgrade/internal/quality"
)

// Default SARIF tool information.
const (
	defaultToolName = "ruffgrade"
	defaultToolURI  = "https://github.com/pyqa/ruffgrade"
)

// SARIFReporter formats issues as SARIF (Static Analysis Results Interchange Format).
// SARIF is a standard format for static analysis tools, widely supported by CI/CD systems
// including GitHub Code Scanning and Azure DevOps.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{
		writer:      w,
		toolName:    toolName,
		toolVersion: toolVersion,
		toolURI:     toolURI,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(m *issues.Mapping, _ map[string][]byte, _ quality.Summary) error {
	// Create a new SARIF report (v2.1.0 for maximum compatibility)
	report := sarif.NewReport()

	// Create a run with tool information
	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	sorted := slices.Clone(m.All())
	issues.SortIssues(sorted)

	// Collect unique rule codes and files
	ruleSet := make(map[string]*issues.Issue)
	fileSet := make(map[string]struct{})

	for _, issue := range sorted {
		if _, exists := ruleSet[issue.Code]; !exists {
			ruleSet[issue.Code] = issue
		}
		// Normalize path for SARIF URIs (cross-platform consistency)
		filePath := filepath.ToSlash(issue.Filename)
		fileSet[filePath] = struct{}{}
	}

	// Add rule definitions
	ruleCodes := make([]string, 0, len(ruleSet))
	for code := range ruleSet {
		ruleCodes = append(ruleCodes, code)
	}
	sort.Strings(ruleCodes)

	for _, code := range ruleCodes {
		issue := ruleSet[code]
		rule := run.AddRule(code)
		if family, ok := issues.MatchRuleset(code); ok {
			if linter := issues.RulesetLinter(family); linter != "" {
				rule.WithShortDescription(sarif.NewMultiformatMessageString().WithText(linter))
			}
		}
		if issue.URL != "" {
			rule.WithHelpURI(issue.URL)
		}
	}

	// Add artifacts (files)
	files := make([]string, 0, len(fileSet))
	for file := range fileSet {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		run.AddDistinctArtifact(file)
	}

	// Add results
	for _, issue := range sorted {
		filePath := filepath.ToSlash(issue.Filename)

		result := sarif.NewRuleResult(issue.Code).
			WithMessage(sarif.NewTextMessage(issue.Message)).
			WithLevel(severityToSARIFLevel(issue.Severity))

		// Ruff locations are already 1-based, matching SARIF
		region := sarif.NewRegion().
			WithStartLine(issue.Location.Row)
		if issue.Location.Column > 0 {
			region.WithStartColumn(issue.Location.Column)
		}
		if issue.EndLocation.Row >= issue.Location.Row && issue.EndLocation.Row > 0 {
			region.WithEndLine(issue.EndLocation.Row)
			if issue.EndLocation.Column > 0 {
				region.WithEndColumn(issue.EndLocation.Column)
			}
		}

		physicalLocation := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath)).
			WithRegion(region)

		result.WithLocations([]*sarif.Location{
			sarif.NewLocationWithPhysicalLocation(physicalLocation),
		})

		run.AddResult(result)
	}

	report.AddRun(run)

	// Write with pretty formatting for readability
	return report.PrettyWrite(r.writer)
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

// severityToSARIFLevel maps severity tiers to SARIF levels.
// SARIF uses: "error", "warning", "note", "none"
func severityToSARIFLevel(s issues.Severity) string {
	switch s {
	case issues.SeverityError:
		return sarifLevelError
	case issues.SeverityWarning:
		return sarifLevelWarning
	case issues.SeverityBestPractice, issues.SeverityInfo, issues.SeverityFixed:
		return sarifLevelNote
	default:
		return sarifLevelNote
	}
}
