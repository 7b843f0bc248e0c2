package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pyqa/ruffgrade/internal/issues"
	"github.com/pyqa/ruffgrade/internal/quality"
)

// GitHubActionsReporter formats issues as GitHub Actions workflow commands.
// These commands appear as annotations in the GitHub Actions UI.
//
// Format: ::{level} file={file},line={line},col={col}::{message}
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(m *issues.Mapping, _ map[string][]byte, _ quality.Summary) error {
	sorted := slices.Clone(m.All())
	issues.SortIssues(sorted)

	for _, issue := range sorted {
		level := severityToGitHubLevel(issue.Severity)

		// Normalize file path to forward slashes for consistent output
		filePath := filepath.ToSlash(issue.Filename)

		// Build the annotation
		// Format: ::{level} file={file},line={line},col={col},title={title}::{message}
		var parts []string
		parts = append(parts, "file="+escapeGitHubProperty(filePath))

		if issue.Location.Row > 0 {
			parts = append(parts, fmt.Sprintf("line=%d", issue.Location.Row))
			if issue.Location.Column > 0 {
				// Ruff columns are already 1-based
				parts = append(parts, fmt.Sprintf("col=%d", issue.Location.Column))
			}
			if issue.EndLocation.Row > issue.Location.Row {
				parts = append(parts, fmt.Sprintf("endLine=%d", issue.EndLocation.Row))
			}
		}

		// Add rule code as title
		parts = append(parts, "title="+escapeGitHubProperty(issue.Code))

		// Escape message (newlines not allowed in workflow commands)
		message := escapeGitHubMessage(issue.Message)

		if _, err := fmt.Fprintf(r.writer, "::%s %s::%s\n",
			level,
			strings.Join(parts, ","),
			message,
		); err != nil {
			return err
		}
	}

	return nil
}

// GitHub Actions annotation levels.
const (
	ghLevelError   = "error"
	ghLevelWarning = "warning"
	ghLevelNotice  = "notice"
)

// severityToGitHubLevel maps severity tiers to GitHub Actions levels.
// GitHub supports: "error", "warning", "notice", "debug"
func severityToGitHubLevel(s issues.Severity) string {
	switch s {
	case issues.SeverityError:
		return ghLevelError
	case issues.SeverityWarning:
		return ghLevelWarning
	case issues.SeverityBestPractice, issues.SeverityInfo, issues.SeverityFixed:
		return ghLevelNotice
	default:
		return ghLevelNotice
	}
}

// escapeGitHubMessage escapes special characters in GitHub Actions workflow command messages.
// Messages use escapeData() rules which escape "%", "\r", "\n" but NOT ":" or ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeGitHubProperty escapes special characters in GitHub Actions workflow command properties.
// Properties (file, title, etc.) use escapeProperty() rules which escape "%", "\r", "\n", ":", and ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubProperty(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
