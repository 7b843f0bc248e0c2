package reporter

import (
	"cmp"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pyqa/ruffgrade/internal/issues"
	"github.com/pyqa/ruffgrade/internal/quality"
)

// MarkdownReporter formats the graded run as concise markdown tables.
// Designed for PR comments and bots - token-efficient and actionable.
type MarkdownReporter struct {
	writer io.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(w io.Writer) *MarkdownReporter {
	return &MarkdownReporter{writer: w}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(m *issues.Mapping, _ map[string][]byte, summary quality.Summary) error {
	if err := r.writeSummaryLine(m, summary); err != nil {
		return err
	}
	if err := r.writeGradesTable(summary); err != nil {
		return err
	}

	if m.TotalIssues() == 0 {
		return nil
	}

	sorted := SortIssuesBySeverity(m.All())
	if m.TotalFiles() == 1 {
		return r.writeSingleFileTable(sorted)
	}
	return r.writeMultiFileTable(sorted)
}

// writeSummaryLine writes the headline: issue count, where, overall grade.
func (r *MarkdownReporter) writeSummaryLine(m *issues.Mapping, summary quality.Summary) error {
	overall := fmt.Sprintf("(overall %s, %.1f)", summary.Aggregate.Grade, summary.Aggregate.Score)
	switch {
	case m.TotalIssues() == 0:
		_, err := fmt.Fprintf(r.writer, "**No issues found** %s\n", overall)
		return err
	case m.TotalFiles() == 1:
		files, err := m.Keys(issues.DimensionFilename)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(r.writer, "**%d %s** in `%s` %s\n",
			m.TotalIssues(), pluralize(m.TotalIssues(), "issue", "issues"),
			filepath.ToSlash(files[0]), overall)
		return err
	default:
		_, err := fmt.Fprintf(r.writer, "**%d %s** across %d files %s\n",
			m.TotalIssues(), pluralize(m.TotalIssues(), "issue", "issues"),
			m.TotalFiles(), overall)
		return err
	}
}

// writeGradesTable writes the per-file grade table.
func (r *MarkdownReporter) writeGradesTable(summary quality.Summary) error {
	if len(summary.Files) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(r.writer, "\n| File | Grade | Score | Issues |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|-------|-------|--------|"); err != nil {
		return err
	}
	for _, file := range summary.Files {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s | %.1f | %d |\n",
			filepath.ToSlash(file.Path), file.Stats.Grade, file.Stats.Score, file.Stats.Issues); err != nil {
			return err
		}
	}
	return nil
}

// writeSingleFileTable writes a markdown table for issues in a single file.
func (r *MarkdownReporter) writeSingleFileTable(sorted []*issues.Issue) error {
	if _, err := fmt.Fprintln(r.writer, "\n| Line | Issue |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|-------|"); err != nil {
		return err
	}

	for _, issue := range sorted {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s `%s` %s |\n",
			formatLineNumber(issue), severityEmoji(issue.Severity), issue.Code, escapeMarkdown(issue.Message)); err != nil {
			return err
		}
	}

	return nil
}

// writeMultiFileTable writes a markdown table for issues across multiple files.
func (r *MarkdownReporter) writeMultiFileTable(sorted []*issues.Issue) error {
	if _, err := fmt.Fprintln(r.writer, "\n| File | Line | Issue |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|------|-------|"); err != nil {
		return err
	}

	for _, issue := range sorted {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s | %s `%s` %s |\n",
			filepath.ToSlash(issue.Filename), formatLineNumber(issue),
			severityEmoji(issue.Severity), issue.Code, escapeMarkdown(issue.Message)); err != nil {
			return err
		}
	}

	return nil
}

// formatLineNumber returns the display string for an issue's line number.
func formatLineNumber(issue *issues.Issue) string {
	if issue.Location.Row > 0 {
		return strconv.Itoa(issue.Location.Row)
	}
	return "-"
}

// SortIssuesBySeverity sorts issues by severity (errors first), then by file and line.
// Uses stable sort to preserve original order for equal-priority items.
func SortIssuesBySeverity(set []*issues.Issue) []*issues.Issue {
	sorted := slices.Clone(set)
	slices.SortStableFunc(sorted, func(a, b *issues.Issue) int {
		if c := cmp.Compare(int(b.Severity), int(a.Severity)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Filename, b.Filename); c != 0 {
			return c
		}
		return cmp.Compare(a.Location.Row, b.Location.Row)
	})
	return sorted
}

// severityEmoji returns an emoji indicator for the severity tier.
func severityEmoji(s issues.Severity) string {
	switch s {
	case issues.SeverityError:
		return "❌"
	case issues.SeverityWarning:
		return "⚠️"
	case issues.SeverityBestPractice:
		return "💡"
	case issues.SeverityInfo:
		return "ℹ️"
	case issues.SeverityFixed:
		return "🔧"
	case issues.SeverityNull:
		return "❔"
	default:
		return "⚠️"
	}
}

// escapeMarkdown escapes special markdown characters in table cells.
func escapeMarkdown(s string) string {
	// Escape pipe characters which break table formatting
	s = strings.ReplaceAll(s, "|", "\\|")
	// Replace newlines with spaces
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// pluralize returns singular or plural form based on count.
func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
