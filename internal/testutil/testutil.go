// Package testutil provides test helpers for the report pipeline.
package testutil

import (
	"testing"

	"github.com/pyqa/ruffgrade/internal/issues"
)

// MakeIssue builds a classified issue for tests. Severity is derived from
// the code through the rule-family table, matching ingestion behavior.
func MakeIssue(tb testing.TB, code, filename string, row, col int, message string) *issues.Issue {
	tb.Helper()

	return &issues.Issue{
		Code:        code,
		Filename:    filename,
		Message:     message,
		Location:    issues.Location{Row: row, Column: col},
		EndLocation: issues.Location{Row: row, Column: col + 1},
		Severity:    issues.SeverityFor(code),
	}
}

// MakeFixableIssue builds an issue carrying a safe automatic fix.
func MakeFixableIssue(tb testing.TB, code, filename string, row, col int, message string) *issues.Issue {
	tb.Helper()

	issue := MakeIssue(tb, code, filename, row, col, message)
	issue.Fix = &issues.Fix{
		Applicability: issues.ApplicabilitySafe,
		Edit: issues.Edit{
			Location:    issue.Location,
			EndLocation: issue.EndLocation,
		},
		Message: "Apply automatic fix",
	}
	return issue
}

// MakeMapping builds a mapping holding the given issues in order.
func MakeMapping(tb testing.TB, set ...*issues.Issue) *issues.Mapping {
	tb.Helper()

	m := issues.NewMapping()
	for _, issue := range set {
		m.Add(issue)
	}
	return m
}
