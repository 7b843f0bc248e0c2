package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pyqa/ruffgrade/internal/issues"
	"github.com/pyqa/ruffgrade/internal/quality"
	"github.com/pyqa/ruffgrade/internal/testutil"
)

func TestGitHubActionsReporter(t *testing.T) {
	m, _, summary := testRun(t)

	var buf bytes.Buffer
	reporter := NewGitHubActionsReporter(&buf)

	if err := reporter.Report(m, nil, summary); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"::error file=src/app.py,line=1,col=8,title=F401::`os` imported but unused",
		"::warning file=src/app.py,line=3,col=10,title=W291::Trailing whitespace",
		"::notice file=src/util.py,line=1,col=1,title=D100::Missing docstring in public module",
	}

	if len(lines) != len(want) {
		t.Fatalf("got %d annotations, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i, line := range lines {
		if line != want[i] {
			t.Errorf("annotation[%d]\n got: %s\nwant: %s", i, line, want[i])
		}
	}
}

func TestGitHubActionsMultiLineRange(t *testing.T) {
	issue := testutil.MakeIssue(t, "E501", "app.py", 2, 1, "Line too long")
	issue.EndLocation = issues.Location{Row: 4, Column: 1}
	m := testutil.MakeMapping(t, issue)

	var buf bytes.Buffer
	reporter := NewGitHubActionsReporter(&buf)

	if err := reporter.Report(m, nil, quality.Summarize(m, nil)); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "endLine=4") {
		t.Errorf("Expected endLine property for multi-line issue, got: %s", output)
	}
}

func TestGitHubActionsEscaping(t *testing.T) {
	issue := testutil.MakeIssue(t, "B006", "app.py", 1, 1, "50% done\nnext")
	m := testutil.MakeMapping(t, issue)

	var buf bytes.Buffer
	reporter := NewGitHubActionsReporter(&buf)

	if err := reporter.Report(m, nil, quality.Summarize(m, nil)); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "::50%25 done%0Anext") {
		t.Errorf("Expected escaped message, got: %s", output)
	}
	if strings.Contains(output, "50% done\nnext") {
		t.Error("Expected raw message to be escaped")
	}
}

func TestSeverityToGitHubLevel(t *testing.T) {
	tests := []struct {
		severity issues.Severity
		want     string
	}{
		{issues.SeverityError, "error"},
		{issues.SeverityWarning, "warning"},
		{issues.SeverityBestPractice, "notice"},
		{issues.SeverityInfo, "notice"},
		{issues.SeverityFixed, "notice"},
		{issues.SeverityNull, "notice"},
	}

	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			if got := severityToGitHubLevel(tt.severity); got != tt.want {
				t.Errorf("severityToGitHubLevel(%v) = %q, want %q", tt.severity, got, tt.want)
			}
		})
	}
}

func TestGitHubActionsSnapshot(t *testing.T) {
	m, _, summary := testRun(t)

	var buf bytes.Buffer
	reporter := NewGitHubActionsReporter(&buf)

	if err := reporter.Report(m, nil, summary); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	testutil.MatchReportSnapshot(t, buf.String(), ".txt")
}
