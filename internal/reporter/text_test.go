package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pyqa/ruffgrade/internal/issues"
	"github.com/pyqa/ruffgrade/internal/quality"
	"github.com/pyqa/ruffgrade/internal/testutil"
)

func plainTextReporter(showSource bool) *TextReporter {
	noColor := false
	return NewTextReporter(TextOptions{
		Color:           &noColor,
		SyntaxHighlight: false,
		ShowSource:      showSource,
	})
}

func TestTextReporterPlain(t *testing.T) {
	m, sources, summary := testRun(t)

	var buf bytes.Buffer
	r := plainTextReporter(true)
	if err := r.Print(&buf, m, sources, summary); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"ERROR: F401 - https://docs.astral.sh/ruff/rules/unused-import",
		"`os` imported but unused",
		"fix available (safe)",
		"WARNING: W291",
		"INFO: D100",
		"src/app.py:1",
		">>>",
		"3 issues in 2 files (1 errors, 1 warnings, 0 best practice, 1 info, 1 fixable)",
		"Grade F (-225.0)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestTextReporterOrdersByFile(t *testing.T) {
	m, sources, summary := testRun(t)

	var buf bytes.Buffer
	r := plainTextReporter(false)
	if err := r.Print(&buf, m, sources, summary); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	output := buf.String()
	f401 := strings.Index(output, "F401")
	w291 := strings.Index(output, "W291")
	d100 := strings.Index(output, "D100")
	if f401 == -1 || w291 == -1 || d100 == -1 {
		t.Fatalf("expected all three codes in output:\n%s", output)
	}
	if !(f401 < w291 && w291 < d100) {
		t.Errorf("expected file/position order F401 < W291 < D100, got %d/%d/%d", f401, w291, d100)
	}
}

func TestTextReporterNoSource(t *testing.T) {
	m, sources, summary := testRun(t)

	var buf bytes.Buffer
	r := plainTextReporter(false)
	if err := r.Print(&buf, m, sources, summary); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	output := buf.String()
	if strings.Contains(output, ">>>") {
		t.Errorf("expected no source snippet markers:\n%s", output)
	}
	if strings.Contains(output, "--------------------") {
		t.Errorf("expected no snippet separators:\n%s", output)
	}
}

func TestTextReporterEmpty(t *testing.T) {
	m := issues.NewMapping()
	summary := quality.Summarize(m, nil)

	var buf bytes.Buffer
	r := plainTextReporter(true)
	if err := r.Print(&buf, m, nil, summary); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "No issues found") {
		t.Errorf("expected clean-run message:\n%s", output)
	}
	if !strings.Contains(output, "Grade A+ (100.0)") {
		t.Errorf("expected perfect grade line:\n%s", output)
	}
}

func TestTextReporterSnippetBounds(t *testing.T) {
	// Row beyond the source must not print a snippet or panic.
	issue := testutil.MakeIssue(t, "E501", "short.py", 99, 1, "Line too long")
	m := testutil.MakeMapping(t, issue)
	sources := map[string][]byte{"short.py": []byte("x = 1\n")}
	summary := quality.Summarize(m, sources)

	var buf bytes.Buffer
	r := plainTextReporter(true)
	if err := r.Print(&buf, m, sources, summary); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	output := buf.String()
	if strings.Contains(output, ">>>") {
		t.Errorf("expected no snippet for out-of-bounds row:\n%s", output)
	}
	if !strings.Contains(output, "ERROR: E501") {
		t.Errorf("header should still be printed:\n%s", output)
	}
}

func TestLineInRange(t *testing.T) {
	tests := []struct {
		name             string
		line, start, end int
		want             bool
	}{
		{"inside", 3, 2, 4, true},
		{"at start", 2, 2, 4, true},
		{"at end", 4, 2, 4, true},
		{"before", 1, 2, 4, false},
		{"after", 5, 2, 4, false},
		{"collapsed end", 2, 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lineInRange(tt.line, tt.start, tt.end); got != tt.want {
				t.Errorf("lineInRange(%d, %d, %d) = %v, want %v", tt.line, tt.start, tt.end, got, tt.want)
			}
		})
	}
}
