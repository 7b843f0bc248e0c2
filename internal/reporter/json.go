package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"
	"slices"

	"github.com/pyqa/ruffgrade/internal/issues"
	"github.com/pyqa/ruffgrade/internal/quality"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains per-file statistics and issues, sorted by path.
	Files []FileResult `json:"files"`
	// Summary is the aggregate quality snapshot for the whole run.
	Summary quality.Statistics `json:"summary"`
	// FilesScanned is the total number of files graded.
	FilesScanned int `json:"files_scanned"`
}

// FileResult contains the graded results for a single file.
type FileResult struct {
	File       string             `json:"file"`
	Statistics quality.Statistics `json:"statistics"`
	Issues     []issues.Issue     `json:"issues"`
}

// JSONReporter formats the graded run as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(m *issues.Mapping, _ map[string][]byte, summary quality.Summary) error {
	output := JSONOutput{
		Files:        make([]FileResult, 0, len(summary.Files)),
		Summary:      summary.Aggregate,
		FilesScanned: len(summary.Files),
	}

	for _, file := range summary.Files {
		fileIssues, err := m.Get(issues.DimensionFilename, file.Path)
		if err != nil {
			return err
		}
		sorted := slices.Clone(fileIssues)
		issues.SortIssues(sorted)

		result := FileResult{
			// Normalize paths to forward slashes for cross-platform consistency
			File:       filepath.ToSlash(file.Path),
			Statistics: file.Stats,
			Issues:     make([]issues.Issue, 0, len(sorted)),
		}
		for _, issue := range sorted {
			copied := *issue
			copied.Filename = filepath.ToSlash(copied.Filename)
			result.Issues = append(result.Issues, copied)
		}
		output.Files = append(output.Files, result)
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
