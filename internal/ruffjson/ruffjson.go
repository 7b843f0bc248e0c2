// Package ruffjson loads the JSON diagnostics emitted by
// `ruff check --output-format json` and turns them into classified issues.
package ruffjson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pyqa/ruffgrade/internal/issues"
)

// Record mirrors one diagnostic object in ruff's JSON output. Required
// fields are pointers so absence is distinguishable from zero values.
type Record struct {
	Cell        *string          `json:"cell"`
	Code        *string          `json:"code"`
	EndLocation *issues.Location `json:"end_location"`
	Filename    *string          `json:"filename"`
	Fix         *RecordFix       `json:"fix"`
	Location    *issues.Location `json:"location"`
	Message     *string          `json:"message"`
	NoqaRow     *int             `json:"noqa_row"`
	URL         *string          `json:"url"`
}

// RecordFix mirrors the fix payload of a diagnostic record.
type RecordFix struct {
	Applicability string       `json:"applicability"`
	Edits         []RecordEdit `json:"edits"`
	Message       string       `json:"message"`
}

// RecordEdit mirrors one proposed edit within a fix payload.
type RecordEdit struct {
	Content     string          `json:"content"`
	EndLocation issues.Location `json:"end_location"`
	Location    issues.Location `json:"location"`
}

// MissingFieldError reports a diagnostic record lacking a required field.
// It is fatal for that single record only.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("diagnostic record is missing required field %q", e.Field)
}

// MalformedFixError reports a fix payload that proposes no edits. The
// affected record is rejected rather than silently losing its fix.
type MalformedFixError struct {
	Code string
}

func (e *MalformedFixError) Error() string {
	return fmt.Sprintf("fix for %s proposes no edits", e.Code)
}

// Decode reads a full ruff JSON report from r.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode ruff report: %w", err)
	}
	return records, nil
}

// Load reads and decodes the ruff JSON report at path.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ruff report: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// FromRecord converts one raw record into a classified Issue. It is a pure
// transformation: severity comes from the rule-family table and no I/O
// happens here.
func FromRecord(rec *Record) (*issues.Issue, error) {
	switch {
	case rec.Code == nil:
		return nil, &MissingFieldError{Field: "code"}
	case rec.Location == nil:
		return nil, &MissingFieldError{Field: "location"}
	case rec.EndLocation == nil:
		return nil, &MissingFieldError{Field: "end_location"}
	case rec.Filename == nil:
		return nil, &MissingFieldError{Field: "filename"}
	case rec.Message == nil:
		return nil, &MissingFieldError{Field: "message"}
	}

	issue := &issues.Issue{
		Code:        *rec.Code,
		Filename:    *rec.Filename,
		Message:     *rec.Message,
		Location:    *rec.Location,
		EndLocation: *rec.EndLocation,
		Severity:    issues.SeverityFor(*rec.Code),
	}
	if rec.URL != nil {
		issue.URL = *rec.URL
	}
	if rec.NoqaRow != nil {
		issue.NoqaRow = *rec.NoqaRow
	}
	if rec.Cell != nil {
		issue.Cell = *rec.Cell
	}

	if rec.Fix != nil {
		if len(rec.Fix.Edits) == 0 {
			return nil, &MalformedFixError{Code: issue.Code}
		}
		// Ruff may propose several edits; only the first is kept.
		first := rec.Fix.Edits[0]
		issue.Fix = &issues.Fix{
			Applicability: issues.Applicability(rec.Fix.Applicability),
			Edit: issues.Edit{
				Content:     first.Content,
				Location:    first.Location,
				EndLocation: first.EndLocation,
			},
			Message: rec.Fix.Message,
		}
	}

	return issue, nil
}

// Collect builds the issue mapping from a decoded batch. Malformed records
// are skipped with a warning so one bad diagnostic never aborts a report;
// the count of skipped records is returned alongside the mapping. An empty
// batch is valid and produces an empty, perfect-score mapping.
func Collect(records []Record) (*issues.Mapping, int) {
	mapping := issues.NewMapping()
	skipped := 0
	for i := range records {
		issue, err := FromRecord(&records[i])
		if err != nil {
			logrus.WithField("record", i).WithError(err).Warn("skipping malformed diagnostic")
			skipped++
			continue
		}
		if issue.Severity == issues.SeverityNull {
			logrus.WithField("code", issue.Code).Warn("unable to identify ruleset, verify the rule-family table is up to date")
		}
		mapping.Add(issue)
	}
	return mapping, skipped
}
