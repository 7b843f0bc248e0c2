package issues

import (
	"cmp"
	"slices"
)

// Location is a 1-based row/column position in a source file.
// Locations are value types; two locations are equal iff both fields match.
type Location struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Edit is a single textual replacement span proposed by an auto-fix.
type Edit struct {
	Content     string   `json:"content"`
	Location    Location `json:"location"`
	EndLocation Location `json:"end_location"`
}

// Applicability says whether ruff considers a fix safe to apply
// unattended. Values outside the two known constants are preserved
// verbatim rather than rejected.
type Applicability string

const (
	ApplicabilitySafe   Applicability = "safe"
	ApplicabilityUnsafe Applicability = "unsafe"
)

// Fix is an automatic fix proposed for an issue. Ruff may propose several
// edits; ingestion keeps only the first.
type Fix struct {
	Applicability Applicability `json:"applicability"`
	Edit          Edit          `json:"edit"`
	Message       string        `json:"message"`
}

// Issue is one diagnostic reported by ruff, classified into a severity
// tier. Severity is derived from Code via SeverityFor when the issue is
// built and is never supplied by the input record.
type Issue struct {
	Code        string   `json:"code"`
	Filename    string   `json:"filename"`
	Message     string   `json:"message"`
	Location    Location `json:"location"`
	EndLocation Location `json:"end_location"`
	Fix         *Fix     `json:"fix,omitempty"`
	NoqaRow     int      `json:"noqa_row,omitempty"`
	URL         string   `json:"url,omitempty"`
	Cell        string   `json:"cell,omitempty"`
	Severity    Severity `json:"severity"`
}

// HasFix reports whether the issue carries an automatic fix.
func (i *Issue) HasFix() bool {
	return i.Fix != nil
}

// Ruleset returns the rule family the issue's code belongs to, or the
// empty string when the code matches no known family.
func (i *Issue) Ruleset() string {
	family, _ := MatchRuleset(i.Code)
	return family
}

// SortIssues orders issues by filename, then position, then code.
// This is the canonical ordering for rendered listings.
func SortIssues(issues []*Issue) {
	slices.SortStableFunc(issues, func(a, b *Issue) int {
		if c := cmp.Compare(a.Filename, b.Filename); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Location.Row, b.Location.Row); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Location.Column, b.Location.Column); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
}
