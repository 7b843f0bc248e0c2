// Package quality turns issue counts into deterministic quality scores
// and letter grades.
package quality

import (
	"bytes"

	"github.com/pyqa/ruffgrade/internal/issues"
)

// lineScalingFactor spreads the penalty over source size so large files
// are not over-penalized relative to small ones.
const lineScalingFactor = 100.0

// Per-issue weights by severity tier.
const (
	weightFixed        = 1
	weightInfo         = 2
	weightBestPractice = 4
	weightWarning      = 8
	weightError        = 16
)

// Grade is a letter grade between "A+" and "F".
type Grade string

// gradeScale maps minimum scores to letter grades, highest first.
// Anything below the last step is an F.
var gradeScale = []struct {
	minimum float64
	grade   Grade
}{
	{97.0, "A+"},
	{93.0, "A"},
	{90.0, "A-"},
	{87.0, "B+"},
	{83.0, "B"},
	{80.0, "B-"},
	{77.0, "C+"},
	{73.0, "C"},
	{70.0, "C-"},
	{67.0, "D+"},
	{63.0, "D"},
	{60.0, "D-"},
}

// Score rates code quality from the number of issues at each severity tier
// relative to the number of source lines. A clean file scores 100.0. The
// result is not clamped: enough findings in a short file push it below
// zero, which still grades as F.
func Score(lines, fixed, info, bestPractice, warnings, errors int) float64 {
	if fixed+info+bestPractice+warnings+errors == 0 {
		return 100.0
	}
	lineFactor := float64(max(lines, 1)) / lineScalingFactor
	weighted := errors*weightError +
		warnings*weightWarning +
		bestPractice*weightBestPractice +
		info*weightInfo +
		fixed*weightFixed
	return 100.0 - float64(weighted)/lineFactor
}

// GradeFor converts a score to its letter grade. Boundaries are inclusive:
// exactly 90.0 is an A-, anything below is a B+ at best.
func GradeFor(score float64) Grade {
	for _, step := range gradeScale {
		if score >= step.minimum {
			return step.grade
		}
	}
	return "F"
}

// Statistics is a read-only quality snapshot for one file or for a whole
// run. Score and Grade are computed when the snapshot is built and never
// recomputed.
type Statistics struct {
	Lines        int             `json:"lines"`
	Issues       int             `json:"issues"`
	Fixed        int             `json:"fixed"`
	Info         int             `json:"info"`
	BestPractice int             `json:"best_practice"`
	Warning      int             `json:"warning"`
	Error        int             `json:"error"`
	Score        float64         `json:"score"`
	Grade        Grade           `json:"grade"`
	MaxSeverity  issues.Severity `json:"max_severity"`
}

// Calculate builds the quality snapshot for a set of issues found in
// source spanning the given number of lines. Issues whose severity matched
// no known family count toward the total but carry no score weight.
func Calculate(lines int, issueSet []*issues.Issue) Statistics {
	stats := Statistics{
		Lines:       lines,
		Issues:      len(issueSet),
		MaxSeverity: issues.SeverityNoIssues,
	}
	for i, issue := range issueSet {
		switch issue.Severity {
		case issues.SeverityFixed:
			stats.Fixed++
		case issues.SeverityInfo:
			stats.Info++
		case issues.SeverityBestPractice:
			stats.BestPractice++
		case issues.SeverityWarning:
			stats.Warning++
		case issues.SeverityError:
			stats.Error++
		}
		if i == 0 || issue.Severity.IsMoreSevereThan(stats.MaxSeverity) {
			stats.MaxSeverity = issue.Severity
		}
	}
	stats.Score = Score(stats.Lines, stats.Fixed, stats.Info, stats.BestPractice, stats.Warning, stats.Error)
	stats.Grade = GradeFor(stats.Score)
	return stats
}

// CountLines counts the lines of a source file, including the final line
// even when formatting leaves it empty.
func CountLines(src []byte) int {
	return bytes.Count(src, []byte("\n")) + 1
}
