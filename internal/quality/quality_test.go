package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyqa/ruffgrade/internal/issues"
)

func testIssue(code string) *issues.Issue {
	return &issues.Issue{
		Code:        code,
		Filename:    "mod.py",
		Message:     "message for " + code,
		Location:    issues.Location{Row: 1, Column: 1},
		EndLocation: issues.Location{Row: 1, Column: 2},
		Severity:    issues.SeverityFor(code),
	}
}

func TestScore_CleanFileIsPerfect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, Score(500, 0, 0, 0, 0, 0))
	assert.Equal(t, 100.0, Score(0, 0, 0, 0, 0, 0))
}

func TestScore_WeightedPenalty(t *testing.T) {
	t.Parallel()

	// One error, one warning, one info in 200 lines: weighted 26 over a
	// line factor of 2.
	assert.InDelta(t, 87.0, Score(200, 0, 1, 0, 1, 1), 1e-9)

	// Each tier carries its own weight in 100 lines (line factor 1).
	assert.InDelta(t, 99.0, Score(100, 1, 0, 0, 0, 0), 1e-9)
	assert.InDelta(t, 98.0, Score(100, 0, 1, 0, 0, 0), 1e-9)
	assert.InDelta(t, 96.0, Score(100, 0, 0, 1, 0, 0), 1e-9)
	assert.InDelta(t, 92.0, Score(100, 0, 0, 0, 1, 0), 1e-9)
	assert.InDelta(t, 84.0, Score(100, 0, 0, 0, 0, 1), 1e-9)
}

func TestScore_StrictlyDecreasesPerError(t *testing.T) {
	t.Parallel()

	prev := Score(200, 0, 0, 0, 0, 0)
	for errors := 1; errors <= 50; errors++ {
		got := Score(200, 0, 0, 0, 0, errors)
		assert.Less(t, got, prev, "score must strictly decrease at %d errors", errors)
		prev = got
	}
}

func TestScore_LineScaling(t *testing.T) {
	t.Parallel()

	// The same weighted total (two errors + one warning = 40) hurts a
	// short file far more than a long one.
	assert.InDelta(t, 60.0, Score(100, 0, 0, 0, 1, 2), 1e-9)
	assert.InDelta(t, 96.0, Score(1000, 0, 0, 0, 1, 2), 1e-9)
}

func TestScore_NotClamped(t *testing.T) {
	t.Parallel()

	// Ten errors in ten lines: 100 - 160/0.1 goes far below zero.
	got := Score(10, 0, 0, 0, 0, 10)
	assert.Negative(t, got)
	assert.Equal(t, Grade("F"), GradeFor(got))
}

func TestScore_ZeroLineGuard(t *testing.T) {
	t.Parallel()

	// A degenerate zero-line input behaves like a one-line file instead
	// of dividing by zero.
	assert.InDelta(t, Score(1, 0, 0, 0, 0, 1), Score(0, 0, 0, 0, 0, 1), 1e-9)
}

func TestGradeFor_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  Grade
	}{
		{100.0, "A+"},
		{97.0, "A+"},
		{96.999, "A"},
		{93.0, "A"},
		{90.0, "A-"},
		{89.999, "B+"},
		{87.0, "B+"},
		{83.0, "B"},
		{80.0, "B-"},
		{77.0, "C+"},
		{73.0, "C"},
		{70.0, "C-"},
		{67.0, "D+"},
		{63.0, "D"},
		{60.0, "D-"},
		{59.999, "F"},
		{0.0, "F"},
		{-250.0, "F"},
	}

	for _, tc := range tests {
		t.Run(string(tc.want), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, GradeFor(tc.score))
		})
	}
}

func TestCalculate_EmptySet(t *testing.T) {
	t.Parallel()

	stats := Calculate(500, nil)
	assert.Equal(t, 500, stats.Lines)
	assert.Zero(t, stats.Issues)
	assert.Equal(t, 100.0, stats.Score)
	assert.Equal(t, Grade("A+"), stats.Grade)
	assert.Equal(t, issues.SeverityNoIssues, stats.MaxSeverity)
}

func TestCalculate_CountsAndGrade(t *testing.T) {
	t.Parallel()

	set := []*issues.Issue{
		testIssue("E501"),   // ERROR
		testIssue("ANN001"), // INFO
		testIssue("W291"),   // WARNING
	}

	stats := Calculate(200, set)
	require.Equal(t, 3, stats.Issues)
	assert.Equal(t, 1, stats.Error)
	assert.Equal(t, 1, stats.Warning)
	assert.Equal(t, 1, stats.Info)
	assert.Zero(t, stats.BestPractice)
	assert.Zero(t, stats.Fixed)
	assert.InDelta(t, 87.0, stats.Score, 1e-9)
	assert.Equal(t, Grade("B+"), stats.Grade)
	assert.Equal(t, issues.SeverityError, stats.MaxSeverity)
}

func TestCalculate_UnclassifiedIssuesCarryNoWeight(t *testing.T) {
	t.Parallel()

	set := []*issues.Issue{testIssue("ZZZ1"), testIssue("ZZZ2")}

	stats := Calculate(100, set)
	assert.Equal(t, 2, stats.Issues)
	assert.Equal(t, 100.0, stats.Score, "unclassified issues fall outside every weighted tier")
	assert.Equal(t, issues.SeverityNull, stats.MaxSeverity)
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want int
	}{
		{"empty", "", 1},
		{"no newline", "x = 1", 1},
		{"trailing newline", "x = 1\n", 2},
		{"two lines", "x = 1\ny = 2\n", 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, CountLines([]byte(tc.src)))
		})
	}
}
