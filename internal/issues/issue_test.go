package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssue_HasFix(t *testing.T) {
	t.Parallel()

	assert.False(t, testIssue("E501", "a.py", 1).HasFix())
	assert.True(t, fixableIssue("W291", "a.py", ApplicabilitySafe).HasFix())
}

func TestIssue_Ruleset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PLE", testIssue("PLE001", "a.py", 1).Ruleset())
	assert.Equal(t, "E", testIssue("E501", "a.py", 1).Ruleset())
	assert.Empty(t, testIssue("ZZZ1", "a.py", 1).Ruleset())
}

func TestSortIssues(t *testing.T) {
	t.Parallel()

	a := testIssue("E501", "b.py", 3)
	b := testIssue("W291", "a.py", 9)
	c := testIssue("F401", "a.py", 2)
	d := testIssue("ANN001", "a.py", 2)
	d.Location.Column = 7

	issues := []*Issue{a, b, c, d}
	SortIssues(issues)

	// Filename first, then row, then column, then code.
	assert.Equal(t, []*Issue{c, d, b, a}, issues)
}

func TestSortIssues_StableForEqualPositions(t *testing.T) {
	t.Parallel()

	first := testIssue("E501", "a.py", 1)
	second := testIssue("E501", "a.py", 1)

	issues := []*Issue{first, second}
	SortIssues(issues)
	assert.Same(t, first, issues[0])
	assert.Same(t, second, issues[1])
}
