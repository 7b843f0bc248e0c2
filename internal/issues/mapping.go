package issues

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Dimension names one of the five lookup indexes a Mapping maintains.
type Dimension string

const (
	// DimensionFilename indexes issues by the file they were reported in.
	DimensionFilename Dimension = "filename"
	// DimensionRuleset indexes issues by matched rule family; issues whose
	// code matches no family are filed under the empty key.
	DimensionRuleset Dimension = "ruleset"
	// DimensionCode indexes issues by exact rule code.
	DimensionCode Dimension = "code"
	// DimensionSeverity indexes issues by canonical severity name.
	DimensionSeverity Dimension = "severity"
	// DimensionFix indexes fixable issues by fix applicability; issues
	// without a fix are absent from this index.
	DimensionFix Dimension = "fix"
)

// Dimensions lists the queryable dimensions in canonical order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionFilename,
		DimensionRuleset,
		DimensionCode,
		DimensionSeverity,
		DimensionFix,
	}
}

// ParseDimension validates a dimension name, case-insensitively.
func ParseDimension(s string) (Dimension, error) {
	dim := Dimension(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Dimensions(), dim) {
		return "", &InvalidDimensionError{Dimension: s}
	}
	return dim, nil
}

// InvalidDimensionError reports a query against a dimension the mapping does
// not index. This is a programmer error, not a data-quality problem, so it
// surfaces immediately instead of degrading to an empty result.
type InvalidDimensionError struct {
	Dimension string
}

func (e *InvalidDimensionError) Error() string {
	names := make([]string, 0, len(Dimensions()))
	for _, dim := range Dimensions() {
		names = append(names, string(dim))
	}
	return fmt.Sprintf("invalid issue dimension %q (valid: %s)", e.Dimension, strings.Join(names, ", "))
}

// dimensionIndex is one key -> arena-slot index. Keys keep first-seen
// insertion order; slot lists keep arena order, so every query over the
// index is deterministic.
type dimensionIndex struct {
	order []string
	slots map[string][]int
}

func newDimensionIndex() dimensionIndex {
	return dimensionIndex{slots: make(map[string][]int)}
}

func (ix *dimensionIndex) add(key string, slot int) {
	if _, ok := ix.slots[key]; !ok {
		ix.order = append(ix.order, key)
	}
	ix.slots[key] = append(ix.slots[key], slot)
}

// Mapping owns the full set of ingested issues and five auxiliary indexes
// over them (filename, ruleset, code, severity, fix applicability). Issues
// live in an append-only arena and the indexes reference them by slot, so
// two structurally identical issues remain distinct entries.
//
// A Mapping is populated by one writer and then queried freely; it is not
// safe for concurrent mutation.
type Mapping struct {
	arena      []*Issue
	byFilename dimensionIndex
	byRuleset  dimensionIndex
	byCode     dimensionIndex
	bySeverity dimensionIndex
	byFix      dimensionIndex
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{
		byFilename: newDimensionIndex(),
		byRuleset:  newDimensionIndex(),
		byCode:     newDimensionIndex(),
		bySeverity: newDimensionIndex(),
		byFix:      newDimensionIndex(),
	}
}

// Add inserts an issue into the arena and every applicable index.
func (m *Mapping) Add(issue *Issue) {
	slot := len(m.arena)
	m.arena = append(m.arena, issue)

	family, _ := MatchRuleset(issue.Code)
	m.byFilename.add(issue.Filename, slot)
	m.byRuleset.add(family, slot)
	m.byCode.add(issue.Code, slot)
	m.bySeverity.add(issue.Severity.String(), slot)
	if issue.Fix != nil {
		m.byFix.add(string(issue.Fix.Applicability), slot)
	}
}

func (m *Mapping) index(dim Dimension) (*dimensionIndex, error) {
	switch dim {
	case DimensionFilename:
		return &m.byFilename, nil
	case DimensionRuleset:
		return &m.byRuleset, nil
	case DimensionCode:
		return &m.byCode, nil
	case DimensionSeverity:
		return &m.bySeverity, nil
	case DimensionFix:
		return &m.byFix, nil
	default:
		return nil, &InvalidDimensionError{Dimension: string(dim)}
	}
}

func (m *Mapping) resolve(slots []int) []*Issue {
	issues := make([]*Issue, len(slots))
	for i, slot := range slots {
		issues[i] = m.arena[slot]
	}
	return issues
}

// Get returns the issues filed under key in the named dimension, in
// insertion order. An unknown key yields an empty slice; only an unknown
// dimension is an error.
func (m *Mapping) Get(dim Dimension, key string) ([]*Issue, error) {
	ix, err := m.index(dim)
	if err != nil {
		return nil, err
	}
	return m.resolve(ix.slots[key]), nil
}

// GetMany looks the same key up in several dimensions at once and returns
// one result set per dimension, preserving dimension order. It is a
// parallel lookup, not an intersection. Any unknown dimension fails the
// whole call.
func (m *Mapping) GetMany(dims []Dimension, key string) ([][]*Issue, error) {
	results := make([][]*Issue, 0, len(dims))
	for _, dim := range dims {
		issues, err := m.Get(dim, key)
		if err != nil {
			return nil, err
		}
		results = append(results, issues)
	}
	return results, nil
}

// Iter returns a restartable sequence over the dimension's keys in
// first-seen order, each paired with its issues in insertion order.
func (m *Mapping) Iter(dim Dimension) (iter.Seq2[string, []*Issue], error) {
	ix, err := m.index(dim)
	if err != nil {
		return nil, err
	}
	return func(yield func(string, []*Issue) bool) {
		for _, key := range ix.order {
			if !yield(key, m.resolve(ix.slots[key])) {
				return
			}
		}
	}, nil
}

// Keys returns the dimension's keys in first-seen insertion order.
func (m *Mapping) Keys(dim Dimension) ([]string, error) {
	ix, err := m.index(dim)
	if err != nil {
		return nil, err
	}
	return slices.Clone(ix.order), nil
}

// All returns every ingested issue in insertion order.
func (m *Mapping) All() []*Issue {
	return slices.Clone(m.arena)
}

// Len returns the number of ingested issues.
func (m *Mapping) Len() int {
	return len(m.arena)
}

// TotalIssues returns the number of ingested issues.
func (m *Mapping) TotalIssues() int {
	return len(m.arena)
}

// TotalFiles returns the number of distinct filenames seen.
func (m *Mapping) TotalFiles() int {
	return len(m.byFilename.order)
}

func (m *Mapping) severityCount(sev Severity) int {
	return len(m.bySeverity.slots[sev.String()])
}

// TotalErrors returns the number of ERROR-tier issues.
func (m *Mapping) TotalErrors() int {
	return m.severityCount(SeverityError)
}

// TotalWarnings returns the number of WARNING-tier issues.
func (m *Mapping) TotalWarnings() int {
	return m.severityCount(SeverityWarning)
}

// TotalBestPractice returns the number of BEST_PRACTICE-tier issues.
func (m *Mapping) TotalBestPractice() int {
	return m.severityCount(SeverityBestPractice)
}

// TotalInfo returns the number of INFO-tier issues.
func (m *Mapping) TotalInfo() int {
	return m.severityCount(SeverityInfo)
}

// TotalFixed returns the number of issues carrying an automatic fix.
func (m *Mapping) TotalFixed() int {
	total := 0
	for _, slots := range m.byFix.slots {
		total += len(slots)
	}
	return total
}

// HighestSeverity returns the most severe tier present, or SeverityNull
// for an empty mapping.
func (m *Mapping) HighestSeverity() Severity {
	highest := SeverityNull
	for _, key := range m.bySeverity.order {
		sev, err := ParseSeverity(key)
		if err == nil && sev.IsMoreSevereThan(highest) {
			highest = sev
		}
	}
	return highest
}
