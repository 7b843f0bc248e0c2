// Package issues provides the core issue model for ruff diagnostics:
// the severity scale, the rule-family classifier, and the multi-dimension
// issue mapping that reports are built from.
package issues

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity represents the severity tier assigned to an issue.
// Higher values are more severe, so tiers compare directly with <, >
// and can be used as sort keys.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type Severity int

const (
	// SeverityNull marks issues whose rule code matched no known family.
	SeverityNull Severity = iota - 1
	// SeverityNoIssues is the floor tier reported for clean files.
	SeverityNoIssues
	// SeverityFixed marks issues already resolved by ruff's autofix.
	SeverityFixed
	// SeverityInfo marks documentation and annotation nits.
	SeverityInfo
	// SeverityBestPractice marks style and idiom recommendations.
	SeverityBestPractice
	// SeverityWarning marks likely-bug and hygiene findings.
	SeverityWarning
	// SeverityError marks findings that indicate broken code.
	SeverityError
)

// String returns the canonical uppercase name of the severity. These names
// double as the keys of the severity dimension in a Mapping.
func (s Severity) String() string {
	switch s {
	case SeverityNull:
		return "NULL"
	case SeverityNoIssues:
		return "NO_ISSUES"
	case SeverityFixed:
		return "FIXED"
	case SeverityInfo:
		return "INFO"
	case SeverityBestPractice:
		return "BEST_PRACTICE"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Label returns the human-readable form used in rendered reports.
func (s Severity) Label() string {
	switch s {
	case SeverityNull:
		return "Unclassified"
	case SeverityNoIssues:
		return "No Issues"
	case SeverityFixed:
		return "Fixed"
	case SeverityInfo:
		return "Info"
	case SeverityBestPractice:
		return "Best Practice"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "Unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
// Pointer receiver required by json.Unmarshaler interface.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a severity name into a Severity value.
// Matching is case-insensitive and accepts both canonical names and the
// human labels ("best practice" == "BEST_PRACTICE").
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "NULL", "UNCLASSIFIED":
		return SeverityNull, nil
	case "NO_ISSUES":
		return SeverityNoIssues, nil
	case "FIXED":
		return SeverityFixed, nil
	case "INFO":
		return SeverityInfo, nil
	case "BEST_PRACTICE":
		return SeverityBestPractice, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "ERROR":
		return SeverityError, nil
	default:
		return SeverityNull, fmt.Errorf("unknown severity: %q", s)
	}
}

// IsMoreSevereThan returns true if s is strictly more severe than other.
func (s Severity) IsMoreSevereThan(other Severity) bool {
	return s > other
}

// IsAtLeast returns true if s is at least as severe as threshold.
func (s Severity) IsAtLeast(threshold Severity) bool {
	return s >= threshold
}

// Severities lists the issue-bearing tiers from most to least severe.
// The floor tiers (NO_ISSUES, NULL) are excluded: NULL only appears when a
// code matches no family, and NO_ISSUES never labels an issue.
func Severities() []Severity {
	return []Severity{
		SeverityError,
		SeverityWarning,
		SeverityBestPractice,
		SeverityInfo,
		SeverityFixed,
	}
}
