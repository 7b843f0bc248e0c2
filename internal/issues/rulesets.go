package issues

import (
	"maps"
	"slices"
)

// maxRulesetPrefix is the longest code prefix the matcher considers.
const maxRulesetPrefix = 3

type rulesetInfo struct {
	severity Severity
	linter   string
}

// rulesets maps each known rule-family prefix to its severity tier and the
// upstream linter the family comes from. Families longer than three
// characters (ASYNC, COMP, FAST, SLOT, PERF, FURB) are shadowed by shorter
// prefixes in MatchRuleset and are kept here for the family listing only.
var rulesets = map[string]rulesetInfo{
	// BEGIN RUFF_LINTERS (scripts/sync-ruff-rulesets)
	"A":     {SeverityError, "flake8-builtins"},
	"AIR":   {SeverityBestPractice, "Airflow"},
	"ANN":   {SeverityInfo, "flake8-annotations"},
	"ARG":   {SeverityWarning, "flake8-unused-arguments"},
	"ASYNC": {SeverityWarning, "flake8-async"},
	"B":     {SeverityWarning, "flake8-bugbear"},
	"BLE":   {SeverityBestPractice, "flake8-blind-except"},
	"C":     {SeverityBestPractice, "mccabe"},
	"COM":   {SeverityInfo, "flake8-commas"},
	"COMP":  {SeverityBestPractice, "flake8-comprehensions"},
	"D":     {SeverityInfo, "pydocstyle"},
	"DJ":    {SeverityBestPractice, "flake8-django"},
	"DOC":   {SeverityBestPractice, "pydoclint"},
	"DTZ":   {SeverityBestPractice, "flake8-datetimez"},
	"E":     {SeverityError, "pycodestyle errors"},
	"EM":    {SeverityWarning, "flake8-errmsg"},
	"ERA":   {SeverityWarning, "eradicate"},
	"EXE":   {SeverityWarning, "flake8-executable"},
	"F":     {SeverityError, "Pyflakes"},
	"FA":    {SeverityBestPractice, "flake8-future-annotations"},
	"FAST":  {SeverityBestPractice, "FastAPI"},
	"FBT":   {SeverityBestPractice, "flake8-boolean-trap"},
	"FIX":   {SeverityWarning, "flake8-fixme"},
	"FLY":   {SeverityBestPractice, "flynt"},
	"FURB":  {SeverityBestPractice, "refurb"},
	"G":     {SeverityBestPractice, "flake8-logging-format"},
	"I":     {SeverityBestPractice, "isort"},
	"ICN":   {SeverityBestPractice, "flake8-import-conventions"},
	"INP":   {SeverityError, "flake8-no-pep420"},
	"INT":   {SeverityBestPractice, "flake8-gettext"},
	"ISC":   {SeverityWarning, "flake8-implicit-str-concat"},
	"LOG":   {SeverityBestPractice, "flake8-logging"},
	"N":     {SeverityBestPractice, "pep8-naming"},
	"NPY":   {SeverityBestPractice, "NumPy-specific rules"},
	"PD":    {SeverityBestPractice, "pandas-vet"},
	"PERF":  {SeverityBestPractice, "Perflint"},
	"PGH":   {SeverityBestPractice, "pygrep-hooks"},
	"PIE":   {SeverityBestPractice, "flake8-pie"},
	"PL":    {SeverityBestPractice, "Pylint"},
	"PLC":   {SeverityBestPractice, "Pylint conventions"},
	"PLE":   {SeverityError, "Pylint errors"},
	"PLW":   {SeverityWarning, "Pylint warnings"},
	"PT":    {SeverityBestPractice, "flake8-pytest-style"},
	"PTH":   {SeverityBestPractice, "flake8-use-pathlib"},
	"PYI":   {SeverityBestPractice, "flake8-pyi"},
	"Q":     {SeverityBestPractice, "flake8-quotes"},
	"R":     {SeverityBestPractice, "Pylint refactoring"},
	"RET":   {SeverityBestPractice, "flake8-return"},
	"RSE":   {SeverityWarning, "flake8-raise"},
	"RUF":   {SeverityBestPractice, "Ruff-specific rules"},
	"S":     {SeverityWarning, "flake8-bandit"},
	"SIM":   {SeverityBestPractice, "flake8-simplify"},
	"SLF":   {SeverityBestPractice, "flake8-self"},
	"SLOT":  {SeverityBestPractice, "flake8-slots"},
	"T10":   {SeverityError, "flake8-debugger"},
	"T20":   {SeverityError, "flake8-print"},
	"TC":    {SeverityBestPractice, "flake8-type-checking"},
	"TD":    {SeverityWarning, "flake8-todos"},
	"TID":   {SeverityBestPractice, "flake8-tidy-imports"},
	"TRY":   {SeverityBestPractice, "tryceratops"},
	"U":     {SeverityBestPractice, "pyupgrade"},
	"W":     {SeverityWarning, "pycodestyle warnings"},
	"YTT":   {SeverityWarning, "flake8-2020"},
	// END RUFF_LINTERS
}

// MatchRuleset resolves the rule family for a code by longest-prefix match,
// trying prefixes of length three, then two, then one. Codes shorter than
// three characters are matched at their full length first. The second return
// is false when no known family matches.
func MatchRuleset(code string) (string, bool) {
	for length := min(maxRulesetPrefix, len(code)); length > 0; length-- {
		prefix := code[:length]
		if _, ok := rulesets[prefix]; ok {
			return prefix, true
		}
	}
	return "", false
}

// SeverityFor returns the severity tier of the family matched by code, or
// SeverityNull when no family matches.
func SeverityFor(code string) Severity {
	family, ok := MatchRuleset(code)
	if !ok {
		return SeverityNull
	}
	return rulesets[family].severity
}

// Rulesets returns every known family prefix in sorted order.
func Rulesets() []string {
	return slices.Sorted(maps.Keys(rulesets))
}

// RulesetSeverity returns the severity tier registered for an exact family
// prefix. The second return is false for unknown prefixes.
func RulesetSeverity(prefix string) (Severity, bool) {
	info, ok := rulesets[prefix]
	if !ok {
		return SeverityNull, false
	}
	return info.severity, true
}

// RulesetLinter returns the name of the upstream linter behind a family
// prefix, or the empty string for unknown prefixes.
func RulesetLinter(prefix string) string {
	return rulesets[prefix].linter
}
