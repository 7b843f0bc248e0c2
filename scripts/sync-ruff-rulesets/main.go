package main

import (
	"bytes"
	"cmp"
	"encoding/json/v2"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
)

const (
	lintersPath  = "internal/issues/ruff-linters.json"
	rulesetsPath = "internal/issues/rulesets.go"
	docsPath     = "RULESETS.md"

	codeBeginMarker = "\t// BEGIN RUFF_LINTERS (scripts/sync-ruff-rulesets)"
	codeEndMarker   = "\t// END RUFF_LINTERS"

	docsBeginMarker = "<!-- BEGIN RULESET_TABLE -->"
	docsEndMarker   = "<!-- END RULESET_TABLE -->"
)

// linterEntry is one row of the vendored linter index. The index is the
// single source for the rulesets map and the docs table; edit it and run
// --update rather than touching either output by hand.
type linterEntry struct {
	Prefix   string `json:"prefix"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

// severityIdents maps index severity strings to issues.Severity identifiers.
var severityIdents = map[string]string{
	"error":         "SeverityError",
	"warning":       "SeverityWarning",
	"best-practice": "SeverityBestPractice",
	"info":          "SeverityInfo",
}

func main() {
	targets, err := parseTargets()
	if err != nil {
		fatalf("%v", err)
	}
	if !targets.code && !targets.docs {
		fmt.Fprintln(os.Stderr, "Nothing to do: use --update/--check or their per-file variants")
		os.Exit(2)
	}

	if err := run(targets); err != nil {
		fatalf("%v", err)
	}
}

type runMode int

const (
	modeUpdate runMode = iota
	modeCheck
)

type targets struct {
	mode runMode
	code bool
	docs bool
}

func parseTargets() (targets, error) {
	update := flag.Bool("update", false, "Update rulesets.go and RULESETS.md in place")
	updateCode := flag.Bool("update-code", false, "Update the rulesets map in rulesets.go in place")
	updateDocs := flag.Bool("update-docs", false, "Update the RULESETS.md table in place")

	check := flag.Bool("check", false, "Verify rulesets.go / RULESETS.md are up to date (no changes)")
	checkCode := flag.Bool("check-code", false, "Verify the rulesets map is up to date (no changes)")
	checkDocs := flag.Bool("check-docs", false, "Verify the RULESETS.md table is up to date (no changes)")
	flag.Parse()

	checkRequested := *check || *checkCode || *checkDocs
	updateRequested := *update || *updateCode || *updateDocs
	if checkRequested && updateRequested {
		return targets{}, errors.New("cannot combine --update* and --check* flags")
	}

	mode := modeUpdate
	if checkRequested {
		mode = modeCheck
	}

	if *update || *check {
		*updateCode = true
		*updateDocs = true
	}

	return targets{
		mode: mode,
		code: *updateCode || *checkCode,
		docs: *updateDocs || *checkDocs,
	}, nil
}

func run(targets targets) error {
	entries, err := readLinters(lintersPath)
	if err != nil {
		return fmt.Errorf("failed to read linter index: %w", err)
	}

	if targets.code {
		if err := applyOrCheck(
			targets.mode,
			rulesetsPath,
			codeBeginMarker,
			codeEndMarker,
			renderGoBlock(entries),
			"go run ./scripts/sync-ruff-rulesets --update-code",
		); err != nil {
			return err
		}
	}

	if targets.docs {
		if err := applyOrCheck(
			targets.mode,
			docsPath,
			docsBeginMarker,
			docsEndMarker,
			renderDocsTable(entries),
			"go run ./scripts/sync-ruff-rulesets --update-docs",
		); err != nil {
			return err
		}
	}

	return nil
}

func applyOrCheck(mode runMode, path, beginMarker, endMarker, newContent, fixCmd string) error {
	switch mode {
	case modeUpdate:
		if err := replaceBetweenMarkers(path, beginMarker, endMarker, newContent); err != nil {
			return fmt.Errorf("failed to update %s: %w", path, err)
		}
		return nil
	case modeCheck:
		if err := checkBetweenMarkers(path, beginMarker, endMarker, newContent); err != nil {
			return fmt.Errorf("%s out of date: %w\nFix: %s", path, err, fixCmd)
		}
		return nil
	default:
		return errors.New("unknown mode")
	}
}

func readLinters(path string) ([]linterEntry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []linterEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no linter entries")
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Prefix == "" || e.Name == "" {
			return nil, fmt.Errorf("entry %+v is missing prefix or name", e)
		}
		if seen[e.Prefix] {
			return nil, fmt.Errorf("duplicate prefix %s", e.Prefix)
		}
		seen[e.Prefix] = true
		if _, ok := severityIdents[e.Severity]; !ok {
			return nil, fmt.Errorf("unknown severity %q for prefix %s", e.Severity, e.Prefix)
		}
	}

	slices.SortFunc(entries, func(a, b linterEntry) int { return cmp.Compare(a.Prefix, b.Prefix) })
	return entries, nil
}

// renderGoBlock renders the rulesets map entries the way gofmt aligns them:
// keys padded to the widest quoted prefix, one entry per line.
func renderGoBlock(entries []linterEntry) string {
	width := 0
	for _, e := range entries {
		// Two quotes plus the trailing colon.
		if w := len(e.Prefix) + 3; w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, e := range entries {
		key := fmt.Sprintf("%q:", e.Prefix)
		fmt.Fprintf(&b, "\t%-*s {%s, %q},\n", width, key, severityIdents[e.Severity], e.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderDocsTable(entries []linterEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ruffgrade knows **%d** rule families:\n\n", len(entries))
	b.WriteString("| Prefix | Linter | Severity |\n")
	b.WriteString("|--------|--------|----------|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", e.Prefix, e.Name, titleCase(e.Severity))
	}
	return strings.TrimRight(b.String(), "\n")
}

func titleCase(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

type markerBounds struct {
	begin    int
	beginEnd int
	end      int
}

func findMarkerBounds(orig []byte, beginMarker, endMarker string) (markerBounds, error) {
	begin := bytes.Index(orig, []byte(beginMarker))
	if begin == -1 {
		return markerBounds{}, fmt.Errorf("begin marker not found: %s", beginMarker)
	}
	searchFrom := begin + len(beginMarker)
	endRel := bytes.Index(orig[searchFrom:], []byte(endMarker))
	if endRel == -1 {
		return markerBounds{}, fmt.Errorf("end marker not found: %s", endMarker)
	}
	end := searchFrom + endRel
	if end < begin {
		return markerBounds{}, errors.New("end marker occurs before begin marker")
	}
	return markerBounds{begin: begin, beginEnd: begin + len(beginMarker), end: end}, nil
}

func replaceBetweenMarkers(path, beginMarker, endMarker, newContent string) error {
	orig, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	bounds, err := findMarkerBounds(orig, beginMarker, endMarker)
	if err != nil {
		return err
	}

	// Keep the markers themselves and replace only the content between them.
	var out bytes.Buffer
	out.Write(orig[:bounds.beginEnd])
	out.WriteByte('\n')
	out.WriteString(strings.TrimRight(newContent, "\n"))
	out.WriteByte('\n')
	out.Write(orig[bounds.end:])

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, out.Bytes(), mode)
}

func checkBetweenMarkers(path, beginMarker, endMarker, newContent string) error {
	orig, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	bounds, err := findMarkerBounds(orig, beginMarker, endMarker)
	if err != nil {
		return err
	}
	existing := string(orig[bounds.beginEnd:bounds.end])

	normalize := func(s string) string {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.TrimPrefix(s, "\n")
		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\n")
		return s
	}

	want := normalize(strings.TrimRight(newContent, "\n"))
	got := normalize(existing)
	if got != want {
		return errors.New("generated content differs")
	}
	return nil
}
