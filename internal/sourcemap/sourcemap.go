// Package sourcemap provides line-indexed access to source files for
// snippet extraction.
//
// All line numbers are 0-based. Ruff diagnostics are 1-based, so callers
// shift by one when indexing.
package sourcemap

import (
	"bytes"
	"strings"
)

// SourceMap precomputes the line structure of one source file so snippet
// rendering never re-splits the content per issue.
type SourceMap struct {
	source []byte

	// lines are the individual lines without line endings.
	lines []string
}

// New creates a SourceMap from source content. Lines are split on \n;
// a trailing \r is stripped so CRLF files render without artifacts.
func New(source []byte) *SourceMap {
	rawLines := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(rawLines))
	for i, line := range rawLines {
		lines[i] = strings.TrimSuffix(string(line), "\r")
	}

	return &SourceMap{
		source: source,
		lines:  lines,
	}
}

// Lines returns all lines without line endings. The returned slice must
// not be modified.
func (sm *SourceMap) Lines() []string {
	return sm.lines
}

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int {
	return len(sm.lines)
}

// Line returns the text of a 0-based line, or the empty string when the
// line is out of range.
func (sm *SourceMap) Line(line int) string {
	if line < 0 || line >= len(sm.lines) {
		return ""
	}
	return sm.lines[line]
}

// Snippet extracts an inclusive 0-based line range as a single string.
// The range is clamped to the file; an empty range returns "".
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sm.lines) {
		endLine = len(sm.lines) - 1
	}
	if startLine > endLine || startLine >= len(sm.lines) {
		return ""
	}

	return strings.Join(sm.lines[startLine:endLine+1], "\n")
}
