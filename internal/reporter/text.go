package reporter

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/pyqa/ruffgrade/internal/issues"
	"github.com/pyqa/ruffgrade/internal/quality"
	"github.com/pyqa/ruffgrade/internal/sourcemap"
)

// Styles for different parts of the output
var (
	// Color detection using termenv (respects NO_COLOR, CLICOLOR_FORCE, terminal detection)
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	// Rule code style
	ruleCodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// URL style
	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Blue
			Underline(true)

	// Message style
	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")) // White

	// Fix note style
	fixNoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	// File location style
	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light gray

	// Line number style
	lineNumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dark gray

	// Separator style
	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")) // Darker gray

	// Marker style for affected lines
	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// Severity styles
	severityStyles = map[issues.Severity]lipgloss.Style{
		issues.SeverityError: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		issues.SeverityWarning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")), // Orange
		issues.SeverityBestPractice: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135")), // Purple
		issues.SeverityInfo: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")), // Blue
		issues.SeverityFixed: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")), // Green
	}

	// Null-severity fallback style
	nullSeverityStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("245")) // Gray
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// SyntaxHighlight enables Python syntax highlighting in snippets.
	SyntaxHighlight bool

	// ShowSource shows source code snippets. Default: true.
	ShowSource bool

	// ChromaStyle is the Chroma style name for syntax highlighting.
	// Default: "monokai" for dark terminals, "github" for light.
	ChromaStyle string
}

// DefaultTextOptions returns sensible defaults for text output.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Color:           nil, // auto-detect
		SyntaxHighlight: true,
		ShowSource:      true,
		ChromaStyle:     "", // auto-detect
	}
}

// TextReporter formats issues as styled text output.
type TextReporter struct {
	opts      TextOptions
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts TextOptions) *TextReporter {
	r := &TextReporter{opts: opts}

	// Determine if colors should be used
	colorEnabled := useColors
	if opts.Color != nil {
		colorEnabled = *opts.Color
	}

	if colorEnabled && opts.SyntaxHighlight {
		r.lexer = lexers.Get("python")
		if r.lexer == nil {
			r.lexer = lexers.Fallback
		}
		r.lexer = chroma.Coalesce(r.lexer)

		// Select style based on terminal background or user preference
		styleName := opts.ChromaStyle
		if styleName == "" {
			if lipgloss.HasDarkBackground() {
				styleName = "monokai"
			} else {
				styleName = "github"
			}
		}
		r.style = styles.Get(styleName)
		if r.style == nil {
			r.style = styles.Fallback
		}

		r.formatter = formatters.Get("terminal256")
		if r.formatter == nil {
			r.formatter = formatters.Fallback
		}
	}

	return r
}

// Print writes the issue listing and the closing quality summary.
func (r *TextReporter) Print(w io.Writer, m *issues.Mapping, sources map[string][]byte, summary quality.Summary) error {
	sorted := slices.Clone(m.All())
	issues.SortIssues(sorted)

	// Line indexes are built once per file, on first use
	srcMaps := make(map[string]*sourcemap.SourceMap, len(sources))
	for _, issue := range sorted {
		sm, indexed := srcMaps[issue.Filename]
		if !indexed {
			if src, ok := sources[issue.Filename]; ok && len(src) > 0 {
				sm = sourcemap.New(src)
			}
			srcMaps[issue.Filename] = sm
		}
		if err := r.printIssue(w, issue, sm); err != nil {
			return err
		}
	}
	return r.printSummary(w, m, summary)
}

func (r *TextReporter) colorEnabled() bool {
	if r.opts.Color != nil {
		return *r.opts.Color
	}
	return useColors
}

// printIssue formats a single issue.
func (r *TextReporter) printIssue(w io.Writer, issue *issues.Issue, sm *sourcemap.SourceMap) error {
	colorEnabled := r.colorEnabled()

	// Get severity style
	sevStyle, ok := severityStyles[issue.Severity]
	if !ok {
		sevStyle = nullSeverityStyle
	}

	// Header line: SEVERITY: Code - URL
	var header string
	if colorEnabled {
		header = fmt.Sprintf("\n%s %s",
			sevStyle.Render(issue.Severity.String()+":"),
			ruleCodeStyle.Render(issue.Code))
		if issue.URL != "" {
			header += " - " + urlStyle.Render(issue.URL)
		}
	} else {
		header = fmt.Sprintf("\n%s: %s", issue.Severity.String(), issue.Code)
		if issue.URL != "" {
			header += " - " + issue.URL
		}
	}
	fmt.Fprintln(w, header)

	// Message
	if colorEnabled {
		fmt.Fprintln(w, messageStyle.Render(issue.Message))
	} else {
		fmt.Fprintln(w, issue.Message)
	}

	// Fix note
	if issue.HasFix() {
		note := fmt.Sprintf("fix available (%s)", issue.Fix.Applicability)
		if colorEnabled {
			note = fixNoteStyle.Render(note)
		}
		fmt.Fprintln(w, note)
	}

	// Source snippet
	if r.opts.ShowSource && issue.Location.Row > 0 && sm != nil {
		r.printSource(w, issue, sm, colorEnabled)
	}

	return nil
}

// printSource renders the source code snippet with optional syntax highlighting.
func (r *TextReporter) printSource(w io.Writer, issue *issues.Issue, sm *sourcemap.SourceMap, colorEnabled bool) {
	lineCount := sm.LineCount()

	// Ruff reports 1-based line numbers
	start := issue.Location.Row
	end := issue.EndLocation.Row
	if end < start {
		end = start
	}

	// Bounds check
	if start > lineCount || start < 1 {
		return
	}
	if end > lineCount {
		end = lineCount
	}

	// Calculate padding (2-4 lines of context)
	pad := 2
	if end == start {
		pad = 4
	}

	displayStart := start
	p := 0
	for p < pad {
		expanded := false
		if start > 1 {
			start--
			p++
			expanded = true
		}
		if end < lineCount {
			end++
			p++
			expanded = true
		}
		if !expanded {
			break
		}
	}

	// File:line header
	fmt.Fprintln(w)
	if colorEnabled {
		fmt.Fprintln(w, fileLocStyle.Render(fmt.Sprintf("%s:%d", issue.Filename, displayStart)))
		fmt.Fprintln(w, separatorStyle.Render("────────────────────"))
	} else {
		fmt.Fprintf(w, "%s:%d\n", issue.Filename, displayStart)
		fmt.Fprintln(w, "--------------------")
	}

	// Print lines with optional syntax highlighting
	for i := start; i <= end; i++ {
		isAffected := lineInRange(i, issue.Location.Row, issue.EndLocation.Row)
		lineContent := sm.Line(i - 1)

		// Format line number
		var lineNum string
		if colorEnabled {
			lineNum = lineNumStyle.Render(fmt.Sprintf(" %3d │", i))
		} else {
			lineNum = fmt.Sprintf(" %3d |", i)
		}

		// Format marker
		var marker string
		if isAffected {
			if colorEnabled {
				marker = markerStyle.Render(">>>")
			} else {
				marker = ">>>"
			}
		} else {
			marker = "   "
		}

		// Format line content with optional syntax highlighting
		var content string
		if colorEnabled && r.lexer != nil && r.style != nil && r.formatter != nil {
			content = r.highlightLine(lineContent)
		} else {
			content = lineContent
		}

		fmt.Fprintf(w, "%s %s %s\n", lineNum, marker, content)
	}

	// Closing separator
	if colorEnabled {
		fmt.Fprintln(w, separatorStyle.Render("────────────────────"))
	} else {
		fmt.Fprintln(w, "--------------------")
	}
}

// printSummary writes the humanized issue counts and the overall grade.
func (r *TextReporter) printSummary(w io.Writer, m *issues.Mapping, summary quality.Summary) error {
	colorEnabled := r.colorEnabled()

	fmt.Fprintln(w)
	if m.TotalIssues() == 0 {
		counts := "No issues found"
		if colorEnabled {
			counts = fixNoteStyle.Render(counts)
		}
		fmt.Fprintln(w, counts)
	} else {
		counts := fmt.Sprintf("%s issues in %s files (%s errors, %s warnings, %s best practice, %s info, %s fixable)",
			humanize.Comma(int64(m.TotalIssues())),
			humanize.Comma(int64(m.TotalFiles())),
			humanize.Comma(int64(m.TotalErrors())),
			humanize.Comma(int64(m.TotalWarnings())),
			humanize.Comma(int64(m.TotalBestPractice())),
			humanize.Comma(int64(m.TotalInfo())),
			humanize.Comma(int64(m.TotalFixed())))
		if colorEnabled {
			counts = messageStyle.Render(counts)
		}
		fmt.Fprintln(w, counts)
	}

	grade := fmt.Sprintf("Grade %s (%.1f)", summary.Aggregate.Grade, summary.Aggregate.Score)
	if colorEnabled {
		grade = gradeStyle(summary.Aggregate.Grade).Render(grade)
	}
	_, err := fmt.Fprintln(w, grade)
	return err
}

// gradeStyle picks a color for the closing grade line.
func gradeStyle(grade quality.Grade) lipgloss.Style {
	color := lipgloss.Color("196") // Red for D/F
	if len(grade) > 0 {
		switch grade[0] {
		case 'A':
			color = lipgloss.Color("42") // Green
		case 'B':
			color = lipgloss.Color("39") // Blue
		case 'C':
			color = lipgloss.Color("214") // Orange
		}
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

// highlightLine applies syntax highlighting to a single line.
func (r *TextReporter) highlightLine(line string) string {
	iterator, err := r.lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf bytes.Buffer
	err = r.formatter.Format(&buf, r.style, iterator)
	if err != nil {
		return line
	}

	// Trim trailing newline that formatter might add
	return strings.TrimSuffix(buf.String(), "\n")
}

// lineInRange checks if a 1-based line number is within the range [start, end].
func lineInRange(line, start, end int) bool {
	if end < start {
		end = start
	}
	return line >= start && line <= end
}
