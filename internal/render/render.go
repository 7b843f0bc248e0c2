// Package render writes the multi-page HTML quality report: a project
// overview, one page per graded file, and per-severity and per-rule-family
// listings, plus the static assets they share.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pyqa/ruffgrade/internal/issues"
	"github.com/pyqa/ruffgrade/internal/quality"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/style.css
var styleCSS []byte

// stampLayout matches the generated-at format of the original reports.
const stampLayout = "15:04:05, 01-02-2006"

// Options configures a Renderer.
type Options struct {
	// OutputDir is the directory the report is written into. Created if
	// missing.
	OutputDir string

	// Title headlines the report. Defaults to "Code Quality Report".
	Title string

	// Version is printed in the page footer.
	Version string

	// BaseDir, when set, relativizes file names for display.
	BaseDir string

	// ShowSource renders highlighted source panels on file pages.
	ShowSource bool

	// Now supplies the generated-at stamp; defaults to time.Now.
	Now func() time.Time
}

// Renderer writes HTML reports. Safe to reuse across runs.
type Renderer struct {
	opts      Options
	templates *template.Template
	source    *highlighter
}

// New creates a Renderer for the given options.
func New(opts Options) (*Renderer, error) {
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory required")
	}
	if opts.Title == "" {
		opts.Title = "Code Quality Report"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	funcs := template.FuncMap{
		"score":      formatScore,
		"sevClass":   severityClass,
		"gradeClass": gradeClass,
	}
	templates, err := template.New("report").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{
		opts:      opts,
		templates: templates,
		source:    newHighlighter(),
	}, nil
}

// IndexPath returns the path of the report's entry page.
func (r *Renderer) IndexPath() string {
	return filepath.Join(r.opts.OutputDir, "index.html")
}

// Render writes the full report for a run. sources maps the file names the
// mapping uses to their contents; files without source content get no
// source panel. Output is deterministic for identical inputs and a fixed
// Options.Now.
func (r *Renderer) Render(m *issues.Mapping, sources map[string][]byte, summary quality.Summary) error {
	for _, dir := range []string{"", "files", "severity", "ruleset", "assets"} {
		if err := os.MkdirAll(filepath.Join(r.opts.OutputDir, dir), 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := r.writeAssets(); err != nil {
		return err
	}

	slugs := r.slugsFor(summary.Files)

	if err := r.renderIndex(m, summary, slugs); err != nil {
		return err
	}
	if err := r.renderFiles(m, sources, summary, slugs); err != nil {
		return err
	}
	if err := r.renderSeverities(m, slugs); err != nil {
		return err
	}
	return r.renderRulesets(m, slugs)
}

func (r *Renderer) writeAssets() error {
	stylePath := filepath.Join(r.opts.OutputDir, "assets", "style.css")
	if err := os.WriteFile(stylePath, styleCSS, 0o644); err != nil {
		return fmt.Errorf("write style.css: %w", err)
	}

	highlightCSS, err := r.source.CSS()
	if err != nil {
		return err
	}
	chromaPath := filepath.Join(r.opts.OutputDir, "assets", "chroma.css")
	if err := os.WriteFile(chromaPath, []byte(highlightCSS), 0o644); err != nil {
		return fmt.Errorf("write chroma.css: %w", err)
	}
	return nil
}

// pageContext carries the fields every page shell needs.
type pageContext struct {
	Title       string
	ReportTitle string
	Root        string
	GeneratedAt string
	Version     string
}

func (r *Renderer) context(pageTitle, root string) pageContext {
	title := r.opts.Title
	if pageTitle != "" {
		title = pageTitle + " - " + r.opts.Title
	}
	return pageContext{
		Title:       title,
		ReportTitle: r.opts.Title,
		Root:        root,
		GeneratedAt: r.opts.Now().Format(stampLayout),
		Version:     r.opts.Version,
	}
}

type fileRow struct {
	Name  string
	Slug  string
	Stats quality.Statistics
}

type severityRow struct {
	Severity issues.Severity
	Page     string
	Count    int
}

type rulesetRow struct {
	Display  string
	Page     string
	Linter   string
	Severity issues.Severity
	Count    int
}

type indexData struct {
	pageContext
	Aggregate       quality.Statistics
	FileCount       int
	FlaggedFiles    int
	TotalIssues     int
	TotalFixable    int
	TotalErrors     int
	HighestSeverity issues.Severity
	Files           []fileRow
	Severities      []severityRow
	Rulesets        []rulesetRow
}

func (r *Renderer) renderIndex(m *issues.Mapping, summary quality.Summary, slugs map[string]string) error {
	data := indexData{
		pageContext:     r.context("", ""),
		Aggregate:       summary.Aggregate,
		FileCount:       len(summary.Files),
		FlaggedFiles:    m.TotalFiles(),
		TotalIssues:     m.TotalIssues(),
		TotalFixable:    m.TotalFixed(),
		TotalErrors:     m.TotalErrors(),
		HighestSeverity: m.HighestSeverity(),
	}
	if m.Len() == 0 {
		// A clean run reads better than the unclassified floor value.
		data.HighestSeverity = issues.SeverityNoIssues
	}

	for _, file := range summary.Files {
		data.Files = append(data.Files, fileRow{
			Name:  r.displayName(file.Path),
			Slug:  slugs[file.Path],
			Stats: file.Stats,
		})
	}

	for _, sev := range severitiesPresent(m) {
		set, err := m.Get(issues.DimensionSeverity, sev.String())
		if err != nil {
			return err
		}
		data.Severities = append(data.Severities, severityRow{
			Severity: sev,
			Page:     severityPage(sev),
			Count:    len(set),
		})
	}

	families, err := rulesetsPresent(m)
	if err != nil {
		return err
	}
	for _, family := range families {
		set, err := m.Get(issues.DimensionRuleset, family)
		if err != nil {
			return err
		}
		sev, _ := issues.RulesetSeverity(family)
		data.Rulesets = append(data.Rulesets, rulesetRow{
			Display:  rulesetDisplay(family),
			Page:     rulesetPage(family),
			Linter:   issues.RulesetLinter(family),
			Severity: sev,
			Count:    len(set),
		})
	}

	return r.writePage("index.html", "index.html", data)
}

type issueRow struct {
	Row           int
	Column        int
	Code          string
	Severity      issues.Severity
	Message       string
	Fixable       bool
	Applicability issues.Applicability
	URL           string
}

type fileData struct {
	pageContext
	Name      string
	Stats     quality.Statistics
	Issues    []issueRow
	HasSource bool
	Source    template.HTML
}

func (r *Renderer) renderFiles(m *issues.Mapping, sources map[string][]byte, summary quality.Summary, slugs map[string]string) error {
	for _, file := range summary.Files {
		fileIssues, err := m.Get(issues.DimensionFilename, file.Path)
		if err != nil {
			return err
		}
		sorted := slices.Clone(fileIssues)
		issues.SortIssues(sorted)

		name := r.displayName(file.Path)
		data := fileData{
			pageContext: r.context(name, "../"),
			Name:        name,
			Stats:       file.Stats,
		}

		rows := make([]int, 0, len(sorted))
		for _, issue := range sorted {
			data.Issues = append(data.Issues, issueRow{
				Row:           issue.Location.Row,
				Column:        issue.Location.Column,
				Code:          issue.Code,
				Severity:      issue.Severity,
				Message:       issue.Message,
				Fixable:       issue.HasFix(),
				Applicability: fixApplicability(issue),
				URL:           issue.URL,
			})
			rows = append(rows, issue.Location.Row)
		}

		if src, ok := sources[file.Path]; ok && r.opts.ShowSource {
			rendered, err := r.source.HTML(src, rows)
			if err != nil {
				return fmt.Errorf("highlight %s: %w", name, err)
			}
			data.HasSource = true
			data.Source = rendered
		}

		page := filepath.Join("files", slugs[file.Path]+".html")
		if err := r.writePage(page, "file.html", data); err != nil {
			return err
		}
	}
	return nil
}

type crossFileIssueRow struct {
	File     string
	FileSlug string
	Row      int
	Column   int
	Code     string
	Message  string
	URL      string
}

type severityData struct {
	pageContext
	Severity issues.Severity
	Count    int
	Issues   []crossFileIssueRow
}

func (r *Renderer) renderSeverities(m *issues.Mapping, slugs map[string]string) error {
	for _, sev := range severitiesPresent(m) {
		set, err := m.Get(issues.DimensionSeverity, sev.String())
		if err != nil {
			return err
		}

		data := severityData{
			pageContext: r.context(sev.Label(), "../"),
			Severity:    sev,
			Count:       len(set),
			Issues:      r.crossFileRows(set, slugs),
		}

		page := filepath.Join("severity", severityPage(sev))
		if err := r.writePage(page, "severity.html", data); err != nil {
			return err
		}
	}
	return nil
}

type codeRow struct {
	Code  string
	Count int
	URL   string
}

type rulesetData struct {
	pageContext
	Display  string
	Linter   string
	Severity issues.Severity
	Count    int
	Codes    []codeRow
	Issues   []crossFileIssueRow
}

func (r *Renderer) renderRulesets(m *issues.Mapping, slugs map[string]string) error {
	families, err := rulesetsPresent(m)
	if err != nil {
		return err
	}

	for _, family := range families {
		set, err := m.Get(issues.DimensionRuleset, family)
		if err != nil {
			return err
		}
		sev, _ := issues.RulesetSeverity(family)

		data := rulesetData{
			pageContext: r.context(rulesetDisplay(family), "../"),
			Display:     rulesetDisplay(family),
			Linter:      issues.RulesetLinter(family),
			Severity:    sev,
			Count:       len(set),
			Codes:       codeRows(set),
			Issues:      r.crossFileRows(set, slugs),
		}

		page := filepath.Join("ruleset", rulesetPage(family))
		if err := r.writePage(page, "ruleset.html", data); err != nil {
			return err
		}
	}
	return nil
}

// crossFileRows prepares issue rows for the listings that span files.
func (r *Renderer) crossFileRows(set []*issues.Issue, slugs map[string]string) []crossFileIssueRow {
	sorted := slices.Clone(set)
	issues.SortIssues(sorted)

	rows := make([]crossFileIssueRow, 0, len(sorted))
	for _, issue := range sorted {
		rows = append(rows, crossFileIssueRow{
			File:     r.displayName(issue.Filename),
			FileSlug: slugs[issue.Filename],
			Row:      issue.Location.Row,
			Column:   issue.Location.Column,
			Code:     issue.Code,
			Message:  issue.Message,
			URL:      issue.URL,
		})
	}
	return rows
}

func codeRows(set []*issues.Issue) []codeRow {
	counts := make(map[string]int)
	urls := make(map[string]string)
	for _, issue := range set {
		counts[issue.Code]++
		if _, ok := urls[issue.Code]; !ok {
			urls[issue.Code] = issue.URL
		}
	}

	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	rows := make([]codeRow, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, codeRow{Code: code, Count: counts[code], URL: urls[code]})
	}
	return rows
}

// severitiesPresent lists the severities with at least one issue, most
// severe first, with unclassified issues last.
func severitiesPresent(m *issues.Mapping) []issues.Severity {
	var present []issues.Severity
	for _, sev := range issues.Severities() {
		if set, err := m.Get(issues.DimensionSeverity, sev.String()); err == nil && len(set) > 0 {
			present = append(present, sev)
		}
	}
	if set, err := m.Get(issues.DimensionSeverity, issues.SeverityNull.String()); err == nil && len(set) > 0 {
		present = append(present, issues.SeverityNull)
	}
	return present
}

// rulesetsPresent lists the rule families with issues, sorted by prefix.
func rulesetsPresent(m *issues.Mapping) ([]string, error) {
	keys, err := m.Keys(issues.DimensionRuleset)
	if err != nil {
		return nil, err
	}
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return sorted, nil
}

func severityPage(sev issues.Severity) string {
	return strings.ToLower(sev.String()) + ".html"
}

func rulesetPage(family string) string {
	if family == "" {
		return "unmatched.html"
	}
	return strings.ToLower(family) + ".html"
}

func rulesetDisplay(family string) string {
	if family == "" {
		return "Unmatched"
	}
	return family
}

func fixApplicability(issue *issues.Issue) issues.Applicability {
	if issue.Fix == nil {
		return ""
	}
	return issue.Fix.Applicability
}

// displayName relativizes a path against BaseDir for display, falling
// back to the raw name with forward slashes.
func (r *Renderer) displayName(path string) string {
	if r.opts.BaseDir != "" {
		if rel, err := filepath.Rel(r.opts.BaseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

// slugsFor assigns collision-safe page slugs to every file, keyed by the
// mapping's file name. Deterministic: files arrive sorted by path.
func (r *Renderer) slugsFor(files []quality.FileStatistics) map[string]string {
	slugs := make(map[string]string, len(files))
	taken := make(map[string]bool, len(files))
	for _, file := range files {
		slug := slugify(r.displayName(file.Path))
		final := slug
		for n := 2; taken[final]; n++ {
			final = slug + "-" + strconv.Itoa(n)
		}
		taken[final] = true
		slugs[file.Path] = final
	}
	return slugs
}

// slugify flattens a display name into a file-name-safe slug.
func slugify(name string) string {
	var b strings.Builder
	lastDash := false
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
			b.WriteRune(c)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "file"
	}
	return slug
}

func (r *Renderer) writePage(relPath, templateName string, data any) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return fmt.Errorf("render %s: %w", relPath, err)
	}
	if err := os.WriteFile(filepath.Join(r.opts.OutputDir, relPath), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", relPath, err)
	}
	return nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

func severityClass(sev issues.Severity) string {
	switch sev {
	case issues.SeverityError:
		return "sev-error"
	case issues.SeverityWarning:
		return "sev-warning"
	case issues.SeverityBestPractice:
		return "sev-best-practice"
	case issues.SeverityInfo:
		return "sev-info"
	case issues.SeverityFixed:
		return "sev-fixed"
	case issues.SeverityNoIssues:
		return "sev-clean"
	default:
		return "sev-null"
	}
}

func gradeClass(grade quality.Grade) string {
	if grade == "" {
		return "grade-na"
	}
	switch grade[0] {
	case 'A':
		return "grade-a"
	case 'B':
		return "grade-b"
	case 'C':
		return "grade-c"
	case 'D':
		return "grade-d"
	default:
		return "grade-f"
	}
}
