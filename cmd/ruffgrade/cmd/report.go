package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/pyqa/ruffgrade/internal/config"
	"github.com/pyqa/ruffgrade/internal/discovery"
	"github.com/pyqa/ruffgrade/internal/fileval"
	"github.com/pyqa/ruffgrade/internal/issues"
	"github.com/pyqa/ruffgrade/internal/project"
	"github.com/pyqa/ruffgrade/internal/quality"
	"github.com/pyqa/ruffgrade/internal/render"
	"github.com/pyqa/ruffgrade/internal/ruffjson"
	"github.com/pyqa/ruffgrade/internal/version"
)

// Exit codes
const (
	ExitSuccess        = 0 // Report produced, aggregate score at or above the gate
	ExitBelowThreshold = 1 // Aggregate score below fail-under
	ExitConfigError    = 2 // Config, load, or render error
	ExitNoReport       = 3 // No ruff JSON report found
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Generate the browsable HTML quality report",
		ArgsUsage: "[DIR]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:    "report-file",
				Usage:   "Path to the ruff JSON report (default: auto-locate in DIR)",
				Sources: cli.EnvVars("RUFFGRADE_REPORT_FILE"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory to write the HTML report into",
				Sources: cli.EnvVars("RUFFGRADE_OUTPUT_DIR"),
			},
			&cli.StringFlag{
				Name:    "title",
				Usage:   "Report title (default: pyproject project name or directory name)",
				Sources: cli.EnvVars("RUFFGRADE_OUTPUT_TITLE"),
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Usage:   "Glob pattern to exclude source files (can be repeated)",
				Sources: cli.EnvVars("RUFFGRADE_EXCLUDE"),
			},
			&cli.BoolFlag{
				Name:    "show-source",
				Usage:   "Render highlighted source panels (default: true)",
				Value:   true,
				Sources: cli.EnvVars("RUFFGRADE_OUTPUT_SOURCE"),
			},
			&cli.BoolFlag{
				Name:  "hide-source",
				Usage: "Skip source panels in file pages",
			},
			&cli.BoolFlag{
				Name:    "open",
				Usage:   "Print the index page path on stdout after generation",
				Sources: cli.EnvVars("RUFFGRADE_OUTPUT_OPEN"),
			},
			&cli.FloatFlag{
				Name:    "fail-under",
				Usage:   "Exit non-zero when the aggregate score is below this value (0 disables)",
				Sources: cli.EnvVars("RUFFGRADE_REPORT_FAIL_UNDER"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
		},
		Action: runReport,
	}
}

// runReport is the action handler for the report command.
func runReport(_ context.Context, cmd *cli.Command) error {
	configureLogging(cmd)

	dir := targetDir(cmd)
	res, err := loadRun(cmd, dir, reportOverrides(cmd))
	if err != nil {
		return exitForLoadError(err)
	}

	outDir := resolveOutputDir(res.cfg, res.manifest)
	renderer, err := render.New(render.Options{
		OutputDir:  outDir,
		Title:      resolveTitle(res.cfg, res.manifest, dir),
		Version:    version.RawVersion(),
		BaseDir:    res.absDir,
		ShowSource: res.cfg.Output.Source,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	stop := startRenderSpinner(len(res.summary.Files))
	err = renderer.Render(res.mapping, res.sources, res.summary)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to render report: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	if !cmd.Bool("quiet") {
		agg := res.summary.Aggregate
		fmt.Fprintf(os.Stderr, "Report written to %s (%d files, grade %s)\n",
			outDir, len(res.summary.Files), agg.Grade)
	}
	if res.cfg.Output.Open {
		fmt.Println(renderer.IndexPath())
	}

	return gateScore(res.summary, res.cfg.Report.FailUnder)
}

// reportOverrides folds the report command's explicitly set flags into a
// config override map.
func reportOverrides(cmd *cli.Command) map[string]any {
	output := map[string]any{}
	if cmd.IsSet("output") {
		output["dir"] = cmd.String("output")
	}
	if cmd.IsSet("title") {
		output["title"] = cmd.String("title")
	}
	if cmd.IsSet("show-source") {
		output["source"] = cmd.Bool("show-source")
	}
	if cmd.IsSet("hide-source") && cmd.Bool("hide-source") {
		output["source"] = false
	}
	if cmd.IsSet("open") {
		output["open"] = cmd.Bool("open")
	}

	overrides := map[string]any{}
	if len(output) > 0 {
		overrides["output"] = output
	}
	addCommonOverrides(cmd, overrides)
	return overrides
}

// addCommonOverrides folds the flags shared by every pipeline command
// (fail-under, exclude) into the override map.
func addCommonOverrides(cmd *cli.Command, overrides map[string]any) {
	if cmd.IsSet("fail-under") {
		overrides["report"] = map[string]any{"fail-under": cmd.Float("fail-under")}
	}
	if cmd.IsSet("exclude") {
		overrides["discovery"] = map[string]any{"exclude": cmd.StringSlice("exclude")}
	}
}

// runData carries the shared pipeline results: config, the issue mapping,
// loaded sources, and the per-file plus aggregate statistics.
type runData struct {
	cfg      *config.Config
	manifest *project.Project
	mapping  *issues.Mapping
	sources  map[string][]byte
	summary  quality.Summary
	absDir   string
}

// targetDir returns the directory argument, defaulting to the working
// directory.
func targetDir(cmd *cli.Command) string {
	if dir := cmd.Args().First(); dir != "" {
		return dir
	}
	return "."
}

// loadRun executes the ingest pipeline shared by report, score, and export:
// load config, locate and decode the ruff report, build the issue mapping,
// discover and read sources, compute statistics.
func loadRun(cmd *cli.Command, dir string, overrides map[string]any) (*runData, error) {
	cfg, err := resolveConfig(cmd, dir, overrides)
	if err != nil {
		return nil, err
	}

	manifest, err := project.Read(dir)
	if err != nil {
		// A broken manifest only costs its defaults, never the run.
		logrus.WithError(err).Warn("ignoring unreadable pyproject.toml")
		manifest = nil
	}

	reportPath := cmd.String("report-file")
	if reportPath == "" {
		reportPath, err = ruffjson.Locate(dir)
		if err != nil {
			return nil, err
		}
	}

	records, err := ruffjson.Load(reportPath)
	if err != nil {
		return nil, err
	}

	mapping, skipped := ruffjson.Collect(records)
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: skipped %d malformed diagnostic(s) in %s\n", skipped, reportPath)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	sources := loadSources(cfg, manifest, dir, mapping)
	return &runData{
		cfg:      cfg,
		manifest: manifest,
		mapping:  mapping,
		sources:  sources,
		summary:  quality.Summarize(mapping, sources),
		absDir:   absDir,
	}, nil
}

// resolveConfig loads configuration for the target directory, honoring an
// explicit --config path and the command's flag overrides.
func resolveConfig(cmd *cli.Command, dir string, overrides map[string]any) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.LoadFromFileWithOverrides(path, overrides)
	}
	return config.LoadWithOverrides(dir, overrides)
}

// sourceRoots picks the roots to discover sources under: explicit config,
// then pyproject [tool.ruffgrade] sources, then the target directory.
// Relative roots are anchored at the target directory.
func sourceRoots(cfg *config.Config, manifest *project.Project, dir string) []string {
	var roots []string
	switch {
	case len(cfg.Discovery.Sources) > 0:
		roots = cfg.Discovery.Sources
	case manifest != nil && len(manifest.Sources) > 0:
		roots = manifest.Sources
	default:
		return []string{dir}
	}

	anchored := make([]string, 0, len(roots))
	for _, root := range roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(dir, root)
		}
		anchored = append(anchored, root)
	}
	return anchored
}

// loadSources discovers the Python tree and reads each file, keyed the way
// the ruff report names files so statistics join issues with their source.
// Oversized and non-UTF-8 files are skipped, matching the issue counts ruff
// produced without them.
func loadSources(cfg *config.Config, manifest *project.Project, dir string, m *issues.Mapping) map[string][]byte {
	opts := discovery.Options{
		Patterns:        discovery.DefaultPatterns(),
		ExcludePatterns: append(discovery.DefaultExcludePatterns(), cfg.Discovery.Exclude...),
	}

	found, err := discovery.Discover(sourceRoots(cfg, manifest, dir), opts)
	if err != nil {
		logrus.WithError(err).Warn("source discovery failed, grading reported files only")
		found = nil
	}

	sources := make(map[string][]byte, len(found))
	for _, sf := range found {
		if err := fileval.ValidateFile(sf.AbsPath, cfg.Discovery.MaxFileSize); err != nil {
			logrus.WithField("file", sf.Path).WithError(err).Warn("skipping source")
			continue
		}
		data, err := os.ReadFile(sf.AbsPath)
		if err != nil {
			logrus.WithField("file", sf.Path).WithError(err).Warn("skipping unreadable source")
			continue
		}
		sources[sourceKey(m, sf)] = data
	}
	return sources
}

// sourceKey aligns a discovered file with the spelling the report uses for
// it. Ruff writes absolute paths, so the absolute spelling usually matches;
// when the report was produced with relative paths the original spelling is
// tried before falling back.
func sourceKey(m *issues.Mapping, sf discovery.SourceFile) string {
	if hits, _ := m.Get(issues.DimensionFilename, sf.AbsPath); len(hits) > 0 {
		return sf.AbsPath
	}
	if sf.Path != sf.AbsPath {
		if hits, _ := m.Get(issues.DimensionFilename, sf.Path); len(hits) > 0 {
			return sf.Path
		}
	}
	return sf.AbsPath
}

// resolveOutputDir returns the HTML output directory: config (file, env, or
// flag), then the pyproject default, then the built-in default.
func resolveOutputDir(cfg *config.Config, manifest *project.Project) string {
	if cfg.Output.Dir != config.Default().Output.Dir {
		return cfg.Output.Dir
	}
	if manifest != nil && manifest.OutputDir != "" {
		return manifest.OutputDir
	}
	return cfg.Output.Dir
}

// resolveTitle returns the report title: config, then the pyproject project
// name, then the target directory's base name.
func resolveTitle(cfg *config.Config, manifest *project.Project, dir string) string {
	if cfg.Output.Title != "" {
		return cfg.Output.Title
	}
	if manifest != nil && manifest.Name != "" {
		return manifest.Name
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	return filepath.Base(abs)
}

// exitForLoadError maps pipeline errors to exit codes: a missing report is
// distinguishable from config and decode failures.
func exitForLoadError(err error) error {
	var notFound *ruffjson.ReportNotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", notFound)
		fmt.Fprintln(os.Stderr, "Generate one with `ruff check --output-format=json -o ruff.json`, or pass --report-file.")
		return cli.Exit("", ExitNoReport)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return cli.Exit("", ExitConfigError)
}

// gateScore enforces the fail-under threshold against the aggregate score.
// A zero threshold disables the gate.
func gateScore(summary quality.Summary, failUnder float64) error {
	if failUnder <= 0 || summary.Aggregate.Score >= failUnder {
		return nil
	}
	fmt.Fprintf(os.Stderr, "Error: aggregate score %.1f is below fail-under %.1f\n",
		summary.Aggregate.Score, failUnder)
	return cli.Exit("", ExitBelowThreshold)
}
