package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/pyqa/ruffgrade/internal/reporter"
	"github.com/pyqa/ruffgrade/internal/version"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write the graded run in a machine-readable format",
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
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif, github-actions, markdown",
				Sources: cli.EnvVars("RUFFGRADE_FORMAT", "RUFFGRADE_REPORT_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output destination: stdout, stderr, or a file path",
				Sources: cli.EnvVars("RUFFGRADE_REPORT_PATH"),
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Usage:   "Glob pattern to exclude source files (can be repeated)",
				Sources: cli.EnvVars("RUFFGRADE_EXCLUDE"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored text output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:  "hide-source",
				Usage: "Skip source snippets in text output",
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
		Action: runExport,
	}
}

func runExport(_ context.Context, cmd *cli.Command) error {
	configureLogging(cmd)

	res, err := loadRun(cmd, targetDir(cmd), exportOverrides(cmd))
	if err != nil {
		return exitForLoadError(err)
	}

	format, err := reporter.ParseFormat(res.cfg.Report.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	writer, closeWriter, err := reporter.GetWriter(res.cfg.Report.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	opts := reporter.DefaultOptions()
	opts.Format = format
	opts.Writer = writer
	opts.ToolVersion = version.RawVersion()
	opts.ShowSource = res.cfg.Output.Source && !cmd.Bool("hide-source")
	if cmd.Bool("no-color") {
		off := false
		opts.Color = &off
	}

	rep, err := reporter.New(opts)
	if err != nil {
		_ = closeWriter()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	reportErr := rep.Report(res.mapping, res.sources, res.summary)
	if closeErr := closeWriter(); reportErr == nil {
		reportErr = closeErr
	}
	if reportErr != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write report: %v\n", reportErr)
		return cli.Exit("", ExitConfigError)
	}
	return nil
}

// exportOverrides folds the export command's explicitly set flags into a
// config override map. Export's --output names the writer destination, not
// the HTML directory.
func exportOverrides(cmd *cli.Command) map[string]any {
	report := map[string]any{}
	if cmd.IsSet("format") {
		report["format"] = cmd.String("format")
	}
	if cmd.IsSet("output") {
		report["path"] = cmd.String("output")
	}

	overrides := map[string]any{}
	if len(report) > 0 {
		overrides["report"] = report
	}
	if cmd.IsSet("exclude") {
		overrides["discovery"] = map[string]any{"exclude": cmd.StringSlice("exclude")}
	}
	return overrides
}
