package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/urfave/cli/v3"

	"github.com/pyqa/ruffgrade/internal/quality"
)

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "Print per-file grades as a terminal table",
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
			&cli.StringSliceFlag{
				Name:    "exclude",
				Usage:   "Glob pattern to exclude source files (can be repeated)",
				Sources: cli.EnvVars("RUFFGRADE_EXCLUDE"),
			},
			&cli.FloatFlag{
				Name:    "fail-under",
				Usage:   "Exit non-zero when the aggregate score is below this value (0 disables)",
				Sources: cli.EnvVars("RUFFGRADE_REPORT_FAIL_UNDER"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
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
		Action: runScore,
	}
}

func runScore(_ context.Context, cmd *cli.Command) error {
	configureLogging(cmd)

	res, err := loadRun(cmd, targetDir(cmd), scoreOverrides(cmd))
	if err != nil {
		return exitForLoadError(err)
	}

	printScoreTable(os.Stdout, res.summary, colorsEnabled(cmd))
	return gateScore(res.summary, res.cfg.Report.FailUnder)
}

func scoreOverrides(cmd *cli.Command) map[string]any {
	overrides := map[string]any{}
	addCommonOverrides(cmd, overrides)
	return overrides
}

// colorsEnabled reports whether table output should be styled: stdout must
// be a terminal with a color profile and --no-color must be unset.
func colorsEnabled(cmd *cli.Command) bool {
	if cmd.Bool("no-color") {
		return false
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

// Grade colors by letter family. Anything below C renders red.
var gradeStyles = map[byte]lipgloss.Style{
	'A': lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	'B': lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
	'C': lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
}

var gradeFallback = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

func styleGrade(grade quality.Grade, colors bool) string {
	if !colors || grade == "" {
		return string(grade)
	}
	if style, ok := gradeStyles[grade[0]]; ok {
		return style.Render(string(grade))
	}
	return gradeFallback.Render(string(grade))
}

// printScoreTable writes the per-file grade table followed by the
// aggregate line.
func printScoreTable(w io.Writer, summary quality.Summary, colors bool) {
	t := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
	)
	t.Header([]string{"File", "Grade", "Score", "Issues", "Errors", "Warnings"})

	for _, file := range summary.Files {
		_ = t.Append([]string{
			file.Path,
			styleGrade(file.Stats.Grade, colors),
			fmt.Sprintf("%.1f", file.Stats.Score),
			strconv.Itoa(file.Stats.Issues),
			strconv.Itoa(file.Stats.Error),
			strconv.Itoa(file.Stats.Warning),
		})
	}
	_ = t.Render()

	agg := summary.Aggregate
	fmt.Fprintf(w, "\nScanned %d files, %d lines, %d issues\n", len(summary.Files), agg.Lines, agg.Issues)
	fmt.Fprintf(w, "Aggregate score: %.1f (%s)\n", agg.Score, styleGrade(agg.Grade, colors))
}
