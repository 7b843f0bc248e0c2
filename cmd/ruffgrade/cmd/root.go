package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/pyqa/ruffgrade/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "ruffgrade",
		Usage:   "Browsable quality reports for ruff lint output",
		Version: version.Version(),
		Description: `ruffgrade turns the JSON diagnostics of the ruff Python linter into a
browsable HTML quality report, per-file letter grades, and CI-friendly
exports.

Generate the input with ruff first:
  ruff check --output-format=json -o ruff.json src/

Examples:
  ruffgrade report
  ruffgrade report --output build/quality --fail-under 80 myproject/
  ruffgrade score
  ruffgrade export --format sarif --output ruff.sarif`,
		Commands: []*cli.Command{
			reportCommand(),
			scoreCommand(),
			exportCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}

// configureLogging sets the process log level from the command's verbosity
// flags. Warnings stay visible by default so ingestion notes (skipped
// records, unknown rule families) surface without -v.
func configureLogging(cmd *cli.Command) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case cmd.Bool("verbose"):
		logrus.SetLevel(logrus.DebugLevel)
	case cmd.Bool("quiet"):
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
}
