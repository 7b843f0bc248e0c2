package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/pyqa/ruffgrade/internal/config"
	"github.com/pyqa/ruffgrade/internal/project"
	"github.com/pyqa/ruffgrade/internal/quality"
)

// captureCommand parses args against flags and hands back the parsed
// command, so helpers that read flag state can be tested without running
// a real action.
func captureCommand(t *testing.T, flags []cli.Flag, args []string) *cli.Command {
	t.Helper()

	var captured *cli.Command
	app := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(_ context.Context, cmd *cli.Command) error {
			captured = cmd
			return nil
		},
	}
	require.NoError(t, app.Run(context.Background(), append([]string{"test"}, args...)))
	require.NotNil(t, captured)
	return captured
}

func TestReportOverrides_Empty(t *testing.T) {
	t.Parallel()

	cmd := captureCommand(t, reportCommand().Flags, nil)
	require.Empty(t, reportOverrides(cmd))
}

func TestReportOverrides_Flags(t *testing.T) {
	t.Parallel()

	cmd := captureCommand(t, reportCommand().Flags, []string{
		"--output", "build/quality",
		"--title", "My Project",
		"--hide-source",
		"--fail-under", "80",
		"--exclude", "migrations/**",
	})

	want := map[string]any{
		"output": map[string]any{
			"dir":    "build/quality",
			"title":  "My Project",
			"source": false,
		},
		"report":    map[string]any{"fail-under": 80.0},
		"discovery": map[string]any{"exclude": []string{"migrations/**"}},
	}
	require.Equal(t, want, reportOverrides(cmd))
}

func TestReportOverrides_ShowSourceOff(t *testing.T) {
	t.Parallel()

	cmd := captureCommand(t, reportCommand().Flags, []string{"--show-source=false"})
	require.Equal(t, map[string]any{
		"output": map[string]any{"source": false},
	}, reportOverrides(cmd))
}

func TestExportOverrides(t *testing.T) {
	t.Parallel()

	cmd := captureCommand(t, exportCommand().Flags, []string{
		"--format", "sarif",
		"--output", "out.sarif",
	})
	require.Equal(t, map[string]any{
		"report": map[string]any{"format": "sarif", "path": "out.sarif"},
	}, exportOverrides(cmd))
}

func TestScoreOverrides(t *testing.T) {
	t.Parallel()

	cmd := captureCommand(t, scoreCommand().Flags, nil)
	require.Empty(t, scoreOverrides(cmd))

	cmd = captureCommand(t, scoreCommand().Flags, []string{"--fail-under", "75.5"})
	require.Equal(t, map[string]any{
		"report": map[string]any{"fail-under": 75.5},
	}, scoreOverrides(cmd))
}

func TestTargetDir(t *testing.T) {
	t.Parallel()

	cmd := captureCommand(t, nil, nil)
	require.Equal(t, ".", targetDir(cmd))

	cmd = captureCommand(t, nil, []string{"some/project"})
	require.Equal(t, "some/project", targetDir(cmd))
}

func TestGateScore(t *testing.T) {
	t.Parallel()

	summary := quality.Summary{Aggregate: quality.Statistics{Score: 72.5}}

	require.NoError(t, gateScore(summary, 0))
	// The boundary is inclusive: a score exactly at the gate passes.
	require.NoError(t, gateScore(summary, 72.5))

	err := gateScore(summary, 80)
	require.Error(t, err)

	var coder cli.ExitCoder
	require.ErrorAs(t, err, &coder)
	require.Equal(t, ExitBelowThreshold, coder.ExitCode())
}

func TestResolveTitle(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Output.Title = "Explicit"
	require.Equal(t, "Explicit", resolveTitle(cfg, &project.Project{Name: "from-pyproject"}, "."))

	require.Equal(t, "from-pyproject", resolveTitle(config.Default(), &project.Project{Name: "from-pyproject"}, "."))

	require.Equal(t, "dir", resolveTitle(config.Default(), nil, "some/dir"))
}

func TestResolveOutputDir(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.Equal(t, "ruffgrade-report", resolveOutputDir(cfg, nil))
	require.Equal(t, "build/quality", resolveOutputDir(cfg, &project.Project{OutputDir: "build/quality"}))

	cfg.Output.Dir = "custom"
	require.Equal(t, "custom", resolveOutputDir(cfg, &project.Project{OutputDir: "build/quality"}))
}

func TestSourceRoots(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.Equal(t, []string{"proj"}, sourceRoots(cfg, nil, "proj"))

	manifest := &project.Project{Sources: []string{"src", "/abs/tools"}}
	require.Equal(t,
		[]string{filepath.Join("proj", "src"), "/abs/tools"},
		sourceRoots(cfg, manifest, "proj"))

	cfg.Discovery.Sources = []string{"lib"}
	require.Equal(t,
		[]string{filepath.Join("proj", "lib")},
		sourceRoots(cfg, manifest, "proj"))
}
