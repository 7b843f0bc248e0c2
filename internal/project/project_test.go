package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyqa/ruffgrade/internal/project"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, project.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeManifest(t, dir, `
[project]
name = "widget-factory"
version = "1.4.0"
requires-python = ">=3.11"

[tool.ruff]
line-length = 100

[tool.ruffgrade]
output-dir = "reports/quality"
sources = ["src/widget_factory", "scripts"]
`)

	proj, err := project.Read(dir)
	require.NoError(t, err)
	require.NotNil(t, proj)

	assert.Equal(t, path, proj.Path)
	assert.Equal(t, "widget-factory", proj.Name)
	assert.Equal(t, "reports/quality", proj.OutputDir)
	assert.Equal(t, []string{"src/widget_factory", "scripts"}, proj.Sources)
}

func TestReadMissingManifest(t *testing.T) {
	t.Parallel()

	proj, err := project.Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, proj)
}

func TestReadWithoutRuffgradeTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "bare"

[tool.ruff]
select = ["E", "F"]
`)

	proj, err := project.Read(dir)
	require.NoError(t, err)
	require.NotNil(t, proj)

	assert.Equal(t, "bare", proj.Name)
	assert.Empty(t, proj.OutputDir)
	assert.Nil(t, proj.Sources)
}

func TestReadWithoutProjectTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, `
[build-system]
requires = ["setuptools"]
`)

	proj, err := project.Read(dir)
	require.NoError(t, err)
	require.NotNil(t, proj)
	assert.Empty(t, proj.Name)
}

func TestReadMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, `[project`)

	proj, err := project.Read(dir)
	assert.Error(t, err)
	assert.Nil(t, proj)
}

func TestFind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.Empty(t, project.Find(dir))

	path := writeManifest(t, dir, "[project]\nname = \"x\"\n")
	assert.Equal(t, path, project.Find(dir))
}

func TestFindIgnoresDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, project.FileName), 0o750))
	assert.Empty(t, project.Find(dir))
}
