// Package project reads report defaults out of a pyproject.toml file.
//
// The file is optional. When present it contributes the project name (used
// as the default report title) and the [tool.ruffgrade] table, which may
// pin the output directory and the source roots to grade.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the standard Python project manifest name.
const FileName = "pyproject.toml"

// Project holds the report-relevant slice of a pyproject.toml.
type Project struct {
	// Path is the manifest the values were read from.
	Path string

	// Name is the [project] name, empty when the table is absent.
	Name string

	// OutputDir is [tool.ruffgrade] output-dir, empty when unset.
	OutputDir string

	// Sources is [tool.ruffgrade] sources, nil when unset.
	Sources []string
}

// pyproject mirrors the subset of the manifest we care about. Unknown
// tables and keys are ignored; a manifest carries far more than we read.
type pyproject struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Ruffgrade struct {
			OutputDir string   `toml:"output-dir"`
			Sources   []string `toml:"sources"`
		} `toml:"ruffgrade"`
	} `toml:"tool"`
}

// Find returns the path of the manifest in dir, or "" when there is none.
func Find(dir string) string {
	path := filepath.Join(dir, FileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}

// Read loads the manifest in dir. A missing manifest is not an error; the
// result is nil and callers fall back to their own defaults.
func Read(dir string) (*Project, error) {
	path := Find(dir)
	if path == "" {
		return nil, nil
	}
	return ReadFile(path)
}

// ReadFile loads the manifest at path.
func ReadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var manifest pyproject
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &Project{
		Path:      path,
		Name:      manifest.Project.Name,
		OutputDir: manifest.Tool.Ruffgrade.OutputDir,
		Sources:   manifest.Tool.Ruffgrade.Sources,
	}, nil
}
