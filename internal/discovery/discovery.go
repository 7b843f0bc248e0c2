// Package discovery finds the Python sources a report covers, with glob
// pattern support.
package discovery

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// SourceFile is one Python source file selected for the report.
type SourceFile struct {
	// Path is the path as provided or discovered. For explicit file inputs
	// it preserves the original spelling (relative or absolute).
	Path string

	// AbsPath is the absolute path, used for deduplication and for joining
	// discovered sources with the filenames ruff reports.
	AbsPath string
}

// Options configures source discovery.
type Options struct {
	// Patterns are the glob patterns to match inside directory inputs
	// (default: DefaultPatterns()). Doublestar patterns are supported.
	Patterns []string

	// ExcludePatterns are glob patterns to drop from results.
	ExcludePatterns []string
}

// DefaultPatterns returns the source patterns ruff lints: Python modules
// and stub files.
func DefaultPatterns() []string {
	return []string{"*.py", "*.pyi"}
}

// DefaultExcludePatterns returns the directories ruff skips by default;
// sources inside them carry no signal for a quality report.
func DefaultExcludePatterns() []string {
	return []string{
		".git/**",
		".mypy_cache/**",
		".ruff_cache/**",
		".tox/**",
		".venv/**",
		"venv/**",
		"__pycache__/**",
		"build/**",
		"dist/**",
		"node_modules/**",
	}
}

// Discover expands the given inputs into source files. Each input can be a
// specific file, a directory (searched recursively with Options.Patterns),
// or a glob pattern. Results are deduplicated by absolute path and sorted.
func Discover(inputs []string, opts Options) ([]SourceFile, error) {
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultPatterns()
	}

	seen := make(map[string]bool)
	var results []SourceFile

	for _, input := range inputs {
		discovered, err := discoverInput(input, opts, seen)
		if err != nil {
			return nil, err
		}
		results = append(results, discovered...)
	}

	slices.SortFunc(results, func(a, b SourceFile) int {
		return cmp.Compare(a.AbsPath, b.AbsPath)
	})

	return results, nil
}

// discoverInput processes a single input (file, directory, or glob pattern).
func discoverInput(input string, opts Options, seen map[string]bool) ([]SourceFile, error) {
	// Glob characters make os.Stat unreliable (it fails on Windows), so
	// detect them before trying the literal path.
	if containsGlobChars(input) {
		return globMatches(input, opts, seen)
	}

	info, err := os.Stat(input)
	if err == nil {
		if info.IsDir() {
			return discoverDirectory(input, opts, seen)
		}
		return discoverFile(input, opts, seen)
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	// Not a literal path; fall back to glob expansion.
	return globMatches(input, opts, seen)
}

// containsGlobChars returns true if the path contains glob special characters.
func containsGlobChars(path string) bool {
	for _, c := range path {
		switch c {
		case '*', '?', '[', ']':
			return true
		}
	}
	return false
}

// discoverFile records an explicitly named file, preserving its original
// spelling for display.
func discoverFile(path string, opts Options, seen map[string]bool) ([]SourceFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if isExcluded(absPath, opts.ExcludePatterns) || seen[absPath] {
		return nil, nil
	}
	seen[absPath] = true

	return []SourceFile{{Path: path, AbsPath: absPath}}, nil
}

// discoverDirectory searches a directory recursively for matching sources.
func discoverDirectory(dir string, opts Options, seen map[string]bool) ([]SourceFile, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, pattern := range opts.Patterns {
		patterns = append(patterns,
			filepath.Join(absDir, "**", pattern),
			filepath.Join(absDir, pattern),
		)
	}

	var results []SourceFile
	for _, pattern := range patterns {
		discovered, err := globMatches(pattern, opts, seen)
		if err != nil {
			return nil, err
		}
		results = append(results, discovered...)
	}
	return results, nil
}

// globMatches expands a glob pattern and returns matching files.
func globMatches(pattern string, opts Options, seen map[string]bool) ([]SourceFile, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	var results []SourceFile
	for _, match := range matches {
		absPath, err := filepath.Abs(match)
		if err != nil {
			return nil, err
		}

		if isExcluded(absPath, opts.ExcludePatterns) || seen[absPath] {
			continue
		}
		seen[absPath] = true

		results = append(results, SourceFile{Path: absPath, AbsPath: absPath})
	}
	return results, nil
}

// isExcluded matches a path against the exclusion patterns three ways: the
// full absolute path, the bare filename, and every suffix subpath. Suffix
// matching lets a pattern like "__pycache__/**" hit a cache directory at
// any depth without an explicit "**/" prefix.
//
// doublestar matches forward slashes only, so paths are normalized first.
func isExcluded(absPath string, excludePatterns []string) bool {
	absPathSlash := filepath.ToSlash(absPath)
	base := filepath.ToSlash(filepath.Base(absPath))

	for _, pattern := range excludePatterns {
		pattern = filepath.ToSlash(pattern)

		matched, err := doublestar.Match(pattern, absPathSlash)
		if err == nil && matched {
			return true
		}

		matched, err = doublestar.Match(pattern, base)
		if err == nil && matched {
			return true
		}

		parts := splitPath(absPath)
		for i := range parts {
			subpath := filepath.ToSlash(filepath.Join(parts[i:]...))
			matched, err = doublestar.Match(pattern, subpath)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}

// splitPath splits a path into its individual components: "/a/b/mod.py"
// becomes ["a", "b", "mod.py"]. On Windows the volume name is stripped.
func splitPath(path string) []string {
	var parts []string
	for path != "" {
		dir, file := filepath.Split(path)
		if file != "" {
			parts = append([]string{file}, parts...)
		}
		path = filepath.Clean(dir)

		if path == "/" || path == "." {
			break
		}

		vol := filepath.VolumeName(path)
		if vol != "" && (path == vol || path == vol+string(filepath.Separator)) {
			break
		}
	}
	return parts
}
