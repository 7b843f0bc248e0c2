package quality

import (
	"maps"
	"slices"

	"github.com/pyqa/ruffgrade/internal/issues"
)

// FileStatistics pairs one source path with its quality snapshot.
type FileStatistics struct {
	Path  string     `json:"path"`
	Stats Statistics `json:"statistics"`
}

// Summary is the quality picture of a whole run: one snapshot per file
// plus the aggregate over all of them.
type Summary struct {
	Files     []FileStatistics `json:"files"`
	Aggregate Statistics       `json:"aggregate"`
}

// FileStats returns the snapshot for a path, if the summary covers it.
func (s Summary) FileStats(path string) (Statistics, bool) {
	for _, file := range s.Files {
		if file.Path == path {
			return file.Stats, true
		}
	}
	return Statistics{}, false
}

// Summarize builds one snapshot per file named by the mapping or the
// sources set, plus the aggregate over all of them. A source without
// issues still gets a snapshot (a clean file scores 100); a file the
// report names but whose source is unavailable is scored on zero lines.
// Files come back sorted by path.
func Summarize(m *issues.Mapping, sources map[string][]byte) Summary {
	paths := make(map[string]bool)
	fileKeys, err := m.Keys(issues.DimensionFilename)
	if err == nil {
		for _, key := range fileKeys {
			paths[key] = true
		}
	}
	for path := range sources {
		paths[path] = true
	}

	sorted := slices.Sorted(maps.Keys(paths))

	summary := Summary{Files: make([]FileStatistics, 0, len(sorted))}
	totalLines := 0
	for _, path := range sorted {
		fileIssues, _ := m.Get(issues.DimensionFilename, path)

		lines := 0
		if src, ok := sources[path]; ok {
			lines = CountLines(src)
		}
		totalLines += lines

		summary.Files = append(summary.Files, FileStatistics{
			Path:  path,
			Stats: Calculate(lines, fileIssues),
		})
	}

	summary.Aggregate = Calculate(totalLines, m.All())
	return summary
}
