package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSources(t *testing.T, dir string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("import os\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDefaultPatterns(t *testing.T) {
	patterns := DefaultPatterns()
	if len(patterns) == 0 {
		t.Fatal("DefaultPatterns() returned empty slice")
	}

	expected := map[string]bool{
		"*.py":  false,
		"*.pyi": false,
	}

	for _, p := range patterns {
		if _, ok := expected[p]; ok {
			expected[p] = true
		}
	}

	for p, found := range expected {
		if !found {
			t.Errorf("DefaultPatterns() missing expected pattern %q", p)
		}
	}
}

func TestDiscoverFile(t *testing.T) {
	tmpDir := t.TempDir()
	modPath := filepath.Join(tmpDir, "mod.py")
	writeSources(t, tmpDir, []string{"mod.py"})

	results, err := Discover([]string{modPath}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	absPath, err := filepath.Abs(modPath)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Path != modPath {
		t.Errorf("expected path %q, got %q", modPath, results[0].Path)
	}
	if results[0].AbsPath != absPath {
		t.Errorf("expected abs path %q, got %q", absPath, results[0].AbsPath)
	}
}

func TestDiscoverDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeSources(t, tmpDir, []string{
		"main.py",
		"cli.pyi",
		"pkg/mod.py",
		"pkg/nested/util.py",
		"README.md",
	})

	results, err := Discover([]string{tmpDir}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	// Everything Python, nothing else.
	if len(results) != 4 {
		t.Errorf("expected 4 results, got %d", len(results))
		for _, r := range results {
			t.Logf("  found: %s", r.Path)
		}
	}

	for _, r := range results {
		if ext := filepath.Ext(r.Path); ext != ".py" && ext != ".pyi" {
			t.Errorf("unexpected file discovered: %s", r.Path)
		}
	}
}

func TestDiscoverSorted(t *testing.T) {
	tmpDir := t.TempDir()
	writeSources(t, tmpDir, []string{"zeta.py", "alpha.py", "mid.py"})

	results, err := Discover([]string{tmpDir}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].AbsPath > results[i].AbsPath {
			t.Errorf("results not sorted: %q before %q", results[i-1].AbsPath, results[i].AbsPath)
		}
	}
}

func TestDiscoverGlob(t *testing.T) {
	tmpDir := t.TempDir()
	writeSources(t, tmpDir, []string{"mod.py", "mod_test.py", "util.py"})

	pattern := filepath.Join(tmpDir, "*_test.py")
	results, err := Discover([]string{pattern}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
		for _, r := range results {
			t.Logf("  found: %s", r.Path)
		}
	}
}

func TestDiscoverExclude(t *testing.T) {
	tmpDir := t.TempDir()
	writeSources(t, tmpDir, []string{
		"main.py",
		"pkg/mod.py",
		"tests/test_mod.py",
		"migrations/0001_initial.py",
	})

	opts := Options{
		ExcludePatterns: []string{"tests/*", "migrations/*"},
	}
	results, err := Discover([]string{tmpDir}, opts)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
		for _, r := range results {
			t.Logf("  found: %s", r.Path)
		}
	}

	for _, r := range results {
		parent := filepath.Base(filepath.Dir(r.Path))
		if parent == "tests" || parent == "migrations" {
			t.Errorf("excluded file discovered: %s", r.Path)
		}
	}
}

func TestDiscoverDefaultExcludes(t *testing.T) {
	tmpDir := t.TempDir()
	writeSources(t, tmpDir, []string{
		"app.py",
		".venv/lib/site.py",
		"__pycache__/app.py",
		"sub/__pycache__/mod.py",
	})

	opts := Options{ExcludePatterns: DefaultExcludePatterns()}
	results, err := Discover([]string{tmpDir}, opts)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
		for _, r := range results {
			t.Logf("  found: %s", r.Path)
		}
	}
}

func TestDiscoverDeduplication(t *testing.T) {
	tmpDir := t.TempDir()
	modPath := filepath.Join(tmpDir, "mod.py")
	writeSources(t, tmpDir, []string{"mod.py"})

	results, err := Discover([]string{
		modPath,
		modPath, // duplicate
		tmpDir,  // will also find the file
		filepath.Join(tmpDir, "mod.py"),
	}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if len(results) != 1 {
		t.Errorf("expected 1 result after deduplication, got %d", len(results))
		for _, r := range results {
			t.Logf("  found: %s", r.Path)
		}
	}
}

func TestDiscoverNonexistent(t *testing.T) {
	results, err := Discover([]string{"nonexistent-pattern-*.xyz"}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}
