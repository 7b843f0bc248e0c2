package sourcemap

import "testing"

func TestNew(t *testing.T) {
	source := []byte("import os\nimport sys\nprint(os.sep)")
	sm := New(source)

	if sm.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", sm.LineCount())
	}
}

func TestNew_EmptySource(t *testing.T) {
	sm := New([]byte{})
	if sm.LineCount() != 1 {
		// Empty source still has one empty "line"
		t.Errorf("LineCount() = %d, want 1", sm.LineCount())
	}
}

func TestNew_CRLF(t *testing.T) {
	source := []byte("import os\nprint(os.sep)\r\n")
	sm := New(source)

	if sm.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", sm.LineCount())
	}
	// Lines should have \r stripped
	if sm.Line(1) != "print(os.sep)" {
		t.Errorf("Line(1) = %q, want %q", sm.Line(1), "print(os.sep)")
	}
}

func TestLines(t *testing.T) {
	source := []byte("import os\nimport sys\nprint(os.sep)")
	sm := New(source)

	lines := sm.Lines()
	expected := []string{"import os", "import sys", "print(os.sep)"}

	if len(lines) != len(expected) {
		t.Fatalf("len(Lines()) = %d, want %d", len(lines), len(expected))
	}

	for i, want := range expected {
		if lines[i] != want {
			t.Errorf("Lines()[%d] = %q, want %q", i, lines[i], want)
		}
	}
}

func TestLine(t *testing.T) {
	source := []byte("line0\nline1\nline2")
	sm := New(source)

	tests := []struct {
		line int
		want string
	}{
		{0, "line0"},
		{1, "line1"},
		{2, "line2"},
		{-1, ""},  // out of range
		{3, ""},   // out of range
		{100, ""}, // out of range
	}

	for _, tt := range tests {
		got := sm.Line(tt.line)
		if got != tt.want {
			t.Errorf("Line(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSnippet(t *testing.T) {
	source := []byte("line0\nline1\nline2\nline3\nline4")
	sm := New(source)

	tests := []struct {
		name      string
		startLine int
		endLine   int
		want      string
	}{
		{"single line", 2, 2, "line2"},
		{"multiple lines", 1, 3, "line1\nline2\nline3"},
		{"all lines", 0, 4, "line0\nline1\nline2\nline3\nline4"},
		{"clamped start", -5, 1, "line0\nline1"},
		{"clamped end", 3, 100, "line3\nline4"},
		{"inverted range", 3, 1, ""},
		{"start out of range", 10, 15, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sm.Snippet(tt.startLine, tt.endLine)
			if got != tt.want {
				t.Errorf("Snippet(%d, %d) = %q, want %q", tt.startLine, tt.endLine, got, tt.want)
			}
		})
	}
}
