package render

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlighter renders the source panels on file pages. Markup uses CSS
// classes (assets/chroma.css) instead of inline styles so repeated pages
// stay small and the palette lives in one place.
type highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

func newHighlighter() *highlighter {
	lexer := lexers.Get("python")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	return &highlighter{
		lexer: chroma.Coalesce(lexer),
		style: style,
	}
}

// HTML highlights src with numbered, linkable lines (#L<n> anchors) and
// marks the given 1-based issue lines.
func (h *highlighter) HTML(src []byte, issueLines []int) (template.HTML, error) {
	iterator, err := h.lexer.Tokenise(nil, string(src))
	if err != nil {
		return "", fmt.Errorf("tokenise source: %w", err)
	}

	marked := slices.Clone(issueLines)
	slices.Sort(marked)
	marked = slices.Compact(marked)

	ranges := make([][2]int, 0, len(marked))
	for _, line := range marked {
		ranges = append(ranges, [2]int{line, line})
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.WithLineNumbers(true),
		chromahtml.WithLinkableLineNumbers(true, "L"),
		chromahtml.HighlightLines(ranges),
	)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("format source: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// CSS returns the stylesheet backing the class-based highlight markup.
func (h *highlighter) CSS() (string, error) {
	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.WithLineNumbers(true),
		chromahtml.WithLinkableLineNumbers(true, "L"),
	)

	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("write highlight css: %w", err)
	}
	return buf.String(), nil
}
