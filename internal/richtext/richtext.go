// Package richtext builds Markdown documents and renders them for the
// terminal with glamour.
package richtext

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders Markdown for terminal display using glamour.
// It returns styled output suitable for CLI display.
func RenderMarkdown(md string) (string, error) {
	return RenderMarkdownWithWidth(md, 80)
}

// RenderMarkdownWithWidth renders Markdown for terminal display with a custom width.
func RenderMarkdownWithWidth(md string, width int) (string, error) {
	if md == "" {
		return "", nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	out, err := r.Render(md)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// Document accumulates Markdown blocks.
type Document struct {
	b strings.Builder
}

// Heading appends a heading of the given level.
func (d *Document) Heading(level int, text string) *Document {
	d.block(strings.Repeat("#", level) + " " + text)
	return d
}

// Paragraph appends a paragraph.
func (d *Document) Paragraph(text string) *Document {
	d.block(text)
	return d
}

// Table appends a pipe table. Cells are escaped.
func (d *Document) Table(headers []string, rows [][]string) *Document {
	var t strings.Builder
	t.WriteString("| " + strings.Join(escapeAll(headers), " | ") + " |\n")
	t.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		t.WriteString("| " + strings.Join(escapeAll(row), " | ") + " |\n")
	}
	d.block(strings.TrimSuffix(t.String(), "\n"))
	return d
}

func (d *Document) block(s string) {
	if d.b.Len() > 0 {
		d.b.WriteString("\n\n")
	}
	d.b.WriteString(s)
}

// String returns the Markdown source.
func (d *Document) String() string {
	return d.b.String() + "\n"
}

// Code wraps s in backticks.
func Code(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}

// EscapeCell escapes characters that would break a table cell.
func EscapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func escapeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = EscapeCell(c)
	}
	return out
}
