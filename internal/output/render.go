package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"

	"github.com/basecamp/when/internal/observability"
	"github.com/basecamp/when/internal/tui"
)

// Renderer writes responses as styled terminal text.
type Renderer struct {
	width int

	summary   lipgloss.Style
	text      lipgloss.Style
	muted     lipgloss.Style
	highlight lipgloss.Style
	err       lipgloss.Style
	hint      lipgloss.Style
	header    lipgloss.Style
}

// NewRenderer creates a renderer using the resolved theme (see
// tui.ResolveTheme). Styling is enabled on a TTY or when forceStyled is set.
func NewRenderer(w io.Writer, forceStyled bool) *Renderer {
	return NewRendererWithTheme(w, forceStyled, tui.ResolveTheme())
}

// NewRendererWithTheme creates a renderer with a specific theme.
func NewRendererWithTheme(w io.Writer, forceStyled bool, theme tui.Theme) *Renderer {
	width, isTTY := terminalInfo(w)
	styled := isTTY || forceStyled

	// lipgloss.NewRenderer ignores the profile here, so set it globally.
	if styled {
		lipgloss.SetColorProfile(2) // TrueColor
	} else {
		lipgloss.SetColorProfile(0) // Ascii
		theme = tui.NoColorTheme()
	}

	// Output may be piped, so the background can't be probed: use Dark.
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		if c.Dark == "" {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Dark))
	}
	return &Renderer{
		width:     width,
		summary:   fg(theme.Accent).Bold(styled),
		text:      fg(theme.Text),
		muted:     fg(theme.Muted),
		highlight: fg(theme.Guess),
		err:       fg(theme.Error).Bold(styled),
		hint:      fg(theme.Muted).Italic(styled),
		header:    fg(theme.Text).Bold(styled),
	}
}

// terminalInfo returns the terminal width and whether w is a TTY.
func terminalInfo(w io.Writer) (width int, isTTY bool) {
	width = 80
	if f, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(f.Fd()); err == nil && cols >= 40 {
			width = cols
		}
		isTTY = term.IsTerminal(f.Fd())
	}
	return width, isTTY
}

// RenderResponse renders a success response.
func (r *Renderer) RenderResponse(w io.Writer, resp *Response) error {
	var b strings.Builder

	if resp.Summary != "" {
		b.WriteString(r.summary.Render(resp.Summary) + "\n\n")
	}

	body := shapeOf(NormalizeData(resp.Data))
	switch {
	case body.missing != "":
		b.WriteString(r.muted.Render("("+body.missing+")") + "\n")
	case body.rows != nil:
		r.renderTable(&b, body.rows)
	case body.object != nil:
		r.renderObject(&b, body.object)
	case body.list != nil:
		for _, item := range body.list {
			b.WriteString(r.text.Render("• "+formatCell(item)) + "\n")
		}
	default:
		b.WriteString(r.text.Render(body.text) + "\n")
	}

	if len(resp.Breadcrumbs) > 0 {
		b.WriteString("\n" + r.muted.Render("Next:") + "\n")
		for _, bc := range resp.Breadcrumbs {
			line := "  " + bc.Cmd
			if bc.Description != "" {
				line += "  # " + bc.Description
			}
			b.WriteString(r.muted.Render(line) + "\n")
		}
	}

	if parts := statsParts(resp.Meta); len(parts) > 0 {
		b.WriteString("\n" + r.muted.Render("Stats: "+strings.Join(parts, " | ")) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderError renders an error response.
func (r *Renderer) RenderError(w io.Writer, resp *ErrorResponse) error {
	out := r.err.Render("Error: "+resp.Error) + "\n"
	if resp.Hint != "" {
		out += r.hint.Render("Hint: "+resp.Hint) + "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

func (r *Renderer) renderTable(b *strings.Builder, rows []map[string]any) {
	keys := r.fitColumns(fieldOrder(rows[0], skipColumns), rows)
	if len(keys) == 0 {
		return
	}

	headers := make([]string, len(keys))
	for i, k := range keys {
		headers[i] = formatHeader(k)
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			return r.valueStyle(keys[col])
		})
	for _, item := range rows {
		cells := make([]string, len(keys))
		for i, k := range keys {
			cells[i] = formatDateValue(k, item[k])
		}
		t.Row(cells...)
	}

	b.WriteString(t.String() + "\n")
}

// fitColumns drops the lowest-priority columns until the table fits the
// terminal. At least one column is kept.
func (r *Renderer) fitColumns(keys []string, rows []map[string]any) []string {
	const padding, maxWidth = 2, 40

	widths := make([]int, len(keys))
	for i, k := range keys {
		widths[i] = lipgloss.Width(formatHeader(k))
		for _, row := range rows {
			widths[i] = max(widths[i], lipgloss.Width(formatDateValue(k, row[k])))
		}
		widths[i] = min(widths[i], maxWidth)
	}

	for n := len(keys); n > 1; n-- {
		total := 0
		for _, w := range widths[:n] {
			total += w + padding
		}
		if total <= r.width {
			return keys[:n]
		}
	}
	return keys[:min(1, len(keys))]
}

func (r *Renderer) renderObject(b *strings.Builder, data map[string]any) {
	keys := fieldOrder(data, skipObjectFields)
	if len(keys) == 0 {
		b.WriteString(r.muted.Render("(no data)") + "\n")
		return
	}

	labelWidth := 0
	for _, k := range keys {
		labelWidth = max(labelWidth, len(formatHeader(k)))
	}
	for _, k := range keys {
		label := r.muted.Render(fmt.Sprintf("%-*s: ", labelWidth, formatHeader(k)))
		b.WriteString(label + r.valueStyle(k).Render(formatDateValue(k, data[k])) + "\n")
	}
}

func (r *Renderer) valueStyle(key string) lipgloss.Style {
	switch {
	case highlightFields[key]:
		return r.highlight
	case mutedFields[key]:
		return r.muted
	}
	return r.text
}

// MarkdownRenderer writes responses as literal Markdown (portable, pipeable).
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a Markdown renderer.
func NewMarkdownRenderer(io.Writer) *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// RenderResponse renders a success response as Markdown.
func (r *MarkdownRenderer) RenderResponse(w io.Writer, resp *Response) error {
	var b strings.Builder

	if resp.Summary != "" {
		b.WriteString("## " + resp.Summary + "\n\n")
	}

	body := shapeOf(NormalizeData(resp.Data))
	switch {
	case body.missing != "":
		b.WriteString("*" + strings.ToUpper(body.missing[:1]) + body.missing[1:] + "*\n")
	case body.rows != nil:
		writeMarkdownTable(&b, body.rows)
	case body.object != nil:
		keys := fieldOrder(body.object, skipObjectFields)
		if len(keys) == 0 {
			b.WriteString("*No data*\n")
		}
		for _, k := range keys {
			b.WriteString("- **" + formatHeader(k) + ":** " + formatDateValue(k, body.object[k]) + "\n")
		}
	case body.list != nil:
		for _, item := range body.list {
			b.WriteString("- " + formatCell(item) + "\n")
		}
	default:
		b.WriteString(body.text + "\n")
	}

	if len(resp.Breadcrumbs) > 0 {
		b.WriteString("\n### Next\n\n")
		for _, bc := range resp.Breadcrumbs {
			line := "- `" + bc.Cmd + "`"
			if bc.Description != "" {
				line += ": " + bc.Description
			}
			b.WriteString(line + "\n")
		}
	}

	if parts := statsParts(resp.Meta); len(parts) > 0 {
		b.WriteString("\n*Stats: " + strings.Join(parts, " | ") + "*\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderError renders an error response as Markdown.
func (r *MarkdownRenderer) RenderError(w io.Writer, resp *ErrorResponse) error {
	out := "**Error:** " + resp.Error + "\n"
	if resp.Hint != "" {
		out += "\n*Hint: " + resp.Hint + "*\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

func writeMarkdownTable(b *strings.Builder, rows []map[string]any) {
	keys := fieldOrder(rows[0], skipColumns)
	if len(keys) == 0 {
		return
	}

	headers := make([]string, len(keys))
	seps := make([]string, len(keys))
	for i, k := range keys {
		headers[i] = formatHeader(k)
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")

	for _, item := range rows {
		cells := make([]string, len(keys))
		for i, k := range keys {
			cells[i] = strings.ReplaceAll(formatDateValue(k, item[k]), "|", "\\|")
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

// shape is normalized response data classified for rendering. Exactly one
// field is set, except for plain text which may be empty.
type shape struct {
	missing string
	rows    []map[string]any
	object  map[string]any
	list    []any
	text    string
}

func shapeOf(data any) shape {
	switch d := data.(type) {
	case nil:
		return shape{missing: "no data"}
	case []map[string]any:
		if len(d) == 0 {
			return shape{missing: "no results"}
		}
		return shape{rows: d}
	case map[string]any:
		return shape{object: d}
	case []any:
		if len(d) == 0 {
			return shape{missing: "no results"}
		}
		if rows := toMapSlice(d); rows != nil {
			return shape{rows: rows}
		}
		return shape{list: d}
	case string:
		return shape{text: d}
	default:
		return shape{text: fmt.Sprintf("%v", d)}
	}
}

func toMapSlice(slice []any) []map[string]any {
	result := make([]map[string]any, 0, len(slice))
	for _, item := range slice {
		m, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		result = append(result, m)
	}
	return result
}

// fieldPriority orders columns and object fields; unlisted keys sort last.
var fieldPriority = map[string]int{
	"input":    1,
	"word":     1,
	"group":    1,
	"key":      1,
	"name":     2,
	"guess":    2,
	"date":     2,
	"tags":     2,
	"value":    2,
	"begin":    3,
	"pattern":  3,
	"source":   3,
	"end":      4,
	"relative": 5,
	"handler":  5,
	"interval": 6,
	"duration": 6,
	"width":    7,
	"at":       8,
}

// highlightFields hold the resolved answer of a command.
var highlightFields = map[string]bool{
	"guess": true,
	"date":  true,
}

var mutedFields = map[string]bool{
	"width":       true,
	"interval":    true,
	"duration":    true,
	"at":          true,
	"description": true,
}

var skipColumns = map[string]bool{
	"tokens":     true,
	"normalized": true,
}

var skipObjectFields = map[string]bool{
	"tokens": true,
}

// fieldOrder returns the renderable keys of m by priority, then name.
// Nested objects and arrays other than tag lists are left out.
func fieldOrder(m map[string]any, skip map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if skip[k] {
			continue
		}
		switch v.(type) {
		case map[string]any, []map[string]any:
			continue
		case []any:
			if k != "tags" {
				continue
			}
		}
		keys = append(keys, k)
	}

	rank := func(k string) int {
		if p, ok := fieldPriority[k]; ok {
			return p
		}
		return 50
	}
	sort.Slice(keys, func(i, j int) bool {
		if pi, pj := rank(keys[i]), rank(keys[j]); pi != pj {
			return pi < pj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func formatHeader(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatCell(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return ansi.Truncate(v, 40, "...")
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%.2f", v)
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = formatCell(item)
		}
		return strings.Join(items, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// timeFields hold RFC 3339 timestamps.
var timeFields = map[string]bool{
	"begin": true,
	"end":   true,
	"guess": true,
	"now":   true,
	"at":    true,
}

// formatDateValue renders timestamp fields readably, dropping the clock at
// midnight. Anything else is formatted as a plain cell.
func formatDateValue(key string, val any) string {
	str, ok := val.(string)
	if !timeFields[key] || !ok {
		return formatCell(val)
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return formatCell(val)
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("Mon Jan 2 2006")
	}
	return t.Format("Mon Jan 2 2006 15:04:05 MST")
}

// statsParts formats the --stats metrics carried in response meta.
func statsParts(meta map[string]any) []string {
	stats, _ := meta["stats"].(map[string]any)
	if stats == nil {
		return nil
	}
	return observability.SessionMetricsFromMap(stats).FormatParts()
}
