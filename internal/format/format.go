package format

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ColumnAlign specifies the horizontal alignment for a column.
type ColumnAlign int

const (
	AlignDefault ColumnAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// ColumnConfig controls per-column formatting.
type ColumnConfig struct {
	Number   int         // 1-based column index
	Align    ColumnAlign // horizontal alignment
	MaxWidth int         // truncate or wrap content beyond this width (0 = unlimited)
}

// RightAlign builds the column configs for a run of numeric columns.
// Report tables here are label-first with counts and rates to the
// right, so this covers almost every table the CLI prints.
func RightAlign(cols ...int) []ColumnConfig {
	cfgs := make([]ColumnConfig, len(cols))
	for i, n := range cols {
		cfgs[i] = ColumnConfig{Number: n, Align: AlignRight}
	}
	return cfgs
}

// TableBuilder is the project-owned table abstraction. Build a table
// once; the Mode chosen at creation decides whether String renders it
// for a terminal or for Markdown.
type TableBuilder interface {
	// Header sets the column headers.
	Header(cols ...string)
	// Row appends a data row. Values are converted to strings via fmt Sprint.
	Row(vals ...any)
	// Footer appends a footer row (e.g. totals).
	Footer(vals ...any)
	// Columns applies per-column configuration (alignment, max width).
	Columns(cfgs ...ColumnConfig)
	// String renders the table in the configured Mode.
	String() string
}

// NewTable returns a TableBuilder that renders in the given Mode.
func NewTable(m Mode) TableBuilder {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return &goPrettyTable{writer: w, mode: m}
}

// goPrettyTable backs TableBuilder with go-pretty/v6/table.Writer.
type goPrettyTable struct {
	writer table.Writer
	mode   Mode
}

func (g *goPrettyTable) Header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	g.writer.AppendHeader(row)
}

func (g *goPrettyTable) Row(vals ...any) {
	row := make(table.Row, len(vals))
	copy(row, vals)
	g.writer.AppendRow(row)
}

func (g *goPrettyTable) Footer(vals ...any) {
	row := make(table.Row, len(vals))
	copy(row, vals)
	g.writer.AppendFooter(row)
}

func (g *goPrettyTable) Columns(cfgs ...ColumnConfig) {
	goCfgs := make([]table.ColumnConfig, len(cfgs))
	for i, c := range cfgs {
		goCfgs[i] = table.ColumnConfig{
			Number:   c.Number,
			Align:    toTextAlign(c.Align),
			WidthMax: c.MaxWidth,
		}
	}
	g.writer.SetColumnConfigs(goCfgs)
}

func (g *goPrettyTable) String() string {
	if g.mode == Markdown {
		return g.writer.RenderMarkdown()
	}
	return g.writer.Render()
}

func toTextAlign(a ColumnAlign) text.Align {
	switch a {
	case AlignLeft:
		return text.AlignLeft
	case AlignRight:
		return text.AlignRight
	case AlignCenter:
		return text.AlignCenter
	default:
		return text.AlignDefault
	}
}
