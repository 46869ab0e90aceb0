package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
)

const (
	// StartTimeLayout and EndTimeLayout format the banner timestamps
	StartTimeLayout = "2006-01-02 15:04:05"
	EndTimeLayout   = "15:04:05"

	unknown   = "Unknown"
	ansiReset = "\033[0m"
)

var (
	colorHeader = text.Colors{text.FgBlue}
	colorValue  = text.Colors{text.FgYellow}
	colorEnd    = text.Colors{text.FgGreen}
)

// Renderer prints the banner and hop table
type Renderer struct {
	out        io.Writer
	classifier Classifier
	colors     bool
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer, classifier Classifier, colors bool) *Renderer {
	return &Renderer{
		out:        out,
		classifier: classifier,
		colors:     colors,
	}
}

func (r *Renderer) paint(c text.Colors, s string) string {
	if !r.colors {
		return s
	}
	return c.EscapeSeq() + s + ansiReset
}

func (r *Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)
	return t
}

// Render prints the banner followed by the hop table
func (r *Renderer) Render(rep *Report, start, end string) {
	r.RenderBanner(rep.Mtr, start, end)
	r.RenderTable(rep.Hubs)
}

// RenderBanner prints a single-row table describing the run
func (r *Renderer) RenderBanner(meta Metadata, start, end string) {
	label := func(name, value string, c text.Colors) string {
		return fmt.Sprintf("%s %s", r.paint(colorHeader, name), r.paint(c, value))
	}

	t := r.newTable()
	t.AppendRow(table.Row{
		label("Start:", start, colorValue),
		label("Source:", meta.Src.Or(unknown), colorValue),
		label("Destination:", meta.Dst.Or(unknown), colorValue),
		label("Count:", meta.Tests.Or(unknown), colorValue),
		label("End:", end, colorEnd),
	})
	t.Render()
}

// RenderTable prints one right-aligned row per hop, in input order.
// Loss and latency cells are colored by severity, headers are blue.
func (r *Renderer) RenderTable(hubs []Hop) {
	if len(hubs) == 0 {
		fmt.Fprintln(r.out, "No hops reported.")
		return
	}

	columns := hubs[0].Columns()
	header := lo.Map(columns, func(c string, _ int) any {
		return r.paint(colorHeader, c)
	})

	t := r.newTable()
	t.AppendHeader(table.Row(header))
	for _, hop := range hubs {
		row := make(table.Row, 0, len(hop.Fields))
		for _, f := range hop.Fields {
			row = append(row, r.cell(f))
		}
		t.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, 0, len(columns))
	for i := range columns {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignRight,
		})
	}
	t.SetColumnConfigs(configs)
	t.Render()
}

// cell prints mtr's own text for every column; classified columns only gain a color
func (r *Renderer) cell(f Field) string {
	if v, ok := r.classifier.ClassifyField(f); ok {
		return r.paint(v.Severity.Colors(), f.Raw)
	}
	return f.Raw
}
