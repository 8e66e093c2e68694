// Package charts renders the pipeline's output artifacts: one static faceted
// PNG and three self-contained interactive HTML documents.
package charts

import (
	"fmt"
	"os"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/MetalBlueberry/go-plotly/offline"
)

type Plot struct {
	Fig *grob.Fig
	Lay *grob.Layout
}

type Opt func(plot *Plot) *Plot

func NewPlot(opt ...Opt) *Plot {
	fig := &grob.Fig{}
	lay := &grob.Layout{}
	fig.Layout = lay
	p := &Plot{Fig: fig, Lay: lay}
	for _, o := range opt {
		o(p)
	}

	return p
}

func WithWidth(w float64) Opt {
	if w < 0.0 {
		panic(fmt.Errorf("negative width"))
	}
	return func(p *Plot) *Plot {
		p.Lay.Width = w
		return p
	}
}

func WithHeight(h float64) Opt {
	if h < 0.0 {
		panic(fmt.Errorf("negative height"))
	}
	return func(p *Plot) *Plot {
		p.Lay.Height = h
		return p
	}
}

func WithTitle(title string) Opt {
	return func(p *Plot) *Plot { p.Lay.Title = &grob.LayoutTitle{Text: title}; return p }
}

func WithLegend(show bool) Opt {
	return func(p *Plot) *Plot {
		if show {
			p.Lay.Showlegend = grob.True
		} else {
			p.Lay.Showlegend = grob.False
		}

		return p
	}
}

func WithXlabel(label string) Opt {
	return func(p *Plot) *Plot {
		if p.Lay.Xaxis == nil {
			p.Lay.Xaxis = &grob.LayoutXaxis{}
		}
		if p.Lay.Xaxis.Title == nil {
			p.Lay.Xaxis.Title = &grob.LayoutXaxisTitle{}
		}

		p.Lay.Xaxis.Title.Text = label
		return p
	}
}

func WithYlabel(label string) Opt {
	return func(p *Plot) *Plot {
		if p.Lay.Yaxis == nil {
			p.Lay.Yaxis = &grob.LayoutYaxis{}
		}
		if p.Lay.Yaxis.Title == nil {
			p.Lay.Yaxis.Title = &grob.LayoutYaxisTitle{}
		}

		p.Lay.Yaxis.Title.Text = label
		return p
	}
}

// WithGrid arranges subsequent traces into an independent subplot grid; trace
// axis 1 maps to the first cell.
func WithGrid(rows, cols int) Opt {
	return func(p *Plot) *Plot {
		p.Lay.Grid = &grob.LayoutGrid{
			Rows:    int64(rows),
			Columns: int64(cols),
			Pattern: grob.LayoutGridPattern("independent"),
		}

		return p
	}
}

// PlotXY adds a plain line trace on subplot axis (1-based; 1 is the default
// axis pair).
func (p *Plot) PlotXY(x, y []float64, seriesName, color string, axis int) {
	xref, yref := axisRef(axis)
	tr := &grob.Scatter{
		Name:  seriesName,
		X:     x,
		Y:     y,
		Mode:  grob.ScatterModeLines,
		Line:  &grob.ScatterLine{Color: color},
		Xaxis: xref,
		Yaxis: yref,
	}

	p.Fig.AddTraces(tr)
}

// PlotSeries adds a line+marker trace with optional per-point text labels
// (empty strings render nothing).
func (p *Plot) PlotSeries(x, y []float64, labels []string, seriesName, color string) {
	tr := &grob.Scatter{
		Name:         seriesName,
		X:            x,
		Y:            y,
		Mode:         grob.ScatterMode("lines+markers+text"),
		Line:         &grob.ScatterLine{Color: color},
		Marker:       &grob.ScatterMarker{Color: color},
		Text:         labels,
		Textposition: grob.ScatterTextposition("top center"),
	}

	p.Fig.AddTraces(tr)
}

// PlotRibbon adds a filled band between lo and hi on the given subplot axis.
func (p *Plot) PlotRibbon(x, lo, hi []float64, seriesName, fillColor string, axis int) {
	xref, yref := axisRef(axis)
	edge := &grob.ScatterLine{Color: fillColor}

	lower := &grob.Scatter{
		Name:       seriesName,
		X:          x,
		Y:          lo,
		Mode:       grob.ScatterModeLines,
		Line:       edge,
		Xaxis:      xref,
		Yaxis:      yref,
		Showlegend: grob.False,
	}
	upper := &grob.Scatter{
		Name:       seriesName,
		X:          x,
		Y:          hi,
		Mode:       grob.ScatterModeLines,
		Line:       edge,
		Fill:       grob.ScatterFill("tonexty"),
		Fillcolor:  fillColor,
		Xaxis:      xref,
		Yaxis:      yref,
		Showlegend: grob.False,
	}

	p.Fig.AddTraces(lower, upper)
}

// WriteHTML exports the figure as a self-contained interactive document.
func (p *Plot) WriteHTML(fileName string) error {
	offline.ToHtml(p.Fig, fileName)

	info, err := os.Stat(fileName)
	if err != nil {
		return fmt.Errorf("plot %s not written: %w", fileName, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("plot %s is empty", fileName)
	}

	return nil
}

// axisRef maps a 1-based subplot index to plotly axis references.
func axisRef(axis int) (string, string) {
	if axis <= 1 {
		return "x", "y"
	}

	return fmt.Sprintf("x%d", axis), fmt.Sprintf("y%d", axis)
}
