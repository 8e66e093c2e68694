package charts

import (
	"fmt"
	"math"

	"github.com/mkarlin/agepanel/panel"
	"github.com/mkarlin/agepanel/regress"
)

var palette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b"}

func seriesColor(ind int) string {
	return palette[ind%len(palette)]
}

// fillColor is the series color at low opacity, for ribbons.
func fillColor(ind int) string {
	var r, g, b int
	if _, err := fmt.Sscanf(seriesColor(ind), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return "rgba(100,100,100,0.2)"
	}

	return fmt.Sprintf("rgba(%d,%d,%d,0.2)", r, g, b)
}

// ExpenditureByAging renders median R&D expenditure over time by aging
// category, with the periodic delta labels as point annotations.
func ExpenditureByAging(cats []panel.CategoryYear, fileName string) error {
	if len(cats) == 0 {
		return fmt.Errorf("expenditure chart: no category summaries")
	}

	p := NewPlot(
		WithTitle("R&D expenditure by aging intensity"),
		WithXlabel("Year"),
		WithYlabel("R&D expenditure (% of GDP)"),
		WithLegend(true),
		WithWidth(900),
		WithHeight(550),
	)

	ind := 0
	for start := 0; start < len(cats); {
		end := start
		for end < len(cats) && cats[end].Index == cats[start].Index {
			end++
		}

		var (
			x, y   []float64
			labels []string
		)
		for _, c := range cats[start:end] {
			if math.IsNaN(c.RDExpend) {
				continue
			}

			x = append(x, float64(c.Year))
			y = append(y, c.RDExpend)
			labels = append(labels, c.Label)
		}

		p.PlotSeries(x, y, labels, cats[start].Category, seriesColor(ind))

		start = end
		ind++
	}

	return p.WriteHTML(fileName)
}

// MarginalEffects renders predicted response vs the dependency ratio with
// confidence ribbons, one subplot per region.
func MarginalEffects(preds []regress.Prediction, title, yLabel, fileName string) error {
	if len(preds) == 0 {
		return fmt.Errorf("marginal effects chart: no predictions")
	}

	regions := levelOrder(preds)
	rows := (len(regions) + facetCols - 1) / facetCols
	cols := facetCols
	if len(regions) < cols {
		cols = len(regions)
	}

	p := NewPlot(
		WithTitle(title),
		WithXlabel("Old-age dependency ratio"),
		WithYlabel(yLabel),
		WithLegend(true),
		WithGrid(rows, cols),
		WithWidth(1100),
		WithHeight(650),
	)

	for ind, region := range regions {
		var x, fit, lo, hi []float64
		for _, pr := range preds {
			if pr.Level != region {
				continue
			}

			x = append(x, pr.X)
			fit = append(fit, pr.Fit)
			lo = append(lo, pr.Lower)
			hi = append(hi, pr.Upper)
		}

		p.PlotRibbon(x, lo, hi, region, fillColor(ind), ind+1)
		p.PlotXY(x, fit, region, seriesColor(ind), ind+1)
	}

	return p.WriteHTML(fileName)
}

func levelOrder(preds []regress.Prediction) []string {
	var out []string
	for _, pr := range preds {
		if !contains(out, pr.Level) {
			out = append(out, pr.Level)
		}
	}

	return out
}
