package charts

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mkarlin/agepanel/panel"
)

// Fixed raster dimensions of the regional trends chart.
const (
	trendWidth  = 12 * vg.Inch
	trendHeight = 7 * vg.Inch
	trendDPI    = 150

	facetCols = 3
)

var trendColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// RegionTrends renders the per-region median dependency-ratio series as a
// faceted PNG, one panel per region, at fixed dimensions and resolution.
func RegionTrends(summaries []panel.RegionYear, fileName string) error {
	regions := regionOrder(summaries)
	if len(regions) == 0 {
		return fmt.Errorf("region trends: no summaries")
	}

	rows := (len(regions) + facetCols - 1) / facetCols
	cols := facetCols
	if len(regions) < cols {
		cols = len(regions)
	}

	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
	}

	for ind, region := range regions {
		var xys plotter.XYs
		for _, s := range summaries {
			if s.Region != region || math.IsNaN(s.DepRatio) {
				continue
			}

			xys = append(xys, plotter.XY{X: float64(s.Year), Y: s.DepRatio})
		}

		p := plot.New()
		p.Title.Text = region
		p.Title.TextStyle.Font.Size = vg.Points(10)
		p.X.Label.Text = "Year"
		p.Y.Label.Text = "Old-age dependency ratio"

		if len(xys) > 0 {
			line, err := plotter.NewLine(xys)
			if err != nil {
				return fmt.Errorf("region trends %s: %w", region, err)
			}

			line.Color = trendColor
			line.Width = vg.Points(1.5)
			p.Add(line)
		}

		plots[ind/cols][ind%cols] = p
	}

	img := vgimg.NewWith(vgimg.UseWH(trendWidth, trendHeight), vgimg.UseDPI(trendDPI))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,
	}

	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("region trends: %w", err)
	}
	defer func() { _ = f.Close() }()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("region trends: %w", err)
	}

	return nil
}

// regionOrder returns the regions present, in summary order.
func regionOrder(summaries []panel.RegionYear) []string {
	var out []string
	for _, s := range summaries {
		if !contains(out, s.Region) {
			out = append(out, s.Region)
		}
	}

	return out
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}

	return false
}
