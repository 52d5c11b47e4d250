package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"cycleflow/internal/flow"
)

// Fixed canvas size for raster output.
const (
	canvasWidth  = 10 * vg.Inch
	canvasHeight = 5 * vg.Inch
)

func writePNG(table *flow.PeriodTable, path string) error {
	p := plot.New()
	p.Title.Text = chartTitle
	p.X.Label.Text = xAxisTitle
	p.Y.Label.Text = yAxisTitle
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Y.Min = 0

	tops := stackedTops(table)

	// Paint the tallest band first so every lower band overdraws the fill
	// beneath its own top line, leaving one visible band per stage.
	lines := make([]*plotter.Line, len(table.Columns))
	for i := len(table.Columns) - 1; i >= 0; i-- {
		pts := make(plotter.XYs, len(table.Rows))
		for j, row := range table.Rows {
			pts[j].X = float64(row.Period.Unix())
			pts[j].Y = tops[i][j]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("build series %q: %w", table.Columns[i], err)
		}
		line.Color = plotutil.Color(i)
		line.FillColor = plotutil.Color(i)
		p.Add(line)
		lines[i] = line
	}

	// Legend entries in stacking order, outside the data area.
	for i, col := range table.Columns {
		p.Legend.Add(col, lines[i])
	}
	p.Legend.Top = true
	p.Legend.Padding = vg.Points(2)

	return p.Save(canvasWidth, canvasHeight, path)
}
