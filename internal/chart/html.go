package chart

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"cycleflow/internal/flow"
)

func writeHTML(table *flow.PeriodTable, path string) error {
	graph := charts.NewLine()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1200px",
			Height: "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: chartTitle,
			Left:  "center",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: xAxisTitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: yAxisTitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		// Legend below the grid, outside the drawing area.
		charts.WithLegendOpts(opts.Legend{
			Show: true,
			Top:  "bottom",
			Left: "center",
		}),
	)

	xAxis := make([]string, len(table.Rows))
	for j, row := range table.Rows {
		xAxis[j] = row.Period.Format("2006-01-02")
	}
	graph.SetXAxis(xAxis)

	for i, col := range table.Columns {
		series := make([]opts.LineData, len(table.Rows))
		for j, row := range table.Rows {
			series[j] = opts.LineData{Value: row.Totals[i]}
		}
		graph.AddSeries(col, series)
	}
	graph.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Stack: "total"}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.6}),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	return graph.Render(f)
}
