// Package chart renders cycle flow aggregates as stacked area charts. It
// draws the table exactly as given: column order is the stacking order and
// rows are never re-bucketed or re-sorted.
package chart

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"cycleflow/internal/flow"
)

const (
	chartTitle = "Cycle flow"
	xAxisTitle = "Period of issue complete"
	yAxisTitle = "Time spent (days)"
)

// WriteCycleFlow renders table as a stacked area chart at path. The format
// follows the file extension: .html produces an interactive chart, .md a
// Mermaid code block, anything else a PNG raster. A table with zero rows is
// not drawable; it logs a
// warning and writes nothing. Write failures propagate unmodified.
func WriteCycleFlow(table *flow.PeriodTable, path string) error {
	if len(table.Rows) == 0 {
		log.Warn().Msg("Cannot draw cycle flow without data")
		return nil
	}

	log.Info().Str("path", path).Msg("Writing cycle flow chart")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html":
		return writeHTML(table, path)
	case ".md":
		return writeMermaid(table, path)
	default:
		return writePNG(table, path)
	}
}

// stackedTops returns, per column, the cumulative stack height at every row:
// tops[i][j] is the sum of columns 0..i at row j.
func stackedTops(table *flow.PeriodTable) [][]float64 {
	tops := make([][]float64, len(table.Columns))
	running := make([]float64, len(table.Rows))
	for i := range table.Columns {
		layer := make([]float64, len(table.Rows))
		for j, row := range table.Rows {
			running[j] += row.Totals[i]
			layer[j] = running[j]
		}
		tops[i] = layer
	}
	return tops
}
