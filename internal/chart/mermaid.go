package chart

import (
	"fmt"
	"math"
	"os"
	"strings"

	"cycleflow/internal/flow"
)

// writeMermaid emits the aggregate as a Mermaid xychart-beta code block, one
// line per stage plotted at its cumulative stack height so the bands read the
// same way the area chart does. Handy for embedding in Markdown reports.
func writeMermaid(table *flow.PeriodTable, path string) error {
	labels := make([]string, len(table.Rows))
	for j, row := range table.Rows {
		labels[j] = fmt.Sprintf("\"%s\"", row.Period.Format("2006-01-02"))
	}

	tops := stackedTops(table)

	maxY := 1.0
	if n := len(table.Columns); n > 0 {
		for _, v := range tops[n-1] {
			if v*1.2 > maxY {
				maxY = v * 1.2
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %q\n", chartTitle))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis %q 0 --> %d\n", yAxisTitle, int(math.Ceil(maxY))))

	for i := range table.Columns {
		values := make([]string, len(table.Rows))
		for j, v := range tops[i] {
			values[j] = fmt.Sprintf("%.2f", v)
		}
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	}
	sb.WriteString("```\n")

	return os.WriteFile(path, []byte(sb.String()), 0644)
}
