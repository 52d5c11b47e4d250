// Package export writes cycle flow aggregates as data files alongside the
// rendered charts.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"cycleflow/internal/flow"
)

// WritePeriodTable writes the aggregate as CSV: a "period" column followed by
// the duration columns in table order, one row per bucket. The file is
// written to a temp path and renamed so readers never observe a partial file.
func WritePeriodTable(table *flow.PeriodTable, path string) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}

	w := csv.NewWriter(f)

	header := append([]string{"period"}, table.Columns...)
	if err := w.Write(header); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}

	for _, row := range table.Rows {
		record := make([]string, 0, len(row.Totals)+1)
		record = append(record, row.Period.Format("2006-01-02"))
		for _, v := range row.Totals {
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := w.Write(record); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush data file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close data file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename data file: %w", err)
	}

	log.Info().Str("path", path).Int("rows", len(table.Rows)).Msg("Wrote cycle flow data")
	return nil
}
