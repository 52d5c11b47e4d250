package cycletime

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const hoursPerDay = 24

// ReadCSV loads a cycle time table from the CSV export of the upstream cycle
// time computation. The header row names the columns: a "key" column,
// timestamp columns ("*_timestamp", RFC 3339 values), and one
// "<stage> duration" column per stage. Empty cells are missing values.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cycle time csv: %w", err)
	}
	defer f.Close()

	table, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("rows", len(table.Rows)).Msg("Loaded cycle time table")
	return table, nil
}

func parseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	table := &Table{}
	keyIdx := -1
	for i, col := range header {
		switch {
		case col == "key":
			keyIdx = i
		case strings.HasSuffix(col, "_timestamp"):
			table.TimestampColumns = append(table.TimestampColumns, col)
		case strings.HasSuffix(col, " duration"):
			table.DurationColumns = append(table.DurationColumns, col)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line++

		row := Row{
			Timestamps: make(map[string]time.Time),
			Durations:  make(map[string]time.Duration),
		}
		if keyIdx >= 0 && keyIdx < len(record) {
			row.Key = record[keyIdx]
		}

		for i, col := range header {
			if i >= len(record) {
				break
			}
			cell := strings.TrimSpace(record[i])
			if cell == "" || i == keyIdx {
				continue
			}
			switch {
			case strings.HasSuffix(col, "_timestamp"):
				ts, err := time.Parse(time.RFC3339, cell)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad %s %q: %w", line, col, cell, err)
				}
				row.Timestamps[col] = ts
			case strings.HasSuffix(col, " duration"):
				d, err := parseDurationCell(cell)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad %s %q: %w", line, col, cell, err)
				}
				row.Durations[col] = d
			}
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// parseDurationCell accepts either a Go duration literal ("36h") or a
// fractional day count ("1.5"), the two forms the upstream export produces.
func parseDurationCell(cell string) (time.Duration, error) {
	if d, err := time.ParseDuration(cell); err == nil {
		return d, nil
	}
	days, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("neither a duration nor a day count")
	}
	return time.Duration(days * hoursPerDay * float64(time.Hour)), nil
}
