package flow

import (
	"fmt"
	"sort"
	"time"

	"cycleflow/internal/cycletime"
)

const secondsPerDay = 86400.0

// ConfigurationError reports a configured stage or resample column that has
// no corresponding column in the cycle time table. It is a caller contract
// violation, never a data condition.
type ConfigurationError struct {
	Column string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no %q column in cycle time data", e.Column)
}

// PeriodRow is the aggregate for a single bucket. Totals is aligned with the
// owning table's Columns and holds fractional days.
type PeriodRow struct {
	Period time.Time
	Totals []float64
}

// PeriodTable is the bucketed cycle flow aggregate: one row per period that
// contained at least one item, one column per active stage, in the configured
// stage order.
type PeriodTable struct {
	Columns []string
	Rows    []PeriodRow
}

// Aggregate sums the time items spent in each active stage, bucketed by the
// period their resampleOn timestamp falls in.
//
// stages defines both which duration columns are selected and the output
// column order. Rows without the resampleOn timestamp are dropped; missing
// durations count as zero. ok is false when no row carried a usable
// timestamp, a condition distinct from an empty table: callers must not
// chart or format the result in that case.
//
// The function is pure: identical inputs yield identical tables.
func Aggregate(data *cycletime.Table, stages []string, freq Frequency, resampleOn string) (table *PeriodTable, ok bool, err error) {
	if resampleOn == "" {
		resampleOn = cycletime.ColCompleted
	}

	columns := make([]string, len(stages))
	for i, stage := range stages {
		col := cycletime.DurationColumn(stage)
		if !data.HasDurationColumn(col) {
			return nil, false, &ConfigurationError{Column: col}
		}
		columns[i] = col
	}
	if !data.HasTimestampColumn(resampleOn) {
		return nil, false, &ConfigurationError{Column: resampleOn}
	}

	// Sum native durations per bucket; conversion to days happens once at
	// the end so 36h comes out as exactly 1.5.
	totals := make(map[time.Time][]time.Duration)
	for _, row := range data.Rows {
		ts, hasTS := row.Timestamp(resampleOn)
		if !hasTS {
			continue
		}

		period := PeriodEnd(ts, freq)
		sums, seen := totals[period]
		if !seen {
			sums = make([]time.Duration, len(columns))
			totals[period] = sums
		}
		for i, col := range columns {
			sums[i] += row.Durations[col] // missing key reads as zero
		}
	}

	if len(totals) == 0 {
		return nil, false, nil
	}

	periods := make([]time.Time, 0, len(totals))
	for p := range totals {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	rows := make([]PeriodRow, 0, len(periods))
	for _, p := range periods {
		days := make([]float64, len(columns))
		for i, d := range totals[p] {
			days[i] = d.Seconds() / secondsPerDay
		}
		rows = append(rows, PeriodRow{Period: p, Totals: days})
	}

	return &PeriodTable{Columns: columns, Rows: rows}, true, nil
}
