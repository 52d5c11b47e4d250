package cycletime

import "time"

// Canonical timestamp column names shared with the upstream cycle time
// computation. The resample column defaults to ColCompleted but callers may
// substitute ColStarted to bucket on when work began instead.
const (
	ColCompleted = "completed_timestamp"
	ColStarted   = "started_timestamp"
)

// DurationColumn returns the duration column name for a stage. The
// "<stage> duration" convention is a contract with the upstream producer.
func DurationColumn(stage string) string {
	return stage + " duration"
}

// Row is a single workflow item from the cycle time table.
//
// Absence of a key in Timestamps means the item never reached that point
// (e.g. not yet completed). Absence of a key in Durations means the item has
// no recorded time for that column; aggregation treats it as zero.
type Row struct {
	Key        string
	Timestamps map[string]time.Time
	Durations  map[string]time.Duration
}

// Timestamp returns the named timestamp and whether the row carries it.
// A zero time stored under the key counts as absent.
func (r Row) Timestamp(column string) (time.Time, bool) {
	ts, ok := r.Timestamps[column]
	if !ok || ts.IsZero() {
		return time.Time{}, false
	}
	return ts, true
}

// Table is the per-item cycle time table. Column slices carry the upstream
// column order; Rows may omit values for any column.
type Table struct {
	TimestampColumns []string
	DurationColumns  []string
	Rows             []Row
}

// HasDurationColumn reports whether the table carries the named duration column.
func (t *Table) HasDurationColumn(name string) bool {
	for _, c := range t.DurationColumns {
		if c == name {
			return true
		}
	}
	return false
}

// HasTimestampColumn reports whether the table carries the named timestamp column.
func (t *Table) HasTimestampColumn(name string) bool {
	for _, c := range t.TimestampColumns {
		if c == name {
			return true
		}
	}
	return false
}
