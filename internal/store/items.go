package store

import (
	"database/sql"
	"fmt"
	"time"

	"cycleflow/internal/cycletime"
)

// ImportTable replaces the cached cycle time table with the given one in a
// single transaction. Absent timestamps are stored as NULL; the upstream
// duration column order is preserved.
func (s *Store) ImportTable(table *cycletime.Table) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM stage_durations",
		"DELETE FROM items",
		"DELETE FROM duration_columns",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}

	for i, col := range table.DurationColumns {
		if _, err := tx.Exec(
			"INSERT INTO duration_columns (name, position) VALUES (?, ?)", col, i,
		); err != nil {
			return fmt.Errorf("insert column %q: %w", col, err)
		}
	}

	for _, row := range table.Rows {
		if _, err := tx.Exec(
			"INSERT INTO items (key, started_at, completed_at) VALUES (?, ?, ?)",
			row.Key,
			nullableTime(row, cycletime.ColStarted),
			nullableTime(row, cycletime.ColCompleted),
		); err != nil {
			return fmt.Errorf("insert item %q: %w", row.Key, err)
		}

		for col, d := range row.Durations {
			if _, err := tx.Exec(
				"INSERT INTO stage_durations (item_key, stage, seconds) VALUES (?, ?, ?)",
				row.Key, col, d.Seconds(),
			); err != nil {
				return fmt.Errorf("insert duration %q/%q: %w", row.Key, col, err)
			}
		}
	}

	return tx.Commit()
}

// LoadTable reconstructs the cached cycle time table. NULL timestamps come
// back as absent map keys.
func (s *Store) LoadTable() (*cycletime.Table, error) {
	table := &cycletime.Table{
		TimestampColumns: []string{cycletime.ColStarted, cycletime.ColCompleted},
	}

	colRows, err := s.db.Query("SELECT name FROM duration_columns ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer colRows.Close()
	for colRows.Next() {
		var name string
		if err := colRows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		table.DurationColumns = append(table.DurationColumns, name)
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	itemRows, err := s.db.Query("SELECT key, started_at, completed_at FROM items ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer itemRows.Close()

	index := make(map[string]int)
	for itemRows.Next() {
		var key string
		var started, completed sql.NullString
		if err := itemRows.Scan(&key, &started, &completed); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}

		row := cycletime.Row{
			Key:        key,
			Timestamps: make(map[string]time.Time),
			Durations:  make(map[string]time.Duration),
		}
		if err := setTimestamp(&row, cycletime.ColStarted, started); err != nil {
			return nil, fmt.Errorf("item %q: %w", key, err)
		}
		if err := setTimestamp(&row, cycletime.ColCompleted, completed); err != nil {
			return nil, fmt.Errorf("item %q: %w", key, err)
		}

		index[key] = len(table.Rows)
		table.Rows = append(table.Rows, row)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	durRows, err := s.db.Query("SELECT item_key, stage, seconds FROM stage_durations")
	if err != nil {
		return nil, fmt.Errorf("query durations: %w", err)
	}
	defer durRows.Close()
	for durRows.Next() {
		var key, stage string
		var seconds float64
		if err := durRows.Scan(&key, &stage, &seconds); err != nil {
			return nil, fmt.Errorf("scan duration: %w", err)
		}
		if i, ok := index[key]; ok {
			table.Rows[i].Durations[stage] = time.Duration(seconds * float64(time.Second))
		}
	}
	if err := durRows.Err(); err != nil {
		return nil, fmt.Errorf("read durations: %w", err)
	}

	return table, nil
}

func nullableTime(row cycletime.Row, column string) any {
	if ts, ok := row.Timestamp(column); ok {
		return ts.UTC().Format(time.RFC3339Nano)
	}
	return nil
}

func setTimestamp(row *cycletime.Row, column string, v sql.NullString) error {
	if !v.Valid {
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return fmt.Errorf("bad %s %q: %w", column, v.String, err)
	}
	row.Timestamps[column] = ts
	return nil
}
