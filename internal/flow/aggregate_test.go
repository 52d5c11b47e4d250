package flow

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"cycleflow/internal/cycletime"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testTable(rows ...cycletime.Row) *cycletime.Table {
	return &cycletime.Table{
		TimestampColumns: []string{cycletime.ColStarted, cycletime.ColCompleted},
		DurationColumns: []string{
			cycletime.DurationColumn("Development"),
			cycletime.DurationColumn("QA"),
		},
		Rows: rows,
	}
}

func completedRow(key string, completed time.Time, durations map[string]time.Duration) cycletime.Row {
	row := cycletime.Row{
		Key:        key,
		Timestamps: map[string]time.Time{},
		Durations:  map[string]time.Duration{},
	}
	if !completed.IsZero() {
		row.Timestamps[cycletime.ColCompleted] = completed
	}
	for stage, d := range durations {
		row.Durations[cycletime.DurationColumn(stage)] = d
	}
	return row
}

func TestAggregateEndToEnd(t *testing.T) {
	// Two items completing in February 2020, one with a missing QA duration.
	table := testTable(
		completedRow("I1", date(2020, time.February, 15), map[string]time.Duration{
			"Development": 24 * time.Hour,
			"QA":          12 * time.Hour,
		}),
		completedRow("I2", date(2020, time.February, 20), map[string]time.Duration{
			"Development": 48 * time.Hour,
		}),
	)

	got, ok, err := Aggregate(table, []string{"Development", "QA"}, Monthly, "")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !ok {
		t.Fatal("expected data, got the no-data result")
	}

	wantColumns := []string{"Development duration", "QA duration"}
	if !reflect.DeepEqual(got.Columns, wantColumns) {
		t.Errorf("columns = %v, want %v", got.Columns, wantColumns)
	}

	if len(got.Rows) != 1 {
		t.Fatalf("expected 1 period, got %d", len(got.Rows))
	}
	if want := date(2020, time.February, 29); !got.Rows[0].Period.Equal(want) {
		t.Errorf("period = %v, want %v", got.Rows[0].Period, want)
	}
	if want := []float64{3.0, 0.5}; !reflect.DeepEqual(got.Rows[0].Totals, want) {
		t.Errorf("totals = %v, want %v", got.Rows[0].Totals, want)
	}
}

func TestAggregateZeroFillsMissingDurations(t *testing.T) {
	table := testTable(
		completedRow("I1", date(2021, time.May, 3), map[string]time.Duration{
			"Development": 48 * time.Hour,
		}),
	)

	got, ok, err := Aggregate(table, []string{"Development", "QA"}, Monthly, "")
	if err != nil || !ok {
		t.Fatalf("Aggregate: ok=%v err=%v", ok, err)
	}

	if want := []float64{2.0, 0.0}; !reflect.DeepEqual(got.Rows[0].Totals, want) {
		t.Errorf("totals = %v, want %v", got.Rows[0].Totals, want)
	}
}

func TestAggregateDropsRowsWithoutTimestamp(t *testing.T) {
	table := testTable(
		completedRow("open", time.Time{}, map[string]time.Duration{
			"Development": 100 * time.Hour,
		}),
		completedRow("done", date(2021, time.May, 3), map[string]time.Duration{
			"Development": 24 * time.Hour,
		}),
	)

	got, ok, err := Aggregate(table, []string{"Development", "QA"}, Monthly, "")
	if err != nil || !ok {
		t.Fatalf("Aggregate: ok=%v err=%v", ok, err)
	}

	if len(got.Rows) != 1 {
		t.Fatalf("expected 1 period, got %d", len(got.Rows))
	}
	// The open item must not leak into any bucket.
	if want := []float64{1.0, 0.0}; !reflect.DeepEqual(got.Rows[0].Totals, want) {
		t.Errorf("totals = %v, want %v", got.Rows[0].Totals, want)
	}
}

func TestAggregateNoUsableTimestamps(t *testing.T) {
	table := testTable(
		completedRow("a", time.Time{}, map[string]time.Duration{"Development": time.Hour}),
		completedRow("b", time.Time{}, nil),
	)

	got, ok, err := Aggregate(table, []string{"Development", "QA"}, Monthly, "")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if ok {
		t.Fatal("expected the no-data result")
	}
	if got != nil {
		t.Fatalf("no-data result must carry no table, got %+v", got)
	}
}

func TestAggregateColumnOrderFollowsStages(t *testing.T) {
	// The table lists QA before Development; the stage list must win.
	table := &cycletime.Table{
		TimestampColumns: []string{cycletime.ColCompleted},
		DurationColumns:  []string{"QA duration", "Development duration"},
		Rows: []cycletime.Row{
			completedRow("I1", date(2022, time.January, 10), map[string]time.Duration{
				"Development": 24 * time.Hour,
				"QA":          6 * time.Hour,
			}),
		},
	}

	for _, stages := range [][]string{
		{"Development", "QA"},
		{"QA", "Development"},
	} {
		got, ok, err := Aggregate(table, stages, Monthly, "")
		if err != nil || !ok {
			t.Fatalf("Aggregate(%v): ok=%v err=%v", stages, ok, err)
		}
		want := []string{
			cycletime.DurationColumn(stages[0]),
			cycletime.DurationColumn(stages[1]),
		}
		if !reflect.DeepEqual(got.Columns, want) {
			t.Errorf("Aggregate(%v) columns = %v, want %v", stages, got.Columns, want)
		}
	}
}

func TestAggregateDayConversion(t *testing.T) {
	table := testTable(
		completedRow("I1", date(2021, time.May, 3), map[string]time.Duration{
			"Development": 36 * time.Hour,
		}),
	)

	got, ok, err := Aggregate(table, []string{"Development"}, Monthly, "")
	if err != nil || !ok {
		t.Fatalf("Aggregate: ok=%v err=%v", ok, err)
	}
	if got.Rows[0].Totals[0] != 1.5 {
		t.Errorf("36h = %v days, want exactly 1.5", got.Rows[0].Totals[0])
	}
}

func TestAggregateDeterministic(t *testing.T) {
	table := testTable(
		completedRow("I1", date(2020, time.February, 15), map[string]time.Duration{
			"Development": 17*time.Hour + 23*time.Minute,
			"QA":          90 * time.Minute,
		}),
		completedRow("I2", date(2020, time.April, 1), map[string]time.Duration{
			"Development": 3 * time.Hour,
		}),
		completedRow("I3", date(2020, time.March, 31), map[string]time.Duration{
			"QA": 45 * time.Hour,
		}),
	)

	first, ok1, err1 := Aggregate(table, []string{"Development", "QA"}, Weekly, "")
	second, ok2, err2 := Aggregate(table, []string{"Development", "QA"}, Weekly, "")
	if err1 != nil || err2 != nil || !ok1 || !ok2 {
		t.Fatalf("Aggregate: ok=%v/%v err=%v/%v", ok1, ok2, err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different tables:\n%+v\n%+v", first, second)
	}

	for i := 1; i < len(first.Rows); i++ {
		if !first.Rows[i-1].Period.Before(first.Rows[i].Period) {
			t.Errorf("periods not ascending: %v then %v", first.Rows[i-1].Period, first.Rows[i].Period)
		}
	}
}

func TestAggregateUnknownStage(t *testing.T) {
	table := testTable(
		completedRow("I1", date(2021, time.May, 3), map[string]time.Duration{
			"Development": time.Hour,
		}),
	)

	_, _, err := Aggregate(table, []string{"Development", "Deployment"}, Monthly, "")
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if confErr.Column != "Deployment duration" {
		t.Errorf("column = %q, want %q", confErr.Column, "Deployment duration")
	}
}

func TestAggregateUnknownResampleColumn(t *testing.T) {
	table := testTable(
		completedRow("I1", date(2021, time.May, 3), nil),
	)

	_, _, err := Aggregate(table, []string{"Development"}, Monthly, "resolved_timestamp")
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestAggregateResampleOnAlternateColumn(t *testing.T) {
	row := completedRow("I1", date(2021, time.June, 20), map[string]time.Duration{
		"Development": 12 * time.Hour,
	})
	row.Timestamps[cycletime.ColStarted] = date(2021, time.May, 5)
	table := testTable(row)

	got, ok, err := Aggregate(table, []string{"Development"}, Monthly, cycletime.ColStarted)
	if err != nil || !ok {
		t.Fatalf("Aggregate: ok=%v err=%v", ok, err)
	}
	if want := date(2021, time.May, 31); !got.Rows[0].Period.Equal(want) {
		t.Errorf("period = %v, want %v (bucketed on start)", got.Rows[0].Period, want)
	}
}

func TestAggregateEmptyStageList(t *testing.T) {
	table := testTable(
		completedRow("I1", date(2021, time.May, 3), map[string]time.Duration{
			"Development": time.Hour,
		}),
	)

	got, ok, err := Aggregate(table, nil, Monthly, "")
	if err != nil || !ok {
		t.Fatalf("Aggregate: ok=%v err=%v", ok, err)
	}
	if len(got.Columns) != 0 {
		t.Errorf("expected no columns, got %v", got.Columns)
	}
	if len(got.Rows) != 1 {
		t.Errorf("expected the bucket index to survive, got %d rows", len(got.Rows))
	}
}
