package engine

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"cycleflow/internal/cycletime"
)

type GeneratorConfig struct {
	Count int
	Seed  int64
	Now   time.Time
}

// Stages generated for every item, between the implicit Backlog and Done
// boundary stages.
var activeStages = []string{"Development", "Review", "QA"}

// Weibull shape/scale per stage, in days. Targeted at a ~5 day total cycle.
var stageParams = map[string][2]float64{
	"Development": {1.5, 2.5},
	"Review":      {1.2, 0.8},
	"QA":          {1.3, 1.2},
}

// Generate produces a cycle time table of items arriving roughly one per day,
// with Weibull-distributed stage durations. About one item in ten is still
// open and has no completion timestamp.
func Generate(cfg GeneratorConfig) *cycletime.Table {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	table := &cycletime.Table{
		TimestampColumns: []string{cycletime.ColStarted, cycletime.ColCompleted},
	}
	for _, stage := range activeStages {
		table.DurationColumns = append(table.DurationColumns, cycletime.DurationColumn(stage))
	}

	tArrival := cfg.Now.AddDate(0, 0, -cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		started := tArrival.Add(time.Duration(i*24) * time.Hour)

		row := cycletime.Row{
			Key:        fmt.Sprintf("MOCK-%d", i+1),
			Timestamps: map[string]time.Time{cycletime.ColStarted: started},
			Durations:  make(map[string]time.Duration),
		}

		var total time.Duration
		for _, stage := range activeStages {
			// Some items skip a stage entirely.
			if rng.Float64() < 0.15 {
				continue
			}
			p := stageParams[stage]
			d := weibullDays(rng, p[0], p[1])
			row.Durations[cycletime.DurationColumn(stage)] = d
			total += d
		}

		if rng.Float64() >= 0.1 {
			row.Timestamps[cycletime.ColCompleted] = started.Add(total)
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}

// Save writes the table in the upstream CSV export format, readable by
// `cycleflow import` and `cycleflow chart --input`.
func Save(path string, table *cycletime.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"key"}, table.TimestampColumns...)
	header = append(header, table.DurationColumns...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range table.Rows {
		record := []string{row.Key}
		for _, col := range table.TimestampColumns {
			if ts, ok := row.Timestamp(col); ok {
				record = append(record, ts.UTC().Format(time.RFC3339))
			} else {
				record = append(record, "")
			}
		}
		for _, col := range table.DurationColumns {
			if d, ok := row.Durations[col]; ok {
				record = append(record, d.String())
			} else {
				record = append(record, "")
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}

// weibullDays samples a Weibull(k, lambda) value in days via inverse
// transform and rounds it to whole minutes.
func weibullDays(rng *rand.Rand, k, lambda float64) time.Duration {
	u := rng.Float64()
	days := lambda * math.Pow(-math.Log(1-u), 1/k)
	return time.Duration(math.Round(days*24*60)) * time.Minute
}
