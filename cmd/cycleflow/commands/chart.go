package commands

import (
	"errors"
	"fmt"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cycleflow/internal/chart"
	"cycleflow/internal/cycletime"
	"cycleflow/internal/export"
	"cycleflow/internal/flow"
	"cycleflow/internal/store"
)

var (
	chartInput string
	chartOut   string
	chartData  string
	chartOpen  bool
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Aggregate stage durations and render the cycle flow chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadCycleTimeTable()
		if err != nil {
			return err
		}

		stages := cfg.Workflow.ActiveStageNames()
		if len(stages) == 0 {
			return fmt.Errorf("workflow file %s must configure a cycle of at least three stages", cfg.WorkflowFile)
		}

		freq, err := flow.ParseFrequency(cfg.Workflow.Frequency)
		if err != nil {
			return err
		}

		aggregated, ok, err := flow.Aggregate(table, stages, freq, cfg.Workflow.ResampleOn)
		if err != nil {
			var confErr *flow.ConfigurationError
			if errors.As(err, &confErr) {
				return fmt.Errorf("workflow does not match the cycle time data: %w", err)
			}
			return err
		}
		if !ok {
			log.Info().Msg("Did not match any entries for cycle flow chart")
			return nil
		}

		chartPath := chartOut
		if chartPath == "" {
			chartPath = cfg.Workflow.CycleFlowChart
		}
		dataPath := chartData
		if dataPath == "" {
			dataPath = cfg.Workflow.CycleFlowData
		}

		if chartPath == "" {
			log.Debug().Msg("No output file specified for cycle flow chart")
		}
		if dataPath == "" {
			log.Debug().Msg("No output file specified for cycle flow data")
		}

		// The two artifacts are independent; write them concurrently.
		var g errgroup.Group
		if chartPath != "" {
			g.Go(func() error { return chart.WriteCycleFlow(aggregated, chartPath) })
		}
		if dataPath != "" {
			g.Go(func() error { return export.WritePeriodTable(aggregated, dataPath) })
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if chartOpen && chartPath != "" {
			if err := browser.OpenFile(chartPath); err != nil {
				log.Warn().Err(err).Str("path", chartPath).Msg("Failed to open chart")
			}
		}
		return nil
	},
}

// loadCycleTimeTable reads the item table either straight from a CSV export
// or from the local cache populated by `cycleflow import`.
func loadCycleTimeTable() (*cycletime.Table, error) {
	if chartInput != "" {
		return cycletime.ReadCSV(chartInput)
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	table, err := s.LoadTable()
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		log.Warn().Str("db", cfg.DBPath).Msg("Cycle time cache is empty; run `cycleflow import` first or pass --input")
	}
	return table, nil
}

func init() {
	chartCmd.Flags().StringVarP(&chartInput, "input", "i", "", "read the cycle time table from a CSV export instead of the cache")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "", "chart output path (.png or .html); overrides the workflow file")
	chartCmd.Flags().StringVar(&chartData, "data", "", "CSV data output path; overrides the workflow file")
	chartCmd.Flags().BoolVar(&chartOpen, "open", false, "open the chart after writing it")
	rootCmd.AddCommand(chartCmd)
}
