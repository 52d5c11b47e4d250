package commands

import (
	"cycleflow/internal/cycletime"
	"cycleflow/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <cycle-time.csv>",
	Short: "Cache a cycle time CSV export in the local database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := cycletime.ReadCSV(args[0])
		if err != nil {
			return err
		}

		s, err := store.New(cfg.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ImportTable(table); err != nil {
			return err
		}

		log.Info().
			Str("db", cfg.DBPath).
			Int("items", len(table.Rows)).
			Int("stages", len(table.DurationColumns)).
			Msg("Imported cycle time table")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
