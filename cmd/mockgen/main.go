// Command mockgen generates a synthetic cycle time CSV for demos and manual
// testing of the cycle flow pipeline.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"cycleflow/cmd/mockgen/engine"
)

func main() {
	out := flag.String("out", "cycle_times.csv", "Output path for the generated CSV")
	count := flag.Int("count", 200, "Number of items to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Count: *count,
		Seed:  *seed,
		Now:   time.Now(),
	}

	fmt.Printf("Generating %d items to %s...\n", cfg.Count, *out)

	table := engine.Generate(cfg)
	if err := engine.Save(*out, table); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
