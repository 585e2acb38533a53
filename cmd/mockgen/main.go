package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"remasep/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "clean", "Scenario to generate: clean, dirty")
	distribution := flag.String("distribution", "uniform", "Length-of-stay distribution: uniform, weibull")
	outDir := flag.String("out", "./.cache", "Output directory for mock files")
	count := flag.Int("count", 500, "Number of visits to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Seed:         *seed,
		Now:          time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, *outDir)

	rows := engine.Generate(cfg)

	if err := engine.Save(*outDir, rows); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
