package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/replay"
	"github.com/danielpatrickdp/study-productivity/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to study_productivity.db")
	last := flag.Int("last", 20, "number of most recent evaluations to export (0 = all)")
	outPath := flag.String("out", "", "output fixture JSON path")
	description := flag.String("description", "", "fixture description")
	step := flag.Float64("step", 0, "sample step recorded in the fixture (default: engine default)")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --out path/to/fixture.json [--last N] [--description text] [--step N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath, *description, *step); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

func run(dbPath string, last int, outPath, description string, step float64) error {
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer s.Close()

	records, err := s.List(context.Background(), last)
	if err != nil {
		return fmt.Errorf("list evaluations: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no evaluations found in %s", dbPath)
	}
	fmt.Printf("Found %d evaluations\n", len(records))

	// DESC from the store, reverse for chronological order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	config := productivity.DefaultEngineConfig()
	if step > 0 {
		config.SampleStep = step
	}
	if description == "" {
		description = fmt.Sprintf("Export of %d stored evaluations from %s", len(records), dbPath)
	}

	fixture := replay.FixtureFromRecords(description, config, records)
	if err := replay.WriteFixture(outPath, fixture); err != nil {
		return err
	}
	fmt.Printf("Wrote fixture to %s (%d cases)\n", outPath, len(fixture.Cases))
	return nil
}

// #endregion extract
