package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/study-productivity/internal/logging"
	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/replay"
	"github.com/danielpatrickdp/study-productivity/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to study_productivity.db (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	step := flag.Float64("step", 0, "override the centroid sample step")
	trace := flag.Bool("trace", false, "record a replay trace per evaluation (DB mode)")
	quiet := flag.Bool("quiet", false, "only print drifting cases and the summary")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/study_productivity.db [--step N] [--trace]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json [--step N]")
		os.Exit(2)
	}
	logging.Setup("warn", "text")

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath, *step, *quiet)
	} else {
		exitCode = runDBMode(*dbPath, *step, *trace, *quiet)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region db-mode

func runDBMode(dbPath string, step float64, trace, quiet bool) int {
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer s.Close()

	records, err := s.List(context.Background(), 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list evaluations: %v\n", err)
		return 2
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no evaluations found")
		return 2
	}

	config := productivity.DefaultEngineConfig()
	if step > 0 {
		config.SampleStep = step
	}
	engine := productivity.NewEngine(config)

	// Oldest first so the table reads chronologically.
	cases := replay.CasesFromRecords(records)
	for i, j := 0, len(cases)-1; i < j; i, j = i+1, j-1 {
		cases[i], cases[j] = cases[j], cases[i]
	}

	bar := progressbar.Default(int64(len(cases)), "replaying")
	results := make([]replay.ReplayResult, 0, len(cases))
	for _, c := range cases {
		r := replay.Check(engine, c)
		results = append(results, r)
		if trace {
			recordTrace(s, r)
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()

	return printComparison(results, quiet)
}

func recordTrace(s *store.Store, r replay.ReplayResult) {
	entry, err := logging.NewTraceEntry(r.CaseID, logging.TriggerReplay, r.Trace, r.Actual.Score, string(r.Actual.Category))
	if err == nil {
		err = logging.LogEvaluation(s.DB(), entry)
	}
	if err != nil {
		logrus.WithError(err).WithField("id", r.CaseID).Warn("replay trace not recorded")
	}
}

// #endregion db-mode

// #region output

func runFixtureMode(path string, step float64, quiet bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	config := f.Config.ToEngineConfig()
	if step > 0 {
		config.SampleStep = step
	}
	if f.Description != "" {
		fmt.Printf("%s\n\n", f.Description)
	}

	results := replay.Replay(productivity.NewEngine(config), f.ToCases())
	return printComparison(results, quiet)
}

// printComparison outputs a comparison table and returns the exit code.
func printComparison(results []replay.ReplayResult, quiet bool) int {
	fmt.Printf("%-38s| %-18s| %-18s| %s\n", "Case", "Expected", "Replayed", "Match")
	fmt.Printf("%-38s+%-19s+%-19s+%s\n",
		"--------------------------------------", "-------------------", "-------------------", "------")

	for _, r := range results {
		if quiet && r.Action == replay.ActionMatch {
			continue
		}
		match := "OK"
		if r.Action == replay.ActionDrift {
			match = "DIFF (" + r.Reason + ")"
		}
		fmt.Printf("%-38s| %-18s| %-18s| %s\n", r.CaseID,
			formatResult(r.Expected), formatResult(r.Actual), match)
	}

	s := replay.Summarize(results)
	fmt.Printf("\nSummary: %d total, %d match, %d drift, max score delta %d\n",
		s.TotalCases, s.Matches, s.Drifts, s.MaxDelta)

	if s.Drifts > 0 {
		return 1
	}
	return 0
}

func formatResult(r productivity.Result) string {
	return fmt.Sprintf("%3d %s", r.Score, r.Category)
}

// #endregion output
