package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danielpatrickdp/study-productivity/internal/logging"
	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to study_productivity.db")
	last := flag.Int("last", 20, "show N most recent evaluations")
	id := flag.String("id", "", "show single evaluation detail")
	category := flag.String("category", "", "filter list to one category")
	dashboard := flag.Bool("dashboard", false, "show today's score and the recent trend")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/study_productivity.db [--last N] [--id id] [--category name] [--dashboard] [--json]")
		os.Exit(2)
	}

	s, err := store.NewSQLiteStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	ctx := context.Background()
	switch {
	case *id != "":
		err = runDetailMode(ctx, s, *id, *jsonOut)
	case *dashboard:
		err = runDashboardMode(ctx, s, *jsonOut)
	default:
		err = runListMode(ctx, s, *last, *category, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	ID        string  `json:"id"`
	Duration  float64 `json:"duration"`
	Interrupt string  `json:"interruptions"`
	Target    string  `json:"target"`
	Tasks     int     `json:"tasks_completed"`
	Score     int     `json:"score"`
	Category  string  `json:"category"`
	CreatedAt string  `json:"created_at"`
}

func runListMode(ctx context.Context, s *store.Store, last int, category string, jsonOut bool) error {
	records, err := s.List(ctx, last)
	if err != nil {
		return err
	}

	// Store returns DESC, reverse for chronological.
	rows := make([]listRow, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if category != "" && !strings.EqualFold(string(r.Category), category) {
			continue
		}
		rows = append(rows, listRow{
			ID:        r.ID,
			Duration:  r.Duration,
			Interrupt: string(r.Interruptions),
			Target:    string(r.Target),
			Tasks:     r.TasksCompleted,
			Score:     r.Score,
			Category:  string(r.Category),
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no evaluations found")
		return nil
	}

	if jsonOut {
		return printJSON(rows)
	}
	return printListTable(rows)
}

func printListTable(rows []listRow) error {
	fmt.Printf("%-10s  %6s  %-8s  %-8s  %5s  %5s  %-12s  %s\n",
		"ID", "Hours", "Interr.", "Target", "Tasks", "Score", "Category", "Time")
	fmt.Printf("%-10s+-%6s+-%-8s+-%-8s+-%5s+-%5s+-%-12s+-%s\n",
		"----------", "------", "--------", "--------", "-----", "-----", "------------", "--------------------")

	counts := map[string]int{}
	total := 0
	for _, r := range rows {
		fmt.Printf("%-10s  %6.2f  %-8s  %-8s  %5d  %5d  %-12s  %s\n",
			shortID(r.ID), r.Duration, r.Interrupt, r.Target, r.Tasks, r.Score, r.Category, r.CreatedAt)
		counts[r.Category]++
		total += r.Score
	}

	fmt.Printf("\nAverage score: %.1f over %d evaluations\n", float64(total)/float64(len(rows)), len(rows))
	for _, c := range []productivity.Category{productivity.CategoryOptimal, productivity.CategoryAdequate, productivity.CategoryIneffective} {
		fmt.Printf("  %-12s %d\n", c, counts[string(c)])
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	Record store.Record  `json:"record"`
	Traces []traceDetail `json:"traces"`
}

type traceDetail struct {
	Trigger     string           `json:"trigger"`
	CreatedAt   string           `json:"created_at"`
	Score       int              `json:"score"`
	Category    string           `json:"category"`
	Defuzzified float64          `json:"defuzzified"`
	Adjusted    float64          `json:"adjusted"`
	Activation  activationDetail `json:"activation"`
}

type activationDetail struct {
	Ineffective float64 `json:"ineffective"`
	Adequate    float64 `json:"adequate"`
	Optimal     float64 `json:"optimal"`
}

func runDetailMode(ctx context.Context, s *store.Store, id string, jsonOut bool) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	entries, err := logging.ListTraces(s.DB(), id)
	if err != nil {
		return err
	}

	out := detailOutput{Record: rec, Traces: make([]traceDetail, 0, len(entries))}
	for _, e := range entries {
		out.Traces = append(out.Traces, parseTrace(e))
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("ID:             %s\n", rec.ID)
	fmt.Printf("Created:        %s\n", rec.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Updated:        %s\n", rec.UpdatedAt.Format(time.RFC3339))
	fmt.Printf("Duration:       %.2f h\n", rec.Duration)
	fmt.Printf("Interruptions:  %s\n", rec.Interruptions)
	fmt.Printf("Target:         %s\n", rec.Target)
	fmt.Printf("Tasks:          %d\n", rec.TasksCompleted)
	fmt.Printf("Time of day:    %s\n", rec.StudyTimeOfDay)
	fmt.Printf("Score:          %d (%s)\n", rec.Score, rec.Category)
	fmt.Printf("Recommendation: %s\n", rec.Recommendation)

	if len(out.Traces) == 0 {
		fmt.Printf("\nNo traces recorded.\n")
		return nil
	}
	fmt.Printf("\nTraces:\n")
	for _, t := range out.Traces {
		fmt.Printf("  [%s] %-7s crisp=%.3f adjusted=%.3f score=%d act(I/A/O)=%.2f/%.2f/%.2f\n",
			t.CreatedAt, t.Trigger, t.Defuzzified, t.Adjusted, t.Score,
			t.Activation.Ineffective, t.Activation.Adequate, t.Activation.Optimal)
	}
	return nil
}

func parseTrace(e logging.TraceEntry) traceDetail {
	d := traceDetail{
		Trigger:   e.TriggerType,
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Score:     e.Score,
		Category:  e.Category,
	}
	var tr productivity.Trace
	if err := json.Unmarshal([]byte(e.TraceJSON), &tr); err == nil {
		d.Defuzzified = tr.Defuzzified
		d.Adjusted = tr.Adjusted
		d.Activation = activationDetail{
			Ineffective: tr.Activation.Ineffective,
			Adequate:    tr.Activation.Adequate,
			Optimal:     tr.Activation.Optimal,
		}
	}
	return d
}

// #endregion detail-mode

// #region dashboard-mode

func runDashboardMode(ctx context.Context, s *store.Store, jsonOut bool) error {
	stats, err := s.Dashboard(ctx, time.Now())
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(stats)
	}

	fmt.Printf("Today: %d (%s)\n\n", stats.TodayScore, stats.TodayCategory)
	for _, p := range stats.WeeklyData {
		fmt.Printf("  %-4s %3d %s\n", p.Name, p.Score, strings.Repeat("#", p.Score/5))
	}
	return nil
}

// #endregion dashboard-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
