package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/study-productivity/internal/logging"
	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/request"
	"github.com/danielpatrickdp/study-productivity/internal/rpc"
	"github.com/danielpatrickdp/study-productivity/internal/store"
)

// #region main
func main() {
	duration := flag.Float64("duration", 0, "hours studied (omit for interactive mode)")
	interruptions := flag.String("interruptions", "medium", "low | medium | high")
	target := flag.String("target", "partial", "not_met | partial | met")
	tasks := flag.Int("tasks", 0, "tasks completed")
	timeOfDay := flag.String("time", "", "morning | afternoon | evening")
	step := flag.Float64("step", 0, "centroid sample step")
	dbPath := flag.String("db", envOr("DB_PATH", ""), "persist evaluations to this SQLite file")
	remote := flag.String("remote", "", "evaluate on a gRPC server at this address instead of locally")
	explain := flag.Bool("explain", false, "print the intermediate fuzzy values")
	jsonOut := flag.Bool("json", false, "output as JSON")
	flag.Parse()

	if err := logging.Setup(envOr("LOG_LEVEL", "warn"), envOr("LOG_FORMAT", "text")); err != nil {
		logrus.Fatalf("logging: %v", err)
	}

	config := productivity.DefaultEngineConfig()
	if *step > 0 {
		config.SampleStep = *step
	}
	ev := &evaluator{engine: productivity.NewEngine(config), explain: *explain, jsonOut: *jsonOut}

	if *dbPath != "" {
		s, err := store.NewSQLiteStore(*dbPath)
		if err != nil {
			logrus.Fatalf("failed to open store: %v", err)
		}
		defer s.Close()
		ev.store = s
	}
	if *remote != "" {
		c, err := rpc.NewClient(*remote)
		if err != nil {
			logrus.Fatalf("failed to connect to evaluator at %s: %v", *remote, err)
		}
		defer c.Close()
		ev.remote = c
	}

	if flagSet(flag.CommandLine, "duration") {
		in := productivity.Input{
			Duration:       *duration,
			Interruptions:  request.NormalizeInterruptions(*interruptions),
			Target:         request.NormalizeTarget(*target),
			TasksCompleted: *tasks,
			StudyTimeOfDay: request.NormalizeTimeOfDay(*timeOfDay),
		}
		if err := ev.run(in); err != nil {
			logrus.Fatal(err)
		}
		return
	}

	interactive(ev)
}

func interactive(ev *evaluator) {
	fmt.Println("Study productivity evaluator ready.")
	fmt.Println("Enter: <hours> <low|medium|high> <not_met|partial|met> <tasks> [morning|afternoon|evening]")
	fmt.Println("Type 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		in, err := parseLine(line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if err := ev.run(in); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

// #endregion main

// #region evaluator
type evaluator struct {
	engine  *productivity.Engine
	store   *store.Store
	remote  *rpc.Client
	explain bool
	jsonOut bool
}

func (ev *evaluator) run(in productivity.Input) error {
	var res productivity.Result
	var trace productivity.Trace
	if ev.remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		r, err := ev.remote.Evaluate(ctx, in)
		if err != nil {
			return err
		}
		res = r
	} else {
		res, trace = ev.engine.Explain(in)
	}

	var id string
	if ev.store != nil {
		rec, err := ev.store.Insert(context.Background(), store.NewRecord(in, res))
		if err != nil {
			return fmt.Errorf("save evaluation: %w", err)
		}
		id = rec.ID
		if ev.remote == nil {
			entry, err := logging.NewTraceEntry(id, logging.TriggerCLI, trace, res.Score, string(res.Category))
			if err == nil {
				err = logging.LogEvaluation(ev.store.DB(), entry)
			}
			if err != nil {
				logrus.WithError(err).Warn("evaluation trace not recorded")
			}
		}
	}

	if ev.jsonOut {
		out := map[string]interface{}{"result": res}
		if id != "" {
			out["id"] = id
		}
		if ev.explain && ev.remote == nil {
			out["trace"] = trace
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("\nScore:    %d\nCategory: %s\nAdvice:   %s\n", res.Score, res.Category, res.Recommendation)
	if id != "" {
		fmt.Printf("Saved:    %s\n", id)
	}
	if ev.explain && ev.remote == nil {
		fmt.Printf("\nDuration membership:      short=%.3f medium=%.3f long=%.3f\n",
			trace.Duration["short"], trace.Duration["medium"], trace.Duration["long"])
		fmt.Printf("Rule activation:          ineffective=%.3f adequate=%.3f optimal=%.3f\n",
			trace.Activation.Ineffective, trace.Activation.Adequate, trace.Activation.Optimal)
		fmt.Printf("Centroid / adjusted:      %.3f / %.3f\n", trace.Defuzzified, trace.Adjusted)
	}
	fmt.Println()
	return nil
}

// #endregion evaluator

// #region helpers
func parseLine(line string) (productivity.Input, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return productivity.Input{}, fmt.Errorf("expected at least 4 fields, got %d", len(fields))
	}
	hours, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return productivity.Input{}, fmt.Errorf("hours: %w", err)
	}
	tasks, err := strconv.Atoi(fields[3])
	if err != nil {
		return productivity.Input{}, fmt.Errorf("tasks: %w", err)
	}
	in := productivity.Input{
		Duration:       hours,
		Interruptions:  request.NormalizeInterruptions(fields[1]),
		Target:         request.NormalizeTarget(fields[2]),
		TasksCompleted: tasks,
	}
	if len(fields) > 4 {
		in.StudyTimeOfDay = request.NormalizeTimeOfDay(fields[4])
	}
	return in, nil
}

// flagSet reports whether name was given on the command line of fs.
func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
