package replay

import (
	"testing"

	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/store"
)

// #region helpers
func makeCase(id string, hours float64, interruptions productivity.Interruptions, target productivity.Target, tasks int) Case {
	in := productivity.Input{
		Duration:       hours,
		Interruptions:  interruptions,
		Target:         target,
		TasksCompleted: tasks,
	}
	res := productivity.Evaluate(in)
	return Case{ID: id, Input: in, Expected: res}
}

// #endregion helpers

// #region check-tests
func TestCheck_Match(t *testing.T) {
	engine := productivity.NewEngine(productivity.DefaultEngineConfig())
	r := Check(engine, makeCase("a", 8, productivity.InterruptionsLow, productivity.TargetMet, 6))
	if r.Action != ActionMatch {
		t.Fatalf("expected match, got %s (%s)", r.Action, r.Reason)
	}
	if r.Trace.Result != r.Actual {
		t.Error("expected trace to carry the actual result")
	}
}

func TestCheck_ScoreDrift(t *testing.T) {
	engine := productivity.NewEngine(productivity.DefaultEngineConfig())
	c := makeCase("b", 8, productivity.InterruptionsLow, productivity.TargetMet, 6)
	c.Expected.Score = 80

	r := Check(engine, c)
	if r.Action != ActionDrift {
		t.Fatalf("expected drift, got %s", r.Action)
	}
	if r.Reason != "score 91, expected 80" {
		t.Errorf("unexpected reason %q", r.Reason)
	}
}

func TestCheck_CategoryDrift(t *testing.T) {
	engine := productivity.NewEngine(productivity.DefaultEngineConfig())
	c := makeCase("c", 1, productivity.InterruptionsHigh, productivity.TargetNotMet, 0)
	c.Expected.Category = productivity.CategoryAdequate

	if r := Check(engine, c); r.Action != ActionDrift {
		t.Fatalf("expected drift on category, got %s", r.Action)
	}
}

func TestCheck_RecommendationOnlyWhenRecorded(t *testing.T) {
	engine := productivity.NewEngine(productivity.DefaultEngineConfig())
	c := makeCase("d", 4, productivity.InterruptionsMedium, productivity.TargetPartial, 3)

	c.Expected.Recommendation = ""
	if r := Check(engine, c); r.Action != ActionMatch {
		t.Fatalf("empty recommendation should not be compared, got %s", r.Reason)
	}
	c.Expected.Recommendation = "something else"
	if r := Check(engine, c); r.Action != ActionDrift {
		t.Fatal("expected drift on changed recommendation")
	}
}

// #endregion check-tests

// #region replay-tests
func TestReplay_CasesAreIndependent(t *testing.T) {
	engine := productivity.NewEngine(productivity.DefaultEngineConfig())
	cases := []Case{
		makeCase("1", 8, productivity.InterruptionsLow, productivity.TargetMet, 6),
		makeCase("2", 1, productivity.InterruptionsHigh, productivity.TargetNotMet, 0),
		makeCase("3", 4, productivity.InterruptionsMedium, productivity.TargetPartial, 3),
	}
	cases[1].Expected.Score += 3

	results := Replay(engine, cases)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []string{ActionMatch, ActionDrift, ActionMatch}
	for i, r := range results {
		if r.Action != want[i] {
			t.Errorf("case %d: expected %s, got %s", i, want[i], r.Action)
		}
	}

	s := Summarize(results)
	if s.TotalCases != 3 || s.Matches != 2 || s.Drifts != 1 || s.MaxDelta != 3 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestReplay_FinerStepDrifts(t *testing.T) {
	// 4.5h with few interruptions scores 85 at step 5 and 84 at step 1.
	c := makeCase("fine", 4.5, productivity.InterruptionsLow, productivity.TargetMet, 3)
	if c.Expected.Score != 85 {
		t.Fatalf("expected recorded score 85, got %d", c.Expected.Score)
	}
	fine := productivity.NewEngine(productivity.EngineConfig{SampleStep: 1})
	r := Check(fine, c)
	if r.Action != ActionDrift || r.Actual.Score != 84 {
		t.Fatalf("expected drift to 84, got %s with %d", r.Action, r.Actual.Score)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalCases != 0 || s.Matches != 0 || s.Drifts != 0 || s.MaxDelta != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestCasesFromRecords(t *testing.T) {
	in := productivity.Input{Duration: 3, Interruptions: productivity.InterruptionsLow, Target: productivity.TargetMet, TasksCompleted: 2}
	rec := store.NewRecord(in, productivity.Evaluate(in))
	rec.ID = "stored"

	cases := CasesFromRecords([]store.Record{rec})
	if len(cases) != 1 || cases[0].ID != "stored" || cases[0].Expected != rec.Result {
		t.Fatalf("unexpected cases %+v", cases)
	}
}

// #endregion replay-tests
