package productivity

import (
	"math"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

func makeInput(hours float64, interruptions Interruptions, target Target, tasks int) Input {
	return Input{
		Duration:       hours,
		Interruptions:  interruptions,
		Target:         target,
		TasksCompleted: tasks,
		StudyTimeOfDay: Morning,
	}
}

// #region scenarios
func TestEvaluateLongFocusedDay(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	in := makeInput(8, InterruptionsLow, TargetMet, 6)

	res, trace := e.Explain(in)

	if trace.Activation.Optimal != 1 {
		t.Fatalf("expected optimal activation 1, got %.4f", trace.Activation.Optimal)
	}
	if trace.Activation.Adequate >= 1 || trace.Activation.Ineffective >= 1 {
		t.Fatalf("expected other activations lower, got %+v", trace.Activation)
	}
	if trace.Defuzzified < 85 || trace.Defuzzified > 95 {
		t.Fatalf("expected defuzzified score in high 80s, got %.4f", trace.Defuzzified)
	}
	if math.Abs(trace.Adjusted-(trace.Defuzzified+5)) > 1e-9 {
		t.Fatalf("expected +5 task bonus, got %.4f -> %.4f", trace.Defuzzified, trace.Adjusted)
	}
	if res.Score != 91 {
		t.Fatalf("expected score 91, got %d", res.Score)
	}
	if res.Category != CategoryOptimal {
		t.Fatalf("expected Optimal, got %s", res.Category)
	}
	if res.Recommendation != RecSustain {
		t.Fatalf("expected praise message, got %q", res.Recommendation)
	}
}

func TestEvaluateShortDistractedDay(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	in := makeInput(1, InterruptionsHigh, TargetNotMet, 0)

	res, trace := e.Explain(in)

	if trace.Activation.Ineffective != 1 {
		t.Fatalf("expected ineffective activation 1, got %.4f", trace.Activation.Ineffective)
	}
	if trace.Defuzzified >= 30 {
		t.Fatalf("expected low defuzzified score, got %.4f", trace.Defuzzified)
	}
	if math.Abs(trace.Adjusted-(trace.Defuzzified-5)) > 1e-9 {
		t.Fatalf("expected -5 task penalty, got %.4f -> %.4f", trace.Defuzzified, trace.Adjusted)
	}
	if res.Score != 19 {
		t.Fatalf("expected score 19, got %d", res.Score)
	}
	if res.Category != CategoryIneffective {
		t.Fatalf("expected Ineffective, got %s", res.Category)
	}
	if res.Recommendation != RecSmallTargets {
		t.Fatalf("expected small-targets advice, got %q", res.Recommendation)
	}
}

func TestEvaluatePackageLevelMatchesDefaultEngine(t *testing.T) {
	in := makeInput(5.5, InterruptionsMedium, TargetPartial, 3)
	if Evaluate(in) != NewEngine(DefaultEngineConfig()).Evaluate(in) {
		t.Fatal("package-level Evaluate should match a default engine")
	}
}

func TestTimeOfDayIsInert(t *testing.T) {
	base := makeInput(4, InterruptionsLow, TargetMet, 2)
	want := Evaluate(base)
	for _, tod := range []TimeOfDay{Morning, Afternoon, Evening, "midnight", ""} {
		in := base
		in.StudyTimeOfDay = tod
		if got := Evaluate(in); got != want {
			t.Fatalf("time of day %q changed the result: %+v vs %+v", tod, got, want)
		}
	}
}

func TestNewEngineFallsBackOnInvalidStep(t *testing.T) {
	want := Evaluate(makeInput(8, InterruptionsLow, TargetMet, 6))
	for _, step := range []float64{math.NaN(), math.Inf(1), -2, 0, 500} {
		e := NewEngine(EngineConfig{SampleStep: step})
		if got := e.Config().SampleStep; got != DefaultEngineConfig().SampleStep {
			t.Errorf("step %v: expected default step, got %v", step, got)
		}
		if got := e.Evaluate(makeInput(8, InterruptionsLow, TargetMet, 6)); got != want {
			t.Errorf("step %v: got %+v, want %+v", step, got, want)
		}
	}
}

// #endregion scenarios

// #region degenerate
func TestUnknownLabelsGiveZeroBeforeAdjustment(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	cases := []Input{
		makeInput(8, "unknown", "unknown", 3),
		makeInput(1, "unknown", "unknown", 3),
		makeInput(6, "unknown", TargetPartial, 3),
		makeInput(5, "unknown", TargetMet, 3),
	}
	for _, in := range cases {
		if d := e.Defuzzified(in); d != 0 {
			t.Errorf("%+v: expected defuzzified 0, got %.4f", in, d)
		}
	}
}

func TestUnknownLabelThenPostProcess(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())

	none := e.Evaluate(makeInput(8, "unknown", TargetMet, 0))
	if none.Score != 0 {
		t.Fatalf("expected 0 with penalty floored, got %d", none.Score)
	}
	bonus := e.Evaluate(makeInput(8, "unknown", TargetMet, 10))
	if bonus.Score != 5 {
		t.Fatalf("expected bonus applied to degenerate 0, got %d", bonus.Score)
	}
	if bonus.Category != CategoryIneffective {
		t.Fatalf("expected Ineffective, got %s", bonus.Category)
	}
}

// #endregion degenerate

// #region properties
func TestScoreAlwaysInRange(t *testing.T) {
	f := gofakeit.New(2024)
	levels := []Interruptions{InterruptionsLow, InterruptionsMedium, InterruptionsHigh, "none", ""}
	targets := []Target{TargetNotMet, TargetPartial, TargetMet, "exceeded"}
	e := NewEngine(DefaultEngineConfig())

	for i := 0; i < 2000; i++ {
		in := Input{
			Duration:       f.Float64Range(-5, 30),
			Interruptions:  levels[f.Number(0, len(levels)-1)],
			Target:         targets[f.Number(0, len(targets)-1)],
			TasksCompleted: f.Number(0, 20),
			StudyTimeOfDay: TimeOfDay(f.RandomString([]string{"morning", "afternoon", "evening"})),
		}
		res := e.Evaluate(in)
		if res.Score < 0 || res.Score > 100 {
			t.Fatalf("%+v: score %d out of range", in, res.Score)
		}
		if res.Category != Classify(res.Score) {
			t.Fatalf("%+v: category %s does not match score %d", in, res.Category, res.Score)
		}
		if res.Recommendation == "" {
			t.Fatalf("%+v: empty recommendation", in)
		}
	}
}

func TestDefuzzifiedNonDecreasingUpToPeak(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	prev := -1.0
	for h := 0.0; h <= 4.0; h += 0.05 {
		d := e.Defuzzified(makeInput(h, InterruptionsLow, TargetMet, 3))
		if d+1e-9 < prev {
			t.Fatalf("score decreased at %.2fh: %.4f -> %.4f", h, prev, d)
		}
		prev = d
	}
}

func TestLongestDurationScoresHighest(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	top := e.Defuzzified(makeInput(8, InterruptionsLow, TargetMet, 3))
	prevCat := CategoryIneffective
	rank := map[Category]int{CategoryIneffective: 0, CategoryAdequate: 1, CategoryOptimal: 2}

	for h := 0.0; h <= 8.0; h += 0.1 {
		in := makeInput(h, InterruptionsLow, TargetMet, 3)
		if d := e.Defuzzified(in); d > top+1e-9 {
			t.Fatalf("%.1fh scored %.4f above the 8h score %.4f", h, d, top)
		}
		cat := e.Evaluate(in).Category
		if rank[cat] < rank[prevCat] {
			t.Fatalf("category dropped at %.1fh: %s -> %s", h, prevCat, cat)
		}
		prevCat = cat
	}
}

func TestEngineSafeForConcurrentUse(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	f := gofakeit.New(11)
	inputs := make([]Input, 64)
	want := make([]Result, len(inputs))
	for i := range inputs {
		inputs[i] = makeInput(f.Float64Range(0, 12), InterruptionsMedium, TargetPartial, f.Number(0, 8))
		want[i] = e.Evaluate(inputs[i])
	}

	var wg sync.WaitGroup
	errs := make(chan int, len(inputs))
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if e.Evaluate(inputs[i]) != want[i] {
				errs <- i
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for i := range errs {
		t.Errorf("input %d gave a different result under concurrency", i)
	}
}

// #endregion properties

// #region post-process
func TestAdjustForTasks(t *testing.T) {
	cases := []struct {
		score float64
		tasks int
		want  float64
	}{
		{98, 10, 100},
		{50, 6, 55},
		{50, 5, 50},
		{50, 1, 50},
		{50, 0, 45},
		{3, 0, 0},
		{0, 0, 0},
	}
	for _, c := range cases {
		if got := AdjustForTasks(c.score, c.tasks); got != c.want {
			t.Errorf("AdjustForTasks(%.0f, %d) = %.2f, want %.2f", c.score, c.tasks, got, c.want)
		}
	}
}

func TestRoundHalfUpAndClamp(t *testing.T) {
	cases := map[float64]int{
		44.5:   45,
		44.49:  44,
		90.769: 91,
		-3:     0,
		103:    100,
		100:    100,
	}
	for in, want := range cases {
		if got := Round(in); got != want {
			t.Errorf("Round(%.3f) = %d, want %d", in, got, want)
		}
	}
	if got := Round(AdjustForTasks(98, 10)); got != 100 {
		t.Fatalf("expected 100 after clamp, got %d", got)
	}
}

// #endregion post-process

// #region classify-recommend
func TestClassifyThresholds(t *testing.T) {
	cases := map[int]Category{
		0: CategoryIneffective, 44: CategoryIneffective,
		45: CategoryAdequate, 74: CategoryAdequate,
		75: CategoryOptimal, 100: CategoryOptimal,
	}
	for score, want := range cases {
		if got := Classify(score); got != want {
			t.Errorf("Classify(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestRecommendOrder(t *testing.T) {
	cases := []struct {
		name  string
		score int
		in    Input
		want  string
	}{
		{"praise wins over high interruptions", 85, makeInput(1, InterruptionsHigh, TargetNotMet, 0), RecSustain},
		{"good band high interruptions", 65, makeInput(1, InterruptionsHigh, TargetMet, 3), RecQuieterPlace},
		{"good band short session", 65, makeInput(1.5, InterruptionsLow, TargetMet, 3), RecStudyLonger},
		{"good band fallback", 60, makeInput(3, InterruptionsMedium, TargetPartial, 3), RecConsistentTargets},
		{"low band not met", 40, makeInput(3, InterruptionsHigh, TargetNotMet, 3), RecSmallTargets},
		{"low band high interruptions", 40, makeInput(3, InterruptionsHigh, TargetPartial, 3), RecSilenceNotifications},
		{"low band fallback", 59, makeInput(3, InterruptionsLow, TargetPartial, 3), RecReviewSchedule},
		{"praise starts at 80", 80, makeInput(1, InterruptionsHigh, TargetNotMet, 0), RecSustain},
		{"79 is still the good band", 79, makeInput(1, InterruptionsHigh, TargetNotMet, 0), RecQuieterPlace},
		{"good band starts at 60", 60, makeInput(1, InterruptionsLow, TargetNotMet, 3), RecStudyLonger},
		{"two hours is not short", 65, makeInput(2.0, InterruptionsLow, TargetMet, 3), RecConsistentTargets},
		{"just under two hours is short", 65, makeInput(1.99, InterruptionsLow, TargetMet, 3), RecStudyLonger},
	}
	for _, c := range cases {
		if got := Recommend(c.score, c.in); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

// #endregion classify-recommend
