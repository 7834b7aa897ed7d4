package productivity

import (
	"math"

	"github.com/danielpatrickdp/study-productivity/internal/fuzzy"
)

// #region engine
// Engine scores study days. It holds no mutable state after construction
// and may be shared across goroutines.
type Engine struct {
	config   EngineConfig
	rules    []fuzzy.Rule
	universe fuzzy.Universe
}

// NewEngine creates an engine with the given configuration.
func NewEngine(config EngineConfig) *Engine {
	if !fuzzy.ValidStep(config.SampleStep) {
		config.SampleStep = fuzzy.DefaultStep
	}
	return &Engine{
		config:   config,
		rules:    fuzzy.Rules(),
		universe: fuzzy.NewUniverse(config.SampleStep),
	}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() EngineConfig {
	return e.config
}

var defaultEngine = NewEngine(DefaultEngineConfig())

// Evaluate scores in with the default engine.
func Evaluate(in Input) Result {
	return defaultEngine.Evaluate(in)
}

// #endregion engine

// #region evaluate
// Evaluate runs the full pipeline. It never fails: unknown labels simply
// contribute zero membership.
func (e *Engine) Evaluate(in Input) Result {
	res, _ := e.Explain(in)
	return res
}

// Explain is Evaluate plus the intermediate values.
func (e *Engine) Explain(in Input) (Result, Trace) {
	inputs := Fuzzify(in)
	act := fuzzy.Infer(e.rules, inputs)
	crisp := e.universe.Centroid(act)
	adjusted := AdjustForTasks(crisp, in.TasksCompleted)
	score := Round(adjusted)

	res := Result{
		Score:          score,
		Category:       Classify(score),
		Recommendation: Recommend(score, in),
	}
	return res, Trace{
		Input:       in,
		SampleStep:  e.config.SampleStep,
		Duration:    inputs[fuzzy.VarDuration],
		Interrupts:  inputs[fuzzy.VarInterruptions],
		Target:      inputs[fuzzy.VarTarget],
		Activation:  act,
		Defuzzified: crisp,
		Adjusted:    adjusted,
		Result:      res,
	}
}

// Defuzzified returns the centroid score before the task adjustment.
func (e *Engine) Defuzzified(in Input) float64 {
	return e.universe.Centroid(fuzzy.Infer(e.rules, Fuzzify(in)))
}

// Fuzzify maps the raw input onto the three membership vectors.
// StudyTimeOfDay is not a rule variable.
func Fuzzify(in Input) fuzzy.Inputs {
	return fuzzy.Inputs{
		fuzzy.VarDuration:      fuzzy.FuzzifyDuration(in.Duration),
		fuzzy.VarInterruptions: fuzzy.OneHot(string(in.Interruptions), fuzzy.InterruptionTerms),
		fuzzy.VarTarget:        fuzzy.OneHot(string(in.Target), fuzzy.TargetTerms),
	}
}

// #endregion evaluate

// #region post-process
// Task adjustment constants.
const (
	ManyTasksThreshold = 5
	TaskBonus          = 5.0
	NoTaskPenalty      = 5.0
)

// AdjustForTasks applies the completed-task bonus or penalty to a crisp score.
func AdjustForTasks(score float64, tasks int) float64 {
	switch {
	case tasks > ManyTasksThreshold:
		return math.Min(100, score+TaskBonus)
	case tasks == 0:
		return math.Max(0, score-NoTaskPenalty)
	}
	return score
}

// Round rounds half-up and clamps to [0,100].
func Round(score float64) int {
	r := int(math.Floor(score + 0.5))
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	}
	return r
}

// #endregion post-process
