package productivity

import "github.com/danielpatrickdp/study-productivity/internal/fuzzy"

// #region labels
// Interruptions is the self-reported interruption level.
type Interruptions string

const (
	InterruptionsLow    Interruptions = "low"
	InterruptionsMedium Interruptions = "medium"
	InterruptionsHigh   Interruptions = "high"
)

// Target is how far the day's study target was reached.
type Target string

const (
	TargetNotMet  Target = "not_met"
	TargetPartial Target = "partial"
	TargetMet     Target = "met"
)

// TimeOfDay is when most of the studying happened. It is recorded but
// does not take part in scoring.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// Category is the three-level productivity class.
type Category string

const (
	CategoryIneffective Category = "Ineffective"
	CategoryAdequate    Category = "Adequate"
	CategoryOptimal     Category = "Optimal"
)

// #endregion labels

// #region input
// Input is one day of study behaviour as supplied by the caller.
type Input struct {
	Duration       float64       `json:"duration"`
	Interruptions  Interruptions `json:"interruptions"`
	Target         Target        `json:"target"`
	TasksCompleted int           `json:"tasks_completed"`
	StudyTimeOfDay TimeOfDay     `json:"study_time_of_day"`
}

// #endregion input

// #region result
// Result is the outcome of one evaluation.
type Result struct {
	Score          int      `json:"score"`
	Category       Category `json:"category"`
	Recommendation string   `json:"recommendation"`
}

// Trace exposes the intermediate values of one evaluation.
type Trace struct {
	Input       Input                  `json:"input"`
	SampleStep  float64                `json:"sample_step"`
	Duration    fuzzy.MembershipVector `json:"duration_membership"`
	Interrupts  fuzzy.MembershipVector `json:"interruptions_membership"`
	Target      fuzzy.MembershipVector `json:"target_membership"`
	Activation  fuzzy.Activation       `json:"activation"`
	Defuzzified float64                `json:"defuzzified"`
	Adjusted    float64                `json:"adjusted"`
	Result      Result                 `json:"result"`
}

// #endregion result

// #region engine-config
// EngineConfig holds the tunable numeric resolution of the engine.
type EngineConfig struct {
	SampleStep float64 // spacing of centroid samples over [0,100]
}

// DefaultEngineConfig samples the output universe every 5 points.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{SampleStep: fuzzy.DefaultStep}
}

// #endregion engine-config
