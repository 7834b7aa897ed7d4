package fuzzy

// #region terms
// Variable names one fuzzified input of the rule base.
type Variable string

const (
	VarDuration      Variable = "duration"
	VarInterruptions Variable = "interruptions"
	VarTarget        Variable = "target"
)

// Term is a linguistic term within one variable.
type Term string

const (
	Short  Term = "short"
	Medium Term = "medium"
	Long   Term = "long"

	Low  Term = "low"
	High Term = "high"

	NotMet  Term = "not_met"
	Partial Term = "partial"
	Met     Term = "met"
)

// InterruptionTerms and TargetTerms are the label sets for one-hot fuzzification.
var (
	InterruptionTerms = []Term{Low, Medium, High}
	TargetTerms       = []Term{NotMet, Partial, Met}
)

// OutputTerm is a linguistic term of the productivity output variable.
type OutputTerm string

const (
	Ineffective OutputTerm = "ineffective"
	Adequate    OutputTerm = "adequate"
	Optimal     OutputTerm = "optimal"
)

// #endregion terms

// #region membership-vector
// MembershipVector maps each term of one variable to a degree in [0,1].
// Degrees need not sum to 1.
type MembershipVector map[Term]float64

// Degree returns the degree of t, or 0 when t is absent.
func (v MembershipVector) Degree(t Term) float64 {
	return v[t]
}

// Inputs holds the fuzzified vector of every variable for one evaluation.
type Inputs map[Variable]MembershipVector

// #endregion membership-vector

// #region rule
// Antecedent references one term of one variable.
type Antecedent struct {
	Variable Variable `json:"variable"`
	Term     Term     `json:"term"`
}

// Rule is a conjunction of antecedents voting for one output term.
type Rule struct {
	ID   int          `json:"id"`
	If   []Antecedent `json:"if"`
	Then OutputTerm   `json:"then"`
}

// #endregion rule

// #region activation
// Activation is the aggregated degree per output term.
type Activation struct {
	Ineffective float64 `json:"ineffective"`
	Adequate    float64 `json:"adequate"`
	Optimal     float64 `json:"optimal"`
}

// Degree returns the activation of term t.
func (a Activation) Degree(t OutputTerm) float64 {
	switch t {
	case Ineffective:
		return a.Ineffective
	case Adequate:
		return a.Adequate
	case Optimal:
		return a.Optimal
	}
	return 0
}

// with returns a copy of a with term t set to d.
func (a Activation) with(t OutputTerm, d float64) Activation {
	switch t {
	case Ineffective:
		a.Ineffective = d
	case Adequate:
		a.Adequate = d
	case Optimal:
		a.Optimal = d
	}
	return a
}

// IsZero reports whether no rule fired with nonzero strength.
func (a Activation) IsZero() bool {
	return a.Ineffective == 0 && a.Adequate == 0 && a.Optimal == 0
}

// #endregion activation
