package fuzzy

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// #region universe
// Output universe bounds. The sample step is tunable, the bounds are not.
const (
	UniverseMin = 0.0
	UniverseMax = 100.0

	DefaultStep = 5.0
)

// Universe is the discretized output axis used for centroid integration.
type Universe struct {
	points []float64
}

// ValidStep reports whether step can sample the universe. NaN is never valid.
func ValidStep(step float64) bool {
	return step > 0 && step <= UniverseMax-UniverseMin
}

// NewUniverse samples [UniverseMin, UniverseMax] at the given step.
// An invalid step falls back to DefaultStep.
func NewUniverse(step float64) Universe {
	if !ValidStep(step) {
		step = DefaultStep
	}
	n := int(math.Round((UniverseMax-UniverseMin)/step)) + 1
	return Universe{points: floats.Span(make([]float64, n), UniverseMin, UniverseMax)}
}

// Points returns a copy of the sample points.
func (u Universe) Points() []float64 {
	return append([]float64(nil), u.points...)
}

// #endregion universe

// #region output-shapes
// Output shape breakpoints on the score axis.
const (
	IneffectiveFullUntil = 40.0
	IneffectiveZeroFrom  = 60.0

	AdequateRiseFrom = 30.0
	AdequateFullFrom = 50.0
	AdequateFullTo   = 70.0
	AdequateZeroFrom = 90.0

	OptimalRiseFrom = 60.0
	OptimalFullFrom = 80.0
)

// OutputMembership is the membership of score x in output term t.
func OutputMembership(t OutputTerm, x float64) float64 {
	switch t {
	case Ineffective:
		return fallingEdge(x, IneffectiveFullUntil, IneffectiveZeroFrom)
	case Adequate:
		return trapezoid(x, AdequateRiseFrom, AdequateFullFrom, AdequateFullTo, AdequateZeroFrom)
	case Optimal:
		return risingEdge(x, OptimalRiseFrom, OptimalFullFrom)
	}
	return 0
}

// #endregion output-shapes

// #region centroid
// Aggregate clips each output shape at its activation (min) and takes the
// pointwise maximum over the three clipped curves.
func (u Universe) Aggregate(act Activation) []float64 {
	agg := make([]float64, len(u.points))
	for i, x := range u.points {
		agg[i] = math.Max(
			math.Min(OutputMembership(Ineffective, x), act.Ineffective),
			math.Max(
				math.Min(OutputMembership(Adequate, x), act.Adequate),
				math.Min(OutputMembership(Optimal, x), act.Optimal),
			),
		)
	}
	return agg
}

// Centroid returns the weighted average of the aggregated curve.
// When nothing fired the denominator is zero and the score is 0.
func (u Universe) Centroid(act Activation) float64 {
	agg := u.Aggregate(act)
	den := floats.Sum(agg)
	if den == 0 {
		return 0
	}
	return floats.Dot(u.points, agg) / den
}

// #endregion centroid
