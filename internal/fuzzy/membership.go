package fuzzy

// #region duration-breakpoints
// Duration breakpoints in hours.
const (
	ShortFullUntil = 0.0
	ShortZeroFrom  = 3.0

	MediumRiseFrom = 1.0
	MediumPeak     = 4.0
	MediumZeroFrom = 7.0

	LongRiseFrom = 5.0
	LongFullFrom = 8.0
)

// #endregion duration-breakpoints

// #region duration
// FuzzifyDuration maps study hours onto {short, medium, long}. Values outside
// the usual [0,24] range saturate.
func FuzzifyDuration(hours float64) MembershipVector {
	return MembershipVector{
		Short:  fallingEdge(hours, ShortFullUntil, ShortZeroFrom),
		Medium: triangle(hours, MediumRiseFrom, MediumPeak, MediumZeroFrom),
		Long:   risingEdge(hours, LongRiseFrom, LongFullFrom),
	}
}

// #endregion duration

// #region categorical
// OneHot gives degree 1 to the label matching value and 0 to the rest.
// A value outside labels yields an all-zero vector.
func OneHot(value string, labels []Term) MembershipVector {
	v := make(MembershipVector, len(labels))
	for _, l := range labels {
		v[l] = 0
		if string(l) == value {
			v[l] = 1
		}
	}
	return v
}

// #endregion categorical

// #region shapes
// fallingEdge is 1 up to a, linear down to 0 at b, 0 beyond.
func fallingEdge(x, a, b float64) float64 {
	switch {
	case x <= a:
		return 1
	case x >= b:
		return 0
	}
	return (b - x) / (b - a)
}

// risingEdge is 0 up to a, linear up to 1 at b, 1 beyond.
func risingEdge(x, a, b float64) float64 {
	switch {
	case x <= a:
		return 0
	case x >= b:
		return 1
	}
	return (x - a) / (b - a)
}

// triangle is 0 outside (a,c) and peaks at b.
func triangle(x, a, b, c float64) float64 {
	switch {
	case x <= a || x >= c:
		return 0
	case x <= b:
		return (x - a) / (b - a)
	}
	return (c - x) / (c - b)
}

// trapezoid rises on [a,b], is 1 on [b,c] and falls on [c,d].
func trapezoid(x, a, b, c, d float64) float64 {
	switch {
	case x <= a || x >= d:
		return 0
	case x < b:
		return (x - a) / (b - a)
	case x <= c:
		return 1
	}
	return (d - x) / (d - c)
}

// #endregion shapes
