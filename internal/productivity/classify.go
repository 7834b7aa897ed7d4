package productivity

// #region classify
// Category thresholds on the final score.
const (
	OptimalThreshold  = 75
	AdequateThreshold = 45
)

// Classify maps a final score to its category.
func Classify(score int) Category {
	switch {
	case score >= OptimalThreshold:
		return CategoryOptimal
	case score >= AdequateThreshold:
		return CategoryAdequate
	}
	return CategoryIneffective
}

// #endregion classify

// #region recommend
// Recommendation texts.
const (
	RecSustain              = "Keep up this outstanding performance! Your study method is already very effective."
	RecQuieterPlace         = "Good result, but try to find a quieter place to cut down on interruptions."
	RecStudyLonger          = "Effectiveness is fine, but try to extend your study time a little."
	RecConsistentTargets    = "Work on reaching your study targets more consistently."
	RecSmallTargets         = "Focus on reaching small targets first so the workload does not feel overwhelming."
	RecSilenceNotifications = "Interruptions are hurting your productivity. Turn off phone notifications while studying."
	RecReviewSchedule       = "Review your study schedule and method. Try the Pomodoro technique."
)

// Recommendation score bands.
const (
	SustainThreshold  = 80
	GoodBandThreshold = 60
	ShortSessionHours = 2.0
)

// Recommend picks the first matching recommendation for the final score.
func Recommend(score int, in Input) string {
	if score >= SustainThreshold {
		return RecSustain
	}
	if score >= GoodBandThreshold {
		switch {
		case in.Interruptions == InterruptionsHigh:
			return RecQuieterPlace
		case in.Duration < ShortSessionHours:
			return RecStudyLonger
		}
		return RecConsistentTargets
	}
	switch {
	case in.Target == TargetNotMet:
		return RecSmallTargets
	case in.Interruptions == InterruptionsHigh:
		return RecSilenceNotifications
	}
	return RecReviewSchedule
}

// #endregion recommend
