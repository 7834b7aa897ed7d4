package fuzzy

import "math"

// #region rule-base
var ruleBase = []Rule{
	{ID: 1, If: []Antecedent{{VarDuration, Long}, {VarInterruptions, Low}, {VarTarget, Met}}, Then: Optimal},
	{ID: 2, If: []Antecedent{{VarDuration, Medium}, {VarInterruptions, Low}, {VarTarget, Met}}, Then: Optimal},
	{ID: 3, If: []Antecedent{{VarDuration, Medium}, {VarInterruptions, Medium}, {VarTarget, Partial}}, Then: Adequate},
	{ID: 4, If: []Antecedent{{VarDuration, Short}, {VarInterruptions, High}}, Then: Ineffective},
	{ID: 5, If: []Antecedent{{VarTarget, NotMet}}, Then: Ineffective},
	{ID: 6, If: []Antecedent{{VarDuration, Long}, {VarInterruptions, High}}, Then: Adequate},
	{ID: 7, If: []Antecedent{{VarDuration, Short}, {VarTarget, Met}}, Then: Adequate},
}

// Rules returns a copy of the fixed rule base in its canonical order.
func Rules() []Rule {
	out := make([]Rule, len(ruleBase))
	for i, r := range ruleBase {
		out[i] = Rule{ID: r.ID, If: append([]Antecedent(nil), r.If...), Then: r.Then}
	}
	return out
}

// #endregion rule-base

// #region strength
// Strength is the fuzzy AND (minimum) of the rule's antecedent degrees.
// A variable missing from in contributes degree 0.
func Strength(r Rule, in Inputs) float64 {
	s := 1.0
	for _, a := range r.If {
		s = math.Min(s, in[a.Variable].Degree(a.Term))
	}
	return s
}

// #endregion strength

// #region infer
// Infer evaluates every rule independently and aggregates strengths per
// output term by maximum. The result does not depend on rule order.
func Infer(rules []Rule, in Inputs) Activation {
	var act Activation
	for _, r := range rules {
		if s := Strength(r, in); s > act.Degree(r.Then) {
			act = act.with(r.Then, s)
		}
	}
	return act
}

// #endregion infer
