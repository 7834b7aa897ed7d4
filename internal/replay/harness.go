package replay

import (
	"fmt"

	"github.com/danielpatrickdp/study-productivity/internal/productivity"
)

// #region types
// Replay outcomes.
const (
	ActionMatch = "match"
	ActionDrift = "drift"
)

// Case is one input with its previously recorded result.
type Case struct {
	ID       string
	Input    productivity.Input
	Expected productivity.Result // empty Recommendation is not compared
}

// ReplayResult captures the outcome of re-evaluating one case.
type ReplayResult struct {
	CaseID   string
	Action   string // "match" | "drift"
	Reason   string
	Expected productivity.Result
	Actual   productivity.Result
	Trace    productivity.Trace
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalCases int
	Matches    int
	Drifts     int
	MaxDelta   int // largest absolute score difference
}

// #endregion types

// #region replay
// Check re-evaluates one case and compares it with its expectation.
func Check(engine *productivity.Engine, c Case) ReplayResult {
	actual, trace := engine.Explain(c.Input)
	r := ReplayResult{
		CaseID:   c.ID,
		Action:   ActionMatch,
		Expected: c.Expected,
		Actual:   actual,
		Trace:    trace,
	}

	switch {
	case actual.Score != c.Expected.Score:
		r.Action = ActionDrift
		r.Reason = fmt.Sprintf("score %d, expected %d", actual.Score, c.Expected.Score)
	case actual.Category != c.Expected.Category:
		r.Action = ActionDrift
		r.Reason = fmt.Sprintf("category %s, expected %s", actual.Category, c.Expected.Category)
	case c.Expected.Recommendation != "" && actual.Recommendation != c.Expected.Recommendation:
		r.Action = ActionDrift
		r.Reason = "recommendation changed"
	}
	return r
}

// Replay re-evaluates every case in order. Cases are independent, so a
// drift in one never affects the next.
func Replay(engine *productivity.Engine, cases []Case) []ReplayResult {
	results := make([]ReplayResult, 0, len(cases))
	for _, c := range cases {
		results = append(results, Check(engine, c))
	}
	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{TotalCases: len(results)}
	for _, r := range results {
		switch r.Action {
		case ActionMatch:
			s.Matches++
		case ActionDrift:
			s.Drifts++
		}
		d := r.Actual.Score - r.Expected.Score
		if d < 0 {
			d = -d
		}
		if d > s.MaxDelta {
			s.MaxDelta = d
		}
	}
	return s
}

// #endregion replay
