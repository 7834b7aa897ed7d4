package store

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/study-productivity/internal/productivity"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// #region record
// Record is one persisted evaluation: the raw input, its result and timestamps.
type Record struct {
	ID string `json:"id"`
	productivity.Input
	productivity.Result
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecord pairs an input with the result computed for it.
func NewRecord(in productivity.Input, res productivity.Result) Record {
	return Record{Input: in, Result: res}
}

// #endregion record

// #region dashboard
// WeeklyPoint is one bar of the recent-scores chart.
type WeeklyPoint struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// DashboardStats summarizes today's latest evaluation and the recent trend.
type DashboardStats struct {
	TodayScore    int           `json:"todayScore"`
	TodayCategory string        `json:"todayCategory"`
	WeeklyData    []WeeklyPoint `json:"weeklyData"`
}

// #endregion dashboard
