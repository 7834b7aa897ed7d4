package logging

import "time"

// #region trace-entry
// Trigger types recorded with each trace row.
const (
	TriggerHTTP   = "http"
	TriggerGRPC   = "grpc"
	TriggerMCP    = "mcp"
	TriggerCLI    = "cli"
	TriggerReplay = "replay"
	TriggerUpdate = "update"
)

// TraceEntry is a single row in the evaluation_trace table.
type TraceEntry struct {
	ID           int64
	EvaluationID string // empty for stateless evaluations
	TriggerType  string
	TraceJSON    string
	Score        int
	Category     string
	CreatedAt    time.Time
}

// #endregion trace-entry
