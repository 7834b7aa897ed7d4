package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// #region log-evaluation
// LogEvaluation writes a trace entry to the evaluation_trace table.
func LogEvaluation(db *sql.DB, entry TraceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO evaluation_trace (evaluation_id, trigger_type, trace_json, score, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.EvaluationID),
		entry.TriggerType,
		entry.TraceJSON,
		entry.Score,
		entry.Category,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("log evaluation: %w", err)
	}
	return nil
}

// NewTraceEntry serializes v (normally a productivity.Trace) into an entry.
func NewTraceEntry(evaluationID, trigger string, v any, score int, category string) (TraceEntry, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return TraceEntry{}, fmt.Errorf("marshal trace: %w", err)
	}
	return TraceEntry{
		EvaluationID: evaluationID,
		TriggerType:  trigger,
		TraceJSON:    string(data),
		Score:        score,
		Category:     category,
	}, nil
}

// #endregion log-evaluation

// #region list-traces
// ListTraces returns every trace recorded for an evaluation, oldest first.
func ListTraces(db *sql.DB, evaluationID string) ([]TraceEntry, error) {
	rows, err := db.Query(
		`SELECT id, evaluation_id, trigger_type, trace_json, score, category, created_at
		 FROM evaluation_trace WHERE evaluation_id = ? ORDER BY id ASC`,
		evaluationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	defer rows.Close()

	var entries []TraceEntry
	for rows.Next() {
		var e TraceEntry
		var evalID sql.NullString
		var createdStr string
		if err := rows.Scan(&e.ID, &evalID, &e.TriggerType, &e.TraceJSON, &e.Score, &e.Category, &createdStr); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		e.EvaluationID = evalID.String
		e.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion list-traces

// #region helpers
// Matches store.TimeLayout so both tables sort the same way.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
