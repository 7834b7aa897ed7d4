package mcptool

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/study-productivity/internal/logging"
	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/request"
	"github.com/danielpatrickdp/study-productivity/internal/store"
)

// #region tools
// Tool names.
const (
	EvaluateTool = "evaluate_productivity"
	HistoryTool  = "list_evaluations"
)

// Repository is the persistence the tools use; *store.Store satisfies it.
type Repository interface {
	Insert(ctx context.Context, rec store.Record) (store.Record, error)
	List(ctx context.Context, limit int) ([]store.Record, error)
}

// Tools exposes the engine to MCP clients.
type Tools struct {
	engine  *productivity.Engine
	repo    Repository // nil disables persistence and history
	traceDB *sql.DB
}

// NewTools creates the tool set. repo and traceDB may be nil.
func NewTools(engine *productivity.Engine, repo Repository, traceDB *sql.DB) *Tools {
	return &Tools{engine: engine, repo: repo, traceDB: traceDB}
}

// Register adds every tool to s. The history tool is only added with a repository.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(EvaluateDefinition(), t.HandleEvaluate)
	if t.repo != nil {
		s.AddTool(HistoryDefinition(), t.HandleHistory)
	}
}

// EvaluateDefinition describes the evaluate tool.
func EvaluateDefinition() mcp.Tool {
	return mcp.NewTool(EvaluateTool,
		mcp.WithDescription("Score one day of study with the fuzzy productivity model and return score, category and recommendation."),
		mcp.WithNumber("duration",
			mcp.Required(),
			mcp.Description("Hours studied"),
		),
		mcp.WithString("interruptions",
			mcp.Required(),
			mcp.Description("Interruption level"),
			mcp.Enum("low", "medium", "high"),
		),
		mcp.WithString("target",
			mcp.Description("How far the study target was reached"),
			mcp.Enum("not_met", "partial", "met"),
		),
		mcp.WithNumber("tasks_completed",
			mcp.Description("Number of tasks finished"),
		),
		mcp.WithString("study_time_of_day",
			mcp.Description("When most studying happened; recorded only"),
			mcp.Enum("morning", "afternoon", "evening"),
		),
		mcp.WithBoolean("persist",
			mcp.Description("Store the evaluation in history"),
		),
	)
}

// HistoryDefinition describes the history tool.
func HistoryDefinition() mcp.Tool {
	return mcp.NewTool(HistoryTool,
		mcp.WithDescription("List stored evaluations, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of records; 0 returns all"),
		),
	)
}

// #endregion tools

// #region handlers
// HandleEvaluate scores the arguments and optionally persists the result.
func (t *Tools) HandleEvaluate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := make(map[string]interface{}, len(req.Params.Arguments))
	for k, v := range req.Params.Arguments {
		args[k] = v
	}
	persist, _ := args["persist"].(bool)
	delete(args, "persist")

	body, err := json.Marshal(args)
	if err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	in, err := request.Decode(body)
	if err != nil {
		return toolError(err.Error()), nil
	}

	res, trace := t.engine.Explain(in)
	out := map[string]interface{}{"result": res}

	var evaluationID string
	if persist {
		if t.repo == nil {
			return toolError("persistence is not configured"), nil
		}
		rec, err := t.repo.Insert(ctx, store.NewRecord(in, res))
		if err != nil {
			logrus.WithError(err).Error("mcp evaluation not stored")
			return toolError("failed to save evaluation"), nil
		}
		evaluationID = rec.ID
		out["record"] = rec
	}
	t.logTrace(evaluationID, trace)

	return jsonResult(out)
}

// HandleHistory lists stored evaluations.
func (t *Tools) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 0
	if v, ok := req.Params.Arguments["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}
	records, err := t.repo.List(ctx, limit)
	if err != nil {
		logrus.WithError(err).Error("mcp history failed")
		return toolError("failed to load history"), nil
	}
	if records == nil {
		records = []store.Record{}
	}
	return jsonResult(map[string]interface{}{"count": len(records), "records": records})
}

func (t *Tools) logTrace(evaluationID string, trace productivity.Trace) {
	if t.traceDB == nil {
		return
	}
	entry, err := logging.NewTraceEntry(evaluationID, logging.TriggerMCP, trace, trace.Result.Score, string(trace.Result.Category))
	if err == nil {
		err = logging.LogEvaluation(t.traceDB, entry)
	}
	if err != nil {
		logrus.WithError(err).Warn("evaluation trace not recorded")
	}
}

// #endregion handlers

// #region results
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func toolError(msg string) *mcp.CallToolResult {
	r := mcp.NewToolResultText(msg)
	r.IsError = true
	return r
}

// #endregion results
