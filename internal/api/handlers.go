package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/study-productivity/internal/logging"
	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/request"
	"github.com/danielpatrickdp/study-productivity/internal/store"
)

// #region handler
// Repository is the persistence the handlers need; *store.Store satisfies it.
type Repository interface {
	Insert(ctx context.Context, rec store.Record) (store.Record, error)
	Get(ctx context.Context, id string) (store.Record, error)
	List(ctx context.Context, limit int) ([]store.Record, error)
	Update(ctx context.Context, id string, rec store.Record) (store.Record, error)
	Delete(ctx context.Context, id string) error
	Dashboard(ctx context.Context, now time.Time) (store.DashboardStats, error)
}

// HandlerConfig holds optional handler settings.
type HandlerConfig struct {
	TraceDB      *sql.DB // nil disables evaluation traces
	HistoryLimit int     // default limit for history; 0 returns everything
}

// Handler serves the evaluation API.
type Handler struct {
	engine *productivity.Engine
	repo   Repository
	config HandlerConfig
	now    func() time.Time
}

// NewHandler creates a handler over an engine and a repository.
func NewHandler(engine *productivity.Engine, repo Repository, config HandlerConfig) *Handler {
	return &Handler{engine: engine, repo: repo, config: config, now: time.Now}
}

// RegisterRoutes mounts every route on router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.POST("/evaluate", h.Evaluate)
	api.POST("/evaluations", h.CreateEvaluation)
	api.GET("/evaluations", h.ListEvaluations)
	api.GET("/evaluations/:id", h.GetEvaluation)
	api.PUT("/evaluations/:id", h.UpdateEvaluation)
	api.DELETE("/evaluations/:id", h.DeleteEvaluation)
	api.GET("/dashboard-stats", h.DashboardStats)

	// Routes kept for the Indonesian-field web client.
	api.POST("/evaluasi-produktivitas", h.legacyCreate)
	api.GET("/riwayat-produktivitas", h.legacyHistory)
	api.PUT("/riwayat-produktivitas/:id", h.legacyUpdate)
	api.DELETE("/riwayat-produktivitas/:id", h.legacyDelete)
}

// #endregion handler

// #region health
// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"sample_step": h.engine.Config().SampleStep,
		"time":        h.now().UTC().Format(time.RFC3339),
	})
}

// #endregion health

// #region evaluate
// Evaluate scores a request without persisting it. ?explain=true adds the trace.
func (h *Handler) Evaluate(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	res, trace := h.engine.Explain(in)
	h.logTrace(c, "", logging.TriggerHTTP, trace)

	body := gin.H{"status": "success", "result": res}
	if explain, _ := strconv.ParseBool(c.Query("explain")); explain {
		body["trace"] = trace
	}
	c.JSON(http.StatusOK, body)
}

// CreateEvaluation scores a request and stores it.
func (h *Handler) CreateEvaluation(c *gin.Context) {
	rec, ok := h.create(c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":         "success",
		"score":          rec.Score,
		"category":       rec.Category,
		"recommendation": rec.Recommendation,
		"record":         rec,
	})
}

func (h *Handler) create(c *gin.Context) (store.Record, bool) {
	in, ok := h.bindInput(c)
	if !ok {
		return store.Record{}, false
	}
	res, trace := h.engine.Explain(in)
	rec, err := h.repo.Insert(c.Request.Context(), store.NewRecord(in, res))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to save evaluation", err)
		return store.Record{}, false
	}
	h.logTrace(c, rec.ID, logging.TriggerHTTP, trace)
	logger(c).WithFields(logrus.Fields{"id": rec.ID, "score": rec.Score, "category": rec.Category}).Info("evaluation stored")
	return rec, true
}

// #endregion evaluate

// #region history
// ListEvaluations returns stored evaluations, newest first.
func (h *Handler) ListEvaluations(c *gin.Context) {
	records, ok := h.list(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "count": len(records), "records": records})
}

func (h *Handler) list(c *gin.Context) ([]store.Record, bool) {
	limit := h.config.HistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.fail(c, http.StatusBadRequest, "limit must be a non-negative integer", err)
			return nil, false
		}
		limit = n
	}
	records, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to load history", err)
		return nil, false
	}
	if records == nil {
		records = []store.Record{}
	}
	return records, true
}

// GetEvaluation returns one stored evaluation.
func (h *Handler) GetEvaluation(c *gin.Context) {
	rec, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failStore(c, err, "failed to load evaluation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "record": rec})
}

// UpdateEvaluation re-scores a stored evaluation with new input.
func (h *Handler) UpdateEvaluation(c *gin.Context) {
	rec, ok := h.update(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"score":          rec.Score,
		"category":       rec.Category,
		"recommendation": rec.Recommendation,
		"record":         rec,
	})
}

func (h *Handler) update(c *gin.Context) (store.Record, bool) {
	in, ok := h.bindInput(c)
	if !ok {
		return store.Record{}, false
	}
	res, trace := h.engine.Explain(in)
	rec, err := h.repo.Update(c.Request.Context(), c.Param("id"), store.NewRecord(in, res))
	if err != nil {
		h.failStore(c, err, "failed to update evaluation")
		return store.Record{}, false
	}
	h.logTrace(c, rec.ID, logging.TriggerUpdate, trace)
	return rec, true
}

// DeleteEvaluation removes a stored evaluation.
func (h *Handler) DeleteEvaluation(c *gin.Context) {
	if !h.delete(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "evaluation deleted"})
}

func (h *Handler) delete(c *gin.Context) bool {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.failStore(c, err, "failed to delete evaluation")
		return false
	}
	return true
}

// DashboardStats returns today's latest score and the recent trend.
func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.repo.Dashboard(c.Request.Context(), h.now())
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to load dashboard", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// #endregion history

// #region legacy
// legacyResult is the response shape the legacy web client reads.
func legacyResult(rec store.Record) gin.H {
	return gin.H{
		"skor_produktivitas":     rec.Score,
		"kategori_produktivitas": rec.Category,
		"rekomendasi_belajar":    rec.Recommendation,
		"detail_simpan":          rec,
	}
}

func (h *Handler) legacyCreate(c *gin.Context) {
	if rec, ok := h.create(c); ok {
		c.JSON(http.StatusOK, legacyResult(rec))
	}
}

func (h *Handler) legacyHistory(c *gin.Context) {
	if records, ok := h.list(c); ok {
		c.JSON(http.StatusOK, records)
	}
}

func (h *Handler) legacyUpdate(c *gin.Context) {
	if rec, ok := h.update(c); ok {
		c.JSON(http.StatusOK, legacyResult(rec))
	}
}

func (h *Handler) legacyDelete(c *gin.Context) {
	if h.delete(c) {
		c.JSON(http.StatusOK, gin.H{"message": "evaluation deleted"})
	}
}

// #endregion legacy

// #region helpers
func (h *Handler) bindInput(c *gin.Context) (productivity.Input, bool) {
	var req request.Evaluation
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid request body", err)
		return productivity.Input{}, false
	}
	in, err := req.ToInput()
	if err != nil {
		h.fail(c, http.StatusBadRequest, err.Error(), nil)
		return productivity.Input{}, false
	}
	return in, true
}

// logTrace records the evaluation trace. Failures are logged, never returned.
func (h *Handler) logTrace(c *gin.Context, evaluationID, trigger string, trace productivity.Trace) {
	if h.config.TraceDB == nil {
		return
	}
	entry, err := logging.NewTraceEntry(evaluationID, trigger, trace, trace.Result.Score, string(trace.Result.Category))
	if err == nil {
		err = logging.LogEvaluation(h.config.TraceDB, entry)
	}
	if err != nil {
		logger(c).WithError(err).Warn("evaluation trace not recorded")
	}
}

func (h *Handler) failStore(c *gin.Context, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		h.fail(c, http.StatusNotFound, "evaluation not found", nil)
		return
	}
	h.fail(c, http.StatusInternalServerError, msg, err)
}

func (h *Handler) fail(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		entry := logger(c).WithError(err)
		if status >= http.StatusInternalServerError {
			entry.Error(msg)
		} else {
			entry.Debug(msg)
		}
	}
	c.JSON(status, gin.H{"status": "error", "error": msg})
}

// #endregion helpers
