package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tanpawarit/startup-strategic-planner/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
	"github.com/tanpawarit/startup-strategic-planner/agent/execlog"
	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
	statex "github.com/tanpawarit/startup-strategic-planner/agent/state"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

type Config struct {
	Model             string
	GenerationTimeout time.Duration
	Now               func() time.Time
}

// Handler serves planning runs over HTTP. Every request gets its own run.
type Handler struct {
	completer contractx.Completer
	sinks     execlog.SinkFactory
	store     statex.Store
	cfg       Config
}

// NewHandler wires the HTTP surface. store may be nil, in which case runs
// are not persisted and lookups answer 501.
func NewHandler(completer contractx.Completer, sinks execlog.SinkFactory, store statex.Store, cfg Config) *Handler {
	return &Handler{completer: completer, sinks: sinks, store: store, cfg: cfg}
}

type PlanRequest struct {
	Profile         statex.Info            `json:"profile"`
	Performance     int                    `json:"performance" binding:"omitempty,min=1,max=150"`
	IncludeOriginal bool                   `json:"include_original"`
	Reviews         []orchestratorx.Review `json:"reviews"`
}

type FieldDefinition struct {
	Field      string `json:"field"`
	Definition string `json:"definition"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.GET("/fields", h.ListFields)
	v1.POST("/plans", h.CreatePlan)
	v1.GET("/plans/:runKey", h.GetPlan)

	return router
}

// RequestID echoes X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	}
}

func (h *Handler) ListFields(c *gin.Context) {
	out := make([]FieldDefinition, 0, fieldx.Count)
	for _, f := range fieldx.All() {
		out = append(out, FieldDefinition{Field: string(f), Definition: fieldx.Definition(f)})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	for _, r := range req.Reviews {
		if _, err := fieldx.Parse(r.Field); err != nil {
			h.fail(c, http.StatusBadRequest, err)
			return
		}
	}

	ctx := c.Request.Context()
	o, err := orchestratorx.New(ctx, req.Profile, h.completer, h.sinks, orchestratorx.Config{
		Model:             h.cfg.Model,
		Performance:       req.Performance,
		GenerationTimeout: h.cfg.GenerationTimeout,
		Now:               h.cfg.Now,
	})
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	snap, err := o.RunPipeline(ctx, orchestratorx.PipelineOptions{
		IncludeOriginal: req.IncludeOriginal,
		Reviews:         req.Reviews,
	})
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	if h.store != nil {
		if err := h.store.Save(ctx, snap); err != nil {
			log.Warn().Err(err).Str("run_key", snap.RunKey).Msg("persist run snapshot")
		}
	}

	c.JSON(http.StatusCreated, snap)
}

func (h *Handler) GetPlan(c *gin.Context) {
	if h.store == nil {
		h.fail(c, http.StatusNotImplemented, errors.New("run persistence is not configured"))
		return
	}
	snap, err := h.store.Load(c.Request.Context(), c.Param("runKey"))
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error(), RequestID: c.GetString(requestIDKey)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, contractx.ErrFieldNotFound),
		errors.Is(err, contractx.ErrValidation),
		errors.Is(err, statex.ErrInvalidRunKey):
		return http.StatusBadRequest
	case errors.Is(err, statex.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, contractx.ErrLogSinkUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
