// Package server exposes wave computation over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"example.com/your_project/wave-picking/internal/config"
	"example.com/your_project/wave-picking/internal/search"
	"example.com/your_project/wave-picking/internal/solver"
	"example.com/your_project/wave-picking/internal/warehouse"
)

// Server answers wave requests with a bounded number of concurrent searches.
type Server struct {
	cfg    config.Config
	logger *zap.Logger
	sem    *semaphore.Weighted
	solver solver.Solver
}

// WaveResponse is the body of a successful POST /api/v1/waves.
type WaveResponse struct {
	RunID     string  `json:"run_id"`
	Status    string  `json:"status"`
	Orders    []int   `json:"orders"`
	Aisles    []int   `json:"aisles"`
	Units     int     `json:"units"`
	Objective float64 `json:"objective"`
	Calls     int     `json:"calls"`
	Elapsed   string  `json:"elapsed"`
}

// New builds a Server from cfg.
func New(cfg config.Config, s solver.Solver, logger *zap.Logger) *Server {
	n := cfg.Server.MaxConcurrent
	if n < 1 {
		n = 1
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		sem:    semaphore.NewWeighted(n),
		solver: s,
	}
}

// Router returns the gin engine serving the API.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api/v1")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/waves", s.handleWaves)
	}
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleWaves(c *gin.Context) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))

	limit := s.cfg.TimeLimit
	if d := c.Query("duration"); d != "" {
		parsed, err := time.ParseDuration(d)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration", "run_id": runID})
			return
		}
		limit = parsed
	}
	if ceiling := s.cfg.Server.MaxTimeLimit; ceiling > 0 && limit > ceiling {
		limit = ceiling
	}

	var in warehouse.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instance", "details": err.Error(), "run_id": runID})
		return
	}

	ctx := c.Request.Context()
	if err := s.sem.Acquire(ctx, 1); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled while queued", "run_id": runID})
		return
	}
	defer s.sem.Release(1)

	// The budget counts from the request, queueing included.
	deadline := s.cfg.WithTimeLimit(limit).Deadline(start)

	log.Info("wave requested",
		zap.Int("orders", len(in.Orders)),
		zap.Int("aisles", len(in.Aisles)),
		zap.Duration("limit", limit),
	)
	ctl := search.New(s.solver, s.cfg.SearchOptions(), search.WithLogger(log))
	outcome := ctl.Solve(ctx, in.Instance(), deadline)

	resp := WaveResponse{
		RunID:   runID,
		Status:  outcome.Status(),
		Orders:  []int{},
		Aisles:  []int{},
		Calls:   outcome.Calls,
		Elapsed: time.Since(start).String(),
	}
	if !outcome.Solution.Empty() {
		resp.Orders = outcome.Solution.Orders
		resp.Aisles = outcome.Solution.Aisles
		resp.Units = outcome.Ratio.Units
		resp.Objective = outcome.Objective
	}
	c.JSON(http.StatusOK, resp)
}
