package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"example.com/your_project/wave-picking/internal/config"
	"example.com/your_project/wave-picking/internal/solver"
)

const instance = `{
	"orders": [{"0": 5}, {"0": 5}],
	"aisles": [{"0": 10}],
	"nItems": 1,
	"waveSizeLB": 1,
	"waveSizeUB": 20
}`

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Solver.Name = solver.ExhaustiveName
	s, err := cfg.NewSolver()
	require.NoError(t, err)
	return New(cfg, s, zaptest.NewLogger(t)).Router()
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	newRouter(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestWaves(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waves?duration=10s", strings.NewReader(instance))
	req.Header.Set("Content-Type", "application/json")
	newRouter(t).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp WaveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	_, err := uuid.Parse(resp.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, []int{0, 1}, resp.Orders)
	assert.Equal(t, []int{0}, resp.Aisles)
	assert.Equal(t, 10, resp.Units)
	assert.Equal(t, 10.0, resp.Objective)
}

func TestWavesInfeasible(t *testing.T) {
	body := strings.Replace(instance, `"waveSizeUB": 20`, `"waveSizeUB": 3`, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waves?duration=10s", strings.NewReader(body))
	newRouter(t).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp WaveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "infeasible", resp.Status)
	assert.Empty(t, resp.Orders)
	assert.Zero(t, resp.Objective)
}

func TestWavesBadRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		body  string
	}{
		{"bad duration", "?duration=soon", instance},
		{"negative duration", "?duration=-1s", instance},
		{"bad json", "", `{"orders": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/waves"+tt.query, strings.NewReader(tt.body))
			newRouter(t).ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "run_id")
		})
	}
}
