package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/your_project/wave-picking/internal/solver"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wave.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 600*time.Second, cfg.TimeLimit)
	assert.Equal(t, 5*time.Second, cfg.SafetyMargin)
	assert.Equal(t, []float64{0.8, 0.6, 0.4, 0.2, 0}, cfg.Search.Fractions)
	assert.Equal(t, solver.HiGHSName, cfg.Solver.Name)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, start.Add(595*time.Second), cfg.Deadline(start))
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
time_limit: 30s
safety_margin: 2s
search:
  fractions: [0.5, 0]
  workers: 4
  max_solve_time: 10s
solver:
  name: exhaustive
  mip_gap: 0.05
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.TimeLimit)
	assert.Equal(t, 2*time.Second, cfg.SafetyMargin)
	assert.Equal(t, []float64{0.5, 0}, cfg.Search.Fractions)
	assert.Equal(t, 4, cfg.Search.Workers)
	assert.Equal(t, time.Second, cfg.Search.MinRemaining, "unset keys keep their default")
	assert.Equal(t, solver.ExhaustiveName, cfg.Solver.Name)
	assert.Equal(t, 0.05, cfg.Solver.MIPGap)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	opts := cfg.SearchOptions()
	assert.Equal(t, 10*time.Second, opts.MaxSolveTime)
	assert.Equal(t, 4, opts.Workers)

	s, err := cfg.NewSolver()
	require.NoError(t, err)
	assert.IsType(t, &solver.Exhaustive{}, s)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"fraction out of range", "search:\n  fractions: [1.5]\n"},
		{"margin exceeds limit", "time_limit: 5s\nsafety_margin: 5s\n"},
		{"negative workers", "search:\n  workers: -1\n"},
		{"empty schedule", "search:\n  fractions: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "time_limit: [oops\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "time_limit: soon\n"))
	assert.Error(t, err)
}

func TestWithTimeLimit(t *testing.T) {
	cfg := Default().WithTimeLimit(2 * time.Second)
	assert.Equal(t, 2*time.Second, cfg.TimeLimit)
	assert.Zero(t, cfg.SafetyMargin, "a margin as long as the budget is dropped")
	assert.NoError(t, cfg.Validate())

	cfg = Default().WithTimeLimit(time.Minute)
	assert.Equal(t, 5*time.Second, cfg.SafetyMargin)
}
