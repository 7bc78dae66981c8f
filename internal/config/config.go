// Package config loads the wave-picking configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"example.com/your_project/wave-picking/internal/search"
	"example.com/your_project/wave-picking/internal/solver"
)

// Config holds every tunable of a wave computation.
type Config struct {
	// Time budget
	TimeLimit    time.Duration `yaml:"time_limit"`
	SafetyMargin time.Duration `yaml:"safety_margin"`

	Search SearchConfig  `yaml:"search"`
	Solver SolverConfig  `yaml:"solver"`
	Log    LoggingConfig `yaml:"log"`
	Server ServerConfig  `yaml:"server"`
}

// SearchConfig configures the phase controller.
type SearchConfig struct {
	Fractions    []float64     `yaml:"fractions"`
	MinRemaining time.Duration `yaml:"min_remaining"`
	MaxSolveTime time.Duration `yaml:"max_solve_time"`
	Workers      int           `yaml:"workers"`
}

// SolverConfig selects and tunes the MIP backend.
type SolverConfig struct {
	Name           string `yaml:"name"` // highs, exhaustive
	solver.Options `yaml:",inline"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ServerConfig configures the HTTP daemon.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxConcurrent int64  `yaml:"max_concurrent"`

	// MaxTimeLimit caps the duration a request may ask for.
	MaxTimeLimit time.Duration `yaml:"max_time_limit"`
}

// Default returns the production defaults: a ten minute budget with five
// seconds reserved for shutdown, the five-phase schedule and HiGHS.
func Default() Config {
	def := search.DefaultOptions()
	return Config{
		TimeLimit:    600 * time.Second,
		SafetyMargin: 5 * time.Second,
		Search: SearchConfig{
			Fractions:    append([]float64(nil), def.Fractions...),
			MinRemaining: def.MinRemaining,
			Workers:      def.Workers,
		},
		Solver: SolverConfig{Name: solver.HiGHSName},
		Log:    LoggingConfig{Level: "info"},
		Server: ServerConfig{
			Addr:          ":8080",
			MaxConcurrent: 2,
			MaxTimeLimit:  600 * time.Second,
		},
	}
}

var ErrInvalid = errors.New("invalid configuration")

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would make a search meaningless.
func (c Config) Validate() error {
	if c.TimeLimit <= 0 {
		return fmt.Errorf("%w: time_limit must be positive", ErrInvalid)
	}
	if c.SafetyMargin < 0 || c.SafetyMargin >= c.TimeLimit {
		return fmt.Errorf("%w: safety_margin must be in [0, time_limit)", ErrInvalid)
	}
	if len(c.Search.Fractions) == 0 {
		return fmt.Errorf("%w: search.fractions is empty", ErrInvalid)
	}
	for _, f := range c.Search.Fractions {
		if f < 0 || f > 1 {
			return fmt.Errorf("%w: fraction %g outside [0, 1]", ErrInvalid, f)
		}
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("%w: search.workers must not be negative", ErrInvalid)
	}
	if c.Solver.MIPGap < 0 {
		return fmt.Errorf("%w: solver.mip_gap must not be negative", ErrInvalid)
	}
	return nil
}

// SearchOptions converts the search section for search.New.
func (c Config) SearchOptions() search.Options {
	return search.Options{
		Fractions:    c.Search.Fractions,
		MinRemaining: c.Search.MinRemaining,
		MaxSolveTime: c.Search.MaxSolveTime,
		Workers:      c.Search.Workers,
	}
}

// NewSolver builds the configured backend.
func (c Config) NewSolver() (solver.Solver, error) {
	return solver.New(c.Solver.Name, c.Solver.Options)
}

// WithTimeLimit returns c with the overall budget set to limit. The safety
// margin is dropped when it would use up the whole budget.
func (c Config) WithTimeLimit(limit time.Duration) Config {
	c.TimeLimit = limit
	if c.SafetyMargin >= limit {
		c.SafetyMargin = 0
	}
	return c
}

// Deadline is the search deadline of a run starting at start.
func (c Config) Deadline(start time.Time) time.Time {
	return search.Deadline(start, c.TimeLimit, c.SafetyMargin)
}
