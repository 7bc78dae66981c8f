package search

import (
	"fmt"
	"time"
)

// Direction of an L scan.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Start picks the first L of a scan.
type Start int

const (
	// FromOne starts at L = 1.
	FromOne Start = iota
	// BelowFirst starts just below the smallest L that produced a wave so far.
	BelowFirst
	// AtFirst starts at the smallest L that produced a wave so far.
	AtFirst
)

// Step is one scan of the schedule: an exclusion fraction, a direction and a
// starting rule.
type Step struct {
	Fraction  float64
	Direction Direction
	Start     Start
}

func (s Step) String() string {
	return fmt.Sprintf("%s@%.2f", s.Direction, s.Fraction)
}

// DefaultFractions are the exclusion fractions of successive phases. The last
// phase only excludes invalid aisles.
var DefaultFractions = []float64{0.8, 0.6, 0.4, 0.2, 0}

// Schedule expands phase fractions into scan steps: the first phase scans L
// upward from 1, every later phase scans down from below the first feasible L
// and then up again from it.
func Schedule(fractions []float64) []Step {
	var steps []Step
	for i, f := range fractions {
		if i == 0 {
			steps = append(steps, Step{Fraction: f, Direction: Up, Start: FromOne})
			continue
		}
		steps = append(steps,
			Step{Fraction: f, Direction: Down, Start: BelowFirst},
			Step{Fraction: f, Direction: Up, Start: AtFirst},
		)
	}
	return steps
}

// Deadline is the instant the search must be done by: the time limit minus
// the safety margin reserved for shutdown, measured from start.
func Deadline(start time.Time, limit, margin time.Duration) time.Time {
	return start.Add(limit - margin)
}

// Clock is the time source of a Controller.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
