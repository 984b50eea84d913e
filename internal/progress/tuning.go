package progress

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Tuning holds the presentation constants of the simulated curve.
type Tuning struct {
	// MaxIncrement is the upper bound (exclusive) of the raw per-tick increment.
	MaxIncrement float64
	// FastBelow is the progress under which increments are scaled by FastFactor.
	FastBelow float64
	FastFactor float64
	// SlowAbove is the progress over which increments are scaled by SlowFactor.
	SlowAbove  float64
	SlowFactor float64
	// Ceiling is the highest value the simulation may reach. Must stay below 100.
	Ceiling float64
	// MinInterval and MaxInterval bound the randomized delay between ticks.
	MinInterval time.Duration
	MaxInterval time.Duration
}

// DefaultTuning returns the stock curve: 0-20 per tick, 1.5x under 20%,
// 0.3x over 80%, capped at 99%, ticking every 300-500ms.
func DefaultTuning() Tuning {
	return Tuning{
		MaxIncrement: 20,
		FastBelow:    20,
		FastFactor:   1.5,
		SlowAbove:    80,
		SlowFactor:   0.3,
		Ceiling:      99,
		MinInterval:  300 * time.Millisecond,
		MaxInterval:  500 * time.Millisecond,
	}
}

// Validate reports whether the tuning keeps the simulation monotonic and
// below 100%.
func (t Tuning) Validate() error {
	var errs []error
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"max_increment", t.MaxIncrement},
		{"fast_below", t.FastBelow},
		{"fast_factor", t.FastFactor},
		{"slow_above", t.SlowAbove},
		{"slow_factor", t.SlowFactor},
		{"ceiling", t.Ceiling},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			errs = append(errs, fmt.Errorf("%s must be a finite number, got %v", f.name, f.v))
		}
	}
	if t.MaxIncrement < 0 {
		errs = append(errs, fmt.Errorf("max_increment must be >= 0, got %v", t.MaxIncrement))
	}
	if t.FastFactor < 0 || t.SlowFactor < 0 {
		errs = append(errs, fmt.Errorf("scale factors must be >= 0, got fast=%v slow=%v", t.FastFactor, t.SlowFactor))
	}
	if t.Ceiling <= 0 || t.Ceiling >= 100 {
		errs = append(errs, fmt.Errorf("ceiling must be in (0, 100), got %v", t.Ceiling))
	}
	if t.MinInterval <= 0 {
		errs = append(errs, fmt.Errorf("min_interval must be > 0, got %v", t.MinInterval))
	}
	if t.MaxInterval < t.MinInterval {
		errs = append(errs, fmt.Errorf("max_interval %v is below min_interval %v", t.MaxInterval, t.MinInterval))
	}
	return errors.Join(errs...)
}

// next returns the progress after one tick given a uniform draw in [0, 1).
// It never returns less than progress, even when the ceiling was lowered
// mid-run.
func (t Tuning) next(progress, draw float64) float64 {
	increment := draw * t.MaxIncrement
	if progress < t.FastBelow {
		increment *= t.FastFactor
	} else if progress > t.SlowAbove {
		increment *= t.SlowFactor
	}
	return math.Max(progress, math.Min(t.Ceiling, progress+increment))
}

// interval returns the delay before the next tick given a uniform draw in [0, 1).
func (t Tuning) interval(draw float64) time.Duration {
	return t.MinInterval + time.Duration(draw*float64(t.MaxInterval-t.MinInterval))
}
