package progress

import (
	"math/rand/v2"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or was already stopped.
	Stop() bool
}

// Clock schedules one-shot callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Rand yields uniform draws in [0, 1).
type Rand interface {
	Float64() float64
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// globalRand uses the goroutine-safe top-level source of math/rand/v2.
type globalRand struct{}

func (globalRand) Float64() float64 {
	return rand.Float64()
}
