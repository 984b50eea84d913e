package progress

import (
	"math"
	"sync"
)

// Default element ids of the two sinks.
const (
	BarID  = "upload-progress"
	TextID = "progress-text"
)

// WidthSink displays a percentage, e.g. as the width of a bar.
// Implementations must not block.
type WidthSink interface {
	SetWidth(percent int)
}

// TextSink displays a status line.
// Implementations must not block.
type TextSink interface {
	SetText(text string)
}

// SinkResolver looks up sinks by stable element id.
type SinkResolver interface {
	WidthSink(id string) (WidthSink, bool)
	TextSink(id string) (TextSink, bool)
}

// Logger receives diagnostics. *logging.DebugLogger satisfies it.
type Logger interface {
	Log(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// RunState is the lifecycle state of a Simulator.
type RunState int

const (
	// Idle means no tick is scheduled.
	Idle RunState = iota
	// Running means exactly one tick is scheduled.
	Running
)

func (s RunState) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// State is a point-in-time view of a Simulator.
type State struct {
	Progress float64
	Percent  int
	Mode     Mode
	RunState RunState
}

// Options configures a Simulator.
type Options struct {
	// Sinks resolves the bar and text sinks on every Start.
	Sinks SinkResolver
	// BarID and TextID default to BarID and TextID.
	BarID  string
	TextID string
	// Tuning defaults to DefaultTuning().
	Tuning *Tuning
	// Clock defaults to the wall clock.
	Clock Clock
	// Rand defaults to math/rand/v2.
	Rand   Rand
	Logger Logger
}

// run is the resource owned while Running. The zero value means no run.
type run struct {
	gen   uint64
	timer Timer
	bar   WidthSink
	text  TextSink
}

// Simulator advances a synthetic completion value on a randomized timer.
// It is safe for concurrent use; construct one per page.
type Simulator struct {
	opts   Options
	tuning Tuning

	mu       sync.Mutex
	state    RunState
	current  run
	gen      uint64
	progress float64
	mode     Mode
}

// NewSimulator creates an idle simulator.
func NewSimulator(opts Options) *Simulator {
	if opts.BarID == "" {
		opts.BarID = BarID
	}
	if opts.TextID == "" {
		opts.TextID = TextID
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Rand == nil {
		opts.Rand = globalRand{}
	}
	tuning := DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}

	return &Simulator{
		opts:   opts,
		tuning: tuning,
		mode:   ModeGeneric,
	}
}

// Start cancels any run in flight, resets progress to zero and begins a new
// run in the given mode. Both sinks are written once before Start returns.
//
// Start returns false, leaving the simulator idle, if either sink cannot be
// resolved. It never fails otherwise.
func (s *Simulator) Start(mode Mode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.progress = 0
	s.mode = mode.Normalize()

	var bar WidthSink
	var text TextSink
	var barOK, textOK bool
	if s.opts.Sinks != nil {
		bar, barOK = s.opts.Sinks.WidthSink(s.opts.BarID)
		text, textOK = s.opts.Sinks.TextSink(s.opts.TextID)
	}
	if !barOK || !textOK {
		s.log("[progress] sink elements not found (bar=%s:%t text=%s:%t)",
			s.opts.BarID, barOK, s.opts.TextID, textOK)
		return false
	}

	s.gen++
	s.current = run{gen: s.gen, bar: bar, text: text}
	s.state = Running

	s.advanceLocked()
	s.scheduleLocked()
	return true
}

// Stop cancels the pending tick, if any. Progress keeps its last value.
// Calling Stop while idle is a no-op.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Snapshot returns the current state.
func (s *Simulator) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Progress: s.progress,
		Percent:  int(math.Floor(s.progress)),
		Mode:     s.mode,
		RunState: s.state,
	}
}

// SetTuning replaces the curve constants. A running simulation picks them up
// on its next tick.
func (s *Simulator) SetTuning(t Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.tuning = t
	s.mu.Unlock()
	return nil
}

func (s *Simulator) stopLocked() {
	if s.state != Running {
		return
	}
	s.current.timer.Stop()
	s.current = run{}
	s.state = Idle
}

// advanceLocked performs one tick worth of progress and writes both sinks.
func (s *Simulator) advanceLocked() {
	s.progress = s.tuning.next(s.progress, s.opts.Rand.Float64())
	percent := int(math.Floor(s.progress))

	s.current.bar.SetWidth(percent)
	s.current.text.SetText(Message(s.mode, s.progress))
	s.debug("[progress] %d%%", percent)
}

func (s *Simulator) scheduleLocked() {
	gen := s.current.gen
	delay := s.tuning.interval(s.opts.Rand.Float64())
	s.current.timer = s.opts.Clock.AfterFunc(delay, func() { s.tick(gen) })
}

// tick runs on the clock's goroutine. Ticks from a superseded or stopped run
// are dropped even if their timer fired before it was cancelled.
func (s *Simulator) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running || s.current.gen != gen {
		return
	}
	s.advanceLocked()
	s.scheduleLocked()
}

func (s *Simulator) log(format string, args ...interface{}) {
	if s.opts.Logger != nil {
		s.opts.Logger.Log(format, args...)
	}
}

func (s *Simulator) debug(format string, args ...interface{}) {
	if s.opts.Logger != nil {
		s.opts.Logger.Debug(format, args...)
	}
}
