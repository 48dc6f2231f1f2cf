// Package presence implements the hysteresis state machine that
// confirms a person's presence and movement from noisy per-frame
// detection signals. Confirmation is asymmetric by design: slow to
// confirm presence, slower still to confirm absence, so single-frame
// flicker never reaches downstream consumers.
package presence

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/jontylopez/GuardianCam/pkg/pose"
)

// State is the confirmed presence state.
type State string

const (
	StateAbsent            State = "absent"
	StateCandidate         State = "candidate"
	StatePresentStationary State = "present_stationary"
	StatePresentMoving     State = "present_moving"
)

// Present reports whether the state is one of the confirmed-present
// states.
func (s State) Present() bool {
	return s == StatePresentStationary || s == StatePresentMoving
}

// Signal is one frame's worth of upstream detector output. Either a
// coarse human detector or the pose pipeline can produce it; the
// monitor only needs a detection flag, a confidence, and optionally a
// body center position. The timestamp drives the confirmation cooldown;
// no other wall-clock is used.
type Signal struct {
	Detected    bool
	Confidence  float64
	Position    pose.Point
	HasPosition bool
	Timestamp   time.Time
}

// Config holds the tunable hysteresis parameters.
type Config struct {
	// ConfirmFrames is how many consecutive positive frames are needed
	// before Candidate can become Present.
	ConfirmFrames int `yaml:"confirm_frames"`

	// AbsentFrames is how many consecutive negative frames are needed
	// before Present falls back to Absent.
	AbsentFrames int `yaml:"absent_frames"`

	// ConfidenceThreshold is the minimum average detection confidence
	// over the confirmation window.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// CooldownSeconds gates repeated Absent-to-Present transitions.
	CooldownSeconds float64 `yaml:"cooldown_seconds"`

	// PositionThreshold is the pixel distance between consecutive body
	// centers that counts as significant movement.
	PositionThreshold float64 `yaml:"position_threshold"`

	// MinMovementFrames is how many of the last five frames must show
	// positional movement to flip to PresentMoving.
	MinMovementFrames int `yaml:"min_movement_frames"`

	// IntensityThreshold is the average movement intensity above which
	// the person counts as moving.
	IntensityThreshold float64 `yaml:"intensity_threshold"`

	// SlowMovementThreshold catches sustained slow movement: both as a
	// direct intensity floor and as the per-sample cutoff for the
	// rolling movement strength.
	SlowMovementThreshold float64 `yaml:"slow_movement_threshold"`

	// StrengthThreshold is the rolling movement-strength fraction above
	// which the person counts as moving.
	StrengthThreshold float64 `yaml:"strength_threshold"`
}

const (
	positionCapacity = 15
	frameBufCapacity = 7
	strengthCapacity = 10
	evalWindow       = 5
	// intensityScale normalizes pixel distances into the [0,1]
	// intensity measure.
	intensityScale = 30.0
)

type frameSample struct {
	detected   bool
	confidence float64
	moving     bool
	intensity  float64
}

// Counters are the running totals kept across the monitor's lifetime
// (until Reset).
type Counters struct {
	Humans     int // Absent→Present transitions
	Moving     int // transitions into PresentMoving
	Stationary int // transitions into PresentStationary
}

// Snapshot is the externally visible monitor state for one frame.
type Snapshot struct {
	State     State
	Intensity float64 // latest averaged movement intensity
	Strength  float64 // latest rolling movement strength
	Counters  Counters
}

// Monitor is the presence/movement confirmation state machine. One
// monitor per stream; it is not safe for concurrent use.
type Monitor struct {
	cfg Config

	state              State
	consecutiveDetects int
	missFrames         int

	positions    []pose.Point
	frames       []frameSample
	intensityLog []float64

	lastConfirm    time.Time
	hasLastConfirm bool

	lastIntensity float64
	lastStrength  float64
	counters      Counters
}

// NewMonitor creates a monitor in the Absent state. The config is
// assumed validated.
func NewMonitor(cfg Config) *Monitor {
	return &Monitor{cfg: cfg, state: StateAbsent}
}

// State returns the current confirmed state.
func (m *Monitor) State() State {
	return m.state
}

// Snapshot returns the current state plus movement measures and
// counters.
func (m *Monitor) Snapshot() Snapshot {
	return Snapshot{
		State:     m.state,
		Intensity: m.lastIntensity,
		Strength:  m.lastStrength,
		Counters:  m.counters,
	}
}

// Observe feeds one frame's detection signal through the state machine
// and returns the resulting state. Every transition is a pure function
// of the buffered signals; only the confirmation cooldown consults the
// signal timestamps.
func (m *Monitor) Observe(sig Signal) State {
	moving, intensity := m.trackPosition(sig)

	m.pushFrame(frameSample{
		detected:   sig.Detected,
		confidence: sig.Confidence,
		moving:     moving,
		intensity:  intensity,
	})

	if !sig.Detected {
		m.consecutiveDetects = 0
		switch {
		case m.state == StateCandidate:
			// A single miss during confirmation collapses the candidate.
			m.state = StateAbsent
		case m.state.Present():
			m.missFrames++
			if m.missFrames >= m.cfg.AbsentFrames {
				m.state = StateAbsent
				m.missFrames = 0
			}
		}
		return m.state
	}

	m.missFrames = 0
	m.consecutiveDetects++
	m.intensityLog = appendBounded(m.intensityLog, m.avgIntensity(), strengthCapacity)

	switch {
	case m.state == StateAbsent:
		m.state = StateCandidate

	case m.state == StateCandidate:
		if m.consecutiveDetects >= m.cfg.ConfirmFrames && m.confirmable(sig.Timestamp) {
			m.confirm(sig.Timestamp)
		}

	case m.state.Present():
		m.updateMovement()
	}

	return m.state
}

// Reset clears all buffered signals, counters and state.
func (m *Monitor) Reset() {
	*m = Monitor{cfg: m.cfg, state: StateAbsent}
}

// trackPosition maintains the body-center history and derives the
// per-frame positional movement flag and intensity. The history is
// cleared whenever the detection drops out, so stale positions never
// feed the movement rule.
func (m *Monitor) trackPosition(sig Signal) (bool, float64) {
	if !sig.Detected || !sig.HasPosition {
		m.positions = m.positions[:0]
		return false, 0
	}

	m.positions = appendBounded(m.positions, sig.Position, positionCapacity)
	if len(m.positions) < 2 {
		return false, 0
	}

	recent := m.positions
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	current := recent[len(recent)-1]
	previous := recent[len(recent)-2]
	distance := math.Hypot(current.X-previous.X, current.Y-previous.Y)

	var total float64
	for i := 1; i < len(recent); i++ {
		total += math.Hypot(recent[i].X-recent[i-1].X, recent[i].Y-recent[i-1].Y)
	}

	moving := distance > m.cfg.PositionThreshold || total > m.cfg.PositionThreshold*3
	intensity := math.Min(math.Max(distance, total/float64(len(recent)))/intensityScale, 1.0)
	return moving, intensity
}

// confirmable checks the confidence and cooldown gates for a
// Candidate→Present transition.
func (m *Monitor) confirmable(now time.Time) bool {
	window := m.recentFrames()
	var confidences []float64
	for _, f := range window {
		if f.detected {
			confidences = append(confidences, f.confidence)
		}
	}
	if len(confidences) == 0 || stat.Mean(confidences, nil) <= m.cfg.ConfidenceThreshold {
		return false
	}
	if m.hasLastConfirm {
		cooldown := time.Duration(m.cfg.CooldownSeconds * float64(time.Second))
		if now.Sub(m.lastConfirm) < cooldown {
			return false
		}
	}
	return true
}

// confirm performs the Candidate→Present transition, picking the
// movement sub-state from the current composite rule.
func (m *Monitor) confirm(now time.Time) {
	m.lastConfirm = now
	m.hasLastConfirm = true
	m.counters.Humans++

	if m.movementConfirmed() {
		m.state = StatePresentMoving
		m.counters.Moving++
	} else {
		m.state = StatePresentStationary
		m.counters.Stationary++
	}
}

// updateMovement toggles between the two present sub-states, counting
// each toggle.
func (m *Monitor) updateMovement() {
	moving := m.movementConfirmed()
	switch {
	case moving && m.state == StatePresentStationary:
		m.state = StatePresentMoving
		m.counters.Moving++
	case !moving && m.state == StatePresentMoving:
		m.state = StatePresentStationary
		m.counters.Stationary++
	}
}

// movementConfirmed applies the composite movement rule over the last
// five buffered frames: any one criterion is enough to count as moving.
func (m *Monitor) movementConfirmed() bool {
	window := m.recentFrames()
	if len(window) == 0 {
		return false
	}

	movingFrames := 0
	intensities := make([]float64, 0, len(window))
	for _, f := range window {
		if f.moving {
			movingFrames++
		}
		intensities = append(intensities, f.intensity)
	}
	avgIntensity := stat.Mean(intensities, nil)
	strength := m.movementStrength()

	m.lastIntensity = avgIntensity
	m.lastStrength = strength

	return movingFrames >= m.cfg.MinMovementFrames ||
		avgIntensity > m.cfg.IntensityThreshold ||
		strength > m.cfg.StrengthThreshold ||
		avgIntensity > m.cfg.SlowMovementThreshold
}

// movementStrength is the fraction of recently logged intensity
// averages that exceed the slow-movement threshold.
func (m *Monitor) movementStrength() float64 {
	log := m.intensityLog
	if len(log) > evalWindow {
		log = log[len(log)-evalWindow:]
	}
	if len(log) == 0 {
		return 0
	}
	exceeding := 0
	for _, v := range log {
		if v > m.cfg.SlowMovementThreshold {
			exceeding++
		}
	}
	return float64(exceeding) / float64(len(log))
}

// avgIntensity averages intensity over the last five buffered frames.
func (m *Monitor) avgIntensity() float64 {
	window := m.recentFrames()
	if len(window) == 0 {
		return 0
	}
	intensities := make([]float64, 0, len(window))
	for _, f := range window {
		intensities = append(intensities, f.intensity)
	}
	return stat.Mean(intensities, nil)
}

// recentFrames returns up to the last five buffered frame samples.
func (m *Monitor) recentFrames() []frameSample {
	if len(m.frames) > evalWindow {
		return m.frames[len(m.frames)-evalWindow:]
	}
	return m.frames
}

func (m *Monitor) pushFrame(f frameSample) {
	m.frames = appendBounded(m.frames, f, frameBufCapacity)
}

// appendBounded appends to a bounded FIFO slice, dropping the oldest
// entry beyond the capacity.
func appendBounded[T any](s []T, v T, capacity int) []T {
	s = append(s, v)
	if len(s) > capacity {
		s = s[1:]
	}
	return s
}
