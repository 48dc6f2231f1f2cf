// Package kinematics derives per-landmark and per-zone movement state
// from a stream of pose frames: sliding position histories, finite
// difference velocity/acceleration/jerk, dynamic movement thresholds,
// and anatomical zone aggregation.
package kinematics

import (
	"math"

	"github.com/jontylopez/GuardianCam/pkg/pose"
)

// minSamples is the history length required before a landmark produces
// a movement record. Jerk needs four positions; below that the landmark
// is omitted from the movement map entirely, never zero-filled.
const minSamples = 4

// Direction classifies the dominant axis of a landmark's velocity.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	// DirectionHorizontal is the neutral default when the velocity on
	// the dominant axis stays inside the deadband.
	DirectionHorizontal Direction = "horizontal"
)

// Vec is a 2D derivative vector in pixels per frame (or per frame², per
// frame³ for acceleration and jerk).
type Vec struct {
	X float64
	Y float64
}

// Magnitude returns the Euclidean length of the vector.
func (v Vec) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// MovementRecord is the per-frame kinematic state of one landmark.
type MovementRecord struct {
	Position     pose.Point
	Distance     float64 // pixels travelled since the previous frame
	Speed        float64 // Distance divided by history length; assumes a constant frame rate
	Velocity     Vec
	Acceleration Vec
	Jerk         Vec
	Moving       bool
	Direction    Direction
	Confidence   float64
}

// TrackerConfig holds the tunable parameters of the kinematics tracker.
type TrackerConfig struct {
	// HistoryLength is the per-landmark history capacity (15-50).
	HistoryLength int `yaml:"history_length"`

	// VelocityThreshold is the fraction of frame width a landmark's
	// per-axis velocity must exceed to count as moving.
	VelocityThreshold float64 `yaml:"velocity_threshold"`

	// DirectionDeadband is the per-axis velocity (pixels) below which
	// no direction is assigned.
	DirectionDeadband float64 `yaml:"direction_deadband"`

	// Per-category movement threshold fractions of frame width.
	HeadThresholdFrac    float64 `yaml:"head_threshold_frac"`
	HandThresholdFrac    float64 `yaml:"hand_threshold_frac"`
	FootThresholdFrac    float64 `yaml:"foot_threshold_frac"`
	DefaultThresholdFrac float64 `yaml:"default_threshold_frac"`
}

// Tracker owns the per-landmark position histories and derives movement
// records from them. One tracker per stream; it is not safe for
// concurrent use.
type Tracker struct {
	cfg       TrackerConfig
	histories map[int]*history
}

// NewTracker creates a tracker. The config is assumed validated.
func NewTracker(cfg TrackerConfig) *Tracker {
	return &Tracker{
		cfg:       cfg,
		histories: make(map[int]*history),
	}
}

// Track ingests one frame and returns the movement map: landmark id to
// movement record. Landmarks with fewer than four historical samples are
// absent from the map; callers must treat absence as "no information",
// not "no movement".
func (t *Tracker) Track(frame pose.Frame) map[int]MovementRecord {
	w := float64(frame.Width)
	h := float64(frame.Height)
	movements := make(map[int]MovementRecord, len(frame.Landmarks))

	for _, lm := range frame.Landmarks {
		px := pose.Point{X: lm.X * w, Y: lm.Y * h}

		hist, ok := t.histories[lm.ID]
		if !ok {
			hist = newHistory(t.cfg.HistoryLength)
			t.histories[lm.ID] = hist
		}
		hist.Push(px)

		if hist.Len() < minSamples {
			continue
		}

		current := hist.At(0)
		previous := hist.At(1)
		earlier := hist.At(2)
		earliest := hist.At(3)

		distance := math.Hypot(current.X-previous.X, current.Y-previous.Y)
		// Source quirk, preserved deliberately: speed is normalized by
		// how much history has accumulated, not elapsed time. Assumes a
		// constant frame rate.
		speed := distance / float64(hist.Len())

		velocity := Vec{X: current.X - previous.X, Y: current.Y - previous.Y}
		prevVelocity := Vec{X: previous.X - earlier.X, Y: previous.Y - earlier.Y}
		accel := Vec{X: velocity.X - prevVelocity.X, Y: velocity.Y - prevVelocity.Y}
		prevAccel := Vec{X: earlier.X - earliest.X, Y: earlier.Y - earliest.Y}
		jerk := Vec{X: accel.X - prevAccel.X, Y: accel.Y - prevAccel.Y}

		threshold := t.movementThreshold(lm.ID, w)
		moving := distance > threshold ||
			math.Abs(velocity.X) > t.cfg.VelocityThreshold*w ||
			math.Abs(velocity.Y) > t.cfg.VelocityThreshold*w

		movements[lm.ID] = MovementRecord{
			Position:     current,
			Distance:     distance,
			Speed:        speed,
			Velocity:     velocity,
			Acceleration: accel,
			Jerk:         jerk,
			Moving:       moving,
			Direction:    t.direction(velocity),
			Confidence:   lm.Confidence(),
		}
	}

	return movements
}

// movementThreshold returns the dynamic per-landmark movement threshold
// in pixels, from the static category table.
func (t *Tracker) movementThreshold(id int, frameWidth float64) float64 {
	switch pose.CategoryOf(id) {
	case pose.CategoryHead:
		return frameWidth * t.cfg.HeadThresholdFrac
	case pose.CategoryHand:
		return frameWidth * t.cfg.HandThresholdFrac
	case pose.CategoryFoot:
		return frameWidth * t.cfg.FootThresholdFrac
	default:
		return frameWidth * t.cfg.DefaultThresholdFrac
	}
}

// direction picks the dominant velocity axis, with a deadband below
// which the neutral "horizontal" direction is reported.
func (t *Tracker) direction(v Vec) Direction {
	db := t.cfg.DirectionDeadband
	if math.Abs(v.Y) > math.Abs(v.X) {
		switch {
		case v.Y < -db:
			return DirectionUp
		case v.Y > db:
			return DirectionDown
		default:
			return DirectionHorizontal
		}
	}
	switch {
	case v.X < -db:
		return DirectionLeft
	case v.X > db:
		return DirectionRight
	default:
		return DirectionHorizontal
	}
}

// HistoryLen reports how many samples are stored for a landmark.
func (t *Tracker) HistoryLen(id int) int {
	if hist, ok := t.histories[id]; ok {
		return hist.Len()
	}
	return 0
}

// Reset clears every landmark history.
func (t *Tracker) Reset() {
	t.histories = make(map[int]*history)
}
