package engine

import (
	"fmt"

	"github.com/jontylopez/GuardianCam/pkg/activity"
	"github.com/jontylopez/GuardianCam/pkg/kinematics"
	"github.com/jontylopez/GuardianCam/pkg/presence"
)

// History capacity bounds. Short histories lose the derivative chain;
// long ones dilute the speed normalization.
const (
	minHistoryLength = 15
	maxHistoryLength = 50
)

// Config aggregates every tunable parameter of the pipeline. All
// thresholds are deployment-tunable to support per-camera recalibration;
// validation happens once at engine construction and is the only fatal
// error surface in the engine.
type Config struct {
	Tracker           kinematics.TrackerConfig    `yaml:"tracker"`
	Zones             kinematics.AggregatorConfig `yaml:"zones"`
	Classifier        activity.ClassifierConfig   `yaml:"classifier"`
	Presence          presence.Config             `yaml:"presence"`
	ConsistencyWindow int                         `yaml:"consistency_window"`
}

// DefaultConfig returns the recommended configuration for fixed-camera
// monitoring.
func DefaultConfig() Config {
	return Config{
		Tracker: kinematics.TrackerConfig{
			HistoryLength:        50,
			VelocityThreshold:    0.02,
			DirectionDeadband:    3.0,
			HeadThresholdFrac:    0.008, // face landmarks, most sensitive
			HandThresholdFrac:    0.006, // wrists, very sensitive
			FootThresholdFrac:    0.010, // ankles, moderate
			DefaultThresholdFrac: 0.012,
		},
		Zones: kinematics.AggregatorConfig{
			MovementThreshold:  0.015,
			VelocityThreshold:  0.02,
			ZoneScale:          150,
			ZoneRatioThreshold: 0.4,
		},
		Classifier: activity.ClassifierConfig{
			AcceptThreshold:     0.75,
			WalkingFloor:        0.05,
			StandingCeiling:     0.01,
			SignificantMovement: 0.03,
			FallHeadSpeed:       0.15,
			FallAcceleration:    0.008,
			FallRiskThreshold:   0.6,
		},
		Presence: presence.Config{
			ConfirmFrames:         5,
			AbsentFrames:          10,
			ConfidenceThreshold:   0.5,
			CooldownSeconds:       3.0,
			PositionThreshold:     15,
			MinMovementFrames:     3,
			IntensityThreshold:    0.15,
			SlowMovementThreshold: 0.08,
			StrengthThreshold:     0.6,
		},
		ConsistencyWindow: 10,
	}
}

// ResponsiveConfig returns a configuration tuned for faster reaction:
// shorter histories, quicker presence confirmation, a tighter
// consistency window. Suited to interactive demos rather than long-run
// monitoring.
func ResponsiveConfig() Config {
	cfg := DefaultConfig()
	cfg.Tracker.HistoryLength = 15
	cfg.Presence.ConfirmFrames = 4
	cfg.Presence.CooldownSeconds = 1.0
	cfg.ConsistencyWindow = 5
	return cfg
}

// Validate checks every parameter range. Invalid configuration fails
// fast here rather than being silently clamped.
func (c Config) Validate() error {
	t := c.Tracker
	if t.HistoryLength < minHistoryLength || t.HistoryLength > maxHistoryLength {
		return fmt.Errorf("tracker: history_length %d out of range [%d,%d]", t.HistoryLength, minHistoryLength, maxHistoryLength)
	}
	if t.VelocityThreshold <= 0 {
		return fmt.Errorf("tracker: velocity_threshold must be positive, got %v", t.VelocityThreshold)
	}
	if t.DirectionDeadband < 0 {
		return fmt.Errorf("tracker: direction_deadband must be non-negative, got %v", t.DirectionDeadband)
	}
	for name, frac := range map[string]float64{
		"head_threshold_frac":    t.HeadThresholdFrac,
		"hand_threshold_frac":    t.HandThresholdFrac,
		"foot_threshold_frac":    t.FootThresholdFrac,
		"default_threshold_frac": t.DefaultThresholdFrac,
	} {
		if frac <= 0 || frac > 0.1 {
			return fmt.Errorf("tracker: %s %v out of range (0,0.1]", name, frac)
		}
	}

	z := c.Zones
	if z.MovementThreshold <= 0 || z.VelocityThreshold <= 0 {
		return fmt.Errorf("zones: movement and velocity thresholds must be positive")
	}
	if z.ZoneScale <= 0 {
		return fmt.Errorf("zones: zone_scale must be positive, got %v", z.ZoneScale)
	}
	if z.ZoneRatioThreshold <= 0 || z.ZoneRatioThreshold >= 1 {
		return fmt.Errorf("zones: zone_ratio_threshold %v out of range (0,1)", z.ZoneRatioThreshold)
	}

	cl := c.Classifier
	if cl.AcceptThreshold <= 0 || cl.AcceptThreshold > 1 {
		return fmt.Errorf("classifier: accept_threshold %v out of range (0,1]", cl.AcceptThreshold)
	}
	if cl.WalkingFloor <= 0 || cl.StandingCeiling <= 0 || cl.SignificantMovement <= 0 {
		return fmt.Errorf("classifier: movement floors and ceilings must be positive")
	}
	if cl.StandingCeiling > cl.WalkingFloor {
		return fmt.Errorf("classifier: standing_ceiling %v exceeds walking_floor %v", cl.StandingCeiling, cl.WalkingFloor)
	}
	if cl.FallHeadSpeed <= 0 || cl.FallAcceleration <= 0 {
		return fmt.Errorf("classifier: fall thresholds must be positive")
	}
	if cl.FallRiskThreshold <= 0 || cl.FallRiskThreshold >= 1 {
		return fmt.Errorf("classifier: fall_risk_threshold %v out of range (0,1)", cl.FallRiskThreshold)
	}

	p := c.Presence
	if p.ConfirmFrames < 1 {
		return fmt.Errorf("presence: confirm_frames must be at least 1, got %d", p.ConfirmFrames)
	}
	if p.AbsentFrames < 1 {
		return fmt.Errorf("presence: absent_frames must be at least 1, got %d", p.AbsentFrames)
	}
	if p.ConfidenceThreshold < 0 || p.ConfidenceThreshold >= 1 {
		return fmt.Errorf("presence: confidence_threshold %v out of range [0,1)", p.ConfidenceThreshold)
	}
	if p.CooldownSeconds < 0 {
		return fmt.Errorf("presence: cooldown_seconds must be non-negative, got %v", p.CooldownSeconds)
	}
	if p.PositionThreshold <= 0 {
		return fmt.Errorf("presence: position_threshold must be positive, got %v", p.PositionThreshold)
	}
	if p.MinMovementFrames < 1 {
		return fmt.Errorf("presence: min_movement_frames must be at least 1, got %d", p.MinMovementFrames)
	}
	if p.SlowMovementThreshold <= 0 || p.IntensityThreshold <= p.SlowMovementThreshold {
		return fmt.Errorf("presence: intensity_threshold %v must exceed slow_movement_threshold %v", p.IntensityThreshold, p.SlowMovementThreshold)
	}
	if p.StrengthThreshold <= 0 || p.StrengthThreshold >= 1 {
		return fmt.Errorf("presence: strength_threshold %v out of range (0,1)", p.StrengthThreshold)
	}

	if c.ConsistencyWindow < 3 || c.ConsistencyWindow > 10 {
		return fmt.Errorf("consistency_window %d out of range [3,10]", c.ConsistencyWindow)
	}

	return nil
}
