// Package activity scores candidate activities and fall risk from body
// zone movement aggregates, and tracks the temporal consistency of its
// own judgments.
package activity

import (
	"github.com/jontylopez/GuardianCam/pkg/kinematics"
	"github.com/jontylopez/GuardianCam/pkg/pose"
)

// Activity is a recognized activity label.
type Activity string

const (
	Walking  Activity = "walking"
	Standing Activity = "standing"
	Sitting  Activity = "sitting"
	Falling  Activity = "falling"
	Unknown  Activity = "unknown"
)

// scored lists the scored activities in evaluation order. The order is
// part of the contract: ties resolve to the earliest entry, keeping
// classification deterministic.
var scored = []Activity{Walking, Standing, Sitting, Falling}

// Result is one frame's classification output.
type Result struct {
	Activity       Activity
	Confidence     float64
	Scores         map[Activity]float64
	FallIndicators int
	FallConfidence float64
	FallRisk       bool
	TotalMovement  float64
}

// ClassifierConfig holds the classifier's tunable thresholds.
type ClassifierConfig struct {
	// AcceptThreshold is the minimum winning score; below it the frame
	// classifies as unknown.
	AcceptThreshold float64 `yaml:"accept_threshold"`

	// WalkingFloor is the minimum total movement for walking;
	// StandingCeiling the maximum for standing; SignificantMovement
	// the ceiling for the small head movement that indicates sitting.
	WalkingFloor        float64 `yaml:"walking_floor"`
	StandingCeiling     float64 `yaml:"standing_ceiling"`
	SignificantMovement float64 `yaml:"significant_movement"`

	// FallHeadSpeed is the head speed above which downward head motion
	// counts as a fall indicator; FallAcceleration the head
	// acceleration indicator threshold; FallRiskThreshold the
	// confidence above which FallRisk is set.
	FallHeadSpeed     float64 `yaml:"fall_head_speed"`
	FallAcceleration  float64 `yaml:"fall_acceleration"`
	FallRiskThreshold float64 `yaml:"fall_risk_threshold"`
}

// Classifier turns zone aggregates into an activity judgment.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a classifier. The config is assumed validated.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify scores the candidate activities for one frame. The movement
// map supplies the head zone's representative landmark for fall
// direction analysis; zones supplies everything else.
func (c *Classifier) Classify(zones map[pose.Zone]kinematics.ZoneMovement, movements map[int]kinematics.MovementRecord) Result {
	leftLeg := zones[pose.ZoneLeftLeg]
	rightLeg := zones[pose.ZoneRightLeg]
	leftArm := zones[pose.ZoneLeftArm]
	rightArm := zones[pose.ZoneRightArm]
	torso := zones[pose.ZoneTorso]
	head := zones[pose.ZoneHead]

	legsMoving := leftLeg.Moving || rightLeg.Moving
	armsMoving := leftArm.Moving || rightArm.Moving
	torsoMoving := torso.Moving
	headMoving := head.Moving

	totalMovement := leftLeg.AvgVelocity + rightLeg.AvgVelocity +
		leftArm.AvgVelocity + rightArm.AvgVelocity +
		torso.AvgVelocity + head.AvgVelocity

	indicators, fallConfidence := c.fallScore(head, legsMoving, movements)

	scores := make(map[Activity]float64, len(scored))

	var walking float64
	if legsMoving && totalMovement > c.cfg.WalkingFloor {
		walking += 0.5
	}
	if armsMoving && totalMovement > c.cfg.WalkingFloor {
		walking += 0.3
	}
	if torsoMoving && totalMovement > c.cfg.WalkingFloor {
		walking += 0.2
	}
	if !headMoving {
		walking += 0.1
	}
	scores[Walking] = walking

	var standing float64
	if !legsMoving && totalMovement < c.cfg.StandingCeiling {
		standing += 0.5
	}
	if !armsMoving && totalMovement < c.cfg.StandingCeiling {
		standing += 0.3
	}
	if !torsoMoving && totalMovement < c.cfg.StandingCeiling {
		standing += 0.2
	}
	if !headMoving && totalMovement < c.cfg.StandingCeiling {
		standing += 0.1
	}
	scores[Standing] = standing

	var sitting float64
	if !legsMoving {
		sitting += 0.4
	}
	if !armsMoving {
		sitting += 0.3
	}
	if headMoving && totalMovement < c.cfg.SignificantMovement {
		sitting += 0.3
	}
	scores[Sitting] = sitting

	scores[Falling] = fallConfidence

	best := scored[0]
	for _, a := range scored[1:] {
		if scores[a] > scores[best] {
			best = a
		}
	}
	confidence := scores[best]

	detected := Unknown
	if confidence >= c.cfg.AcceptThreshold {
		switch {
		case best == Walking && totalMovement < c.cfg.WalkingFloor:
			// Winner without the movement to back it up.
			detected = Standing
		case best == Standing && totalMovement > c.cfg.StandingCeiling:
			detected = Unknown
		default:
			detected = best
		}
	}

	return Result{
		Activity:       detected,
		Confidence:     confidence,
		Scores:         scores,
		FallIndicators: indicators,
		FallConfidence: fallConfidence,
		FallRisk:       fallConfidence > c.cfg.FallRiskThreshold,
		TotalMovement:  totalMovement,
	}
}

// fallScore builds the fall indicator count and confidence. The
// confidence formula is additive (+0.4 downward head motion, +0.3 still
// legs, +0.3 head acceleration), capped at 1.0.
func (c *Classifier) fallScore(head kinematics.ZoneMovement, legsMoving bool, movements map[int]kinematics.MovementRecord) (int, float64) {
	indicators := 0
	confidence := 0.0

	if rec, ok := headRecord(movements); ok {
		if rec.Direction == kinematics.DirectionDown && rec.Speed > c.cfg.FallHeadSpeed {
			indicators += 2
			confidence += 0.4
		}
	}
	if !legsMoving {
		indicators++
		confidence += 0.3
	}
	if head.AvgAcceleration > c.cfg.FallAcceleration {
		indicators++
		confidence += 0.3
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return indicators, confidence
}

// headRecord returns the head zone's representative movement record:
// the first zone member (the nose, when tracked) present in the map.
func headRecord(movements map[int]kinematics.MovementRecord) (kinematics.MovementRecord, bool) {
	for _, id := range pose.ZoneLandmarks[pose.ZoneHead] {
		if rec, ok := movements[id]; ok {
			return rec, true
		}
	}
	return kinematics.MovementRecord{}, false
}
