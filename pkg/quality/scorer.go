// Package quality derives movement-quality metrics (smoothness,
// stability, coordination, balance, posture, gait) from the same
// kinematic aggregates the activity classifier consumes.
package quality

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/jontylopez/GuardianCam/pkg/kinematics"
	"github.com/jontylopez/GuardianCam/pkg/pose"
)

// Scores are the six movement-quality metrics, each in [0,1].
type Scores struct {
	Smoothness   float64
	Stability    float64
	Coordination float64
	Balance      float64
	Posture      float64
	GaitQuality  float64
}

// Scoring constants, matching the calibrated movement analyzer.
const (
	smoothnessScale     = 200.0 // velocity+acceleration variance divisor
	smoothnessScaleVel  = 100.0 // velocity-only fallback divisor
	stabilityScale      = 1000.0
	hipAngleMin         = 150.0
	kneeAngleMin        = 160.0
	angleMax            = 180.0
	gaitVelocityDelta   = 0.1
	gaitSmoothnessFloor = 0.7
	gaitCoordFloor      = 0.6
)

// Scorer computes movement-quality scores. It is stateless; all
// temporal context comes in through the movement records.
type Scorer struct{}

// NewScorer creates a scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes the six quality metrics for one frame.
func (s *Scorer) Score(movements map[int]kinematics.MovementRecord, zones map[pose.Zone]kinematics.ZoneMovement, angles map[string]float64) Scores {
	q := Scores{
		Smoothness:   s.smoothness(movements),
		Stability:    s.stability(movements),
		Coordination: s.coordination(zones),
		Balance:      s.balance(zones),
		Posture:      s.posture(angles),
	}
	q.GaitQuality = s.gait(zones, q.Smoothness, q.Coordination)
	return q
}

// smoothness penalizes inconsistent velocity and acceleration
// magnitudes across the tracked landmarks. Population variance matches
// the calibration of the scale divisors.
func (s *Scorer) smoothness(movements map[int]kinematics.MovementRecord) float64 {
	velocities := make([]float64, 0, len(movements))
	accelerations := make([]float64, 0, len(movements))
	for _, rec := range movements {
		velocities = append(velocities, rec.Velocity.Magnitude())
		accelerations = append(accelerations, rec.Acceleration.Magnitude())
	}
	if len(velocities) < 2 {
		return 0
	}

	velVar := stat.PopVariance(velocities, nil)
	if len(accelerations) < 2 {
		return clamp01(1 - velVar/smoothnessScaleVel)
	}
	accVar := stat.PopVariance(accelerations, nil)
	return clamp01(1 - (velVar+accVar)/smoothnessScale)
}

// stability measures head sway: the spatial variance of the tracked
// head landmarks' positions.
func (s *Scorer) stability(movements map[int]kinematics.MovementRecord) float64 {
	var xs, ys []float64
	for _, id := range pose.ZoneLandmarks[pose.ZoneHead] {
		if rec, ok := movements[id]; ok {
			xs = append(xs, rec.Position.X)
			ys = append(ys, rec.Position.Y)
		}
	}
	if len(xs) < 2 {
		return 0
	}
	variance := stat.PopVariance(xs, nil) + stat.PopVariance(ys, nil)
	return clamp01(1 - variance/stabilityScale)
}

// coordination rewards contralateral limb synchronization (the normal
// gait pattern) with a small credit for ipsilateral movement.
func (s *Scorer) coordination(zones map[pose.Zone]kinematics.ZoneMovement) float64 {
	leftArm := zones[pose.ZoneLeftArm].Moving
	rightArm := zones[pose.ZoneRightArm].Moving
	leftLeg := zones[pose.ZoneLeftLeg].Moving
	rightLeg := zones[pose.ZoneRightLeg].Moving

	score := 0.0
	if leftArm && rightLeg {
		score += 0.4
	}
	if rightArm && leftLeg {
		score += 0.4
	}
	if leftArm && leftLeg {
		score += 0.1
	}
	if rightArm && rightLeg {
		score += 0.1
	}
	return math.Min(1.0, score)
}

// balance measures movement symmetry between the body's left and right
// sides. Both sides still yields 0, not a division by zero.
func (s *Scorer) balance(zones map[pose.Zone]kinematics.ZoneMovement) float64 {
	left := zones[pose.ZoneLeftArm].TotalMovement + zones[pose.ZoneLeftLeg].TotalMovement
	right := zones[pose.ZoneRightArm].TotalMovement + zones[pose.ZoneRightLeg].TotalMovement

	if left+right == 0 {
		return 0
	}
	return clamp01(1 - math.Abs(left-right)/(left+right))
}

// posture credits each hip and knee angle inside its normal upright
// range with a quarter of the score.
func (s *Scorer) posture(angles map[string]float64) float64 {
	score := 0.0
	if a, ok := angles[pose.JointLeftHip]; ok && a >= hipAngleMin && a <= angleMax {
		score += 0.25
	}
	if a, ok := angles[pose.JointRightHip]; ok && a >= hipAngleMin && a <= angleMax {
		score += 0.25
	}
	if a, ok := angles[pose.JointLeftKnee]; ok && a >= kneeAngleMin && a <= angleMax {
		score += 0.25
	}
	if a, ok := angles[pose.JointRightKnee]; ok && a >= kneeAngleMin && a <= angleMax {
		score += 0.25
	}
	return score
}

// gait scores walking pattern quality, and only when both legs are
// moving; otherwise there is no gait to judge and the score is 0.
func (s *Scorer) gait(zones map[pose.Zone]kinematics.ZoneMovement, smoothness, coordination float64) float64 {
	leftLeg := zones[pose.ZoneLeftLeg]
	rightLeg := zones[pose.ZoneRightLeg]
	if !leftLeg.Moving || !rightLeg.Moving {
		return 0
	}

	score := 0.0
	if math.Abs(leftLeg.AvgVelocity-rightLeg.AvgVelocity) < gaitVelocityDelta {
		score += 0.5
	}
	if smoothness > gaitSmoothnessFloor {
		score += 0.3
	}
	if coordination > gaitCoordFloor {
		score += 0.2
	}
	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
