package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jontylopez/GuardianCam/pkg/kinematics"
	"github.com/jontylopez/GuardianCam/pkg/pose"
)

func zonesWith(moving map[pose.Zone]kinematics.ZoneMovement) map[pose.Zone]kinematics.ZoneMovement {
	zones := make(map[pose.Zone]kinematics.ZoneMovement, len(pose.Zones))
	for _, z := range pose.Zones {
		zones[z] = moving[z]
	}
	return zones
}

func TestSmoothness(t *testing.T) {
	s := NewScorer()

	t.Run("uniform motion is perfectly smooth", func(t *testing.T) {
		movements := map[int]kinematics.MovementRecord{
			pose.LeftWrist:  {Velocity: kinematics.Vec{X: 5}},
			pose.RightWrist: {Velocity: kinematics.Vec{X: 5}},
		}
		assert.InDelta(t, 1.0, s.smoothness(movements), 1e-9)
	})

	t.Run("spread velocities are penalized", func(t *testing.T) {
		// Velocity magnitudes 0 and 20: population variance 100.
		movements := map[int]kinematics.MovementRecord{
			pose.LeftWrist:  {},
			pose.RightWrist: {Velocity: kinematics.Vec{X: 20}},
		}
		assert.InDelta(t, 0.5, s.smoothness(movements), 1e-9)
	})

	t.Run("single landmark scores zero", func(t *testing.T) {
		movements := map[int]kinematics.MovementRecord{
			pose.LeftWrist: {Velocity: kinematics.Vec{X: 5}},
		}
		assert.Zero(t, s.smoothness(movements))
	})
}

func TestStability(t *testing.T) {
	s := NewScorer()

	t.Run("coincident head landmarks are fully stable", func(t *testing.T) {
		movements := map[int]kinematics.MovementRecord{
			pose.Nose:    {Position: pose.Point{X: 320, Y: 100}},
			pose.LeftEye: {Position: pose.Point{X: 320, Y: 100}},
		}
		assert.InDelta(t, 1.0, s.stability(movements), 1e-9)
	})

	t.Run("spread positions lower the score", func(t *testing.T) {
		// X variance of {0, 40} is 400; 1 - 400/1000 = 0.6.
		movements := map[int]kinematics.MovementRecord{
			pose.Nose:    {Position: pose.Point{X: 0, Y: 100}},
			pose.LeftEye: {Position: pose.Point{X: 40, Y: 100}},
		}
		assert.InDelta(t, 0.6, s.stability(movements), 1e-9)
	})

	t.Run("single head landmark scores zero", func(t *testing.T) {
		movements := map[int]kinematics.MovementRecord{
			pose.Nose: {Position: pose.Point{X: 320, Y: 100}},
		}
		assert.Zero(t, s.stability(movements))
	})

	t.Run("non-head landmarks are ignored", func(t *testing.T) {
		movements := map[int]kinematics.MovementRecord{
			pose.LeftWrist:  {Position: pose.Point{X: 0}},
			pose.RightWrist: {Position: pose.Point{X: 500}},
		}
		assert.Zero(t, s.stability(movements))
	})
}

func TestCoordination(t *testing.T) {
	s := NewScorer()

	cases := []struct {
		name   string
		moving []pose.Zone
		want   float64
	}{
		{"nothing moving", nil, 0},
		{"one contralateral pair", []pose.Zone{pose.ZoneLeftArm, pose.ZoneRightLeg}, 0.4},
		{"ipsilateral only", []pose.Zone{pose.ZoneLeftArm, pose.ZoneLeftLeg}, 0.1},
		{"all four limbs", []pose.Zone{pose.ZoneLeftArm, pose.ZoneRightArm, pose.ZoneLeftLeg, pose.ZoneRightLeg}, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := make(map[pose.Zone]kinematics.ZoneMovement)
			for _, z := range tc.moving {
				m[z] = kinematics.ZoneMovement{Moving: true}
			}
			assert.InDelta(t, tc.want, s.coordination(zonesWith(m)), 1e-9)
		})
	}
}

func TestBalance(t *testing.T) {
	s := NewScorer()

	t.Run("symmetric movement is perfectly balanced", func(t *testing.T) {
		zones := zonesWith(map[pose.Zone]kinematics.ZoneMovement{
			pose.ZoneLeftArm:  {TotalMovement: 5},
			pose.ZoneRightArm: {TotalMovement: 5},
		})
		assert.InDelta(t, 1.0, s.balance(zones), 1e-9)
	})

	t.Run("one-sided movement scores zero", func(t *testing.T) {
		zones := zonesWith(map[pose.Zone]kinematics.ZoneMovement{
			pose.ZoneLeftLeg: {TotalMovement: 10},
		})
		assert.Zero(t, s.balance(zones))
	})

	t.Run("asymmetry scales the score", func(t *testing.T) {
		zones := zonesWith(map[pose.Zone]kinematics.ZoneMovement{
			pose.ZoneLeftArm:  {TotalMovement: 6},
			pose.ZoneRightArm: {TotalMovement: 2},
		})
		assert.InDelta(t, 0.5, s.balance(zones), 1e-9)
	})

	t.Run("no movement at all is zero, not a division error", func(t *testing.T) {
		assert.Zero(t, s.balance(zonesWith(nil)))
	})
}

func TestPosture(t *testing.T) {
	s := NewScorer()

	t.Run("upright angles earn the full score", func(t *testing.T) {
		angles := map[string]float64{
			pose.JointLeftHip:   170,
			pose.JointRightHip:  165,
			pose.JointLeftKnee:  175,
			pose.JointRightKnee: 178,
		}
		assert.InDelta(t, 1.0, s.posture(angles), 1e-9)
	})

	t.Run("a bent hip loses its quarter", func(t *testing.T) {
		angles := map[string]float64{
			pose.JointLeftHip:   140,
			pose.JointRightHip:  165,
			pose.JointLeftKnee:  175,
			pose.JointRightKnee: 178,
		}
		assert.InDelta(t, 0.75, s.posture(angles), 1e-9)
	})

	t.Run("missing angles contribute nothing", func(t *testing.T) {
		assert.Zero(t, s.posture(nil))
	})
}

func TestGait(t *testing.T) {
	s := NewScorer()

	t.Run("no gait without both legs moving", func(t *testing.T) {
		zones := zonesWith(map[pose.Zone]kinematics.ZoneMovement{
			pose.ZoneLeftLeg: {Moving: true, AvgVelocity: 3},
		})
		assert.Zero(t, s.gait(zones, 1.0, 1.0))
	})

	t.Run("matched legs with smooth coordinated motion score fully", func(t *testing.T) {
		zones := zonesWith(map[pose.Zone]kinematics.ZoneMovement{
			pose.ZoneLeftLeg:  {Moving: true, AvgVelocity: 3.0},
			pose.ZoneRightLeg: {Moving: true, AvgVelocity: 3.05},
		})
		assert.InDelta(t, 1.0, s.gait(zones, 0.8, 0.8), 1e-9)
	})

	t.Run("uneven leg velocities lose the symmetry credit", func(t *testing.T) {
		zones := zonesWith(map[pose.Zone]kinematics.ZoneMovement{
			pose.ZoneLeftLeg:  {Moving: true, AvgVelocity: 3.0},
			pose.ZoneRightLeg: {Moving: true, AvgVelocity: 4.0},
		})
		assert.InDelta(t, 0.5, s.gait(zones, 0.8, 0.8), 1e-9)
	})
}

func TestScore_EndToEnd(t *testing.T) {
	s := NewScorer()

	// A clean walking frame: all limbs moving evenly, head steady,
	// upright joint angles.
	zones := zonesWith(map[pose.Zone]kinematics.ZoneMovement{
		pose.ZoneLeftArm:  {Moving: true, TotalMovement: 6, AvgVelocity: 2},
		pose.ZoneRightArm: {Moving: true, TotalMovement: 6, AvgVelocity: 2},
		pose.ZoneLeftLeg:  {Moving: true, TotalMovement: 9, AvgVelocity: 3},
		pose.ZoneRightLeg: {Moving: true, TotalMovement: 9, AvgVelocity: 3},
	})
	movements := map[int]kinematics.MovementRecord{
		pose.Nose:     {Position: pose.Point{X: 320, Y: 100}, Velocity: kinematics.Vec{X: 6}},
		pose.LeftEye:  {Position: pose.Point{X: 322, Y: 100}, Velocity: kinematics.Vec{X: 6}},
		pose.LeftHip:  {Velocity: kinematics.Vec{X: 6}},
		pose.LeftKnee: {Velocity: kinematics.Vec{X: 6}},
	}
	angles := map[string]float64{
		pose.JointLeftHip:   170,
		pose.JointRightHip:  170,
		pose.JointLeftKnee:  175,
		pose.JointRightKnee: 175,
	}

	q := s.Score(movements, zones, angles)
	assert.InDelta(t, 1.0, q.Smoothness, 1e-9)
	assert.InDelta(t, 1.0, q.Coordination, 1e-9)
	assert.InDelta(t, 1.0, q.Balance, 1e-9)
	assert.InDelta(t, 1.0, q.Posture, 1e-9)
	assert.InDelta(t, 1.0, q.GaitQuality, 1e-9)
	assert.Greater(t, q.Stability, 0.99)
}
