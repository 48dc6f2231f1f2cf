package pose

import "math"

// Joint names produced by JointAngles.
const (
	JointLeftKnee   = "left_knee"
	JointRightKnee  = "right_knee"
	JointLeftElbow  = "left_elbow"
	JointRightElbow = "right_elbow"
	JointLeftHip    = "left_hip"
	JointRightHip   = "right_hip"
)

// minVisibility is the visibility floor below which a landmark is
// excluded from angle calculation.
const minVisibility = 0.5

// Angle returns the angle at p2 formed by the segments p2→p1 and p2→p3,
// in degrees. Degenerate (zero-length) segments yield 0 rather than NaN.
// The result is symmetric under reversal of p1 and p3.
func Angle(p1, p2, p3 Point) float64 {
	bax := p1.X - p2.X
	bay := p1.Y - p2.Y
	bcx := p3.X - p2.X
	bcy := p3.Y - p2.Y

	baNorm := math.Hypot(bax, bay)
	bcNorm := math.Hypot(bcx, bcy)
	if baNorm == 0 || bcNorm == 0 {
		return 0
	}

	cos := (bax*bcx + bay*bcy) / (baNorm * bcNorm)
	// Guard against rounding pushing cos outside [-1,1].
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}

// jointTriples maps each joint to the (outer, vertex, outer) landmark ids
// that define it.
var jointTriples = map[string][3]int{
	JointLeftKnee:   {LeftHip, LeftKnee, LeftAnkle},
	JointRightKnee:  {RightHip, RightKnee, RightAnkle},
	JointLeftElbow:  {LeftShoulder, LeftElbow, LeftWrist},
	JointRightElbow: {RightShoulder, RightElbow, RightWrist},
	JointLeftHip:    {LeftShoulder, LeftHip, LeftKnee},
	JointRightHip:   {RightShoulder, RightHip, RightKnee},
}

// JointAngles computes the knee, elbow and hip angles from a landmark
// set. Landmarks with reported visibility at or below 0.5 are ignored;
// a joint is present in the result only when all three of its landmarks
// qualify. Coordinates stay normalized: the angles are scale invariant.
func JointAngles(landmarks []Landmark) map[string]float64 {
	positions := make(map[int]Point, len(landmarks))
	for _, lm := range landmarks {
		if lm.HasVisibility && lm.Visibility <= minVisibility {
			continue
		}
		positions[lm.ID] = Point{X: lm.X, Y: lm.Y}
	}

	angles := make(map[string]float64)
	for joint, ids := range jointTriples {
		p1, ok1 := positions[ids[0]]
		p2, ok2 := positions[ids[1]]
		p3, ok3 := positions[ids[2]]
		if ok1 && ok2 && ok3 {
			angles[joint] = Angle(p1, p2, p3)
		}
	}
	return angles
}
