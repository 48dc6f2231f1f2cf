package pose

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestAngle_RightAngle(t *testing.T) {
	got := Angle(Point{X: 1, Y: 0}, Point{X: 0, Y: 0}, Point{X: 0, Y: 1})
	if !floatEquals(got, 90) {
		t.Errorf("Right angle: got %v, want 90", got)
	}
}

func TestAngle_StraightLine(t *testing.T) {
	got := Angle(Point{X: -1, Y: 0}, Point{X: 0, Y: 0}, Point{X: 1, Y: 0})
	if !floatEquals(got, 180) {
		t.Errorf("Straight line: got %v, want 180", got)
	}
}

func TestAngle_SymmetricUnderReversal(t *testing.T) {
	triples := [][3]Point{
		{{X: 1, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}},
		{{X: 0.3, Y: 0.2}, {X: 0.5, Y: 0.5}, {X: 0.9, Y: 0.1}},
		{{X: -2, Y: 3}, {X: 1, Y: 1}, {X: 4, Y: -1}},
	}
	for _, tr := range triples {
		forward := Angle(tr[0], tr[1], tr[2])
		reversed := Angle(tr[2], tr[1], tr[0])
		if !floatEquals(forward, reversed) {
			t.Errorf("Angle not symmetric: %v vs %v for %v", forward, reversed, tr)
		}
	}
}

func TestAngle_DegenerateVector(t *testing.T) {
	// p1 coincides with the vertex: zero-length segment
	if got := Angle(Point{X: 1, Y: 1}, Point{X: 1, Y: 1}, Point{X: 2, Y: 2}); got != 0 {
		t.Errorf("Degenerate p1: got %v, want 0", got)
	}
	if got := Angle(Point{X: 2, Y: 2}, Point{X: 1, Y: 1}, Point{X: 1, Y: 1}); got != 0 {
		t.Errorf("Degenerate p3: got %v, want 0", got)
	}
	if got := Angle(Point{}, Point{}, Point{}); got != 0 {
		t.Errorf("All degenerate: got %v, want 0", got)
	}
}

func TestJointAngles_FullPose(t *testing.T) {
	landmarks := []Landmark{
		{ID: LeftShoulder, X: 0.4, Y: 0.2},
		{ID: LeftHip, X: 0.4, Y: 0.5},
		{ID: LeftKnee, X: 0.4, Y: 0.7},
		{ID: LeftAnkle, X: 0.4, Y: 0.9},
	}

	angles := JointAngles(landmarks)

	// Fully vertical left side: hip and knee at 180 degrees.
	if got, ok := angles[JointLeftHip]; !ok || !floatEquals(got, 180) {
		t.Errorf("Left hip: got %v (present=%v), want 180", got, ok)
	}
	if got, ok := angles[JointLeftKnee]; !ok || !floatEquals(got, 180) {
		t.Errorf("Left knee: got %v (present=%v), want 180", got, ok)
	}

	// No right-side landmarks: no right-side joints.
	if _, ok := angles[JointRightHip]; ok {
		t.Error("Right hip should be absent without right-side landmarks")
	}
}

func TestJointAngles_VisibilityFilter(t *testing.T) {
	landmarks := []Landmark{
		{ID: LeftShoulder, X: 0.4, Y: 0.2},
		{ID: LeftHip, X: 0.4, Y: 0.5, Visibility: 0.2, HasVisibility: true},
		{ID: LeftKnee, X: 0.4, Y: 0.7},
	}

	angles := JointAngles(landmarks)
	if _, ok := angles[JointLeftHip]; ok {
		t.Error("Left hip should be excluded when the hip landmark is barely visible")
	}
}
