// Package pose defines the landmark vocabulary shared by the movement
// analysis pipeline: landmark ids, body zones, sensitivity categories,
// and joint angle calculation.
package pose

import "time"

// Pose landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose          = 0
	LeftEyeInner  = 1
	LeftEye       = 2
	LeftEyeOuter  = 3
	RightEyeInner = 4
	RightEye      = 5
	RightEyeOuter = 6
	LeftEar       = 7
	RightEar      = 8
	MouthLeft     = 9
	MouthRight    = 10
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftPinky     = 17
	RightPinky    = 18
	LeftIndex     = 19
	RightIndex    = 20
	LeftThumb     = 21
	RightThumb    = 22
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28
	LeftHeel      = 29
	RightHeel     = 30
	LeftFootIndex = 31
	RightFootIndex = 32
	NumLandmarks  = 33
)

// Landmark is a single detected keypoint with normalized coordinates.
// X and Y are in [0,1] relative to the frame. Visibility is optional:
// detectors that do not report it leave HasVisibility false.
type Landmark struct {
	ID            int     `json:"id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Visibility    float64 `json:"visibility,omitempty"`
	HasVisibility bool    `json:"-"`
}

// Confidence returns the landmark visibility, or 1.0 when the detector
// did not report one.
func (l Landmark) Confidence() float64 {
	if l.HasVisibility {
		return l.Visibility
	}
	return 1.0
}

// Frame is one detector output: the landmark set plus frame geometry.
// Landmark ids must be stable across frames (same id = same anatomical
// point) for history continuity.
type Frame struct {
	Landmarks []Landmark
	Width     int
	Height    int
	Timestamp time.Time
}

// Point is a 2D position in pixel space.
type Point struct {
	X float64
	Y float64
}

// Zone is a fixed named grouping of landmarks used for aggregate
// movement analysis.
type Zone string

const (
	ZoneHead     Zone = "head"
	ZoneLeftArm  Zone = "left_arm"
	ZoneRightArm Zone = "right_arm"
	ZoneLeftLeg  Zone = "left_leg"
	ZoneRightLeg Zone = "right_leg"
	ZoneTorso    Zone = "torso"
)

// Zones lists all zones in a fixed order.
var Zones = []Zone{ZoneHead, ZoneLeftArm, ZoneRightArm, ZoneLeftLeg, ZoneRightLeg, ZoneTorso}

// ZoneLandmarks maps each zone to its member landmark ids. Member order
// matters: the first tracked member acts as the zone's representative
// landmark (e.g. the nose for the head zone). Shoulders and hips are
// shared between the torso and the limb zones by design.
var ZoneLandmarks = map[Zone][]int{
	ZoneHead:     {Nose, LeftEye, RightEye, LeftEar, RightEar},
	ZoneLeftArm:  {LeftShoulder, LeftElbow, LeftWrist},
	ZoneRightArm: {RightShoulder, RightElbow, RightWrist},
	ZoneLeftLeg:  {LeftHip, LeftKnee, LeftAnkle},
	ZoneRightLeg: {RightHip, RightKnee, RightAnkle},
	ZoneTorso:    {LeftShoulder, RightShoulder, LeftHip, RightHip},
}

// Category groups landmarks by movement sensitivity. The per-category
// threshold fraction decides how many pixels a landmark must travel per
// frame before it counts as moving.
type Category int

const (
	// CategoryDefault covers every landmark without a specific entry.
	CategoryDefault Category = iota
	// CategoryHead covers the face landmarks (most sensitive).
	CategoryHead
	// CategoryHand covers the wrists (very sensitive).
	CategoryHand
	// CategoryFoot covers the ankles (moderate sensitivity).
	CategoryFoot
)

// categories is a static lookup from landmark id to sensitivity category.
var categories = map[int]Category{
	Nose:       CategoryHead,
	LeftEye:    CategoryHead,
	RightEye:   CategoryHead,
	LeftWrist:  CategoryHand,
	RightWrist: CategoryHand,
	LeftAnkle:  CategoryFoot,
	RightAnkle: CategoryFoot,
}

// CategoryOf returns the sensitivity category for a landmark id.
func CategoryOf(id int) Category {
	if c, ok := categories[id]; ok {
		return c
	}
	return CategoryDefault
}

// TorsoCenter returns the pixel-space centroid of the torso landmarks
// present in the frame. Returns false when none are visible.
func (f Frame) TorsoCenter() (Point, bool) {
	var sum Point
	n := 0
	for _, lm := range f.Landmarks {
		for _, id := range ZoneLandmarks[ZoneTorso] {
			if lm.ID == id {
				sum.X += lm.X * float64(f.Width)
				sum.Y += lm.Y * float64(f.Height)
				n++
			}
		}
	}
	if n == 0 {
		return Point{}, false
	}
	return Point{X: sum.X / float64(n), Y: sum.Y / float64(n)}, true
}
