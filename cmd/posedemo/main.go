// Pose demo - synthetic landmark streams through the movement engine
//
// Generates walking, standing and fall sequences without a camera and
// prints the engine's judgment for each, so the pipeline can be
// exercised end to end on any machine.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jontylopez/GuardianCam/internal/log"
	"github.com/jontylopez/GuardianCam/pkg/engine"
	"github.com/jontylopez/GuardianCam/pkg/pose"
)

const (
	frameWidth  = 640
	frameHeight = 480
)

func main() {
	scenario := flag.String("scenario", "all", "walking, standing, fall, or all")
	frames := flag.Int("frames", 12, "frames per scenario")
	flag.Parse()

	log.Init("info")

	scenarios := []string{"standing", "walking", "fall"}
	if *scenario != "all" {
		scenarios = []string{*scenario}
	}

	for _, name := range scenarios {
		gen, ok := generators[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown scenario %q\n", name)
			os.Exit(1)
		}
		run(name, gen, *frames)
	}
}

// generator produces the landmark set for frame i of a scenario.
type generator func(i int) []pose.Landmark

var generators = map[string]generator{
	"standing": standingFrame,
	"walking":  walkingFrame,
	"fall":     fallFrame,
}

func run(name string, gen generator, frames int) {
	eng, err := engine.New(engine.ResponsiveConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n▶️  %s (%d frames)\n", name, frames)
	start := time.Now()
	var last engine.Result
	for i := 0; i < frames; i++ {
		last = eng.Process(pose.Frame{
			Landmarks: gen(i),
			Width:     frameWidth,
			Height:    frameHeight,
			Timestamp: start.Add(time.Duration(i) * 33 * time.Millisecond),
		})
	}

	icon := "🧍"
	switch {
	case last.Activity.FallRisk:
		icon = "🚨"
	case last.Activity.Activity == "walking":
		icon = "🚶"
	}
	fmt.Printf("%s  activity=%s confidence=%.2f fall_risk=%v indicators=%d\n",
		icon, last.Activity.Activity, last.Activity.Confidence,
		last.Activity.FallRisk, last.Activity.FallIndicators)
	fmt.Printf("    presence=%s coordination=%.2f balance=%.2f gait=%.2f consistent=%v\n",
		last.Presence.State, last.Quality.Coordination, last.Quality.Balance,
		last.Quality.GaitQuality, last.Consistent)
}

// basePose returns a full upright landmark set in normalized
// coordinates.
func basePose() []pose.Landmark {
	coords := map[int][2]float64{
		pose.Nose: {0.50, 0.10}, pose.LeftEye: {0.48, 0.09}, pose.RightEye: {0.52, 0.09},
		pose.LeftEar: {0.46, 0.10}, pose.RightEar: {0.54, 0.10},
		pose.LeftShoulder: {0.42, 0.25}, pose.RightShoulder: {0.58, 0.25},
		pose.LeftElbow: {0.38, 0.38}, pose.RightElbow: {0.62, 0.38},
		pose.LeftWrist: {0.36, 0.50}, pose.RightWrist: {0.64, 0.50},
		pose.LeftHip: {0.45, 0.52}, pose.RightHip: {0.55, 0.52},
		pose.LeftKnee: {0.45, 0.72}, pose.RightKnee: {0.55, 0.72},
		pose.LeftAnkle: {0.45, 0.92}, pose.RightAnkle: {0.55, 0.92},
	}
	landmarks := make([]pose.Landmark, 0, len(coords))
	for id, xy := range coords {
		landmarks = append(landmarks, pose.Landmark{ID: id, X: xy[0], Y: xy[1]})
	}
	return landmarks
}

// standingFrame holds the base pose still.
func standingFrame(int) []pose.Landmark {
	return basePose()
}

// walkingFrame shifts limbs and torso sideways each frame while the
// head stays put.
func walkingFrame(i int) []pose.Landmark {
	step := float64(i) * 6.0 / frameWidth
	landmarks := basePose()
	for j, lm := range landmarks {
		if pose.CategoryOf(lm.ID) == pose.CategoryHead || lm.ID == pose.LeftEar || lm.ID == pose.RightEar {
			continue
		}
		landmarks[j].X += step
	}
	return landmarks
}

// fallFrame drives the head sharply downward with the body still.
func fallFrame(i int) []pose.Landmark {
	drop := float64(i) * 40.0 / frameHeight
	landmarks := basePose()
	for j, lm := range landmarks {
		switch lm.ID {
		case pose.Nose, pose.LeftEye, pose.RightEye, pose.LeftEar, pose.RightEar:
			landmarks[j].Y += drop
		}
	}
	return landmarks
}
