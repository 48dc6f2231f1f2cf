// GuardianCam movement analysis - JSONL replay driver
//
// Reads pose detector output (one JSON frame per line) from a file or
// stdin, runs it through the movement engine, and prints the per-frame
// judgment. Useful for replaying recorded sessions and for calibrating
// thresholds against a known clip.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jontylopez/GuardianCam/internal/config"
	"github.com/jontylopez/GuardianCam/internal/log"
	"github.com/jontylopez/GuardianCam/pkg/activity"
	"github.com/jontylopez/GuardianCam/pkg/engine"
	"github.com/jontylopez/GuardianCam/pkg/pose"
)

// wireFrame is the JSONL input contract from the pose detector.
type wireFrame struct {
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	TimestampMS int64          `json:"timestamp_ms"`
	Landmarks   []wireLandmark `json:"landmarks"`
}

type wireLandmark struct {
	ID         int      `json:"id"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Visibility *float64 `json:"visibility"`
}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults used when empty)")
	inputPath := flag.String("input", "-", "JSONL frame file, or - for stdin")
	verbose := flag.Bool("verbose", false, "print every frame instead of state changes only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.EffectiveLogLevel())

	var in io.Reader = os.Stdin
	if *inputPath != "-" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	eng, err := engine.New(cfg.Engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🛡️  GuardianCam movement analysis")
	fmt.Printf("    Engine: %s\n", eng.ID())
	fmt.Printf("    History: %d frames, confirm: %d frames\n",
		cfg.Engine.Tracker.HistoryLength, cfg.Engine.Presence.ConfirmFrames)

	var (
		frames    int
		falls     int
		lastLabel activity.Activity
	)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var wf wireFrame
		if err := json.Unmarshal(line, &wf); err != nil {
			log.Warn("skipping malformed frame", "line", frames+1, "error", err)
			continue
		}

		result := eng.Process(toFrame(wf))
		frames++

		if result.Activity.FallRisk {
			falls++
			fmt.Printf("🚨 frame %d: FALL RISK (confidence %.2f, indicators %d)\n",
				result.Frame, result.Activity.FallConfidence, result.Activity.FallIndicators)
		}

		changed := result.Activity.Activity != lastLabel
		if *verbose || changed {
			printFrame(result)
		}
		lastLabel = result.Activity.Activity
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: read input: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Processed %d frames, %d fall-risk frames\n", frames, falls)
}

func printFrame(r engine.Result) {
	fmt.Printf("frame %d: %s (%.2f) presence=%s consistent=%v smooth=%.2f balance=%.2f gait=%.2f\n",
		r.Frame, r.Activity.Activity, r.Activity.Confidence,
		r.Presence.State, r.Consistent,
		r.Quality.Smoothness, r.Quality.Balance, r.Quality.GaitQuality)
}

func toFrame(wf wireFrame) pose.Frame {
	frame := pose.Frame{
		Width:     wf.Width,
		Height:    wf.Height,
		Timestamp: time.UnixMilli(wf.TimestampMS),
		Landmarks: make([]pose.Landmark, 0, len(wf.Landmarks)),
	}
	for _, wl := range wf.Landmarks {
		lm := pose.Landmark{ID: wl.ID, X: wl.X, Y: wl.Y}
		if wl.Visibility != nil {
			lm.Visibility = *wl.Visibility
			lm.HasVisibility = true
		}
		frame.Landmarks = append(frame.Landmarks, lm)
	}
	return frame
}
