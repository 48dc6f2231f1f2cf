// Package engine wires the movement analysis stages into a
// frame-synchronous pipeline: kinematics tracking, zone aggregation,
// presence confirmation, activity/fall classification, quality scoring
// and temporal consistency.
package engine

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/jontylopez/GuardianCam/internal/log"
	"github.com/jontylopez/GuardianCam/pkg/activity"
	"github.com/jontylopez/GuardianCam/pkg/kinematics"
	"github.com/jontylopez/GuardianCam/pkg/pose"
	"github.com/jontylopez/GuardianCam/pkg/presence"
	"github.com/jontylopez/GuardianCam/pkg/quality"
)

// Result is the per-frame output record. Movements holds only the
// landmarks with enough history to analyze; Zones always holds every
// zone.
type Result struct {
	EngineID  string
	Frame     uint64
	Timestamp time.Time

	Movements map[int]kinematics.MovementRecord
	Zones     map[pose.Zone]kinematics.ZoneMovement
	Angles    map[string]float64

	Activity activity.Result
	Quality  quality.Scores
	Presence presence.Snapshot

	// Consistent reports whether recent activity judgments agree.
	// Advisory only.
	Consistent bool
}

// Engine is one camera stream's analysis pipeline. It owns all sliding
// state (landmark histories, presence buffers, consistency windows) and
// must not be shared between streams or goroutines; create one engine
// per stream.
type Engine struct {
	id  string
	cfg Config

	tracker     *kinematics.Tracker
	aggregator  *kinematics.Aggregator
	monitor     *presence.Monitor
	classifier  *activity.Classifier
	scorer      *quality.Scorer
	consistency *activity.ConsistencyTracker

	frames uint64
}

// New creates an engine, validating the configuration. Invalid
// configuration is the only fatal error in the engine's lifetime;
// everything after construction degrades gracefully.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		id:          uuid.NewString(),
		cfg:         cfg,
		tracker:     kinematics.NewTracker(cfg.Tracker),
		aggregator:  kinematics.NewAggregator(cfg.Zones),
		monitor:     presence.NewMonitor(cfg.Presence),
		classifier:  activity.NewClassifier(cfg.Classifier),
		scorer:      quality.NewScorer(),
		consistency: activity.NewConsistencyTracker(cfg.ConsistencyWindow),
	}
	log.Debug("engine created",
		"engine", e.id,
		"history_length", cfg.Tracker.HistoryLength,
		"confirm_frames", cfg.Presence.ConfirmFrames)
	return e, nil
}

// ID returns the engine's unique identifier, stamped on every Result.
func (e *Engine) ID() string {
	return e.id
}

// Process runs one frame through the full pipeline. Calls are strictly
// sequential; the engine never blocks and performs no I/O. Missing or
// sparse landmarks degrade the outputs, they never abort the frame.
func (e *Engine) Process(frame pose.Frame) Result {
	e.frames++

	movements := e.tracker.Track(frame)
	zones := e.aggregator.Aggregate(movements)
	angles := pose.JointAngles(frame.Landmarks)

	before := e.monitor.State()
	e.monitor.Observe(e.detectionSignal(frame))
	if after := e.monitor.State(); after != before {
		log.Debug("presence transition", "engine", e.id, "from", string(before), "to", string(after))
	}

	result := e.classifier.Classify(zones, movements)
	scores := e.scorer.Score(movements, zones, angles)

	e.consistency.Add(result)

	return Result{
		EngineID:   e.id,
		Frame:      e.frames,
		Timestamp:  frame.Timestamp,
		Movements:  movements,
		Zones:      zones,
		Angles:     angles,
		Activity:   result,
		Quality:    scores,
		Presence:   e.monitor.Snapshot(),
		Consistent: e.consistency.Consistent(),
	}
}

// ObservePresence feeds an external detection signal into the presence
// state machine, for deployments where a coarse human detector runs
// alongside (or instead of) the pose pipeline. Frames processed through
// Process already feed the machine; use one source or the other.
func (e *Engine) ObservePresence(sig presence.Signal) presence.State {
	return e.monitor.Observe(sig)
}

// Reset atomically clears every sliding structure: landmark histories,
// presence buffers and counters, and the consistency window. It is the
// only supported way to reinitialize state mid-stream.
func (e *Engine) Reset() {
	e.tracker.Reset()
	e.monitor.Reset()
	e.consistency.Reset()
	e.frames = 0
	log.Debug("engine reset", "engine", e.id)
}

// detectionSignal derives the presence feed from a pose frame: any
// landmarks at all count as a detection, with the mean visibility as
// confidence and the torso centroid as the tracked body position.
func (e *Engine) detectionSignal(frame pose.Frame) presence.Signal {
	sig := presence.Signal{Timestamp: frame.Timestamp}
	if len(frame.Landmarks) == 0 {
		return sig
	}

	sig.Detected = true
	confidences := make([]float64, 0, len(frame.Landmarks))
	for _, lm := range frame.Landmarks {
		confidences = append(confidences, lm.Confidence())
	}
	sig.Confidence = stat.Mean(confidences, nil)

	if center, ok := frame.TorsoCenter(); ok {
		sig.Position = center
		sig.HasPosition = true
	}
	return sig
}
