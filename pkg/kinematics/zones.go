package kinematics

import (
	"math"

	"github.com/jontylopez/GuardianCam/pkg/pose"
)

// ZoneMovement is the aggregated movement state of one body zone.
// Averages divide by the zone's full member count, not by how many
// members were actually tracked: a zone with many undetected landmarks
// reports deliberately low averages rather than pretending full
// coverage.
type ZoneMovement struct {
	TotalMovement   float64
	AvgMovement     float64
	MovementRatio   float64 // fraction of members currently moving, in [0,1]
	AvgVelocity     float64
	AvgAcceleration float64
	Moving          bool
	MovingLandmarks int
}

// AggregatorConfig holds the zone-level movement thresholds.
type AggregatorConfig struct {
	// MovementThreshold and VelocityThreshold are the base normalized
	// thresholds; ZoneScale lifts them into pixel units for zone
	// averages.
	MovementThreshold  float64 `yaml:"movement_threshold"`
	VelocityThreshold  float64 `yaml:"velocity_threshold"`
	ZoneScale          float64 `yaml:"zone_scale"`
	ZoneRatioThreshold float64 `yaml:"zone_ratio_threshold"`
}

// Aggregator groups landmark movement records into body zones.
type Aggregator struct {
	cfg AggregatorConfig
}

// NewAggregator creates an aggregator. The config is assumed validated.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate produces one ZoneMovement per zone. Every zone is always
// present in the result; zones with no tracked members are zero-valued.
// Absent landmarks contribute nothing and are not imputed.
func (a *Aggregator) Aggregate(movements map[int]MovementRecord) map[pose.Zone]ZoneMovement {
	zones := make(map[pose.Zone]ZoneMovement, len(pose.Zones))

	for _, zone := range pose.Zones {
		members := pose.ZoneLandmarks[zone]
		size := float64(len(members))

		var total, totalVelocity, totalAccel float64
		moving := 0
		for _, id := range members {
			rec, ok := movements[id]
			if !ok {
				continue
			}
			total += rec.Distance
			totalVelocity += math.Abs(rec.Velocity.X) + math.Abs(rec.Velocity.Y)
			totalAccel += math.Abs(rec.Acceleration.X) + math.Abs(rec.Acceleration.Y)
			if rec.Moving {
				moving++
			}
		}

		zm := ZoneMovement{
			TotalMovement:   total,
			AvgMovement:     total / size,
			MovementRatio:   float64(moving) / size,
			AvgVelocity:     totalVelocity / size,
			AvgAcceleration: totalAccel / size,
			MovingLandmarks: moving,
		}
		zm.Moving = zm.MovementRatio > a.cfg.ZoneRatioThreshold ||
			zm.AvgMovement > a.cfg.MovementThreshold*a.cfg.ZoneScale ||
			zm.AvgVelocity > a.cfg.VelocityThreshold*a.cfg.ZoneScale

		zones[zone] = zm
	}

	return zones
}
