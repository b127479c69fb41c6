package turret

import (
	"time"

	"swarmsim/internal/world"
)

// Falloff selects how hit probability decreases with distance.
type Falloff string

const (
	// FalloffLinear scales the base probability down to zero at the
	// detection radius.
	FalloffLinear Falloff = "linear"
	// FalloffNone keeps the base probability flat inside the radius.
	FalloffNone Falloff = "none"
)

// Turret is a static point-defense emplacement.
type Turret struct {
	ID              int
	Position        world.Vec2
	DetectionRadius float64
	BaseHitProb     float64
	Falloff         Falloff
	CooldownTicks   int

	cooldown int
}

// Ready reports whether the turret may engage this tick.
func (t *Turret) Ready() bool { return t.cooldown == 0 }

// Cooldown returns the remaining cooldown ticks.
func (t *Turret) Cooldown() int { return t.cooldown }

// HitProbability returns the engagement success probability at distance d.
// Monotonically non-increasing in d; zero beyond the detection radius.
func (t *Turret) HitProbability(d float64) float64 {
	if d >= t.DetectionRadius {
		return 0
	}
	switch t.Falloff {
	case FalloffNone:
		return t.BaseHitProb
	default:
		return t.BaseHitProb * (1 - d/t.DetectionRadius)
	}
}

// Engagement is one probabilistic attempt against a drone. Killed reports
// the outcome; events are emitted for misses as well so sinks see every
// roll.
type Engagement struct {
	TurretID int
	DroneID  int
	Position world.Vec2
	Killed   bool
	Tick     int64
}

// EngagementRow is the sink-facing record of an engagement.
type EngagementRow struct {
	RunID     string    `json:"run_id"`
	TurretID  int       `json:"turret_id"`
	DroneID   int       `json:"drone_id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Killed    bool      `json:"killed"`
	Tick      int64     `json:"tick"`
	Timestamp time.Time `json:"ts"`
}
