// Turret threat model: detection, LOS gating, probabilistic engagement.
package turret

import (
	"math/rand"
	"sort"

	"swarmsim/internal/telemetry"
	"swarmsim/internal/world"
)

// Engine runs the per-tick turret pass. It holds no randomness of its own;
// the stepper passes in the run's seeded stream so engagement rolls land in
// a fixed, reproducible order.
type Engine struct {
	Turrets []*Turret
}

// NewEngine wraps the given turrets, ordered by ascending ID. The order is
// part of the determinism contract: RNG draws happen turret by turret.
func NewEngine(turrets []*Turret) *Engine {
	sorted := make([]*Turret, len(turrets))
	copy(sorted, turrets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Engine{Turrets: sorted}
}

// Step advances cooldowns and resolves engagements for one tick. Ready
// turrets pick the nearest active drone inside their detection radius with
// clear line of sight (ties broken by lowest drone ID) and roll once
// against the distance-based hit probability. A successful roll destroys
// the drone and resets the cooldown; at most one kill per turret per tick.
// Turrets still cooling down are skipped entirely, consuming no randomness.
func (e *Engine) Step(rng *rand.Rand, w *world.World, drones []*telemetry.Drone, tick int64) []Engagement {
	var events []Engagement
	for _, t := range e.Turrets {
		if t.cooldown > 0 {
			t.cooldown--
			continue
		}
		target := e.selectTarget(t, w, drones)
		if target == nil {
			continue
		}
		dist := target.Position.Sub(t.Position).Len()
		killed := rng.Float64() < t.HitProbability(dist)
		if killed {
			target.Alive = false
			target.Status = telemetry.StatusDestroyed
			t.cooldown = t.CooldownTicks
		}
		events = append(events, Engagement{
			TurretID: t.ID,
			DroneID:  target.ID,
			Position: target.Position,
			Killed:   killed,
			Tick:     tick,
		})
	}
	return events
}

// selectTarget returns the nearest active, in-LOS drone within range, or
// nil. Drones out of fuel are not worth a shot, matching target selection
// to the drones that still threaten the objective.
func (e *Engine) selectTarget(t *Turret, w *world.World, drones []*telemetry.Drone) *telemetry.Drone {
	var best *telemetry.Drone
	bestDist := t.DetectionRadius
	for _, d := range drones {
		if !d.Active() {
			continue
		}
		dist := d.Position.Sub(t.Position).Len()
		if dist > bestDist {
			continue
		}
		if dist == bestDist && best != nil && d.ID > best.ID {
			continue
		}
		if !w.LineOfSight(t.Position, d.Position) {
			continue
		}
		best = d
		bestDist = dist
	}
	return best
}

// Reset clears all cooldowns, used when the stepper reinitializes a run.
func (e *Engine) Reset() {
	for _, t := range e.Turrets {
		t.cooldown = 0
	}
}
