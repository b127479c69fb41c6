package sim

import (
	"swarmsim/internal/telemetry"
)

// assignmentPenalty biases idle drones away from targets that already have
// many attackers, spreading the swarm across objectives.
const assignmentPenalty = 10.0

// assignTargets aims every unassigned active drone at the best alive
// target: lowest distance plus a crowding penalty, bounded by the
// per-target assignment limit. Iteration is by ascending drone ID so the
// pass is deterministic. Returns the IDs of drones that got a new target.
func (s *Stepper) assignTargets() []int {
	// Drone state is the source of truth for assignment counts.
	for _, t := range s.targets {
		t.Assigned = 0
	}
	for _, d := range s.drones {
		if !d.Active() || d.TargetID == telemetry.NoTarget {
			continue
		}
		if t := s.targetByID(d.TargetID); t != nil && t.Alive {
			t.Assigned++
		} else {
			d.TargetID = telemetry.NoTarget
		}
	}

	limit := s.cfg.Targets.AssignmentLimit
	var reassigned []int
	for _, d := range s.drones {
		if !d.Active() || d.TargetID != telemetry.NoTarget {
			continue
		}
		var best *telemetry.Target
		bestScore := 0.0
		for _, t := range s.targets {
			if !t.Alive {
				continue
			}
			if limit > 0 && t.Assigned >= limit {
				continue
			}
			score := t.Position.Sub(d.Position).Len() + float64(t.Assigned)*assignmentPenalty
			if best == nil || score < bestScore {
				best = t
				bestScore = score
			}
		}
		if best == nil {
			continue
		}
		d.TargetID = best.ID
		best.Assigned++
		if d.Status == telemetry.StatusIdle {
			d.Status = telemetry.StatusMoving
		}
		reassigned = append(reassigned, d.ID)
	}
	return reassigned
}
