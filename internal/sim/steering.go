// Flocking and steering: per-drone force computation over the pre-step
// snapshot, order-independent by construction.
package sim

import (
	"swarmsim/internal/telemetry"
	"swarmsim/internal/world"
)

// avoidingThreshold is the combined avoidance force magnitude above which
// a drone reports the "avoiding" status.
const avoidingThreshold = 0.5

// droneUpdate is the deferred result of one drone's steering pass. All
// updates are computed against the immutable snapshot and applied together
// so per-drone order cannot influence the outcome.
type droneUpdate struct {
	position world.Vec2
	velocity world.Vec2
	heading  float64
	fuel     float64
	status   string
	alive    bool
}

// steerAll computes and applies one steering tick for every active drone.
// Only the pre-step snapshot is read for neighbor state.
func (s *Stepper) steerAll(prev []telemetry.Drone) {
	updates := make([]droneUpdate, len(s.drones))
	active := make([]bool, len(s.drones))
	for i, d := range s.drones {
		if !d.Active() {
			continue
		}
		active[i] = true
		updates[i] = s.steerDrone(i, prev)
	}
	for i, d := range s.drones {
		if !active[i] {
			continue
		}
		u := updates[i]
		d.Position = u.position
		d.Velocity = u.velocity
		d.Heading = u.heading
		d.Fuel = u.fuel
		d.Status = u.status
		if !u.alive {
			d.Alive = false
			d.Status = telemetry.StatusDestroyed
		}
	}
}

// steerDrone runs the weighted-force model for the drone at snapshot index
// i: cohesion, separation, alignment, target seeking, obstacle repulsion,
// and learned-threat avoidance, then Euler integration with terrain and
// boundary handling.
func (s *Stepper) steerDrone(i int, prev []telemetry.Drone) droneUpdate {
	self := prev[i]
	st := s.cfg.Steering
	dc := s.cfg.Drones

	fuel := self.Fuel - dc.FuelConsumptionRate
	if fuel <= 0 {
		// Tank dry: the drone holds position and drops out of the mission.
		return droneUpdate{
			position: self.Position,
			heading:  self.Heading,
			fuel:     0,
			status:   telemetry.StatusNoFuel,
			alive:    true,
		}
	}

	var cohesion, separation, alignment world.Vec2
	var centroid, velSum world.Vec2
	neighbors := 0
	aligned := 0
	for j := range prev {
		if j == i || !prev[j].Alive {
			continue
		}
		offset := prev[j].Position.Sub(self.Position)
		dist := offset.Len()
		if dist < st.CohesionRadius {
			centroid = centroid.Add(prev[j].Position)
			neighbors++
		}
		if dist < st.AlignmentRadius {
			velSum = velSum.Add(prev[j].Velocity)
			aligned++
		}
		if dist < st.SeparationRadius && dist > 1e-6 {
			away := offset.Scale(-1).Normalized()
			separation = separation.Add(away.Scale(st.SeparationRadius / dist))
		}
	}
	if neighbors > 0 {
		centroid = centroid.Scale(1 / float64(neighbors))
		cohesion = centroid.Sub(self.Position).Scale(st.WeightCohesion)
	}
	if aligned > 0 {
		avgVel := velSum.Scale(1 / float64(aligned))
		alignment = avgVel.Sub(self.Velocity).Scale(st.WeightAlignment)
	}
	separation = separation.Scale(st.WeightSeparation)

	var seek world.Vec2
	if t := s.targetByID(self.TargetID); t != nil && t.Alive {
		toTarget := t.Position.Sub(self.Position)
		if toTarget.Len() > 1e-6 {
			desired := toTarget.Normalized().Scale(dc.MaxSpeed)
			seek = desired.Sub(self.Velocity).Scale(st.WeightTarget)
		}
	}

	var repulsion world.Vec2
	for _, o := range s.world.Obstacles {
		repulsion = repulsion.Add(o.RepulsionVector(self.Position, st.ObstacleMargin))
	}
	repulsion = repulsion.Scale(st.WeightObstacle)

	threat := s.riskFor(self.ID).Gradient(self.Position).Scale(-st.WeightThreat)

	avoidance := repulsion.Add(threat)
	force := cohesion.Add(separation).Add(alignment).Add(seek).Add(avoidance)
	force = force.Clamped(dc.MaxAcceleration)

	vel := self.Velocity.Add(force).Clamped(dc.MaxSpeed)
	step := vel.Scale(s.cfg.Sim.DT * s.world.SpeedModifier(self.Position))
	pos := self.Position.Add(step)

	pos, vel = s.bounceOffBounds(pos, vel)
	pos, vel, alive := s.correctObstaclePenetration(self.Position, pos, vel)
	// Pushback near the boundary can nudge the position back out; the
	// bounds invariant wins.
	pos = s.world.Bounds.Clamp(pos)

	status := telemetry.StatusIdle
	switch {
	case avoidance.Len() > avoidingThreshold:
		status = telemetry.StatusAvoiding
	case fuel/dc.MaxFuel < dc.LowFuelThreshold:
		status = telemetry.StatusLowFuel
	case self.TargetID != telemetry.NoTarget:
		status = telemetry.StatusMoving
	}

	heading := self.Heading
	if vel.Len() > 1e-6 {
		heading = vel.Heading()
	}
	return droneUpdate{
		position: pos,
		velocity: vel,
		heading:  heading,
		fuel:     fuel,
		status:   status,
		alive:    alive,
	}
}

// bounceOffBounds clamps the position to the world bounds and dampens the
// offending velocity component, so drones never wrap or escape.
func (s *Stepper) bounceOffBounds(pos, vel world.Vec2) (world.Vec2, world.Vec2) {
	b := s.world.Bounds
	if pos.X < b.MinX {
		pos.X = b.MinX
		vel.X *= -0.5
	} else if pos.X > b.MaxX {
		pos.X = b.MaxX
		vel.X *= -0.5
	}
	if pos.Y < b.MinY {
		pos.Y = b.MinY
		vel.Y *= -0.5
	} else if pos.Y > b.MaxY {
		pos.Y = b.MaxY
		vel.Y *= -0.5
	}
	return pos, vel
}

// correctObstaclePenetration pushes a drone that ended inside an obstacle
// back out along the obstacle normal. Impassable obstacles destroy the
// drone instead when lethal collisions are configured.
func (s *Stepper) correctObstaclePenetration(from, pos, vel world.Vec2) (world.Vec2, world.Vec2, bool) {
	for _, o := range s.world.Obstacles {
		if !o.Contains(pos) {
			continue
		}
		if s.cfg.Sim.LethalCollisions && o.Impassable {
			return pos, world.Vec2{}, false
		}
		normal := pos.Sub(o.Center).Normalized()
		if normal.Len() < 1e-6 {
			normal = from.Sub(o.Center).Normalized()
		}
		if normal.Len() < 1e-6 {
			normal = world.Vec2{X: 1}
		}
		pos = o.Center.Add(normal.Scale(o.Radius + 1e-6))
		if inward := vel.Dot(normal); inward < 0 {
			vel = vel.Sub(normal.Scale(inward))
		}
	}
	return pos, vel, true
}
