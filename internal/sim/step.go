package sim

import (
	"context"
	"time"

	"swarmsim/internal/logging"
	"swarmsim/internal/telemetry"
	"swarmsim/internal/turret"
	"swarmsim/internal/world"
)

// Run drives the stepper on a ticker until the context is done or the run
// completes. Start must have been called; ticks while not Running are
// no-ops.
func (s *Stepper) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	s.mu.Lock()
	s.log = log
	interval := s.tickInterval
	s.mu.Unlock()

	log.Info("starting stepper", "run_id", s.runID, "tick_interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Step()
			if s.State() == StateComplete {
				log.Info("run complete", "reason", string(s.CompletionReason()), "steps", s.StepCount())
				return
			}
		case <-ctx.Done():
			log.Info("stopping stepper")
			return
		}
	}
}

// StepCount returns the number of completed ticks.
func (s *Stepper) StepCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepCount
}

// Step advances the simulation by exactly one tick. Valid only while
// Running; otherwise it is a no-op and returns false. Phases run in a
// fixed order: turret engagements, learning decay+update, steering over
// the pre-step snapshot, target resolution, counter, termination check.
func (s *Stepper) Step() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepLocked()
}

func (s *Stepper) stepLocked() bool {
	if s.state != StateRunning {
		return false
	}
	tick := s.stepCount + 1
	prev := cloneDrones(s.drones)

	// (a) turret threat pass
	events := s.turretEng.Step(s.rng, s.world, s.drones, tick)

	// (b) learning: fade old memories, record fresh losses
	s.decayRisk()
	var lost []int
	for _, ev := range events {
		if ev.Killed {
			s.observeLoss(ev)
			lost = append(lost, ev.DroneID)
		}
	}

	// (c) steering over the pre-step snapshot
	s.steerAll(prev)

	// (d) target resolution and reassignment
	destroyed := s.resolveTargets()
	reassigned := s.assignTargets()

	// (e) step counter
	s.stepCount = tick

	// (f) termination
	s.checkTermination()

	s.trackPerf()
	s.emit(tick, events, lost, destroyed, reassigned)
	return true
}

func cloneDrones(drones []*telemetry.Drone) []telemetry.Drone {
	prev := make([]telemetry.Drone, len(drones))
	for i, d := range drones {
		prev[i] = *d
	}
	return prev
}

func (s *Stepper) decayRisk() {
	s.risk.Decay()
	for _, m := range s.privateRisk {
		m.Decay()
	}
}

// observeLoss feeds a killing engagement into the risk memory. Shared mode
// updates the swarm map; private mode notifies only drones close enough to
// have witnessed the loss.
func (s *Stepper) observeLoss(ev turret.Engagement) {
	if s.privateRisk == nil {
		s.risk.Observe(ev.Position)
		return
	}
	witnessRange := s.cfg.Steering.CohesionRadius / 2
	for _, d := range s.drones {
		if !d.Alive {
			continue
		}
		if d.Position.Sub(ev.Position).Len() <= witnessRange {
			if m, ok := s.privateRisk[d.ID]; ok {
				m.Observe(ev.Position)
			}
		}
	}
}

// resolveTargets destroys targets with an alive drone inside their
// destruction radius. Each hit is recorded exactly once.
func (s *Stepper) resolveTargets() []*telemetry.Target {
	var destroyed []*telemetry.Target
	for _, t := range s.targets {
		if !t.Alive {
			continue
		}
		for _, d := range s.drones {
			if !d.Active() {
				continue
			}
			if d.Position.Sub(t.Position).Len() <= t.DestructionRadius {
				t.Alive = false
				d.Status = telemetry.StatusAttacking
				destroyed = append(destroyed, t)
				break
			}
		}
	}
	if len(destroyed) == 0 {
		return nil
	}
	// Unassign drones pointed at dead targets; assignTargets re-aims them.
	for _, d := range s.drones {
		if d.TargetID == telemetry.NoTarget {
			continue
		}
		if t := s.targetByID(d.TargetID); t == nil || !t.Alive {
			d.TargetID = telemetry.NoTarget
		}
	}
	return destroyed
}

func (s *Stepper) targetByID(id int) *telemetry.Target {
	for _, t := range s.targets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Stepper) aliveCounts() (dronesAlive, targetsAlive, activeDrones int) {
	for _, d := range s.drones {
		if d.Alive {
			dronesAlive++
		}
		if d.Active() {
			activeDrones++
		}
	}
	for _, t := range s.targets {
		if t.Alive {
			targetsAlive++
		}
	}
	return
}

func (s *Stepper) checkTermination() {
	_, targetsAlive, activeDrones := s.aliveCounts()
	switch {
	case len(s.targets) > 0 && targetsAlive == 0:
		s.state = StateComplete
		s.reason = ReasonSuccess
	case len(s.drones) > 0 && activeDrones == 0:
		s.state = StateComplete
		s.reason = ReasonSwarmLost
	case s.stepCount >= int64(s.cfg.Sim.MaxSteps):
		s.state = StateComplete
		s.reason = ReasonTimeout
	}
}

func (s *Stepper) trackPerf() {
	now := s.now()
	if s.perfStart.IsZero() {
		s.perfStart = now
	}
	s.perfSteps++
	if elapsed := now.Sub(s.perfStart); elapsed >= time.Second {
		s.stepsPerSec = float64(s.perfSteps) / elapsed.Seconds()
		s.perfStart = now
		s.perfSteps = 0
	}
}

// emit pushes this tick's rows to the configured writers. Writer failures
// are logged, never fatal: a sink must not be able to corrupt a tick.
func (s *Stepper) emit(tick int64, events []turret.Engagement, lost []int, destroyed []*telemetry.Target, reassigned []int) {
	ts := s.now().UTC()

	if s.writers.Telemetry != nil {
		batch := make([]telemetry.TelemetryRow, 0, len(s.drones))
		for _, d := range s.drones {
			batch = append(batch, telemetry.TelemetryRow{
				RunID:     s.runID,
				DroneID:   d.ID,
				Tick:      tick,
				X:         d.Position.X,
				Y:         d.Position.Y,
				VX:        d.Velocity.X,
				VY:        d.Velocity.Y,
				Heading:   d.Heading,
				Fuel:      d.Fuel,
				Status:    d.Status,
				TargetID:  d.TargetID,
				Timestamp: ts,
			})
		}
		if bw, ok := s.writers.Telemetry.(batchWriter); ok {
			if err := bw.WriteBatch(batch); err != nil {
				s.log.Error("batch write failed", "err", err)
			}
		} else {
			for _, row := range batch {
				if err := s.writers.Telemetry.Write(row); err != nil {
					s.log.Error("write failed", "drone_id", row.DroneID, "err", err)
				}
			}
		}
	}

	if s.writers.Engagement != nil && len(events) > 0 {
		rows := make([]turret.EngagementRow, 0, len(events))
		for _, ev := range events {
			rows = append(rows, turret.EngagementRow{
				RunID:     s.runID,
				TurretID:  ev.TurretID,
				DroneID:   ev.DroneID,
				X:         ev.Position.X,
				Y:         ev.Position.Y,
				Killed:    ev.Killed,
				Tick:      ev.Tick,
				Timestamp: ts,
			})
		}
		if bw, ok := s.writers.Engagement.(batchEngagementWriter); ok {
			if err := bw.WriteEngagements(rows); err != nil {
				s.log.Error("engagement batch write failed", "err", err)
			}
		} else {
			for _, row := range rows {
				if err := s.writers.Engagement.WriteEngagement(row); err != nil {
					s.log.Error("engagement write failed", "err", err)
				}
			}
		}
	}

	if s.writers.Swarm != nil {
		var rows []telemetry.SwarmEventRow
		if len(lost) > 0 {
			rows = append(rows, telemetry.SwarmEventRow{
				RunID: s.runID, EventType: telemetry.SwarmEventDroneLost,
				DroneIDs: lost, Tick: tick, Timestamp: ts,
			})
		}
		for _, t := range destroyed {
			rows = append(rows, telemetry.SwarmEventRow{
				RunID: s.runID, EventType: telemetry.SwarmEventTargetDestroyed,
				TargetID: t.ID, Tick: tick, Timestamp: ts,
			})
		}
		if len(reassigned) > 0 {
			rows = append(rows, telemetry.SwarmEventRow{
				RunID: s.runID, EventType: telemetry.SwarmEventReassignment,
				DroneIDs: reassigned, Tick: tick, Timestamp: ts,
			})
		}
		if len(rows) > 0 {
			if bw, ok := s.writers.Swarm.(batchSwarmEventWriter); ok {
				if err := bw.WriteSwarmEvents(rows); err != nil {
					s.log.Error("swarm event batch write failed", "err", err)
				}
			} else {
				for _, row := range rows {
					if err := s.writers.Swarm.WriteSwarmEvent(row); err != nil {
						s.log.Error("swarm event write failed", "err", err)
					}
				}
			}
		}
	}

	if s.writers.State != nil {
		dronesAlive, targetsAlive, _ := s.aliveCounts()
		row := telemetry.SimulationStateRow{
			RunID:        s.runID,
			Tick:         tick,
			State:        string(s.state),
			Reason:       string(s.reason),
			DronesAlive:  dronesAlive,
			DronesTotal:  len(s.drones),
			TargetsAlive: targetsAlive,
			TargetsTotal: len(s.targets),
			StepsPerSec:  s.stepsPerSec,
			Timestamp:    ts,
		}
		if err := s.writers.State.WriteState(row); err != nil {
			s.log.Error("state write failed", "err", err)
		}
	}
}

// RiskAt exposes the learned risk surface for external consumers. Private
// memories are averaged so the query reflects the swarm's overall caution.
func (s *Stepper) RiskAt(p world.Vec2) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.privateRisk == nil {
		return s.risk.RiskAt(p)
	}
	if len(s.privateRisk) == 0 {
		return 0
	}
	var sum float64
	for _, m := range s.privateRisk {
		sum += m.RiskAt(p)
	}
	return sum / float64(len(s.privateRisk))
}
