// Stepper orchestrating the per-tick battlespace simulation.
package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"swarmsim/internal/config"
	"swarmsim/internal/learning"
	"swarmsim/internal/scenario"
	"swarmsim/internal/telemetry"
	"swarmsim/internal/turret"
	"swarmsim/internal/world"
)

// State is the stepper lifecycle state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateComplete State = "complete"
)

// Reason records why a run completed.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonSuccess   Reason = "success"
	ReasonSwarmLost Reason = "swarm_lost"
	ReasonTimeout   Reason = "timeout"
)

// Writers bundles the output sinks fed each tick. Any field may be nil.
type Writers struct {
	Telemetry  TelemetryWriter
	Engagement EngagementWriter
	Swarm      SwarmEventWriter
	State      StateWriter
}

// Stepper owns all mutable simulation state and advances it one tick at a
// time. All randomness flows through a single seeded stream consumed in a
// fixed order (init placements, then turrets by ascending ID), so two runs
// with the same seed and configuration produce identical trajectories.
type Stepper struct {
	runID        string
	cfg          *config.SimulationConfig
	scn          *scenario.Scenario
	terrain      *world.TerrainGrid
	writers      Writers
	tickInterval time.Duration
	log          *slog.Logger

	mu          sync.Mutex
	state       State
	reason      Reason
	rng         *rand.Rand
	world       *world.World
	drones      []*telemetry.Drone
	targets     []*telemetry.Target
	turretEng   *turret.Engine
	risk        *learning.RiskMap
	privateRisk map[int]*learning.RiskMap
	stepCount   int64

	perfStart   time.Time
	perfSteps   int
	stepsPerSec float64
	now         func() time.Time
}

// NewStepper validates the configuration, initializes entities, and
// returns a stepper in the Idle state. terrain and scn may be nil.
func NewStepper(cfg *config.SimulationConfig, terrain *world.TerrainGrid, scn *scenario.Scenario, w Writers, tickInterval time.Duration) (*Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if scn != nil {
		if err := scn.Validate(cfg.World.Bounds); err != nil {
			return nil, err
		}
	}
	s := &Stepper{
		runID:        uuid.New().String(),
		cfg:          cfg,
		scn:          scn,
		terrain:      terrain,
		writers:      w,
		tickInterval: tickInterval,
		log:          slog.Default(),
		state:        StateIdle,
		now:          time.Now,
	}
	if err := s.resetLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// RunID returns the unique identifier tagging this run's rows.
func (s *Stepper) RunID() string { return s.runID }

// resetLocked reinitializes every entity from configuration. The seeded
// stream is consumed in a fixed order: obstacles, drones, targets, turrets.
func (s *Stepper) resetLocked() error {
	seed := s.cfg.Sim.Seed
	if seed == 0 {
		seed = 1
	}
	s.rng = rand.New(rand.NewSource(seed))
	bounds := s.cfg.World.Bounds

	obstacles := s.buildObstacles(bounds)
	w, err := world.New(bounds, obstacles)
	if err != nil {
		return err
	}
	if s.terrain != nil {
		if err := w.LoadTerrain(s.terrain); err != nil {
			return err
		}
	}
	s.world = w

	s.drones = s.buildDrones(bounds)
	s.targets = s.buildTargets(bounds)
	s.turretEng = turret.NewEngine(s.buildTurrets(bounds))

	risk, err := learning.NewRiskMap(bounds, s.cfg.Learning.CellSize, s.cfg.Learning.Increment, s.cfg.Learning.Decay)
	if err != nil {
		return err
	}
	s.risk = risk
	s.privateRisk = nil
	if s.cfg.Learning.Memory == config.MemoryPrivate {
		s.privateRisk = make(map[int]*learning.RiskMap, len(s.drones))
		for _, d := range s.drones {
			s.privateRisk[d.ID] = risk.Clone()
		}
	}

	s.stepCount = 0
	s.reason = ReasonNone
	s.perfStart = time.Time{}
	s.perfSteps = 0
	s.stepsPerSec = 0
	s.assignTargets()
	return nil
}

func (s *Stepper) randomPoint(b world.Bounds) world.Vec2 {
	return world.Vec2{
		X: b.MinX + s.rng.Float64()*b.Width(),
		Y: b.MinY + s.rng.Float64()*b.Height(),
	}
}

func (s *Stepper) buildObstacles(b world.Bounds) []world.Obstacle {
	if s.scn != nil && len(s.scn.Obstacles) > 0 {
		return s.scn.Obstacles
	}
	oc := s.cfg.World.Obstacles
	obstacles := make([]world.Obstacle, 0, oc.Count)
	for i := 0; i < oc.Count; i++ {
		obstacles = append(obstacles, world.Obstacle{
			ID:         i,
			Center:     s.randomPoint(b),
			Radius:     oc.MinRadius + s.rng.Float64()*(oc.MaxRadius-oc.MinRadius),
			Impassable: oc.Impassable,
			BlocksLOS:  oc.BlockLOS,
		})
	}
	return obstacles
}

func (s *Stepper) buildDrones(b world.Bounds) []*telemetry.Drone {
	var placements []world.Vec2
	if s.scn != nil && len(s.scn.Drones) > 0 {
		for _, p := range s.scn.Drones {
			placements = append(placements, p.Vec())
		}
	} else {
		for i := 0; i < s.cfg.Drones.Count; i++ {
			placements = append(placements, s.randomPoint(b))
		}
	}
	drones := make([]*telemetry.Drone, 0, len(placements))
	for i, pos := range placements {
		drones = append(drones, &telemetry.Drone{
			ID:       i,
			Position: pos,
			Heading:  s.rng.Float64() * 2 * math.Pi,
			Alive:    true,
			Status:   telemetry.StatusIdle,
			Fuel:     s.cfg.Drones.MaxFuel,
			TargetID: telemetry.NoTarget,
		})
	}
	return drones
}

func (s *Stepper) buildTargets(b world.Bounds) []*telemetry.Target {
	var placements []world.Vec2
	if s.scn != nil && len(s.scn.Targets) > 0 {
		for _, p := range s.scn.Targets {
			placements = append(placements, p.Vec())
		}
	} else {
		for i := 0; i < s.cfg.Targets.Count; i++ {
			placements = append(placements, s.randomPoint(b))
		}
	}
	targets := make([]*telemetry.Target, 0, len(placements))
	for i, pos := range placements {
		targets = append(targets, &telemetry.Target{
			ID:                i,
			Position:          pos,
			Alive:             true,
			DestructionRadius: s.cfg.Targets.DestructionRadius,
		})
	}
	return targets
}

func (s *Stepper) buildTurrets(b world.Bounds) []*turret.Turret {
	var placements []world.Vec2
	if s.scn != nil && len(s.scn.Turrets) > 0 {
		for _, p := range s.scn.Turrets {
			placements = append(placements, p.Vec())
		}
	} else {
		for i := 0; i < s.cfg.Turrets.Count; i++ {
			placements = append(placements, s.randomPoint(b))
		}
	}
	turrets := make([]*turret.Turret, 0, len(placements))
	for i, pos := range placements {
		turrets = append(turrets, &turret.Turret{
			ID:              i,
			Position:        pos,
			DetectionRadius: s.cfg.Turrets.DetectionRadius,
			BaseHitProb:     s.cfg.Turrets.BaseHitProbability,
			Falloff:         turret.Falloff(s.cfg.Turrets.Falloff),
			CooldownTicks:   s.cfg.Turrets.CooldownTicks,
		})
	}
	return turrets
}

// Start moves Idle or Paused to Running.
func (s *Stepper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle, StatePaused:
		s.state = StateRunning
		return nil
	default:
		return fmt.Errorf("sim: cannot start from state %q", s.state)
	}
}

// Stop moves Running to Paused.
func (s *Stepper) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return fmt.Errorf("sim: cannot stop from state %q", s.state)
	}
	s.state = StatePaused
	return nil
}

// Reset returns to Idle and reinitializes all entities from the last
// configuration, valid from any state.
func (s *Stepper) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.resetLocked(); err != nil {
		return err
	}
	s.state = StateIdle
	return nil
}

// State returns the current lifecycle state.
func (s *Stepper) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CompletionReason returns why the run completed, or ReasonNone.
func (s *Stepper) CompletionReason() Reason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// riskFor returns the risk memory consulted by the given drone.
func (s *Stepper) riskFor(droneID int) *learning.RiskMap {
	if s.privateRisk != nil {
		if m, ok := s.privateRisk[droneID]; ok {
			return m
		}
	}
	return s.risk
}
