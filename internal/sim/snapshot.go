package sim

// DroneSnapshot is the read-only per-drone view.
type DroneSnapshot struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	Heading  float64 `json:"heading"`
	Fuel     float64 `json:"fuel"`
	Status   string  `json:"status"`
	Alive    bool    `json:"alive"`
	TargetID int     `json:"target_id"`
}

// TargetSnapshot is the read-only per-target view.
type TargetSnapshot struct {
	ID                int     `json:"id"`
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	Alive             bool    `json:"alive"`
	DestructionRadius float64 `json:"destruction_radius"`
}

// TurretSnapshot is the read-only per-turret view.
type TurretSnapshot struct {
	ID              int     `json:"id"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	DetectionRadius float64 `json:"detection_radius"`
	Cooldown        int     `json:"cooldown"`
}

// Snapshot aggregates stepper state at a tick boundary for external
// consumers (visualizers, dashboards). Purely observational.
type Snapshot struct {
	RunID        string           `json:"run_id"`
	State        State            `json:"state"`
	Reason       Reason           `json:"reason,omitempty"`
	Step         int64            `json:"step"`
	DronesAlive  int              `json:"drones_alive"`
	DronesTotal  int              `json:"drones_total"`
	TargetsAlive int              `json:"targets_alive"`
	TargetsTotal int              `json:"targets_total"`
	StepsPerSec  float64          `json:"steps_per_sec"`
	Drones       []DroneSnapshot  `json:"drones"`
	Targets      []TargetSnapshot `json:"targets"`
	Turrets      []TurretSnapshot `json:"turrets"`
}

// Snapshot returns the current read-only aggregate. It never mutates
// simulation state; callers poll it between ticks.
func (s *Stepper) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	dronesAlive, targetsAlive, _ := s.aliveCounts()
	snap := Snapshot{
		RunID:        s.runID,
		State:        s.state,
		Reason:       s.reason,
		Step:         s.stepCount,
		DronesAlive:  dronesAlive,
		DronesTotal:  len(s.drones),
		TargetsAlive: targetsAlive,
		TargetsTotal: len(s.targets),
		StepsPerSec:  s.stepsPerSec,
	}
	for _, d := range s.drones {
		snap.Drones = append(snap.Drones, DroneSnapshot{
			ID:       d.ID,
			X:        d.Position.X,
			Y:        d.Position.Y,
			VX:       d.Velocity.X,
			VY:       d.Velocity.Y,
			Heading:  d.Heading,
			Fuel:     d.Fuel,
			Status:   d.Status,
			Alive:    d.Alive,
			TargetID: d.TargetID,
		})
	}
	for _, t := range s.targets {
		snap.Targets = append(snap.Targets, TargetSnapshot{
			ID:                t.ID,
			X:                 t.Position.X,
			Y:                 t.Position.Y,
			Alive:             t.Alive,
			DestructionRadius: t.DestructionRadius,
		})
	}
	for _, t := range s.turretEng.Turrets {
		snap.Turrets = append(snap.Turrets, TurretSnapshot{
			ID:              t.ID,
			X:               t.Position.X,
			Y:               t.Position.Y,
			DetectionRadius: t.DetectionRadius,
			Cooldown:        t.Cooldown(),
		})
	}
	return snap
}
