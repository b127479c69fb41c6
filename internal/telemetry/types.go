// Telemetry row and runtime entity types shared across the simulator.
package telemetry

import (
	"os"
	"time"

	"swarmsim/internal/world"
)

// Drone status constants.
const (
	StatusIdle      = "idle"
	StatusMoving    = "moving"
	StatusAttacking = "attacking"
	StatusAvoiding  = "avoiding"
	StatusLowFuel   = "low_fuel"
	StatusNoFuel    = "no_fuel"
	StatusDestroyed = "destroyed"
)

// NoTarget marks a drone without an assigned target.
const NoTarget = -1

// Drone holds runtime state for one simulated drone.
type Drone struct {
	ID       int
	Position world.Vec2
	Velocity world.Vec2
	Heading  float64
	Alive    bool
	Status   string
	Fuel     float64
	TargetID int
}

// Active reports whether the drone participates in the mission: alive and
// not out of fuel. Inactive drones are ignored by turrets and steering.
func (d *Drone) Active() bool {
	return d.Alive && d.Status != StatusNoFuel
}

// Target is an objective destroyed when an alive drone closes within its
// destruction radius.
type Target struct {
	ID                int
	Position          world.Vec2
	Alive             bool
	DestructionRadius float64
	Assigned          int
}

// TelemetryRow is one per-drone, per-tick record for external sinks.
type TelemetryRow struct {
	RunID     string    `json:"run_id"` // TAG
	DroneID   int       `json:"drone_id"`
	Tick      int64     `json:"tick"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	VX        float64   `json:"vx"`
	VY        float64   `json:"vy"`
	Heading   float64   `json:"heading"`
	Fuel      float64   `json:"fuel"`
	Status    string    `json:"status"`
	TargetID  int       `json:"target_id"`
	Timestamp time.Time `json:"ts"` // TIME INDEX
}

// TelemetryTableName holds the table name used when writing to GreptimeDB.
// It defaults to "swarm_telemetry" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var TelemetryTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "swarm_telemetry"
}()

func (TelemetryRow) TableName() string {
	return TelemetryTableName
}

// Swarm event types.
const (
	SwarmEventTargetDestroyed = "target_destroyed"
	SwarmEventReassignment    = "reassignment"
	SwarmEventDroneLost       = "drone_lost"
)

// SwarmEventRow records a swarm-level coordination event.
type SwarmEventRow struct {
	RunID     string    `json:"run_id"`
	EventType string    `json:"event_type"`
	DroneIDs  []int     `json:"drone_ids,omitempty"`
	TargetID  int       `json:"target_id,omitempty"`
	Tick      int64     `json:"tick"`
	Timestamp time.Time `json:"ts"`
}

// SimulationStateRow captures per-tick aggregate stepper state.
type SimulationStateRow struct {
	RunID        string    `json:"run_id"`
	Tick         int64     `json:"tick"`
	State        string    `json:"state"`
	Reason       string    `json:"reason,omitempty"`
	DronesAlive  int       `json:"drones_alive"`
	DronesTotal  int       `json:"drones_total"`
	TargetsAlive int       `json:"targets_alive"`
	TargetsTotal int       `json:"targets_total"`
	StepsPerSec  float64   `json:"steps_per_sec"`
	Timestamp    time.Time `json:"ts"`
}
