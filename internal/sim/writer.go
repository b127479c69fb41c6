package sim

import (
	"swarmsim/internal/telemetry"
	"swarmsim/internal/turret"
)

// TelemetryWriter is an interface to support different output writers.
type TelemetryWriter interface {
	Write(telemetry.TelemetryRow) error
}

// Optional: writers can also support batch mode.
type batchWriter interface {
	WriteBatch([]telemetry.TelemetryRow) error
}

// EngagementWriter handles turret engagement events.
type EngagementWriter interface {
	WriteEngagement(turret.EngagementRow) error
}

// Optional: engagement writers may support batch mode.
type batchEngagementWriter interface {
	WriteEngagements([]turret.EngagementRow) error
}

// SwarmEventWriter handles swarm coordination events.
type SwarmEventWriter interface {
	WriteSwarmEvent(telemetry.SwarmEventRow) error
}

// Optional: swarm event writers may support batch mode.
type batchSwarmEventWriter interface {
	WriteSwarmEvents([]telemetry.SwarmEventRow) error
}

// StateWriter handles per-tick simulation state rows.
type StateWriter interface {
	WriteState(telemetry.SimulationStateRow) error
}
