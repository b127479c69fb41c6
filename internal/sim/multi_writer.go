package sim

import (
	"swarmsim/internal/telemetry"
	"swarmsim/internal/turret"
)

// MultiWriter fan-outs telemetry, engagement, and swarm event rows to
// multiple writers.
type MultiWriter struct {
	telewriters  []TelemetryWriter
	engwriters   []EngagementWriter
	swarmwriters []SwarmEventWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(tws []TelemetryWriter, ews []EngagementWriter, sws []SwarmEventWriter) *MultiWriter {
	return &MultiWriter{telewriters: tws, engwriters: ews, swarmwriters: sws}
}

// Write sends a telemetry row to all writers.
func (mw *MultiWriter) Write(row telemetry.TelemetryRow) error {
	for _, w := range mw.telewriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple telemetry rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, w := range mw.telewriters {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteEngagement sends an engagement row to all engagement writers.
func (mw *MultiWriter) WriteEngagement(row turret.EngagementRow) error {
	for _, w := range mw.engwriters {
		if err := w.WriteEngagement(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteEngagements sends multiple engagements to all engagement writers, using batch if supported.
func (mw *MultiWriter) WriteEngagements(rows []turret.EngagementRow) error {
	for _, w := range mw.engwriters {
		if bw, ok := w.(batchEngagementWriter); ok {
			if err := bw.WriteEngagements(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteEngagement(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSwarmEvent sends a swarm event to all swarm event writers.
func (mw *MultiWriter) WriteSwarmEvent(e telemetry.SwarmEventRow) error {
	for _, w := range mw.swarmwriters {
		if err := w.WriteSwarmEvent(e); err != nil {
			return err
		}
	}
	return nil
}

// WriteSwarmEvents sends multiple swarm events to all swarm event writers, using batch if supported.
func (mw *MultiWriter) WriteSwarmEvents(rows []telemetry.SwarmEventRow) error {
	for _, w := range mw.swarmwriters {
		if bw, ok := w.(batchSwarmEventWriter); ok {
			if err := bw.WriteSwarmEvents(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteSwarmEvent(r); err != nil {
				return err
			}
		}
	}
	return nil
}
