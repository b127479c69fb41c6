package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"swarmsim/internal/telemetry"
	"swarmsim/internal/turret"
)

// JSONStdoutWriter prints telemetry, engagements, swarm events, and state
// rows as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs a telemetry row in JSON format.
func (w *JSONStdoutWriter) Write(row telemetry.TelemetryRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteBatch outputs multiple telemetry rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEngagement outputs a turret engagement event in JSON format.
func (w *JSONStdoutWriter) WriteEngagement(row turret.EngagementRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteEngagements outputs multiple engagement events in JSON format.
func (w *JSONStdoutWriter) WriteEngagements(rows []turret.EngagementRow) error {
	for _, r := range rows {
		_ = w.WriteEngagement(r)
	}
	return nil
}

// WriteSwarmEvent outputs a swarm event in JSON format.
func (w *JSONStdoutWriter) WriteSwarmEvent(e telemetry.SwarmEventRow) error {
	data, _ := json.Marshal(e)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteSwarmEvents outputs multiple swarm events in JSON format.
func (w *JSONStdoutWriter) WriteSwarmEvents(rows []telemetry.SwarmEventRow) error {
	for _, r := range rows {
		_ = w.WriteSwarmEvent(r)
	}
	return nil
}

// WriteState outputs a simulation state row in JSON format.
func (w *JSONStdoutWriter) WriteState(row telemetry.SimulationStateRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}
