package sim

import (
	"encoding/json"
	"os"

	"swarmsim/internal/telemetry"
	"swarmsim/internal/turret"
)

// FileWriter writes telemetry, engagement, swarm event, and state rows to
// JSONL files.
type FileWriter struct {
	teleFile  *os.File
	engFile   *os.File
	swarmFile *os.File
	stateFile *os.File
	teleEnc   *json.Encoder
	engEnc    *json.Encoder
	swarmEnc  *json.Encoder
	stateEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. engagementPath, swarmPath, or
// statePath may be empty to skip those logs.
func NewFileWriter(telemetryPath, engagementPath, swarmPath, statePath string) (*FileWriter, error) {
	tf, err := os.Create(telemetryPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{teleFile: tf, teleEnc: json.NewEncoder(tf)}
	if engagementPath != "" {
		ef, err := os.Create(engagementPath)
		if err != nil {
			tf.Close()
			return nil, err
		}
		fw.engFile = ef
		fw.engEnc = json.NewEncoder(ef)
	}
	if swarmPath != "" {
		sf, err := os.Create(swarmPath)
		if err != nil {
			if fw.engFile != nil {
				fw.engFile.Close()
			}
			tf.Close()
			return nil, err
		}
		fw.swarmFile = sf
		fw.swarmEnc = json.NewEncoder(sf)
	}
	if statePath != "" {
		sf, err := os.Create(statePath)
		if err != nil {
			if fw.engFile != nil {
				fw.engFile.Close()
			}
			if fw.swarmFile != nil {
				fw.swarmFile.Close()
			}
			tf.Close()
			return nil, err
		}
		fw.stateFile = sf
		fw.stateEnc = json.NewEncoder(sf)
	}
	return fw, nil
}

// Write logs a single telemetry row.
func (f *FileWriter) Write(row telemetry.TelemetryRow) error {
	return f.teleEnc.Encode(row)
}

// WriteBatch logs multiple telemetry rows.
func (f *FileWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEngagement logs a single engagement row, if enabled.
func (f *FileWriter) WriteEngagement(row turret.EngagementRow) error {
	if f.engEnc == nil {
		return nil
	}
	return f.engEnc.Encode(row)
}

// WriteEngagements logs multiple engagement rows.
func (f *FileWriter) WriteEngagements(rows []turret.EngagementRow) error {
	for _, r := range rows {
		if err := f.WriteEngagement(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSwarmEvent logs a single swarm event row, if enabled.
func (f *FileWriter) WriteSwarmEvent(e telemetry.SwarmEventRow) error {
	if f.swarmEnc == nil {
		return nil
	}
	return f.swarmEnc.Encode(e)
}

// WriteSwarmEvents logs multiple swarm events.
func (f *FileWriter) WriteSwarmEvents(rows []telemetry.SwarmEventRow) error {
	for _, r := range rows {
		if err := f.WriteSwarmEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteState logs a simulation state row, if enabled.
func (f *FileWriter) WriteState(row telemetry.SimulationStateRow) error {
	if f.stateEnc == nil {
		return nil
	}
	return f.stateEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.teleFile != nil {
		if e := f.teleFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.engFile != nil {
		if e := f.engFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.swarmFile != nil {
		if e := f.swarmFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.stateFile != nil {
		if e := f.stateFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
