package main

import (
	"os"

	"swarmsim/internal/sim"
)

// newWriters sets up the writer bundle based on flags and env vars. It
// returns the writers and a cleanup function to close any resources.
func newWriters(printOnly, color bool, logFile string) (sim.Writers, func(), error) {
	cleanup := func() {}

	base, err := baseWriter(printOnly, color)
	if err != nil {
		return sim.Writers{}, nil, err
	}
	writers := bundle(base)
	if logFile == "" {
		return writers, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".engagements", logFile+".swarm", logFile+".state")
	if err != nil {
		return sim.Writers{}, nil, err
	}
	cleanup = func() { fw.Close() }

	ews := []sim.EngagementWriter{fw}
	if writers.Engagement != nil {
		ews = append(ews, writers.Engagement)
	}
	sws := []sim.SwarmEventWriter{fw}
	if writers.Swarm != nil {
		sws = append(sws, writers.Swarm)
	}
	mw := sim.NewMultiWriter([]sim.TelemetryWriter{writers.Telemetry, fw}, ews, sws)
	writers.Telemetry = mw
	writers.Engagement = mw
	writers.Swarm = mw
	// State rows stay on the base writer when it supports them; the log
	// file picks them up otherwise.
	if writers.State == nil {
		writers.State = fw
	}
	return writers, cleanup, nil
}

// baseWriter chooses the underlying writer based on the printOnly flag and env vars.
func baseWriter(printOnly, color bool) (sim.TelemetryWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if color {
			return sim.NewColorStdoutWriter(), nil
		}
		return sim.NewJSONStdoutWriter(), nil
	}
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	return sim.NewGreptimeDBWriter(endpoint, "public")
}

// bundle assembles a Writers value from whatever streams the base writer supports.
func bundle(base sim.TelemetryWriter) sim.Writers {
	w := sim.Writers{Telemetry: base}
	if ew, ok := base.(sim.EngagementWriter); ok {
		w.Engagement = ew
	}
	if sw, ok := base.(sim.SwarmEventWriter); ok {
		w.Swarm = sw
	}
	if st, ok := base.(sim.StateWriter); ok {
		w.State = st
	}
	return w
}

// newTelemetryWriter creates a telemetry-only writer for replay.
func newTelemetryWriter(printOnly, color bool) (sim.TelemetryWriter, error) {
	return baseWriter(printOnly, color)
}
