package sim

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"swarmsim/internal/telemetry"
	"swarmsim/internal/turret"
)

func TestJSONStdoutWriterEmitsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONStdoutWriter{out: &buf}

	rows := []telemetry.TelemetryRow{
		{RunID: "r1", DroneID: 0, Tick: 1, X: 10, Status: telemetry.StatusMoving},
		{RunID: "r1", DroneID: 1, Tick: 1, X: 20, Status: telemetry.StatusIdle},
	}
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch returned error: %v", err)
	}
	if err := w.WriteEngagement(turret.EngagementRow{RunID: "r1", TurretID: 0, DroneID: 1, Killed: true}); err != nil {
		t.Fatalf("WriteEngagement returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 JSON lines, got %d", len(lines))
	}
	for i, line := range lines {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Errorf("Line %d is not valid JSON: %v", i, err)
		}
	}
	var last map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil {
		t.Fatalf("bad engagement line: %v", err)
	}
	if last["killed"] != true {
		t.Errorf("Expected killed engagement in output, got %v", last)
	}
}

func TestColorStdoutWriterRendersTick(t *testing.T) {
	var buf bytes.Buffer
	w := &ColorStdoutWriter{out: &buf}

	rows := []telemetry.TelemetryRow{
		{RunID: "r1", DroneID: 0, Tick: 7, X: 10, Y: 20, Fuel: 590, Status: telemetry.StatusMoving, TargetID: 1},
		{RunID: "r1", DroneID: 1, Tick: 7, X: 30, Y: 40, Fuel: 588, Status: telemetry.StatusAvoiding, TargetID: telemetry.NoTarget},
	}
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "tick 7") {
		t.Errorf("Expected tick header in output:\n%s", out)
	}
	if !strings.Contains(out, "moving") || !strings.Contains(out, "avoiding") {
		t.Errorf("Expected drone statuses in output:\n%s", out)
	}

	buf.Reset()
	if err := w.WriteEngagement(turret.EngagementRow{TurretID: 2, DroneID: 5, Killed: true, X: 1, Y: 2}); err != nil {
		t.Fatalf("WriteEngagement returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "turret 2") || !strings.Contains(buf.String(), "drone 5") {
		t.Errorf("Expected engagement line, got:\n%s", buf.String())
	}
}
