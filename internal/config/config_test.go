package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simulation.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
run_name: test-run
drones:
  count: 4
  max_speed: 3.5
turrets:
  count: 2
  base_hit_probability: 0.5
sim:
  seed: 42
  max_steps: 500
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RunName != "test-run" {
		t.Errorf("Expected run_name test-run, got %q", cfg.RunName)
	}
	if cfg.Drones.Count != 4 || cfg.Drones.MaxSpeed != 3.5 {
		t.Errorf("Drone overrides not applied: %+v", cfg.Drones)
	}
	if cfg.Sim.Seed != 42 || cfg.Sim.MaxSteps != 500 {
		t.Errorf("Sim overrides not applied: %+v", cfg.Sim)
	}
	// Untouched sections keep defaults.
	if cfg.Steering.WeightTarget != 1.0 {
		t.Errorf("Expected default weight_target 1.0, got %v", cfg.Steering.WeightTarget)
	}
	if cfg.Turrets.DetectionRadius != 20 {
		t.Errorf("Expected default detection_radius 20, got %v", cfg.Turrets.DetectionRadius)
	}
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	path := writeConfig(t, `
turrets:
  falloff: quadratic
`)
	if _, err := Load(path); err == nil {
		t.Errorf("Expected schema error for unknown falloff")
	}
}

func TestLoadRejectsNegativeCount(t *testing.T) {
	path := writeConfig(t, `
drones:
  count: -3
`)
	if _, err := Load(path); err == nil {
		t.Errorf("Expected schema error for negative drone count")
	}
}

func TestLoadRejectsSemanticError(t *testing.T) {
	// Radius range inversion passes the structural schema but fails
	// semantic validation.
	path := writeConfig(t, `
world:
  obstacles:
    count: 3
    min_radius: 5
    max_radius: 2
`)
	if _, err := Load(path); err == nil {
		t.Errorf("Expected semantic error for inverted radius range")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("Expected error for missing config file")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SimulationConfig)
	}{
		{"inverted bounds", func(c *SimulationConfig) { c.World.Bounds.MaxX = c.World.Bounds.MinX }},
		{"zero max_speed", func(c *SimulationConfig) { c.Drones.MaxSpeed = 0 }},
		{"zero max_acceleration", func(c *SimulationConfig) { c.Drones.MaxAcceleration = 0 }},
		{"zero max_fuel", func(c *SimulationConfig) { c.Drones.MaxFuel = 0 }},
		{"zero destruction_radius", func(c *SimulationConfig) { c.Targets.DestructionRadius = 0 }},
		{"hit probability above 1", func(c *SimulationConfig) { c.Turrets.BaseHitProbability = 1.5 }},
		{"unknown falloff", func(c *SimulationConfig) { c.Turrets.Falloff = "gaussian" }},
		{"negative cooldown", func(c *SimulationConfig) { c.Turrets.CooldownTicks = -1 }},
		{"negative weight", func(c *SimulationConfig) { c.Steering.WeightThreat = -1 }},
		{"zero risk cell size", func(c *SimulationConfig) { c.Learning.CellSize = 0 }},
		{"risk decay of 1", func(c *SimulationConfig) { c.Learning.Decay = 1 }},
		{"unknown memory mode", func(c *SimulationConfig) { c.Learning.Memory = "telepathic" }},
		{"zero dt", func(c *SimulationConfig) { c.Sim.DT = 0 }},
		{"zero max_steps", func(c *SimulationConfig) { c.Sim.MaxSteps = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error")
			}
		})
	}
}
