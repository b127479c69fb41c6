// CUE schema validation and semantic config checks
package config

import (
	_ "embed"
	"fmt"
	"math"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource string

// validateSchema checks raw YAML config bytes against the embedded CUE
// schema before the YAML is unmarshalled into Go structs.
func validateSchema(data []byte) error {
	ctx := cuecontext.New()

	file, err := cueyaml.Extract("config.yaml", data)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(file)
	if configVal.Err() != nil {
		return fmt.Errorf("cannot build YAML config: %w", configVal.Err())
	}

	schemaVal := ctx.CompileString(schemaSource)
	if schemaVal.Err() != nil {
		return fmt.Errorf("cannot compile schema: %w", schemaVal.Err())
	}

	final := configVal.Unify(schemaVal)
	if final.Err() != nil {
		return fmt.Errorf("schema unify failed: %w", final.Err())
	}
	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Validate rejects semantically invalid configuration: the checks CUE types
// cannot express, plus everything the stepper assumes at init time.
func (c *SimulationConfig) Validate() error {
	b := c.World.Bounds
	if b.MaxX <= b.MinX || b.MaxY <= b.MinY {
		return fmt.Errorf("config: inverted world bounds")
	}
	if c.World.Obstacles.Count < 0 {
		return fmt.Errorf("config: negative obstacle count %d", c.World.Obstacles.Count)
	}
	if c.World.Obstacles.Count > 0 {
		if c.World.Obstacles.MinRadius <= 0 || c.World.Obstacles.MaxRadius < c.World.Obstacles.MinRadius {
			return fmt.Errorf("config: invalid obstacle radius range [%v, %v]",
				c.World.Obstacles.MinRadius, c.World.Obstacles.MaxRadius)
		}
	}
	if c.Drones.Count < 0 {
		return fmt.Errorf("config: negative drone count %d", c.Drones.Count)
	}
	if c.Drones.MaxSpeed <= 0 {
		return fmt.Errorf("config: max_speed must be positive, got %v", c.Drones.MaxSpeed)
	}
	if c.Drones.MaxAcceleration <= 0 {
		return fmt.Errorf("config: max_acceleration must be positive, got %v", c.Drones.MaxAcceleration)
	}
	if c.Drones.MaxFuel <= 0 || c.Drones.FuelConsumptionRate < 0 {
		return fmt.Errorf("config: invalid fuel model (max %v, rate %v)", c.Drones.MaxFuel, c.Drones.FuelConsumptionRate)
	}
	if c.Targets.Count < 0 {
		return fmt.Errorf("config: negative target count %d", c.Targets.Count)
	}
	if c.Targets.Count > 0 && c.Targets.DestructionRadius <= 0 {
		return fmt.Errorf("config: destruction_radius must be positive, got %v", c.Targets.DestructionRadius)
	}
	if c.Turrets.Count < 0 {
		return fmt.Errorf("config: negative turret count %d", c.Turrets.Count)
	}
	if c.Turrets.Count > 0 {
		if c.Turrets.DetectionRadius <= 0 {
			return fmt.Errorf("config: detection_radius must be positive, got %v", c.Turrets.DetectionRadius)
		}
		if c.Turrets.BaseHitProbability < 0 || c.Turrets.BaseHitProbability > 1 {
			return fmt.Errorf("config: base_hit_probability %v outside [0,1]", c.Turrets.BaseHitProbability)
		}
		if c.Turrets.Falloff != "linear" && c.Turrets.Falloff != "none" {
			return fmt.Errorf("config: unknown turret falloff %q", c.Turrets.Falloff)
		}
		if c.Turrets.CooldownTicks < 0 {
			return fmt.Errorf("config: negative cooldown_ticks %d", c.Turrets.CooldownTicks)
		}
	}
	for name, w := range map[string]float64{
		"weight_cohesion":   c.Steering.WeightCohesion,
		"weight_separation": c.Steering.WeightSeparation,
		"weight_alignment":  c.Steering.WeightAlignment,
		"weight_target":     c.Steering.WeightTarget,
		"weight_obstacle":   c.Steering.WeightObstacle,
		"weight_threat":     c.Steering.WeightThreat,
	} {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("config: %s must be finite and non-negative, got %v", name, w)
		}
	}
	if c.Learning.CellSize <= 0 {
		return fmt.Errorf("config: risk cell_size must be positive, got %v", c.Learning.CellSize)
	}
	if c.Learning.Increment <= 0 || c.Learning.Increment > 1 {
		return fmt.Errorf("config: risk increment %v outside (0,1]", c.Learning.Increment)
	}
	if c.Learning.Decay <= 0 || c.Learning.Decay >= 1 {
		return fmt.Errorf("config: risk decay %v outside (0,1)", c.Learning.Decay)
	}
	if c.Learning.Memory != MemoryShared && c.Learning.Memory != MemoryPrivate {
		return fmt.Errorf("config: unknown risk memory mode %q", c.Learning.Memory)
	}
	if c.Sim.DT <= 0 {
		return fmt.Errorf("config: dt must be positive, got %v", c.Sim.DT)
	}
	if c.Sim.MaxSteps <= 0 {
		return fmt.Errorf("config: max_steps must be positive, got %d", c.Sim.MaxSteps)
	}
	return nil
}
