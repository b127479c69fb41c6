// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"swarmsim/internal/world"
)

// Risk memory modes.
const (
	MemoryShared  = "shared"
	MemoryPrivate = "private"
)

// WorldConfig describes battlespace bounds and randomized obstacle
// generation. Explicit obstacle placements come from a scenario file.
type WorldConfig struct {
	Bounds    world.Bounds   `yaml:"bounds"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
}

// ObstacleConfig controls random obstacle generation.
type ObstacleConfig struct {
	Count      int     `yaml:"count"`
	MinRadius  float64 `yaml:"min_radius"`
	MaxRadius  float64 `yaml:"max_radius"`
	Impassable bool    `yaml:"impassable"`
	BlockLOS   bool    `yaml:"block_los"`
}

// DroneConfig defines the swarm's physical envelope and fuel model.
type DroneConfig struct {
	Count               int     `yaml:"count"`
	MaxSpeed            float64 `yaml:"max_speed"`
	MaxAcceleration     float64 `yaml:"max_acceleration"`
	MaxFuel             float64 `yaml:"max_fuel"`
	FuelConsumptionRate float64 `yaml:"fuel_consumption_rate"`
	LowFuelThreshold    float64 `yaml:"low_fuel_threshold"`
}

// TargetConfig defines objectives.
type TargetConfig struct {
	Count             int     `yaml:"count"`
	DestructionRadius float64 `yaml:"destruction_radius"`
	AssignmentLimit   int     `yaml:"assignment_limit"`
}

// TurretConfig defines point-defense emplacements.
type TurretConfig struct {
	Count              int     `yaml:"count"`
	DetectionRadius    float64 `yaml:"detection_radius"`
	BaseHitProbability float64 `yaml:"base_hit_probability"`
	Falloff            string  `yaml:"falloff"`
	CooldownTicks      int     `yaml:"cooldown_ticks"`
}

// SteeringConfig holds flocking radii and force weights.
type SteeringConfig struct {
	CohesionRadius   float64 `yaml:"cohesion_radius"`
	SeparationRadius float64 `yaml:"separation_radius"`
	AlignmentRadius  float64 `yaml:"alignment_radius"`
	ObstacleMargin   float64 `yaml:"obstacle_margin"`
	WeightCohesion   float64 `yaml:"weight_cohesion"`
	WeightSeparation float64 `yaml:"weight_separation"`
	WeightAlignment  float64 `yaml:"weight_alignment"`
	WeightTarget     float64 `yaml:"weight_target"`
	WeightObstacle   float64 `yaml:"weight_obstacle"`
	WeightThreat     float64 `yaml:"weight_threat"`
}

// LearningConfig controls the risk map.
type LearningConfig struct {
	CellSize  float64 `yaml:"cell_size"`
	Increment float64 `yaml:"increment"`
	Decay     float64 `yaml:"decay"`
	Memory    string  `yaml:"memory"`
}

// StepperConfig holds run-level stepper parameters.
type StepperConfig struct {
	DT               float64 `yaml:"dt"`
	MaxSteps         int     `yaml:"max_steps"`
	Seed             int64   `yaml:"seed"`
	LethalCollisions bool    `yaml:"lethal_collisions"`
}

// SimulationConfig is the root configuration for one run.
type SimulationConfig struct {
	RunName  string         `yaml:"run_name"`
	World    WorldConfig    `yaml:"world"`
	Terrain  string         `yaml:"terrain"`
	Scenario string         `yaml:"scenario"`
	Drones   DroneConfig    `yaml:"drones"`
	Targets  TargetConfig   `yaml:"targets"`
	Turrets  TurretConfig   `yaml:"turrets"`
	Steering SteeringConfig `yaml:"steering"`
	Learning LearningConfig `yaml:"learning"`
	Sim      StepperConfig  `yaml:"sim"`
}

// Default returns the baseline configuration. Values follow the reference
// mission profile: a 100x100 field, ten drones, three targets, three
// turrets.
func Default() *SimulationConfig {
	return &SimulationConfig{
		RunName: "mission-01",
		World: WorldConfig{
			Bounds:    world.Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
			Obstacles: ObstacleConfig{Count: 5, MinRadius: 2, MaxRadius: 4, BlockLOS: true},
		},
		Drones: DroneConfig{
			Count:               10,
			MaxSpeed:            2.0,
			MaxAcceleration:     0.6,
			MaxFuel:             600,
			FuelConsumptionRate: 1.0,
			LowFuelThreshold:    0.2,
		},
		Targets: TargetConfig{Count: 3, DestructionRadius: 4, AssignmentLimit: 3},
		Turrets: TurretConfig{
			Count:              3,
			DetectionRadius:    20,
			BaseHitProbability: 0.8,
			Falloff:            "linear",
			CooldownTicks:      8,
		},
		Steering: SteeringConfig{
			CohesionRadius:   30,
			SeparationRadius: 6,
			AlignmentRadius:  30,
			ObstacleMargin:   12,
			WeightCohesion:   0.02,
			WeightSeparation: 0.2,
			WeightAlignment:  0.05,
			WeightTarget:     1.0,
			WeightObstacle:   2.5,
			WeightThreat:     1.8,
		},
		Learning: LearningConfig{CellSize: 10, Increment: 0.25, Decay: 0.98, Memory: MemoryShared},
		Sim:      StepperConfig{DT: 1.0, MaxSteps: 2000, Seed: 1},
	}
}

// Load reads YAML config, validates it against the embedded CUE schema,
// then runs semantic validation. A run never starts from an invalid
// configuration.
func Load(configPath string) (*SimulationConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
