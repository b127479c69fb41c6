// Scenario files pin entity placements that are otherwise randomized.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"swarmsim/internal/world"
)

// Placement fixes one entity's starting position.
type Placement struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec returns the placement as a world vector.
func (p Placement) Vec() world.Vec2 { return world.Vec2{X: p.X, Y: p.Y} }

// Scenario declares explicit placements for a run. Any section left empty
// falls back to randomized initialization from the run configuration; a
// non-empty section overrides the corresponding configured count.
type Scenario struct {
	Name        string           `yaml:"name,omitempty"`
	Description string           `yaml:"description,omitempty"`
	Drones      []Placement      `yaml:"drones,omitempty"`
	Targets     []Placement      `yaml:"targets,omitempty"`
	Turrets     []Placement      `yaml:"turrets,omitempty"`
	Obstacles   []world.Obstacle `yaml:"obstacles,omitempty"`
}

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &s, nil
}

// Validate checks that every placement lies within the given bounds.
func (s *Scenario) Validate(b world.Bounds) error {
	check := func(kind string, ps []Placement) error {
		for i, p := range ps {
			if !b.Contains(p.Vec()) {
				return fmt.Errorf("scenario: %s %d placed at (%v, %v) outside bounds", kind, i, p.X, p.Y)
			}
		}
		return nil
	}
	if err := check("drone", s.Drones); err != nil {
		return err
	}
	if err := check("target", s.Targets); err != nil {
		return err
	}
	if err := check("turret", s.Turrets); err != nil {
		return err
	}
	for _, o := range s.Obstacles {
		if o.Radius <= 0 {
			return fmt.Errorf("scenario: obstacle %d has non-positive radius %v", o.ID, o.Radius)
		}
		if !b.Contains(o.Center) {
			return fmt.Errorf("scenario: obstacle %d center outside bounds", o.ID)
		}
	}
	return nil
}
