// Static battlespace geometry: bounds, obstacles, and terrain queries.
package world

import (
	"fmt"
	"math"
)

// Bounds is the axis-aligned extent of the battlespace.
type Bounds struct {
	MinX float64 `yaml:"min_x" json:"min_x"`
	MinY float64 `yaml:"min_y" json:"min_y"`
	MaxX float64 `yaml:"max_x" json:"max_x"`
	MaxY float64 `yaml:"max_y" json:"max_y"`
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Clamp returns p constrained to the bounds.
func (b Bounds) Clamp(p Vec2) Vec2 {
	return Vec2{
		X: math.Min(math.Max(p.X, b.MinX), b.MaxX),
		Y: math.Min(math.Max(p.Y, b.MinY), b.MaxY),
	}
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Obstacle is a static circular blocker. Impassable obstacles destroy
// drones on contact when lethal collisions are enabled; BlocksLOS controls
// whether the obstacle occludes turret sightlines.
type Obstacle struct {
	ID         int     `yaml:"id" json:"id"`
	Center     Vec2    `yaml:"center" json:"center"`
	Radius     float64 `yaml:"radius" json:"radius"`
	Impassable bool    `yaml:"impassable" json:"impassable"`
	BlocksLOS  bool    `yaml:"blocks_los" json:"blocks_los"`
}

// RepulsionVector returns a unit-scaled repulsion away from the obstacle,
// quadratic in proximity inside radius+margin, zero outside.
func (o Obstacle) RepulsionVector(p Vec2, margin float64) Vec2 {
	away := p.Sub(o.Center)
	dist := away.Len()
	effective := o.Radius + margin
	if dist <= 0 || dist >= effective {
		return Vec2{}
	}
	strength := 1.0 - dist/effective
	return away.Normalized().Scale(strength * strength)
}

// Contains reports whether p lies inside the obstacle.
func (o Obstacle) Contains(p Vec2) bool {
	return p.Sub(o.Center).Len() < o.Radius
}

// World is the immutable static geometry queried by every other component.
// Terrain is optional; without it SpeedModifier is 1.0 everywhere and
// terrain never blocks line of sight.
type World struct {
	Bounds    Bounds
	Obstacles []Obstacle

	terrain *TerrainGrid
}

// New validates the geometry and returns a World. Malformed geometry is a
// construction error, never a query-time failure.
func New(b Bounds, obstacles []Obstacle) (*World, error) {
	if b.MaxX <= b.MinX || b.MaxY <= b.MinY {
		return nil, fmt.Errorf("world: inverted bounds [%v %v]x[%v %v]", b.MinX, b.MaxX, b.MinY, b.MaxY)
	}
	for _, o := range obstacles {
		if o.Radius <= 0 || math.IsNaN(o.Radius) {
			return nil, fmt.Errorf("world: obstacle %d has non-positive radius %v", o.ID, o.Radius)
		}
		if !b.Contains(o.Center) {
			return nil, fmt.Errorf("world: obstacle %d center %v outside bounds", o.ID, o.Center)
		}
	}
	return &World{Bounds: b, Obstacles: obstacles}, nil
}

// LoadTerrain attaches a prepared terrain grid. Called before a run starts;
// the grid must already be validated (see NewTerrainGrid).
func (w *World) LoadTerrain(g *TerrainGrid) error {
	if g == nil {
		return fmt.Errorf("world: nil terrain grid")
	}
	w.terrain = g
	return nil
}

// HasTerrain reports whether terrain data is loaded.
func (w *World) HasTerrain() bool { return w.terrain != nil }

// IsBlocked reports whether p lies inside any obstacle.
func (w *World) IsBlocked(p Vec2) bool {
	for _, o := range w.Obstacles {
		if o.Contains(p) {
			return true
		}
	}
	return false
}

// SpeedModifier returns the terrain movement factor at p, in (0,1].
// Without terrain data the battlespace is uniformly traversable.
func (w *World) SpeedModifier(p Vec2) float64 {
	if w.terrain == nil {
		return 1.0
	}
	return w.terrain.SpeedAt(p)
}

// losSampleStep is the segment sampling resolution for terrain occlusion.
const losSampleStep = 0.5

// LineOfSight reports whether the segment a-b is unobstructed by
// LOS-blocking obstacles or terrain cells.
func (w *World) LineOfSight(a, b Vec2) bool {
	for _, o := range w.Obstacles {
		if o.BlocksLOS && segmentIntersectsCircle(a, b, o.Center, o.Radius) {
			return false
		}
	}
	if w.terrain == nil {
		return true
	}
	// Sample the segment at sub-cell resolution against blocking cells.
	step := math.Min(w.terrain.CellSize/2, losSampleStep*w.terrain.CellSize)
	length := b.Sub(a).Len()
	if length < 1e-9 {
		return !w.terrain.BlocksAt(a)
	}
	dir := b.Sub(a).Normalized()
	for d := 0.0; d <= length; d += step {
		if w.terrain.BlocksAt(a.Add(dir.Scale(d))) {
			return false
		}
	}
	return !w.terrain.BlocksAt(b)
}

// segmentIntersectsCircle tests the closest point on segment ab against the
// circle at c with radius r.
func segmentIntersectsCircle(a, b, c Vec2, r float64) bool {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	t := 0.0
	if lenSq > 1e-12 {
		t = c.Sub(a).Dot(ab) / lenSq
		t = math.Min(math.Max(t, 0), 1)
	}
	closest := a.Add(ab.Scale(t))
	return c.Sub(closest).Len() < r
}
