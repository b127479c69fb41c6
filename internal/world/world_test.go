package world

import (
	"math"
	"testing"
)

func TestBoundsClamp(t *testing.T) {
	b := Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	p := b.Clamp(Vec2{X: -5, Y: 120})
	if p.X != 0 || p.Y != 100 {
		t.Errorf("Expected clamp to (0,100), got (%v,%v)", p.X, p.Y)
	}
	inside := Vec2{X: 42, Y: 7}
	if b.Clamp(inside) != inside {
		t.Errorf("Clamp moved a point already inside the bounds")
	}
	if !b.Contains(inside) || b.Contains(Vec2{X: 101, Y: 50}) {
		t.Errorf("Contains gave wrong answer")
	}
}

func TestNewRejectsBadGeometry(t *testing.T) {
	if _, err := New(Bounds{MinX: 10, MaxX: 0, MinY: 0, MaxY: 10}, nil); err == nil {
		t.Errorf("Expected error for inverted bounds")
	}
	b := Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	if _, err := New(b, []Obstacle{{ID: 0, Center: Vec2{X: 50, Y: 50}, Radius: -1}}); err == nil {
		t.Errorf("Expected error for non-positive obstacle radius")
	}
	if _, err := New(b, []Obstacle{{ID: 0, Center: Vec2{X: 200, Y: 50}, Radius: 5}}); err == nil {
		t.Errorf("Expected error for obstacle outside bounds")
	}
}

func TestIsBlocked(t *testing.T) {
	b := Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	w, err := New(b, []Obstacle{{ID: 0, Center: Vec2{X: 50, Y: 50}, Radius: 5}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !w.IsBlocked(Vec2{X: 51, Y: 50}) {
		t.Errorf("Point inside obstacle not blocked")
	}
	if w.IsBlocked(Vec2{X: 60, Y: 50}) {
		t.Errorf("Point outside obstacle reported blocked")
	}
}

func TestLineOfSightObstacles(t *testing.T) {
	b := Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	blocking := Obstacle{ID: 0, Center: Vec2{X: 50, Y: 50}, Radius: 5, BlocksLOS: true}
	transparent := Obstacle{ID: 1, Center: Vec2{X: 50, Y: 80}, Radius: 5, BlocksLOS: false}
	w, err := New(b, []Obstacle{blocking, transparent})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if w.LineOfSight(Vec2{X: 10, Y: 50}, Vec2{X: 90, Y: 50}) {
		t.Errorf("Segment through blocking obstacle reported clear")
	}
	if !w.LineOfSight(Vec2{X: 10, Y: 80}, Vec2{X: 90, Y: 80}) {
		t.Errorf("Segment through non-blocking obstacle reported occluded")
	}
	if !w.LineOfSight(Vec2{X: 10, Y: 10}, Vec2{X: 90, Y: 10}) {
		t.Errorf("Segment far from obstacles reported occluded")
	}
}

func TestLineOfSightTerrain(t *testing.T) {
	b := Bounds{MinX: 0, MinY: 0, MaxX: 30, MaxY: 10}
	w, err := New(b, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	// One blocking column in the middle of a 3x1 grid.
	cells := []TerrainCell{
		{SpeedFactor: 1},
		{SpeedFactor: 1, BlocksLOS: true},
		{SpeedFactor: 1},
	}
	g, err := NewTerrainGrid(Vec2{}, 10, 3, 1, cells)
	if err != nil {
		t.Fatalf("NewTerrainGrid returned error: %v", err)
	}
	if err := w.LoadTerrain(g); err != nil {
		t.Fatalf("LoadTerrain returned error: %v", err)
	}

	if w.LineOfSight(Vec2{X: 2, Y: 5}, Vec2{X: 28, Y: 5}) {
		t.Errorf("Segment through blocking terrain reported clear")
	}
	if !w.LineOfSight(Vec2{X: 2, Y: 5}, Vec2{X: 8, Y: 5}) {
		t.Errorf("Segment inside a clear cell reported occluded")
	}
}

func TestSpeedModifier(t *testing.T) {
	b := Bounds{MinX: 0, MinY: 0, MaxX: 20, MaxY: 10}
	w, err := New(b, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got := w.SpeedModifier(Vec2{X: 5, Y: 5}); got != 1.0 {
		t.Errorf("Expected speed 1.0 without terrain, got %v", got)
	}

	cells := []TerrainCell{{SpeedFactor: 0.5}, {SpeedFactor: 1}}
	g, err := NewTerrainGrid(Vec2{}, 10, 2, 1, cells)
	if err != nil {
		t.Fatalf("NewTerrainGrid returned error: %v", err)
	}
	if err := w.LoadTerrain(g); err != nil {
		t.Fatalf("LoadTerrain returned error: %v", err)
	}
	if got := w.SpeedModifier(Vec2{X: 5, Y: 5}); got != 0.5 {
		t.Errorf("Expected speed 0.5 in slow cell, got %v", got)
	}
	if got := w.SpeedModifier(Vec2{X: 50, Y: 5}); got != 1.0 {
		t.Errorf("Expected speed 1.0 outside grid, got %v", got)
	}
}

func TestRepulsionVector(t *testing.T) {
	o := Obstacle{Center: Vec2{X: 50, Y: 50}, Radius: 5}
	margin := 5.0

	far := o.RepulsionVector(Vec2{X: 70, Y: 50}, margin)
	if far.Len() != 0 {
		t.Errorf("Expected zero repulsion outside radius+margin, got %v", far)
	}

	near := o.RepulsionVector(Vec2{X: 56, Y: 50}, margin)
	farther := o.RepulsionVector(Vec2{X: 59, Y: 50}, margin)
	if near.X <= 0 {
		t.Errorf("Repulsion should point away from the obstacle center, got %v", near)
	}
	if near.Len() <= farther.Len() {
		t.Errorf("Repulsion should grow with proximity: near %v, farther %v", near.Len(), farther.Len())
	}
}

func TestTerrainGridValidation(t *testing.T) {
	cells := []TerrainCell{{SpeedFactor: 1}}
	if _, err := NewTerrainGrid(Vec2{}, 0, 1, 1, cells); err == nil {
		t.Errorf("Expected error for non-positive cell size")
	}
	if _, err := NewTerrainGrid(Vec2{}, 10, 2, 1, cells); err == nil {
		t.Errorf("Expected error for cell count mismatch")
	}
	if _, err := NewTerrainGrid(Vec2{}, 10, 1, 1, []TerrainCell{{SpeedFactor: 1.5}}); err == nil {
		t.Errorf("Expected error for speed factor above 1")
	}
}

func TestVecNormalizedAndClamped(t *testing.T) {
	if got := (Vec2{}).Normalized(); got.Len() != 0 {
		t.Errorf("Zero vector should normalize to zero, got %v", got)
	}
	n := Vec2{X: 3, Y: 4}.Normalized()
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %v", n.Len())
	}
	c := Vec2{X: 3, Y: 4}.Clamped(2.5)
	if math.Abs(c.Len()-2.5) > 1e-12 {
		t.Errorf("Expected clamped length 2.5, got %v", c.Len())
	}
	small := Vec2{X: 1, Y: 0}
	if small.Clamped(5) != small {
		t.Errorf("Clamped changed a vector under the limit")
	}
}
