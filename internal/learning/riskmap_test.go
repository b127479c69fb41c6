package learning

import (
	"math"
	"testing"

	"swarmsim/internal/world"
)

func testBounds() world.Bounds {
	return world.Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
}

func TestNewRiskMapValidation(t *testing.T) {
	b := testBounds()
	if _, err := NewRiskMap(b, 0, 0.25, 0.98); err == nil {
		t.Errorf("Expected error for non-positive cell size")
	}
	if _, err := NewRiskMap(b, 10, 1.5, 0.98); err == nil {
		t.Errorf("Expected error for increment above 1")
	}
	if _, err := NewRiskMap(b, 10, 0.25, 1.0); err == nil {
		t.Errorf("Expected error for decay of 1")
	}
}

func TestObserveAndDecay(t *testing.T) {
	m, err := NewRiskMap(testBounds(), 10, 0.25, 0.5)
	if err != nil {
		t.Fatalf("NewRiskMap returned error: %v", err)
	}
	p := world.Vec2{X: 55, Y: 55}
	m.Observe(p)
	if got := m.RiskAt(p); got != 0.25 {
		t.Errorf("Expected risk 0.25 after one observation, got %v", got)
	}
	m.Decay()
	if got := m.RiskAt(p); got != 0.125 {
		t.Errorf("Expected risk 0.125 after decay, got %v", got)
	}
	// Other cells stay untouched.
	if got := m.RiskAt(world.Vec2{X: 5, Y: 5}); got != 0 {
		t.Errorf("Expected zero risk in unobserved cell, got %v", got)
	}
}

func TestRiskSaturatesAtOne(t *testing.T) {
	m, err := NewRiskMap(testBounds(), 10, 0.6, 0.98)
	if err != nil {
		t.Fatalf("NewRiskMap returned error: %v", err)
	}
	p := world.Vec2{X: 15, Y: 15}
	for i := 0; i < 10; i++ {
		m.Observe(p)
	}
	if got := m.RiskAt(p); got != 1.0 {
		t.Errorf("Expected risk capped at 1.0, got %v", got)
	}
}

func TestRiskOutsideBounds(t *testing.T) {
	m, err := NewRiskMap(testBounds(), 10, 0.25, 0.98)
	if err != nil {
		t.Fatalf("NewRiskMap returned error: %v", err)
	}
	outside := world.Vec2{X: -20, Y: 50}
	m.Observe(outside)
	if got := m.RiskAt(outside); got != 0 {
		t.Errorf("Expected zero risk outside bounds, got %v", got)
	}
}

func TestGradientPointsTowardDanger(t *testing.T) {
	m, err := NewRiskMap(testBounds(), 10, 1.0, 0.98)
	if err != nil {
		t.Fatalf("NewRiskMap returned error: %v", err)
	}
	// Risk concentrated in the cell east of the query point.
	m.Observe(world.Vec2{X: 65, Y: 55})
	g := m.Gradient(world.Vec2{X: 55, Y: 55})
	if g.X <= 0 {
		t.Errorf("Expected positive X gradient toward the risky cell, got %v", g)
	}
	if math.Abs(g.Y) > 1e-12 {
		t.Errorf("Expected zero Y gradient, got %v", g)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m, err := NewRiskMap(testBounds(), 10, 0.25, 0.98)
	if err != nil {
		t.Fatalf("NewRiskMap returned error: %v", err)
	}
	p := world.Vec2{X: 25, Y: 25}
	m.Observe(p)
	c := m.Clone()
	c.Observe(p)
	if m.RiskAt(p) != 0.25 {
		t.Errorf("Clone observation leaked into the original map")
	}
	if c.RiskAt(p) != 0.5 {
		t.Errorf("Expected clone risk 0.5, got %v", c.RiskAt(p))
	}
}

func TestReset(t *testing.T) {
	m, err := NewRiskMap(testBounds(), 10, 0.25, 0.98)
	if err != nil {
		t.Fatalf("NewRiskMap returned error: %v", err)
	}
	p := world.Vec2{X: 35, Y: 35}
	m.Observe(p)
	m.Reset()
	if got := m.RiskAt(p); got != 0 {
		t.Errorf("Expected zero risk after reset, got %v", got)
	}
}
