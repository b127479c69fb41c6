// Learned threat memory: a decaying grid of engagement risk.
package learning

import (
	"fmt"
	"math"

	"swarmsim/internal/world"
)

// RiskMap maps discretized battlespace regions to a scalar risk in [0,1].
// Risk is nudged up where drones are lost and decays geometrically every
// tick, so regions that stopped killing fade from memory.
type RiskMap struct {
	bounds    world.Bounds
	cellSize  float64
	cols      int
	rows      int
	increment float64
	decay     float64
	cells     []float64
}

// NewRiskMap builds an empty risk grid over the given bounds.
func NewRiskMap(b world.Bounds, cellSize, increment, decay float64) (*RiskMap, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("learning: non-positive risk cell size %v", cellSize)
	}
	if increment <= 0 || increment > 1 {
		return nil, fmt.Errorf("learning: risk increment %v outside (0,1]", increment)
	}
	if decay <= 0 || decay >= 1 {
		return nil, fmt.Errorf("learning: risk decay %v outside (0,1)", decay)
	}
	cols := int(math.Ceil(b.Width() / cellSize))
	rows := int(math.Ceil(b.Height() / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &RiskMap{
		bounds:    b,
		cellSize:  cellSize,
		cols:      cols,
		rows:      rows,
		increment: increment,
		decay:     decay,
		cells:     make([]float64, cols*rows),
	}, nil
}

func (m *RiskMap) index(p world.Vec2) (int, bool) {
	col := int((p.X - m.bounds.MinX) / m.cellSize)
	row := int((p.Y - m.bounds.MinY) / m.cellSize)
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return 0, false
	}
	return row*m.cols + col, true
}

// Observe records a drone loss at p, bumping the region's risk toward 1.
func (m *RiskMap) Observe(p world.Vec2) {
	if i, ok := m.index(p); ok {
		m.cells[i] = math.Min(1, m.cells[i]+m.increment)
	}
}

// Decay applies one tick of geometric memory fade to every cell.
func (m *RiskMap) Decay() {
	for i := range m.cells {
		m.cells[i] *= m.decay
	}
}

// RiskAt returns the learned risk at p, in [0,1]. Points outside the
// bounds carry no risk.
func (m *RiskMap) RiskAt(p world.Vec2) float64 {
	if i, ok := m.index(p); ok {
		return m.cells[i]
	}
	return 0
}

// Gradient estimates the spatial risk gradient at p by central differences
// over neighboring cells. Steering descends this gradient to flee learned
// danger.
func (m *RiskMap) Gradient(p world.Vec2) world.Vec2 {
	h := m.cellSize
	dx := (m.RiskAt(world.Vec2{X: p.X + h, Y: p.Y}) - m.RiskAt(world.Vec2{X: p.X - h, Y: p.Y})) / (2 * h)
	dy := (m.RiskAt(world.Vec2{X: p.X, Y: p.Y + h}) - m.RiskAt(world.Vec2{X: p.X, Y: p.Y - h})) / (2 * h)
	return world.Vec2{X: dx, Y: dy}
}

// Clone returns a deep copy, used to seed private per-drone memories.
func (m *RiskMap) Clone() *RiskMap {
	c := *m
	c.cells = make([]float64, len(m.cells))
	copy(c.cells, m.cells)
	return &c
}

// Reset zeroes all learned risk.
func (m *RiskMap) Reset() {
	for i := range m.cells {
		m.cells[i] = 0
	}
}
