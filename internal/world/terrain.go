package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TerrainCell holds the movement factor and sightline flag for one grid cell.
type TerrainCell struct {
	SpeedFactor float64 `yaml:"speed_factor" json:"speed_factor"`
	BlocksLOS   bool    `yaml:"blocks_los" json:"blocks_los"`
}

// TerrainGrid is a uniform grid of terrain cells prepared by an external
// GIS collaborator. The core never parses geospatial formats; it consumes
// this grid as-is. Cells are stored row-major, row 0 at MinY.
type TerrainGrid struct {
	Origin   Vec2
	CellSize float64
	Cols     int
	Rows     int
	Cells    []TerrainCell
}

// NewTerrainGrid validates dimensions and cell values.
func NewTerrainGrid(origin Vec2, cellSize float64, cols, rows int, cells []TerrainCell) (*TerrainGrid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("terrain: non-positive cell size %v", cellSize)
	}
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("terrain: invalid grid dimensions %dx%d", cols, rows)
	}
	if len(cells) != cols*rows {
		return nil, fmt.Errorf("terrain: %d cells for %dx%d grid", len(cells), cols, rows)
	}
	for i, c := range cells {
		if c.SpeedFactor <= 0 || c.SpeedFactor > 1 {
			return nil, fmt.Errorf("terrain: cell %d speed factor %v outside (0,1]", i, c.SpeedFactor)
		}
	}
	return &TerrainGrid{Origin: origin, CellSize: cellSize, Cols: cols, Rows: rows, Cells: cells}, nil
}

func (g *TerrainGrid) cellAt(p Vec2) (TerrainCell, bool) {
	col := int((p.X - g.Origin.X) / g.CellSize)
	row := int((p.Y - g.Origin.Y) / g.CellSize)
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return TerrainCell{}, false
	}
	return g.Cells[row*g.Cols+col], true
}

// SpeedAt returns the movement factor at p, 1.0 outside the grid.
func (g *TerrainGrid) SpeedAt(p Vec2) float64 {
	if c, ok := g.cellAt(p); ok {
		return c.SpeedFactor
	}
	return 1.0
}

// BlocksAt reports whether the cell containing p blocks line of sight.
func (g *TerrainGrid) BlocksAt(p Vec2) bool {
	c, ok := g.cellAt(p)
	return ok && c.BlocksLOS
}

// terrainFile is the on-disk YAML layout for prepared grids.
type terrainFile struct {
	Origin   Vec2          `yaml:"origin"`
	CellSize float64       `yaml:"cell_size"`
	Cols     int           `yaml:"cols"`
	Rows     int           `yaml:"rows"`
	Cells    []TerrainCell `yaml:"cells"`
}

// LoadTerrainFile reads a prepared terrain grid from a YAML file.
func LoadTerrainFile(path string) (*TerrainGrid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read terrain: %w", err)
	}
	var tf terrainFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse terrain: %w", err)
	}
	return NewTerrainGrid(tf.Origin, tf.CellSize, tf.Cols, tf.Rows, tf.Cells)
}
