package grid

import (
	"math"

	"tilegrid/internal/collision"
)

// WorldConfig controls grid-to-world conversion.
type WorldConfig struct {
	TileSize     float64
	HeightOffset float64
	OriginX      float64
	OriginZ      float64
}

// DefaultWorld is a unit tile grid centred on the origin with tiles at
// height 0.5.
var DefaultWorld = WorldConfig{TileSize: 1, HeightOffset: 0.5}

// ToWorld converts a cell to the world position of its centre. The grid is
// centred on the origin: col maps to x and row maps to z.
func ToWorld(p Position, dims Dimensions, cfg WorldConfig) collision.Vec3 {
	return ToWorldF(float64(p.Row), float64(p.Col), dims, cfg)
}

// ToWorldF is ToWorld for fractional cell coordinates.
func ToWorldF(row, col float64, dims Dimensions, cfg WorldConfig) collision.Vec3 {
	centerRow := float64(dims.Rows-1) / 2
	centerCol := float64(dims.Cols-1) / 2
	return collision.Vec3{
		X: (col-centerCol)*cfg.TileSize + cfg.OriginX,
		Y: cfg.HeightOffset,
		Z: (row-centerRow)*cfg.TileSize + cfg.OriginZ,
	}
}

// ToGrid converts a world position to the nearest cell.
func ToGrid(v collision.Vec3, dims Dimensions, cfg WorldConfig) Position {
	row, col := ToGridF(v, dims, cfg)
	return Position{Row: int(math.Round(row)), Col: int(math.Round(col))}
}

// ToGridF converts a world position to fractional cell coordinates.
func ToGridF(v collision.Vec3, dims Dimensions, cfg WorldConfig) (row, col float64) {
	centerRow := float64(dims.Rows-1) / 2
	centerCol := float64(dims.Cols-1) / 2
	col = (v.X-cfg.OriginX)/cfg.TileSize + centerCol
	row = (v.Z-cfg.OriginZ)/cfg.TileSize + centerRow
	return row, col
}
