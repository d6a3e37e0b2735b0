// Package grid holds the ground layer of a level and converts between grid
// cells and world coordinates.
package grid

// Position is an integer (row, col) cell coordinate.
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Add returns p offset by d.
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Dimensions is the size of a grid in cells.
type Dimensions struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// DimensionsOf returns the size of a ground grid. Columns are taken from the
// first row; an empty grid has zero columns.
func DimensionsOf(ground [][]Ground) Dimensions {
	d := Dimensions{Rows: len(ground)}
	if d.Rows > 0 {
		d.Cols = len(ground[0])
	}
	return d
}

// Grid holds the tile layer for one level.
type Grid struct {
	Rows, Cols int
	Tiles      [][]Tile
}

// New builds a Grid from a ground grid. Rows shorter than the first row are
// padded with blocking tiles so every lookup inside Dimensions is safe.
func New(ground [][]Ground) *Grid {
	dims := DimensionsOf(ground)
	tiles := make([][]Tile, dims.Rows)
	for r := range tiles {
		tiles[r] = make([]Tile, dims.Cols)
		for c := range tiles[r] {
			if c < len(ground[r]) {
				tiles[r][c] = MakeTile(ground[r][c])
			} else {
				tiles[r][c] = Tile{Blocking: true}
			}
		}
	}
	return &Grid{Rows: dims.Rows, Cols: dims.Cols, Tiles: tiles}
}

// Dimensions returns the grid size.
func (g *Grid) Dimensions() Dimensions {
	return Dimensions{Rows: g.Rows, Cols: g.Cols}
}

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// At returns a pointer to the tile at p. Panics if out of bounds.
func (g *Grid) At(p Position) *Tile {
	return &g.Tiles[p.Row][p.Col]
}

// IsWalkable reports whether p is in bounds and not a blocking tile.
func (g *Grid) IsWalkable(p Position) bool {
	if !g.InBounds(p) {
		return false
	}
	return !g.Tiles[p.Row][p.Col].Blocking
}

// BlockingCells returns every blocking cell in row-major order.
func (g *Grid) BlockingCells() []Position {
	var out []Position
	for r := range g.Tiles {
		for c := range g.Tiles[r] {
			if g.Tiles[r][c].Blocking {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}
