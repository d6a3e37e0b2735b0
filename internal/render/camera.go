package render

import "math"

// TileWidth is the number of terminal columns one tile occupies.
const TileWidth = 4

// Project maps fractional cell coordinates to isometric screen space before
// any camera offset. Moving one column goes right and down; moving one row
// goes left and down.
func Project(row, col float64) (x, y float64) {
	return (col - row) * TileWidth / 2, col + row
}

// Camera translates between cell coordinates and screen coordinates.
type Camera struct {
	OffsetX    int
	OffsetY    int
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
}

// NewCamera creates a camera for a viewport of viewW x viewH cells.
func NewCamera(viewW, viewH int) *Camera {
	return &Camera{ViewWidth: viewW, ViewHeight: viewH}
}

// Center repositions the camera so that the cell point (row, col) is in the
// middle of the viewport.
func (c *Camera) Center(row, col float64) {
	x, y := Project(row, col)
	c.OffsetX = int(math.Round(x)) - c.ViewWidth/2
	c.OffsetY = int(math.Round(y)) - c.ViewHeight/2
}

// WorldToScreen returns the leftmost screen column and the row of the tile
// at (row, col). visible is false when no part of the tile is on screen.
func (c *Camera) WorldToScreen(row, col float64) (sx, sy int, visible bool) {
	x, y := Project(row, col)
	sx = int(math.Round(x)) - c.OffsetX - TileWidth/2
	sy = int(math.Round(y)) - c.OffsetY
	visible = sx+TileWidth > 0 && sx < c.ViewWidth && sy >= 0 && sy < c.ViewHeight
	return
}
