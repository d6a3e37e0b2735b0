package system

import (
	"tilegrid/internal/collision"
	"tilegrid/internal/grid"
)

// Direction is one of the four grid directions.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// Delta returns the cell offset of one step in d. Up decreases the row.
func (d Direction) Delta() grid.Position {
	switch d {
	case DirUp:
		return grid.Position{Row: -1}
	case DirDown:
		return grid.Position{Row: 1}
	case DirLeft:
		return grid.Position{Col: -1}
	case DirRight:
		return grid.Position{Col: 1}
	}
	return grid.Position{}
}

// Offset returns the unit world-space vector of d: rows run along z and
// columns along x.
func (d Direction) Offset() collision.Vec3 {
	delta := d.Delta()
	return collision.Vec3{X: float64(delta.Col), Z: float64(delta.Row)}
}
