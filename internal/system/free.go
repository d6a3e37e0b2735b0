package system

import (
	"tilegrid/internal/collision"
	"tilegrid/internal/factory"
	"tilegrid/internal/grid"
	"tilegrid/internal/store"
)

// DefaultFreeSpeed is the distance in world units moved per frame in free
// movement.
const DefaultFreeSpeed = 0.1

// freeFootprint is the player's box in free movement. It is slightly smaller
// than a tile so the player can slide along a wall it is touching.
var freeFootprint = collision.Vec3{X: 0.9, Y: 1, Z: 0.9}

// FreeMover moves the player continuously in world space, blocked by
// blocking entities, blocking tiles and the edge of the grid.
type FreeMover struct {
	Speed float64
}

// NewFreeMover returns a FreeMover moving speed units per frame.
func NewFreeMover(speed float64) *FreeMover {
	if speed <= 0 {
		speed = DefaultFreeSpeed
	}
	return &FreeMover{Speed: speed}
}

// Velocity sums the held directions into a per-frame displacement.
// Opposite directions cancel out.
func (f *FreeMover) Velocity(held []Direction) collision.Vec3 {
	var v collision.Vec3
	seen := make(map[Direction]bool, len(held))
	for _, d := range held {
		if seen[d] {
			continue
		}
		seen[d] = true
		v = v.Add(d.Offset())
	}
	return v.Scale(f.Speed)
}

// Obstacles returns every box the player cannot overlap on the current
// level: active blocking entities and blocking tiles.
func Obstacles(s *store.Store) []collision.Object {
	obstacles := factory.CollisionObjects(s.World(), s.Active)
	g := s.Grid()
	dims := g.Dimensions()
	for _, p := range g.BlockingCells() {
		obstacles = append(obstacles, collision.Object{
			Position: grid.ToWorld(p, dims, grid.DefaultWorld),
			Size:     collision.Vec3{X: 1, Y: 1, Z: 1},
		})
	}
	return obstacles
}

// Update applies one frame of movement. The move is all or nothing: a
// candidate position that collides or leaves the grid is discarded. The
// player's grid position follows the cell under the visual position.
// It reports whether the player moved.
func (f *FreeMover) Update(s *store.Store, held []Direction) bool {
	v := f.Velocity(held)
	if v == (collision.Vec3{}) {
		return false
	}
	dims := s.Grid().Dimensions()
	next := s.PlayerVisualPosition().Add(v)
	cell := grid.ToGrid(next, dims, grid.DefaultWorld)
	if !s.Grid().InBounds(cell) {
		return false
	}
	if collision.CollidesWithAny(collision.Object{Position: next, Size: freeFootprint}, Obstacles(s)) {
		return false
	}
	s.SetPlayerVisualPosition(next)
	if cell != s.PlayerGridPosition() {
		s.SetPlayerGridPosition(cell)
	}
	return true
}
