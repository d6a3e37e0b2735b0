package component

import (
	"tilegrid/internal/collision"
	"tilegrid/internal/ecs"
	"tilegrid/internal/grid"
)

const (
	CGridPos ecs.ComponentType = 1
	CSize    ecs.ComponentType = 2
	CVisual  ecs.ComponentType = 3
)

// GridPos is the logical cell an entity occupies.
type GridPos struct {
	grid.Position
}

func (GridPos) Type() ecs.ComponentType { return CGridPos }

// Size is the extent of an entity's collision box in world units.
type Size struct {
	collision.Vec3
}

func (Size) Type() ecs.ComponentType { return CSize }

// Visual is the world-space position an entity is drawn at.
type Visual struct {
	collision.Vec3
}

func (Visual) Type() ecs.ComponentType { return CVisual }
