// Package factory turns level entity definitions into ECS entities.
package factory

import (
	"tilegrid/internal/collision"
	"tilegrid/internal/component"
	"tilegrid/internal/ecs"
	"tilegrid/internal/grid"
	"tilegrid/internal/level"

	"github.com/gdamore/tcell/v2"
)

// PlayerKey is the ECS key of the player entity.
const PlayerKey = "player"

// PlayerSize is the player's collision box.
var PlayerSize = collision.Vec3{X: 1, Y: 1, Z: 1}

// Sizes holds the collision box for each entity type. Doors are small so
// the player has to stand in the same cell to use one.
var Sizes = map[level.EntityType]collision.Vec3{
	level.TypeEnemy:       {X: 0.8, Y: 0.8, Z: 0.8},
	level.TypeCollectible: {X: 0.6, Y: 0.6, Z: 0.6},
	level.TypeDoor:        {X: 0.5, Y: 0.2, Z: 0.5},
	level.TypeObstacle:    {X: 1, Y: 1, Z: 1},
}

type look struct {
	glyph string
	color string
	order int
}

var looks = map[level.EntityType]look{
	level.TypeEnemy:       {"👹", "darkred", 5},
	level.TypeCollectible: {"💎", "gold", 3},
	level.TypeDoor:        {"🚪", "purple", 2},
	level.TypeObstacle:    {"🧱", "red", 4},
}

// SizeOf returns the collision box for t.
func SizeOf(t level.EntityType) collision.Vec3 {
	if s, ok := Sizes[t]; ok {
		return s
	}
	return collision.Vec3{X: 1, Y: 1, Z: 1}
}

// Spawn creates the entity described by def, keyed by def.ID(). Spawning the
// same definition twice returns the existing entity.
func Spawn(w *ecs.World, def level.EntityDefinition, dims grid.Dimensions) ecs.EntityID {
	id, created := w.CreateKeyed(def.ID())
	if !created {
		return id
	}
	size := SizeOf(def.Type)
	visual := grid.ToWorld(def.Position, dims, grid.DefaultWorld)
	visual.Y = size.Y / 2

	lk := looks[def.Type]
	color := lk.color
	if c := def.Color(); c != "" {
		color = c
	}

	w.Add(id, component.GridPos{Position: def.Position})
	w.Add(id, component.Size{Vec3: size})
	w.Add(id, component.Visual{Vec3: visual})
	w.Add(id, component.Kind{Entity: def.Type})
	w.Add(id, component.Renderable{
		Glyph:       lk.glyph,
		FGColor:     tcell.GetColor(color),
		RenderOrder: lk.order,
	})
	if def.Blocking() {
		w.Add(id, component.TagBlocking{})
	}

	switch def.Type {
	case level.TypeCollectible:
		w.Add(id, component.Collectible{Points: def.Points()})
	case level.TypeEnemy:
		w.Add(id, component.Hazard{Damage: def.Damage()})
	case level.TypeDoor:
		w.Add(id, component.Portal{Target: def.TargetLevel()})
	}
	return id
}

// SpawnAll creates one entity per definition and returns their IDs in order.
func SpawnAll(w *ecs.World, defs []level.EntityDefinition, dims grid.Dimensions) []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, Spawn(w, d, dims))
	}
	return ids
}

// NewPlayer creates the player entity at p.
func NewPlayer(w *ecs.World, p grid.Position, dims grid.Dimensions) ecs.EntityID {
	id, _ := w.CreateKeyed(PlayerKey)
	w.Add(id, component.GridPos{Position: p})
	w.Add(id, component.Size{Vec3: PlayerSize})
	w.Add(id, component.Visual{Vec3: grid.ToWorld(p, dims, grid.DefaultWorld)})
	w.Add(id, component.Renderable{
		Glyph:       "🧍",
		FGColor:     tcell.ColorBlue,
		RenderOrder: 10,
	})
	w.Add(id, component.TagPlayer{})
	return id
}

// CollisionObjects returns the world-space boxes of every blocking entity
// for which keep returns true. A nil keep includes them all.
func CollisionObjects(w *ecs.World, keep func(ecs.EntityID) bool) []collision.Object {
	ids := w.Query(component.CTagBlocking, component.CVisual, component.CSize)
	out := make([]collision.Object, 0, len(ids))
	for _, id := range ids {
		if keep != nil && !keep(id) {
			continue
		}
		out = append(out, collision.Object{
			Position: w.Get(id, component.CVisual).(component.Visual).Vec3,
			Size:     w.Get(id, component.CSize).(component.Size).Vec3,
		})
	}
	return out
}
