// Package level holds the hand-authored level tables and the registry the
// game looks levels up in.
package level

import (
	"fmt"

	"tilegrid/internal/grid"
)

// EntityType names the kind of a level entity.
type EntityType string

const (
	TypeEnemy       EntityType = "enemy"
	TypeCollectible EntityType = "collectible"
	TypeDoor        EntityType = "door"
	TypeObstacle    EntityType = "obstacle"
)

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	switch t {
	case TypeEnemy, TypeCollectible, TypeDoor, TypeObstacle:
		return true
	}
	return false
}

const (
	DefaultPoints = 10
	DefaultDamage = 10
)

// Metadata carries optional per-entity or per-level properties.
type Metadata map[string]any

func (m Metadata) intValue(key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func (m Metadata) stringValue(key string) string {
	s, _ := m[key].(string)
	return s
}

// EntityDefinition places one entity in a level.
type EntityDefinition struct {
	Type     EntityType    `yaml:"type" json:"type"`
	Position grid.Position `yaml:"position" json:"position"`
	Metadata Metadata      `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// ID returns the entity's stable identifier, "<type>-<row>-<col>".
func (d EntityDefinition) ID() string {
	return EntityID(d.Type, d.Position)
}

// EntityID builds the identifier for an entity of type t at p.
func EntityID(t EntityType, p grid.Position) string {
	return fmt.Sprintf("%s-%d-%d", t, p.Row, p.Col)
}

// Points returns the collectible's point value. A missing or zero value
// means DefaultPoints.
func (d EntityDefinition) Points() int {
	if n, ok := d.Metadata.intValue("points"); ok && n != 0 {
		return n
	}
	return DefaultPoints
}

// Damage returns the enemy's contact damage.
func (d EntityDefinition) Damage() int {
	if n, ok := d.Metadata.intValue("damage"); ok {
		return n
	}
	return DefaultDamage
}

// TargetLevel returns the door's destination level ID, or "".
func (d EntityDefinition) TargetLevel() string {
	return d.Metadata.stringValue("targetLevel")
}

// Color returns the colour override, or "".
func (d EntityDefinition) Color() string {
	return d.Metadata.stringValue("color")
}

// Blocking reports whether the entity stops player movement. Obstacles block
// by default; metadata "blocking" overrides the type default.
func (d EntityDefinition) Blocking() bool {
	if b, ok := d.Metadata["blocking"].(bool); ok {
		return b
	}
	return d.Type == TypeObstacle
}

// Definition is one hand-authored level.
type Definition struct {
	ID         string
	Name       string
	GroundGrid [][]grid.Ground
	Entities   []EntityDefinition
	SpawnPoint grid.Position
	Metadata   Metadata
}

// Dimensions returns the level's grid size.
func (d *Definition) Dimensions() grid.Dimensions {
	return grid.DimensionsOf(d.GroundGrid)
}

// Doors returns the door definitions in declaration order.
func (d *Definition) Doors() []EntityDefinition {
	var out []EntityDefinition
	for _, e := range d.Entities {
		if e.Type == TypeDoor {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks that the grid is rectangular and non-empty, that the
// spawn point and every entity lie inside it, that the spawn cell is
// walkable and that entity IDs are unique.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	dims := d.Dimensions()
	if dims.Rows == 0 || dims.Cols == 0 {
		return fmt.Errorf("%w: level %q has an empty ground grid", ErrInvalid, d.ID)
	}
	for r, row := range d.GroundGrid {
		if len(row) != dims.Cols {
			return fmt.Errorf("%w: level %q row %d has %d cells, want %d", ErrInvalid, d.ID, r, len(row), dims.Cols)
		}
	}
	g := grid.New(d.GroundGrid)
	if !g.InBounds(d.SpawnPoint) {
		return fmt.Errorf("%w: level %q spawn %+v outside %dx%d grid", ErrInvalid, d.ID, d.SpawnPoint, dims.Rows, dims.Cols)
	}
	if !g.IsWalkable(d.SpawnPoint) {
		return fmt.Errorf("%w: level %q spawn %+v is not walkable", ErrInvalid, d.ID, d.SpawnPoint)
	}
	seen := make(map[string]bool, len(d.Entities))
	for _, e := range d.Entities {
		if !e.Type.Valid() {
			return fmt.Errorf("%w: level %q has unknown entity type %q", ErrInvalid, d.ID, e.Type)
		}
		if !g.InBounds(e.Position) {
			return fmt.Errorf("%w: level %q entity %s outside grid", ErrInvalid, d.ID, e.ID())
		}
		if seen[e.ID()] {
			return fmt.Errorf("%w: level %q duplicate entity %s", ErrInvalid, d.ID, e.ID())
		}
		seen[e.ID()] = true
	}
	return nil
}
