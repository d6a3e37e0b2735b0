package component

import (
	"tilegrid/internal/ecs"
	"tilegrid/internal/level"
)

const (
	CTagPlayer   ecs.ComponentType = 8
	CTagBlocking ecs.ComponentType = 9
	CKind        ecs.ComponentType = 10
)

// TagPlayer marks the player-controlled entity.
type TagPlayer struct{}

func (TagPlayer) Type() ecs.ComponentType { return CTagPlayer }

// TagBlocking marks an entity that stops movement into its cell.
type TagBlocking struct{}

func (TagBlocking) Type() ecs.ComponentType { return CTagBlocking }

// Kind records which level entity type an entity was built from.
type Kind struct {
	Entity level.EntityType
}

func (Kind) Type() ecs.ComponentType { return CKind }
