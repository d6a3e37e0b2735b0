package component

import "tilegrid/internal/ecs"

const (
	CCollectible ecs.ComponentType = 12
	CHazard      ecs.ComponentType = 13
	CPortal      ecs.ComponentType = 14
)

// Collectible awards Points once when the player steps on it.
type Collectible struct {
	Points int
}

func (Collectible) Type() ecs.ComponentType { return CCollectible }

// Hazard damages the player while they share its cell. LastHit is the
// frame of the most recent hit; Hit is false until the first one.
type Hazard struct {
	Damage  int
	LastHit uint64
	Hit     bool
}

func (Hazard) Type() ecs.ComponentType { return CHazard }

// Portal moves the player to Target. Tripped holds the portal shut until
// the player leaves its cell: it is set when the target could not be loaded
// and when the player spawns on the portal.
type Portal struct {
	Target  string
	Tripped bool
}

func (Portal) Type() ecs.ComponentType { return CPortal }
