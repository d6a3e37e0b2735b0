package system

import (
	"tilegrid/internal/component"
	"tilegrid/internal/ecs"
	"tilegrid/internal/store"
)

// DefaultContactCooldown is the number of frames between two hits from the
// same hazard (one second at 60 frames per second).
const DefaultContactCooldown = 60

// Interactor applies what happens when the player shares a cell with a
// collectible, a hazard or a portal.
type Interactor struct {
	ContactCooldown uint64
}

// NewInteractor returns an Interactor whose hazards hit at most once every
// cooldown frames.
func NewInteractor(cooldown uint64) *Interactor {
	if cooldown == 0 {
		cooldown = DefaultContactCooldown
	}
	return &Interactor{ContactCooldown: cooldown}
}

// Update runs one frame of interactions. settled reports whether the
// player's step animation has finished; portals only fire once it has.
// It reports whether the level changed.
func (in *Interactor) Update(s *store.Store, frame uint64, settled bool) bool {
	if s.Dead() {
		return false
	}
	w := s.World()
	here := s.PlayerGridPosition()

	var portal ecs.EntityID
	for _, id := range w.Query(component.CGridPos, component.CKind) {
		at := w.Get(id, component.CGridPos).(component.GridPos).Position == here
		if p, ok := w.Get(id, component.CPortal).(component.Portal); ok {
			if !at && p.Tripped {
				p.Tripped = false
				w.Add(id, p)
			}
			if at && portal == ecs.NilEntity {
				portal = id
			}
			continue
		}
		if !at || !s.Active(id) {
			continue
		}
		if c, ok := w.Get(id, component.CCollectible).(component.Collectible); ok {
			if s.CollectEntity(w.Key(id)) {
				s.AddScore(c.Points)
			}
		}
		if h, ok := w.Get(id, component.CHazard).(component.Hazard); ok {
			in.hit(s, id, h, frame)
		}
	}

	if portal == ecs.NilEntity || !settled || s.Dead() {
		return false
	}
	return in.enter(s, portal)
}

func (in *Interactor) hit(s *store.Store, id ecs.EntityID, h component.Hazard, frame uint64) {
	if h.Hit && frame-h.LastHit < in.ContactCooldown {
		return
	}
	h.Hit = true
	h.LastHit = frame
	s.World().Add(id, h)
	s.TakeDamage(h.Damage)
}

func (in *Interactor) enter(s *store.Store, id ecs.EntityID) bool {
	w := s.World()
	p := w.Get(id, component.CPortal).(component.Portal)
	if p.Tripped || !s.Active(id) {
		return false
	}
	if err := s.TransitionToLevel(p.Target); err != nil {
		p.Tripped = true
		w.Add(id, p)
		return false
	}
	return true
}
