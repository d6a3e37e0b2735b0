package system

import (
	"tilegrid/internal/component"
	"tilegrid/internal/ecs"
	"tilegrid/internal/grid"
	"tilegrid/internal/store"
)

// MoveResult describes the outcome of a TryMove call.
type MoveResult uint8

const (
	MoveOK         MoveResult = iota // position updated
	MoveBlocked                      // blocking tile or out of bounds
	MoveObstructed                   // a blocking entity occupies the cell
)

// BlockerAt returns the first active blocking entity at p, or NilEntity.
func BlockerAt(s *store.Store, p grid.Position) ecs.EntityID {
	w := s.World()
	for _, id := range w.Query(component.CTagBlocking, component.CGridPos) {
		if id == s.PlayerID() || !s.Active(id) {
			continue
		}
		if w.Get(id, component.CGridPos).(component.GridPos).Position == p {
			return id
		}
	}
	return ecs.NilEntity
}

// CanEnter reports whether the player may step into p.
func CanEnter(s *store.Store, p grid.Position) (MoveResult, ecs.EntityID) {
	if !s.Grid().InBounds(p) {
		return MoveBlocked, ecs.NilEntity
	}
	if id := BlockerAt(s, p); id != ecs.NilEntity {
		return MoveObstructed, id
	}
	if !s.Grid().IsWalkable(p) {
		return MoveBlocked, ecs.NilEntity
	}
	return MoveOK, ecs.NilEntity
}

// TryMove moves the player one cell in dir when the target cell allows it.
// Returns the outcome and, for MoveObstructed, the blocking entity.
func TryMove(s *store.Store, dir Direction) (MoveResult, ecs.EntityID) {
	if dir == DirNone {
		return MoveBlocked, ecs.NilEntity
	}
	next := s.PlayerGridPosition().Add(dir.Delta())
	result, blocker := CanEnter(s, next)
	if result == MoveOK {
		s.SetPlayerGridPosition(next)
	}
	return result, blocker
}

// DefaultStepSpeed is the fraction of a step animated per frame.
const DefaultStepSpeed = 0.02

// Stepper moves the player cell by cell. The logical position changes as
// soon as a step starts; the visual position then slides from the old cell
// to the new one over 1/Speed frames. A new step can only start once the
// previous one has finished.
type Stepper struct {
	Speed float64

	progress float64 // 1 = step just started, 0 = arrived
	moving   Direction
}

// NewStepper returns a Stepper advancing speed of a step per frame.
func NewStepper(speed float64) *Stepper {
	if speed <= 0 {
		speed = DefaultStepSpeed
	}
	return &Stepper{Speed: speed}
}

// Settled reports whether no step is in progress.
func (m *Stepper) Settled() bool { return m.progress == 0 }

// Progress returns the fraction of the current step still to animate.
func (m *Stepper) Progress() float64 { return m.progress }

// Reset cancels any step in progress, e.g. after a level change.
func (m *Stepper) Reset() {
	m.progress = 0
	m.moving = DirNone
}

// Update advances one frame. want is the direction currently requested by
// input, or DirNone. It returns the outcome of a step attempt, or MoveOK
// with started=false when no step was attempted.
func (m *Stepper) Update(s *store.Store, want Direction) (result MoveResult, started bool) {
	result = MoveOK
	if m.progress == 0 && want != DirNone {
		result, _ = TryMove(s, want)
		if result == MoveOK {
			m.moving = want
			m.progress = 1
			started = true
		}
	}

	if m.progress > 0 {
		m.progress -= m.Speed
		if m.progress <= 0 {
			m.progress = 0
			m.moving = DirNone
		}
	}

	target := grid.ToWorld(s.PlayerGridPosition(), s.Grid().Dimensions(), grid.DefaultWorld)
	if m.progress > 0 {
		target = target.Sub(m.moving.Offset().Scale(m.progress))
	}
	s.SetPlayerVisualPosition(target)
	return result, started
}
