package store

// EventKind identifies what changed in the store.
type EventKind uint8

const (
	EventScore EventKind = iota
	EventCollect
	EventDamage
	EventDefeated
	EventTransition
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventScore:
		return "score"
	case EventCollect:
		return "collect"
	case EventDamage:
		return "damage"
	case EventDefeated:
		return "defeated"
	case EventTransition:
		return "transition"
	case EventReset:
		return "reset"
	}
	return "unknown"
}

// Event is delivered to subscribers after the mutation it describes.
type Event struct {
	Kind   EventKind
	Amount int    // points for EventScore, damage for EventDamage
	Entity string // entity ID for EventCollect
	Level  string // level ID for EventTransition, EventReset, EventDefeated
}
