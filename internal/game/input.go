package game

import (
	"tilegrid/internal/system"

	"github.com/gdamore/tcell/v2"
)

// Action represents a player-requested game action.
type Action uint8

const (
	ActionNone Action = iota
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionRestart
	ActionQuit
)

// keyToAction maps a tcell key event to a game action.
func keyToAction(ev *tcell.EventKey) Action {
	// Named keys.
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionMoveUp
	case tcell.KeyDown:
		return ActionMoveDown
	case tcell.KeyRight:
		return ActionMoveRight
	case tcell.KeyLeft:
		return ActionMoveLeft
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	}

	// Rune keys.
	switch ev.Rune() {
	case 'w', 'W':
		return ActionMoveUp
	case 's', 'S':
		return ActionMoveDown
	case 'a', 'A':
		return ActionMoveLeft
	case 'd', 'D':
		return ActionMoveRight
	case 'r', 'R':
		return ActionRestart
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// actionToDirection converts a movement action to a grid direction.
func actionToDirection(a Action) system.Direction {
	switch a {
	case ActionMoveUp:
		return system.DirUp
	case ActionMoveDown:
		return system.DirDown
	case ActionMoveLeft:
		return system.DirLeft
	case ActionMoveRight:
		return system.DirRight
	}
	return system.DirNone
}

type heldKey struct {
	dir  system.Direction
	last uint64 // frame of the most recent key event
}

// HeldKeys tracks which directions count as held. Terminals only report
// presses and auto-repeats, so a direction stays held for Window frames
// after its last event. The most recently pressed direction wins.
type HeldKeys struct {
	Window uint64
	stack  []heldKey // oldest first
}

// NewHeldKeys returns a tracker with the given hold window in frames.
func NewHeldKeys(window uint64) *HeldKeys {
	if window == 0 {
		window = 1
	}
	return &HeldKeys{Window: window}
}

// Press records a key event for d at frame. A direction pressed again moves
// back to the top of the stack only when it had been released.
func (h *HeldKeys) Press(d system.Direction, frame uint64) {
	if d == system.DirNone {
		return
	}
	for i := range h.stack {
		if h.stack[i].dir == d {
			h.stack[i].last = frame
			return
		}
	}
	h.stack = append(h.stack, heldKey{dir: d, last: frame})
}

// Expire releases every direction whose last event is older than the
// hold window at frame.
func (h *HeldKeys) Expire(frame uint64) {
	kept := h.stack[:0]
	for _, k := range h.stack {
		if frame-k.last < h.Window {
			kept = append(kept, k)
		}
	}
	h.stack = kept
}

// Current returns the most recently pressed held direction, or DirNone.
func (h *HeldKeys) Current() system.Direction {
	if len(h.stack) == 0 {
		return system.DirNone
	}
	return h.stack[len(h.stack)-1].dir
}

// Held returns every held direction, oldest first.
func (h *HeldKeys) Held() []system.Direction {
	out := make([]system.Direction, len(h.stack))
	for i, k := range h.stack {
		out[i] = k.dir
	}
	return out
}

// Clear releases everything.
func (h *HeldKeys) Clear() { h.stack = h.stack[:0] }
