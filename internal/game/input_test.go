package game

import (
	"testing"

	"tilegrid/internal/system"

	"github.com/gdamore/tcell/v2"
)

func TestKeyToAction(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), ActionMoveUp},
		{"S", tcell.NewEventKey(tcell.KeyRune, 'S', tcell.ModNone), ActionMoveDown},
		{"a", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), ActionMoveLeft},
		{"d", tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), ActionMoveRight},
		{"up arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ActionMoveUp},
		{"down arrow", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), ActionMoveDown},
		{"left arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), ActionMoveLeft},
		{"right arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), ActionMoveRight},
		{"r", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), ActionRestart},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), ActionQuit},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{"other", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), ActionNone},
	}
	for _, tc := range tests {
		if got := keyToAction(tc.ev); got != tc.want {
			t.Errorf("%s: keyToAction = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestHeldKeysLastPressedWins(t *testing.T) {
	h := NewHeldKeys(10)
	if h.Current() != system.DirNone {
		t.Fatal("nothing should be held initially")
	}
	h.Press(system.DirUp, 0)
	h.Press(system.DirRight, 1)
	if h.Current() != system.DirRight {
		t.Fatalf("current = %v; want right", h.Current())
	}

	// An auto-repeat of a held key refreshes it without reordering.
	h.Press(system.DirUp, 2)
	if h.Current() != system.DirRight {
		t.Fatalf("current = %v; want right after an up repeat", h.Current())
	}

	if held := h.Held(); len(held) != 2 || held[0] != system.DirUp || held[1] != system.DirRight {
		t.Fatalf("held = %v; want [up right]", held)
	}
}

func TestHeldKeysExpire(t *testing.T) {
	h := NewHeldKeys(3)
	h.Press(system.DirLeft, 0)
	h.Press(system.DirDown, 2)

	h.Expire(2)
	if len(h.Held()) != 2 {
		t.Fatalf("held = %v; want both inside the window", h.Held())
	}
	h.Expire(3)
	if h.Current() != system.DirDown || len(h.Held()) != 1 {
		t.Fatalf("held = %v; want only down", h.Held())
	}
	h.Expire(5)
	if h.Current() != system.DirNone {
		t.Fatalf("held = %v; want none", h.Held())
	}
}

func TestSecsToTicks(t *testing.T) {
	tests := []struct {
		secs float64
		rate int
		want uint64
	}{
		{1, 60, 60},
		{0.5, 60, 30},
		{0.001, 60, 1},
		{0, 60, 0},
	}
	for _, tc := range tests {
		if got := SecsToTicks(tc.secs, tc.rate); got != tc.want {
			t.Errorf("SecsToTicks(%v, %d) = %d; want %d", tc.secs, tc.rate, got, tc.want)
		}
	}
}
