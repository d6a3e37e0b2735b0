package render

import (
	"strings"
	"testing"

	"tilegrid/internal/factory"
	"tilegrid/internal/grid"
	"tilegrid/internal/level"
	"tilegrid/internal/store"

	"github.com/gdamore/tcell/v2"
)

// newSimScreen creates an initialized 80x24 simulation screen.
func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(80, 24)
	return ss
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	levels, err := level.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	s, err := store.New(levels, store.Options{StartLevel: "demo1"}, nil)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return s
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteRune(runeAt(s, x, y))
	}
	return b.String()
}

func TestProject(t *testing.T) {
	tests := []struct {
		row, col float64
		x, y     float64
	}{
		{0, 0, 0, 0},
		{0, 1, 2, 1},
		{1, 0, -2, 1},
		{1, 1, 0, 2},
		{0.5, 0, -1, 0.5},
	}
	for _, tc := range tests {
		x, y := Project(tc.row, tc.col)
		if x != tc.x || y != tc.y {
			t.Errorf("Project(%v, %v) = (%v, %v); want (%v, %v)", tc.row, tc.col, x, y, tc.x, tc.y)
		}
	}
}

func TestCameraCentersOnTarget(t *testing.T) {
	c := NewCamera(80, 19)
	c.Center(3, 3)

	sx, sy, visible := c.WorldToScreen(3, 3)
	if !visible || sx != 38 || sy != 9 {
		t.Fatalf("WorldToScreen(3,3) = (%d, %d, %v); want (38, 9, true)", sx, sy, visible)
	}
	if _, _, visible := c.WorldToScreen(100, 0); visible {
		t.Error("a far away cell should not be visible")
	}
}

func TestDrawFrame(t *testing.T) {
	screen := newSimScreen(t)
	s := newStore(t)
	r := NewRenderer(screen)

	r.DrawFrame(s)

	// The player at (1,1) is centred: tile starts at column 38, row 9.
	if got := runeAt(screen, 39, 9); got != '🧍' {
		t.Errorf("player cell = %q; want the player glyph", got)
	}
	// Stone corner (0,0) sits two rows above the player.
	if got := runeAt(screen, 38, 7); got != '▒' {
		t.Errorf("corner tile = %q; want stone", got)
	}
	// Collectible at (1,2).
	if got := runeAt(screen, 41, 10); got != '💎' {
		t.Errorf("collectible cell = %q; want the collectible glyph", got)
	}

	s.CollectEntity("collectible-1-2")
	r.DrawFrame(s)
	if got := runeAt(screen, 41, 10); got != '░' {
		t.Errorf("collected cell = %q; want bare grass", got)
	}
}

func TestDrawFrameEntityOffGrid(t *testing.T) {
	screen := newSimScreen(t)
	s := newStore(t)
	r := NewRenderer(screen)

	// Spawned straight into the world, bypassing the store's bounds check.
	factory.Spawn(s.World(), level.EntityDefinition{
		Type:     level.TypeEnemy,
		Position: grid.Position{Row: 7, Col: 3},
	}, s.Grid().Dimensions())

	r.DrawFrame(s)

	sx, sy, visible := r.Camera().WorldToScreen(7, 3)
	if !visible {
		t.Fatal("cell (7,3) should be on screen")
	}
	if got := runeAt(screen, sx+1, sy); got != '👹' {
		t.Errorf("off-grid enemy = %q; want the enemy glyph", got)
	}
	if _, _, style, _ := screen.GetContent(sx+1, sy); bgOf(style) != tcell.ColorBlack {
		t.Errorf("off-grid background = %v; want black", bgOf(style))
	}
}

func TestDrawHUD(t *testing.T) {
	screen := newSimScreen(t)
	r := NewRenderer(screen)

	h := HUD{
		Player:    "ada",
		Level:     "Garden Path",
		Health:    90,
		MaxHealth: 100,
		Score:     25,
		Messages:  []string{"old", "Collected +10", "Entered Stone Arena"},
	}
	r.DrawHUD(h)

	if got := runeAt(screen, 0, 19); got != '─' {
		t.Errorf("separator = %q", got)
	}
	status := rowText(screen, 20)
	if !strings.HasPrefix(status, "[ada]  Garden Path   HP: 90/100   Score: 25") {
		t.Errorf("status line = %q", status)
	}
	if !strings.HasPrefix(rowText(screen, 21), Controls) {
		t.Errorf("controls line = %q", rowText(screen, 21))
	}
	if !strings.HasPrefix(rowText(screen, 22), "Collected +10") ||
		!strings.HasPrefix(rowText(screen, 23), "Entered Stone Arena") {
		t.Errorf("messages = %q / %q", rowText(screen, 22), rowText(screen, 23))
	}
}

func TestDrawHUDDefeatBanner(t *testing.T) {
	screen := newSimScreen(t)
	r := NewRenderer(screen)
	r.DrawHUD(HUD{Level: "Garden Path", MaxHealth: 100, Dead: true})

	found := false
	for y := 0; y < 19; y++ {
		if strings.Contains(rowText(screen, y), "YOU WERE DEFEATED") {
			found = true
		}
	}
	if !found {
		t.Error("defeat banner not drawn")
	}
}

func bgOf(style tcell.Style) tcell.Color {
	_, bg, _ := style.Decompose()
	return bg
}
