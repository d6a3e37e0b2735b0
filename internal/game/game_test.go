package game

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tilegrid/internal/grid"
	"tilegrid/internal/level"
	"tilegrid/internal/store"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// newSimScreen creates an initialized 80x24 simulation screen.
func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(80, 24)
	t.Cleanup(ss.Fini)
	return ss
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	levels, err := level.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if opts.MoveSpeed == 0 {
		opts.MoveSpeed = 0.25
	}
	if opts.HoldFrames == 0 {
		opts.HoldFrames = 2
	}
	logger, _ := logtest.NewNullLogger()
	g, err := New(newSimScreen(t), levels, opts, logrus.NewEntry(logger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func ticks(g *Game, n int) {
	for i := 0; i < n; i++ {
		g.tick()
	}
}

type recordingPublisher struct {
	sessions []string
	snaps    []store.Snapshot
}

func (p *recordingPublisher) Publish(session string, snap store.Snapshot) {
	p.sessions = append(p.sessions, session)
	p.snaps = append(p.snaps, snap)
}

func TestTapMovesOneCellAndCollects(t *testing.T) {
	g := newTestGame(t, Options{})
	g.handleEvent(key('d'))
	ticks(g, 8)

	if p := g.store.PlayerGridPosition(); p != (grid.Position{Row: 1, Col: 2}) {
		t.Fatalf("player at %+v; want (1,2)", p)
	}
	if g.store.Score() != 10 {
		t.Fatalf("score = %d; want 10", g.store.Score())
	}
	if g.runLog.ItemsCollected != 1 {
		t.Errorf("items collected = %d; want 1", g.runLog.ItemsCollected)
	}
	if last := g.messages[len(g.messages)-1]; last != "+10 points" {
		t.Errorf("last message = %q", last)
	}
}

func TestDoorTransitionsAfterStepSettles(t *testing.T) {
	g := newTestGame(t, Options{})
	g.store.SetPlayerGridPosition(grid.Position{Row: 5, Col: 4})
	g.handleEvent(key('d'))

	ticks(g, 3)
	if g.store.LevelID() != "demo1" {
		t.Fatal("door fired before the step finished")
	}
	ticks(g, 3)
	if g.store.LevelID() != "demo2" {
		t.Fatalf("level = %q; want demo2", g.store.LevelID())
	}
	if p := g.store.PlayerGridPosition(); p != (grid.Position{Row: 5, Col: 3}) {
		t.Errorf("player at %+v; want demo2 spawn", p)
	}
	if !strings.Contains(g.messages[len(g.messages)-1], "Stone Arena") {
		t.Errorf("last message = %q", g.messages[len(g.messages)-1])
	}
}

func TestFreeMovement(t *testing.T) {
	g := newTestGame(t, Options{Movement: "free", FreeSpeed: 0.1, HoldFrames: 100})
	start := g.store.PlayerVisualPosition()
	g.handleEvent(key('s'))
	ticks(g, 5)
	if v := g.store.PlayerVisualPosition(); v.Z <= start.Z {
		t.Fatalf("visual z = %v; want it to grow from %v", v.Z, start.Z)
	}
}

func TestQuitKey(t *testing.T) {
	g := newTestGame(t, Options{})
	g.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if !g.quit {
		t.Fatal("escape should quit")
	}
}

func TestRestartOnlyAfterDefeat(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)
	g := newTestGame(t, Options{SaveRunLog: true, Player: "ada"})

	g.store.AddScore(5)
	g.handleEvent(key('r'))
	if g.store.Score() != 5 {
		t.Fatal("restart must be ignored while alive")
	}

	g.store.TakeDamage(store.DefaultHealth)
	if !g.saved || g.runLog.Outcome != OutcomeDefeat {
		t.Fatalf("run log = %+v; want a saved defeat", g.runLog)
	}
	data, err := os.ReadFile(filepath.Join(tmp, "tilegrid", "runs.jsonl"))
	if err != nil {
		t.Fatalf("runs.jsonl: %v", err)
	}
	if !strings.Contains(string(data), `"outcome":"defeat"`) || !strings.Contains(string(data), `"player":"ada"`) {
		t.Errorf("run log = %s", data)
	}

	// Movement is ignored while defeated.
	g.handleEvent(key('d'))
	ticks(g, 4)
	if p := g.store.PlayerGridPosition(); p != (grid.Position{Row: 1, Col: 1}) {
		t.Fatalf("defeated player moved to %+v", p)
	}

	g.handleEvent(key('r'))
	if g.store.Dead() || g.store.Score() != 0 || g.saved {
		t.Fatalf("after restart: dead=%v score=%d saved=%v", g.store.Dead(), g.store.Score(), g.saved)
	}
}

func TestTickPublishesSnapshots(t *testing.T) {
	g := newTestGame(t, Options{Session: "sess-1"})
	pub := &recordingPublisher{}
	g.SetPublisher(pub)
	ticks(g, 2)

	if len(pub.snaps) != 2 {
		t.Fatalf("published %d snapshots; want 2", len(pub.snaps))
	}
	if pub.sessions[0] != "sess-1" || pub.snaps[1].Frame != 2 || pub.snaps[1].LevelID != "demo1" {
		t.Errorf("snapshot = %q %+v", pub.sessions[0], pub.snaps[1])
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g := newTestGame(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if g.runLog.Outcome != OutcomeQuit {
		t.Errorf("outcome = %q; want quit", g.runLog.Outcome)
	}
}

func TestRunStopsOnQuitKey(t *testing.T) {
	g := newTestGame(t, Options{})
	done := make(chan error, 1)
	go func() { done <- g.Run(context.Background()) }()
	g.screen.PostEvent(key('q')) //nolint:errcheck

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after q")
	}
}
