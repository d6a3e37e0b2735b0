package system

import (
	"testing"

	"tilegrid/internal/level"
	"tilegrid/internal/store"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

const arenaLevel = `
id: arena
name: Arena
ground:
  - gggg
  - gwgg
  - gggg
spawn: {row: 0, col: 0}
entities:
  - type: obstacle
    position: {row: 0, col: 2}
  - type: collectible
    position: {row: 2, col: 0}
    metadata: {points: 7}
  - type: enemy
    position: {row: 2, col: 1}
    metadata: {damage: 4}
  - type: door
    position: {row: 2, col: 3}
    metadata: {targetLevel: other}
  - type: door
    position: {row: 0, col: 3}
    metadata: {targetLevel: missing}
`

const otherLevel = `
id: other
name: Other
ground:
  - gg
  - gg
spawn: {row: 1, col: 1}
`

func newArena(t *testing.T) (*store.Store, *logtest.Hook) {
	t.Helper()
	r := level.NewRegistry()
	for _, src := range []string{arenaLevel, otherLevel} {
		def, err := level.Parse([]byte(src))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if err := r.Add(def); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	logger, hook := logtest.NewNullLogger()
	s, err := store.New(r, store.Options{StartLevel: "arena"}, logrus.NewEntry(logger))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return s, hook
}

func warnings(hook *logtest.Hook) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			n++
		}
	}
	return n
}
