package store

import (
	"sort"
	"strings"

	"tilegrid/internal/collision"
	"tilegrid/internal/component"
	"tilegrid/internal/grid"
	"tilegrid/internal/level"
)

// Snapshot is a self-contained copy of the store for renderers running
// elsewhere. It shares no memory with the Store.
type Snapshot struct {
	Frame      uint64            `json:"frame"`
	LevelID    string            `json:"levelId"`
	LevelName  string            `json:"levelName"`
	Dimensions grid.Dimensions   `json:"dimensions"`
	Ground     []string          `json:"ground"`
	Legend     map[string]string `json:"legend"`
	Player     PlayerSnapshot    `json:"player"`
	Score      int               `json:"score"`
	Health     int               `json:"health"`
	Dead       bool              `json:"dead"`
	Entities   []EntitySnapshot  `json:"entities"`
	Collected  []string          `json:"collected"`
}

// PlayerSnapshot is the player's part of a Snapshot.
type PlayerSnapshot struct {
	Grid   grid.Position  `json:"grid"`
	Visual collision.Vec3 `json:"visual"`
}

// EntitySnapshot describes one level entity.
type EntitySnapshot struct {
	ID        string           `json:"id"`
	Type      level.EntityType `json:"type"`
	Position  grid.Position    `json:"position"`
	World     collision.Vec3   `json:"world"`
	Size      collision.Vec3   `json:"size"`
	Blocking  bool             `json:"blocking"`
	Collected bool             `json:"collected"`
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:      s.frame,
		LevelID:    s.def.ID,
		LevelName:  s.def.Name,
		Dimensions: s.grid.Dimensions(),
		Player: PlayerSnapshot{
			Grid:   s.PlayerGridPosition(),
			Visual: s.playerVisual,
		},
		Score:  s.score,
		Health: s.health,
		Dead:   s.Dead(),
	}

	snap.Ground = make([]string, len(s.def.GroundGrid))
	snap.Legend = make(map[string]string)
	for r, row := range s.def.GroundGrid {
		var b strings.Builder
		for _, g := range row {
			b.WriteString(string(g))
			if name, ok := grid.Names[g]; ok {
				snap.Legend[string(g)] = name
			}
		}
		snap.Ground[r] = b.String()
	}

	w := s.world
	for _, id := range w.Query(component.CKind, component.CGridPos) {
		key := w.Key(id)
		es := EntitySnapshot{
			ID:        key,
			Type:      w.Get(id, component.CKind).(component.Kind).Entity,
			Position:  w.Get(id, component.CGridPos).(component.GridPos).Position,
			Blocking:  w.Has(id, component.CTagBlocking),
			Collected: s.collected[key],
		}
		if v, ok := w.Get(id, component.CVisual).(component.Visual); ok {
			es.World = v.Vec3
		}
		if sz, ok := w.Get(id, component.CSize).(component.Size); ok {
			es.Size = sz.Vec3
		}
		snap.Entities = append(snap.Entities, es)
	}

	for id := range s.collected {
		snap.Collected = append(snap.Collected, id)
	}
	sort.Strings(snap.Collected)
	return snap
}
